package cli

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestSpinnerSilentWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(&buf, "Cracking...")
	s.Start()
	time.Sleep(120 * time.Millisecond)
	s.Stop()

	if buf.Len() != 0 {
		t.Errorf("spinner wrote %q to a non-terminal", buf.String())
	}
	if s.Cancelled() {
		t.Error("Stop should not count as parent cancellation")
	}
}

func TestSpinnerCancelledByContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinnerWithContext(ctx, &bytes.Buffer{}, "Cracking...")
	s.Start()
	cancel()

	if !s.Cancelled() {
		t.Error("spinner should report cancellation after its context ends")
	}
	s.Stop()
}

func TestSpinnerTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	s := newSpinnerWithContext(ctx, &bytes.Buffer{}, "Cracking...")
	s.Start()
	<-ctx.Done()
	if !s.Cancelled() {
		t.Error("spinner should report cancellation after timeout")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner(&bytes.Buffer{}, "Cracking...")
	s.Start()
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	s := newSpinner(&bytes.Buffer{}, "never started")
	s.Stop()
}

func TestIsTerminal(t *testing.T) {
	if isTerminal(&bytes.Buffer{}) {
		t.Error("a buffer is not a terminal")
	}
}
