package observability

import (
	"context"
	"time"
)

// MultiCrackHooks fans crack events out to several backends.
type MultiCrackHooks []CrackHooks

func (m MultiCrackHooks) OnCrackStart(ctx context.Context, inputLen int) {
	for _, h := range m {
		h.OnCrackStart(ctx, inputLen)
	}
}

func (m MultiCrackHooks) OnBranch(ctx context.Context, scheme string, depth int, accepted bool) {
	for _, h := range m {
		h.OnBranch(ctx, scheme, depth, accepted)
	}
}

func (m MultiCrackHooks) OnCrackComplete(ctx context.Context, status string, found, explored int, d time.Duration, err error) {
	for _, h := range m {
		h.OnCrackComplete(ctx, status, found, explored, d, err)
	}
}

// MultiPipelineHooks fans pipeline events out to several backends.
type MultiPipelineHooks []PipelineHooks

func (m MultiPipelineHooks) OnPipelineStart(ctx context.Context, direction string, steps int) {
	for _, h := range m {
		h.OnPipelineStart(ctx, direction, steps)
	}
}

func (m MultiPipelineHooks) OnPipelineComplete(ctx context.Context, direction string, steps int, d time.Duration, err error) {
	for _, h := range m {
		h.OnPipelineComplete(ctx, direction, steps, d, err)
	}
}
