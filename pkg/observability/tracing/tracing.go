// Package tracing records observability hooks as OpenTelemetry spans.
//
// Hooks receive completion events with their duration, so pipeline and
// crack runs become spans back-dated to their start. Per-branch and cache
// events are attached to whatever span is active in the caller's context,
// typically the HTTP request span.
package tracing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/skyf0l/basecracker/pkg/observability"
)

// InstrumentationName is the tracer name used by Default.
const InstrumentationName = "github.com/skyf0l/basecracker"

// Hooks emits spans on a tracer.
type Hooks struct {
	tracer trace.Tracer
}

// New returns hooks emitting on tracer.
func New(tracer trace.Tracer) *Hooks {
	return &Hooks{tracer: tracer}
}

// Default returns hooks on the global tracer provider.
func Default() *Hooks {
	return New(otel.Tracer(InstrumentationName))
}

// Install registers h as the global pipeline, crack and cache hooks.
func (h *Hooks) Install() {
	observability.SetPipelineHooks(h)
	observability.SetCrackHooks(h)
	observability.SetCacheHooks(h)
}

func (h *Hooks) span(ctx context.Context, name string, d time.Duration, err error, attrs ...attribute.KeyValue) {
	end := time.Now()
	_, span := h.tracer.Start(ctx, name,
		trace.WithTimestamp(end.Add(-d)),
		trace.WithAttributes(attrs...),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End(trace.WithTimestamp(end))
}

func (h *Hooks) OnPipelineStart(context.Context, string, int) {}

func (h *Hooks) OnPipelineComplete(ctx context.Context, direction string, steps int, d time.Duration, err error) {
	h.span(ctx, "pipeline."+direction, d, err,
		attribute.String("pipeline.direction", direction),
		attribute.Int("pipeline.steps", steps),
	)
}

func (h *Hooks) OnCrackStart(ctx context.Context, inputLen int) {
	event(ctx, "crack.start", attribute.Int("crack.input_len", inputLen))
}

func (h *Hooks) OnBranch(ctx context.Context, scheme string, depth int, accepted bool) {
	event(ctx, "crack.branch",
		attribute.String("crack.scheme", scheme),
		attribute.Int("crack.depth", depth),
		attribute.Bool("crack.accepted", accepted),
	)
}

func (h *Hooks) OnCrackComplete(ctx context.Context, status string, found, explored int, d time.Duration, err error) {
	h.span(ctx, "crack", d, err,
		attribute.String("crack.status", status),
		attribute.Int("crack.found", found),
		attribute.Int("crack.explored", explored),
	)
}

func (h *Hooks) OnCacheHit(ctx context.Context, keyType string) {
	event(ctx, "cache.hit", attribute.String("cache.type", keyType))
}

func (h *Hooks) OnCacheMiss(ctx context.Context, keyType string) {
	event(ctx, "cache.miss", attribute.String("cache.type", keyType))
}

func (h *Hooks) OnCacheSet(ctx context.Context, keyType string, size int) {
	event(ctx, "cache.set", attribute.String("cache.type", keyType), attribute.Int("cache.size", size))
}

func event(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.AddEvent(name, trace.WithAttributes(attrs...))
	}
}

var (
	_ observability.PipelineHooks = (*Hooks)(nil)
	_ observability.CrackHooks    = (*Hooks)(nil)
	_ observability.CacheHooks    = (*Hooks)(nil)
)
