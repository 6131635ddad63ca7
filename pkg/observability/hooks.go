// Package observability is the event seam between the codec engine and
// whatever records metrics or traces.
//
// Library code emits events through the accessors [Pipeline], [Crack],
// [Cache] and [HTTP]. Each returns a no-op until a backend is installed with
// the matching Set function, so the core packages never import a metrics or
// tracing SDK. The prom subpackage records Prometheus series, the tracing
// subpackage records OpenTelemetry spans, and [MultiPipelineHooks] or
// [MultiCrackHooks] combine them:
//
//	m := prom.New(reg)
//	observability.SetCrackHooks(observability.MultiCrackHooks{m, tracing.Default()})
//	defer observability.Reset()
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives one start and one completion event per encode or
// decode run.
type PipelineHooks interface {
	OnPipelineStart(ctx context.Context, direction string, steps int)
	OnPipelineComplete(ctx context.Context, direction string, steps int, duration time.Duration, err error)
}

// CrackHooks receives events from the breadth-first search.
type CrackHooks interface {
	OnCrackStart(ctx context.Context, inputLen int)

	// OnBranch fires for every plausible scheme tried on a chain. accepted
	// is true when the decoded text passed the printable threshold.
	OnBranch(ctx context.Context, scheme string, depth int, accepted bool)

	OnCrackComplete(ctx context.Context, status string, found, explored int, duration time.Duration, err error)
}

// CacheHooks receives lookups and writes keyed by report kind
// ("pipeline" or "crack").
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives one event per request and one per response. route is
// the chi route pattern, not the raw path.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

type (
	NoopPipelineHooks struct{}
	NoopCrackHooks    struct{}
	NoopCacheHooks    struct{}
	NoopHTTPHooks     struct{}
)

func (NoopPipelineHooks) OnPipelineStart(context.Context, string, int)                          {}
func (NoopPipelineHooks) OnPipelineComplete(context.Context, string, int, time.Duration, error) {}

func (NoopCrackHooks) OnCrackStart(context.Context, int)                                       {}
func (NoopCrackHooks) OnBranch(context.Context, string, int, bool)                             {}
func (NoopCrackHooks) OnCrackComplete(context.Context, string, int, int, time.Duration, error) {}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// slot holds one installed backend and the no-op it falls back to.
type slot[T any] struct {
	mu   sync.RWMutex
	cur  T
	noop T
}

func newSlot[T any](noop T) *slot[T] {
	return &slot[T]{cur: noop, noop: noop}
}

func (s *slot[T]) load() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// store ignores a nil interface so a forgotten backend never panics later.
func (s *slot[T]) store(h T) {
	if any(h) == nil {
		return
	}
	s.mu.Lock()
	s.cur = h
	s.mu.Unlock()
}

func (s *slot[T]) reset() {
	s.mu.Lock()
	s.cur = s.noop
	s.mu.Unlock()
}

var (
	pipelineSlot = newSlot[PipelineHooks](NoopPipelineHooks{})
	crackSlot    = newSlot[CrackHooks](NoopCrackHooks{})
	cacheSlot    = newSlot[CacheHooks](NoopCacheHooks{})
	httpSlot     = newSlot[HTTPHooks](NoopHTTPHooks{})
)

// SetPipelineHooks installs h for every later pipeline run. Call it at
// startup; nil is ignored.
func SetPipelineHooks(h PipelineHooks) { pipelineSlot.store(h) }

func SetCrackHooks(h CrackHooks) { crackSlot.store(h) }

func SetCacheHooks(h CacheHooks) { cacheSlot.store(h) }

func SetHTTPHooks(h HTTPHooks) { httpSlot.store(h) }

func Pipeline() PipelineHooks { return pipelineSlot.load() }

func Crack() CrackHooks { return crackSlot.load() }

func Cache() CacheHooks { return cacheSlot.load() }

func HTTP() HTTPHooks { return httpSlot.load() }

// Reset puts every slot back to its no-op.
func Reset() {
	pipelineSlot.reset()
	crackSlot.reset()
	cacheSlot.reset()
	httpSlot.reset()
}
