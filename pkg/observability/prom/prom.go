// Package prom records observability hooks as Prometheus metrics.
//
//	m := prom.New(prometheus.DefaultRegisterer)
//	m.Install()
package prom

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/skyf0l/basecracker/pkg/observability"
)

const namespace = "basecracker"

// Metrics implements every hook interface of package observability.
type Metrics struct {
	PipelineRuns     *prometheus.CounterVec
	PipelineDuration *prometheus.HistogramVec

	CrackRuns     *prometheus.CounterVec
	CrackDuration prometheus.Histogram
	CrackExplored prometheus.Histogram
	Branches      *prometheus.CounterVec

	CacheOps   *prometheus.CounterVec
	CacheBytes *prometheus.CounterVec

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		PipelineRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_runs_total",
			Help:      "Encode and decode pipeline runs by direction and outcome.",
		}, []string{"direction", "outcome"}),
		PipelineDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_duration_seconds",
			Help:      "Pipeline run duration.",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 10),
		}, []string{"direction"}),

		CrackRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "crack_runs_total",
			Help:      "Crack searches by final status.",
		}, []string{"status"}),
		CrackDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "crack_duration_seconds",
			Help:      "Crack search duration.",
			Buckets:   prometheus.ExponentialBuckets(1e-4, 4, 10),
		}),
		CrackExplored: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "crack_explored_chains",
			Help:      "Chains popped from the frontier per search.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		Branches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "crack_branches_total",
			Help:      "Decode attempts during cracking by scheme and acceptance.",
		}, []string{"scheme", "accepted"}),

		CacheOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Cache lookups and writes by key type and result.",
		}, []string{"type", "result"}),
		CacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache by key type.",
		}, []string{"type"}),

		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "API requests by route and status code.",
		}, []string{"method", "route", "code"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "API request duration.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Install registers m as the global pipeline, crack, cache and HTTP hooks.
func (m *Metrics) Install() {
	observability.SetPipelineHooks(m)
	observability.SetCrackHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) OnPipelineStart(context.Context, string, int) {}

func (m *Metrics) OnPipelineComplete(_ context.Context, direction string, _ int, d time.Duration, err error) {
	m.PipelineRuns.WithLabelValues(direction, outcome(err)).Inc()
	m.PipelineDuration.WithLabelValues(direction).Observe(d.Seconds())
}

func (m *Metrics) OnCrackStart(context.Context, int) {}

func (m *Metrics) OnBranch(_ context.Context, scheme string, _ int, accepted bool) {
	m.Branches.WithLabelValues(scheme, strconv.FormatBool(accepted)).Inc()
}

func (m *Metrics) OnCrackComplete(_ context.Context, status string, _, explored int, d time.Duration, _ error) {
	m.CrackRuns.WithLabelValues(status).Inc()
	m.CrackDuration.Observe(d.Seconds())
	m.CrackExplored.Observe(float64(explored))
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.CacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.CacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.CacheOps.WithLabelValues(keyType, "set").Inc()
	m.CacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CrackHooks    = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.HTTPHooks     = (*Metrics)(nil)
)
