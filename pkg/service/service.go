// Package service is the cached front door to the pipeline engine and the
// cracker. The CLI and the HTTP API both go through a Service so caching,
// logging and instrumentation live in one place.
//
// A Service is safe for concurrent use; it holds no per-request state.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/skyf0l/basecracker/pkg/cache"
	"github.com/skyf0l/basecracker/pkg/cracker"
	errs "github.com/skyf0l/basecracker/pkg/errors"
	"github.com/skyf0l/basecracker/pkg/observability"
	"github.com/skyf0l/basecracker/pkg/pipeline"
	"github.com/skyf0l/basecracker/pkg/scheme"
)

// Cache key types reported to CacheHooks.
const (
	keyTypePipeline = "pipeline"
	keyTypeCrack    = "crack"
)

// Service runs encode, decode and crack requests with caching.
type Service struct {
	Registry *scheme.Registry
	Cache    cache.Cache
	Keyer    cache.Keyer
	Logger   *log.Logger

	// CrackOptions are the defaults for Crack. Zero fields of a
	// CrackRequest's options inherit from here.
	CrackOptions cracker.Options

	// CrackTTL overrides cache.TTLCrack when positive.
	CrackTTL time.Duration
}

// CacheInfo tells the caller whether a response came from the cache.
type CacheInfo struct {
	Hit bool `json:"hit" yaml:"hit"`
}

// New returns a service. Nil arguments select scheme.Default(), NullCache,
// DefaultKeyer and log.Default().
func New(reg *scheme.Registry, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Service {
	if reg == nil {
		reg = scheme.Default()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Service{Registry: reg, Cache: c, Keyer: keyer, Logger: logger}
}

// Encode applies names to text in order.
func (s *Service) Encode(ctx context.Context, text string, names []string) (*pipeline.Result, CacheInfo, error) {
	return s.run(ctx, text, names, pipeline.Encode)
}

// Decode applies names to text in order, decoding at each step; the first
// failing step aborts the run with a *pipeline.StepError.
func (s *Service) Decode(ctx context.Context, text string, names []string) (*pipeline.Result, CacheInfo, error) {
	return s.run(ctx, text, names, pipeline.Decode)
}

func (s *Service) run(ctx context.Context, text string, names []string, dir pipeline.Direction) (*pipeline.Result, CacheInfo, error) {
	var info CacheInfo
	if err := errs.ValidateInput(text); err != nil {
		return nil, info, err
	}
	for _, n := range names {
		if err := errs.ValidateSchemeToken(n); err != nil {
			return nil, info, err
		}
	}

	key := s.Keyer.PipelineKey(dir.String(), text, names)
	var cached pipelineEntry
	if s.lookup(ctx, keyTypePipeline, key, &cached) {
		info.Hit = true
		return cached.result(), info, nil
	}

	hooks := observability.Pipeline()
	hooks.OnPipelineStart(ctx, dir.String(), len(names))
	start := time.Now()
	res, err := pipeline.New(s.Registry, s.Logger).Apply(text, names, dir)
	hooks.OnPipelineComplete(ctx, dir.String(), len(names), time.Since(start), err)
	if err != nil {
		return nil, info, err
	}

	s.Logger.Debug("pipeline finished", "direction", dir, "steps", len(res.Steps), "skipped", len(res.Skipped))
	s.store(ctx, keyTypePipeline, key, newPipelineEntry(res), cache.TTLPipeline)
	return res, info, nil
}

// CrackRequest is a crack call with per-request overrides.
type CrackRequest struct {
	Input   string
	Options cracker.Options
	// Refresh bypasses the cached report and overwrites it.
	Refresh bool
}

// Crack searches for decode chains of text with the service defaults.
func (s *Service) Crack(ctx context.Context, text string) (*cracker.Report, CacheInfo, error) {
	return s.CrackWith(ctx, CrackRequest{Input: text})
}

// CrackWith runs req. Reports are cached per input and per search options;
// truncated reports are cached like any other since the bounds are part of
// the key.
func (s *Service) CrackWith(ctx context.Context, req CrackRequest) (*cracker.Report, CacheInfo, error) {
	var info CacheInfo
	if err := errs.ValidateInput(req.Input); err != nil {
		return nil, info, err
	}
	opts := s.mergeOptions(req.Options)
	c, err := cracker.New(s.Registry, opts)
	if err != nil {
		return nil, info, err
	}
	opts = c.Options()

	key := s.Keyer.CrackKey(req.Input, cache.CrackKeyOpts{
		Threshold:   opts.Threshold,
		MaxDepth:    opts.MaxDepth,
		MaxFrontier: opts.MaxFrontier,
	})
	if !req.Refresh {
		var cached reportEntry
		if s.lookup(ctx, keyTypeCrack, key, &cached) {
			info.Hit = true
			return cached.report(), info, nil
		}
	}

	rep, err := c.Crack(ctx, req.Input)
	if err != nil {
		return nil, info, fmt.Errorf("crack: %w", err)
	}
	if rep.Status != cracker.StatusEmpty {
		ttl := cache.TTLCrack
		if s.CrackTTL > 0 {
			ttl = s.CrackTTL
		}
		s.store(ctx, keyTypeCrack, key, newReportEntry(rep), ttl)
	}
	return rep, info, nil
}

func (s *Service) mergeOptions(o cracker.Options) cracker.Options {
	d := s.CrackOptions
	if o.Threshold == 0 {
		o.Threshold = d.Threshold
	}
	if o.MaxDepth == 0 {
		o.MaxDepth = d.MaxDepth
	}
	if o.MaxFrontier == 0 {
		o.MaxFrontier = d.MaxFrontier
	}
	if o.Workers == 0 {
		o.Workers = d.Workers
	}
	if o.Logger == nil {
		o.Logger = d.Logger
	}
	if o.Logger == nil {
		o.Logger = s.Logger
	}
	return o
}

// lookup decodes a cached JSON value into dst. Cache errors and undecodable
// entries are logged and treated as misses.
func (s *Service) lookup(ctx context.Context, keyType, key string, dst any) bool {
	data, hit, err := s.Cache.Get(ctx, key)
	if err != nil {
		s.Logger.Warn("cache read failed", "type", keyType, "err", err)
		return false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		s.Logger.Warn("cache entry unreadable", "type", keyType, "err", err)
		observability.Cache().OnCacheMiss(ctx, keyType)
		return false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return true
}

func (s *Service) store(ctx context.Context, keyType, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		s.Logger.Warn("cache encode failed", "type", keyType, "err", err)
		return
	}
	err = cache.RetryWithBackoff(ctx, func() error {
		return s.Cache.Set(ctx, key, data, ttl)
	})
	if err != nil {
		s.Logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}
