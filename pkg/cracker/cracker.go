// Package cracker discovers which chain of encodings produced a ciphertext.
//
// # Overview
//
// The search is breadth-first over the scheme registry. The frontier starts
// with the raw input. Each popped chain is tried against every plausible
// scheme in registry order (see [scheme.IsPlausible]); a successful decode
// whose [PrintableRatio] is strictly above the threshold extends the chain and
// is queued at the back. A chain for which no scheme yields readable text is a
// dead end: if it holds at least one decode layer it is reported as a
// [Result].
//
// Detection is heuristic. Several chains may be reported for one input, and
// none of them is guaranteed to be the intended plaintext.
//
// # Bounds
//
// [Options.MaxDepth] caps the number of decode layers and
// [Options.MaxFrontier] caps the number of queued chains. Hitting either
// stops expansion of the affected branch and marks the report
// [StatusTruncated]; results found so far are kept. A chain stopped at
// MaxDepth is reported as it stands.
//
// # Concurrency
//
// A search is single-threaded unless [Options.Workers] is above 1, in which
// case the scheme attempts for one chain run concurrently on an errgroup.
// Outcomes land in per-scheme slots, so results are identical to the
// sequential run. The context is checked before every pop.
package cracker

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	errs "github.com/skyf0l/basecracker/pkg/errors"
	"github.com/skyf0l/basecracker/pkg/observability"
	"github.com/skyf0l/basecracker/pkg/pipeline"
	"github.com/skyf0l/basecracker/pkg/scheme"
)

const (
	// DefaultThreshold is the printable ratio a decoded text must exceed.
	DefaultThreshold = 0.90

	// DefaultMaxDepth is the maximum number of decode layers.
	DefaultMaxDepth = 16

	// DefaultMaxFrontier is the maximum number of queued chains.
	DefaultMaxFrontier = 4096
)

// Status summarizes a search.
type Status int

const (
	StatusFound Status = iota + 1
	StatusNotFound
	StatusTruncated
	StatusEmpty
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusNotFound:
		return "not_found"
	case StatusTruncated:
		return "truncated"
	case StatusEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// MarshalText renders the status name.
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText parses a status name, so cached reports round-trip.
func (s *Status) UnmarshalText(b []byte) error {
	for _, v := range []Status{StatusFound, StatusNotFound, StatusTruncated, StatusEmpty} {
		if v.String() == string(b) {
			*s = v
			return nil
		}
	}
	return errs.New(errs.ErrCodeInvalidInput, "unknown status %q", b)
}

// Options configures a search. Zero values select the defaults, so a
// usable Threshold lies in (0, 1]; a zero threshold cannot be requested.
type Options struct {
	Threshold   float64     `json:"threshold,omitempty"`
	MaxDepth    int         `json:"max_depth,omitempty"`
	MaxFrontier int         `json:"max_frontier,omitempty"`
	Workers     int         `json:"workers,omitempty"`
	Logger      *log.Logger `json:"-"`
}

// ValidateAndSetDefaults fills zero fields and rejects out-of-range values.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Threshold == 0 {
		o.Threshold = DefaultThreshold
	}
	if o.MaxDepth == 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.MaxFrontier == 0 {
		o.MaxFrontier = DefaultMaxFrontier
	}
	if o.Workers == 0 {
		o.Workers = 1
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	switch {
	case o.Threshold < 0 || o.Threshold > 1:
		return errs.New(errs.ErrCodeInvalidConfig, "threshold must be within (0, 1], got %v", o.Threshold)
	case o.MaxDepth < 0:
		return errs.New(errs.ErrCodeInvalidConfig, "max depth must be positive, got %d", o.MaxDepth)
	case o.MaxFrontier < 0:
		return errs.New(errs.ErrCodeInvalidConfig, "max frontier must be positive, got %d", o.MaxFrontier)
	case o.Workers < 0:
		return errs.New(errs.ErrCodeInvalidConfig, "workers must be positive, got %d", o.Workers)
	}
	return nil
}

// Result is one reported chain.
type Result struct {
	Input string `json:"input" yaml:"input"`
	// Schemes and IDs are in encode order: applying them left to right to
	// Plaintext reproduces Input.
	Schemes   []string        `json:"schemes" yaml:"schemes"`
	IDs       []string        `json:"ids" yaml:"ids"`
	Plaintext string          `json:"plaintext" yaml:"plaintext"`
	Steps     []pipeline.Step `json:"steps" yaml:"steps"` // decode order
}

// Stats describes the work done by a search.
type Stats struct {
	Explored int           `json:"explored" yaml:"explored"`
	Attempts int           `json:"attempts" yaml:"attempts"`
	Accepted int           `json:"accepted" yaml:"accepted"`
	Pruned   int           `json:"pruned" yaml:"pruned"`
	MaxDepth int           `json:"max_depth" yaml:"max_depth"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// Report is the outcome of one search.
type Report struct {
	ID      string   `json:"id" yaml:"id"`
	Input   string   `json:"input" yaml:"input"`
	Status  Status   `json:"status" yaml:"status"`
	Results []Result `json:"results" yaml:"results"`
	Stats   Stats    `json:"stats" yaml:"stats"`

	// Tree is the exploration tree rooted at the input. It is not serialized.
	Tree *Node `json:"-" yaml:"-"`
}

// Found reports whether at least one chain was reported.
func (r *Report) Found() bool { return len(r.Results) > 0 }

// Warning returns a SEARCH_TRUNCATED error when a resource bound cut the
// search short, nil otherwise. The report is still valid either way.
func (r *Report) Warning() error {
	if r.Status != StatusTruncated {
		return nil
	}
	return errs.New(errs.ErrCodeSearchTruncated, "search truncated after %d chains (%d pruned, depth %d)",
		r.Stats.Explored, r.Stats.Pruned, r.Stats.MaxDepth)
}

// Cracker runs searches over one registry.
type Cracker struct {
	registry *scheme.Registry
	opts     Options
	logger   *log.Logger
}

// New returns a cracker. A nil registry means scheme.Default().
func New(reg *scheme.Registry, opts Options) (*Cracker, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if reg == nil {
		reg = scheme.Default()
	}
	return &Cracker{registry: reg, opts: opts, logger: opts.Logger}, nil
}

// Options returns the effective options.
func (c *Cracker) Options() Options { return c.opts }

// Crack is a convenience wrapper running one search on the default registry.
func Crack(ctx context.Context, input string, opts Options) (*Report, error) {
	c, err := New(nil, opts)
	if err != nil {
		return nil, err
	}
	return c.Crack(ctx, input)
}

// Crack searches for decode chains of input. An empty input yields a
// StatusEmpty report without searching. The only error is ctx.Err().
func (c *Cracker) Crack(ctx context.Context, input string) (*Report, error) {
	start := time.Now()
	hooks := observability.Crack()
	hooks.OnCrackStart(ctx, len(input))

	rep := &Report{ID: uuid.NewString(), Input: input, Results: []Result{}}
	if input == "" {
		rep.Status = StatusEmpty
		hooks.OnCrackComplete(ctx, rep.Status.String(), 0, 0, time.Since(start), nil)
		return rep, nil
	}

	root := &Node{Text: input, Ratio: PrintableRatio(input)}
	rep.Tree = root
	truncated, err := c.search(ctx, root, rep)
	rep.Stats.Duration = time.Since(start)
	if err != nil {
		hooks.OnCrackComplete(ctx, "canceled", len(rep.Results), rep.Stats.Explored, rep.Stats.Duration, err)
		return nil, err
	}

	switch {
	case truncated:
		rep.Status = StatusTruncated
	case len(rep.Results) > 0:
		rep.Status = StatusFound
	default:
		rep.Status = StatusNotFound
	}
	c.logger.Info("crack finished",
		"id", rep.ID,
		"status", rep.Status,
		"results", len(rep.Results),
		"explored", rep.Stats.Explored,
		"duration", rep.Stats.Duration)
	hooks.OnCrackComplete(ctx, rep.Status.String(), len(rep.Results), rep.Stats.Explored, rep.Stats.Duration, nil)
	return rep, nil
}

func (c *Cracker) search(ctx context.Context, root *Node, rep *Report) (truncated bool, err error) {
	hooks := observability.Crack()
	var q frontier
	q.Push(root)

	for q.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return truncated, err
		}
		n, _ := q.Pop()
		rep.Stats.Explored++
		if n.Depth > rep.Stats.MaxDepth {
			rep.Stats.MaxDepth = n.Depth
		}
		if n.Text == "" {
			continue
		}
		if n.Depth >= c.opts.MaxDepth {
			c.logger.Debug("depth bound reached", "depth", n.Depth)
			truncated = true
			c.report(n, rep)
			continue
		}

		candidates := c.registry.Plausible(n.Text)
		outcomes := c.attempt(ctx, candidates, n.Text)
		rep.Stats.Attempts += len(outcomes)

		expandable := false
		for _, o := range outcomes {
			if !o.OK {
				c.logger.Debug("branch rejected", "depth", n.Depth+1, "scheme", o.Scheme.Name(), "err", o.Err)
				hooks.OnBranch(ctx, o.Scheme.Name(), n.Depth+1, false)
				continue
			}
			ratio := PrintableRatio(o.Output)
			accepted := ratio > c.opts.Threshold
			hooks.OnBranch(ctx, o.Scheme.Name(), n.Depth+1, accepted)
			if !accepted {
				c.logger.Debug("branch unreadable", "depth", n.Depth+1, "scheme", o.Scheme.Name(), "ratio", ratio)
				continue
			}

			expandable = true
			rep.Stats.Accepted++
			child := n.addChild(o.Scheme, o.Output, ratio)
			if q.Len() >= c.opts.MaxFrontier {
				child.Pruned = true
				rep.Stats.Pruned++
				truncated = true
				continue
			}
			c.logger.Debug("branch accepted", "depth", child.Depth, "scheme", o.Scheme.Name(), "ratio", ratio)
			q.Push(child)
		}

		if !expandable {
			c.report(n, rep)
		}
	}
	return truncated, nil
}

// report records n as a chain end. The bare input is never reported.
func (c *Cracker) report(n *Node, rep *Report) {
	if n.Parent == nil {
		return
	}
	n.Terminal = true
	rep.Results = append(rep.Results, n.result())
}

// attempt decodes text with every candidate. The returned slice is indexed
// like candidates whatever the worker count.
func (c *Cracker) attempt(ctx context.Context, candidates []*scheme.Scheme, text string) []pipeline.Outcome {
	out := make([]pipeline.Outcome, len(candidates))
	if c.opts.Workers <= 1 || len(candidates) < 2 {
		for i, s := range candidates {
			out[i] = pipeline.Attempt(s, text)
		}
		return out
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Workers)
	for i, s := range candidates {
		g.Go(func() error {
			out[i] = pipeline.Attempt(s, text)
			return nil
		})
	}
	_ = g.Wait()
	return out
}
