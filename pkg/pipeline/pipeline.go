// Package pipeline applies an ordered list of schemes to a value in one
// direction.
//
// The pipeline is a strict left-to-right fold: each named scheme is looked up
// in a [scheme.Registry] and applied to the output of the previous step. Names
// that resolve to nothing are skipped (the value passes through unchanged and
// the skip is recorded), while a decode failure aborts the whole chain with a
// [*StepError] naming the failing step. No partial value is returned on
// failure, and nothing is retried or reordered.
//
// # Usage
//
//	res, err := pipeline.Apply(scheme.Default(), "hi", []string{"64", "16"}, pipeline.Encode)
//	if err != nil {
//	    var se *pipeline.StepError
//	    errors.As(err, &se) // se.Index, se.Scheme
//	}
//	fmt.Println(res.Value) // "61476b3d"
//
// Values are Go strings holding raw bytes, so binary plaintexts survive
// untouched.
//
// [Attempt] is the single-scheme decode primitive shared with the cracker. It
// returns a typed [Outcome] instead of an error and never panics.
package pipeline

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	errs "github.com/skyf0l/basecracker/pkg/errors"
	"github.com/skyf0l/basecracker/pkg/scheme"
)

// Direction selects encode or decode.
type Direction int

const (
	Encode Direction = iota
	Decode
)

func (d Direction) String() string {
	if d == Decode {
		return "decode"
	}
	return "encode"
}

// MarshalText renders the direction name.
func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// ParseDirection parses "encode" or "decode" (case-insensitive).
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "encode", "enc", "e":
		return Encode, nil
	case "decode", "dec", "d":
		return Decode, nil
	}
	return 0, errs.New(errs.ErrCodeInvalidInput, "invalid direction %q (must be encode or decode)", s)
}

// Step records the value after one applied scheme.
type Step struct {
	Scheme string `json:"scheme" yaml:"scheme"` // canonical name
	ID     string `json:"id" yaml:"id"`
	Text   string `json:"text" yaml:"text"`
}

// Skip records a name that did not resolve to a scheme.
type Skip struct {
	Index int    `json:"index" yaml:"index"`
	Name  string `json:"name" yaml:"name"`
}

func (s Skip) String() string {
	return fmt.Sprintf("unknown base %q (ignored)", s.Name)
}

// Result is the outcome of a successful pipeline run.
type Result struct {
	Direction Direction `json:"direction" yaml:"direction"`
	Input     string    `json:"input" yaml:"input"`
	Value     string    `json:"value" yaml:"value"`
	Steps     []Step    `json:"steps" yaml:"steps"`
	Skipped   []Skip    `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// Schemes returns the canonical names of the applied steps.
func (r *Result) Schemes() []string {
	out := make([]string, len(r.Steps))
	for i, s := range r.Steps {
		out[i] = s.Scheme
	}
	return out
}

// StepError reports which step of a chain failed.
// Index is the position of the name in the requested list.
type StepError struct {
	Index     int
	Scheme    string
	Direction Direction
	Err       error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %s failed: %v", e.Index+1, e.Scheme, e.Direction, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Engine runs pipelines against one registry.
type Engine struct {
	Registry *scheme.Registry
	Logger   *log.Logger
}

// New returns an engine. A nil registry means scheme.Default(); a nil logger
// discards output.
func New(reg *scheme.Registry, logger *log.Logger) *Engine {
	if reg == nil {
		reg = scheme.Default()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Engine{Registry: reg, Logger: logger}
}

// Apply runs names over value on a throwaway engine without logging.
func Apply(reg *scheme.Registry, value string, names []string, dir Direction) (*Result, error) {
	return New(reg, nil).Apply(value, names, dir)
}

// Apply folds names over value in dir.
func (e *Engine) Apply(value string, names []string, dir Direction) (*Result, error) {
	res := &Result{Direction: dir, Input: value, Steps: make([]Step, 0, len(names))}
	cur := value
	for i, name := range names {
		s, ok := e.Registry.Lookup(name)
		if !ok {
			skip := Skip{Index: i, Name: name}
			res.Skipped = append(res.Skipped, skip)
			e.Logger.Warn(skip.String(), "step", i+1, "code", errs.ErrCodeUnknownScheme)
			continue
		}

		switch dir {
		case Encode:
			cur = s.Encode([]byte(cur))
		case Decode:
			out, err := s.Decode(cur)
			if err != nil {
				e.Logger.Debug("decode failed", "step", i+1, "scheme", s.Name(), "err", err)
				return nil, &StepError{Index: i, Scheme: s.Name(), Direction: dir, Err: err}
			}
			cur = string(out)
		}
		res.Steps = append(res.Steps, Step{Scheme: s.Name(), ID: s.ID, Text: cur})
	}
	res.Value = cur
	return res, nil
}

// Outcome is the typed result of one decode attempt.
type Outcome struct {
	Scheme *scheme.Scheme
	Output string
	Err    error
	OK     bool
}

// Attempt decodes text with s. Failures, including panics inside a codec,
// come back as an Outcome with OK false.
func Attempt(s *scheme.Scheme, text string) (o Outcome) {
	o.Scheme = s
	defer func() {
		if r := recover(); r != nil {
			o = Outcome{Scheme: s, Err: errs.New(errs.ErrCodeInternal, "%s decoder panicked: %v", s.Name(), r)}
		}
	}()
	out, err := s.Decode(text)
	if err != nil {
		o.Err = err
		return o
	}
	o.Output = string(out)
	o.OK = true
	return o
}
