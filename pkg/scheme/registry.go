package scheme

import (
	"sync"

	errs "github.com/skyf0l/basecracker/pkg/errors"
)

// Registry is an immutable, ordered set of schemes indexed by id and alias.
// It is safe for concurrent use.
type Registry struct {
	schemes []*Scheme
	byName  map[string]*Scheme
}

// NewRegistry validates schemes and indexes them in the given order.
// Ids and aliases share one namespace; any collision fails with
// DUPLICATE_SCHEME.
func NewRegistry(schemes ...*Scheme) (*Registry, error) {
	r := &Registry{
		schemes: make([]*Scheme, 0, len(schemes)),
		byName:  make(map[string]*Scheme, len(schemes)*3),
	}
	for _, s := range schemes {
		if err := validate(s); err != nil {
			return nil, err
		}
		names := append([]string{s.ID}, s.Aliases...)
		for _, name := range names {
			if prev, ok := r.byName[name]; ok {
				return nil, errs.New(errs.ErrCodeDuplicateScheme,
					"name %q of scheme %s already used by scheme %s", name, s.ID, prev.ID)
			}
			r.byName[name] = s
		}
		r.schemes = append(r.schemes, s)
	}
	return r, nil
}

func validate(s *Scheme) error {
	switch {
	case s == nil:
		return errs.New(errs.ErrCodeInvalidScheme, "nil scheme")
	case s.ID == "":
		return errs.New(errs.ErrCodeInvalidScheme, "scheme without id")
	case len(s.Aliases) == 0:
		return errs.New(errs.ErrCodeInvalidScheme, "scheme %s has no aliases", s.ID)
	case s.Codec == nil || s.Alphabet == nil:
		return errs.New(errs.ErrCodeInvalidScheme, "scheme %s has no codec", s.ID)
	case s.Complement != 0 && s.Alphabet.Contains(s.Complement):
		return errs.New(errs.ErrCodeInvalidScheme, "scheme %s: complement %q is in the alphabet", s.ID, s.Complement)
	}
	for _, a := range s.Aliases {
		if err := errs.ValidateSchemeToken(a); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidScheme, err, "scheme %s", s.ID)
		}
	}
	return nil
}

// Lookup finds a scheme by id or alias. Names are case-sensitive.
func (r *Registry) Lookup(name string) (*Scheme, bool) {
	s, ok := r.byName[name]
	return s, ok
}

// All returns the schemes in registry order.
func (r *Registry) All() []*Scheme {
	return append([]*Scheme(nil), r.schemes...)
}

// Len returns the number of schemes.
func (r *Registry) Len() int { return len(r.schemes) }

// Names returns the canonical names in registry order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.schemes))
	for i, s := range r.schemes {
		out[i] = s.Name()
	}
	return out
}

// Infos returns the serializable view of every scheme in registry order.
func (r *Registry) Infos() []Info {
	out := make([]Info, len(r.schemes))
	for i, s := range r.schemes {
		out[i] = s.Info()
	}
	return out
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the process-wide registry of built-in schemes.
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := NewRegistry(Builtin()...)
		if err != nil {
			panic(err)
		}
		defaultReg = r
	})
	return defaultReg
}
