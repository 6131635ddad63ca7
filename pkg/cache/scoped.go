package cache

// ScopedKeyer prefixes every key of an inner Keyer, giving each user of a
// shared backend its own namespace.
//
//	apiKeyer := NewScopedKeyer(nil, "api:")
//	cliKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer returns a keyer that prepends prefix. A nil inner keyer
// means DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) PipelineKey(direction, input string, names []string) string {
	return k.prefix + k.inner.PipelineKey(direction, input, names)
}

func (k *ScopedKeyer) CrackKey(input string, opts CrackKeyOpts) string {
	return k.prefix + k.inner.CrackKey(input, opts)
}
