package codec

import (
	"fmt"
)

// Codec converts between bytes and text. Implementations are pure.
type Codec interface {
	Encode(src []byte) string
	Decode(text string) ([]byte, error)
}

// Alphabet is an ordered symbol set; a symbol's position is its digit value.
type Alphabet struct {
	symbols  string
	foldCase bool
	index    [256]int16
}

// NewAlphabet builds an alphabet from single-byte symbols. With foldCase the
// other ASCII case of every letter resolves to the same digit, unless that
// variant is itself a distinct symbol.
func NewAlphabet(symbols string, foldCase bool) (*Alphabet, error) {
	if len(symbols) < 2 {
		return nil, fmt.Errorf("alphabet needs at least 2 symbols, got %d", len(symbols))
	}
	a := &Alphabet{symbols: symbols, foldCase: foldCase}
	for i := range a.index {
		a.index[i] = -1
	}
	for i := 0; i < len(symbols); i++ {
		c := symbols[i]
		if a.index[c] >= 0 {
			return nil, fmt.Errorf("duplicate symbol %q in alphabet", c)
		}
		a.index[c] = int16(i)
	}
	if foldCase {
		for i := 0; i < len(symbols); i++ {
			if o, ok := otherCase(symbols[i]); ok && a.index[o] < 0 {
				a.index[o] = int16(i)
			}
		}
	}
	return a, nil
}

// MustAlphabet is NewAlphabet for package-level tables. It panics on error.
func MustAlphabet(symbols string, foldCase bool) *Alphabet {
	a, err := NewAlphabet(symbols, foldCase)
	if err != nil {
		panic(err)
	}
	return a
}

// Len returns the radix.
func (a *Alphabet) Len() int { return len(a.symbols) }

// String returns the symbols in digit order.
func (a *Alphabet) String() string { return a.symbols }

// FoldCase reports whether decoding is case-insensitive.
func (a *Alphabet) FoldCase() bool { return a.foldCase }

// Symbol returns the symbol for digit d.
func (a *Alphabet) Symbol(d int) byte { return a.symbols[d] }

// Index returns the digit value of c, or -1.
func (a *Alphabet) Index(c byte) int { return int(a.index[c]) }

// Contains reports whether c decodes to a digit.
func (a *Alphabet) Contains(c byte) bool { return a.index[c] >= 0 }

func otherCase(c byte) (byte, bool) {
	switch {
	case c >= 'a' && c <= 'z':
		return c - 'a' + 'A', true
	case c >= 'A' && c <= 'Z':
		return c - 'A' + 'a', true
	}
	return 0, false
}
