package scheme

import (
	"strings"
	"unicode"

	"github.com/skyf0l/basecracker/pkg/codec"
)

// IsPlausible is a cheap pre-filter run before decoding: after filler is
// stripped, every byte must belong to the alphabet, except a trailing run of
// the complement symbol. Case-insensitive alphabets accept either case.
// Empty text is never plausible.
func IsPlausible(text string, s *Scheme) bool {
	text = codec.StripFiller(text)
	end := len(text)
	if s.Complement != 0 {
		for end > 0 && text[end-1] == s.Complement {
			end--
		}
	}
	if len(text) == 0 {
		return false
	}
	for i := 0; i < end; i++ {
		if !s.Alphabet.Contains(text[i]) {
			return false
		}
	}
	return true
}

// Plausible returns the schemes of r that pass IsPlausible, in registry order.
func (r *Registry) Plausible(text string) []*Scheme {
	var out []*Scheme
	for _, s := range r.schemes {
		if IsPlausible(text, s) {
			out = append(out, s)
		}
	}
	return out
}

// ParseList splits a scheme list on commas and whitespace, so "64 base16"
// and "16,base64" are both accepted. Empty items are dropped.
func ParseList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

// ParseLists applies ParseList to every argument and concatenates the result.
func ParseLists(args []string) []string {
	var out []string
	for _, a := range args {
		out = append(out, ParseList(a)...)
	}
	return out
}
