// Package scheme holds the codec descriptors known to basecracker and the
// registry used to look them up by id or alias.
//
// A [Scheme] couples a codec with the metadata the rest of the system needs:
// a short numeric id ("64"), human aliases ("base64", "b64"), the alphabet,
// the optional complement (padding) symbol and the codec family. Schemes are
// built once and never mutated afterwards.
//
// [Default] returns the process-wide [Registry] with the nine built-in
// schemes in the order 2, 10, 16, 32, 36, 58, 62, 64, 85. That order is also
// the order in which the cracker tries schemes, so it is part of the output
// contract.
package scheme

import (
	"encoding/json"
	"fmt"

	"github.com/skyf0l/basecracker/pkg/codec"
)

// Family names the internal strategy of a codec.
type Family int

const (
	FamilyBitPacking Family = iota + 1
	FamilyBigInteger
	FamilyFixedBlock
)

func (f Family) String() string {
	switch f {
	case FamilyBitPacking:
		return "bit-packing"
	case FamilyBigInteger:
		return "big-integer"
	case FamilyFixedBlock:
		return "fixed-block"
	default:
		return fmt.Sprintf("Family(%d)", int(f))
	}
}

// MarshalText renders the family name in JSON and YAML output.
func (f Family) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// Scheme describes one registered encoding. Aliases[0] is the canonical name.
type Scheme struct {
	ID         string
	Aliases    []string
	Alphabet   *codec.Alphabet
	Complement byte
	Family     Family
	Codec      codec.Codec
}

// Name returns the canonical name.
func (s *Scheme) Name() string {
	if len(s.Aliases) == 0 {
		return s.ID
	}
	return s.Aliases[0]
}

func (s *Scheme) String() string { return s.Name() }

func (s *Scheme) Encode(src []byte) string { return s.Codec.Encode(src) }

func (s *Scheme) Decode(text string) ([]byte, error) { return s.Codec.Decode(text) }

// Info is the serializable view of a scheme.
type Info struct {
	ID         string   `json:"id" yaml:"id"`
	Name       string   `json:"name" yaml:"name"`
	Aliases    []string `json:"aliases" yaml:"aliases"`
	Family     Family   `json:"family" yaml:"family"`
	Alphabet   string   `json:"alphabet" yaml:"alphabet"`
	Complement string   `json:"complement,omitempty" yaml:"complement,omitempty"`
	CaseFold   bool     `json:"case_insensitive" yaml:"case_insensitive"`
}

// Info returns the serializable view of s.
func (s *Scheme) Info() Info {
	in := Info{
		ID:       s.ID,
		Name:     s.Name(),
		Aliases:  append([]string(nil), s.Aliases...),
		Family:   s.Family,
		Alphabet: s.Alphabet.String(),
		CaseFold: s.Alphabet.FoldCase(),
	}
	if s.Complement != 0 {
		in.Complement = string(s.Complement)
	}
	return in
}

// MarshalJSON encodes the scheme as its Info.
func (s *Scheme) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Info())
}
