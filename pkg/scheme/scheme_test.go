package scheme

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/skyf0l/basecracker/pkg/codec"
	errs "github.com/skyf0l/basecracker/pkg/errors"
)

func TestDefaultOrder(t *testing.T) {
	r := Default()
	var ids []string
	for _, s := range r.All() {
		ids = append(ids, s.ID)
	}
	want := []string{"2", "10", "16", "32", "36", "58", "62", "64", "85"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("ids = %v, want %v", ids, want)
	}
	if Default() != r {
		t.Error("Default() built twice")
	}
}

func TestLookup(t *testing.T) {
	r := Default()
	tests := []struct {
		name   string
		wantID string
	}{
		{"64", "64"},
		{"base64", "64"},
		{"b64", "64"},
		{"hex", "16"},
		{"base16", "16"},
		{"b85", "85"},
		{"base2", "2"},
	}
	for _, tt := range tests {
		s, ok := r.Lookup(tt.name)
		if !ok {
			t.Errorf("Lookup(%q) not found", tt.name)
			continue
		}
		if s.ID != tt.wantID {
			t.Errorf("Lookup(%q).ID = %s, want %s", tt.name, s.ID, tt.wantID)
		}
	}
	for _, name := range []string{"BASE64", "nonsense", "", "base7"} {
		if _, ok := r.Lookup(name); ok {
			t.Errorf("Lookup(%q) unexpectedly found", name)
		}
	}
}

func TestCanonicalNames(t *testing.T) {
	want := []string{"base2", "base10", "base16", "base32", "base36", "base58", "base62", "base64", "base85"}
	if got := Default().Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestNewRegistryDuplicates(t *testing.T) {
	a := bigInteger("10", Base10Alphabet, false, "base10")
	b := bigInteger("11", Base10Alphabet, false, "base10")
	_, err := NewRegistry(a, b)
	if !errs.Is(err, errs.ErrCodeDuplicateScheme) {
		t.Fatalf("alias collision: err = %v, want DUPLICATE_SCHEME", err)
	}

	c := bigInteger("10", Base10Alphabet, false, "decimal")
	_, err = NewRegistry(a, c)
	if !errs.Is(err, errs.ErrCodeDuplicateScheme) {
		t.Fatalf("id collision: err = %v, want DUPLICATE_SCHEME", err)
	}

	// An alias may not shadow another scheme's id.
	d := bigInteger("12", Base10Alphabet, false, "10")
	_, err = NewRegistry(a, d)
	if !errs.Is(err, errs.ErrCodeDuplicateScheme) {
		t.Fatalf("alias shadowing id: err = %v, want DUPLICATE_SCHEME", err)
	}
}

func TestNewRegistryInvalid(t *testing.T) {
	alpha := codec.MustAlphabet(Base10Alphabet, false)
	tests := []struct {
		name string
		s    *Scheme
	}{
		{"nil", nil},
		{"no id", &Scheme{Aliases: []string{"x"}, Alphabet: alpha, Codec: codec.NewBigInt(alpha)}},
		{"no alias", &Scheme{ID: "10", Alphabet: alpha, Codec: codec.NewBigInt(alpha)}},
		{"no codec", &Scheme{ID: "10", Aliases: []string{"x"}, Alphabet: alpha}},
		{"complement in alphabet", &Scheme{ID: "10", Aliases: []string{"x"}, Alphabet: alpha, Complement: '0', Codec: codec.NewBigInt(alpha)}},
		{"alias with space", &Scheme{ID: "10", Aliases: []string{"base 10"}, Alphabet: alpha, Codec: codec.NewBigInt(alpha)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.s)
			if !errs.Is(err, errs.ErrCodeInvalidScheme) {
				t.Errorf("err = %v, want INVALID_SCHEME", err)
			}
		})
	}
}

func TestIsPlausible(t *testing.T) {
	r := Default()
	get := func(name string) *Scheme {
		s, _ := r.Lookup(name)
		return s
	}
	tests := []struct {
		text   string
		scheme string
		want   bool
	}{
		{"YWJj", "64", true},
		{"YQ==", "64", true},
		{"Y=Q=", "64", false},
		{"YW Jj\n", "64", true},
		{"not-valid-base64!", "64", false},
		{"MFRGGZA=", "32", true},
		{"mfrggza=", "32", false},
		{"717765727479", "16", true},
		{"48656C6C6F", "16", true},
		{"61=", "16", false},
		{"2P", "36", true},
		{"0011", "2", true},
		{"0012", "2", false},
		{"0OIl", "58", false},
		{"@:B", "85", true},
		{"@:Bz", "85", false},
		{"", "64", false},
		{" \n", "64", false},
	}
	for _, tt := range tests {
		if got := IsPlausible(tt.text, get(tt.scheme)); got != tt.want {
			t.Errorf("IsPlausible(%q, %s) = %v, want %v", tt.text, tt.scheme, got, tt.want)
		}
	}
}

func TestPlausibleOrder(t *testing.T) {
	var ids []string
	for _, s := range Default().Plausible("0101") {
		ids = append(ids, s.ID)
	}
	// Digits 0 and 1 are outside base32 and base58.
	want := []string{"2", "10", "16", "36", "62", "64", "85"}
	if strings.Join(ids, ",") != strings.Join(want, ",") {
		t.Errorf("Plausible(0101) = %v, want %v", ids, want)
	}
}

func TestParseList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"64 base16", []string{"64", "base16"}},
		{"16,base64", []string{"16", "base64"}},
		{" 16 , 64,,32\t", []string{"16", "64", "32"}},
		{"", []string{}},
	}
	for _, tt := range tests {
		if got := ParseList(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseList(%q) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
	got := ParseLists([]string{"64", "16,b32"})
	if !reflect.DeepEqual(got, []string{"64", "16", "b32"}) {
		t.Errorf("ParseLists = %v", got)
	}
}

func TestInfoJSON(t *testing.T) {
	s, _ := Default().Lookup("64")
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	var in map[string]any
	if err := json.Unmarshal(data, &in); err != nil {
		t.Fatal(err)
	}
	if in["name"] != "base64" || in["family"] != "bit-packing" || in["complement"] != "=" {
		t.Errorf("unexpected JSON: %s", data)
	}
}
