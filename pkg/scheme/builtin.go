package scheme

import (
	"github.com/skyf0l/basecracker/pkg/codec"
)

// Built-in alphabets.
const (
	Base2Alphabet  = "01"
	Base10Alphabet = "0123456789"
	Base16Alphabet = "0123456789abcdef"
	Base32Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567"
	Base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	Base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"
	Base62Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	Base64Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"
	Base85Alphabet = "!\"#$%&'()*+,-./0123456789:;<=>?@ABCDEFGHIJKLMNOPQRSTUVWXYZ[\\]^_`abcdefghijklmnopqrstu"
)

// Builtin returns fresh descriptors for the nine built-in schemes in
// registry order.
func Builtin() []*Scheme {
	return []*Scheme{
		bitPacking("2", Base2Alphabet, false, 0, "base2", "b2", "bin"),
		bigInteger("10", Base10Alphabet, false, "base10", "b10", "dec"),
		bitPacking("16", Base16Alphabet, true, 0, "base16", "b16", "hex", "h"),
		bitPacking("32", Base32Alphabet, false, '=', "base32", "b32"),
		bigInteger("36", Base36Alphabet, true, "base36", "b36"),
		bigInteger("58", Base58Alphabet, false, "base58", "b58"),
		bigInteger("62", Base62Alphabet, false, "base62", "b62"),
		bitPacking("64", Base64Alphabet, false, '=', "base64", "b64"),
		fixedBlock("85", Base85Alphabet, "base85", "b85", "ascii85"),
	}
}

func bitPacking(id, symbols string, fold bool, complement byte, aliases ...string) *Scheme {
	alpha := codec.MustAlphabet(symbols, fold)
	c, err := codec.NewBitPack(alpha, complement)
	if err != nil {
		panic(err)
	}
	return &Scheme{ID: id, Aliases: aliases, Alphabet: alpha, Complement: complement, Family: FamilyBitPacking, Codec: c}
}

func bigInteger(id, symbols string, fold bool, aliases ...string) *Scheme {
	alpha := codec.MustAlphabet(symbols, fold)
	return &Scheme{ID: id, Aliases: aliases, Alphabet: alpha, Family: FamilyBigInteger, Codec: codec.NewBigInt(alpha)}
}

func fixedBlock(id, symbols string, aliases ...string) *Scheme {
	alpha := codec.MustAlphabet(symbols, false)
	c, err := codec.NewBlock(alpha)
	if err != nil {
		panic(err)
	}
	return &Scheme{ID: id, Aliases: aliases, Alphabet: alpha, Family: FamilyFixedBlock, Codec: c}
}
