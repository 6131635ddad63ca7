// Package codec implements the three positional encoding families used by
// basecracker behind one contract.
//
// # Overview
//
// Every codec converts an arbitrary byte sequence to text and back:
//
//	type Codec interface {
//	    Encode(src []byte) string
//	    Decode(text string) ([]byte, error)
//	}
//
// The internals differ by family:
//
//   - [BitPack]: fixed-width bit packing. Each symbol carries w bits where
//     the alphabet has 2^w symbols (base2, base16, base32, base64). Optional
//     complement (padding) symbols right-align the final block.
//   - [BigInt]: the whole input is one big-endian non-negative integer
//     rewritten in radix n (base10, base36, base58, base62). Leading zero
//     bytes are not recoverable.
//   - [Block]: fixed blocks of 4 bytes written as exactly 5 radix-85 digits
//     (base85, Ascii85 alphabet without the "z" shortcut).
//
// # Alphabets
//
// An [Alphabet] maps symbols to digit values. Symbols must be unique. A
// case-insensitive alphabet also accepts the other ASCII case of each letter
// on decode; encode always emits the symbols as given.
//
// # Errors
//
// Decode failures are returned as *errors.Error (package
// github.com/skyf0l/basecracker/pkg/errors) with code DECODE_ALPHABET or
// DECODE_ARITHMETIC, wrapping a [*DecodeError] that carries the offending
// position and symbol. Positions refer to the input after filler stripping.
//
// # Filler
//
// Decoders ignore spaces, tabs, carriage returns and line feeds anywhere in
// the input (see [StripFiller]), so wrapped or indented ciphertext decodes the
// same as the compact form.
//
// All codecs are immutable after construction and safe for concurrent use.
package codec
