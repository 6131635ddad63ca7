package codec

import (
	"fmt"
	"math/bits"
	"strings"
)

// BitPack packs w bits per symbol, where the alphabet has 2^w symbols.
//
// A block is the smallest run of symbols that covers a whole number of bytes:
// lcm(8, w) / w symbols. With a complement symbol, encode pads the output to
// a whole number of blocks, and decode accepts either the padded form or
// unpadded input whose final block has a legal length.
type BitPack struct {
	alpha      *Alphabet
	width      int
	block      int
	complement byte

	// padBytes maps a legal complement count to the number of data bytes in
	// the final block.
	padBytes map[int]int
}

// NewBitPack builds a bit-packing codec. complement is 0 for none.
func NewBitPack(alpha *Alphabet, complement byte) (*BitPack, error) {
	n := alpha.Len()
	if n&(n-1) != 0 || n > 256 {
		return nil, fmt.Errorf("bit-packing alphabet size must be a power of two, got %d", n)
	}
	if complement != 0 && alpha.Contains(complement) {
		return nil, fmt.Errorf("complement %q is part of the alphabet", complement)
	}
	w := bits.TrailingZeros(uint(n))
	b := &BitPack{
		alpha:      alpha,
		width:      w,
		block:      lcm(8, w) / w,
		complement: complement,
		padBytes:   map[int]int{0: 0},
	}
	bytesPerBlock := b.block * w / 8
	for k := 1; k < bytesPerBlock; k++ {
		symbols := (8*k + w - 1) / w
		b.padBytes[b.block-symbols] = k
	}
	return b, nil
}

// Width returns the number of bits carried by one symbol.
func (b *BitPack) Width() int { return b.width }

// BlockSize returns the number of symbols per block.
func (b *BitPack) BlockSize() int { return b.block }

// Complement returns the padding symbol, or 0.
func (b *BitPack) Complement() byte { return b.complement }

// Encode maps each w-bit group of src to a symbol. The final group is
// right-padded with zero bits.
func (b *BitPack) Encode(src []byte) string {
	groups := Chunk(BytesToBitString(src), b.width)
	var sb strings.Builder
	sb.Grow(len(groups) + b.block)
	for _, g := range groups {
		v := 0
		for i := 0; i < b.width; i++ {
			v <<= 1
			if i < len(g) && g[i] == '1' {
				v |= 1
			}
		}
		sb.WriteByte(b.alpha.Symbol(v))
	}
	if b.complement != 0 {
		for sb.Len()%b.block != 0 {
			sb.WriteByte(b.complement)
		}
	}
	return sb.String()
}

// Decode reverses Encode. Trailing bits of the final symbol are not checked.
func (b *BitPack) Decode(text string) ([]byte, error) {
	text = StripFiller(text)

	data := text
	if b.complement != 0 {
		pad := 0
		for pad < len(text) && text[len(text)-1-pad] == b.complement {
			pad++
		}
		if _, ok := b.padBytes[pad]; !ok {
			return nil, arithmeticError("invalid complement run of %d", pad)
		}
		data = text[:len(text)-pad]
		if pad > 0 && len(text)%b.block != 0 {
			return nil, arithmeticError("padded length %d is not a multiple of %d", len(text), b.block)
		}
		if rem := len(data) % b.block; pad == 0 && rem != 0 && !b.legalTail(rem) {
			return nil, arithmeticError("final block of %d symbols", rem)
		}
	}

	out := make([]byte, 0, len(data)*b.width/8)
	var acc uint32
	nbits := 0
	for i := 0; i < len(data); i++ {
		d := b.alpha.Index(data[i])
		if d < 0 {
			return nil, alphabetError(i, data[i])
		}
		acc = acc<<uint(b.width) | uint32(d)
		nbits += b.width
		if nbits >= 8 {
			nbits -= 8
			out = append(out, byte(acc>>uint(nbits)))
			acc &= 1<<uint(nbits) - 1
		}
	}
	if nbits >= b.width {
		return nil, arithmeticError("%d leftover bits do not form a byte", nbits)
	}
	return out, nil
}

// legalTail reports whether an unpadded final block of rem symbols encodes
// a whole number of bytes.
func (b *BitPack) legalTail(rem int) bool {
	_, ok := b.padBytes[b.block-rem]
	return ok
}

func lcm(a, b int) int {
	x, y := a, b
	for y != 0 {
		x, y = y, x%y
	}
	return a / x * b
}
