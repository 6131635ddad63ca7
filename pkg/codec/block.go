package codec

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

const (
	blockBytes   = 4
	blockSymbols = 5
)

// Block writes every 4-byte group as exactly 5 radix-85 digits. A short final
// group is padded with NUL bytes on encode and with the highest symbol on
// decode, and the padding is cut from the result both ways.
type Block struct {
	alpha *Alphabet
	max   byte
}

// NewBlock builds a fixed-block codec. The alphabet must have 85 symbols.
func NewBlock(alpha *Alphabet) (*Block, error) {
	if alpha.Len() != 85 {
		return nil, fmt.Errorf("fixed-block alphabet needs 85 symbols, got %d", alpha.Len())
	}
	return &Block{alpha: alpha, max: alpha.Symbol(84)}, nil
}

func (c *Block) Encode(src []byte) string {
	k := (blockBytes - len(src)%blockBytes) % blockBytes
	padded := make([]byte, len(src)+k)
	copy(padded, src)

	var sb strings.Builder
	sb.Grow(len(padded) / blockBytes * blockSymbols)
	for i := 0; i < len(padded); i += blockBytes {
		v := binary.BigEndian.Uint32(padded[i:])
		for _, d := range UintDigits(uint64(v), 85, blockSymbols) {
			sb.WriteByte(c.alpha.Symbol(d))
		}
	}
	out := sb.String()
	return out[:len(out)-k]
}

func (c *Block) Decode(text string) ([]byte, error) {
	text = StripFiller(text)
	for i := 0; i < len(text); i++ {
		if !c.alpha.Contains(text[i]) {
			return nil, alphabetError(i, text[i])
		}
	}
	if len(text)%blockSymbols == 1 {
		return nil, arithmeticError("final group of a single symbol")
	}

	k := (blockSymbols - len(text)%blockSymbols) % blockSymbols
	padded := text + strings.Repeat(string(c.max), k)
	out := make([]byte, 0, len(padded)/blockSymbols*blockBytes)
	for i := 0; i < len(padded); i += blockSymbols {
		var v uint64
		for j := 0; j < blockSymbols; j++ {
			v = v*85 + uint64(c.alpha.Index(padded[i+j]))
		}
		if v > math.MaxUint32 {
			return nil, arithmeticError("block at %d exceeds 32 bits", i)
		}
		out = binary.BigEndian.AppendUint32(out, uint32(v))
	}
	return out[:len(out)-k], nil
}
