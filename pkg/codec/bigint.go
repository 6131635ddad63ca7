package codec

import (
	"math"
	"math/big"
	"strings"
)

// BigInt treats the input as one big-endian unsigned integer written in the
// alphabet's radix. There is no padding, so leading zero bytes are lost:
// a single NUL encodes to "" and "" decodes to no bytes.
type BigInt struct {
	alpha *Alphabet
	radix *big.Int
}

// NewBigInt builds an arbitrary-precision codec over alpha.
func NewBigInt(alpha *Alphabet) *BigInt {
	return &BigInt{alpha: alpha, radix: big.NewInt(int64(alpha.Len()))}
}

func (c *BigInt) Encode(src []byte) string {
	n := new(big.Int).SetBytes(src)
	digits := BigDigits(n, c.alpha.Len(), -1)
	var sb strings.Builder
	sb.Grow(len(digits))
	for _, d := range digits {
		sb.WriteByte(c.alpha.Symbol(d))
	}
	return sb.String()
}

func (c *BigInt) Decode(text string) ([]byte, error) {
	text = StripFiller(text)
	digits := make([]byte, len(text))
	for i := 0; i < len(text); i++ {
		v := c.alpha.Index(text[i])
		if v < 0 {
			return nil, alphabetError(i, text[i])
		}
		digits[i] = byte(v)
	}
	return c.parse(digits, map[int]*big.Int{}).Bytes(), nil
}

// leafDigits is the longest run parsed word by word. Longer runs are split
// in half and joined with one multiplication, which keeps big inputs from
// going quadratic.
const leafDigits = 512

func (c *BigInt) parse(d []byte, pows map[int]*big.Int) *big.Int {
	if len(d) <= leafDigits {
		return c.parseLeaf(d)
	}
	mid := len(d) / 2
	hi := c.parse(d[:mid], pows)
	lo := c.parse(d[mid:], pows)
	return hi.Mul(hi, c.pow(len(d)-mid, pows)).Add(hi, lo)
}

// parseLeaf packs as many digits as fit in a uint64 before touching n.
func (c *BigInt) parseLeaf(d []byte) *big.Int {
	r := uint64(c.alpha.Len())
	n, w, s := new(big.Int), new(big.Int), new(big.Int)
	acc, scale := uint64(0), uint64(1)
	for _, v := range d {
		if scale > math.MaxUint64/r {
			n.Mul(n, s.SetUint64(scale)).Add(n, w.SetUint64(acc))
			acc, scale = 0, 1
		}
		acc = acc*r + uint64(v)
		scale *= r
	}
	return n.Mul(n, s.SetUint64(scale)).Add(n, w.SetUint64(acc))
}

// pow returns radix^n, memoized per decode. The halving split produces at
// most two distinct lengths per level.
func (c *BigInt) pow(n int, memo map[int]*big.Int) *big.Int {
	if p, ok := memo[n]; ok {
		return p
	}
	p := new(big.Int).Exp(c.radix, big.NewInt(int64(n)), nil)
	memo[n] = p
	return p
}
