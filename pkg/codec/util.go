package codec

import (
	"math/big"
	"strings"
)

// BytesToBitString renders b as 8 big-endian bits per byte.
func BytesToBitString(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b) * 8)
	for _, c := range b {
		for i := 7; i >= 0; i-- {
			sb.WriteByte('0' + (c>>uint(i))&1)
		}
	}
	return sb.String()
}

// Chunk splits s into pieces of size bytes. The last piece may be shorter.
// An empty string yields no pieces.
func Chunk(s string, size int) []string {
	if size <= 0 || s == "" {
		return nil
	}
	out := make([]string, 0, (len(s)+size-1)/size)
	for len(s) > size {
		out = append(out, s[:size])
		s = s[size:]
	}
	return append(out, s)
}

// UintDigits returns the digits of v in the given base, most significant
// first, left-padded with zeros to width. A width of -1 keeps the natural
// length; zero then has no digits.
func UintDigits(v uint64, base, width int) []int {
	var rev []int
	b := uint64(base)
	for v > 0 {
		rev = append(rev, int(v%b))
		v /= b
	}
	return padDigits(rev, width)
}

// textDigits is the digit set big.Int.Text uses for every base it accepts.
const textDigits = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

var textIndex = func() (t [256]int8) {
	for i := range t {
		t[i] = -1
	}
	for i := 0; i < len(textDigits); i++ {
		t[textDigits[i]] = int8(i)
	}
	return t
}()

// BigDigits is UintDigits for arbitrary-precision values. v is not modified.
// Bases up to big.MaxBase go through big.Int.Text, whose divide and conquer
// conversion stays fast on megabyte inputs.
func BigDigits(v *big.Int, base, width int) []int {
	if v.Sign() == 0 {
		return padDigits(nil, width)
	}
	if base > big.MaxBase {
		var rev []int
		n := new(big.Int).Set(v)
		b := big.NewInt(int64(base))
		m := new(big.Int)
		for n.Sign() > 0 {
			n.QuoRem(n, b, m)
			rev = append(rev, int(m.Int64()))
		}
		return padDigits(rev, width)
	}
	txt := v.Text(base)
	out := make([]int, max(len(txt), width))
	off := len(out) - len(txt)
	for i := 0; i < len(txt); i++ {
		out[off+i] = int(textIndex[txt[i]])
	}
	return out
}

// padDigits reverses least-significant-first digits and left-pads them.
func padDigits(rev []int, width int) []int {
	n := len(rev)
	if width > n {
		n = width
	}
	out := make([]int, n)
	for i, d := range rev {
		out[n-1-i] = d
	}
	return out
}

// StripFiller removes spaces, tabs, carriage returns and line feeds.
func StripFiller(s string) string {
	if strings.IndexAny(s, " \t\r\n") < 0 {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if !isFiller(s[i]) {
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}

func isFiller(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
