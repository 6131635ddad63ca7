package cracker

// PrintableRatio returns the share of bytes in s that are printable ASCII
// (0x20..0x7E) or TAB, LF, CR. The empty string scores 0.
func PrintableRatio(s string) float64 {
	if len(s) == 0 {
		return 0
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if isPrintable(s[i]) {
			n++
		}
	}
	return float64(n) / float64(len(s))
}

func isPrintable(c byte) bool {
	return (c >= 0x20 && c <= 0x7e) || c == '\t' || c == '\n' || c == '\r'
}
