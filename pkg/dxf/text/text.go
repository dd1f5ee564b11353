package text

import "strconv"

// ParseText tokenizes a single-line TEXT value. Every returned run is of
// [KindText] and carries the decoration in effect for it.
func ParseText(s string) []Run {
	var (
		runs []Run
		deco Decoration
		buf  []byte
	)
	flush := func() {
		runs = appendText(runs, string(buf), deco)
		buf = buf[:0]
	}

	for i := 0; i < len(s); i++ {
		if s[i] != '%' || i+2 >= len(s) || s[i+1] != '%' {
			buf = append(buf, s[i])
			continue
		}
		c := s[i+2]
		switch lower(c) {
		case 'u':
			flush()
			deco.Underline = !deco.Underline
			i += 2
		case 'o':
			flush()
			deco.Overline = !deco.Overline
			i += 2
		case 'k':
			flush()
			deco.Strikethrough = !deco.Strikethrough
			i += 2
		case 'd', 'p', 'c', '%':
			buf = append(buf, special[lower(c)]...)
			i += 2
		default:
			if i+4 < len(s) && isDigits(s[i+2:i+5]) {
				n, _ := strconv.Atoi(s[i+2 : i+5])
				buf = append(buf, string(rune(n))...)
				i += 4
				continue
			}
			buf = append(buf, s[i])
		}
	}
	flush()
	return runs
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
