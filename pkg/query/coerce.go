package query

import (
	"math"
	"strconv"
	"strings"
)

// Coerce turns a query value into the value it is compared with: a number
// when the trimmed text is a finite number, otherwise the raw string.
//
// Accepted numbers follow JavaScript's Number(): decimals, exponents, and
// 0x/0o/0b integer literals.
func Coerce(raw string) any {
	if f, ok := parseNumber(raw); ok {
		return f
	}
	return raw
}

func parseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}

	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			u, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return 0, false
			}
			return float64(u), true
		}
	}

	// strconv also accepts hex floats and digit separators; Number() does not.
	if strings.ContainsAny(s, "_xXpP") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
