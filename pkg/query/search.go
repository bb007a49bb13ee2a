package query

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/getmockd/mockapi/pkg/snapshot"
)

// matcher finds a lower-cased needle in any scalar nested inside a value.
// A matcher is not safe for concurrent use.
type matcher struct {
	needle string
	lower  cases.Caser
}

func newMatcher(term string) *matcher {
	m := &matcher{lower: cases.Lower(language.Und)}
	m.needle = m.lower.String(term)
	return m
}

// Contains reports whether the term occurs in v. Arrays and objects are
// scanned element by element; null never matches.
func (m *matcher) Contains(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case []any:
		for _, e := range t {
			if m.Contains(e) {
				return true
			}
		}
		return false
	case *snapshot.Object:
		for _, k := range t.Keys() {
			e, _ := t.Get(k)
			if m.Contains(e) {
				return true
			}
		}
		return false
	default:
		return strings.Contains(m.lower.String(Stringify(t)), m.needle)
	}
}

// Stringify renders a scalar the way JavaScript's String() does.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return formatNumber(t)
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			if e != nil {
				parts[i] = Stringify(e)
			}
		}
		return strings.Join(parts, ",")
	case *snapshot.Object:
		return "[object Object]"
	default:
		return ""
	}
}

func formatNumber(f float64) string {
	abs := math.Abs(f)
	if abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		// JavaScript drops the exponent's leading zeros: 1e-7, not 1e-07.
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
		return mant + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
