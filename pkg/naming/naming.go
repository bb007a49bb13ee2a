// Package naming holds the English-only naming conventions that connect
// field names to collection names.
//
// These are lossy heuristics. Irregular plurals ("people", "mice") are not
// handled and a guessed collection may not exist.
package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Known reports whether a collection name exists.
type Known interface {
	Has(name string) bool
}

// Set is a Known backed by a map.
type Set map[string]struct{}

// NewSet builds a Set from names.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has implements Known.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Singular turns a collection name into its singular form:
// "categories" -> "category", "teams" -> "team", "staff" -> "staff".
func Singular(name string) string {
	switch {
	case strings.HasSuffix(name, "ies"):
		return strings.TrimSuffix(name, "ies") + "y"
	case strings.HasSuffix(name, "s"):
		return strings.TrimSuffix(name, "s")
	default:
		return name
	}
}

// PluralCandidates returns the two plural guesses for base, lower-cased,
// in the order they are tried: base+"s", then base+"es".
func PluralCandidates(base string) [2]string {
	return [2]string{
		strings.ToLower(base + "s"),
		strings.ToLower(base + "es"),
	}
}

// SchemaName derives the component schema name for a collection:
// "coaches" -> "Coache", "categories" -> "Category".
func SchemaName(collection string) string {
	s := Singular(collection)
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// ForeignKeyBase strips the "Id" or "Ids" suffix from a field name.
// ok is false when the field has neither suffix.
func ForeignKeyBase(field string) (base string, ok bool) {
	switch {
	case strings.HasSuffix(field, "Ids"):
		return strings.TrimSuffix(field, "Ids"), true
	case strings.HasSuffix(field, "Id"):
		return strings.TrimSuffix(field, "Id"), true
	default:
		return field, false
	}
}

// GuessResource guesses the collection a foreign-key field points at.
// "teamId" and "teamIds" both try "teams" then "teames"; the first known
// candidate wins. When neither exists the "s" form is returned anyway, so
// callers may receive a name that is not a collection.
func GuessResource(field string, known Known) string {
	base, _ := ForeignKeyBase(field)
	candidates := PluralCandidates(base)
	if known != nil {
		for _, c := range candidates {
			if known.Has(c) {
				return c
			}
		}
	}
	return candidates[0]
}

// ForeignKey returns the field that points at one record of collection:
// "teams" -> "teamId", "coaches" -> "coacheId".
func ForeignKey(collection string) string {
	return Singular(collection) + "Id"
}

// ForeignKeyCandidates returns every field name that may point back at one
// record of collection. ForeignKey comes first; names ending in "es" (but
// not "ies") also yield the form with "es" dropped, so children of
// "coaches" may use "coachId".
func ForeignKeyCandidates(collection string) []string {
	fks := []string{ForeignKey(collection)}
	if strings.HasSuffix(collection, "es") && !strings.HasSuffix(collection, "ies") {
		fks = append(fks, strings.TrimSuffix(collection, "es")+"Id")
	}
	return fks
}
