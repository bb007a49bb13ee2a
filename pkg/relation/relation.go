// Package relation infers relationships between collections from field
// naming conventions alone.
//
// Inference is best-effort. A field that happens to end in "Id" is reported
// as a foreign key even when it is not one, and foreign keys named any other
// way are missed. Nothing here is configurable; the naming convention is the
// whole contract.
package relation

import (
	"strings"

	"github.com/getmockd/mockapi/pkg/naming"
	"github.com/getmockd/mockapi/pkg/snapshot"
)

// Direction says how many records a relationship field points at.
type Direction string

// Directions.
const (
	ToOne  Direction = "to-one"
	ToMany Direction = "to-many"
)

// Relationship is one inferred foreign-key field.
type Relationship struct {
	// Field is the field name on the sample record, e.g. "teamId".
	Field string `json:"field"`
	// Direction is ToOne for "…Id" scalars and ToMany for "…Ids" arrays.
	Direction Direction `json:"type"`
	// Target is the guessed collection. It may not exist.
	Target string `json:"resource"`
}

// Classify decides whether field/value looks like a foreign key.
//
//   - "…Id" with a scalar or null value is ToOne.
//   - "…Ids" with an array value is ToMany.
//
// Anything else is not a relationship.
func Classify(field string, value any) (Direction, bool) {
	switch value.(type) {
	case *snapshot.Object:
		return "", false
	case []any:
		if strings.HasSuffix(field, "Ids") {
			return ToMany, true
		}
		return "", false
	default:
		if strings.HasSuffix(field, "Id") {
			return ToOne, true
		}
		return "", false
	}
}

// Infer lists the relationships of a sample record in field order.
// A nil sample has none.
func Infer(sample *snapshot.Object, known naming.Known) []Relationship {
	rels := make([]Relationship, 0)
	if sample == nil {
		return rels
	}
	for _, field := range sample.Keys() {
		value, _ := sample.Get(field)
		dir, ok := Classify(field, value)
		if !ok {
			continue
		}
		rels = append(rels, Relationship{
			Field:     field,
			Direction: dir,
			Target:    naming.GuessResource(field, known),
		})
	}
	return rels
}

// Targets returns the distinct targets of relationships with direction dir,
// in first-seen order.
func Targets(rels []Relationship, dir Direction) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, r := range rels {
		if r.Direction != dir || seen[r.Target] {
			continue
		}
		seen[r.Target] = true
		out = append(out, r.Target)
	}
	return out
}
