// Package schema infers OpenAPI property types from a single sample value.
//
// A collection has no declared types, so the first record stands in for all
// of them. Inference never recurses into nested objects and never looks past
// the first element of an array.
package schema

import (
	"math"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/getmockd/mockapi/pkg/snapshot"
)

// Kind is the inferred shape of a value.
type Kind int

const (
	// KindUnknown means there was no sample value at all.
	KindUnknown Kind = iota
	KindNull
	KindBool
	KindInteger
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindInteger:
		return "integer"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Type is an inferred property type. Elem is set only for arrays, and is nil
// for an empty array.
type Type struct {
	Kind Kind
	Elem *Type
}

// Infer returns the type of v. present is false when there is no sample.
func Infer(v any, present bool) Type {
	if !present {
		return Type{Kind: KindUnknown}
	}
	switch t := v.(type) {
	case nil:
		return Type{Kind: KindNull}
	case bool:
		return Type{Kind: KindBool}
	case float64:
		if t == math.Trunc(t) && !math.IsInf(t, 0) {
			return Type{Kind: KindInteger}
		}
		return Type{Kind: KindNumber}
	case string:
		return Type{Kind: KindString}
	case []any:
		if len(t) == 0 {
			return Type{Kind: KindArray}
		}
		elem := elemType(t[0])
		return Type{Kind: KindArray, Elem: &elem}
	case *snapshot.Object:
		return Type{Kind: KindObject}
	default:
		return Type{Kind: KindString}
	}
}

// elemType infers an array element type. Anything that is not a scalar,
// null included, is reported as an object.
func elemType(v any) Type {
	switch v.(type) {
	case nil, []any, *snapshot.Object:
		return Type{Kind: KindObject}
	default:
		return Infer(v, true)
	}
}

// OpenAPI maps the type to an OpenAPI schema. The mapping is total:
//
//	unknown       string
//	null          string, nullable
//	array         array of the element type, string when empty
//	object        object (no properties)
func (t Type) OpenAPI() *openapi3.Schema {
	switch t.Kind {
	case KindNull:
		return openapi3.NewStringSchema().WithNullable()
	case KindBool:
		return openapi3.NewBoolSchema()
	case KindInteger:
		return openapi3.NewIntegerSchema()
	case KindNumber:
		return openapi3.NewFloat64Schema()
	case KindArray:
		items := openapi3.NewStringSchema()
		if t.Elem != nil {
			items = t.Elem.OpenAPI()
		}
		return openapi3.NewArraySchema().WithItems(items)
	case KindObject:
		return openapi3.NewObjectSchema()
	default:
		return openapi3.NewStringSchema()
	}
}

// Properties infers a schema for every field of sample, in field order.
// A nil sample yields no properties.
func Properties(sample *snapshot.Object) ([]string, openapi3.Schemas) {
	keys := sample.Keys()
	props := make(openapi3.Schemas, len(keys))
	for _, k := range keys {
		v, _ := sample.Get(k)
		props[k] = openapi3.NewSchemaRef("", Infer(v, true).OpenAPI())
	}
	return keys, props
}
