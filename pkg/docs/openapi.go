package docs

import (
	"fmt"
	"net/http"
	"regexp"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/getmockd/mockapi/pkg/naming"
	"github.com/getmockd/mockapi/pkg/query"
	"github.com/getmockd/mockapi/pkg/relation"
	"github.com/getmockd/mockapi/pkg/schema"
	"github.com/getmockd/mockapi/pkg/snapshot"
)

// OpenAPIVersion is the OpenAPI version of generated documents.
const OpenAPIVersion = "3.0.3"

// invalidComponentChars matches what OpenAPI forbids in component names.
var invalidComponentChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// BuildOpenAPI derives an OpenAPI document from state. origin becomes the
// single server URL ("/" when empty).
//
// Each collection gets a component schema inferred from its first record and
// two read-only paths: GET /{collection} and GET /{collection}/{id}.
func BuildOpenAPI(state *snapshot.State, origin string, opts Options) *openapi3.T {
	if origin == "" {
		origin = "/"
	}

	doc := &openapi3.T{
		OpenAPI: OpenAPIVersion,
		Info: &openapi3.Info{
			Title:   opts.title(),
			Version: opts.version(),
		},
		Servers:    openapi3.Servers{&openapi3.Server{URL: origin}},
		Paths:      openapi3.NewPaths(),
		Components: &openapi3.Components{Schemas: make(openapi3.Schemas)},
	}

	for _, c := range state.Collections() {
		sample, _ := c.Sample()
		rels := relation.Infer(sample, state)
		name := ComponentName(c.Name)

		record := recordSchema(sample, rels)
		doc.Components.Schemas[name] = openapi3.NewSchemaRef("", record)
		ref := openapi3.NewSchemaRef("#/components/schemas/"+name, record)

		doc.Paths.Set("/"+c.Name, &openapi3.PathItem{Get: listOperation(c.Name, ref)})
		doc.Paths.Set("/"+c.Name+"/{id}", &openapi3.PathItem{Get: detailOperation(name, ref, rels)})
	}
	return doc
}

// ComponentName is the schema component name for a collection. Characters
// OpenAPI does not allow in component names become underscores.
func ComponentName(collection string) string {
	name := invalidComponentChars.ReplaceAllString(naming.SchemaName(collection), "_")
	if name == "" {
		return "_"
	}
	return name
}

func recordSchema(sample *snapshot.Object, rels []relation.Relationship) *openapi3.Schema {
	_, props := schema.Properties(sample)
	for _, r := range rels {
		p, ok := props[r.Field]
		if !ok {
			continue
		}
		p.Value.Description = relationDescription(r)
	}
	s := openapi3.NewObjectSchema()
	s.Properties = props
	return s
}

func relationDescription(r relation.Relationship) string {
	if r.Direction == relation.ToMany {
		return fmt.Sprintf("Array of foreign keys to %s (use ?_embed=%s on detail route)", r.Target, r.Target)
	}
	return fmt.Sprintf("Foreign key to %s (use ?_expand=%s on detail route)", r.Target, naming.Singular(r.Target))
}

func listOperation(collection string, ref *openapi3.SchemaRef) *openapi3.Operation {
	page := openapi3.NewIntegerSchema().WithMin(1)
	limit := openapi3.NewIntegerSchema().WithMin(1)

	return &openapi3.Operation{
		Summary: "List " + collection,
		Parameters: openapi3.Parameters{
			{Value: openapi3.NewQueryParameter(query.ParamSearch).WithSchema(openapi3.NewStringSchema()).WithDescription("Full-text search")},
			{Value: openapi3.NewQueryParameter(query.ParamPage).WithSchema(page).WithDescription("Page number")},
			{Value: openapi3.NewQueryParameter(query.ParamLimit).WithSchema(limit).WithDescription("Items per page")},
		},
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().
					WithDescription("OK").
					WithJSONSchemaRef(&openapi3.SchemaRef{Value: &openapi3.Schema{
						Type:  &openapi3.Types{openapi3.TypeArray},
						Items: ref,
					}}),
			}),
		),
	}
}

func detailOperation(schemaName string, ref *openapi3.SchemaRef, rels []relation.Relationship) *openapi3.Operation {
	expand := make([]string, 0)
	seen := make(map[string]bool)
	for _, target := range relation.Targets(rels, relation.ToOne) {
		s := naming.Singular(target)
		if !seen[s] {
			seen[s] = true
			expand = append(expand, s)
		}
	}
	embed := relation.Targets(rels, relation.ToMany)

	return &openapi3.Operation{
		Summary: "Get " + schemaName + " by id",
		Parameters: openapi3.Parameters{
			{Value: openapi3.NewPathParameter("id").WithSchema(openapi3.NewIntegerSchema())},
			{Value: openapi3.NewQueryParameter(query.ParamExpand).WithSchema(enumSchema(expand)).WithDescription("Expand to-one relations")},
			{Value: openapi3.NewQueryParameter(query.ParamEmbed).WithSchema(enumSchema(embed)).WithDescription("Embed to-many relations")},
		},
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().WithDescription("OK").WithJSONSchemaRef(ref),
			}),
			openapi3.WithStatus(http.StatusNotFound, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().WithDescription("Not Found"),
			}),
		),
	}
}

// enumSchema is a string schema restricted to values, or free-form when
// values is empty.
func enumSchema(values []string) *openapi3.Schema {
	s := openapi3.NewStringSchema()
	if len(values) == 0 {
		return s
	}
	enum := make([]any, len(values))
	for i, v := range values {
		enum[i] = v
	}
	return s.WithEnum(enum...)
}
