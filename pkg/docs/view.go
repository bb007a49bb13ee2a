package docs

import (
	"time"

	"github.com/getmockd/mockapi/pkg/naming"
	"github.com/getmockd/mockapi/pkg/relation"
	"github.com/getmockd/mockapi/pkg/snapshot"
)

// Tips are the usage hints included in every documentation view.
var Tips = []string{
	"Use ?q=term for full-text search across fields",
	"Use ?_page=1&_limit=10 for pagination",
	"Use ?field=value to filter by equality",
	"Use ?_expand=resource (detail only) to include to-one relations",
	"Use ?_embed=collection (detail only) to include related items",
}

// Index is the body of the root route.
type Index struct {
	Name        string   `json:"name"`
	Docs        string   `json:"docs"`
	Collections []string `json:"collections"`
}

// BuildIndex describes the snapshot's entry points. docsURL should be
// absolute.
func BuildIndex(state *snapshot.State, docsURL string, opts Options) Index {
	return Index{
		Name:        opts.title(),
		Docs:        docsURL,
		Collections: state.Names(),
	}
}

// View is the documentation view.
type View struct {
	Title       string     `json:"title"`
	Version     string     `json:"version"`
	GeneratedAt string     `json:"generatedAt"`
	BaseURL     string     `json:"baseUrl"`
	Resources   []Resource `json:"resources"`
	Tips        []string   `json:"tips"`
}

// Resource documents one collection.
type Resource struct {
	Name          string                  `json:"name"`
	Count         int                     `json:"count"`
	IDField       string                  `json:"idField"`
	Fields        []string                `json:"fields"`
	Relationships []relation.Relationship `json:"relationships"`
	Routes        Routes                  `json:"routes"`
	// Sample is the first record, or nil when the collection is empty or
	// starts with something other than an object.
	Sample *snapshot.Object `json:"sample"`
}

// Routes are URL templates for a collection.
type Routes struct {
	List   string   `json:"list"`
	Detail string   `json:"detail"`
	Search string   `json:"search"`
	Filter string   `json:"filter"`
	Expand []string `json:"expand"`
	Embed  []string `json:"embed"`
}

// BuildView documents every collection of state in document order. now
// stamps generatedAt.
func BuildView(state *snapshot.State, now time.Time, opts Options) View {
	view := View{
		Title:       opts.title(),
		Version:     opts.version(),
		GeneratedAt: now.UTC().Format("2006-01-02T15:04:05.000Z"),
		BaseURL:     opts.BaseURL,
		Resources:   make([]Resource, 0, state.Len()),
		Tips:        append([]string(nil), Tips...),
	}
	for _, c := range state.Collections() {
		view.Resources = append(view.Resources, buildResource(c, state))
	}
	return view
}

func buildResource(c *snapshot.Collection, known naming.Known) Resource {
	sample, _ := c.Sample()
	rels := relation.Infer(sample, known)

	fields := sample.Keys()
	if fields == nil {
		fields = []string{}
	}

	routes := Routes{
		List:   "/" + c.Name,
		Detail: "/" + c.Name + "/:id",
		Search: "/" + c.Name + "?q=term",
		Filter: "/" + c.Name + "?field=value",
		Expand: make([]string, 0),
		Embed:  make([]string, 0),
	}
	for _, target := range relation.Targets(rels, relation.ToOne) {
		routes.Expand = append(routes.Expand, routes.Detail+"?_expand="+naming.Singular(target))
	}
	for _, target := range relation.Targets(rels, relation.ToMany) {
		routes.Embed = append(routes.Embed, routes.Detail+"?_embed="+target)
	}

	return Resource{
		Name:          c.Name,
		Count:         c.Len(),
		IDField:       snapshot.IDField,
		Fields:        fields,
		Relationships: rels,
		Routes:        routes,
		Sample:        sample,
	}
}
