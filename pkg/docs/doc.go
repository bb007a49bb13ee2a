// Package docs describes a snapshot for humans and tools.
//
// Three artifacts are derived from the live data, never from declared types:
//
//   - Index: the root document listing collection names.
//   - View: a navigable summary of every collection with its fields, inferred
//     relationships, route templates and a sample record.
//   - OpenAPI: an OpenAPI 3.0.3 document with one schema and two GET paths per
//     collection.
//
// Everything is rebuilt from the snapshot on each call; nothing is cached.
package docs

// Default labels used when Options leaves them empty.
const (
	DefaultTitle   = "Mock API"
	DefaultVersion = "1.0.0"
)

// Options controls the labels of generated documents.
type Options struct {
	Title   string
	Version string
	// BaseURL is reported in the documentation view. Empty means relative.
	BaseURL string
}

func (o Options) title() string {
	if o.Title == "" {
		return DefaultTitle
	}
	return o.Title
}

func (o Options) version() string {
	if o.Version == "" {
		return DefaultVersion
	}
	return o.Version
}
