// Package requestlog keeps a bounded history of served requests for
// inspection through the admin listener.
//
// It is distinct from operational logging (which uses log/slog): entries are
// structured records a client can list and filter, not log lines.
//
//	store := requestlog.NewMemoryStore(1000)
//	store.Log(&requestlog.Entry{Method: "GET", Path: "/coaches", ResponseStatus: 200})
//	recent := store.List(&requestlog.Filter{Limit: 10})
//
// This is a leaf package with no internal dependencies.
package requestlog
