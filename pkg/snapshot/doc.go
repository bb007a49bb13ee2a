// Package snapshot provides the read-only view of the database that every
// request is resolved against.
//
// A database is a JSON object whose top-level array-valued entries are
// collections of records. Values decode into a small, closed set of Go
// types so the rest of mockapi can switch on them exhaustively:
//
//	nil | bool | float64 | string | []any | *Object
//
// Objects keep their keys in document order. Field order matters: the first
// record of a collection is the sample that drives relationship and schema
// inference, and responses echo records back in the order they were written.
//
// # Sources
//
// A Source hands out one fully formed *State per request:
//
//   - Static serves a snapshot built once, for example from an embedded file.
//   - FileSource reads one or more database files from disk and reloads them
//     when they change, swapping whole snapshots so a request never sees a
//     partial reload.
//
// Database files may contain comments and trailing commas.
package snapshot
