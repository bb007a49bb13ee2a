// Package query resolves list and detail requests against a snapshot.
//
// List requests accept four reserved directives and treat every other query
// parameter as an equality filter:
//
//	q        case-insensitive substring search over every value of a record
//	_page    1-based page number (needs _limit)
//	_limit   page size (needs _page)
//	field=v  keep records whose field strictly equals v (numeric v is compared as a number)
//
// Detail requests look a record up by id and can attach related records:
//
//	_expand=team      attach the "teams" record referenced by teamId (to-one)
//	_embed=sessions   attach every "sessions" record whose coachId is this record's id (to-many)
//
// Both directives may repeat. Malformed input never fails a request: unknown
// expand/embed names are skipped, bad pagination is ignored, and values that
// do not parse as numbers are compared as strings. The only failures are an
// unknown collection and, for detail, an unknown id.
//
// Everything in this package is a pure read of the *snapshot.State it is
// given.
package query
