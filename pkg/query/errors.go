package query

import (
	"fmt"
	"net/http"
)

// NotFoundError is returned by Detail when no record has the requested id.
type NotFoundError struct {
	Collection string
	ID         string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("collection %q has no record with id %q", e.Collection, e.ID)
}

// StatusCode returns the HTTP status code for this error.
func (e *NotFoundError) StatusCode() int {
	return http.StatusNotFound
}

// Hint returns a user-friendly suggestion for resolving this error.
func (e *NotFoundError) Hint() string {
	return fmt.Sprintf("Use GET /%s to list the available ids.", e.Collection)
}

// CollectionNotFoundError is returned when the requested collection does not
// exist in the snapshot.
type CollectionNotFoundError struct {
	Collection string
}

func (e *CollectionNotFoundError) Error() string {
	return fmt.Sprintf("collection %q not found", e.Collection)
}

// StatusCode returns the HTTP status code for this error.
func (e *CollectionNotFoundError) StatusCode() int {
	return http.StatusNotFound
}

// Hint returns a user-friendly suggestion for resolving this error.
func (e *CollectionNotFoundError) Hint() string {
	return "Collections are the top-level arrays of the database. GET / lists them."
}

// StatusCodeError is an error that maps to an HTTP status code.
type StatusCodeError interface {
	error
	StatusCode() int
}

// HintError is an error that carries a resolution hint.
type HintError interface {
	error
	Hint() string
}

var (
	_ StatusCodeError = (*NotFoundError)(nil)
	_ HintError       = (*NotFoundError)(nil)
	_ StatusCodeError = (*CollectionNotFoundError)(nil)
	_ HintError       = (*CollectionNotFoundError)(nil)
)
