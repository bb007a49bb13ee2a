package requestlog

import "time"

// Entry captures one served request.
type Entry struct {
	// ID is the request id (the X-Request-ID value).
	ID string `json:"id"`

	// Timestamp is when the request was received.
	Timestamp time.Time `json:"timestamp"`

	// Method is the HTTP method.
	Method string `json:"method"`

	// Path is the request URL path.
	Path string `json:"path"`

	// QueryString is the raw query string.
	QueryString string `json:"queryString,omitempty"`

	// Route is the route template the path matched, e.g. "/:collection/:id".
	Route string `json:"route"`

	// RemoteAddr is the client address.
	RemoteAddr string `json:"remoteAddr"`

	// UserAgent is the client's User-Agent header.
	UserAgent string `json:"userAgent,omitempty"`

	// ResponseStatus is the status code returned.
	ResponseStatus int `json:"responseStatus"`

	// DurationMs is the request processing time in milliseconds.
	DurationMs float64 `json:"durationMs"`
}
