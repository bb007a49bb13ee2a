// Package httputil provides shared HTTP utilities for consistent response handling.
package httputil

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// Content types written by this package.
const (
	ContentTypeJSON = "application/json; charset=utf-8"
	ContentTypeText = "text/plain; charset=utf-8"
	ContentTypeHTML = "text/html; charset=utf-8"
)

// EncodeJSON renders data indented by two spaces. HTML characters are not
// escaped.
func EncodeJSON(data any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteJSON writes an indented JSON response with the given status code.
// If data cannot be encoded a 500 text response is written instead.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	body, err := EncodeJSON(data)
	if err != nil {
		WriteText(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// WriteError writes a JSON error response of the form {"error": message}.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

// WriteText writes a plain text response.
func WriteText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", ContentTypeText)
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// WriteHTML writes an HTML response.
func WriteHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", ContentTypeHTML)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// WriteOK writes a 200 OK response with data.
func WriteOK(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, data)
}

// WriteNotFound writes the JSON 404 used for a missing record.
func WriteNotFound(w http.ResponseWriter) {
	WriteError(w, http.StatusNotFound, "Not found")
}

// WriteTextNotFound writes the plain text 404 used for unknown routes.
func WriteTextNotFound(w http.ResponseWriter) {
	WriteText(w, http.StatusNotFound, "Not Found")
}

// WriteMethodNotAllowed writes a 405 and advertises the allowed methods.
func WriteMethodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	WriteText(w, http.StatusMethodNotAllowed, "Method Not Allowed")
}

// WriteServiceUnavailable writes a 503 Service Unavailable text response.
func WriteServiceUnavailable(w http.ResponseWriter) {
	WriteText(w, http.StatusServiceUnavailable, "Service Unavailable")
}
