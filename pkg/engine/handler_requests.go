// Request history endpoints for the admin listener.

package engine

import (
	"net/http"
	"strconv"

	"github.com/getmockd/mockapi/pkg/httputil"
	"github.com/getmockd/mockapi/pkg/requestlog"
)

// defaultHistoryLimit bounds /requests when no limit is given.
const defaultHistoryLimit = 100

// handleListRequests returns recorded requests, newest first.
// Query parameters: method, path (prefix), status, limit, offset.
func (s *Server) handleListRequests(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := &requestlog.Filter{
		Method: q.Get("method"),
		Path:   q.Get("path"),
		Limit:  defaultHistoryLimit,
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"status", &filter.StatusCode},
		{"limit", &filter.Limit},
		{"offset", &filter.Offset},
	}
	for _, p := range ints {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			httputil.WriteError(w, http.StatusBadRequest, "invalid "+p.name+": must be a non-negative integer")
			return
		}
		*p.dst = n
	}

	entries := s.history.List(filter)
	httputil.WriteOK(w, map[string]any{
		"requests": entries,
		"count":    len(entries),
		"total":    s.history.Count(),
	})
}

// handleGetRequest returns one recorded request by request id.
func (s *Server) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	entry := s.history.Get(r.PathValue("id"))
	if entry == nil {
		httputil.WriteNotFound(w)
		return
	}
	httputil.WriteOK(w, entry)
}

// handleClearRequests empties the history.
func (s *Server) handleClearRequests(w http.ResponseWriter, _ *http.Request) {
	s.history.Clear()
	w.WriteHeader(http.StatusNoContent)
}
