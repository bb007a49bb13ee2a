// Health probe for the admin listener.

package engine

import (
	"net/http"
	"time"

	"github.com/getmockd/mockapi/pkg/httputil"
)

// handleHealth reports liveness and whether a snapshot can be read.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	state, err := s.source.Snapshot(r.Context())
	if err != nil {
		httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "unavailable",
			"error":  err.Error(),
		})
		return
	}
	httputil.WriteOK(w, map[string]any{
		"status":      "healthy",
		"collections": state.Len(),
		"uptime":      s.Uptime().Round(time.Second).String(),
	})
}
