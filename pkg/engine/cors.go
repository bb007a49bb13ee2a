// CORS middleware for the API server.

package engine

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/getmockd/mockapi/pkg/config"
)

// CORSMiddleware wraps an http.Handler with CORS handling based on configuration.
type CORSMiddleware struct {
	handler http.Handler
	config  *config.CORSConfig
}

// NewCORSMiddleware creates a new CORS middleware with the given configuration.
// If config is nil, config.DefaultCORSConfig is used.
func NewCORSMiddleware(handler http.Handler, cfg *config.CORSConfig) *CORSMiddleware {
	if cfg == nil {
		cfg = config.DefaultCORSConfig()
	}
	return &CORSMiddleware{
		handler: handler,
		config:  cfg,
	}
}

// ServeHTTP implements the http.Handler interface.
func (m *CORSMiddleware) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !m.config.Enabled {
		m.handler.ServeHTTP(w, r)
		return
	}

	allowOrigin := m.config.GetAllowOriginValue(r.Header.Get("Origin"))
	if allowOrigin != "" {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", allowOrigin)
		if !m.config.IsWildcard() || m.config.AllowCredentials {
			h.Add("Vary", "Origin")
		}

		methods := m.config.AllowMethods
		if len(methods) == 0 {
			methods = []string{http.MethodGet, http.MethodOptions}
		}
		h.Set("Access-Control-Allow-Methods", strings.Join(methods, ", "))

		headers := m.config.AllowHeaders
		if len(headers) == 0 {
			headers = []string{"*"}
		}
		h.Set("Access-Control-Allow-Headers", strings.Join(headers, ", "))

		if len(m.config.ExposeHeaders) > 0 {
			h.Set("Access-Control-Expose-Headers", strings.Join(m.config.ExposeHeaders, ", "))
		}
		if m.config.AllowCredentials {
			h.Set("Access-Control-Allow-Credentials", "true")
		}
		if m.config.MaxAge > 0 {
			h.Set("Access-Control-Max-Age", strconv.Itoa(m.config.MaxAge))
		}
	}

	// A preflight from a disallowed origin is refused; everything else is
	// answered by the handler.
	if r.Method == http.MethodOptions && allowOrigin == "" && r.Header.Get("Origin") != "" {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	m.handler.ServeHTTP(w, r)
}
