package engine

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/getmockd/mockapi/pkg/docs"
	"github.com/getmockd/mockapi/pkg/httputil"
	"github.com/getmockd/mockapi/pkg/logging"
	"github.com/getmockd/mockapi/pkg/query"
	"github.com/getmockd/mockapi/pkg/snapshot"
)

// Reserved routes.
const (
	PathIndex   = "/"
	PathDocs    = "/docs"
	PathOpenAPI = "/openapi.json"
)

// allowedMethods is advertised on 405 responses.
const allowedMethods = "GET, HEAD, OPTIONS"

// Handler routes API requests to the query resolver and the docs generator.
type Handler struct {
	source snapshot.Source
	docs   docs.Options
	log    *slog.Logger
	now    func() time.Time
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithHandlerLogger sets the handler's logger.
func WithHandlerLogger(log *slog.Logger) HandlerOption {
	return func(h *Handler) {
		h.log = logging.OrNop(log)
	}
}

// WithDocsOptions sets the labels used by the index, docs and OpenAPI routes.
func WithDocsOptions(opts docs.Options) HandlerOption {
	return func(h *Handler) {
		h.docs = opts
	}
}

// WithClock overrides the clock used for generatedAt.
func WithClock(now func() time.Time) HandlerOption {
	return func(h *Handler) {
		if now != nil {
			h.now = now
		}
	}
}

// NewHandler creates a Handler reading from source.
func NewHandler(source snapshot.Source, opts ...HandlerOption) *Handler {
	h := &Handler{
		source: source,
		log:    logging.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return
	default:
		httputil.WriteMethodNotAllowed(w, allowedMethods)
		return
	}

	state, err := h.source.Snapshot(r.Context())
	if err != nil {
		h.log.Warn("snapshot unavailable", "path", r.URL.Path, "error", err)
		httputil.WriteServiceUnavailable(w)
		return
	}

	switch r.URL.Path {
	case PathIndex, "":
		h.handleIndex(w, r, state)
		return
	case PathOpenAPI:
		httputil.WriteOK(w, docs.BuildOpenAPI(state, origin(r), h.docs))
		return
	case PathDocs:
		h.handleDocs(w, r, state)
		return
	}

	segments, ok := splitPath(r.URL.EscapedPath())
	if !ok {
		httputil.WriteTextNotFound(w)
		return
	}
	switch len(segments) {
	case 1:
		h.handleList(w, r, state, segments[0])
	case 2:
		h.handleDetail(w, r, state, segments[0], segments[1])
	default:
		httputil.WriteTextNotFound(w)
	}
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request, state *snapshot.State) {
	httputil.WriteOK(w, docs.BuildIndex(state, origin(r)+PathDocs, h.docs))
}

func (h *Handler) handleDocs(w http.ResponseWriter, r *http.Request, state *snapshot.State) {
	if wantsJSON(r) {
		opts := h.docs
		if opts.BaseURL == "" {
			opts.BaseURL = origin(r)
		}
		httputil.WriteOK(w, docs.BuildView(state, h.now(), opts))
		return
	}

	var buf bytes.Buffer
	if err := docs.WriteViewer(&buf, PathOpenAPI, h.docs); err != nil {
		h.log.Error("render docs viewer", "error", err)
		httputil.WriteText(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	httputil.WriteHTML(w, http.StatusOK, buf.Bytes())
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request, state *snapshot.State, collection string) {
	page, err := query.List(state, collection, query.ParseQuery(r.URL.RawQuery))
	if err != nil {
		h.writeQueryError(w, err)
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(page.Total))
	httputil.WriteOK(w, page.Items)
}

func (h *Handler) handleDetail(w http.ResponseWriter, r *http.Request, state *snapshot.State, collection, id string) {
	q := query.ParseQuery(r.URL.RawQuery)
	rec, err := query.Detail(state, collection, id, q.Expand, q.Embed)
	if err != nil {
		h.writeQueryError(w, err)
		return
	}
	httputil.WriteOK(w, rec)
}

// writeQueryError maps resolver errors: an unknown collection is a route
// miss (text), a missing record is a resource miss (JSON).
func (h *Handler) writeQueryError(w http.ResponseWriter, err error) {
	var cnf *query.CollectionNotFoundError
	var nf *query.NotFoundError
	switch {
	case errors.As(err, &cnf):
		httputil.WriteTextNotFound(w)
	case errors.As(err, &nf):
		httputil.WriteNotFound(w)
	default:
		h.log.Error("query failed", "error", err)
		httputil.WriteText(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

// splitPath splits an escaped path into decoded, non-empty segments.
func splitPath(escaped string) ([]string, bool) {
	var segments []string
	for _, part := range strings.Split(escaped, "/") {
		if part == "" {
			continue
		}
		seg, err := url.PathUnescape(part)
		if err != nil {
			return nil, false
		}
		segments = append(segments, seg)
	}
	return segments, len(segments) > 0
}

// origin returns scheme://host of the request as the client addressed it.
func origin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}

func wantsJSON(r *http.Request) bool {
	if f := r.URL.Query().Get("format"); f != "" {
		return strings.EqualFold(f, "json")
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}
