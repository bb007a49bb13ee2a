package engine

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/mockapi/pkg/docs"
	"github.com/getmockd/mockapi/pkg/httputil"
	"github.com/getmockd/mockapi/pkg/snapshot"
)

const testDB = `{
  "coaches": [
    {"id": 1, "name": "Alex Smith", "teamId": 10},
    {"id": 2, "name": "Sam Lee", "teamId": 11},
    {"id": 3, "name": "Kim Park", "teamId": 10}
  ],
  "teams": [{"id": 10, "name": "Hawks"}, {"id": 11, "name": "Owls"}],
  "sessions": [
    {"id": 100, "coachId": 1, "topic": "Drills"},
    {"id": 101, "coachId": 2, "topic": "Tactics"}
  ],
  "categories": [{"id": "youth slot", "label": "Youth"}]
}`

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	src, err := snapshot.LoadStatic([]byte(testDB))
	require.NoError(t, err)
	return NewHandler(src,
		WithDocsOptions(docs.Options{Title: "Coaching"}),
		WithClock(func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }),
	)
}

func do(t *testing.T, h http.Handler, method, target string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.Equal(t, httputil.ContentTypeJSON, rec.Header().Get("Content-Type"), "body: %s", rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestHandler_Index(t *testing.T) {
	h := newTestHandler(t)
	rec := do(t, h, http.MethodGet, "http://api.test/", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	decodeJSON(t, rec, &body)
	assert.Equal(t, "Coaching", body["name"])
	assert.Equal(t, "http://api.test/docs", body["docs"])
	assert.Equal(t, []any{"coaches", "teams", "sessions", "categories"}, body["collections"])
	assert.True(t, strings.HasPrefix(rec.Body.String(), "{\n  \"name\""), "JSON is indented")
}

func TestHandler_List(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodGet, "/coaches?teamId=10&_page=1&_limit=1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-Total-Count"))

	var items []map[string]any
	decodeJSON(t, rec, &items)
	require.Len(t, items, 1)
	assert.Equal(t, 1.0, items[0]["id"])
}

func TestHandler_ListEmptyResultIsArray(t *testing.T) {
	h := newTestHandler(t)
	rec := do(t, h, http.MethodGet, "/coaches?q=nobody", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-Total-Count"))
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestHandler_DetailPreservesFieldOrder(t *testing.T) {
	h := newTestHandler(t)
	rec := do(t, h, http.MethodGet, "/coaches/1?_expand=team&_embed=sessions", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	idx := func(s string) int { return strings.Index(body, s) }
	assert.Less(t, idx(`"id"`), idx(`"name"`))
	assert.Less(t, idx(`"teamId"`), idx(`"team": {`))
	assert.Less(t, idx(`"team": {`), idx(`"sessions"`))

	var rec1 map[string]any
	decodeJSON(t, rec, &rec1)
	assert.Equal(t, map[string]any{"id": 10.0, "name": "Hawks"}, rec1["team"])
	assert.Len(t, rec1["sessions"], 1)
}

func TestHandler_DetailDecodesPathSegment(t *testing.T) {
	h := newTestHandler(t)
	rec := do(t, h, http.MethodGet, "/categories/youth%20slot", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_NotFoundShapes(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name     string
		target   string
		wantJSON bool
	}{
		{"unknown collection list", "/bogus", false},
		{"unknown collection detail", "/bogus/1", false},
		{"too many segments", "/coaches/1/sessions", false},
		{"missing record", "/coaches/999", true},
		{"string id does not match number", "/teams/abc", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, tt.target, nil)
			assert.Equal(t, http.StatusNotFound, rec.Code)
			if tt.wantJSON {
				var body map[string]string
				decodeJSON(t, rec, &body)
				assert.Equal(t, map[string]string{"error": "Not found"}, body)
			} else {
				assert.Equal(t, httputil.ContentTypeText, rec.Header().Get("Content-Type"))
				assert.Equal(t, "Not Found", rec.Body.String())
			}
		})
	}
}

func TestHandler_OpenAPI(t *testing.T) {
	h := newTestHandler(t)
	rec := do(t, h, http.MethodGet, "http://api.test/openapi.json", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	decodeJSON(t, rec, &body)
	assert.Equal(t, "3.0.3", body["openapi"])
	assert.Equal(t, []any{map[string]any{"url": "http://api.test"}}, body["servers"])
	paths := body["paths"].(map[string]any)
	assert.Contains(t, paths, "/coaches")
	assert.Contains(t, paths, "/coaches/{id}")
}

func TestHandler_Docs(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodGet, "/docs", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, httputil.ContentTypeHTML, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "swagger-ui")

	for _, tc := range []struct {
		target string
		header map[string]string
	}{
		{"/docs?format=json", nil},
		{"/docs", map[string]string{"Accept": "application/json"}},
	} {
		rec = do(t, h, http.MethodGet, tc.target, tc.header)
		var view map[string]any
		decodeJSON(t, rec, &view)
		assert.Equal(t, "Coaching", view["title"])
		assert.Equal(t, "2026-01-02T03:04:05.000Z", view["generatedAt"])
		assert.Len(t, view["resources"], 4)
	}
}

func TestHandler_Methods(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodOptions, "/anything/at/all", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/coaches", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, HEAD, OPTIONS", rec.Header().Get("Allow"))

	rec = do(t, h, http.MethodHead, "/coaches", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "3", rec.Header().Get("X-Total-Count"))
}

type failingSource struct{}

func (failingSource) Snapshot(context.Context) (*snapshot.State, error) {
	return nil, errors.New("disk on fire")
}

func TestHandler_SnapshotUnavailable(t *testing.T) {
	h := NewHandler(failingSource{})
	rec := do(t, h, http.MethodGet, "/coaches", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, httputil.ContentTypeText, rec.Header().Get("Content-Type"))
}

func TestSplitPath(t *testing.T) {
	segs, ok := splitPath("//coaches//a%2Fb/")
	require.True(t, ok)
	assert.Equal(t, []string{"coaches", "a/b"}, segs)

	_, ok = splitPath("/bad%zz")
	assert.False(t, ok)

	_, ok = splitPath("///")
	assert.False(t, ok)
}
