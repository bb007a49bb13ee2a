package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/getmockd/mockapi/pkg/config"
)

const testDB = `{
  "coaches": [{"id": 1, "name": "Alex", "teamId": 2}],
  "teams": [{"id": 2, "name": "Hawks"}]
}`

func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func run(t *testing.T, ctx context.Context, env map[string]string, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand(envMap(env))
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(defaultToServe(args))
	err := root.ExecuteContext(ctx)
	return out.String(), err
}

func writeDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte(testDB), 0o644))
	return path
}

func TestDefaultToServe(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
	}{
		{nil, []string{"serve"}},
		{[]string{"--db", "x.json"}, []string{"serve", "--db", "x.json"}},
		{[]string{"-p", "8080"}, []string{"serve", "-p", "8080"}},
		{[]string{"--help"}, []string{"--help"}},
		{[]string{"openapi"}, []string{"openapi"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, defaultToServe(tt.in), "%v", tt.in)
	}
}

func TestCollections_Sample(t *testing.T) {
	out, err := run(t, context.Background(), nil, "collections")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "coaches")
	assert.Contains(t, out, "clubId->clubs")
}

func TestCollections_JSON(t *testing.T) {
	out, err := run(t, context.Background(), nil, "collections", "--db", writeDB(t), "--json")
	require.NoError(t, err)

	var rows []collectionSummary
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, collectionSummary{
		Name:      "coaches",
		Count:     1,
		Fields:    []string{"id", "name", "teamId"},
		Relations: []string{"teamId->teams"},
	}, rows[0])
}

func TestCollections_DatabaseFromEnv(t *testing.T) {
	out, err := run(t, context.Background(), map[string]string{"MOCKAPI_DB": writeDB(t)}, "collections", "--json")
	require.NoError(t, err)
	assert.NotContains(t, out, "clubs")
	assert.Contains(t, out, "teams")
}

func TestOpenAPI_JSON(t *testing.T) {
	out, err := run(t, context.Background(), nil, "openapi", "--db", writeDB(t), "--title", "Coaching")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "3.0.3", doc["openapi"])
	assert.Equal(t, "Coaching", doc["info"].(map[string]any)["title"])
	assert.Equal(t, []any{map[string]any{"url": "/"}}, doc["servers"])
}

func TestOpenAPI_YAMLToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openapi.yaml")
	out, err := run(t, context.Background(), nil,
		"openapi", "--db", writeDB(t), "--format", "yaml", "--server-url", "https://api.example.com", "-o", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `{"`, "block style")

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Equal(t, "3.0.3", doc["openapi"])
	paths := doc["paths"].(map[string]any)
	assert.Contains(t, paths, "/coaches/{id}")
}

func TestOpenAPI_InvalidFormat(t *testing.T) {
	_, err := run(t, context.Background(), nil, "openapi", "--format", "xml")
	assert.ErrorContains(t, err, "invalid format")
}

func TestDocs_TitleFromEnv(t *testing.T) {
	out, err := run(t, context.Background(), map[string]string{"MOCKAPI_TITLE": "Club API"}, "docs", "--db", writeDB(t))
	require.NoError(t, err)

	var view map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, "Club API", view["title"])
	assert.Len(t, view["resources"], 2)
}

func TestVersion_JSON(t *testing.T) {
	out, err := run(t, context.Background(), nil, "version", "--json")
	require.NoError(t, err)

	var info VersionInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, Version, info.Version)
	assert.NotEmpty(t, info.GoVersion)
}

func TestServe_StartsAndStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := run(t, ctx, nil, "--db", writeDB(t), "--port", "0", "--host", "127.0.0.1", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "mockapi serving")
	assert.Contains(t, out, "http://127.0.0.1:")
	assert.Contains(t, out, "Shutting down")
}

func TestServe_ConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"port out of range", nil, []string{"serve", "--port", "70000"}},
		{"bad env integer", map[string]string{"MOCKAPI_PORT": "abc"}, []string{"serve"}},
		{"missing database", nil, []string{"serve", "--port", "0", "--db", "/does/not/exist.json"}},
		{"missing config file", nil, []string{"serve", "-c", "/does/not/exist.yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, context.Background(), tt.env, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestExecute_ReportsErrors(t *testing.T) {
	var out, errOut bytes.Buffer
	code := Execute(context.Background(), []string{"bogus"}, &out, &errOut)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut.String(), "Error:")
}

func TestServe_LogFile(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	logPath := filepath.Join(t.TempDir(), "mockapi.log")
	_, err := run(t, ctx, map[string]string{"MOCKAPI_LOG_FILE": logPath}, "--port", "0", "--host", "127.0.0.1")
	require.NoError(t, err)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"server started"`)
	assert.Contains(t, string(data), `"msg":"server stopped"`)
}

func TestNewLogger_BadFile(t *testing.T) {
	_, _, err := newLogger(config.LogConfig{Level: "info", Format: "text", File: filepath.Join(t.TempDir(), "missing", "x.log")}, &bytes.Buffer{})
	assert.Error(t, err)
}
