package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const coachingDB = `{
  // comments are allowed
  "coaches": [
    {"id": 1, "name": "Alex Smith", "teamId": 3},
    {"id": 2, "name": "Sam Lee", "teamId": 4},
  ],
  "teams": [{"id": 3, "name": "Hawks"}],
  "meta": {"version": 2},
  "empty": []
}`

func TestDecode_CollectionsInDocumentOrder(t *testing.T) {
	state, err := Decode([]byte(coachingDB))
	require.NoError(t, err)

	assert.Equal(t, []string{"coaches", "teams", "empty"}, state.Names())
	assert.False(t, state.Has("meta"), "non-array entries are not collections")
	assert.Equal(t, 3, state.Len())

	coaches, ok := state.Collection("coaches")
	require.True(t, ok)
	assert.Equal(t, 2, coaches.Len())

	sample, ok := coaches.Sample()
	require.True(t, ok)
	assert.Equal(t, []string{"id", "name", "teamId"}, sample.Keys())

	_, ok = state.Collection("empty")
	require.True(t, ok)
	empty, _ := state.Collection("empty")
	_, ok = empty.Sample()
	assert.False(t, ok)
	assert.Nil(t, empty.First())
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not an object", `[1, 2]`},
		{"malformed", `{"a": [}`},
		{"trailing data", `{"a": []} {"b": []}`},
		{"number out of range", `{"a": [1e400]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestObject_OrderAndOverwrite(t *testing.T) {
	obj := NewObject()
	obj.Set("b", 1.0)
	obj.Set("a", "x")
	obj.Set("b", 2.0)

	assert.Equal(t, []string{"b", "a"}, obj.Keys())
	v, ok := obj.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 2.0, v)

	out, err := json.Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"b":2,"a":"x"}`, string(out))
}

func TestObject_DuplicateKeysKeepFirstPosition(t *testing.T) {
	v, err := DecodeValue([]byte(`{"x": 1, "y": 2, "x": 3}`))
	require.NoError(t, err)

	obj := v.(*Object)
	assert.Equal(t, []string{"x", "y"}, obj.Keys())
	x, _ := obj.Get("x")
	assert.Equal(t, 3.0, x)
}

func TestObject_RoundTripPreservesNesting(t *testing.T) {
	in := `{"id":1,"tags":["a",null,true],"address":{"zip":"123","city":"Oslo"},"score":7.5}`
	var obj Object
	require.NoError(t, json.Unmarshal([]byte(in), &obj))

	out, err := json.Marshal(&obj)
	require.NoError(t, err)
	assert.Equal(t, in, string(out))
}

func TestObject_Clone(t *testing.T) {
	obj := NewObject()
	obj.Set("id", 1.0)

	c := obj.Clone()
	c.Set("team", nil)

	assert.Equal(t, 1, obj.Len())
	assert.Equal(t, 2, c.Len())
}

func TestPlain(t *testing.T) {
	v, err := DecodeValue([]byte(`{"a": [{"b": 1}]}`))
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"a": []any{map[string]any{"b": 1.0}},
	}, Plain(v))
}

func TestStrictEqual(t *testing.T) {
	obj := NewObject()
	arr := []any{1.0}

	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"equal numbers", 3.0, 3.0, true},
		{"number vs string", 3.0, "3", false},
		{"equal strings", "x", "x", true},
		{"bools", true, true, true},
		{"bool vs string", true, "true", false},
		{"nulls", nil, nil, true},
		{"null vs string", nil, "", false},
		{"same object", obj, obj, true},
		{"different objects", obj, NewObject(), false},
		{"same array", arr, arr, true},
		{"equal arrays by value", arr, []any{1.0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StrictEqual(tt.a, tt.b))
		})
	}
}

func TestCollection_FindByID(t *testing.T) {
	state, err := Decode([]byte(`{"items": ["loose", {"id": "1"}, {"id": 1, "n": "first"}, {"id": 1, "n": "second"}]}`))
	require.NoError(t, err)
	items, _ := state.Collection("items")

	rec, ok := items.FindByID(1.0)
	require.True(t, ok)
	n, _ := rec.Get("n")
	assert.Equal(t, "first", n, "duplicate ids yield the first match")

	rec, ok = items.FindByID("1")
	require.True(t, ok)
	assert.Equal(t, 1, rec.Len())

	_, ok = items.FindByID(2.0)
	assert.False(t, ok)
}

func TestStatic(t *testing.T) {
	src, err := LoadStatic([]byte(coachingDB))
	require.NoError(t, err)

	first, err := src.Snapshot(context.Background())
	require.NoError(t, err)
	second, err := src.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = src.Snapshot(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	empty, err := NewStatic(nil).Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())
}

func writeFile(t *testing.T, path, content string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func TestFileSource_ReloadsChangedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "db.json")
	base := time.Now().Add(-time.Hour)
	writeFile(t, path, `{"coaches": [{"id": 1}]}`, base)

	var reloads []error
	src, err := NewFileSource(path, WithReloadHook(func(err error) { reloads = append(reloads, err) }))
	require.NoError(t, err)

	ctx := context.Background()
	state, err := src.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"coaches"}, state.Names())
	assert.Empty(t, reloads, "unchanged file is not reloaded")

	writeFile(t, path, `{"coaches": [{"id": 1}], "teams": [{"id": 2}]}`, base.Add(time.Minute))
	state, err = src.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"coaches", "teams"}, state.Names())
	assert.Same(t, state, src.Current())
	require.Len(t, reloads, 1)
	assert.NoError(t, reloads[0])
}

func TestFileSource_CorruptReloadKeepsPreviousSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "db.json")
	base := time.Now().Add(-time.Hour)
	writeFile(t, path, `{"coaches": [{"id": 1}]}`, base)

	var reloadErr error
	src, err := NewFileSource(path, WithReloadHook(func(err error) { reloadErr = err }))
	require.NoError(t, err)
	before := src.Current()

	writeFile(t, path, `{"coaches": [`, base.Add(time.Minute))
	state, err := src.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Same(t, before, state)
	assert.Error(t, reloadErr)

	require.NoError(t, os.Remove(path))
	state, err = src.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Same(t, before, state, "missing file keeps serving the last snapshot")
}

func TestFileSource_GlobMergesFiles(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	writeFile(t, filepath.Join(dir, "a.json"), `{"coaches": [{"id": 1}]}`, base)
	writeFile(t, filepath.Join(dir, "nested", "b.json"), `{"coaches": [{"id": 99}], "teams": []}`, base)

	src, err := NewFileSource(filepath.Join(dir, "**", "*.json"))
	require.NoError(t, err)

	state := src.Current()
	assert.Equal(t, []string{"coaches", "teams"}, state.Names())
	coaches, _ := state.Collection("coaches")
	_, ok := coaches.FindByID(1.0)
	assert.True(t, ok, "first file wins for duplicate collections")
}

func TestNewFileSource_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewFileSource("")
	assert.Error(t, err)

	_, err = NewFileSource(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	_, err = NewFileSource(filepath.Join(dir, "*.json"))
	assert.True(t, errors.Is(err, ErrNoFiles))

	bad := filepath.Join(dir, "bad.json")
	writeFile(t, bad, `[]`, time.Now())
	_, err = NewFileSource(bad)
	assert.Error(t, err)
}
