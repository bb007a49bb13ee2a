package requestlog

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(id, method, path string, status int) *Entry {
	return &Entry{ID: id, Method: method, Path: path, ResponseStatus: status}
}

func ids(entries []*Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestMemoryStore_NewestFirst(t *testing.T) {
	s := NewMemoryStore(10)
	s.Log(entry("a", "GET", "/coaches", 200))
	s.Log(entry("b", "GET", "/coaches/1", 200))
	s.Log(nil)
	s.Log(entry("c", "GET", "/bogus", 404))

	assert.Equal(t, 3, s.Count())
	assert.Equal(t, []string{"c", "b", "a"}, ids(s.List(nil)))
}

func TestMemoryStore_RingOverwritesOldest(t *testing.T) {
	s := NewMemoryStore(3)
	for i := 1; i <= 5; i++ {
		s.Log(entry(fmt.Sprint(i), "GET", "/", 200))
	}

	assert.Equal(t, 3, s.Count())
	assert.Equal(t, []string{"5", "4", "3"}, ids(s.List(nil)))
	assert.Nil(t, s.Get("1"))
	require.NotNil(t, s.Get("4"))
}

func TestMemoryStore_Filter(t *testing.T) {
	s := NewMemoryStore(10)
	s.Log(entry("1", "GET", "/coaches", 200))
	s.Log(entry("2", "HEAD", "/coaches/1", 200))
	s.Log(entry("3", "GET", "/teams", 404))
	s.Log(entry("4", "GET", "/coaches/2", 404))

	tests := []struct {
		name   string
		filter *Filter
		want   []string
	}{
		{"method ignores case", &Filter{Method: "get"}, []string{"4", "3", "1"}},
		{"path prefix", &Filter{Path: "/coaches"}, []string{"4", "2", "1"}},
		{"status", &Filter{StatusCode: 404}, []string{"4", "3"}},
		{"limit", &Filter{Limit: 2}, []string{"4", "3"}},
		{"offset and limit", &Filter{Offset: 1, Limit: 2}, []string{"3", "2"}},
		{"offset past end", &Filter{Offset: 10}, []string{}},
		{"combined", &Filter{Method: "GET", Path: "/coaches", StatusCode: 404}, []string{"4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(s.List(tt.filter)))
		})
	}
}

func TestMemoryStore_Clear(t *testing.T) {
	s := NewMemoryStore(2)
	s.Log(entry("1", "GET", "/", 200))
	s.Log(entry("2", "GET", "/", 200))
	s.Log(entry("3", "GET", "/", 200))
	s.Clear()

	assert.Zero(t, s.Count())
	assert.Empty(t, s.List(nil))

	s.Log(entry("4", "GET", "/", 200))
	assert.Equal(t, []string{"4"}, ids(s.List(nil)))
}

func TestMemoryStore_MinimumCapacity(t *testing.T) {
	s := NewMemoryStore(0)
	s.Log(entry("1", "GET", "/", 200))
	s.Log(entry("2", "GET", "/", 200))
	assert.Equal(t, []string{"2"}, ids(s.List(nil)))
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	s := NewMemoryStore(50)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Log(entry(fmt.Sprintf("%d-%d", n, j), "GET", "/", 200))
				_ = s.List(&Filter{Limit: 5})
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, s.Count())
}
