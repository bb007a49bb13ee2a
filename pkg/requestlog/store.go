package requestlog

import (
	"strings"
	"sync"
)

// Logger is the minimal interface for recording request entries.
type Logger interface {
	Log(entry *Entry)
}

// Store defines the interface for request history storage.
// Store embeds Logger, so any Store implementation can be used where Logger is expected.
type Store interface {
	Logger

	// Get retrieves an entry by request id.
	Get(id string) *Entry

	// List returns entries newest first, optionally filtered.
	List(filter *Filter) []*Entry

	// Clear removes all entries.
	Clear()

	// Count returns the number of entries.
	Count() int
}

// Filter defines criteria for listing entries. Zero fields match everything.
type Filter struct {
	// Method filters by HTTP method, ignoring case.
	Method string

	// Path filters by path prefix.
	Path string

	// StatusCode filters by response status code.
	StatusCode int

	// Limit is the maximum number of entries to return.
	Limit int

	// Offset is the number of matching entries to skip.
	Offset int
}

func (f *Filter) matches(e *Entry) bool {
	if f == nil {
		return true
	}
	if f.Method != "" && !strings.EqualFold(f.Method, e.Method) {
		return false
	}
	if f.Path != "" && !strings.HasPrefix(e.Path, f.Path) {
		return false
	}
	if f.StatusCode != 0 && f.StatusCode != e.ResponseStatus {
		return false
	}
	return true
}

// MemoryStore is a fixed-size ring of entries. When full, the oldest entry
// is overwritten.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []*Entry
	next    int
	full    bool
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a store holding at most capacity entries.
// A capacity below 1 is treated as 1.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity < 1 {
		capacity = 1
	}
	return &MemoryStore{entries: make([]*Entry, capacity)}
}

// Log records entry. Nil entries are ignored.
func (s *MemoryStore) Log(entry *Entry) {
	if entry == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[s.next] = entry
	s.next = (s.next + 1) % len(s.entries)
	if s.next == 0 {
		s.full = true
	}
}

// Get returns the newest entry with id, or nil.
func (s *MemoryStore) Get(id string) *Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found *Entry
	s.eachNewest(func(e *Entry) bool {
		if e.ID == id {
			found = e
			return false
		}
		return true
	})
	return found
}

// List returns matching entries, newest first.
func (s *MemoryStore) List(filter *Filter) []*Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	offset, limit := 0, 0
	if filter != nil {
		offset, limit = filter.Offset, filter.Limit
	}

	out := make([]*Entry, 0)
	skipped := 0
	s.eachNewest(func(e *Entry) bool {
		if !filter.matches(e) {
			return true
		}
		if skipped < offset {
			skipped++
			return true
		}
		out = append(out, e)
		return limit <= 0 || len(out) < limit
	})
	return out
}

// Clear removes all entries.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.entries)
	s.next = 0
	s.full = false
}

// Count returns the number of stored entries.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.full {
		return len(s.entries)
	}
	return s.next
}

// eachNewest calls fn from newest to oldest until it returns false.
// Callers hold the lock.
func (s *MemoryStore) eachNewest(fn func(*Entry) bool) {
	n := s.next
	if s.full {
		n = len(s.entries)
	}
	for i := 1; i <= n; i++ {
		idx := (s.next - i + len(s.entries)) % len(s.entries)
		if !fn(s.entries[idx]) {
			return
		}
	}
}
