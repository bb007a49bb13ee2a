package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/getmockd/mockapi/pkg/logging"
)

// Source supplies the snapshot a request is resolved against.
type Source interface {
	Snapshot(ctx context.Context) (*State, error)
}

// Static serves one snapshot for its whole lifetime.
type Static struct {
	state *State
}

// NewStatic wraps an already built state.
func NewStatic(state *State) *Static {
	if state == nil {
		state = newState()
	}
	return &Static{state: state}
}

// LoadStatic decodes data once and serves it forever.
func LoadStatic(data []byte) (*Static, error) {
	state, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return &Static{state: state}, nil
}

// Snapshot returns the fixed state.
func (s *Static) Snapshot(ctx context.Context) (*State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.state, nil
}

// ErrNoFiles is returned when a database pattern matches nothing.
var ErrNoFiles = errors.New("no database files found")

// FileSource reads database files from disk and reloads them when their
// modification time or size changes.
//
// The path may be a doublestar glob ("data/**/*.json"). Matched files are
// read in lexical order and their collections merged; when two files define
// the same collection the first one wins.
//
// A reload that fails keeps serving the previous snapshot.
type FileSource struct {
	pattern  string
	log      *slog.Logger
	onReload func(err error)

	mu      sync.Mutex
	stamp   string
	current atomic.Pointer[State]
}

// FileOption configures a FileSource.
type FileOption func(*FileSource)

// WithLogger sets the logger used for reload messages.
func WithLogger(log *slog.Logger) FileOption {
	return func(s *FileSource) {
		if log != nil {
			s.log = log
		}
	}
}

// WithReloadHook registers fn to be called after every reload attempt with
// its outcome.
func WithReloadHook(fn func(err error)) FileOption {
	return func(s *FileSource) {
		s.onReload = fn
	}
}

// NewFileSource creates a FileSource and performs the initial load, which must
// succeed.
func NewFileSource(pattern string, opts ...FileOption) (*FileSource, error) {
	if pattern == "" {
		return nil, errors.New("database path cannot be empty")
	}
	s := &FileSource{
		pattern: pattern,
		log:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	files, stamp, err := s.scan()
	if err != nil {
		return nil, err
	}
	state, err := s.load(files)
	if err != nil {
		return nil, err
	}
	s.stamp = stamp
	s.current.Store(state)
	s.log.Debug("database loaded", "files", len(files), "collections", state.Len())
	return s, nil
}

// Current returns the last loaded snapshot without checking the files.
func (s *FileSource) Current() *State {
	return s.current.Load()
}

// Pattern returns the configured database path or glob.
func (s *FileSource) Pattern() string {
	return s.pattern
}

// Snapshot returns the current snapshot, reloading first if the files
// changed since the last load.
func (s *FileSource) Snapshot(ctx context.Context) (*State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	files, stamp, err := s.scan()
	if err != nil {
		s.log.Warn("database scan failed, serving previous snapshot", "pattern", s.pattern, "error", err)
		return s.current.Load(), nil
	}
	if stamp == s.stamp {
		return s.current.Load(), nil
	}

	// Remember the stamp even on failure so a broken file is parsed once,
	// not on every request.
	s.stamp = stamp
	state, err := s.load(files)
	if s.onReload != nil {
		s.onReload(err)
	}
	if err != nil {
		s.log.Warn("database reload failed, serving previous snapshot", "pattern", s.pattern, "error", err)
		return s.current.Load(), nil
	}

	s.current.Store(state)
	s.log.Info("database reloaded", "files", len(files), "collections", state.Len())
	return state, nil
}

// scan resolves the pattern and fingerprints the matched files.
func (s *FileSource) scan() ([]string, string, error) {
	files := []string{s.pattern}
	if hasMeta(s.pattern) {
		matches, err := doublestar.FilepathGlob(s.pattern)
		if err != nil {
			return nil, "", fmt.Errorf("glob %q: %w", s.pattern, err)
		}
		if len(matches) == 0 {
			return nil, "", fmt.Errorf("%w matching %q", ErrNoFiles, s.pattern)
		}
		sort.Strings(matches)
		files = matches
	}

	var b strings.Builder
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			return nil, "", fmt.Errorf("stat database: %w", err)
		}
		b.WriteString(f)
		b.WriteByte('|')
		b.WriteString(strconv.FormatInt(info.ModTime().UnixNano(), 10))
		b.WriteByte('|')
		b.WriteString(strconv.FormatInt(info.Size(), 10))
		b.WriteByte(';')
	}
	return files, b.String(), nil
}

func (s *FileSource) load(files []string) (*State, error) {
	merged := newState()
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("read database: %w", err)
		}
		state, err := Decode(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f, err)
		}
		for _, c := range state.Collections() {
			if !merged.add(c.Name, c.Items) {
				s.log.Warn("duplicate collection ignored", "collection", c.Name, "file", f)
			}
		}
	}
	return merged, nil
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
