package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/getmockd/mockapi/pkg/config"
	"github.com/getmockd/mockapi/pkg/docs"
	"github.com/getmockd/mockapi/pkg/logging"
	"github.com/getmockd/mockapi/pkg/metrics"
	"github.com/getmockd/mockapi/pkg/requestlog"
	"github.com/getmockd/mockapi/pkg/snapshot"
)

// shutdownTimeout bounds graceful shutdown in Stop.
const shutdownTimeout = 5 * time.Second

// Server runs the API listener and the optional admin listener.
type Server struct {
	cfg     *config.ServerConfig
	source  snapshot.Source
	log     *slog.Logger
	metrics *metrics.ServerMetrics
	history requestlog.Store
	now     func() time.Time

	mu          sync.Mutex
	running     bool
	httpServer  *http.Server
	adminServer *http.Server
	addr        net.Addr
	adminAddr   net.Addr
	startTime   time.Time
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the operational logger. A nil logger discards output.
func WithLogger(log *slog.Logger) ServerOption {
	return func(s *Server) {
		s.log = logging.OrNop(log)
	}
}

// WithMetrics sets the metrics the server records. Without it a private set
// is created.
func WithMetrics(m *metrics.ServerMetrics) ServerOption {
	return func(s *Server) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithRequestLog sets the request history store. Without it a memory store
// of cfg.MaxLogEntries entries is created, or none when that is 0.
func WithRequestLog(store requestlog.Store) ServerOption {
	return func(s *Server) {
		s.history = store
	}
}

// WithServerClock overrides the clock used by the docs view.
func WithServerClock(now func() time.Time) ServerOption {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// NewServer creates a Server. A nil cfg uses config.DefaultServerConfig.
func NewServer(cfg *config.ServerConfig, source snapshot.Source, opts ...ServerOption) *Server {
	if cfg == nil {
		cfg = config.DefaultServerConfig()
	}
	s := &Server{
		cfg:    cfg,
		source: source,
		log:    logging.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.NewServerMetrics()
	}
	if s.history == nil && cfg.MaxLogEntries > 0 {
		s.history = requestlog.NewMemoryStore(cfg.MaxLogEntries)
	}
	return s
}

// Metrics returns the server's metrics.
func (s *Server) Metrics() *metrics.ServerMetrics {
	return s.metrics
}

// RequestLog returns the request history, or nil when disabled.
func (s *Server) RequestLog() requestlog.Store {
	return s.history
}

// Handler returns the full API handler chain:
// request id -> history -> access log -> metrics -> CORS -> routes.
func (s *Server) Handler() http.Handler {
	var h http.Handler = NewHandler(
		&observedSource{Source: s.source, metrics: s.metrics},
		WithHandlerLogger(s.log),
		WithDocsOptions(docs.Options{Title: s.cfg.Title}),
		WithClock(s.now),
	)
	h = NewCORSMiddleware(h, s.cfg.CORS)
	h = MetricsMiddleware(s.metrics, h)
	h = AccessLogMiddleware(s.log, h)
	if s.history != nil {
		h = RequestLogMiddleware(s.history, h)
	}
	return RequestIDMiddleware(h)
}

// AdminHandler serves /metrics, /health and, when the history is enabled,
// /requests.
func (s *Server) AdminHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", s.metrics.Registry.Handler())
	mux.HandleFunc("GET /health", s.handleHealth)
	if s.history != nil {
		mux.HandleFunc("GET /requests", s.handleListRequests)
		mux.HandleFunc("GET /requests/{id}", s.handleGetRequest)
		mux.HandleFunc("DELETE /requests", s.handleClearRequests)
	}
	return mux
}

// Start binds the listeners and serves in the background.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("server is already running")
	}
	if s.source == nil {
		return errors.New("server has no database source")
	}

	ln, err := net.Listen("tcp", net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port)))
	if err != nil {
		return fmt.Errorf("listen on port %d: %w", s.cfg.Port, err)
	}
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadTimeout:       s.cfg.ReadTimeoutDuration(),
		ReadHeaderTimeout: s.cfg.ReadTimeoutDuration(),
		WriteTimeout:      s.cfg.WriteTimeoutDuration(),
		ErrorLog:          slog.NewLogLogger(s.log.Handler(), slog.LevelWarn),
	}
	s.addr = ln.Addr()
	s.serve(s.httpServer, ln, "API")

	if s.cfg.AdminPort > 0 {
		adminLn, err := net.Listen("tcp", net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.AdminPort)))
		if err != nil {
			_ = s.httpServer.Close()
			return fmt.Errorf("listen on admin port %d: %w", s.cfg.AdminPort, err)
		}
		s.adminServer = &http.Server{
			Handler:           s.AdminHandler(),
			ReadHeaderTimeout: s.cfg.ReadTimeoutDuration(),
		}
		s.adminAddr = adminLn.Addr()
		s.serve(s.adminServer, adminLn, "admin")
	}

	s.running = true
	s.startTime = time.Now()
	s.log.Info("server started", "addr", s.addr.String(), "admin", s.cfg.AdminPort > 0)
	return nil
}

func (s *Server) serve(srv *http.Server, ln net.Listener, name string) {
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error(name+" server error", "error", err)
		}
	}()
}

// Stop gracefully shuts down both listeners.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if err := s.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("HTTP shutdown: %w", err))
	}
	if s.adminServer != nil {
		if err := s.adminServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("admin shutdown: %w", err))
		}
	}

	s.running = false
	s.log.Info("server stopped")
	return errors.Join(errs...)
}

// IsRunning reports whether Start succeeded and Stop has not been called.
func (s *Server) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Addr returns the bound API address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// AdminAddr returns the bound admin address, or nil when disabled.
func (s *Server) AdminAddr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.adminAddr
}

// Uptime returns the time since Start, or 0 when stopped.
func (s *Server) Uptime() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return 0
	}
	return time.Since(s.startTime)
}

// observedSource records the collection count of every served snapshot.
type observedSource struct {
	snapshot.Source
	metrics *metrics.ServerMetrics
}

func (o *observedSource) Snapshot(ctx context.Context) (*snapshot.State, error) {
	state, err := o.Source.Snapshot(ctx)
	if err == nil {
		o.metrics.SetCollections(state.Len())
	}
	return state, err
}
