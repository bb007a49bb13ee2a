package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockapi/pkg/config"
	"github.com/getmockd/mockapi/pkg/engine"
	"github.com/getmockd/mockapi/pkg/logging"
	"github.com/getmockd/mockapi/pkg/metrics"
)

// serveFlags holds the serve-only flag values.
type serveFlags struct {
	port         int
	adminPort    int
	host         string
	readTimeout  int
	writeTimeout int
	logLevel     string
	logFormat    string
	corsOrigins  string
	maxLog       int
	logFile      string
}

func (a *app) newServeCmd() *cobra.Command {
	f := &serveFlags{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server (default command)",
		Long: `Start the API server in the foreground.

The database file is re-read when it changes on disk; a file that fails to
parse keeps the previous data served. Without --db the built-in sample
database is served.`,
		Example: `  # Serve the built-in sample database on port 3000
  mockapi

  # Serve a file on a custom port
  mockapi serve --db db.json --port 8080

  # Merge every JSON file under data/ and expose metrics on :9090
  mockapi serve --db 'data/**/*.json' --admin-port 9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runServe(cmd, f)
		},
	}

	fl := cmd.Flags()
	fl.IntVarP(&f.port, "port", "p", config.DefaultPort, "HTTP server port (0 picks a free port)")
	fl.IntVar(&f.adminPort, "admin-port", 0, "Port for /metrics and /health (0 = disabled)")
	fl.StringVar(&f.host, "host", config.DefaultHost, "Listen address (default: all interfaces)")
	fl.IntVar(&f.readTimeout, "read-timeout", config.DefaultReadTimeout, "Read timeout in seconds")
	fl.IntVar(&f.writeTimeout, "write-timeout", config.DefaultWriteTimeout, "Write timeout in seconds")
	fl.StringVar(&f.logLevel, "log-level", config.DefaultLogLevel, "Log level (debug, info, warn, error)")
	fl.StringVar(&f.logFormat, "log-format", config.DefaultLogFormat, "Log format (text, json)")
	fl.StringVar(&f.logFile, "log-file", "", "Also write JSON logs to this file")
	fl.StringVar(&f.corsOrigins, "cors-origins", "", "Comma-separated allowed CORS origins (default: *)")
	fl.IntVar(&f.maxLog, "max-log-entries", config.DefaultMaxLogEntries, "Request history size served at /requests on the admin port (0 = disabled)")
	return cmd
}

// applyServeFlags overrides cfg with the serve flags that were set.
func applyServeFlags(cmd *cobra.Command, f *serveFlags, cfg *config.ServerConfig) {
	fl := cmd.Flags()
	ints := []struct {
		flag, key string
		dst       *int
		val       int
	}{
		{"port", "port", &cfg.Port, f.port},
		{"admin-port", "adminPort", &cfg.AdminPort, f.adminPort},
		{"read-timeout", "readTimeout", &cfg.ReadTimeout, f.readTimeout},
		{"write-timeout", "writeTimeout", &cfg.WriteTimeout, f.writeTimeout},
		{"max-log-entries", "maxLogEntries", &cfg.MaxLogEntries, f.maxLog},
	}
	for _, i := range ints {
		if fl.Changed(i.flag) {
			*i.dst = i.val
			cfg.SetSource(i.key, config.SourceFlag)
		}
	}

	strs := []struct {
		flag, key string
		dst       *string
		val       string
	}{
		{"host", "host", &cfg.Host, f.host},
		{"log-level", "log.level", &cfg.Log.Level, f.logLevel},
		{"log-format", "log.format", &cfg.Log.Format, f.logFormat},
		{"log-file", "log.file", &cfg.Log.File, f.logFile},
	}
	for _, s := range strs {
		if fl.Changed(s.flag) {
			*s.dst = s.val
			cfg.SetSource(s.key, config.SourceFlag)
		}
	}

	if fl.Changed("cors-origins") {
		cfg.SetCORSOrigins(config.SplitList(f.corsOrigins))
		cfg.SetSource("cors.allowOrigins", config.SourceFlag)
	}
}

func (a *app) runServe(cmd *cobra.Command, f *serveFlags) error {
	cfg, err := a.resolveConfig(cmd)
	if err != nil {
		return err
	}
	applyServeFlags(cmd, f, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, closeLog, err := newLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLog()
	m := metrics.NewServerMetrics()

	src, label, err := openSource(cfg, log, m.ObserveReload)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	srv := engine.NewServer(cfg, src, engine.WithLogger(log), engine.WithMetrics(m))
	if err := srv.Start(); err != nil {
		return err
	}
	printStartup(cmd.OutOrStdout(), srv, label)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	fmt.Fprintln(cmd.OutOrStdout(), "\nShutting down...")
	return srv.Stop()
}

// newLogger builds the process logger. With a log file configured, records
// go to both the console and the file.
func newLogger(cfg config.LogConfig, console io.Writer) (*slog.Logger, func(), error) {
	level := logging.ParseLevel(cfg.Level)
	consoleHandler := logging.NewHandler(logging.Config{
		Level:  level,
		Format: logging.ParseFormat(cfg.Format),
		Output: console,
	})
	if cfg.File == "" {
		return slog.New(consoleHandler), func() {}, nil
	}

	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	fileHandler := logging.NewHandler(logging.Config{
		Level:  level,
		Format: logging.FormatJSON,
		Output: f,
	})
	return slog.New(logging.NewMultiHandler(consoleHandler, fileHandler)), func() { _ = f.Close() }, nil
}

func printStartup(w io.Writer, srv *engine.Server, label string) {
	base := "http://" + srv.Addr().String()
	fmt.Fprintf(w, "mockapi serving %s\n", label)
	fmt.Fprintf(w, "  API:      %s\n", base)
	fmt.Fprintf(w, "  Docs:     %s%s\n", base, engine.PathDocs)
	fmt.Fprintf(w, "  OpenAPI:  %s%s\n", base, engine.PathOpenAPI)
	if addr := srv.AdminAddr(); addr != nil {
		fmt.Fprintf(w, "  Metrics:  http://%s/metrics\n", addr)
		if srv.RequestLog() != nil {
			fmt.Fprintf(w, "  Requests: http://%s/requests\n", addr)
		}
	}
	fmt.Fprintln(w, "Press Ctrl+C to stop")
}
