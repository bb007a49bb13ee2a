package cli

import (
	"context"
	"log/slog"

	"github.com/getmockd/mockapi/internal/sample"
	"github.com/getmockd/mockapi/pkg/config"
	"github.com/getmockd/mockapi/pkg/snapshot"
)

// sampleLabel names the built-in database in messages.
const sampleLabel = "built-in sample"

// openSource returns the snapshot source cfg selects and a label for it.
// onReload, when set, observes every reload attempt of a file source.
func openSource(cfg *config.ServerConfig, log *slog.Logger, onReload func(error)) (snapshot.Source, string, error) {
	if cfg.Embedded || cfg.Database == "" {
		src, err := snapshot.LoadStatic(sample.DB)
		if err != nil {
			return nil, "", err
		}
		return src, sampleLabel, nil
	}

	opts := []snapshot.FileOption{snapshot.WithLogger(log)}
	if onReload != nil {
		opts = append(opts, snapshot.WithReloadHook(onReload))
	}
	src, err := snapshot.NewFileSource(cfg.Database, opts...)
	if err != nil {
		return nil, "", err
	}
	return src, cfg.Database, nil
}

// loadState reads one snapshot for commands that do not serve.
func loadState(ctx context.Context, cfg *config.ServerConfig, log *slog.Logger) (*snapshot.State, error) {
	src, _, err := openSource(cfg, log, nil)
	if err != nil {
		return nil, err
	}
	return src.Snapshot(ctx)
}
