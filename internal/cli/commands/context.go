package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/snedea/arcane-auditor/internal/cli/config"
)

// configKey is used to store the loaded config in the command context.
type configKey struct{}

// WithConfig stores the loaded config in a context.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// configFrom retrieves the loaded config, falling back to defaults.
func configFrom(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return cfg
	}
	return &config.Config{Output: config.DefaultOutput}
}

// newLogger builds the command logger: debug to stderr when verbose,
// discard otherwise.
func newLogger(cfg *config.Config) *slog.Logger {
	if !cfg.Verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}
