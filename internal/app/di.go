package app

import (
	"fmt"
	"log/slog"
	"os"

	"quik-bars/internal/saver"
	"quik-bars/internal/slogx"
	"quik-bars/internal/source"
)

// LoaderFunc picks the loader for a source path.
type LoaderFunc func(path string) source.Loader

// ProvideConfig loads config from environment (for Wire).
func ProvideConfig() (*Config, error) {
	return LoadConfig()
}

// ProvideLogger builds the process logger from config and installs it as
// the slog default (for Wire).
func ProvideLogger(cfg *Config) *slog.Logger {
	l := slogx.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(l)
	return l
}

// ProvideSeriesSaver creates the default SeriesSaver from config (for Wire).
// Returns error if SaveFormat is not supported.
func ProvideSeriesSaver(cfg *Config) (saver.SeriesSaver, error) {
	s := saver.NewSeriesSaver(cfg.SaveFormat)
	if s == nil {
		return nil, fmt.Errorf("unsupported SAVE_FORMAT %q (use: csv, parquet, json)", cfg.SaveFormat)
	}
	return s, nil
}

// ProvideLoader returns the extension based loader lookup (for Wire).
func ProvideLoader() LoaderFunc {
	return source.ForPath
}

// ProvideRunner wires the flows. Confirm is left nil (non-interactive);
// the caller sets it when prompts are wanted.
func ProvideRunner(cfg *Config, log *slog.Logger, s saver.SeriesSaver, load LoaderFunc) *Runner {
	return &Runner{Config: cfg, Log: log, Saver: s, Load: load}
}
