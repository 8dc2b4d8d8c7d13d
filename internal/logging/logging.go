// Package logging configures the diagnostic stream semantic warnings and
// fatal errors are written to. It pairs log/slog's structured handler with
// lumberjack for size-based rotation, the combination the wider pack's
// monorepo uses for long-running diagnostic output.
package logging

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the diagnostic log sink.
type Options struct {
	// Path is the log file path. Empty means stderr only.
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// New builds a *slog.Logger writing structured text to stderr, and
// additionally to a rotating file if Options.Path is set.
func New(opts Options) *slog.Logger {
	var w io.Writer = os.Stderr
	if opts.Path != "" {
		lj := &lumberjack.Logger{
			Filename:   opts.Path,
			MaxSize:    orDefault(opts.MaxSizeMB, 100),
			MaxBackups: orDefault(opts.MaxBackups, 3),
			MaxAge:     orDefault(opts.MaxAgeDays, 28),
		}
		w = io.MultiWriter(os.Stderr, lj)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
