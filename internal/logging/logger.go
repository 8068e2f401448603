// Package logging configures structured logging using log/slog.
//
// Every batch conversion runs with its own logger carrying a run_id, so
// the per-file lines of one batch can be correlated even when several
// batches share an output stream.
package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// Setup configures the global slog logger based on level and format and
// returns it.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "text", "json" (default: "text")
func Setup(level, format string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ForRun returns base enriched with a fresh run_id and the given fields.
// A nil base uses the default logger.
//
// Usage:
//
//	logger := logging.ForRun(opts.Logger, "mode", "multi", "items", len(items))
//	logger.Info("batch started")
func ForRun(base *slog.Logger, args ...any) *slog.Logger {
	if base == nil {
		base = slog.Default()
	}
	return base.With(append([]any{"run_id", uuid.NewString()}, args...)...)
}
