// Package util provides shared helpers for logging, retries, and upstream
// rate limiting.
package util

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewLogger creates a structured logger writing to w at the given level.
// Supported levels: "debug", "info", "warn", "error" (default "info").
// Format "text" selects the text handler; anything else gets JSON.
func NewLogger(w io.Writer, level, format string) *slog.Logger {
	var slevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		slevel = slog.LevelDebug
	case "warn":
		slevel = slog.LevelWarn
	case "error":
		slevel = slog.LevelError
	default:
		slevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: slevel}
	if strings.ToLower(format) == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// NewStdoutLogger is NewLogger targeting stdout.
func NewStdoutLogger(level, format string) *slog.Logger {
	return NewLogger(os.Stdout, level, format)
}
