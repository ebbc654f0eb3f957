package main

import (
	"log/slog"
	"os"
)

// NewLogger returns a JSON slog.Logger on stderr. Stdout is reserved for
// headless detection lines.
func NewLogger(level slog.Leveler) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level, AddSource: level == slog.LevelDebug}))
}
