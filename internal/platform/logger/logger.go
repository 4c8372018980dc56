package logger

import (
	"log/slog"
	"os"
)

// New returns the process logger: JSON in production, text otherwise.
func New(level slog.Level, production bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if production {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
