// Package logger provides structured logging setup for permitmap.
package logger

import (
	"log/slog"
	"os"
)

// New returns a configured slog logger. Dev mode uses human-readable text at
// debug level; otherwise JSON at info level.
func New(devMode bool) *slog.Logger {
	var handler slog.Handler
	if devMode {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return slog.New(handler)
}
