package logging

import (
	"log/slog"
	"os"
)

// New returns the process-wide structured logger. Output is JSON so log
// shippers can consume it without extra parsing.
func New() *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return slog.New(handler)
}
