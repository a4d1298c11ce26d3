// Package logging builds the structured logger shared by both clients
// and cmd/superchain-tap. Logs are written to stdout as structured data
// (12-factor: treat logs as event streams).
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// New creates a configured slog.Logger. Output is always stdout.
func New(level, format string) *slog.Logger {
	lvl := parseLevel(level)
	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl == slog.LevelDebug,
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

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

// Component returns a logger scoped to a specific component by adding a
// "component" attribute; cmd/superchain-tap uses it for the logger it
// hands to wsclient.
func Component(logger *slog.Logger, name string) *slog.Logger {
	return logger.With("component", name)
}
