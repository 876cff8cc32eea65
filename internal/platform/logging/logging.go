// Package logging builds the process-wide slog logger.
// Production gets JSON on stdout; everything else gets colored tint output on stderr.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// New returns a logger for the given level name (debug, info, warn, error).
func New(levelName string, production bool) *slog.Logger {
	if production {
		return NewWithWriter(os.Stdout, levelName, true)
	}
	return NewWithWriter(os.Stderr, levelName, false)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, levelName string, production bool) *slog.Logger {
	level := ParseLevel(levelName)
	if production {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  true,
	}))
}

// ParseLevel maps a level name to slog.Level, defaulting to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
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
