// Package logger provides structured logging configuration for the application.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogFormat represents the output format for logs
type LogFormat string

const (
	// FormatJSON outputs logs in JSON format (server default)
	FormatJSON LogFormat = "json"
	// FormatText outputs logs in human-readable text format (CLI default)
	FormatText LogFormat = "text"
)

// Options selects the level, format and destination of a logger.
type Options struct {
	Level  string
	Format LogFormat
	Output io.Writer
}

// FromEnv reads LOG_LEVEL and LOG_FORMAT, falling back to the given format.
func FromEnv(fallback LogFormat) Options {
	format := LogFormat(strings.ToLower(os.Getenv("LOG_FORMAT")))
	if format != FormatJSON && format != FormatText {
		format = fallback
	}
	return Options{Level: os.Getenv("LOG_LEVEL"), Format: format}
}

// New creates a structured logger.
//
// Level options: debug, info, warn, error (default: info)
// Format options: json, text (default: json)
func New(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	level := ParseLevel(opts.Level)
	handlerOpts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	}

	var handler slog.Handler
	switch opts.Format {
	case FormatText:
		handler = slog.NewTextHandler(out, handlerOpts)
	default:
		handler = slog.NewJSONHandler(out, handlerOpts)
	}
	return slog.New(handler)
}

// ParseLevel maps a level name to slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
