// Package logging wraps log/slog with the field names used across the
// connectome pipeline.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger with pipeline-specific helpers.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler.
// If handler is nil, a text handler writing to stderr at Info level is used.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// New builds a logger from the config values "text" or "json".
// Unknown formats fall back to text.
func New(w io.Writer, format string, level slog.Level) *Logger {
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(format, "json") {
		return NewLogger(slog.NewJSONHandler(w, opts))
	}
	return NewLogger(slog.NewTextHandler(w, opts))
}

// Noop returns a Logger that discards everything.
func Noop() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000),
	}))
}

// WithSubject tags log lines with the subject and session being processed.
func (l *Logger) WithSubject(subject, session string) *Logger {
	return &Logger{Logger: l.Logger.With(
		slog.String("subject", subject),
		slog.String("session", session),
	)}
}

// WithComponent tags log lines with the emitting component.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{Logger: l.Logger.With(slog.String("component", name))}
}

// Progress logs a debug-level progress line.
func (l *Logger) Progress(ctx context.Context, msg string, done, total int) {
	if total <= 0 {
		return
	}
	l.Logger.DebugContext(ctx, msg,
		slog.Int("done", done),
		slog.Int("total", total),
		slog.Float64("percent", float64(done)/float64(total)*100),
	)
}
