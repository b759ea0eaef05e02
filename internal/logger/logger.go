package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

var defaultLogger atomic.Pointer[slog.Logger]

// ParseLevel maps a configured level name to a slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level '%s': must be debug, info, warn, or error", level)
	}
}

// New builds a logger writing to w in the given format (text or json).
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	slogLevel, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: slogLevel}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("invalid log format '%s': must be text or json", format)
	}

	return slog.New(handler), nil
}

// Init sets the global logger. The server logs to stdout; the CLI passes
// stderr so results on stdout stay machine readable.
func Init(w io.Writer, level, format string) (*slog.Logger, error) {
	if w == nil {
		w = os.Stdout
	}

	l, err := New(w, level, format)
	if err != nil {
		return nil, err
	}

	defaultLogger.Store(l)
	return l, nil
}

// Get returns the global logger instance, or slog.Default before Init.
// Safe for concurrent use.
func Get() *slog.Logger {
	if l := defaultLogger.Load(); l != nil {
		return l
	}
	return slog.Default()
}

// ContextKey is an unexported type to prevent collisions with context keys from other packages
type ContextKey string

// LoggerContextKey is the context key used to store the logger in request contexts
const LoggerContextKey ContextKey = "logger"

// WithContext returns a copy of ctx carrying l.
func WithContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, LoggerContextKey, l)
}

// GetFromContext retrieves the logger from the context.
// If no logger is found in the context, it returns the provided fallback logger.
func GetFromContext(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if l, ok := ctx.Value(LoggerContextKey).(*slog.Logger); ok {
		return l
	}
	return fallback
}
