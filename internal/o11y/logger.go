// Package o11y provides the observability primitives shared across Irene's
// components: structured logging, OpenTelemetry tracing, and metrics.
package o11y

import (
	"context"
	"log/slog"
	"os"
)

// loggerKey is an unexported context key type to avoid collisions.
type loggerKey struct{}

// Logger wraps slog.Logger with context-aware helpers for attaching
// session/component/provider fields to every log line emitted by the
// pipeline.
type Logger struct {
	inner *slog.Logger
}

// LogOption configures a Logger created by NewLogger.
type LogOption func(*loggerConfig)

type loggerConfig struct {
	level   slog.Level
	handler slog.Handler
}

// WithLogLevel sets the minimum log level. Accepted values: "debug", "info",
// "warn", "error". Unrecognised values fall back to "info".
func WithLogLevel(level string) LogOption {
	return func(cfg *loggerConfig) {
		switch level {
		case "debug":
			cfg.level = slog.LevelDebug
		case "info":
			cfg.level = slog.LevelInfo
		case "warn":
			cfg.level = slog.LevelWarn
		case "error":
			cfg.level = slog.LevelError
		}
	}
}

// WithJSON configures the logger to emit JSON-formatted output on stdout.
func WithJSON() LogOption {
	return func(cfg *loggerConfig) {
		cfg.handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.level})
	}
}

// NewLogger creates a Logger with the given options. Without options it
// defaults to info-level text output on stdout.
func NewLogger(opts ...LogOption) *Logger {
	cfg := &loggerConfig{level: slog.LevelInfo}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.handler == nil {
		cfg.handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.level})
	}
	return &Logger{inner: slog.New(cfg.handler)}
}

// WithContext attaches l to ctx so downstream code can retrieve it with
// FromContext.
func (l *Logger) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// FromContext retrieves a Logger previously attached with WithContext,
// falling back to a default text logger if none is present.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerKey{}).(*Logger); ok {
		return l
	}
	return defaultLogger
}

// With returns a derived Logger carrying the given structured fields on
// every subsequent call.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{inner: l.inner.With(args...)}
}

// WithSession returns a derived Logger tagged with a session_id field, the
// common correlation key across the intent subsystem.
func (l *Logger) WithSession(sessionID string) *Logger {
	return l.With("session_id", sessionID)
}

// WithComponent returns a derived Logger tagged with component/provider
// fields, used by the component framework and pipeline orchestrator.
func (l *Logger) WithComponent(component, provider string) *Logger {
	return l.With("component", component, "provider", provider)
}

func (l *Logger) Debug(msg string, args ...any) { l.inner.Debug(msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.inner.Info(msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.inner.Warn(msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.inner.Error(msg, args...) }

var defaultLogger = NewLogger()

// Default returns the process-wide default Logger.
func Default() *Logger { return defaultLogger }

// SetDefault replaces the process-wide default Logger.
func SetDefault(l *Logger) { defaultLogger = l }
