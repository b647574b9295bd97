package main

import (
	"log/slog"
	"os"

	"github.com/wasmcp/compose-go/middleware"
)

// slogLogger adapts slog to the middleware logger interface. Log output
// goes to stderr so the stdio transport keeps stdout for frames.
type slogLogger struct {
	inner *slog.Logger
}

func newLogger(level string) *slogLogger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	return &slogLogger{inner: slog.New(handler)}
}

func (l *slogLogger) attrs(fields []middleware.Field) []any {
	args := make([]any, 0, len(fields)*2)
	for _, f := range fields {
		args = append(args, f.Key, f.Value)
	}
	return args
}

func (l *slogLogger) Info(msg string, fields ...middleware.Field) {
	l.inner.Info(msg, l.attrs(fields)...)
}

func (l *slogLogger) Error(msg string, fields ...middleware.Field) {
	l.inner.Error(msg, l.attrs(fields)...)
}

func (l *slogLogger) Debug(msg string, fields ...middleware.Field) {
	l.inner.Debug(msg, l.attrs(fields)...)
}

func (l *slogLogger) Warn(msg string, fields ...middleware.Field) {
	l.inner.Warn(msg, l.attrs(fields)...)
}
