package middleware

import (
	"context"
	"time"

	"github.com/wasmcp/compose-go/protocol"
)

// Logger is the interface for structured logging.
type Logger interface {
	Info(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Debug(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
}

// Field represents a key-value pair for structured logging.
type Field struct {
	Key   string
	Value any
}

// F creates a new Field with the given key and value.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Logging returns middleware that logs one line per traversal: method,
// duration, trace id and outcome.
func Logging(logger Logger) Middleware {
	return func(next RequestHandler) RequestHandler {
		return func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			fields := []Field{
				F("method", req.Method),
				F("duration", time.Since(start)),
			}
			if trace := protocol.TraceID(ctx); trace != "" {
				fields = append(fields, F("trace_id", trace))
			}

			switch {
			case err != nil:
				logger.Error("request failed", append(fields, F("error", err.Error()))...)
			case resp != nil && resp.Error != nil:
				logger.Warn("request rejected", append(fields, F("code", resp.Error.Code))...)
			default:
				logger.Info("request completed", fields...)
			}
			return resp, err
		}
	}
}

// NopLogger is a logger that discards all log entries.
type NopLogger struct{}

func (NopLogger) Info(msg string, fields ...Field)  {}
func (NopLogger) Error(msg string, fields ...Field) {}
func (NopLogger) Debug(msg string, fields ...Field) {}
func (NopLogger) Warn(msg string, fields ...Field)  {}
