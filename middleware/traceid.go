package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/wasmcp/compose-go/protocol"
)

// TraceID returns middleware that assigns a correlation id to each
// traversal, stored in the shared request metadata so every position down
// the pipeline observes the same id. An id already present, e.g. set by the
// transport from an incoming header, is preserved.
func TraceID() Middleware {
	return TraceIDWithGenerator(uuid.NewString)
}

// TraceIDWithGenerator returns trace id middleware using a custom generator.
func TraceIDWithGenerator(generate func() string) Middleware {
	return func(next RequestHandler) RequestHandler {
		return func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			if protocol.TraceID(ctx) == "" {
				ctx = protocol.SetRequestMeta(ctx, protocol.MetaTraceID, generate())
			}
			return next(ctx, req)
		}
	}
}
