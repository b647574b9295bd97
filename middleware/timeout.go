package middleware

import (
	"context"
	"time"

	"github.com/wasmcp/compose-go/protocol"
)

// Timeout returns middleware that enforces a deadline on the whole
// traversal, nested downstream calls included. When the deadline expires
// the context is cancelled and context.DeadlineExceeded is returned.
func Timeout(d time.Duration) Middleware {
	return func(next RequestHandler) RequestHandler {
		return func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			return next(ctx, req)
		}
	}
}
