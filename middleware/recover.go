package middleware

import (
	"context"
	"fmt"

	"github.com/wasmcp/compose-go/protocol"
)

// PanicHandler is called when a panic is recovered.
type PanicHandler func(ctx context.Context, req *protocol.Request, panicVal any) (*protocol.Response, error)

// Recover returns middleware that catches panics anywhere in the traversal
// and converts them to internal errors, so one misbehaving handler cannot
// take down the serving loop.
func Recover() Middleware {
	return RecoverWithHandler(func(_ context.Context, _ *protocol.Request, panicVal any) (*protocol.Response, error) {
		return nil, protocol.NewInternalError(fmt.Sprintf("panic: %v", panicVal))
	})
}

// RecoverWithHandler returns middleware that catches panics and calls the
// provided handler, for custom logging or alerting.
func RecoverWithHandler(handler PanicHandler) Middleware {
	return func(next RequestHandler) RequestHandler {
		return func(ctx context.Context, req *protocol.Request) (resp *protocol.Response, err error) {
			defer func() {
				if r := recover(); r != nil {
					resp, err = handler(ctx, req, r)
				}
			}()
			return next(ctx, req)
		}
	}
}
