// Package middleware provides boundary middleware applied at the head of a
// composed pipeline, between the transport adapter and the first handler.
package middleware

import (
	"context"

	"github.com/wasmcp/compose-go/chain"
	"github.com/wasmcp/compose-go/protocol"
)

// RequestHandler is the request path of a pipeline head.
type RequestHandler func(ctx context.Context, req *protocol.Request) (*protocol.Response, error)

// Middleware wraps a request handler with additional behavior.
type Middleware func(next RequestHandler) RequestHandler

// Chain composes multiple middleware into a single middleware.
// Chain(m1, m2, m3) results in m1 wrapping m2 wrapping m3 wrapping the
// final handler, so m1 runs first.
func Chain(middlewares ...Middleware) Middleware {
	return func(final RequestHandler) RequestHandler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}

// Wrap applies middleware to a pipeline endpoint. Only the request path is
// wrapped; notifications and out-of-band responses pass straight through to
// the head position.
func Wrap(ep chain.Endpoint, middlewares ...Middleware) chain.Endpoint {
	if len(middlewares) == 0 {
		return ep
	}
	return &wrapped{
		inner:   ep,
		request: Chain(middlewares...)(ep.HandleRequest),
	}
}

type wrapped struct {
	inner   chain.Endpoint
	request RequestHandler
}

func (w *wrapped) HandleRequest(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	return w.request(ctx, req)
}

func (w *wrapped) HandleNotification(ctx context.Context, n *protocol.Notification) error {
	return w.inner.HandleNotification(ctx, n)
}

func (w *wrapped) HandleResponse(ctx context.Context, resp *protocol.Response) error {
	return w.inner.HandleResponse(ctx, resp)
}

// DefaultStack returns the recommended production middleware: panic
// recovery, trace id injection and logging, outermost first.
func DefaultStack(logger Logger) []Middleware {
	return []Middleware{
		Recover(),
		TraceID(),
		Logging(logger),
	}
}
