package chain

import (
	"context"
	"encoding/json"

	"github.com/wasmcp/compose-go/protocol"
)

// Endpoint is the entry point into a pipeline position: the current handler
// and everything composed after it. The transport adapter talks to the head
// endpoint; a handler talks to its downstream endpoint. Nothing else crosses
// either boundary.
type Endpoint interface {
	// HandleRequest processes a request and returns a response or an error.
	HandleRequest(ctx context.Context, req *protocol.Request) (*protocol.Response, error)

	// HandleNotification processes a notification. Fire and forget: no
	// response is produced.
	HandleNotification(ctx context.Context, n *protocol.Notification) error

	// HandleResponse routes an out-of-band response, e.g. the reply to a
	// server-initiated request, to whichever position is waiting for it.
	HandleResponse(ctx context.Context, resp *protocol.Response) error
}

// Handler is the unit of composition. Each operation receives the remainder
// of the pipeline as an explicit next endpoint rather than capturing it at
// construction time, so the same handler value can serve in any number of
// independently composed pipelines.
//
// A handler that does not recognize a request must forward it to next
// unchanged. Notifications are not dispatched exclusively: a handler may act
// on one and must still forward it, since multiple positions may care about
// the same notification. Unrecognized responses are forwarded likewise.
type Handler interface {
	HandleRequest(ctx context.Context, req *protocol.Request, next Endpoint) (*protocol.Response, error)
	HandleNotification(ctx context.Context, n *protocol.Notification, next Endpoint) error
	HandleResponse(ctx context.Context, resp *protocol.Response, next Endpoint) error
}

// New composes an ordered list of handlers into a single pipeline and
// returns its head endpoint. The pipeline is immutable: handlers[0] sees
// handlers[1:] as its downstream and so on, ending in a terminal position
// that answers MethodNotFound for requests and drops notifications and
// responses.
//
// Order is load-bearing: a handler can only delegate to positions strictly
// after its own. A handler that needs a tool provided by another handler
// must be composed before that handler's position.
func New(handlers ...Handler) Endpoint {
	next := Endpoint(terminal{})
	for i := len(handlers) - 1; i >= 0; i-- {
		next = &position{handler: handlers[i], next: next}
	}
	return next
}

// position binds one handler to its downstream remainder.
type position struct {
	handler Handler
	next    Endpoint
}

func (p *position) HandleRequest(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	return p.handler.HandleRequest(ctx, req, p.next)
}

func (p *position) HandleNotification(ctx context.Context, n *protocol.Notification) error {
	return p.handler.HandleNotification(ctx, n, p.next)
}

func (p *position) HandleResponse(ctx context.Context, resp *protocol.Response) error {
	return p.handler.HandleResponse(ctx, resp, p.next)
}

// terminal is the "no handler" sentinel past the last composed position.
type terminal struct{}

func (terminal) HandleRequest(_ context.Context, req *protocol.Request) (*protocol.Response, error) {
	if req.Method == protocol.MethodToolsCall {
		// Name the tool, not the generic method: every position declined
		// this call, so the tool itself is what is missing.
		var params protocol.CallToolParams
		if err := json.Unmarshal(req.Params, &params); err == nil && params.Name != "" {
			return nil, protocol.NewToolNotFound(params.Name)
		}
	}
	return nil, protocol.NewMethodNotFound(req.Method)
}

func (terminal) HandleNotification(context.Context, *protocol.Notification) error {
	return nil
}

func (terminal) HandleResponse(context.Context, *protocol.Response) error {
	return nil
}

// Terminal returns the endpoint a zero-handler pipeline resolves to. Useful
// as the downstream of a handler exercised in isolation.
func Terminal() Endpoint {
	return terminal{}
}
