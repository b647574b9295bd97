// Package transport adapts composed pipelines to concrete wire transports.
package transport

import (
	"context"
	"encoding/json"

	"github.com/wasmcp/compose-go/chain"
	"github.com/wasmcp/compose-go/protocol"
)

// Transport carries JSON-RPC frames between a peer and a pipeline.
type Transport interface {
	// Serve starts the transport, blocking until ctx is canceled or an
	// error occurs. Every incoming frame is dispatched into ep.
	Serve(ctx context.Context, ep chain.Endpoint) error

	// Addr returns the transport's address description.
	Addr() string
}

// frame is the superset shape of every JSON-RPC message, used to classify
// an incoming line before dispatch.
type frame struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *protocol.Error `json:"error,omitempty"`
}

func (f *frame) hasID() bool {
	return len(f.ID) > 0 && string(f.ID) != "null"
}

// dispatch routes one classified frame into the pipeline. The returned
// response is nil for notifications and out-of-band responses.
func dispatch(ctx context.Context, ep chain.Endpoint, f *frame) (*protocol.Response, error) {
	switch {
	case f.Method != "" && f.hasID():
		req := &protocol.Request{
			JSONRPC: protocol.JSONRPCVersion,
			ID:      f.ID,
			Method:  f.Method,
			Params:  f.Params,
		}
		return ep.HandleRequest(ctx, req)
	case f.Method != "":
		n := &protocol.Notification{
			JSONRPC: protocol.JSONRPCVersion,
			Method:  f.Method,
			Params:  f.Params,
		}
		return nil, ep.HandleNotification(ctx, n)
	default:
		var result any
		if len(f.Result) > 0 {
			result = f.Result
		}
		resp := &protocol.Response{
			JSONRPC: protocol.JSONRPCVersion,
			ID:      f.ID,
			Result:  result,
			Error:   f.Error,
		}
		return nil, ep.HandleResponse(ctx, resp)
	}
}

// errorResponse converts a handler error into an error response for the
// given request id.
func errorResponse(id json.RawMessage, err error) *protocol.Response {
	return protocol.NewErrorResponse(id, protocol.AsError(err))
}
