package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/wasmcp/compose-go/protocol"
)

// Caller issues nested requests into the remainder of a pipeline on behalf
// of a composing handler. Each nested call is synchronous from the caller's
// point of view and carries a freshly minted request id, so nested ids never
// collide with the client-facing id of the enclosing request.
type Caller struct {
	owner string
	next  Endpoint
}

// NewCaller creates a caller for the handler named owner. The owner name
// appears in composition-order diagnostics.
func NewCaller(owner string, next Endpoint) *Caller {
	return &Caller{owner: owner, next: next}
}

// Call issues a nested request for the given method and returns the raw
// response. The current ctx is propagated unchanged so nested calls share
// trace and stream identity with the enclosing traversal.
func (c *Caller) Call(ctx context.Context, method string, params any) (*protocol.Response, error) {
	id, err := json.Marshal(uuid.NewString())
	if err != nil {
		return nil, protocol.NewInternalError(fmt.Sprintf("mint request id: %v", err))
	}
	req, err := protocol.NewRequest(id, method, params)
	if err != nil {
		return nil, protocol.NewInternalError(fmt.Sprintf("encode %s params: %v", method, err))
	}

	resp, err := c.next.HandleRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp != nil && resp.Error != nil {
		return nil, resp.Error
	}
	return resp, nil
}

// ListTools aggregates the tools reachable downstream of the owner.
// MethodNotFound means nothing downstream speaks tools/list; at discovery
// time that is an empty contribution, not an error.
func (c *Caller) ListTools(ctx context.Context) ([]protocol.Tool, error) {
	resp, err := c.Call(ctx, protocol.MethodToolsList, nil)
	if err != nil {
		if protocol.IsMethodNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	var result protocol.ListToolsResult
	if err := resp.DecodeResult(&result); err != nil {
		return nil, protocol.NewInternalError(fmt.Sprintf("decode tools/list result: %v", err))
	}
	return result.Tools, nil
}

// CallTool invokes the named tool downstream and returns its result.
//
// An unreachable tool is a composition-order fault, not a runtime mystery:
// the returned error names the missing tool and the fix. Any other
// downstream failure is wrapped with the tool name so the composed
// operation's caller can attribute it.
func (c *Caller) CallTool(ctx context.Context, name string, arguments any) (*protocol.CallToolResult, error) {
	resp, err := c.Call(ctx, protocol.MethodToolsCall, protocol.CallToolParams{
		Name:      name,
		Arguments: mustRaw(arguments),
	})
	if err != nil {
		if protocol.IsNotFound(err) {
			return nil, c.notReachable(name)
		}
		return nil, protocol.NewDownstreamError(name, err)
	}

	var result protocol.CallToolResult
	if err := resp.DecodeResult(&result); err != nil {
		// A malformed downstream payload is our decoding problem, not the
		// downstream handler's fault.
		return nil, protocol.NewInternalError(fmt.Sprintf("decode %q result: %v", name, err))
	}
	return &result, nil
}

// CallToolText invokes the named tool and returns its text content,
// treating a tool-level error result as a failure of the nested call.
func (c *Caller) CallToolText(ctx context.Context, name string, arguments any) (string, error) {
	result, err := c.CallTool(ctx, name, arguments)
	if err != nil {
		return "", err
	}
	if result.IsError {
		return "", protocol.NewDownstreamError(name, fmt.Errorf("tool reported: %s", result.Text()))
	}
	return result.Text(), nil
}

// CallToolFloat invokes the named tool and parses its text content as a
// single numeric value. A parse failure is a local internal error, not the
// downstream's fault.
func (c *Caller) CallToolFloat(ctx context.Context, name string, arguments any) (float64, error) {
	text, err := c.CallToolText(ctx, name, arguments)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, protocol.NewInternalError(fmt.Sprintf("tool %q returned non-numeric result %q", name, text))
	}
	return v, nil
}

// notReachable builds the composition-order diagnostic for unreachable
// tools. A handler can only delegate to positions after its own, so the fix
// is always a reordering; the error text must say so, because a generic
// "not found" leaves the root cause invisible to the operator.
func (c *Caller) notReachable(name string) *protocol.Error {
	return &protocol.Error{
		Code: protocol.CodeToolNotFound,
		Message: fmt.Sprintf(
			"tool %q is not reachable from %q: compose the handler providing %q after %q in the pipeline",
			name, c.owner, name, c.owner),
	}
}

func mustRaw(v any) json.RawMessage {
	if v == nil {
		return nil
	}
	if raw, ok := v.(json.RawMessage); ok {
		return raw
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}
