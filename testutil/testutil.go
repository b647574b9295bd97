// Package testutil provides testing utilities for composed pipelines.
//
// The test client drives a chain endpoint in memory the way a transport
// would, handing out sequential request ids and decoding results:
//
//	pipeline := chain.New(statistics.NewVariance(), statistics.New())
//	tc := testutil.NewTestClient(t, pipeline)
//	v, err := tc.CallToolText("variance", map[string]any{"values": []float64{2, 4}})
package testutil

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"testing"

	"github.com/wasmcp/compose-go/chain"
	"github.com/wasmcp/compose-go/protocol"
)

// TestClient drives a pipeline endpoint from the transport side.
type TestClient struct {
	t   testing.TB
	ep  chain.Endpoint
	ctx context.Context

	mu    sync.Mutex
	reqID int64
}

// NewTestClient creates a test client for the given pipeline endpoint.
func NewTestClient(t testing.TB, ep chain.Endpoint) *TestClient {
	t.Helper()
	return &TestClient{t: t, ep: ep, ctx: context.Background()}
}

// WithContext sets the context used for subsequent calls.
func (tc *TestClient) WithContext(ctx context.Context) *TestClient {
	tc.ctx = ctx
	return tc
}

// NextID returns the next client-facing request id.
func (tc *TestClient) NextID() json.RawMessage {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.reqID++
	return json.RawMessage(strconv.FormatInt(tc.reqID, 10))
}

// Call sends a request for the given method and returns the response.
func (tc *TestClient) Call(method string, params any) (*protocol.Response, error) {
	tc.t.Helper()
	req, err := protocol.NewRequest(tc.NextID(), method, params)
	if err != nil {
		tc.t.Fatalf("build %s request: %v", method, err)
	}
	return tc.ep.HandleRequest(tc.ctx, req)
}

// Notify sends a notification into the pipeline.
func (tc *TestClient) Notify(method string, params any) error {
	tc.t.Helper()
	n, err := protocol.NewNotification(method, params)
	if err != nil {
		tc.t.Fatalf("build %s notification: %v", method, err)
	}
	return tc.ep.HandleNotification(tc.ctx, n)
}

// Initialize performs the protocol handshake and returns the raw result.
func (tc *TestClient) Initialize() (map[string]any, error) {
	tc.t.Helper()
	resp, err := tc.Call(protocol.MethodInitialize, map[string]any{
		"protocolVersion": protocol.MCPVersion,
		"clientInfo":      map[string]any{"name": "testutil", "version": "0.0.0"},
		"capabilities":    map[string]any{},
	})
	if err != nil {
		return nil, err
	}
	var result map[string]any
	if err := resp.DecodeResult(&result); err != nil {
		return nil, err
	}
	return result, nil
}

// ListTools returns the aggregated tool descriptors visible from the head.
func (tc *TestClient) ListTools() ([]protocol.Tool, error) {
	tc.t.Helper()
	resp, err := tc.Call(protocol.MethodToolsList, nil)
	if err != nil {
		return nil, err
	}
	var result protocol.ListToolsResult
	if err := resp.DecodeResult(&result); err != nil {
		return nil, err
	}
	return result.Tools, nil
}

// CallTool invokes a tool by name and returns its result.
func (tc *TestClient) CallTool(name string, arguments any) (*protocol.CallToolResult, error) {
	tc.t.Helper()
	var raw json.RawMessage
	if arguments != nil {
		data, err := json.Marshal(arguments)
		if err != nil {
			tc.t.Fatalf("marshal %s arguments: %v", name, err)
		}
		raw = data
	}
	resp, err := tc.Call(protocol.MethodToolsCall, protocol.CallToolParams{Name: name, Arguments: raw})
	if err != nil {
		return nil, err
	}
	var result protocol.CallToolResult
	if err := resp.DecodeResult(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CallToolText invokes a tool and fails the test on any protocol or
// tool-level error, returning the text content.
func (tc *TestClient) CallToolText(name string, arguments any) string {
	tc.t.Helper()
	result, err := tc.CallTool(name, arguments)
	if err != nil {
		tc.t.Fatalf("call %s: %v", name, err)
	}
	if result.IsError {
		tc.t.Fatalf("call %s: tool error: %s", name, result.Text())
	}
	return result.Text()
}
