package chain

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/wasmcp/compose-go/protocol"
)

// toolEndpoint answers tools/call for a fixed set of tools and tools/list
// with their descriptors. It records every id it sees.
type toolEndpoint struct {
	tools map[string]*protocol.CallToolResult
	ids   []string
}

func (e *toolEndpoint) HandleRequest(_ context.Context, req *protocol.Request) (*protocol.Response, error) {
	e.ids = append(e.ids, string(req.ID))
	switch req.Method {
	case protocol.MethodToolsList:
		result := protocol.ListToolsResult{Tools: []protocol.Tool{}}
		for name := range e.tools {
			result.Tools = append(result.Tools, protocol.Tool{Name: name})
		}
		return protocol.NewResponse(req.ID, &result), nil
	case protocol.MethodToolsCall:
		var params protocol.CallToolParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return nil, protocol.NewInvalidParams(err.Error())
		}
		if result, ok := e.tools[params.Name]; ok {
			return protocol.NewResponse(req.ID, result), nil
		}
		return nil, protocol.NewToolNotFound(params.Name)
	default:
		return nil, protocol.NewMethodNotFound(req.Method)
	}
}

func (e *toolEndpoint) HandleNotification(context.Context, *protocol.Notification) error { return nil }
func (e *toolEndpoint) HandleResponse(context.Context, *protocol.Response) error        { return nil }

func TestCallerCallTool(t *testing.T) {
	t.Run("decodes downstream result", func(t *testing.T) {
		downstream := &toolEndpoint{tools: map[string]*protocol.CallToolResult{
			"mean": protocol.TextResult("5"),
		}}
		caller := NewCaller("variance", downstream)

		v, err := caller.CallToolFloat(context.Background(), "mean", map[string]any{"values": []float64{5}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v != 5 {
			t.Errorf("value = %v, want 5", v)
		}
	})

	t.Run("unreachable tool yields ordering diagnostic", func(t *testing.T) {
		caller := NewCaller("variance", Terminal())

		_, err := caller.CallTool(context.Background(), "mean", nil)
		if !protocol.IsToolNotFound(err) {
			t.Fatalf("err = %v, want ToolNotFound", err)
		}
		msg := protocol.AsError(err).Message
		for _, want := range []string{`"mean"`, `"variance"`, "after", "pipeline"} {
			if !strings.Contains(msg, want) {
				t.Errorf("diagnostic %q does not mention %q", msg, want)
			}
		}
	})

	t.Run("tool-level error becomes downstream error", func(t *testing.T) {
		downstream := &toolEndpoint{tools: map[string]*protocol.CallToolResult{
			"divide": protocol.ErrorResult("Error: Division by zero"),
		}}
		caller := NewCaller("ratio", downstream)

		_, err := caller.CallToolText(context.Background(), "divide", nil)
		pe := protocol.AsError(err)
		if pe.Code != protocol.CodeDownstreamError {
			t.Fatalf("code = %d, want %d", pe.Code, protocol.CodeDownstreamError)
		}
		if !strings.Contains(pe.Message, "divide") {
			t.Errorf("message %q does not name the tool", pe.Message)
		}
	})

	t.Run("non-numeric result is a local internal error", func(t *testing.T) {
		downstream := &toolEndpoint{tools: map[string]*protocol.CallToolResult{
			"uppercase": protocol.TextResult("HELLO"),
		}}
		caller := NewCaller("stats", downstream)

		_, err := caller.CallToolFloat(context.Background(), "uppercase", nil)
		pe := protocol.AsError(err)
		if pe.Code != protocol.CodeInternalError {
			t.Errorf("code = %d, want %d", pe.Code, protocol.CodeInternalError)
		}
	})

	t.Run("nested ids are fresh per call", func(t *testing.T) {
		downstream := &toolEndpoint{tools: map[string]*protocol.CallToolResult{
			"add": protocol.TextResult("3"),
		}}
		caller := NewCaller("calc", downstream)

		for i := 0; i < 3; i++ {
			if _, err := caller.CallTool(context.Background(), "add", nil); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		seen := make(map[string]bool)
		for _, id := range downstream.ids {
			if id == "" {
				t.Fatal("nested request sent without id")
			}
			if seen[id] {
				t.Errorf("id %s reused across nested calls", id)
			}
			seen[id] = true
		}
	})
}

func TestCallerListTools(t *testing.T) {
	t.Run("returns downstream tools", func(t *testing.T) {
		downstream := &toolEndpoint{tools: map[string]*protocol.CallToolResult{
			"add": protocol.TextResult("0"), "mean": protocol.TextResult("0"),
		}}
		caller := NewCaller("head", downstream)

		tools, err := caller.ListTools(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(tools) != 2 {
			t.Errorf("len(tools) = %d, want 2", len(tools))
		}
	})

	t.Run("absorbs MethodNotFound into empty contribution", func(t *testing.T) {
		caller := NewCaller("head", Terminal())

		tools, err := caller.ListTools(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(tools) != 0 {
			t.Errorf("tools = %v, want none", tools)
		}
	})
}
