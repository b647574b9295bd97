package protocol

import (
	"encoding/json"
	"testing"
)

func TestRequestIsNotification(t *testing.T) {
	t.Run("request with id is not a notification", func(t *testing.T) {
		req := &Request{JSONRPC: JSONRPCVersion, ID: json.RawMessage(`1`), Method: "ping"}
		if req.IsNotification() {
			t.Error("request with id reported as notification")
		}
	})

	t.Run("request without id is a notification", func(t *testing.T) {
		req := &Request{JSONRPC: JSONRPCVersion, Method: "notifications/initialized"}
		if !req.IsNotification() {
			t.Error("request without id not reported as notification")
		}
	})

	t.Run("explicit null id is a notification", func(t *testing.T) {
		var req Request
		if err := json.Unmarshal([]byte(`{"jsonrpc":"2.0","id":null,"method":"x"}`), &req); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if !req.IsNotification() {
			t.Error("null id not reported as notification")
		}
	})
}

func TestNewRequest(t *testing.T) {
	t.Run("marshals params", func(t *testing.T) {
		req, err := NewRequest(json.RawMessage(`"abc"`), MethodToolsCall, CallToolParams{Name: "add"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if req.Method != MethodToolsCall {
			t.Errorf("method = %q, want %q", req.Method, MethodToolsCall)
		}
		var params CallToolParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			t.Fatalf("params did not round-trip: %v", err)
		}
		if params.Name != "add" {
			t.Errorf("params.Name = %q, want %q", params.Name, "add")
		}
	})

	t.Run("nil params stay empty", func(t *testing.T) {
		req, err := NewRequest(json.RawMessage(`1`), MethodToolsList, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(req.Params) != 0 {
			t.Errorf("params = %s, want empty", req.Params)
		}
	})
}

func TestResponseIDEchoedVerbatim(t *testing.T) {
	for _, id := range []string{`1`, `"req-7"`, `99999999999`} {
		resp := NewResponse(json.RawMessage(id), "ok")
		data, err := json.Marshal(resp)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var echo struct {
			ID json.RawMessage `json:"id"`
		}
		if err := json.Unmarshal(data, &echo); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if string(echo.ID) != id {
			t.Errorf("id = %s, want %s", echo.ID, id)
		}
	}
}

func TestDecodeResult(t *testing.T) {
	t.Run("decodes live Go value", func(t *testing.T) {
		resp := NewResponse(nil, &ListToolsResult{Tools: []Tool{{Name: "add"}}})

		var result ListToolsResult
		if err := resp.DecodeResult(&result); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Tools) != 1 || result.Tools[0].Name != "add" {
			t.Errorf("tools = %+v, want single tool add", result.Tools)
		}
	})

	t.Run("decodes wire-shaped map", func(t *testing.T) {
		resp := NewResponse(nil, map[string]any{
			"content": []any{map[string]any{"type": "text", "text": "4"}},
		})

		var result CallToolResult
		if err := resp.DecodeResult(&result); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Text() != "4" {
			t.Errorf("text = %q, want %q", result.Text(), "4")
		}
	})

	t.Run("returns the response error", func(t *testing.T) {
		resp := NewErrorResponse(nil, NewMethodNotFound("tools/frobnicate"))

		var result ListToolsResult
		err := resp.DecodeResult(&result)
		if !IsMethodNotFound(err) {
			t.Errorf("err = %v, want MethodNotFound", err)
		}
	})
}

func TestCallToolResultText(t *testing.T) {
	result := &CallToolResult{Content: []Content{
		{Type: "text", Text: "hello"},
		{Type: "image", Data: "ignored"},
		{Type: "text", Text: " world"},
	}}
	if got := result.Text(); got != "hello world" {
		t.Errorf("Text() = %q, want %q", got, "hello world")
	}
}
