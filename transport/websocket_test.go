package transport

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wasmcp/compose-go/protocol"
)

// freePort reserves an ephemeral port and releases it for the server.
func freePort(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := l.Addr().String()
	l.Close()
	return addr
}

func dialWS(t *testing.T, addr string) *websocket.Conn {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for {
		conn, _, err := websocket.DefaultDialer.Dial("ws://"+addr+"/", nil)
		if err == nil {
			return conn
		}
		if time.Now().After(deadline) {
			t.Fatalf("dial: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestWebSocketServe(t *testing.T) {
	ep := newTestEndpoint()
	ep.onRequest = func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
		switch req.Method {
		case protocol.MethodPing:
			return protocol.NewResponse(req.ID, map[string]any{}), nil
		default:
			return nil, protocol.NewMethodNotFound(req.Method)
		}
	}

	addr := freePort(t)
	ws := NewWebSocket(addr)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = ws.Serve(ctx, ep)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	conn := dialWS(t, addr)
	defer conn.Close()

	t.Run("request and response", func(t *testing.T) {
		req := protocol.Request{JSONRPC: "2.0", ID: json.RawMessage("1"), Method: protocol.MethodPing}
		if err := conn.WriteJSON(req); err != nil {
			t.Fatalf("write: %v", err)
		}

		var resp protocol.Response
		if err := conn.ReadJSON(&resp); err != nil {
			t.Fatalf("read: %v", err)
		}
		if resp.Error != nil {
			t.Errorf("unexpected error: %v", resp.Error)
		}
		if string(resp.ID) != "1" {
			t.Errorf("response id = %s, want 1", resp.ID)
		}
	})

	t.Run("handler error maps to error response", func(t *testing.T) {
		req := protocol.Request{JSONRPC: "2.0", ID: json.RawMessage("2"), Method: "tools/frobnicate"}
		if err := conn.WriteJSON(req); err != nil {
			t.Fatalf("write: %v", err)
		}

		var resp protocol.Response
		if err := conn.ReadJSON(&resp); err != nil {
			t.Fatalf("read: %v", err)
		}
		if resp.Error == nil || resp.Error.Code != protocol.CodeMethodNotFound {
			t.Errorf("expected method not found, got %+v", resp.Error)
		}
	})

	t.Run("notification produces no frame", func(t *testing.T) {
		n := protocol.Notification{JSONRPC: "2.0", Method: "notifications/initialized"}
		if err := conn.WriteJSON(n); err != nil {
			t.Fatalf("write: %v", err)
		}

		// The next request's answer must be the next frame.
		req := protocol.Request{JSONRPC: "2.0", ID: json.RawMessage("3"), Method: protocol.MethodPing}
		if err := conn.WriteJSON(req); err != nil {
			t.Fatalf("write: %v", err)
		}

		var resp protocol.Response
		if err := conn.ReadJSON(&resp); err != nil {
			t.Fatalf("read: %v", err)
		}
		if string(resp.ID) != "3" {
			t.Errorf("response id = %s, want 3", resp.ID)
		}
	})
}
