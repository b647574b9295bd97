package middleware

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/wasmcp/compose-go/protocol"
)

func TestRecover(t *testing.T) {
	t.Run("passes through normal responses", func(t *testing.T) {
		handler := Recover()(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			return protocol.NewResponse(req.ID, "ok"), nil
		})

		resp, err := handler(context.Background(), &protocol.Request{Method: "test"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp == nil {
			t.Fatal("expected response")
		}
	})

	t.Run("passes through errors", func(t *testing.T) {
		wantErr := errors.New("handler error")
		handler := Recover()(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			return nil, wantErr
		})

		_, err := handler(context.Background(), &protocol.Request{Method: "test"})
		if !errors.Is(err, wantErr) {
			t.Errorf("error = %v, want %v", err, wantErr)
		}
	})

	t.Run("converts panic to internal error", func(t *testing.T) {
		handler := Recover()(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			panic("handler exploded")
		})

		_, err := handler(context.Background(), &protocol.Request{Method: "test"})
		if err == nil {
			t.Fatal("expected error from panic")
		}

		var pe *protocol.Error
		if !errors.As(err, &pe) {
			t.Fatalf("expected protocol.Error, got %T", err)
		}
		if pe.Code != protocol.CodeInternalError {
			t.Errorf("code = %d, want %d", pe.Code, protocol.CodeInternalError)
		}
		if !strings.Contains(pe.Message, "handler exploded") {
			t.Errorf("message %q does not mention the panic value", pe.Message)
		}
	})

	t.Run("custom handler sees panic value", func(t *testing.T) {
		var got any
		mw := RecoverWithHandler(func(_ context.Context, _ *protocol.Request, panicVal any) (*protocol.Response, error) {
			got = panicVal
			return nil, protocol.NewInternalError("handled")
		})

		handler := mw(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			panic(42)
		})

		if _, err := handler(context.Background(), &protocol.Request{Method: "test"}); err == nil {
			t.Fatal("expected error")
		}
		if got != 42 {
			t.Errorf("panic value = %v, want 42", got)
		}
	})
}
