package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/wasmcp/compose-go/protocol"
)

func TestRateLimit(t *testing.T) {
	okHandler := func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
		return protocol.NewResponse(req.ID, "ok"), nil
	}
	req := &protocol.Request{ID: json.RawMessage("1"), Method: "tools/call"}

	t.Run("allows requests within limit", func(t *testing.T) {
		handler := RateLimit(100, 100)(okHandler)

		for i := 0; i < 5; i++ {
			if _, err := handler(context.Background(), req); err != nil {
				t.Fatalf("request %d: unexpected error: %v", i, err)
			}
		}
	})

	t.Run("rejects requests beyond burst", func(t *testing.T) {
		handler := RateLimit(1, 1)(okHandler)

		if _, err := handler(context.Background(), req); err != nil {
			t.Fatalf("first request failed: %v", err)
		}

		_, err := handler(context.Background(), req)
		if err == nil {
			t.Fatal("expected rate limit error")
		}

		var pe *protocol.Error
		if !errors.As(err, &pe) {
			t.Fatalf("expected protocol.Error, got %T", err)
		}
		if pe.Code != protocol.CodeRateLimited {
			t.Errorf("code = %d, want %d", pe.Code, protocol.CodeRateLimited)
		}
	})

	t.Run("per-method buckets are independent", func(t *testing.T) {
		handler := RateLimitByMethod(1, 1)(okHandler)

		listReq := &protocol.Request{ID: json.RawMessage("1"), Method: "tools/list"}
		callReq := &protocol.Request{ID: json.RawMessage("2"), Method: "tools/call"}

		if _, err := handler(context.Background(), listReq); err != nil {
			t.Fatalf("tools/list failed: %v", err)
		}
		if _, err := handler(context.Background(), callReq); err != nil {
			t.Fatalf("tools/call failed after exhausting list bucket: %v", err)
		}
		if _, err := handler(context.Background(), listReq); err == nil {
			t.Fatal("expected tools/list to be limited")
		}
	})

	t.Run("logs rejected requests", func(t *testing.T) {
		logger := &capturingLogger{}
		handler := RateLimit(1, 1, WithRateLimitLogger(logger))(okHandler)

		if _, err := handler(context.Background(), req); err != nil {
			t.Fatalf("first request failed: %v", err)
		}
		if _, err := handler(context.Background(), req); err == nil {
			t.Fatal("expected rate limit error")
		}

		entry := logger.last(t)
		if entry.level != "warn" || entry.msg != "rate limit exceeded" {
			t.Errorf("entry = %s %q, want warn \"rate limit exceeded\"", entry.level, entry.msg)
		}
	})
}
