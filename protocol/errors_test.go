package protocol

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorIs(t *testing.T) {
	t.Run("matches by code", func(t *testing.T) {
		err := NewMethodNotFound("tools/frobnicate")
		if !errors.Is(err, &Error{Code: CodeMethodNotFound}) {
			t.Error("errors.Is did not match by code")
		}
	})

	t.Run("does not match different code", func(t *testing.T) {
		err := NewInvalidParams("missing field")
		if errors.Is(err, &Error{Code: CodeMethodNotFound}) {
			t.Error("errors.Is matched across codes")
		}
	})

	t.Run("survives wrapping", func(t *testing.T) {
		err := fmt.Errorf("handling request: %w", NewToolNotFound("square_root"))
		if !IsToolNotFound(err) {
			t.Error("wrapped ToolNotFound not detected")
		}
	})
}

func TestIsNotFound(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{NewMethodNotFound("x"), true},
		{NewToolNotFound("x"), true},
		{NewInternalError("boom"), false},
		{NewDownstreamError("mean", errors.New("boom")), false},
		{errors.New("plain"), false},
	}
	for _, c := range cases {
		if got := IsNotFound(c.err); got != c.want {
			t.Errorf("IsNotFound(%v) = %v, want %v", c.err, got, c.want)
		}
	}
}

func TestNewDownstreamError(t *testing.T) {
	err := NewDownstreamError("variance", NewInternalError("boom"))
	if err.Code != CodeDownstreamError {
		t.Errorf("code = %d, want %d", err.Code, CodeDownstreamError)
	}
	if want := `downstream call "variance" failed`; len(err.Message) == 0 || err.Message[:len(want)] != want {
		t.Errorf("message = %q, want prefix %q", err.Message, want)
	}
}

func TestAsError(t *testing.T) {
	t.Run("passes protocol errors through", func(t *testing.T) {
		orig := NewInvalidParams("bad")
		if got := AsError(fmt.Errorf("wrapped: %w", orig)); got.Code != CodeInvalidParams {
			t.Errorf("code = %d, want %d", got.Code, CodeInvalidParams)
		}
	})

	t.Run("wraps plain errors as internal", func(t *testing.T) {
		if got := AsError(errors.New("boom")); got.Code != CodeInternalError {
			t.Errorf("code = %d, want %d", got.Code, CodeInternalError)
		}
	})
}

func TestWithData(t *testing.T) {
	orig := NewMethodNotFound("x")
	withData := orig.WithData(map[string]string{"method": "x"})

	if withData.Data == nil {
		t.Error("data not attached")
	}
	if orig.Data != nil {
		t.Error("original error mutated")
	}
}
