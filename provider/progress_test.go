package provider

import (
	"context"
	"encoding/json"
	"testing"
)

type recordingSender struct {
	methods []string
	params  []map[string]any
}

func (s *recordingSender) SendNotification(method string, params any) error {
	s.methods = append(s.methods, method)
	s.params = append(s.params, params.(map[string]any))
	return nil
}

func TestProgressReporter(t *testing.T) {
	t.Run("sends progress notifications with token", func(t *testing.T) {
		sender := &recordingSender{}
		r := newProgressReporter("tok-1", sender)

		total := 10.0
		if err := r.Report(3, &total); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(sender.methods) != 1 || sender.methods[0] != "notifications/progress" {
			t.Fatalf("methods = %v", sender.methods)
		}
		if sender.params[0]["progressToken"] != "tok-1" {
			t.Errorf("token = %v, want tok-1", sender.params[0]["progressToken"])
		}
		if sender.params[0]["total"] != 10.0 {
			t.Errorf("total = %v, want 10", sender.params[0]["total"])
		}
	})

	t.Run("drops stale progress values", func(t *testing.T) {
		sender := &recordingSender{}
		r := newProgressReporter("tok-1", sender)

		_ = r.Report(5, nil)
		_ = r.Report(2, nil)
		_ = r.Report(5, nil)
		_ = r.Report(7, nil)

		if len(sender.params) != 2 {
			t.Fatalf("notifications sent = %d, want 2", len(sender.params))
		}
		if got := sender.params[0]["progress"].(float64); got != 5 {
			t.Errorf("first progress = %v, want 5", got)
		}
		if got := sender.params[1]["progress"].(float64); got != 7 {
			t.Errorf("second progress = %v, want 7", got)
		}
	})

	t.Run("zero is a valid first report", func(t *testing.T) {
		sender := &recordingSender{}
		r := newProgressReporter("tok-1", sender)

		_ = r.Report(0, nil)

		if len(sender.params) != 1 {
			t.Fatalf("notifications sent = %d, want 1", len(sender.params))
		}
	})
}

func TestProgressFromContext(t *testing.T) {
	t.Run("returns noop without a reporter", func(t *testing.T) {
		r := ProgressFromContext(context.Background())
		if err := r.Report(1, nil); err != nil {
			t.Errorf("noop reporter errored: %v", err)
		}
	})

	t.Run("round-trips through context", func(t *testing.T) {
		sender := &recordingSender{}
		ctx := ContextWithProgress(context.Background(), newProgressReporter("tok", sender))

		if err := ProgressFromContext(ctx).Report(1, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(sender.methods) != 1 {
			t.Error("reporter from context did not send")
		}
	})
}

func TestExtractProgressToken(t *testing.T) {
	cases := []struct {
		params string
		want   string
	}{
		{`{"name":"add","_meta":{"progressToken":"tok-9"}}`, "tok-9"},
		{`{"name":"add"}`, ""},
		{``, ""},
		{`not json`, ""},
	}
	for _, c := range cases {
		if got := extractProgressToken(json.RawMessage(c.params)); got != c.want {
			t.Errorf("extractProgressToken(%q) = %q, want %q", c.params, got, c.want)
		}
	}
}
