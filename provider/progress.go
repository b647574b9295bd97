package provider

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/wasmcp/compose-go/chain"
	"github.com/wasmcp/compose-go/protocol"
)

// ProgressReporter lets a tool handler stream progress updates for a
// long-running call back to the client. It is the incremental output handle
// carried via ctx; handlers obtain it with ProgressFromContext.
type ProgressReporter interface {
	// Report sends a progress update. Values must increase between calls;
	// a value at or below the last reported one is dropped.
	Report(progress float64, total *float64) error
	// ReportMessage sends a progress update with a descriptive message.
	ReportMessage(progress float64, total *float64, message string) error
}

type progressReporter struct {
	token  string
	sender chain.NotificationSender

	mu   sync.Mutex
	sent bool
	last float64
}

func newProgressReporter(token string, sender chain.NotificationSender) *progressReporter {
	return &progressReporter{token: token, sender: sender}
}

func (p *progressReporter) Report(progress float64, total *float64) error {
	return p.ReportMessage(progress, total, "")
}

func (p *progressReporter) ReportMessage(progress float64, total *float64, message string) error {
	p.mu.Lock()
	if p.sent && progress <= p.last {
		p.mu.Unlock()
		return nil
	}
	p.sent = true
	p.last = progress
	p.mu.Unlock()

	params := map[string]any{
		"progressToken": p.token,
		"progress":      progress,
	}
	if total != nil {
		params["total"] = *total
	}
	if message != "" {
		params["message"] = message
	}
	return p.sender.SendNotification(protocol.MethodProgress, params)
}

// progressKey is the context key for the progress reporter.
type progressKey struct{}

// ContextWithProgress returns a context with the progress reporter attached.
func ContextWithProgress(ctx context.Context, reporter ProgressReporter) context.Context {
	return context.WithValue(ctx, progressKey{}, reporter)
}

// ProgressFromContext returns the progress reporter for the current call, or
// a no-op reporter when the caller did not request progress. A closed or
// dropped client stream is the sender's problem; reporting never fails a
// traversal.
func ProgressFromContext(ctx context.Context) ProgressReporter {
	if reporter, ok := ctx.Value(progressKey{}).(ProgressReporter); ok {
		return reporter
	}
	return noopReporter{}
}

type noopReporter struct{}

func (noopReporter) Report(float64, *float64) error                { return nil }
func (noopReporter) ReportMessage(float64, *float64, string) error { return nil }

// extractProgressToken pulls the optional _meta.progressToken out of request
// params.
func extractProgressToken(params json.RawMessage) string {
	if len(params) == 0 {
		return ""
	}
	var meta struct {
		Meta struct {
			ProgressToken string `json:"progressToken"`
		} `json:"_meta"`
	}
	if err := json.Unmarshal(params, &meta); err != nil {
		return ""
	}
	return meta.Meta.ProgressToken
}
