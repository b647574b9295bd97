package compose_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/wasmcp/compose-go"
	"github.com/wasmcp/compose-go/handlers/calculator"
	"github.com/wasmcp/compose-go/handlers/statistics"
	"github.com/wasmcp/compose-go/protocol"
)

func benchRequest(b *testing.B, method string, params any) *protocol.Request {
	b.Helper()
	req, err := protocol.NewRequest(json.RawMessage("1"), method, params)
	if err != nil {
		b.Fatal(err)
	}
	return req
}

// BenchmarkLocalDispatch measures a tool call answered by the head position.
func BenchmarkLocalDispatch(b *testing.B) {
	ep := compose.New(calculator.New())
	req := benchRequest(b, protocol.MethodToolsCall, protocol.CallToolParams{
		Name:      "add",
		Arguments: json.RawMessage(`{"a":2,"b":3}`),
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ep.HandleRequest(context.Background(), req); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkNestedDispatch measures a tool call that fans out across three
// downstream positions.
func BenchmarkNestedDispatch(b *testing.B) {
	ep := compose.New(
		statistics.NewStdDev(),
		statistics.NewVariance(),
		statistics.New(),
		calculator.New(),
	)
	req := benchRequest(b, protocol.MethodToolsCall, protocol.CallToolParams{
		Name:      "stddev",
		Arguments: json.RawMessage(`{"values":[2,4,4,4,5,5,7,9]}`),
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ep.HandleRequest(context.Background(), req); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkDiscovery measures a full catalog merge across four positions.
func BenchmarkDiscovery(b *testing.B) {
	ep := compose.New(
		statistics.NewStdDev(),
		statistics.NewVariance(),
		statistics.New(),
		calculator.New(),
	)
	req := benchRequest(b, protocol.MethodToolsList, nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ep.HandleRequest(context.Background(), req); err != nil {
			b.Fatal(err)
		}
	}
}
