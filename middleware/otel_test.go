package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/wasmcp/compose-go/protocol"
)

func TestOTel(t *testing.T) {
	t.Run("creates span per traversal", func(t *testing.T) {
		exporter := tracetest.NewInMemoryExporter()
		tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
		defer tp.Shutdown(context.Background())

		handler := OTel(WithTracerProvider(tp))(
			func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
				return protocol.NewResponse(req.ID, "ok"), nil
			},
		)

		req := &protocol.Request{ID: json.RawMessage("1"), Method: "tools/list"}
		if _, err := handler(context.Background(), req); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		spans := exporter.GetSpans()
		if len(spans) != 1 {
			t.Fatalf("expected 1 span, got %d", len(spans))
		}
		if spans[0].Name != "rpc.tools/list" {
			t.Errorf("span name = %q, want %q", spans[0].Name, "rpc.tools/list")
		}

		var foundMethod bool
		for _, attr := range spans[0].Attributes {
			if attr.Key == attribute.Key("rpc.method") && attr.Value.AsString() == "tools/list" {
				foundMethod = true
			}
		}
		if !foundMethod {
			t.Error("expected rpc.method attribute on span")
		}
	})

	t.Run("records handler errors", func(t *testing.T) {
		exporter := tracetest.NewInMemoryExporter()
		tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
		defer tp.Shutdown(context.Background())

		handler := OTel(WithTracerProvider(tp))(
			func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
				return nil, errors.New("handler failed")
			},
		)

		req := &protocol.Request{ID: json.RawMessage("1"), Method: "tools/call"}
		if _, err := handler(context.Background(), req); err == nil {
			t.Fatal("expected error")
		}

		spans := exporter.GetSpans()
		if len(spans) != 1 {
			t.Fatalf("expected 1 span, got %d", len(spans))
		}
		if len(spans[0].Events) == 0 {
			t.Error("expected error event on span")
		}
	})

	t.Run("records error code from error responses", func(t *testing.T) {
		exporter := tracetest.NewInMemoryExporter()
		tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
		defer tp.Shutdown(context.Background())

		handler := OTel(WithTracerProvider(tp))(
			func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
				return protocol.NewErrorResponse(req.ID, protocol.NewMethodNotFound(req.Method)), nil
			},
		)

		req := &protocol.Request{ID: json.RawMessage("1"), Method: "tools/frobnicate"}
		if _, err := handler(context.Background(), req); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		spans := exporter.GetSpans()
		if len(spans) != 1 {
			t.Fatalf("expected 1 span, got %d", len(spans))
		}

		var code int64
		for _, attr := range spans[0].Attributes {
			if attr.Key == attribute.Key("rpc.error_code") {
				code = attr.Value.AsInt64()
			}
		}
		if code != int64(protocol.CodeMethodNotFound) {
			t.Errorf("rpc.error_code = %d, want %d", code, protocol.CodeMethodNotFound)
		}
	})

	t.Run("skips configured methods", func(t *testing.T) {
		exporter := tracetest.NewInMemoryExporter()
		tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
		defer tp.Shutdown(context.Background())

		handler := OTel(WithTracerProvider(tp), WithSkipMethods(protocol.MethodPing))(
			func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
				return protocol.NewResponse(req.ID, map[string]any{}), nil
			},
		)

		req := &protocol.Request{ID: json.RawMessage("1"), Method: protocol.MethodPing}
		if _, err := handler(context.Background(), req); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if spans := exporter.GetSpans(); len(spans) != 0 {
			t.Errorf("expected no spans for skipped method, got %d", len(spans))
		}
	})

	t.Run("counts requests", func(t *testing.T) {
		reader := sdkmetric.NewManualReader()
		mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
		defer mp.Shutdown(context.Background())

		handler := OTel(WithMeterProvider(mp))(
			func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
				return protocol.NewResponse(req.ID, "ok"), nil
			},
		)

		req := &protocol.Request{ID: json.RawMessage("1"), Method: "tools/list"}
		for i := 0; i < 3; i++ {
			if _, err := handler(context.Background(), req); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}

		var rm metricdata.ResourceMetrics
		if err := reader.Collect(context.Background(), &rm); err != nil {
			t.Fatalf("collect metrics: %v", err)
		}

		var total int64
		for _, scope := range rm.ScopeMetrics {
			for _, m := range scope.Metrics {
				if m.Name != "pipeline.requests" {
					continue
				}
				sum, ok := m.Data.(metricdata.Sum[int64])
				if !ok {
					t.Fatalf("pipeline.requests has unexpected data type %T", m.Data)
				}
				for _, dp := range sum.DataPoints {
					total += dp.Value
				}
			}
		}
		if total != 3 {
			t.Errorf("pipeline.requests = %d, want 3", total)
		}
	})
}
