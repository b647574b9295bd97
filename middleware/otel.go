package middleware

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/wasmcp/compose-go/protocol"
)

const instrumentationName = "github.com/wasmcp/compose-go"

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*otelConfig)

type otelConfig struct {
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	pipelineName   string
	skipMethods    map[string]bool
}

// WithTracerProvider sets a custom tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *otelConfig) {
		c.tracerProvider = tp
	}
}

// WithMeterProvider sets a custom meter provider.
func WithMeterProvider(mp metric.MeterProvider) OTelOption {
	return func(c *otelConfig) {
		c.meterProvider = mp
	}
}

// WithPipelineName sets the pipeline name attached to spans and metrics.
func WithPipelineName(name string) OTelOption {
	return func(c *otelConfig) {
		c.pipelineName = name
	}
}

// WithSkipMethods names methods that are not traced, e.g. ping.
func WithSkipMethods(methods ...string) OTelOption {
	return func(c *otelConfig) {
		for _, m := range methods {
			c.skipMethods[m] = true
		}
	}
}

// OTel returns middleware that creates one span per traversal and records
// request count, duration and error metrics.
func OTel(opts ...OTelOption) Middleware {
	cfg := &otelConfig{
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
		pipelineName:   "pipeline",
		skipMethods:    make(map[string]bool),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	tracer := cfg.tracerProvider.Tracer(instrumentationName)
	meter := cfg.meterProvider.Meter(instrumentationName)

	requests, _ := meter.Int64Counter(
		"pipeline.requests",
		metric.WithDescription("Total requests entering the pipeline"),
		metric.WithUnit("{request}"),
	)
	duration, _ := meter.Float64Histogram(
		"pipeline.request.duration",
		metric.WithDescription("Duration of pipeline traversals"),
		metric.WithUnit("ms"),
	)
	errs, _ := meter.Int64Counter(
		"pipeline.errors",
		metric.WithDescription("Total failed traversals"),
		metric.WithUnit("{error}"),
	)

	return func(next RequestHandler) RequestHandler {
		return func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			if cfg.skipMethods[req.Method] {
				return next(ctx, req)
			}

			ctx, span := tracer.Start(ctx, "rpc."+req.Method,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("rpc.method", req.Method),
					attribute.String("pipeline.name", cfg.pipelineName),
				),
			)
			defer span.End()

			if id := protocol.TraceID(ctx); id != "" {
				span.SetAttributes(attribute.String("pipeline.trace_id", id))
			}

			attrs := []attribute.KeyValue{
				attribute.String("rpc.method", req.Method),
				attribute.String("pipeline.name", cfg.pipelineName),
			}
			requests.Add(ctx, 1, metric.WithAttributes(attrs...))

			start := time.Now()
			resp, err := next(ctx, req)
			duration.Record(ctx, float64(time.Since(start).Milliseconds()), metric.WithAttributes(attrs...))

			switch {
			case err != nil:
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				var pe *protocol.Error
				if errors.As(err, &pe) {
					attrs = append(attrs, attribute.Int("rpc.error_code", pe.Code))
					span.SetAttributes(attribute.Int("rpc.error_code", pe.Code))
				}
				errs.Add(ctx, 1, metric.WithAttributes(attrs...))
			case resp != nil && resp.Error != nil:
				span.SetStatus(codes.Error, resp.Error.Message)
				span.SetAttributes(attribute.Int("rpc.error_code", resp.Error.Code))
				errs.Add(ctx, 1, metric.WithAttributes(
					append(attrs, attribute.Int("rpc.error_code", resp.Error.Code))...,
				))
			default:
				span.SetStatus(codes.Ok, "")
			}

			return resp, err
		}
	}
}
