// Package compose builds tool-serving pipelines out of composable handlers.
//
// A pipeline is an ordered list of handlers. Every request enters at the
// head; each handler either answers it or passes it to the next position.
// Tool calls a handler does not recognize flow toward the tail, and a
// handler may itself call tools provided by handlers composed after it,
// which is how small single-purpose handlers combine into larger ones.
//
// Basic usage:
//
//	p := compose.NewProvider("calculator", "1.0.0")
//
//	type AddArgs struct {
//	    A float64 `json:"a" schema:"required"`
//	    B float64 `json:"b" schema:"required"`
//	}
//
//	p.Tool("add").
//	    Description("Add two numbers").
//	    Handler(func(args AddArgs) (float64, error) {
//	        return args.A + args.B, nil
//	    })
//
//	compose.ServeStdio(ctx, compose.New(p))
//
// Handlers compose left to right, head first:
//
//	ep := compose.New(
//	    statistics.NewStdDev(),   // needs variance and square_root
//	    statistics.NewVariance(), // needs mean
//	    statistics.New(),         // provides mean, median, ...
//	    calculator.New(),         // provides square_root, ...
//	)
package compose

import (
	"context"
	"time"

	"github.com/wasmcp/compose-go/chain"
	"github.com/wasmcp/compose-go/middleware"
	"github.com/wasmcp/compose-go/protocol"
	"github.com/wasmcp/compose-go/provider"
	"github.com/wasmcp/compose-go/transport"
)

// Core composition types.

// Handler is one position in a pipeline.
type Handler = chain.Handler

// Endpoint is the entry of a composed pipeline.
type Endpoint = chain.Endpoint

// Caller invokes tools provided by later pipeline positions.
type Caller = chain.Caller

// Provider is a pipeline handler serving a set of typed tools.
type Provider = provider.Provider

// ToolBuilder configures one tool on a provider.
type ToolBuilder = provider.ToolBuilder

// ProgressReporter reports progress from long-running tools.
type ProgressReporter = provider.ProgressReporter

// New composes handlers into a pipeline, head first.
func New(handlers ...Handler) Endpoint {
	return chain.New(handlers...)
}

// NewProvider creates a provider handler with the given name and version.
func NewProvider(name, version string) *Provider {
	return provider.New(name, version)
}

// NewCaller returns a caller that dispatches into next on behalf of owner.
func NewCaller(owner string, next Endpoint) *Caller {
	return chain.NewCaller(owner, next)
}

// DownstreamFromContext returns the caller wired into a tool execution
// context, targeting the positions after the tool's own provider.
var DownstreamFromContext = chain.DownstreamFromContext

// ProgressFromContext returns the progress reporter from a tool execution
// context. It reports nowhere when the client sent no progress token.
var ProgressFromContext = provider.ProgressFromContext

// Middleware re-exports.

// Middleware wraps the request path at the pipeline boundary.
type Middleware = middleware.Middleware

// Logger is the structured logger consumed by the logging middleware.
type Logger = middleware.Logger

// LogField is one key-value pair on a log line.
type LogField = middleware.Field

// LogF creates a log field.
func LogF(key string, value any) LogField {
	return middleware.F(key, value)
}

// Wrap applies boundary middleware to a pipeline.
func Wrap(ep Endpoint, middlewares ...Middleware) Endpoint {
	return middleware.Wrap(ep, middlewares...)
}

// Recover returns middleware converting panics to internal errors.
func Recover() Middleware {
	return middleware.Recover()
}

// TraceID returns middleware assigning a correlation id per traversal.
func TraceID() Middleware {
	return middleware.TraceID()
}

// Logging returns middleware logging one line per traversal.
func Logging(logger Logger) Middleware {
	return middleware.Logging(logger)
}

// Timeout returns middleware enforcing a traversal deadline.
func Timeout(d time.Duration) Middleware {
	return middleware.Timeout(d)
}

// RateLimit returns middleware limiting traversals per second.
func RateLimit(rate, burst int, opts ...middleware.RateLimitOption) Middleware {
	return middleware.RateLimit(rate, burst, opts...)
}

// DefaultMiddleware returns the recommended production middleware stack.
func DefaultMiddleware(logger Logger) []Middleware {
	return middleware.DefaultStack(logger)
}

// Transport re-exports.

// HTTPOption configures the HTTP transport.
type HTTPOption = transport.HTTPOption

// WebSocketOption configures the WebSocket transport.
type WebSocketOption = transport.WebSocketOption

// ServeOption configures how a pipeline is served.
type ServeOption func(*serveOptions)

type serveOptions struct {
	middleware []Middleware
	logger     Logger
}

// WithMiddleware adds boundary middleware when serving.
func WithMiddleware(m ...Middleware) ServeOption {
	return func(o *serveOptions) {
		o.middleware = append(o.middleware, m...)
	}
}

// WithLogger enables the default middleware stack with the given logger.
func WithLogger(l Logger) ServeOption {
	return func(o *serveOptions) {
		o.logger = l
	}
}

func applyServeOptions(ep Endpoint, opts ...ServeOption) Endpoint {
	var o serveOptions
	for _, opt := range opts {
		opt(&o)
	}

	mws := o.middleware
	if len(mws) == 0 && o.logger != nil {
		mws = middleware.DefaultStack(o.logger)
	}
	return middleware.Wrap(ep, mws...)
}

// ServeStdio serves the pipeline over stdin/stdout, blocking until ctx is
// canceled or input is exhausted.
func ServeStdio(ctx context.Context, ep Endpoint, opts ...ServeOption) error {
	t := transport.NewStdio()
	return t.Serve(ctx, applyServeOptions(ep, opts...))
}

// ServeHTTP serves the pipeline over HTTP, blocking until ctx is canceled.
func ServeHTTP(ctx context.Context, ep Endpoint, addr string, httpOpts []HTTPOption, opts ...ServeOption) error {
	t := transport.NewHTTP(addr, httpOpts...)
	return t.Serve(ctx, applyServeOptions(ep, opts...))
}

// ServeWebSocket serves the pipeline over WebSocket, blocking until ctx is
// canceled.
func ServeWebSocket(ctx context.Context, ep Endpoint, addr string, wsOpts []WebSocketOption, opts ...ServeOption) error {
	t := transport.NewWebSocket(addr, wsOpts...)
	return t.Serve(ctx, applyServeOptions(ep, opts...))
}

// Error taxonomy re-exports, for callers matching failure categories.

var (
	// IsMethodNotFound reports whether err is the unrecognized-method
	// signal produced past the tail of a pipeline.
	IsMethodNotFound = protocol.IsMethodNotFound

	// IsToolNotFound reports whether err names a tool no position serves.
	IsToolNotFound = protocol.IsToolNotFound
)
