// Package middleware provides boundary middleware for composed pipelines.
//
// Middleware wraps the request path of a pipeline at its entry point, before
// the head position sees the message. It is where cross-cutting concerns
// live: panic recovery, trace ids, logging, timeouts, rate limiting and
// OpenTelemetry instrumentation. Notifications and responses pass through
// untouched.
//
//	ep := chain.New(statistics.NewStdDev(), statistics.NewVariance(), statistics.New(), calculator.New())
//	ep = middleware.Wrap(ep,
//	    middleware.Recover(),
//	    middleware.TraceID(),
//	    middleware.Logging(logger),
//	)
package middleware
