package middleware

import (
	"context"
	"time"

	"github.com/felixgeelhaar/fortify/ratelimit"

	"github.com/wasmcp/compose-go/protocol"
)

// RateLimitOption configures the rate limiter.
type RateLimitOption func(*rateLimitConfig)

type rateLimitConfig struct {
	keyFunc func(*protocol.Request) string
	logger  Logger
}

// WithRateLimitKey sets a function extracting the limit key from requests,
// enabling per-method or per-client limits. The default is one global
// bucket.
func WithRateLimitKey(fn func(*protocol.Request) string) RateLimitOption {
	return func(c *rateLimitConfig) {
		c.keyFunc = fn
	}
}

// WithRateLimitLogger sets the logger for rate limit events.
func WithRateLimitLogger(l Logger) RateLimitOption {
	return func(c *rateLimitConfig) {
		c.logger = l
	}
}

// RateLimit returns middleware limiting traversals per second with a token
// bucket. Burst allows short spikes above the sustained rate.
func RateLimit(rate, burst int, opts ...RateLimitOption) Middleware {
	cfg := &rateLimitConfig{
		keyFunc: func(*protocol.Request) string { return "global" },
	}
	for _, opt := range opts {
		opt(cfg)
	}

	limiter := ratelimit.New(&ratelimit.Config{
		Rate:     rate,
		Burst:    burst,
		Interval: time.Second,
	})

	return func(next RequestHandler) RequestHandler {
		return func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			key := cfg.keyFunc(req)
			if !limiter.Allow(ctx, key) {
				if cfg.logger != nil {
					cfg.logger.Warn("rate limit exceeded",
						F("method", req.Method),
						F("key", key),
					)
				}
				return nil, &protocol.Error{
					Code:    protocol.CodeRateLimited,
					Message: "rate limit exceeded",
				}
			}
			return next(ctx, req)
		}
	}
}

// RateLimitByMethod returns rate limiting middleware with one bucket per
// method name.
func RateLimitByMethod(rate, burst int, opts ...RateLimitOption) Middleware {
	return RateLimit(rate, burst, append([]RateLimitOption{
		WithRateLimitKey(func(req *protocol.Request) string { return req.Method }),
	}, opts...)...)
}
