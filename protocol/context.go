package protocol

import "context"

// requestMetaKey is the context key for request metadata.
type requestMetaKey struct{}

// RequestMeta holds cross-cutting per-request state created once at the
// transport boundary and read-shared by every handler a traversal touches:
// correlation id, session or authentication data, transport headers.
type RequestMeta map[string]string

// Well-known metadata keys.
const (
	MetaTraceID = "trace_id"
	MetaSession = "session"
)

// ContextWithRequestMeta returns a new context with the request metadata attached.
func ContextWithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext returns the request metadata from the context.
// Returns nil if no metadata is present.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	if meta, ok := ctx.Value(requestMetaKey{}).(RequestMeta); ok {
		return meta
	}
	return nil
}

// GetRequestMeta returns a specific metadata value from the context.
// Returns empty string if the key is not found or no metadata is present.
func GetRequestMeta(ctx context.Context, key string) string {
	meta := RequestMetaFromContext(ctx)
	if meta == nil {
		return ""
	}
	return meta[key]
}

// SetRequestMeta sets a metadata value in the context. The existing map is
// copied, never mutated: handlers further down a traversal must not observe
// writes made by their caller after the fact.
func SetRequestMeta(ctx context.Context, key, value string) context.Context {
	meta := RequestMetaFromContext(ctx)
	next := make(RequestMeta, len(meta)+1)
	for k, v := range meta {
		next[k] = v
	}
	next[key] = value
	return ContextWithRequestMeta(ctx, next)
}

// TraceID returns the correlation id for the current traversal, or empty
// string if the transport did not assign one.
func TraceID(ctx context.Context) string {
	return GetRequestMeta(ctx, MetaTraceID)
}
