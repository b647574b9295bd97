// Package chain composes independently built request handlers into a single
// JSON-RPC processing pipeline.
//
// A pipeline is a finite, totally ordered sequence of handlers fixed at
// composition time. Each handler receives the remainder of the pipeline as
// an explicit next endpoint and decides per message whether to answer
// locally or forward:
//
//	pipeline := chain.New(stddev, variance, statistics, calculator)
//	resp, err := pipeline.HandleRequest(ctx, req)
//
// The head endpoint is equivalent to the first handler; past the last
// handler sits a terminal sentinel that answers MethodNotFound (or
// ToolNotFound for tools/call).
//
// # Ordering
//
// Delegation only flows forward: a handler can reach tools provided by
// positions strictly after its own, never before. Composing
// [variance, statistics] lets variance call statistics' mean tool;
// [statistics, variance] does not, and the resulting error says exactly
// that.
//
// # Nested calls
//
// A composing handler issues nested calls through a Caller bound to its
// downstream endpoint:
//
//	caller := chain.DownstreamFromContext(ctx)
//	mean, err := caller.CallToolFloat(ctx, "mean", args)
//
// Nested requests carry freshly minted UUID ids, so they never collide with
// the client-facing id of the enclosing request. Composition nests to
// arbitrary depth; there is no structural difference between a tool
// provider and a composing handler beyond whether it calls downstream.
//
// # Concurrency
//
// Composition happens once, before serving; the returned endpoint and every
// handler's configuration are read-only afterwards, so any number of
// traversals may run concurrently.
package chain
