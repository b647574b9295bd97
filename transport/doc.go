// Package transport adapts composed pipelines to concrete wire transports.
//
// A transport reads JSON-RPC frames from a peer, classifies each as a
// request, notification or response, and dispatches it into the pipeline
// endpoint. Requests produce exactly one response frame; notifications and
// out-of-band responses produce none.
//
// # Stdio
//
// Line-delimited JSON over stdin/stdout, for pipelines running as a
// subprocess of their client:
//
//	t := transport.NewStdio()
//	err := t.Serve(ctx, ep)
//
// # HTTP
//
// POST /rpc carries frames; GET /rpc/sse streams pipeline notifications;
// GET /health answers health checks:
//
//	t := transport.NewHTTP(":8080",
//	    transport.WithReadTimeout(30*time.Second),
//	    transport.WithDefaultCORS(),
//	)
//	err := t.Serve(ctx, ep)
//
// # WebSocket
//
// One frame per message in both directions:
//
//	t := transport.NewWebSocket(":8081")
//	err := t.Serve(ctx, ep)
//
// Every transport attaches itself to the request context as the pipeline's
// notification sender, so progress notifications emitted mid-call reach the
// connected client.
package transport
