// Package protocol defines the JSON-RPC 2.0 message types, error codes and
// tool vocabulary shared by every handler in a composed pipeline.
//
// This package provides the low-level protocol structures used by compose-go.
// Most users should use the higher-level compose package instead.
//
// # Message Types
//
// Three message shapes cross a pipeline:
//
//	type Request struct {
//	    JSONRPC string          `json:"jsonrpc"`
//	    ID      json.RawMessage `json:"id,omitempty"`
//	    Method  string          `json:"method"`
//	    Params  json.RawMessage `json:"params,omitempty"`
//	}
//
//	type Notification struct {
//	    JSONRPC string          `json:"jsonrpc"`
//	    Method  string          `json:"method"`
//	    Params  json.RawMessage `json:"params,omitempty"`
//	}
//
//	type Response struct {
//	    JSONRPC string          `json:"jsonrpc"`
//	    ID      json.RawMessage `json:"id,omitempty"`
//	    Result  any             `json:"result,omitempty"`
//	    Error   *Error          `json:"error,omitempty"`
//	}
//
// A Request id is echoed verbatim in the matching Response. Notifications
// carry no id and never produce a response.
//
// # Error Codes
//
// Standard JSON-RPC 2.0 codes plus framework codes:
//
//	CodeParseError      = -32700  // Invalid JSON
//	CodeInvalidRequest  = -32600  // Invalid Request object
//	CodeMethodNotFound  = -32601  // No remaining position recognizes the method
//	CodeInvalidParams   = -32602  // Invalid method parameters
//	CodeInternalError   = -32603  // Internal handler failure
//	CodeToolNotFound    = -32001  // No remaining position provides the tool
//	CodeDownstreamError = -32002  // A nested call failed
//	CodeRateLimited     = -32003  // Rejected by rate limiting middleware
//
// MethodNotFound and ToolNotFound are the coordination signal between
// pipeline positions: during discovery they are absorbed into an empty
// contribution, during invocation they surface to the caller. Check them
// with IsNotFound, IsMethodNotFound and IsToolNotFound.
//
// # Request Metadata
//
// RequestMeta carries per-traversal state (correlation id, session data)
// created once at the transport boundary and read-shared by every handler:
//
//	ctx = protocol.SetRequestMeta(ctx, protocol.MetaTraceID, id)
//	trace := protocol.TraceID(ctx)
package protocol
