// Package protocol implements the JSON-RPC 2.0 message model shared by every
// handler in a composed pipeline.
package protocol

import (
	"errors"
	"fmt"
)

// Standard JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// Framework error codes.
const (
	CodeToolNotFound    = -32001
	CodeDownstreamError = -32002
	CodeRateLimited     = -32003
)

// Error represents a JSON-RPC 2.0 error.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc: %s (code: %d)", e.Message, e.Code)
}

// Is implements errors.Is comparison by error code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithData returns a copy of the error with additional data attached.
func (e *Error) WithData(data any) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Data:    data,
	}
}

// NewParseError creates a parse error (-32700).
func NewParseError(msg string) *Error {
	return &Error{Code: CodeParseError, Message: msg}
}

// NewInvalidRequest creates an invalid request error (-32600).
func NewInvalidRequest(msg string) *Error {
	return &Error{Code: CodeInvalidRequest, Message: msg}
}

// NewMethodNotFound creates a method not found error (-32601).
// This is the coordination signal between pipeline positions: it means the
// current position and everything after it do not recognize the method.
func NewMethodNotFound(method string) *Error {
	return &Error{Code: CodeMethodNotFound, Message: "method not found: " + method}
}

// NewInvalidParams creates an invalid params error (-32602).
func NewInvalidParams(msg string) *Error {
	return &Error{Code: CodeInvalidParams, Message: msg}
}

// NewInternalError creates an internal error (-32603).
func NewInternalError(msg string) *Error {
	return &Error{Code: CodeInternalError, Message: msg}
}

// NewToolNotFound creates a tool not found error (-32001). Like
// MethodNotFound it signals that no remaining pipeline position provides the
// named tool.
func NewToolNotFound(name string) *Error {
	return &Error{Code: CodeToolNotFound, Message: "tool not found: " + name}
}

// NewDownstreamError wraps a failure of a nested call, tagged with the
// target tool name for traceability.
func NewDownstreamError(tool string, cause error) *Error {
	return &Error{
		Code:    CodeDownstreamError,
		Message: fmt.Sprintf("downstream call %q failed: %v", tool, cause),
	}
}

// IsMethodNotFound reports whether err is a MethodNotFound error.
func IsMethodNotFound(err error) bool {
	return errors.Is(err, &Error{Code: CodeMethodNotFound})
}

// IsToolNotFound reports whether err is a ToolNotFound error.
func IsToolNotFound(err error) bool {
	return errors.Is(err, &Error{Code: CodeToolNotFound})
}

// IsNotFound reports whether err signals an unrecognized method or tool,
// the two shapes the terminal pipeline position produces.
func IsNotFound(err error) bool {
	return IsMethodNotFound(err) || IsToolNotFound(err)
}

// AsError converts any error into a protocol Error, passing through values
// that already are one and wrapping the rest as internal errors.
func AsError(err error) *Error {
	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}
	return NewInternalError(err.Error())
}
