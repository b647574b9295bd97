package protocol

import "encoding/json"

// Tool describes a single invocable operation exposed by a handler.
// Names are unique within one handler's contribution; the discovery merge
// does not deduplicate across handlers.
type Tool struct {
	Name        string `json:"name"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	InputSchema any    `json:"inputSchema"`
}

// ListToolsResult is the result of a tools/list request.
type ListToolsResult struct {
	Tools      []Tool `json:"tools"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// CallToolParams are the parameters of a tools/call request.
type CallToolParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// CallToolResult is the result of a tools/call request. IsError marks a
// tool-level failure (bad input, domain error) as opposed to a protocol
// error; the content then carries the failure message.
type CallToolResult struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

// Content is a single content block in a tool result.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
	Data string `json:"data,omitempty"`
}

// TextContent builds a single-block text content list.
func TextContent(text string) []Content {
	return []Content{{Type: "text", Text: text}}
}

// TextResult builds a successful tool result carrying a single text block.
func TextResult(text string) *CallToolResult {
	return &CallToolResult{Content: TextContent(text)}
}

// ErrorResult builds a tool-level error result carrying a single text block.
func ErrorResult(text string) *CallToolResult {
	return &CallToolResult{Content: TextContent(text), IsError: true}
}

// Text returns the concatenated text blocks of the result.
func (r *CallToolResult) Text() string {
	var out string
	for _, c := range r.Content {
		if c.Type == "text" {
			out += c.Text
		}
	}
	return out
}
