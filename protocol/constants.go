package protocol

// MCP protocol version.
const MCPVersion = "2024-11-05"

// MCP method names.
const (
	MethodInitialize = "initialize"
	MethodToolsList  = "tools/list"
	MethodToolsCall  = "tools/call"
	MethodPing       = "ping"
)

// MCP notification methods.
const (
	MethodInitialized = "notifications/initialized"
	MethodProgress    = "notifications/progress"
)
