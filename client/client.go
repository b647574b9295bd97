// Package client connects to a composed pipeline from the outside.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wasmcp/compose-go/protocol"
)

// Transport is the client-side wire connection.
type Transport interface {
	// Send sends a request and waits for the matching response.
	Send(ctx context.Context, req *protocol.Request) (*protocol.Response, error)
	// Close closes the connection.
	Close() error
}

// Client talks to a pipeline over a Transport.
type Client struct {
	transport Transport
	opts      clientOptions

	mu         sync.RWMutex
	serverInfo *ServerInfo
	requestID  atomic.Int64
}

// ServerInfo describes the pipeline answering the handshake. The name and
// version belong to the head handler.
type ServerInfo struct {
	Name            string
	Version         string
	ProtocolVersion string
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	timeout     time.Duration
	clientName  string
	clientVer   string
	protocolVer string
}

// WithTimeout sets the default timeout for requests.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = d
	}
}

// WithClientInfo sets the client name and version for the handshake.
func WithClientInfo(name, version string) Option {
	return func(o *clientOptions) {
		o.clientName = name
		o.clientVer = version
	}
}

// WithProtocolVersion sets the protocol version to announce.
func WithProtocolVersion(version string) Option {
	return func(o *clientOptions) {
		o.protocolVer = version
	}
}

// New creates a client over the given transport.
func New(transport Transport, opts ...Option) *Client {
	options := clientOptions{
		timeout:     30 * time.Second,
		clientName:  "compose-go-client",
		clientVer:   "1.0.0",
		protocolVer: protocol.MCPVersion,
	}
	for _, opt := range opts {
		opt(&options)
	}
	return &Client{
		transport: transport,
		opts:      options,
	}
}

// Initialize performs the handshake with the pipeline.
func (c *Client) Initialize(ctx context.Context) (*ServerInfo, error) {
	params := map[string]any{
		"protocolVersion": c.opts.protocolVer,
		"clientInfo": map[string]any{
			"name":    c.opts.clientName,
			"version": c.opts.clientVer,
		},
		"capabilities": map[string]any{},
	}

	resp, err := c.call(ctx, protocol.MethodInitialize, params)
	if err != nil {
		return nil, fmt.Errorf("initialize: %w", err)
	}

	var result struct {
		ProtocolVersion string `json:"protocolVersion"`
		ServerInfo      struct {
			Name    string `json:"name"`
			Version string `json:"version"`
		} `json:"serverInfo"`
	}
	if err := resp.DecodeResult(&result); err != nil {
		return nil, fmt.Errorf("initialize: %w", err)
	}

	info := &ServerInfo{
		Name:            result.ServerInfo.Name,
		Version:         result.ServerInfo.Version,
		ProtocolVersion: result.ProtocolVersion,
	}

	c.mu.Lock()
	c.serverInfo = info
	c.mu.Unlock()

	return info, nil
}

// ServerInfo returns the handshake result, or nil before Initialize.
func (c *Client) ServerInfo() *ServerInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.serverInfo
}

// Ping checks that the pipeline is responsive.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.call(ctx, protocol.MethodPing, nil); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// ListTools returns the merged tool catalog of the whole pipeline, in
// pipeline order.
func (c *Client) ListTools(ctx context.Context) ([]protocol.Tool, error) {
	resp, err := c.call(ctx, protocol.MethodToolsList, nil)
	if err != nil {
		return nil, fmt.Errorf("list tools: %w", err)
	}

	var result protocol.ListToolsResult
	if err := resp.DecodeResult(&result); err != nil {
		return nil, fmt.Errorf("list tools: %w", err)
	}
	return result.Tools, nil
}

// CallTool invokes a tool anywhere in the pipeline.
func (c *Client) CallTool(ctx context.Context, name string, arguments any) (*protocol.CallToolResult, error) {
	params := map[string]any{"name": name}
	if arguments != nil {
		params["arguments"] = arguments
	}

	resp, err := c.call(ctx, protocol.MethodToolsCall, params)
	if err != nil {
		return nil, fmt.Errorf("call tool %q: %w", name, err)
	}

	var result protocol.CallToolResult
	if err := resp.DecodeResult(&result); err != nil {
		return nil, fmt.Errorf("call tool %q: %w", name, err)
	}
	return &result, nil
}

// CallToolText invokes a tool and returns its text content. Tool-level
// failures are returned as errors.
func (c *Client) CallToolText(ctx context.Context, name string, arguments any) (string, error) {
	result, err := c.CallTool(ctx, name, arguments)
	if err != nil {
		return "", err
	}
	if result.IsError {
		return "", fmt.Errorf("tool %q failed: %s", name, result.Text())
	}
	return result.Text(), nil
}

// Close closes the underlying transport.
func (c *Client) Close() error {
	return c.transport.Close()
}

func (c *Client) call(ctx context.Context, method string, params any) (*protocol.Response, error) {
	id := c.requestID.Add(1)

	var paramsRaw json.RawMessage
	if params != nil {
		var err error
		paramsRaw, err = json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("marshal params: %w", err)
		}
	}

	idRaw, err := json.Marshal(id)
	if err != nil {
		return nil, fmt.Errorf("marshal request ID: %w", err)
	}
	req := &protocol.Request{
		JSONRPC: protocol.JSONRPCVersion,
		ID:      idRaw,
		Method:  method,
		Params:  paramsRaw,
	}

	if c.opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.timeout)
		defer cancel()
	}

	resp, err := c.transport.Send(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, resp.Error
	}
	return resp, nil
}
