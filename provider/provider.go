package provider

import (
	"context"
	"encoding/json"

	"github.com/wasmcp/compose-go/chain"
	"github.com/wasmcp/compose-go/protocol"
)

// Provider is a handler exposing a fixed, statically known set of tools.
// It answers initialize, ping, tools/list and tools/call for its own tool
// names, and forwards everything else to the next pipeline position.
//
// A Provider whose tools issue nested calls through the downstream caller
// (see chain.DownstreamFromContext) acts as a composing middleware; there is
// no structural difference beyond that.
type Provider struct {
	name    string
	version string
	tools   map[string]*Tool
	order   []string
}

// New creates a provider with the given name and version. The name appears
// in initialize results and in composition-order diagnostics.
func New(name, version string) *Provider {
	return &Provider{
		name:    name,
		version: version,
		tools:   make(map[string]*Tool),
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return p.name
}

// Tool starts building a new tool with the given name. The tool becomes
// visible once its handler is set; registration happens before composition,
// never during serving.
func (p *Provider) Tool(name string) *ToolBuilder {
	return &ToolBuilder{
		tool:     &Tool{name: name},
		provider: p,
	}
}

// Tools returns the provider's own descriptors in registration order.
func (p *Provider) Tools() []protocol.Tool {
	out := make([]protocol.Tool, 0, len(p.order))
	for _, name := range p.order {
		out = append(out, p.tools[name].Descriptor())
	}
	return out
}

func (p *Provider) register(t *Tool) {
	if _, exists := p.tools[t.name]; !exists {
		p.order = append(p.order, t.name)
	}
	p.tools[t.name] = t
}

// HandleRequest implements chain.Handler.
func (p *Provider) HandleRequest(ctx context.Context, req *protocol.Request, next chain.Endpoint) (*protocol.Response, error) {
	switch req.Method {
	case protocol.MethodInitialize:
		return p.handleInitialize(req)
	case protocol.MethodPing:
		return protocol.NewResponse(req.ID, map[string]any{}), nil
	case protocol.MethodToolsList:
		return p.handleToolsList(ctx, req, next)
	case protocol.MethodToolsCall:
		return p.handleToolsCall(ctx, req, next)
	default:
		return next.HandleRequest(ctx, req)
	}
}

// HandleNotification implements chain.Handler. A provider holds no
// cross-request state to update, so every notification is forwarded for
// later positions that may care.
func (p *Provider) HandleNotification(ctx context.Context, n *protocol.Notification, next chain.Endpoint) error {
	return next.HandleNotification(ctx, n)
}

// HandleResponse implements chain.Handler. Providers never issue
// out-of-band requests, so replies always belong further down.
func (p *Provider) HandleResponse(ctx context.Context, resp *protocol.Response, next chain.Endpoint) error {
	return next.HandleResponse(ctx, resp)
}

func (p *Provider) handleInitialize(req *protocol.Request) (*protocol.Response, error) {
	result := map[string]any{
		"protocolVersion": protocol.MCPVersion,
		"serverInfo": map[string]any{
			"name":    p.name,
			"version": p.version,
		},
		"capabilities": map[string]any{
			"tools": map[string]any{},
		},
	}
	return protocol.NewResponse(req.ID, result), nil
}

// handleToolsList merges the downstream contribution with this provider's
// own tools. Own tools are appended after the downstream result, so the
// aggregate read from the pipeline head lists tail-position tools first.
// Colliding names are kept as-is: a later composer cannot remove an
// earlier position's entry.
func (p *Provider) handleToolsList(ctx context.Context, req *protocol.Request, next chain.Endpoint) (*protocol.Response, error) {
	downstream, err := chain.NewCaller(p.name, next).ListTools(ctx)
	if err != nil {
		return nil, err
	}

	merged := make([]protocol.Tool, 0, len(downstream)+len(p.order))
	merged = append(merged, downstream...)
	merged = append(merged, p.Tools()...)

	return protocol.NewResponse(req.ID, &protocol.ListToolsResult{Tools: merged}), nil
}

func (p *Provider) handleToolsCall(ctx context.Context, req *protocol.Request, next chain.Endpoint) (*protocol.Response, error) {
	var params protocol.CallToolParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		// Malformed params are rejected at the first position that parses
		// them, never forwarded.
		return nil, protocol.NewInvalidParams(err.Error())
	}

	tool, ok := p.tools[params.Name]
	if !ok {
		return next.HandleRequest(ctx, req)
	}

	ctx = chain.ContextWithDownstream(ctx, chain.NewCaller(p.name, next))
	if token := extractProgressToken(req.Params); token != "" {
		if sender := chain.NotifierFromContext(ctx); sender != nil {
			ctx = ContextWithProgress(ctx, newProgressReporter(token, sender))
		}
	}

	result, err := tool.Execute(ctx, params.Arguments)
	if err != nil {
		return nil, err
	}
	return protocol.NewResponse(req.ID, result), nil
}
