package chain

import "context"

// downstreamKey is the context key for the downstream caller.
type downstreamKey struct{}

// ContextWithDownstream returns a context carrying the caller a composing
// handler's tool implementations use for nested calls. Providers attach it
// before executing a local tool.
func ContextWithDownstream(ctx context.Context, caller *Caller) context.Context {
	return context.WithValue(ctx, downstreamKey{}, caller)
}

// DownstreamFromContext returns the downstream caller for the current tool
// execution, or nil when the tool runs outside a composed pipeline.
func DownstreamFromContext(ctx context.Context) *Caller {
	caller, _ := ctx.Value(downstreamKey{}).(*Caller)
	return caller
}

// NotificationSender can push JSON-RPC notifications back to the client of
// the current connection. Transports implement it; handlers use it for
// incremental output such as progress updates.
type NotificationSender interface {
	SendNotification(method string, params any) error
}

// notifierKey is the context key for the notification sender.
type notifierKey struct{}

// ContextWithNotifier returns a context with the connection's notification
// sender attached. Transports call this once per inbound message.
func ContextWithNotifier(ctx context.Context, sender NotificationSender) context.Context {
	return context.WithValue(ctx, notifierKey{}, sender)
}

// NotifierFromContext returns the notification sender for the current
// traversal, or nil if the transport does not support one.
func NotifierFromContext(ctx context.Context) NotificationSender {
	sender, _ := ctx.Value(notifierKey{}).(NotificationSender)
	return sender
}
