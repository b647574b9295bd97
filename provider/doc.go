// Package provider implements the tool-providing handler role: a pipeline
// position that exposes a fixed set of schema-described tools and forwards
// everything it does not recognize.
//
// # Registering tools
//
// Tools are registered through a fluent builder before the provider is
// composed into a pipeline:
//
//	calc := provider.New("calculator", "1.0.0")
//	calc.Tool("add").
//	    Description("Add two numbers together").
//	    Handler(func(input AddArgs) (float64, error) {
//	        return input.A + input.B, nil
//	    })
//
// Handler signatures are typed; the input schema is generated from the
// input struct's json and jsonschema tags.
//
// # Composing tools
//
// A tool that needs downstream capability takes a context and uses the
// downstream caller:
//
//	stats.Tool("variance").Handler(func(ctx context.Context, input SeriesArgs) (float64, error) {
//	    mean, err := chain.DownstreamFromContext(ctx).CallToolFloat(ctx, "mean", input)
//	    ...
//	})
//
// The provider owning the tool injects the caller before execution, bound
// to whatever was composed after the provider's position.
//
// # Error shapes
//
// Malformed or schema-violating arguments produce InvalidParams at the
// provider that first parses them. Errors returned by a handler become an
// IsError tool result; a *protocol.Error returned by a handler passes
// through as a protocol error.
package provider
