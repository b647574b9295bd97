package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"

	"github.com/wasmcp/compose-go/protocol"
	"github.com/wasmcp/compose-go/schema"
)

// Tool is a single named, schema-described operation exposed by a Provider.
type Tool struct {
	name        string
	title       string
	description string

	inputType   reflect.Type
	inputSchema *schema.Schema
	validate    bool

	fn         reflect.Value
	hasContext bool
}

// Descriptor returns the wire-level descriptor for this tool.
func (t *Tool) Descriptor() protocol.Tool {
	return protocol.Tool{
		Name:        t.name,
		Title:       t.title,
		Description: t.description,
		InputSchema: t.inputSchema,
	}
}

// ToolBuilder provides a fluent API for registering tools on a Provider.
type ToolBuilder struct {
	tool     *Tool
	provider *Provider
	err      error
}

// Description sets the tool description.
func (b *ToolBuilder) Description(desc string) *ToolBuilder {
	if b.err == nil {
		b.tool.description = desc
	}
	return b
}

// Title sets the human-readable tool title.
func (b *ToolBuilder) Title(title string) *ToolBuilder {
	if b.err == nil {
		b.tool.title = title
	}
	return b
}

// ValidateInput enables runtime validation of arguments against the tool's
// generated schema before the handler runs. Violations come back as
// InvalidParams.
func (b *ToolBuilder) ValidateInput() *ToolBuilder {
	if b.err == nil {
		b.tool.validate = true
	}
	return b
}

// Handler sets the tool handler and registers the tool. The signature must
// be one of:
//
//	func(input T) (R, error)
//	func(ctx context.Context, input T) (R, error)
//
// The input schema is generated from T. An invalid signature is reported by
// Err.
func (b *ToolBuilder) Handler(fn any) *ToolBuilder {
	if b.err != nil {
		return b
	}
	if err := b.bind(fn); err != nil {
		b.err = fmt.Errorf("tool %q: %w", b.tool.name, err)
		return b
	}
	b.provider.register(b.tool)
	return b
}

// Err returns the first builder error, if any.
func (b *ToolBuilder) Err() error {
	return b.err
}

var (
	ctxType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errType = reflect.TypeOf((*error)(nil)).Elem()
)

func (b *ToolBuilder) bind(fn any) error {
	t := reflect.TypeOf(fn)
	if t == nil || t.Kind() != reflect.Func {
		return errors.New("handler must be a function")
	}

	inputIdx := 0
	switch t.NumIn() {
	case 1:
	case 2:
		if !t.In(0).Implements(ctxType) {
			return errors.New("first parameter must be context.Context")
		}
		b.tool.hasContext = true
		inputIdx = 1
	default:
		return fmt.Errorf("handler must take 1 or 2 parameters, got %d", t.NumIn())
	}

	if t.NumOut() != 2 || !t.Out(1).Implements(errType) {
		return errors.New("handler must return (result, error)")
	}

	inputType := t.In(inputIdx)
	for inputType.Kind() == reflect.Ptr {
		inputType = inputType.Elem()
	}
	b.tool.inputType = inputType
	b.tool.inputSchema = schema.FromType(inputType)
	b.tool.fn = reflect.ValueOf(fn)
	return nil
}

// Execute runs the tool against raw JSON arguments.
//
// Protocol-level faults (malformed or schema-violating arguments) surface
// as errors. Domain-level failures reported by the handler become an
// IsError result, matching how tool execution errors travel on the wire.
func (t *Tool) Execute(ctx context.Context, arguments json.RawMessage) (*protocol.CallToolResult, error) {
	if len(arguments) == 0 {
		arguments = json.RawMessage(`{}`)
	}

	if t.validate && t.inputSchema != nil {
		if err := t.inputSchema.Validate(arguments); err != nil {
			return nil, protocol.NewInvalidParams(fmt.Sprintf("invalid arguments for %q: %v", t.name, err))
		}
	}

	input := reflect.New(t.inputType)
	if err := json.Unmarshal(arguments, input.Interface()); err != nil {
		return nil, protocol.NewInvalidParams(fmt.Sprintf("invalid arguments for %q: %v", t.name, err))
	}

	args := make([]reflect.Value, 0, 2)
	if t.hasContext {
		args = append(args, reflect.ValueOf(ctx))
	}
	args = append(args, input.Elem())

	out := t.fn.Call(args)
	if errVal := out[1].Interface(); errVal != nil {
		err := errVal.(error)
		var pe *protocol.Error
		if errors.As(err, &pe) {
			return nil, pe
		}
		return protocol.ErrorResult(err.Error()), nil
	}
	return toResult(out[0].Interface())
}

// toResult converts a handler return value into a tool result. Scalar
// values become a single text block, matching the wire shape tool callers
// decode with CallToolFloat and friends.
func toResult(v any) (*protocol.CallToolResult, error) {
	switch val := v.(type) {
	case *protocol.CallToolResult:
		return val, nil
	case protocol.CallToolResult:
		return &val, nil
	case string:
		return protocol.TextResult(val), nil
	case float64:
		return protocol.TextResult(strconv.FormatFloat(val, 'f', -1, 64)), nil
	case float32:
		return protocol.TextResult(strconv.FormatFloat(float64(val), 'f', -1, 32)), nil
	case int:
		return protocol.TextResult(strconv.Itoa(val)), nil
	case int64:
		return protocol.TextResult(strconv.FormatInt(val, 10)), nil
	case uint64:
		return protocol.TextResult(strconv.FormatUint(val, 10)), nil
	case bool:
		return protocol.TextResult(strconv.FormatBool(val)), nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, protocol.NewInternalError(fmt.Sprintf("encode tool result: %v", err))
		}
		return protocol.TextResult(string(data)), nil
	}
}
