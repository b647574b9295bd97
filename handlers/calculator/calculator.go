// Package calculator provides a tool handler with basic arithmetic
// operations.
package calculator

import (
	"errors"
	"math"

	"github.com/wasmcp/compose-go/provider"
)

// Args are the operands of a binary arithmetic operation.
type Args struct {
	A float64 `json:"a" jsonschema:"required,description=First number"`
	B float64 `json:"b" jsonschema:"required,description=Second number"`
}

// RootArgs is the operand of square_root.
type RootArgs struct {
	Value float64 `json:"value" jsonschema:"required,description=Number to take the square root of"`
}

// New creates the calculator handler: add, subtract, multiply, divide and
// square_root.
func New() *provider.Provider {
	p := provider.New("calculator", "0.1.0")

	p.Tool("add").
		Title("Add").
		Description("Add two numbers together").
		ValidateInput().
		Handler(func(input Args) (float64, error) {
			return input.A + input.B, nil
		})

	p.Tool("subtract").
		Title("Subtract").
		Description("Subtract b from a").
		ValidateInput().
		Handler(func(input Args) (float64, error) {
			return input.A - input.B, nil
		})

	p.Tool("multiply").
		Title("Multiply").
		Description("Multiply two numbers").
		ValidateInput().
		Handler(func(input Args) (float64, error) {
			return input.A * input.B, nil
		})

	p.Tool("divide").
		Title("Divide").
		Description("Divide a by b").
		ValidateInput().
		Handler(func(input Args) (float64, error) {
			if input.B == 0 {
				return 0, errors.New("Error: Division by zero")
			}
			return input.A / input.B, nil
		})

	p.Tool("square_root").
		Title("Square Root").
		Description("Compute the square root of a number").
		ValidateInput().
		Handler(func(input RootArgs) (float64, error) {
			if input.Value < 0 {
				return 0, errors.New("Error: Square root of negative number")
			}
			return math.Sqrt(input.Value), nil
		})

	return p
}
