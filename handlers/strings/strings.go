// Package strings provides a tool handler with string manipulation
// operations.
package strings

import (
	"fmt"
	"strings"

	"github.com/wasmcp/compose-go/provider"
)

// Args carry the text operand shared by every string tool.
type Args struct {
	Text string `json:"text" jsonschema:"required,description=Text to operate on"`
}

// New creates the string-utils handler: uppercase, lowercase, reverse and
// word_count.
func New() *provider.Provider {
	p := provider.New("string-utils", "0.1.0")

	p.Tool("uppercase").
		Title("Uppercase").
		Description("Convert text to uppercase").
		ValidateInput().
		Handler(func(input Args) (string, error) {
			return strings.ToUpper(input.Text), nil
		})

	p.Tool("lowercase").
		Title("Lowercase").
		Description("Convert text to lowercase").
		ValidateInput().
		Handler(func(input Args) (string, error) {
			return strings.ToLower(input.Text), nil
		})

	p.Tool("reverse").
		Title("Reverse").
		Description("Reverse a string").
		ValidateInput().
		Handler(func(input Args) (string, error) {
			runes := []rune(input.Text)
			for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
				runes[i], runes[j] = runes[j], runes[i]
			}
			return string(runes), nil
		})

	p.Tool("word_count").
		Title("Word Count").
		Description("Count words in text").
		ValidateInput().
		Handler(func(input Args) (string, error) {
			return fmt.Sprintf("%d words", len(strings.Fields(input.Text))), nil
		})

	return p
}
