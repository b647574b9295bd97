// Package sysinfo provides a tool handler with system utility operations.
package sysinfo

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/wasmcp/compose-go/provider"
)

// TextArgs carry the text operand of the base64 tools.
type TextArgs struct {
	Text string `json:"text" jsonschema:"required,description=Text to operate on"`
}

// Clock abstracts time for testing.
type Clock func() time.Time

// New creates the system-info handler: timestamp, random_uuid,
// base64_encode and base64_decode.
func New() *provider.Provider {
	return NewWithClock(time.Now)
}

// NewWithClock creates the system-info handler with an injected clock.
func NewWithClock(now Clock) *provider.Provider {
	p := provider.New("system-info", "0.1.0")

	p.Tool("timestamp").
		Title("Timestamp").
		Description("Get current Unix timestamp").
		Handler(func(input struct{}) (string, error) {
			return strconv.FormatInt(now().Unix(), 10), nil
		})

	p.Tool("random_uuid").
		Title("Random UUID").
		Description("Generate a random UUID v4").
		Handler(func(input struct{}) (string, error) {
			return uuid.NewString(), nil
		})

	p.Tool("base64_encode").
		Title("Base64 Encode").
		Description("Encode string to base64").
		ValidateInput().
		Handler(func(input TextArgs) (string, error) {
			return base64.StdEncoding.EncodeToString([]byte(input.Text)), nil
		})

	p.Tool("base64_decode").
		Title("Base64 Decode").
		Description("Decode base64 to string").
		ValidateInput().
		Handler(func(input TextArgs) (string, error) {
			decoded, err := base64.StdEncoding.DecodeString(input.Text)
			if err != nil {
				return "", fmt.Errorf("Invalid base64: %v", err)
			}
			if !utf8.Valid(decoded) {
				return "", fmt.Errorf("Decoded data is not valid UTF-8 text")
			}
			return string(decoded), nil
		})

	return p
}
