package transport

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"

	"github.com/wasmcp/compose-go/chain"
	"github.com/wasmcp/compose-go/protocol"
)

// Stdio serves a pipeline over stdin/stdout with line-delimited JSON, the
// transport used when a pipeline runs as a subprocess of its client.
type Stdio struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	mu sync.Mutex
}

// StdioOption configures a Stdio transport.
type StdioOption func(*Stdio)

// WithStdin sets a custom stdin reader.
func WithStdin(r io.Reader) StdioOption {
	return func(s *Stdio) {
		s.in = r
	}
}

// WithStdout sets a custom stdout writer.
func WithStdout(w io.Writer) StdioOption {
	return func(s *Stdio) {
		s.out = w
	}
}

// WithStderr sets a custom stderr writer.
func WithStderr(w io.Writer) StdioOption {
	return func(s *Stdio) {
		s.errOut = w
	}
}

// NewStdio creates a new stdio transport.
func NewStdio(opts ...StdioOption) *Stdio {
	s := &Stdio{
		in:     os.Stdin,
		out:    os.Stdout,
		errOut: os.Stderr,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Addr returns the transport address.
func (s *Stdio) Addr() string {
	return "stdio"
}

// Serve reads frames from stdin until EOF or cancellation. Requests produce
// exactly one response line each; notifications and responses produce none.
func (s *Stdio) Serve(ctx context.Context, ep chain.Endpoint) error {
	scanner := bufio.NewScanner(s.in)

	lines := make(chan string)
	scanErr := make(chan error, 1)

	go func() {
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			scanErr <- err
		}
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-scanErr:
			return err
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			s.handleLine(ctx, ep, line)
		}
	}
}

// SendNotification writes a JSON-RPC notification line to the client.
func (s *Stdio) SendNotification(method string, params any) error {
	n, err := protocol.NewNotification(method, params)
	if err != nil {
		return err
	}
	return s.writeFrame(n)
}

func (s *Stdio) handleLine(ctx context.Context, ep chain.Endpoint, line string) {
	var f frame
	if err := json.Unmarshal([]byte(line), &f); err != nil {
		s.writeFrame(protocol.NewErrorResponse(nil, protocol.NewParseError(err.Error())))
		return
	}

	ctx = chain.ContextWithNotifier(ctx, s)

	resp, err := dispatch(ctx, ep, &f)
	if f.Method != "" && f.hasID() {
		if err != nil {
			resp = errorResponse(f.ID, err)
		}
		if resp != nil {
			s.writeFrame(resp)
		}
	}
}

func (s *Stdio) writeFrame(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := s.out.Write(data); err != nil {
		return err
	}
	_, err = s.out.Write([]byte("\n"))
	return err
}
