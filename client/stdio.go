package client

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/wasmcp/compose-go/protocol"
)

// StdioTransport runs a pipeline as a subprocess and talks to it over
// stdin/stdout. Responses are paired to requests by id, so interleaved
// answers are routed to the right caller.
type StdioTransport struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	stderr io.ReadCloser

	mu       sync.Mutex
	respChan map[int64]chan *protocol.Response
	scanner  *bufio.Scanner
	closed   bool

	readWG sync.WaitGroup
}

// NewStdioTransport spawns the subprocess and starts reading its output.
func NewStdioTransport(command string, args ...string) (*StdioTransport, error) {
	cmd := exec.Command(command, args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start command: %w", err)
	}

	t := &StdioTransport{
		cmd:      cmd,
		stdin:    stdin,
		stdout:   stdout,
		stderr:   stderr,
		respChan: make(map[int64]chan *protocol.Response),
		scanner:  bufio.NewScanner(stdout),
	}

	t.readWG.Add(1)
	go t.readResponses()

	return t, nil
}

// Send writes one request line and waits for the response carrying the
// same id.
func (t *StdioTransport) Send(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil, fmt.Errorf("transport closed")
	}

	var id int64
	if err := json.Unmarshal(req.ID, &id); err != nil {
		t.mu.Unlock()
		return nil, fmt.Errorf("invalid request ID: %w", err)
	}

	respCh := make(chan *protocol.Response, 1)
	t.respChan[id] = respCh
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		delete(t.respChan, id)
		t.mu.Unlock()
	}()

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	t.mu.Lock()
	_, err = t.stdin.Write(append(data, '\n'))
	t.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("write request: %w", err)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case resp := <-respCh:
		return resp, nil
	}
}

// Close closes stdin, waits for the reader and terminates the subprocess.
func (t *StdioTransport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()

	_ = t.stdin.Close()
	t.readWG.Wait()

	if t.cmd.Process != nil {
		_ = t.cmd.Process.Kill()
	}
	return t.cmd.Wait()
}

// Stderr returns the stderr reader for the subprocess.
func (t *StdioTransport) Stderr() io.Reader {
	return t.stderr
}

func (t *StdioTransport) readResponses() {
	defer t.readWG.Done()

	for t.scanner.Scan() {
		line := t.scanner.Text()

		var resp protocol.Response
		if err := json.Unmarshal([]byte(line), &resp); err != nil {
			continue
		}

		// Lines without an id are pipeline notifications.
		var id int64
		if err := json.Unmarshal(resp.ID, &id); err != nil {
			continue
		}

		t.mu.Lock()
		ch, ok := t.respChan[id]
		t.mu.Unlock()
		if !ok {
			continue
		}

		// The channel holds one slot per pending id. A duplicate response
		// for an id that was already answered is discarded rather than
		// wedging the reader.
		select {
		case ch <- &resp:
		default:
		}
	}
}
