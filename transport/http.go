package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/wasmcp/compose-go/chain"
	"github.com/wasmcp/compose-go/protocol"
)

// HTTP serves a pipeline over HTTP POST with an SSE channel for
// pipeline-to-client notifications.
type HTTP struct {
	addr            string
	readTimeout     time.Duration
	writeTimeout    time.Duration
	shutdownTimeout time.Duration
	drainDelay      time.Duration

	shutdown   *ShutdownManager
	corsConfig *CORSConfig

	mu         sync.RWMutex
	listenAddr string
	server     *http.Server

	sseClients   map[string]chan []byte
	sseClientsMu sync.RWMutex
}

// HTTPOption configures the HTTP transport.
type HTTPOption func(*HTTP)

// WithReadTimeout sets the read timeout for HTTP requests.
func WithReadTimeout(d time.Duration) HTTPOption {
	return func(h *HTTP) {
		h.readTimeout = d
	}
}

// WithWriteTimeout sets the write timeout for HTTP responses.
func WithWriteTimeout(d time.Duration) HTTPOption {
	return func(h *HTTP) {
		h.writeTimeout = d
	}
}

// NewHTTP creates a new HTTP transport listening on addr.
func NewHTTP(addr string, opts ...HTTPOption) *HTTP {
	h := &HTTP{
		addr:            addr,
		readTimeout:     30 * time.Second,
		writeTimeout:    30 * time.Second,
		shutdownTimeout: 30 * time.Second,
		sseClients:      make(map[string]chan []byte),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.shutdown = NewShutdownManager(ShutdownConfig{
		Timeout:    h.shutdownTimeout,
		DrainDelay: h.drainDelay,
	})
	return h
}

// Addr returns the configured address.
func (h *HTTP) Addr() string {
	return h.addr
}

// ListenAddr returns the actual address the server is listening on, useful
// when addr requested an ephemeral port.
func (h *HTTP) ListenAddr() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.listenAddr
}

// Serve starts the HTTP server, blocking until ctx is canceled.
func (h *HTTP) Serve(ctx context.Context, ep chain.Endpoint) error {
	listener, err := net.Listen("tcp", h.addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	h.mu.Lock()
	h.listenAddr = listener.Addr().String()
	h.server = &http.Server{
		Handler:      h.createHandler(ep),
		ReadTimeout:  h.readTimeout,
		WriteTimeout: h.writeTimeout,
	}
	h.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		if err := h.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout+time.Second)
		defer cancel()
		_ = h.shutdown.Shutdown(shutdownCtx)
		if err := h.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// SendNotification broadcasts a notification to all connected SSE clients.
func (h *HTTP) SendNotification(method string, params any) error {
	n, err := protocol.NewNotification(method, params)
	if err != nil {
		return err
	}
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}
	h.Broadcast(data)
	return nil
}

func (h *HTTP) createHandler(ep chain.Endpoint) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	mux.HandleFunc("/rpc/sse", func(w http.ResponseWriter, r *http.Request) {
		h.handleSSE(w, r)
	})

	mux.HandleFunc("/rpc", func(w http.ResponseWriter, r *http.Request) {
		h.handleRPC(w, r, ep)
	})

	if h.corsConfig != nil {
		return CORSHandler(*h.corsConfig, mux)
	}
	return mux
}

func (h *HTTP) handleRPC(w http.ResponseWriter, r *http.Request, ep chain.Endpoint) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if !h.shutdown.TrackRequest() {
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}
	defer h.shutdown.CompleteRequest()

	w.Header().Set("Content-Type", "application/json")

	var f frame
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		resp := protocol.NewErrorResponse(nil, protocol.NewParseError("invalid JSON"))
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	ctx := chain.ContextWithNotifier(r.Context(), h)
	if trace := r.Header.Get("X-Trace-Id"); trace != "" {
		ctx = protocol.SetRequestMeta(ctx, protocol.MetaTraceID, trace)
	}

	resp, err := dispatch(ctx, ep, &f)
	if f.Method == "" || !f.hasID() {
		w.WriteHeader(http.StatusAccepted)
		return
	}
	if err != nil {
		resp = errorResponse(f.ID, err)
	}
	if resp != nil {
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *HTTP) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	clientID := fmt.Sprintf("%d", time.Now().UnixNano())
	messageCh := make(chan []byte, 10)

	h.sseClientsMu.Lock()
	h.sseClients[clientID] = messageCh
	h.sseClientsMu.Unlock()

	defer func() {
		h.sseClientsMu.Lock()
		delete(h.sseClients, clientID)
		close(messageCh)
		h.sseClientsMu.Unlock()
	}()

	fmt.Fprintf(w, "event: connected\ndata: {\"clientId\":%q}\n\n", clientID)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-messageCh:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// Broadcast sends raw data to all connected SSE clients. Clients whose
// buffers are full are skipped.
func (h *HTTP) Broadcast(data []byte) {
	h.sseClientsMu.RLock()
	defer h.sseClientsMu.RUnlock()

	for _, ch := range h.sseClients {
		select {
		case ch <- data:
		default:
		}
	}
}
