package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/haukened/condvis/internal/visibility/common/log"
)

const (
	defaultReadHeaderTimeout = 10 * time.Second
	defaultShutdownTimeout   = 10 * time.Second
)

// HTTPTransport implements ServerTransport over a plain HTTP listener.
type HTTPTransport struct {
	addr   string
	logger log.Logger

	mu       sync.RWMutex
	running  bool
	listener net.Listener
	server   *http.Server
	done     chan struct{}
}

// NewHTTPTransport creates a new HTTP transport instance.
func NewHTTPTransport(addr string, logger log.Logger) *HTTPTransport {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &HTTPTransport{addr: addr, logger: logger}
}

// Start binds the listener and serves in the background. Bind errors are
// returned synchronously. Cancelling ctx stops the transport.
func (t *HTTPTransport) Start(ctx context.Context, handler http.Handler) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return fmt.Errorf("HTTP transport already running")
	}

	ln, err := net.Listen("tcp", t.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", t.addr, err)
	}

	t.listener = ln
	t.server = &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
	}
	t.done = make(chan struct{})
	t.running = true

	t.logger.Info(map[string]any{
		"transport": "http",
		"address":   ln.Addr().String(),
	}, "HTTP transport started")

	go t.serve(t.server, ln, t.done)
	go func(done chan struct{}) {
		select {
		case <-ctx.Done():
			t.logger.Debug(nil, "HTTP transport stopping due to context cancellation")
			if err := t.Stop(); err != nil {
				t.logger.Warn(map[string]any{"error": err}, "Error stopping HTTP transport")
			}
		case <-done:
		}
	}(t.done)

	return nil
}

func (t *HTTPTransport) serve(srv *http.Server, ln net.Listener, done chan struct{}) {
	defer close(done)
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		t.logger.Error(map[string]any{"error": err}, "HTTP server failed")
	}
}

// Stop gracefully shuts down the transport, waiting for in-flight requests.
func (t *HTTPTransport) Stop() error {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return nil
	}
	srv, done := t.server, t.done
	t.running = false
	t.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()

	err := srv.Shutdown(ctx)
	<-done

	t.logger.Info(map[string]any{
		"transport": "http",
		"address":   t.Address(),
	}, "HTTP transport stopped")

	return err
}

// Address returns the bound address once started, else the configured one.
func (t *HTTPTransport) Address() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.listener != nil {
		return t.listener.Addr().String()
	}
	return t.addr
}

var _ ServerTransport = (*HTTPTransport)(nil)
