package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

// instructions is sent to clients during initialisation.
const instructions = `HireSense serves passages from an indexed set of textbooks.
Use search to ground an interview question in a topic, sample_random for an
unscripted question, and interview_context for the joined context and its
sources. Every passage carries the book it came from.`

// shutdownTimeout bounds how long in-flight HTTP requests may finish once
// the server is stopped.
const shutdownTimeout = 5 * time.Second

// Background is a task that runs alongside the server until its context
// ends, such as the artifact watcher that reloads the index after a build.
type Background interface {
	Run(ctx context.Context) error
}

// Server answers MCP clients from the textbook index held by the
// retrieval service. The index is loaded lazily on the first call, and an
// attached watcher swaps in a rebuilt index without restarting the server.
type Server struct {
	ports   *Ports
	server  *mcp.Server
	watcher Background
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithWatcher attaches a task that keeps the served index current. It is
// started by Run and RunHTTP and stopped with them.
func WithWatcher(w Background) ServerOption {
	return func(s *Server) {
		s.watcher = w
	}
}

// NewServer creates the HireSense MCP server. Tools and resources that need
// the optional interview or evaluation ports are only registered when those
// ports are set.
func NewServer(ports *Ports, opts ...ServerOption) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	impl := &mcp.Implementation{
		Name:    "hiresense",
		Version: Version,
	}

	s := &Server{
		ports:  ports,
		server: mcp.NewServer(impl, &mcp.ServerOptions{Instructions: instructions}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run serves the index to a single client over stdio, which is how agent
// hosts launch `hiresense mcp serve`. It returns when the client hangs up
// or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := s.startWatcher(ctx)
	defer stop()

	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves the index over streamable HTTP on addr so several
// interview agents can share one loaded index. Cancelling ctx drains
// in-flight requests and returns nil.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	ctx, stop := s.startWatcher(ctx)
	defer stop()

	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("MCP HTTP shutdown: %v", err)
		}
	}()

	logger.Debug("MCP server listening on %s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// startWatcher runs the attached watcher until the returned stop is called.
// A watcher failure is logged; the server keeps answering from the index
// it already holds.
func (s *Server) startWatcher(ctx context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)
	if s.watcher == nil {
		return ctx, cancel
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := s.watcher.Run(ctx); err != nil {
			logger.Warn("artifact watcher stopped: %v", err)
		}
	}()

	return ctx, func() {
		cancel()
		<-done
	}
}
