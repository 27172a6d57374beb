// Package server owns the listener and lifecycle of the todo API HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const startupGrace = 100 * time.Millisecond

// Server serves an http.Handler on a TCP address.
type Server struct {
	httpServer *http.Server

	mu       sync.Mutex
	listener net.Listener

	addr string
	log  zerolog.Logger
}

// New creates a Server for handler. addr may use port 0 to pick a free port.
func New(handler http.Handler, addr string, log zerolog.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		addr: addr,
		log:  log,
	}
}

// Start binds the listener and serves in the background. Errors that occur
// while the server is coming up are returned to the caller.
func (s *Server) Start(ctx context.Context) error {
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	s.log.Info().Str("addr", listener.Addr().String()).Msg("starting todo api server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("todo api server stopped")
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server failed to start: %w", err)
	case <-time.After(startupGrace):
		return nil
	}
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("shutting down todo api server")
	return s.httpServer.Shutdown(ctx)
}

// Run starts the server and blocks until ctx is cancelled, then shuts down
// allowing in-flight requests up to timeout to finish.
func (s *Server) Run(ctx context.Context, timeout time.Duration) error {
	if err := s.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
