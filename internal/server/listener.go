package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// CallbackServer is the loopback HTTP listener that receives the authorization redirect.
//
// It binds once and stays up for the whole process so retries reuse the same port.
type CallbackServer struct {
	addr     string
	srv      *http.Server
	listener net.Listener
	errs     chan error
	logger   *log.Logger
}

// NewCallbackRouter routes GET /callback to callback and, when staticDir exists, / to its files.
func NewCallbackRouter(callback *CallbackHandler, staticDir string, logger *log.Logger) *BasicRouter {
	router := NewBasicRouter()
	router.Use(RequestLogger(logger))
	router.Handler(callback)

	if staticDir != "" {
		if info, err := os.Stat(staticDir); err == nil && info.IsDir() {
			router.Static("/", staticDir)
		} else {
			logger.Debug("static directory not found, skipping", "dir", staticDir)
		}
	}
	return router
}

// NewCallbackServer creates a [CallbackServer] for addr (host:port). Call [CallbackServer.Start] to bind.
func NewCallbackServer(addr string, handler http.Handler, logger *log.Logger) *CallbackServer {
	return &CallbackServer{
		addr:   addr,
		srv:    &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second},
		errs:   make(chan error, 1),
		logger: logger,
	}
}

// Start binds the listener and serves on a background goroutine.
func (s *CallbackServer) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to bind callback listener on %s: %w", s.addr, err)
	}
	s.listener = ln

	go func() {
		s.logger.Debugf("callback listener serving at %v", ln.Addr())
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.errs <- err
		}
	}()
	return nil
}

// Addr returns the bound address, or the configured one before [CallbackServer.Start].
func (s *CallbackServer) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

// Errors receives a serve failure, if one happens.
func (s *CallbackServer) Errors() <-chan error {
	return s.errs
}

// Close shuts the listener down, waiting up to five seconds for in-flight requests.
func (s *CallbackServer) Close() error {
	if s.listener == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
