package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/h4z3m/SecuritySystem-Atmega16/internal/audit"
	"github.com/h4z3m/SecuritySystem-Atmega16/internal/infrastructure/config"
	"github.com/h4z3m/SecuritySystem-Atmega16/internal/infrastructure/logging"
	"github.com/h4z3m/SecuritySystem-Atmega16/internal/protocol"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// ModeReader reports a node's current mode. *control.Node and *hmi.Node
// satisfy it.
type ModeReader interface {
	Mode() protocol.Mode
}

// HealthChecker is a component whose health is reported by /health.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config    config.APIConfig
	WS        config.WebSocketConfig
	Logger    *logging.Logger
	LockID    string
	Nodes     map[string]ModeReader    // keyed by role (front, back)
	Checks    map[string]HealthChecker // keyed by component name
	AuditRepo audit.Repository         // optional: /audit answers 503 without it
	Hub       *Hub                     // optional: created by Start if nil
	Version   string
}

// Server is the HTTP API server of the door lock.
type Server struct {
	cfg       config.APIConfig
	wsCfg     config.WebSocketConfig
	logger    *logging.Logger
	lockID    string
	nodes     map[string]ModeReader
	checks    map[string]HealthChecker
	auditRepo audit.Repository
	version   string
	server    *http.Server
	addr      string
	hub       *Hub
	ownHub    bool               // true if Start created the hub
	cancel    context.CancelFunc // cancels background goroutines on Close()
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
//
// Parameters:
//   - deps: Required dependencies (logger and at least one node)
//
// Returns:
//   - *Server: Configured server ready to start
//   - error: If required dependencies are missing
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if len(deps.Nodes) == 0 {
		return nil, fmt.Errorf("at least one node is required")
	}

	return &Server{
		cfg:       deps.Config,
		wsCfg:     deps.WS,
		logger:    deps.Logger,
		lockID:    deps.LockID,
		nodes:     deps.Nodes,
		checks:    deps.Checks,
		auditRepo: deps.AuditRepo,
		version:   deps.Version,
		hub:       deps.Hub,
	}, nil
}

// Hub returns the WebSocket hub, or nil before Start when none was injected.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Start binds the listener and serves in the background until Close.
//
// It starts the WebSocket hub unless one was injected. A bind failure is
// returned; later serve errors are logged.
//
// Parameters:
//   - ctx: Parent context for the hub's lifetime
func (s *Server) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)
	if s.hub == nil {
		s.hub = NewHub(s.wsCfg, s.logger)
		s.ownHub = true
		go s.hub.Run(srvCtx)
	}

	read := time.Duration(s.cfg.Timeouts.Read) * time.Second
	s.server = &http.Server{
		Handler:           s.buildRouter(),
		ReadTimeout:       read,
		ReadHeaderTimeout: read,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}
	s.addr = ln.Addr().String()

	s.logger.Info("API server listening", "address", s.addr)
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server stopped", "error", err)
		}
	}()
	return nil
}

// Addr returns the bound listen address, or "" before Start.
func (s *Server) Addr() string {
	return s.addr
}

// Close stops the hub it owns and waits up to gracefulShutdownTimeout for
// in-flight requests.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}
	return nil
}
