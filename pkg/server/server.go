package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/custommcp/mcp-server/pkg/logging"
	"github.com/custommcp/mcp-server/pkg/models"
	"github.com/custommcp/mcp-server/pkg/tools"
	"github.com/custommcp/mcp-server/pkg/transport"
)

// ServerConfig holds configuration options for the server.
type ServerConfig struct {
	ListenAddr        string                // Address to listen on, e.g., ":3000"
	Info              models.Implementation // Identity reported by initialize
	HeartbeatInterval time.Duration         // SSE keepalive interval
	Logger            logging.Logger        // Logger for server messages
}

// DefaultServerConfig provides reasonable default configuration values.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		ListenAddr:        ":3000",
		Info:              models.Implementation{Name: "CustomMCP", Version: "1.0.0"},
		HeartbeatInterval: transport.DefaultHeartbeatInterval,
		Logger:            logging.NoopLogger{},
	}
}

// Server accepts TCP connections and hands each one to its own Session.
// The tool registry is the only state shared across sessions; it is
// populated before Start and read-only afterwards.
type Server struct {
	config     *ServerConfig
	registry   *tools.Registry
	dispatcher *Dispatcher
	logger     logging.Logger

	listener net.Listener
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	mu      sync.Mutex
	started bool
}

// NewServer creates a server serving the given tool registry.
func NewServer(registry *tools.Registry, config *ServerConfig) *Server {
	if config == nil {
		config = DefaultServerConfig()
	}
	logger := config.Logger
	if logger == nil {
		logger = logging.NoopLogger{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		config:     config,
		registry:   registry,
		dispatcher: NewDispatcher(registry, config.Info, logger),
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start binds the listen address and launches the accept loop. It does
// not block; use Stop to shut the server down.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return errors.New("server already started")
	}

	listener, err := net.Listen("tcp", s.config.ListenAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.ListenAddr, err)
	}
	s.listener = listener
	s.started = true

	s.logger.Info("MCP server running",
		"addr", listener.Addr().String(),
		"tools", s.registry.Len())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.acceptLoop()
	}()

	return nil
}

// Addr returns the bound listen address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || s.ctx.Err() != nil {
				return
			}
			s.logger.Error("accept failed", "error", err)
			continue
		}

		session := NewSession(conn, s.dispatcher, s.config.HeartbeatInterval, s.logger)
		s.logger.Debug("connection accepted",
			"session", session.ID(), "remote", conn.RemoteAddr())

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			session.Handle(s.ctx)
		}()
	}
}

// Stop closes the listener and cancels in-flight sessions, waiting up to
// ten seconds for them to drain.
func (s *Server) Stop() error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	listener := s.listener
	s.mu.Unlock()

	s.cancel()
	if err := listener.Close(); err != nil {
		s.logger.Error("error closing listener", "error", err)
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("server shutdown complete")
		return nil
	case <-time.After(10 * time.Second):
		s.logger.Warn("server shutdown timed out")
		return errors.New("server shutdown timed out")
	}
}
