package server

import (
	"bufio"
	"context"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/custommcp/mcp-server/pkg/logging"
	"github.com/custommcp/mcp-server/pkg/transport"
)

// Session owns one accepted connection for the lifetime of one logical
// exchange: a single request/response, or one SSE stream. It frames the
// request, routes it by method and path, and closes the connection when
// the exchange is over.
type Session struct {
	id         string
	conn       net.Conn
	reader     *bufio.Reader
	dispatcher *Dispatcher
	heartbeat  time.Duration
	logger     logging.Logger
}

// NewSession creates a session for an accepted connection.
func NewSession(conn net.Conn, dispatcher *Dispatcher, heartbeat time.Duration, logger logging.Logger) *Session {
	if logger == nil {
		logger = logging.NoopLogger{}
	}
	return &Session{
		id:         uuid.NewString(),
		conn:       conn,
		reader:     bufio.NewReader(conn),
		dispatcher: dispatcher,
		heartbeat:  heartbeat,
		logger:     logger,
	}
}

// ID returns the session's unique identifier, used for log correlation.
func (s *Session) ID() string {
	return s.id
}

// Handle runs the session to completion. It never returns an error: every
// failure path answers the client where possible and closes the
// connection.
func (s *Session) Handle(ctx context.Context) {
	defer s.conn.Close()

	req, err := transport.ReadRequest(s.reader)
	if err != nil {
		s.logger.Debug("failed to frame request", "session", s.id, "error", err)
		return
	}

	s.logger.Info("request", "session", s.id, "method", req.Method, "path", req.Path,
		"remote", s.conn.RemoteAddr())

	switch req.Method {
	case "GET":
		if req.Path == "/" || req.Path == transport.SSEEndpoint {
			s.serveSSE(ctx)
			return
		}
		s.writeNotFound()
	case "POST":
		if req.Path == "/" || req.Path == transport.MessageEndpoint {
			s.serveMessage(req)
			return
		}
		s.writeNotFound()
	case "OPTIONS":
		if err := transport.WritePreflight(s.conn); err != nil {
			s.logger.Debug("failed to write preflight response", "session", s.id, "error", err)
		}
	default:
		s.writeNotFound()
	}
}

// serveMessage reads the JSON-RPC body and writes the dispatcher's
// response. A POST without a Content-Length header is rejected with a 400
// before any body read is attempted.
func (s *Session) serveMessage(req *transport.Request) {
	length, ok := req.ContentLength()
	if !ok {
		s.logger.Warn("POST without content-length", "session", s.id, "path", req.Path)
		if err := transport.WriteBadRequest(s.conn); err != nil {
			s.logger.Debug("failed to write 400", "session", s.id, "error", err)
		}
		return
	}

	body, err := transport.ReadBody(s.reader, length)
	if err != nil {
		s.logger.Debug("failed to read body", "session", s.id, "error", err)
		return
	}

	resp := s.dispatcher.Dispatch(body)
	if err := transport.WriteJSONResponse(s.conn, resp); err != nil {
		// Peer gone; nothing to retry.
		s.logger.Debug("failed to write response", "session", s.id, "error", err)
	}
}

// serveSSE upgrades the connection to a long-lived event stream. The
// stream persists until the peer disconnects, a write fails, or the
// server shuts down.
func (s *Session) serveSSE(ctx context.Context) {
	stream := transport.NewSSEStream(s.conn, s.heartbeat, s.logger)
	if err := stream.Handshake(); err != nil {
		s.logger.Debug("SSE handshake failed", "session", s.id, "error", err)
		return
	}
	s.logger.Info("SSE stream established", "session", s.id)
	stream.Serve(ctx)
}

func (s *Session) writeNotFound() {
	if err := transport.WriteNotFound(s.conn); err != nil {
		s.logger.Debug("failed to write 404", "session", s.id, "error", err)
	}
}
