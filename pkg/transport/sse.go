package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/custommcp/mcp-server/pkg/logging"
	"github.com/custommcp/mcp-server/pkg/protocol"
)

// DefaultHeartbeatInterval is how often an idle SSE stream emits a
// keepalive comment.
const DefaultHeartbeatInterval = 30 * time.Second

// endpointParams is the payload of the endpoint notification sent as the
// first SSE event, telling the client where to POST JSON-RPC messages.
type endpointParams struct {
	Endpoint string `json:"endpoint"`
}

// SSEStream turns an accepted GET connection into a one-way event stream.
// Lifecycle: Handshake writes the response headers and the endpoint
// notification; Serve then emits periodic keepalives until a write fails
// or the context is cancelled. There is no unsubscribe protocol; closing
// the socket is the only cancellation mechanism.
type SSEStream struct {
	w        io.Writer
	interval time.Duration
	logger   logging.Logger
}

// NewSSEStream creates an SSE stream over w. A non-positive interval
// falls back to DefaultHeartbeatInterval.
func NewSSEStream(w io.Writer, interval time.Duration, logger logging.Logger) *SSEStream {
	if interval <= 0 {
		interval = DefaultHeartbeatInterval
	}
	if logger == nil {
		logger = logging.NoopLogger{}
	}
	return &SSEStream{
		w:        w,
		interval: interval,
		logger:   logger,
	}
}

// Handshake writes the text/event-stream response headers followed by the
// endpoint notification framed as a single data: line.
func (s *SSEStream) Handshake() error {
	notification := protocol.NewNotification("endpoint", endpointParams{
		Endpoint: MessageEndpoint,
	})
	data, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal endpoint notification: %w", err)
	}

	_, err = fmt.Fprintf(s.w, "HTTP/1.1 200 OK\r\n"+
		"Content-Type: text/event-stream\r\n"+
		"Cache-Control: no-cache\r\n"+
		"Connection: keep-alive\r\n"+
		"Access-Control-Allow-Origin: *\r\n"+
		"\r\n"+
		"data: %s\n\n", data)
	if err != nil {
		return fmt.Errorf("failed to write SSE handshake: %w", err)
	}
	return nil
}

// Serve emits a keepalive comment every heartbeat interval. It returns
// when a write fails (peer gone) or the context is cancelled; the caller
// owns closing the connection.
func (s *SSEStream) Serve(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := io.WriteString(s.w, ": keepalive\n\n"); err != nil {
				s.logger.Debug("SSE keepalive write failed, closing stream", "error", err)
				return
			}
		}
	}
}
