package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custommcp/mcp-server/pkg/logging"
	"github.com/custommcp/mcp-server/pkg/models"
	"github.com/custommcp/mcp-server/pkg/tools"
)

// startSession wires a session over an in-memory pipe and returns the
// client end. The session goroutine closes its end when the exchange is
// over, which surfaces as EOF on the client side.
func startSession(t *testing.T) net.Conn {
	t.Helper()

	registry := tools.NewRegistry(logging.NoopLogger{})
	registry.Register(tools.NewEchoTool())
	dispatcher := NewDispatcher(registry,
		models.Implementation{Name: "CustomMCP", Version: "1.0.0"}, logging.NoopLogger{})

	serverEnd, clientEnd := net.Pipe()
	session := NewSession(serverEnd, dispatcher, 20*time.Millisecond, logging.NoopLogger{})
	go session.Handle(context.Background())

	t.Cleanup(func() { clientEnd.Close() })
	return clientEnd
}

func postMessage(t *testing.T, client net.Conn, path, body string) string {
	t.Helper()
	request := fmt.Sprintf("POST %s HTTP/1.1\r\nContent-Length: %d\r\n\r\n%s",
		path, len(body), body)
	_, err := io.WriteString(client, request)
	require.NoError(t, err)

	response, err := io.ReadAll(client)
	require.NoError(t, err)
	return string(response)
}

// jsonBody extracts and decodes the JSON payload of an HTTP response.
func jsonBody(t *testing.T, response string) map[string]interface{} {
	t.Helper()
	_, body, found := strings.Cut(response, "\r\n\r\n")
	require.True(t, found, "response has no header/body separator: %q", response)
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &m))
	return m
}

func TestSessionPostDispatchesMessage(t *testing.T) {
	client := startSession(t)
	body := `{"jsonrpc":"2.0","id":1,"method":"tools/call",` +
		`"params":{"name":"echo","arguments":{"text":"hi"}}}`
	response := postMessage(t, client, "/message", body)

	assert.True(t, strings.HasPrefix(response, "HTTP/1.1 200 OK\r\n"))
	assert.Contains(t, response, "Content-Type: application/json\r\n")
	assert.Contains(t, response, "Connection: close\r\n")

	m := jsonBody(t, response)
	result := m["result"].(map[string]interface{})
	content := result["content"].([]interface{})
	first := content[0].(map[string]interface{})
	assert.Equal(t, "Echo: hi", first["text"])
}

func TestSessionPostToRootPath(t *testing.T) {
	client := startSession(t)
	response := postMessage(t, client, "/", `{"jsonrpc":"2.0","id":2,"method":"initialize"}`)

	m := jsonBody(t, response)
	result := m["result"].(map[string]interface{})
	assert.Equal(t, "2024-11-05", result["protocolVersion"])
}

func TestSessionPostInvalidJSON(t *testing.T) {
	client := startSession(t)
	response := postMessage(t, client, "/message", `{{{{`)

	m := jsonBody(t, response)
	errObj := m["error"].(map[string]interface{})
	assert.Equal(t, float64(-32700), errObj["code"])
	id, present := m["id"]
	assert.True(t, present)
	assert.Nil(t, id)
}

func TestSessionPostWithoutContentLength(t *testing.T) {
	client := startSession(t)
	_, err := io.WriteString(client, "POST /message HTTP/1.1\r\n\r\n")
	require.NoError(t, err)

	response, err := io.ReadAll(client)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(response), "HTTP/1.1 400 Bad Request\r\n"),
		"got: %q", response)
}

func TestSessionBodySplitAcrossWrites(t *testing.T) {
	client := startSession(t)
	body := `{"jsonrpc":"2.0","id":3,"method":"tools/list"}`
	head := fmt.Sprintf("POST /message HTTP/1.1\r\nContent-Length: %d\r\n\r\n", len(body))

	// Headers plus a body prefix in the first segment; the session must
	// consume the buffered prefix, then wait for the remainder.
	_, err := io.WriteString(client, head+body[:10])
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)
	_, err = io.WriteString(client, body[10:])
	require.NoError(t, err)

	response, err := io.ReadAll(client)
	require.NoError(t, err)
	m := jsonBody(t, string(response))
	result := m["result"].(map[string]interface{})
	assert.Len(t, result["tools"], 1)
	assert.Equal(t, float64(3), m["id"])
}

func TestSessionNotFoundRouting(t *testing.T) {
	cases := []struct {
		name    string
		request string
	}{
		{"GET unknown path", "GET /metrics HTTP/1.1\r\n\r\n"},
		{"POST unknown path", "POST /rpc HTTP/1.1\r\nContent-Length: 2\r\n\r\n{}"},
		{"unsupported verb", "DELETE / HTTP/1.1\r\n\r\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := startSession(t)
			_, err := io.WriteString(client, tc.request)
			require.NoError(t, err)
			response, err := io.ReadAll(client)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(string(response), "HTTP/1.1 404 Not Found\r\n"),
				"got: %q", response)
		})
	}
}

func TestSessionOptionsPreflight(t *testing.T) {
	client := startSession(t)
	_, err := io.WriteString(client, "OPTIONS /message HTTP/1.1\r\n\r\n")
	require.NoError(t, err)

	response, err := io.ReadAll(client)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(response), "HTTP/1.1 204 No Content\r\n"))
	assert.Contains(t, string(response), "Access-Control-Allow-Methods: POST, OPTIONS\r\n")
}

func TestSessionSSEStream(t *testing.T) {
	client := startSession(t)
	_, err := io.WriteString(client, "GET /sse HTTP/1.1\r\n\r\n")
	require.NoError(t, err)

	reader := bufio.NewReader(client)

	statusLine, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "HTTP/1.1 200 OK\r\n", statusLine)

	// Drain headers.
	sawEventStream := false
	for {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if line == "Content-Type: text/event-stream\r\n" {
			sawEventStream = true
		}
		if line == "\r\n" {
			break
		}
	}
	assert.True(t, sawEventStream, "missing text/event-stream content type")

	// First event: the endpoint notification.
	dataLine, err := reader.ReadString('\n')
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(dataLine, "data: "), "got: %q", dataLine)

	var notification struct {
		Method string `json:"method"`
		Params struct {
			Endpoint string `json:"endpoint"`
		} `json:"params"`
	}
	payload := strings.TrimPrefix(strings.TrimSpace(dataLine), "data: ")
	require.NoError(t, json.Unmarshal([]byte(payload), &notification))
	assert.Equal(t, "endpoint", notification.Method)
	assert.Equal(t, "/message", notification.Params.Endpoint)

	blank, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "\n", blank, "event must end with a blank line")

	// The stream stays open and emits keepalive comments.
	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	keepalive, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, ": keepalive\n", keepalive)
}

func TestSessionGetRootOpensSSE(t *testing.T) {
	client := startSession(t)
	_, err := io.WriteString(client, "GET / HTTP/1.1\r\n\r\n")
	require.NoError(t, err)

	reader := bufio.NewReader(client)
	statusLine, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "HTTP/1.1 200 OK\r\n", statusLine)
}
