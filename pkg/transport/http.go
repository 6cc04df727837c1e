// Package transport implements the wire layer for the server: HTTP/1.1
// request framing over a raw byte stream, plain HTTP responses, and the
// long-lived SSE stream.
package transport

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// MessageEndpoint is the path clients POST JSON-RPC messages to. It is
// announced to SSE clients in the handshake event.
const MessageEndpoint = "/message"

// SSEEndpoint is the dedicated path for opening an SSE stream. The root
// path serves the same purpose on GET.
const SSEEndpoint = "/sse"

// Request holds one framed HTTP request. Header keys are lowercased for
// case-insensitive lookup.
type Request struct {
	Method string
	Path   string
	Proto  string
	Header map[string]string
}

// ReadRequest frames one HTTP request from the stream: the request line,
// then header lines up to and including the blank line. Header lines
// without a colon are silently skipped. The body, if any, is left in the
// reader for ReadBody.
func ReadRequest(r *bufio.Reader) (*Request, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read request line: %w", err)
	}

	fields := strings.Fields(strings.TrimRight(line, "\r\n"))
	if len(fields) < 2 {
		return nil, fmt.Errorf("malformed request line: %q", strings.TrimRight(line, "\r\n"))
	}
	req := &Request{
		Method: fields[0],
		Path:   fields[1],
		Header: make(map[string]string),
	}
	if len(fields) > 2 {
		req.Proto = fields[2]
	}

	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("failed to read header line: %w", err)
		}
		line = strings.TrimSuffix(line, "\n")
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			break
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		req.Header[strings.ToLower(key)] = strings.TrimLeft(value, " \t")
	}

	return req, nil
}

// ContentLength returns the parsed content-length header. The second
// return value is false when the header is absent or not a number.
func (req *Request) ContentLength() (int, bool) {
	v, ok := req.Header["content-length"]
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// ReadBody consumes exactly length body bytes. The bufio reader already
// holds any body bytes pulled in alongside the header block, so those are
// drained before the underlying connection is read again.
func ReadBody(r *bufio.Reader, length int) ([]byte, error) {
	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	return body, nil
}

// corsHeaders is the fixed header set carried on every JSON and preflight
// response.
const corsHeaders = "Access-Control-Allow-Origin: *\r\n" +
	"Access-Control-Allow-Methods: POST, OPTIONS\r\n" +
	"Access-Control-Allow-Headers: Content-Type\r\n"

// WriteJSONResponse writes a 200 response carrying the marshaled JSON-RPC
// payload, with the CORS header set and Connection: close.
func WriteJSONResponse(w io.Writer, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	var b strings.Builder
	b.WriteString("HTTP/1.1 200 OK\r\n")
	b.WriteString("Content-Type: application/json\r\n")
	b.WriteString("Content-Length: " + strconv.Itoa(len(body)) + "\r\n")
	b.WriteString(corsHeaders)
	b.WriteString("Connection: close\r\n")
	b.WriteString("\r\n")
	b.Write(body)

	_, err = io.WriteString(w, b.String())
	return err
}

// WritePreflight answers a CORS preflight with 204 and no body.
func WritePreflight(w io.Writer) error {
	_, err := io.WriteString(w, "HTTP/1.1 204 No Content\r\n"+
		corsHeaders+
		"Connection: close\r\n"+
		"\r\n")
	return err
}

// WriteBadRequest writes an empty 400 response.
func WriteBadRequest(w io.Writer) error {
	return writeEmpty(w, "400 Bad Request")
}

// WriteNotFound writes an empty 404 response.
func WriteNotFound(w io.Writer) error {
	return writeEmpty(w, "404 Not Found")
}

func writeEmpty(w io.Writer, status string) error {
	_, err := io.WriteString(w, "HTTP/1.1 "+status+"\r\n"+
		"Content-Length: 0\r\n"+
		"Connection: close\r\n"+
		"\r\n")
	return err
}
