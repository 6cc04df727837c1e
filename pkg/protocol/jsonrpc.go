// Package protocol provides the core JSON-RPC 2.0 types for MCP
package protocol

import "encoding/json"

// Version is the JSON-RPC protocol version carried by every message.
const Version = "2.0"

// Request represents an incoming JSON-RPC request. The ID is kept as raw
// JSON so responses echo it back with the exact type and value the client
// sent (string, number or null).
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response represents a JSON-RPC response. Exactly one of Result and
// Error is set. A nil ID marshals as null, which is what the protocol
// requires when the originating request carried no id.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *ErrorObject    `json:"error,omitempty"`
}

// ErrorObject contains the error details for a JSON-RPC error response
type ErrorObject struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Notification represents a JSON-RPC notification that does not expect a response
type Notification struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

// Standard JSON-RPC 2.0 error codes. ErrInvalidParams and
// ErrInternalError are narrowed in this server to the two tool failure
// kinds: unknown tool name and tool execution failure.
const (
	ErrParseError     = -32700
	ErrInvalidRequest = -32600
	ErrMethodNotFound = -32601
	ErrInvalidParams  = -32602
	ErrInternalError  = -32603
)

// Error message constants
const (
	MsgParseError     = "Parse error"
	MsgInvalidRequest = "Invalid Request"
	MsgMethodNotFound = "Method not found"
)

// NewResponse creates a successful JSON-RPC response echoing the request id.
func NewResponse(id json.RawMessage, result interface{}) *Response {
	return &Response{
		JSONRPC: Version,
		ID:      id,
		Result:  result,
	}
}

// NewErrorResponse creates a JSON-RPC error response echoing the request
// id, or carrying a null id when the request had none.
func NewErrorResponse(id json.RawMessage, code int, message string) *Response {
	return &Response{
		JSONRPC: Version,
		ID:      id,
		Error: &ErrorObject{
			Code:    code,
			Message: message,
		},
	}
}

// NewNotification creates a new JSON-RPC notification
func NewNotification(method string, params interface{}) *Notification {
	return &Notification{
		JSONRPC: Version,
		Method:  method,
		Params:  params,
	}
}
