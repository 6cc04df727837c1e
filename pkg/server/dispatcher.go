// Package server implements the MCP protocol session engine: the
// JSON-RPC dispatcher, the per-connection session, and the accepting
// server.
package server

import (
	"encoding/json"
	"fmt"

	"github.com/custommcp/mcp-server/pkg/logging"
	"github.com/custommcp/mcp-server/pkg/models"
	"github.com/custommcp/mcp-server/pkg/protocol"
	"github.com/custommcp/mcp-server/pkg/tools"
)

// Dispatcher decodes JSON-RPC request bodies and routes them to the
// protocol operations. Every failure is turned into a well-formed
// JSON-RPC error response; Dispatch never returns nil.
type Dispatcher struct {
	registry *tools.Registry
	info     models.Implementation
	logger   logging.Logger
}

// NewDispatcher creates a dispatcher backed by the given tool registry.
func NewDispatcher(registry *tools.Registry, info models.Implementation, logger logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.NoopLogger{}
	}
	return &Dispatcher{
		registry: registry,
		info:     info,
		logger:   logger,
	}
}

// Dispatch handles one raw JSON-RPC request body and produces the
// response to write back.
func (d *Dispatcher) Dispatch(body []byte) *protocol.Response {
	var req protocol.Request
	if err := json.Unmarshal(body, &req); err != nil {
		if !json.Valid(body) {
			// Could not parse far enough to recover an id.
			return protocol.NewErrorResponse(nil, protocol.ErrParseError, protocol.MsgParseError)
		}
		// Valid JSON that is not a request object (e.g. an array).
		return protocol.NewErrorResponse(nil, protocol.ErrInvalidRequest, protocol.MsgInvalidRequest)
	}
	if req.Method == "" {
		return protocol.NewErrorResponse(req.ID, protocol.ErrInvalidRequest, protocol.MsgInvalidRequest)
	}

	d.logger.Debug("dispatching request", "method", req.Method, "id", string(req.ID))

	switch req.Method {
	case "initialize":
		return d.handleInitialize(&req)
	case "tools/list":
		return d.handleListTools(&req)
	case "tools/call":
		return d.handleCallTool(&req)
	default:
		return protocol.NewErrorResponse(req.ID, protocol.ErrMethodNotFound, protocol.MsgMethodNotFound)
	}
}

func (d *Dispatcher) handleInitialize(req *protocol.Request) *protocol.Response {
	result := models.InitializeResult{
		ProtocolVersion: models.ProtocolVersion,
		ServerInfo:      d.info,
		Capabilities: models.ServerCapabilities{
			Tools: &models.ToolsCapability{},
		},
	}
	return protocol.NewResponse(req.ID, result)
}

func (d *Dispatcher) handleListTools(req *protocol.Request) *protocol.Response {
	result := models.ListToolsResult{
		Tools: d.registry.Schemas(),
	}
	return protocol.NewResponse(req.ID, result)
}

func (d *Dispatcher) handleCallTool(req *protocol.Request) (resp *protocol.Response) {
	var params struct {
		Name      string                 `json:"name"`
		Arguments map[string]interface{} `json:"arguments"`
	}
	if len(req.Params) > 0 {
		// A malformed params object leaves the name empty and falls into
		// the unknown-tool path below.
		_ = json.Unmarshal(req.Params, &params)
	}

	tool, ok := d.registry.Get(params.Name)
	if !ok {
		return protocol.NewErrorResponse(req.ID, protocol.ErrInvalidParams,
			"Unknown tool: "+params.Name)
	}

	// A panicking tool must not take the session down with it.
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("tool panicked", "tool", params.Name, "panic", r)
			resp = protocol.NewErrorResponse(req.ID, protocol.ErrInternalError,
				fmt.Sprintf("Tool execution error: %v", r))
		}
	}()

	result, err := tool.Execute(params.Arguments)
	if err != nil {
		return protocol.NewErrorResponse(req.ID, protocol.ErrInternalError,
			"Tool execution error: "+err.Error())
	}
	return protocol.NewResponse(req.ID, result)
}
