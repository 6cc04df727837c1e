// Package mcpserver implements a minimal server for the Model Context
// Protocol (MCP): JSON-RPC 2.0 transported over raw HTTP/1.1 on plain
// TCP, plus an optional long-lived Server-Sent-Events channel.
//
// # Architecture
//
// The module is organized into small packages that mirror the protocol
// layers:
//
//	pkg/protocol/  - JSON-RPC 2.0 message types and reserved error codes
//	pkg/models/    - MCP data model (server identity, tool schemas, content)
//	pkg/tools/     - Tool capability interface, registry and built-in echo tool
//	pkg/transport/ - HTTP request framing over raw byte streams and SSE
//	pkg/server/    - Dispatcher, per-connection Session and accept loop
//	pkg/config/    - Defaults plus optional YAML configuration
//	pkg/logging/   - Structured logging facade
//
// Each accepted connection is handled by its own Session goroutine which
// frames exactly one HTTP request, then either answers a single JSON-RPC
// message (POST), opens a keepalive-driven SSE stream (GET), or answers a
// CORS preflight (OPTIONS). The protocol surface understood by the
// dispatcher is initialize, tools/list and tools/call.
//
// # Server usage
//
//	logger := logging.New(logging.InfoLevel)
//	registry := tools.NewRegistry(logger)
//	registry.Register(tools.NewEchoTool())
//
//	srv := server.NewServer(registry, &server.ServerConfig{
//		ListenAddr: ":3000",
//		Info:       models.Implementation{Name: "CustomMCP", Version: "1.0.0"},
//		Logger:     logger,
//	})
//	if err := srv.Start(); err != nil {
//		// handle startup failure
//	}
//
// Custom tools implement the tools.Tool interface: a name, a description,
// a declared parameter list (surfaced verbatim through tools/list), and
// an Execute function from arguments to a CallToolResult.
package mcpserver
