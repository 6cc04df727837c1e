package tools

import "github.com/custommcp/mcp-server/pkg/models"

// EchoTool echoes back the input text. It is the built-in reference tool.
type EchoTool struct{}

// NewEchoTool creates a new echo tool.
func NewEchoTool() *EchoTool {
	return &EchoTool{}
}

func (e *EchoTool) Name() string {
	return "echo"
}

func (e *EchoTool) Description() string {
	return "Echoes back the input text"
}

func (e *EchoTool) Parameters() []Parameter {
	return []Parameter{
		{Name: "text", Type: "string", Description: "Text to echo back", Required: true},
	}
}

// Execute returns "Echo: " plus the text argument. A missing or non-string
// text argument is treated as the empty string rather than an error.
func (e *EchoTool) Execute(arguments map[string]interface{}) (*models.CallToolResult, error) {
	text, _ := arguments["text"].(string)
	return NewTextResult("Echo: " + text), nil
}
