// Package tools defines the tool capability interface and the registry
// consulted by the JSON-RPC dispatcher for tools/list and tools/call.
package tools

import (
	"github.com/custommcp/mcp-server/pkg/models"
)

// Parameter describes one entry in a tool's input schema.
type Parameter struct {
	Name        string
	Type        string
	Description string
	Required    bool
}

// Tool is the capability interface every callable tool implements.
// Required parameters are advisory, surfaced through the schema only;
// Execute must cope with missing arguments itself.
type Tool interface {
	Name() string
	Description() string
	Parameters() []Parameter
	Execute(arguments map[string]interface{}) (*models.CallToolResult, error)
}

// Schema derives the tools/list entry for a tool from its declared
// parameters.
func Schema(t Tool) models.Tool {
	properties := make(map[string]models.PropertyDetail)
	required := make([]string, 0)

	for _, p := range t.Parameters() {
		properties[p.Name] = models.PropertyDetail{
			Type:        p.Type,
			Description: p.Description,
		}
		if p.Required {
			required = append(required, p.Name)
		}
	}

	return models.Tool{
		Name:        t.Name(),
		Description: t.Description(),
		InputSchema: models.ToolInputSchema{
			Type:       "object",
			Properties: properties,
			Required:   required,
		},
	}
}

// NewTextResult wraps plain text in a CallToolResult.
func NewTextResult(text string) *models.CallToolResult {
	return &models.CallToolResult{
		Content: []models.Content{models.NewTextContent(text)},
	}
}

// NewErrorResult wraps an error message in a CallToolResult flagged as an
// error. Tool-level failures reported this way are distinct from protocol
// errors: the JSON-RPC call itself still succeeds.
func NewErrorResult(message string) *models.CallToolResult {
	return &models.CallToolResult{
		Content: []models.Content{models.NewTextContent("Error: " + message)},
		IsError: true,
	}
}
