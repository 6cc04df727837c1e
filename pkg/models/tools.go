package models

// Tool describes a callable tool as surfaced by tools/list.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema ToolInputSchema `json:"inputSchema"`
}

// ToolInputSchema is the JSON-schema object describing a tool's arguments.
type ToolInputSchema struct {
	Type       string                    `json:"type"`
	Properties map[string]PropertyDetail `json:"properties"`
	Required   []string                  `json:"required"`
}

// PropertyDetail describes one property within a tool input schema.
type PropertyDetail struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Content represents the base interface for all content types
type Content interface {
	ContentType() string
}

// TextContent represents text returned from a tool invocation.
type TextContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func (t TextContent) ContentType() string {
	return "text"
}

// NewTextContent creates a TextContent with the type discriminator set.
func NewTextContent(text string) TextContent {
	return TextContent{Type: "text", Text: text}
}

// CallToolResult is the result payload for tools/call.
type CallToolResult struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

// ListToolsResult is the result payload for tools/list.
type ListToolsResult struct {
	Tools []Tool `json:"tools"`
}
