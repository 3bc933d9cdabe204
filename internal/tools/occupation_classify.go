package tools

import (
	"context"
	"fmt"

	"github.com/dpulseai/Mospi/internal/classify"
	"github.com/mark3labs/mcp-go/mcp"
)

// ClassifyTool handles the occupation_classify MCP tool.
type ClassifyTool struct{}

// NewClassifyTool creates a ClassifyTool.
func NewClassifyTool() *ClassifyTool {
	return &ClassifyTool{}
}

// Definition returns the MCP tool definition for registration.
func (t *ClassifyTool) Definition() mcp.Tool {
	return mcp.NewTool("occupation_classify",
		mcp.WithDescription("Map a free-text occupation to its NCO category and code."),
		mcp.WithString("occupation",
			mcp.Required(),
			mcp.Description("Occupation as the respondent described it"),
		),
	)
}

// Handle processes the occupation_classify tool call.
func (t *ClassifyTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	r := classify.Occupation(req.GetString("occupation", ""))
	return mcp.NewToolResultText(fmt.Sprintf(
		"**Category:** %s\n**NCO Code:** %s\n**Confidence:** %.0f%%",
		r.Category, r.Code, r.Confidence*100,
	)), nil
}
