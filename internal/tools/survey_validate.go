package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// ValidateSurveyTool handles the survey_validate MCP tool.
// It normalizes edited survey JSON so the caller sees what will be stored.
type ValidateSurveyTool struct{}

// NewValidateSurveyTool creates a ValidateSurveyTool.
func NewValidateSurveyTool() *ValidateSurveyTool {
	return &ValidateSurveyTool{}
}

// Definition returns the MCP tool definition for registration.
func (t *ValidateSurveyTool) Definition() mcp.Tool {
	return mcp.NewTool("survey_validate",
		mcp.WithDescription(
			"Normalize survey JSON: fills missing metadata, assigns question ids, "+
				"coerces unknown question types to open-ended and pads or trims choice options "+
				"to 3-6 entries. Returns the repaired survey.",
		),
		mcp.WithString("survey_json",
			mcp.Required(),
			mcp.Description("Survey JSON object (may be wrapped in prose or a ```json block)"),
		),
	)
}

// Handle processes the survey_validate tool call.
func (t *ValidateSurveyTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s, err := surveyArg(req, "survey_json")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid survey: %v", err)), nil
	}

	doc, err := jsonBlock(s)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"# Normalized Survey\n\n%s\n\n%s", textBlock(s), doc,
	)), nil
}
