package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/dpulseai/Mospi/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
)

// DeleteTool handles the survey_delete MCP tool.
type DeleteTool struct {
	store *store.Store
}

// NewDeleteTool creates a DeleteTool.
func NewDeleteTool(s *store.Store) *DeleteTool {
	return &DeleteTool{store: s}
}

// Definition returns the MCP tool definition for registration.
func (t *DeleteTool) Definition() mcp.Tool {
	return mcp.NewTool("survey_delete",
		mcp.WithDescription(
			"Delete a published survey and all of its responses. "+
				"Exported files in the output folder are kept.",
		),
		mcp.WithString("survey_id",
			mcp.Required(),
			mcp.Description("Survey id to delete"),
		),
	)
}

// Handle processes the survey_delete tool call.
func (t *DeleteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("survey_id", "")
	if err := t.store.DeleteSurvey(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("Survey %q not found", id)), nil
		}
		return nil, fmt.Errorf("deleting survey: %w", err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Survey `%s` deleted with its responses.", id)), nil
}
