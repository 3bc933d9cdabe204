package tools

import (
	"context"
	"fmt"

	"github.com/dpulseai/Mospi/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
)

// StatsTool handles the responses_stats MCP tool.
type StatsTool struct {
	store *store.Store
}

// NewStatsTool creates a StatsTool.
func NewStatsTool(s *store.Store) *StatsTool {
	return &StatsTool{store: s}
}

// Definition returns the MCP tool definition for registration.
func (t *StatsTool) Definition() mcp.Tool {
	return mcp.NewTool("responses_stats",
		mcp.WithDescription(
			"Response analytics: count, average quality, share of high-quality responses "+
				"and average completion time, for one survey or all surveys.",
		),
		mcp.WithString("survey_id",
			mcp.Description("Survey id. If omitted, aggregates all surveys."),
		),
	)
}

// Handle processes the responses_stats tool call.
func (t *StatsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("survey_id", "")
	stats, err := t.store.ResponseStats(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get stats: %v", err)), nil
	}

	scope := "All surveys"
	if id != "" {
		scope = fmt.Sprintf("Survey `%s`", id)
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"## Response Statistics\n\n"+
			"- **Scope**: %s\n"+
			"- **Responses**: %d\n"+
			"- **Average Quality**: %.1f%%\n"+
			"- **High Quality (>= %.0f%%)**: %.1f%%\n"+
			"- **Average Time**: %.1fs\n",
		scope, stats.Responses, stats.AvgQuality*100,
		store.HighQualityThreshold*100, stats.HighQualityRate*100, stats.AvgDuration,
	)), nil
}
