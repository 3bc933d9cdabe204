package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/dpulseai/Mospi/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
)

// ListTool handles the survey_list MCP tool.
type ListTool struct {
	store *store.Store
	docs  *store.DocumentStore
}

// NewListTool creates a ListTool.
func NewListTool(s *store.Store, docs *store.DocumentStore) *ListTool {
	return &ListTool{store: s, docs: docs}
}

// Definition returns the MCP tool definition for registration.
func (t *ListTool) Definition() mcp.Tool {
	return mcp.NewTool("survey_list",
		mcp.WithDescription("List published surveys, newest first, with question and response counts, "+
			"followed by the keys of saved survey documents."),
	)
}

// Handle processes the survey_list tool call.
func (t *ListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	surveys, err := t.store.ListSurveys()
	if err != nil {
		return nil, fmt.Errorf("listing surveys: %w", err)
	}
	keys, err := t.docs.List()
	if err != nil {
		return nil, fmt.Errorf("listing survey documents: %w", err)
	}
	if len(surveys) == 0 && len(keys) == 0 {
		return mcp.NewToolResultText("No surveys published yet. Create one with `survey_generate` or `survey_build`."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Surveys (%d)\n\n", len(surveys))
	if len(surveys) > 0 {
		sb.WriteString("| ID | Title | Domain | Area | Questions | Responses | Flags |\n")
		sb.WriteString("|----|-------|--------|------|-----------|-----------|-------|\n")
		for _, s := range surveys {
			var flags []string
			if s.Adaptive {
				flags = append(flags, "adaptive")
			}
			if s.AIGenerated {
				flags = append(flags, "ai")
			}
			fmt.Fprintf(&sb, "| `%s` | %s | %s | %s | %d | %d | %s |\n",
				s.ID, s.Title, s.Domain, s.AreaType, s.QuestionCount, s.ResponseCount, strings.Join(flags, ", "))
		}
	}

	if len(keys) > 0 {
		fmt.Fprintf(&sb, "\n## Saved documents (%d)\n\n", len(keys))
		for _, k := range keys {
			fmt.Fprintf(&sb, "- `%s`\n", k)
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}
