package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/dpulseai/Mospi/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
)

// GetTool handles the survey_get MCP tool.
// Ids missing from the catalogue are looked up as saved document keys.
type GetTool struct {
	store *store.Store
	docs  *store.DocumentStore
}

// NewGetTool creates a GetTool.
func NewGetTool(s *store.Store, docs *store.DocumentStore) *GetTool {
	return &GetTool{store: s, docs: docs}
}

// Definition returns the MCP tool definition for registration.
func (t *GetTool) Definition() mcp.Tool {
	return mcp.NewTool("survey_get",
		mcp.WithDescription("Show a published survey or a saved survey document as text and JSON."),
		mcp.WithString("survey_id",
			mcp.Required(),
			mcp.Description("Survey id or document key from `survey_list`"),
		),
	)
}

// Handle processes the survey_get tool call.
func (t *GetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("survey_id", "")
	stored, err := t.store.GetSurvey(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return t.document(id)
		}
		return nil, fmt.Errorf("loading survey: %w", err)
	}

	doc, err := jsonBlock(stored.Survey)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"# %s\n\n"+
			"**ID:** `%s`\n"+
			"**Adaptive:** %t\n"+
			"**Created:** %s\n\n"+
			"%s\n\n%s",
		stored.Survey.Title, stored.ID, stored.Adaptive, stored.CreatedAt,
		textBlock(stored.Survey), doc,
	)), nil
}

// document renders a saved document that is not in the catalogue.
func (t *GetTool) document(key string) (*mcp.CallToolResult, error) {
	s, err := t.docs.Load(key)
	if err != nil {
		if errors.Is(err, store.ErrDocumentNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("Survey %q not found", key)), nil
		}
		return nil, fmt.Errorf("loading survey document: %w", err)
	}

	doc, err := jsonBlock(s)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"# %s\n\n"+
			"**Document:** `%s`\n"+
			"Not published. Pass this JSON to `survey_save` to collect responses.\n\n"+
			"%s\n\n%s",
		s.Title, t.docs.Path(s.Title), textBlock(s), doc,
	)), nil
}
