package tools

import (
	"context"
	"fmt"

	"github.com/dpulseai/Mospi/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

// SaveTool handles the survey_save MCP tool.
// It publishes a survey to the catalogue and writes its JSON document.
type SaveTool struct {
	store *store.Store
	docs  *store.DocumentStore
	log   *zap.Logger
}

// NewSaveTool creates a SaveTool.
func NewSaveTool(s *store.Store, docs *store.DocumentStore, log *zap.Logger) *SaveTool {
	if log == nil {
		log = zap.NewNop()
	}
	return &SaveTool{store: s, docs: docs, log: log}
}

// Definition returns the MCP tool definition for registration.
func (t *SaveTool) Definition() mcp.Tool {
	return mcp.NewTool("survey_save",
		mcp.WithDescription(
			"Publish a survey so respondents can take it. The JSON is normalized first, "+
				"stored in the catalogue and written to the surveys output folder. "+
				"Returns the survey id used by `session_start`.",
		),
		mcp.WithString("survey_json",
			mcp.Required(),
			mcp.Description("Survey JSON, typically from `survey_generate` or `survey_validate`"),
		),
		mcp.WithBoolean("adaptive",
			mcp.Description("Append follow-up questions based on income and employment answers. Default: false"),
		),
		mcp.WithBoolean("ai_generated",
			mcp.Description("Whether the survey was drafted by the model. Default: true"),
		),
	)
}

// Handle processes the survey_save tool call.
func (t *SaveTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s, err := surveyArg(req, "survey_json")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid survey: %v", err)), nil
	}
	if err := s.CheckIDs(); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid survey: %v (give each question a unique id)", err)), nil
	}

	id, err := t.store.AddSurvey(store.AddSurveyParams{
		Survey:      s,
		Adaptive:    boolArg(req, "adaptive", false),
		AIGenerated: boolArg(req, "ai_generated", true),
	})
	if err != nil {
		return nil, fmt.Errorf("saving survey: %w", err)
	}

	path, err := t.docs.Save(s)
	if err != nil {
		return nil, fmt.Errorf("writing survey document: %w", err)
	}
	t.log.Info("survey published", zap.String("id", id), zap.String("path", path))

	return mcp.NewToolResultText(fmt.Sprintf(
		"# Survey Published\n\n"+
			"**ID:** `%s`\n"+
			"**Title:** %s\n"+
			"**Questions:** %d\n"+
			"**File:** `%s`\n\n"+
			"Start collecting responses with `session_start` (survey_id='%s').",
		id, s.Title, len(s.Questions), path, id,
	)), nil
}
