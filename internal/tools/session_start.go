package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/dpulseai/Mospi/internal/metrics"
	"github.com/dpulseai/Mospi/internal/session"
	"github.com/dpulseai/Mospi/internal/store"
	"github.com/dpulseai/Mospi/internal/survey"
	"github.com/mark3labs/mcp-go/mcp"
)

// StartSessionTool handles the session_start MCP tool.
// It opens a response session for a published survey.
type StartSessionTool struct {
	store    *store.Store
	sessions *session.Manager
	metrics  *metrics.Metrics
}

// NewStartSessionTool creates a StartSessionTool.
func NewStartSessionTool(s *store.Store, sessions *session.Manager, m *metrics.Metrics) *StartSessionTool {
	return &StartSessionTool{store: s, sessions: sessions, metrics: m}
}

// Definition returns the MCP tool definition for registration.
func (t *StartSessionTool) Definition() mcp.Tool {
	return mcp.NewTool("session_start",
		mcp.WithDescription(
			"Start answering a published survey. Returns a session id and the first question. "+
				"Answer with `session_answer`, go back with `session_back`.",
		),
		mcp.WithString("survey_id",
			mcp.Description("Survey id. Default: "+survey.DemoSurveyID),
		),
		mcp.WithString("respondent_id",
			mcp.Description("Respondent identifier. Default: anonymous"),
		),
	)
}

// Handle processes the session_start tool call.
func (t *StartSessionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("survey_id", survey.DemoSurveyID)

	stored, err := t.store.GetSurvey(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("Survey %q not found. Use `survey_list` to see published surveys.", id)), nil
		}
		return nil, fmt.Errorf("loading survey: %w", err)
	}

	sess, err := t.sessions.Start(stored.ID, stored.Survey, session.Options{
		Adaptive:     stored.Adaptive,
		RespondentID: req.GetString("respondent_id", ""),
	})
	if err != nil {
		if errors.Is(err, session.ErrNoQuestions) {
			return mcp.NewToolResultError(fmt.Sprintf("Survey %q has no questions", id)), nil
		}
		if errors.Is(err, survey.ErrDuplicateID) {
			return mcp.NewToolResultError(fmt.Sprintf("Survey %q cannot be answered: %v", id, err)), nil
		}
		return nil, fmt.Errorf("starting session: %w", err)
	}
	t.metrics.SessionStarted()

	return mcp.NewToolResultText("# Session Started\n\n" + renderStatus(sess.Status())), nil
}
