package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/dpulseai/Mospi/internal/metrics"
	"github.com/dpulseai/Mospi/internal/quality"
	"github.com/dpulseai/Mospi/internal/session"
	"github.com/dpulseai/Mospi/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

// AnswerTool handles the session_answer MCP tool.
// On the last question it stores the completed response and closes the session.
type AnswerTool struct {
	store    *store.Store
	sessions *session.Manager
	metrics  *metrics.Metrics
	log      *zap.Logger
}

// NewAnswerTool creates an AnswerTool.
func NewAnswerTool(s *store.Store, sessions *session.Manager, m *metrics.Metrics, log *zap.Logger) *AnswerTool {
	if log == nil {
		log = zap.NewNop()
	}
	return &AnswerTool{store: s, sessions: sessions, metrics: m, log: log}
}

// Definition returns the MCP tool definition for registration.
func (t *AnswerTool) Definition() mcp.Tool {
	return mcp.NewTool("session_answer",
		mcp.WithDescription(
			"Answer the current question of a session and move to the next one. "+
				"Use `answer` for open-ended, single-choice and rating questions, "+
				"`choices` for multiple-choice, or `skip` to skip an optional question.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session id from `session_start`"),
		),
		mcp.WithString("answer",
			mcp.Description("Answer text, chosen option or number"),
		),
		mcp.WithArray("choices",
			mcp.Description("Selected options for a multiple-choice question"),
			mcp.WithStringItems(),
		),
		mcp.WithBoolean("skip",
			mcp.Description("Record the question as skipped. Rejected on required questions"),
		),
	)
}

// Handle processes the session_answer tool call.
func (t *AnswerTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("session_id", "")
	sess, err := t.sessions.Get(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Session %q not found. It may have completed already.", id)), nil
	}

	rec, err := sess.Submit(answerArg(req))
	if err != nil {
		switch {
		case errors.Is(err, session.ErrRequiredFieldMissing):
			return mcp.NewToolResultError(fmt.Sprintf("This question is required: %v", err)), nil
		case errors.Is(err, session.ErrOutOfRange):
			return mcp.NewToolResultError(fmt.Sprintf("Answer rejected: %v", err)), nil
		case errors.Is(err, session.ErrSessionCompleted):
			return mcp.NewToolResultError("This session is already complete."), nil
		}
		return nil, fmt.Errorf("submitting answer: %w", err)
	}

	if rec == nil {
		return mcp.NewToolResultText(renderStatus(sess.Status())), nil
	}

	// A completed session accepts nothing more, so it leaves the manager
	// whether or not the record can be stored.
	st := sess.Status()
	t.sessions.Remove(id)
	if err := t.store.AddResponse(rec); err != nil {
		t.log.Error("response not stored",
			zap.String("survey_id", rec.SurveyID),
			zap.String("response_id", rec.ID),
			zap.Any("answers", rec.Answers),
			zap.Error(err),
		)
		if errors.Is(err, store.ErrNotFound) {
			doc, jerr := jsonBlock(rec)
			if jerr != nil {
				return nil, jerr
			}
			return mcp.NewToolResultError(fmt.Sprintf(
				"Survey %q was deleted during the session, so the response could not be stored.\n\n%s",
				rec.SurveyID, doc,
			)), nil
		}
		return nil, fmt.Errorf("storing response: %w", err)
	}
	t.metrics.SessionCompleted(rec.QualityScore)
	t.log.Info("response recorded",
		zap.String("survey_id", rec.SurveyID),
		zap.String("response_id", rec.ID),
		zap.Float64("quality", rec.QualityScore),
	)

	return mcp.NewToolResultText("# Survey Complete\n\n" + renderStatus(st)), nil
}

// answerArg picks the submitted value: skip, then choices, then answer.
// With none of them the answer is absent (nil).
func answerArg(req mcp.CallToolRequest) any {
	if boolArg(req, "skip", false) {
		return quality.Skipped
	}
	args := req.GetArguments()
	if raw, ok := args["choices"].([]any); ok {
		choices := make([]string, 0, len(raw))
		for _, c := range raw {
			choices = append(choices, fmt.Sprint(c))
		}
		return choices
	}
	switch v := args["answer"].(type) {
	case string, float64, bool:
		return v
	}
	return nil
}
