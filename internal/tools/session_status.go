package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/dpulseai/Mospi/internal/session"
	"github.com/dpulseai/Mospi/internal/survey"
	"github.com/mark3labs/mcp-go/mcp"
)

// StatusTool handles the session_status MCP tool.
type StatusTool struct {
	sessions *session.Manager
}

// NewStatusTool creates a StatusTool.
func NewStatusTool(sessions *session.Manager) *StatusTool {
	return &StatusTool{sessions: sessions}
}

// Definition returns the MCP tool definition for registration.
func (t *StatusTool) Definition() mcp.Tool {
	return mcp.NewTool("session_status",
		mcp.WithDescription(
			"Show a session's progress, current question and answers so far. "+
				"Without session_id, lists open sessions.",
		),
		mcp.WithString("session_id",
			mcp.Description("Session id. If omitted, lists open sessions."),
		),
	)
}

// Handle processes the session_status tool call.
func (t *StatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("session_id", "")
	if id == "" {
		ids := t.sessions.IDs()
		if len(ids) == 0 {
			return mcp.NewToolResultText("No open sessions. Start one with `session_start`."), nil
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "# Open Sessions (%d)\n\n", len(ids))
		for _, sid := range ids {
			if sess, err := t.sessions.Get(sid); err == nil {
				st := sess.Status()
				fmt.Fprintf(&sb, "- `%s`: %s, question %d/%d\n", sid, st.Title, st.Index+1, st.Total)
			}
		}
		return mcp.NewToolResultText(sb.String()), nil
	}

	sess, err := t.sessions.Get(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Session %q not found", id)), nil
	}
	return mcp.NewToolResultText(renderStatus(sess.Status())), nil
}

// renderStatus formats a session snapshot for the AI to relay.
func renderStatus(st session.Status) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**Session:** `%s`\n", st.ID)
	fmt.Fprintf(&sb, "**Survey:** %s (`%s`)\n", st.Title, st.SurveyID)

	if st.Completed && st.Record != nil {
		rec := st.Record
		fmt.Fprintf(&sb, "**Answered:** %d questions\n", len(rec.Answers))
		fmt.Fprintf(&sb, "**Duration:** %.0fs\n", rec.Duration)
		fmt.Fprintf(&sb, "**Quality Score:** %.0f%%\n", rec.QualityScore*100)
		fmt.Fprintf(&sb, "**Response ID:** `%s`\n", rec.ID)
	} else {
		fmt.Fprintf(&sb, "**Progress:** question %d of %d\n", st.Index+1, st.Total)
	}

	if c := st.Classification; c != nil {
		fmt.Fprintf(&sb, "**Occupation:** %s (NCO %s, confidence %.0f%%)\n", c.Category, c.Code, c.Confidence*100)
	}

	if q := st.Current; q != nil && !st.Completed {
		sb.WriteString("\n")
		sb.WriteString(renderQuestion(*q, st.Answers[q.ID]))
	}
	return sb.String()
}

func renderQuestion(q survey.Question, previous any) string {
	var sb strings.Builder
	marker := ""
	if q.Required {
		marker = " *"
	}
	fmt.Fprintf(&sb, "## %s%s\n\n", q.Text, marker)
	fmt.Fprintf(&sb, "Type: %s (id `%s`)\n", q.Type, q.ID)
	for i, opt := range q.Options {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, opt)
	}
	if v := q.Validation; v != nil {
		fmt.Fprintf(&sb, "Range: %g to %g\n", v.Min, v.Max)
	}
	if previous != nil {
		fmt.Fprintf(&sb, "Previous answer: %v\n", previous)
	}
	return sb.String()
}
