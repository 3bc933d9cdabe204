package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/dpulseai/Mospi/internal/session"
	"github.com/mark3labs/mcp-go/mcp"
)

// BackTool handles the session_back MCP tool.
type BackTool struct {
	sessions *session.Manager
}

// NewBackTool creates a BackTool.
func NewBackTool(sessions *session.Manager) *BackTool {
	return &BackTool{sessions: sessions}
}

// Definition returns the MCP tool definition for registration.
func (t *BackTool) Definition() mcp.Tool {
	return mcp.NewTool("session_back",
		mcp.WithDescription("Return to the previous question of a session. Earlier answers are kept."),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session id from `session_start`"),
		),
	)
}

// Handle processes the session_back tool call.
func (t *BackTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("session_id", "")
	sess, err := t.sessions.Get(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Session %q not found", id)), nil
	}
	if err := sess.Back(); err != nil {
		if errors.Is(err, session.ErrAtFirstQuestion) {
			return mcp.NewToolResultError("Already at the first question."), nil
		}
		if errors.Is(err, session.ErrSessionCompleted) {
			return mcp.NewToolResultError("This session is already complete."), nil
		}
		return nil, err
	}
	return mcp.NewToolResultText(renderStatus(sess.Status())), nil
}
