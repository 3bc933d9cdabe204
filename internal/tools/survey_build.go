package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dpulseai/Mospi/internal/store"
	"github.com/dpulseai/Mospi/internal/survey"
	"github.com/mark3labs/mcp-go/mcp"
)

// BuildTool handles the survey_build MCP tool.
// It assembles a survey by hand from manual-builder question types.
type BuildTool struct {
	store *store.Store
	docs  *store.DocumentStore
}

// NewBuildTool creates a BuildTool.
func NewBuildTool(s *store.Store, docs *store.DocumentStore) *BuildTool {
	return &BuildTool{store: s, docs: docs}
}

// Definition returns the MCP tool definition for registration.
func (t *BuildTool) Definition() mcp.Tool {
	return mcp.NewTool("survey_build",
		mcp.WithDescription(
			"Build and publish a survey by hand. Questions use the manual builder types "+
				"text, number, select and multiselect. Use `bank_ids` to pull questions from "+
				"the built-in bank (d1-d4 demographic, e1-e3 economic, h1-h2 health).",
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Survey title"),
		),
		mcp.WithString("domain", mcp.Description("Survey subject")),
		mcp.WithString("region", mcp.Description("State, district or zone")),
		mcp.WithString("area_type", mcp.Description("Population type"), mcp.Enum("Rural", "Urban")),
		mcp.WithString("language", mcp.Description("Default: English")),
		mcp.WithString("questions_json",
			mcp.Description(
				"JSON array of questions: "+
					`[{"id":"q1","text":"...","type":"select","options":["a","b","c"],"required":true,`+
					`"validation":{"min":0,"max":120}}]`,
			),
		),
		mcp.WithArray("bank_ids",
			mcp.Description("Question bank ids to append after questions_json"),
			mcp.WithStringItems(),
		),
		mcp.WithBoolean("adaptive",
			mcp.Description("Append follow-up questions based on income and employment answers. Default: false"),
		),
	)
}

// Handle processes the survey_build tool call.
func (t *BuildTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := req.GetString("title", "")
	if title == "" {
		return mcp.NewToolResultError("title is required"), nil
	}

	var questions []survey.LegacyQuestion
	if raw := req.GetString("questions_json", ""); raw != "" {
		if err := json.Unmarshal([]byte(raw), &questions); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("questions_json is not a valid question array: %v", err)), nil
		}
	}
	for _, id := range req.GetStringSlice("bank_ids", nil) {
		lq, ok := survey.BankQuestion(id)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("Unknown bank question %q", id)), nil
		}
		questions = append(questions, lq)
	}
	if len(questions) == 0 {
		return mcp.NewToolResultError("Provide questions_json or bank_ids"), nil
	}

	s, err := survey.FromLegacySurvey(survey.LegacySurvey{
		Title:     title,
		Domain:    req.GetString("domain", ""),
		Region:    req.GetString("region", ""),
		AreaType:  req.GetString("area_type", ""),
		Language:  req.GetString("language", ""),
		Questions: questions,
	})
	if err != nil {
		if errors.Is(err, survey.ErrUnknownLegacyType) {
			return mcp.NewToolResultError(fmt.Sprintf("%v (use text, number, select or multiselect)", err)), nil
		}
		return nil, fmt.Errorf("building survey: %w", err)
	}
	if err := s.CheckIDs(); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid survey: %v (give each question a unique id)", err)), nil
	}

	id, err := t.store.AddSurvey(store.AddSurveyParams{
		Survey:   s,
		Adaptive: boolArg(req, "adaptive", false),
	})
	if err != nil {
		return nil, fmt.Errorf("saving survey: %w", err)
	}
	path, err := t.docs.Save(s)
	if err != nil {
		return nil, fmt.Errorf("writing survey document: %w", err)
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"# Survey Built\n\n"+
			"**ID:** `%s`\n"+
			"**File:** `%s`\n\n"+
			"%s",
		id, path, textBlock(s),
	)), nil
}
