package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// DesignPrompt handles the design-survey MCP prompt.
// It guides the AI from a one-line brief to a saved, exported survey.
type DesignPrompt struct{}

// NewDesignPrompt creates a DesignPrompt.
func NewDesignPrompt() *DesignPrompt {
	return &DesignPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *DesignPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("design-survey",
		mcp.WithPromptDescription(
			"Design a new field survey. "+
				"Drafts questions with the configured model, reviews them with you, "+
				"then publishes and exports the result.",
		),
		mcp.WithArgument("domain",
			mcp.ArgumentDescription("Survey subject, e.g. Agriculture, Education, Healthcare"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("region",
			mcp.ArgumentDescription("State, district or zone being surveyed"),
		),
		mcp.WithArgument("area_type",
			mcp.ArgumentDescription("Rural or Urban. Default: Rural"),
		),
		mcp.WithArgument("language",
			mcp.ArgumentDescription("Language of the questions. Default: English"),
		),
	)
}

// Handle processes the design-survey prompt request.
func (p *DesignPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	args := req.Params.Arguments
	domain := argOr(args, "domain", "General")
	region := argOr(args, "region", "Unknown")
	area := argOr(args, "area_type", "Rural")
	language := argOr(args, "language", DefaultLanguage)

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Design survey: %s", domain),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want to design a %s survey for %s (%s area) in %s.\n\n"+
						"Please:\n"+
						"1. Run `survey_generate` with domain='%s', region='%s', area_type='%s', language='%s'\n"+
						"2. Show me the questions as a numbered list with their types and options\n"+
						"3. Ask whether I want changes; apply them and run `survey_validate` on the edited JSON\n"+
						"4. When I approve, run `survey_save` (ask whether follow-up questions should be enabled)\n"+
						"5. Offer `survey_export` as csv, html or pdf",
					domain, region, area, language,
					domain, region, area, language,
				)),
			},
		},
	}, nil
}

// CollectPrompt handles the collect-responses MCP prompt.
// It guides the AI through interviewing a respondent.
type CollectPrompt struct{}

// NewCollectPrompt creates a CollectPrompt.
func NewCollectPrompt() *CollectPrompt {
	return &CollectPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *CollectPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("collect-responses",
		mcp.WithPromptDescription(
			"Interview a respondent for a published survey, one question at a time, "+
				"and report the quality score at the end.",
		),
		mcp.WithArgument("survey_id",
			mcp.ArgumentDescription("Published survey id. Default: DEMO_001"),
		),
	)
}

// Handle processes the collect-responses prompt request.
func (p *CollectPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	surveyID := argOr(req.Params.Arguments, "survey_id", "DEMO_001")

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Collect responses: %s", surveyID),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"Please interview me for survey '%s'.\n\n"+
						"1. Run `session_start` with survey_id='%s'\n"+
						"2. Ask me each question exactly as returned, listing options when present\n"+
						"3. Send my answer with `session_answer`; if it is rejected, explain why and ask again\n"+
						"4. If I ask to go back, run `session_back`\n"+
						"5. When the session completes, show my quality score and any occupation classification",
					surveyID, surveyID,
				)),
			},
		},
	}, nil
}

func argOr(args map[string]string, key, def string) string {
	if v, ok := args[key]; ok && v != "" {
		return v
	}
	return def
}
