package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/dpulseai/Mospi/internal/extract"
	"github.com/dpulseai/Mospi/internal/pipeline"
	"github.com/mark3labs/mcp-go/mcp"
)

// GenerateTool handles the survey_generate MCP tool.
// It drafts a survey with the configured model. Nothing is persisted.
type GenerateTool struct {
	gen *pipeline.Generator
}

// NewGenerateTool creates a GenerateTool.
func NewGenerateTool(gen *pipeline.Generator) *GenerateTool {
	return &GenerateTool{gen: gen}
}

// Definition returns the MCP tool definition for registration.
func (t *GenerateTool) Definition() mcp.Tool {
	return mcp.NewTool("survey_generate",
		mcp.WithDescription(
			"Draft a field survey with the configured model. Returns the normalized "+
				"survey JSON and a readable preview. The draft is NOT saved; review it, "+
				"then publish it with `survey_save`.",
		),
		mcp.WithString("domain",
			mcp.Required(),
			mcp.Description("Survey subject, e.g. Agriculture, Education, Healthcare"),
		),
		mcp.WithString("region",
			mcp.Description("State, district or zone being surveyed"),
		),
		mcp.WithString("area_type",
			mcp.Description("Population type"),
			mcp.Enum("Rural", "Urban"),
		),
		mcp.WithString("language",
			mcp.Description("Language of the questions. Default: English"),
		),
	)
}

// Handle processes the survey_generate tool call.
func (t *GenerateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	domain := req.GetString("domain", "")
	if domain == "" {
		return mcp.NewToolResultError("domain is required"), nil
	}

	s, err := t.gen.Generate(ctx, pipeline.Request{
		Domain:   domain,
		Region:   req.GetString("region", ""),
		AreaType: req.GetString("area_type", ""),
		Language: req.GetString("language", ""),
	})
	if err != nil {
		if errors.Is(err, extract.ErrNoJSONFound) || errors.Is(err, extract.ErrMalformedJSON) {
			return mcp.NewToolResultError(fmt.Sprintf("The model reply could not be read as a survey: %v. Try again.", err)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("Survey generation failed: %v", err)), nil
	}

	doc, err := jsonBlock(s)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"# Draft: %s\n\n"+
			"%d questions. Review the preview, edit the JSON if needed, then call `survey_save`.\n\n"+
			"## Preview\n\n%s\n\n## JSON\n\n%s",
		s.Title, len(s.Questions), textBlock(s), doc,
	)), nil
}
