package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/dpulseai/Mospi/internal/validate"
	"github.com/mark3labs/mcp-go/mcp"
)

// FieldsTool handles the fields_validate MCP tool.
type FieldsTool struct {
	validator *validate.Validator
}

// NewFieldsTool creates a FieldsTool.
func NewFieldsTool(v *validate.Validator) *FieldsTool {
	return &FieldsTool{validator: v}
}

// Definition returns the MCP tool definition for registration.
func (t *FieldsTool) Definition() mcp.Tool {
	return mcp.NewTool("fields_validate",
		mcp.WithDescription(
			"Validate respondent fields (age 0-120, email, 10-digit phone), classify the "+
				"occupation and report a composite data quality score.",
		),
		mcp.WithNumber("age", mcp.Required(), mcp.Description("Age in years")),
		mcp.WithString("email", mcp.Required(), mcp.Description("Email address")),
		mcp.WithString("phone", mcp.Required(), mcp.Description("Phone number")),
		mcp.WithString("occupation", mcp.Description("Free-text occupation")),
	)
}

// Handle processes the fields_validate tool call.
func (t *FieldsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	r, err := t.validator.Check(validate.Fields{
		Age:        intArg(req, "age", 0),
		Email:      req.GetString("email", ""),
		Phone:      req.GetString("phone", ""),
		Occupation: req.GetString("occupation", ""),
	})
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString("# Validation Results\n\n")
	if r.Valid() {
		sb.WriteString("All validations passed.\n")
	} else {
		fmt.Fprintf(&sb, "Found %d validation errors:\n", len(r.Errors))
		for _, e := range r.Errors {
			fmt.Fprintf(&sb, "- %s\n", e)
		}
	}
	if len(r.Warnings) > 0 {
		fmt.Fprintf(&sb, "\n%d warnings:\n", len(r.Warnings))
		for _, w := range r.Warnings {
			fmt.Fprintf(&sb, "- %s\n", w)
		}
	}

	c := r.Classification
	fmt.Fprintf(&sb, "\n## Classification\n\n%s (NCO %s, confidence %.0f%%)\n", c.Category, c.Code, c.Confidence*100)

	f := r.Factors
	sb.WriteString("\n## Quality\n\n")
	fmt.Fprintf(&sb, "| Completeness | Format Validity | Consistency | AI Confidence | Overall |\n")
	fmt.Fprintf(&sb, "|---|---|---|---|---|\n")
	fmt.Fprintf(&sb, "| %.2f | %.2f | %.2f | %.2f | %.1f%% |\n",
		f.Completeness, f.FormatValidity, f.Consistency, f.AIConfidence, r.Quality*100)

	return mcp.NewToolResultText(sb.String()), nil
}
