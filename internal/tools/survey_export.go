package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/dpulseai/Mospi/internal/export"
	"github.com/dpulseai/Mospi/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
)

// ExportTool handles the survey_export MCP tool.
type ExportTool struct {
	store    *store.Store
	exporter *export.Exporter
}

// NewExportTool creates an ExportTool.
func NewExportTool(s *store.Store, e *export.Exporter) *ExportTool {
	return &ExportTool{store: s, exporter: e}
}

// Definition returns the MCP tool definition for registration.
func (t *ExportTool) Definition() mcp.Tool {
	return mcp.NewTool("survey_export",
		mcp.WithDescription("Export a published survey to CSV, HTML or PDF in the output folder."),
		mcp.WithString("survey_id",
			mcp.Required(),
			mcp.Description("Survey id to export"),
		),
		mcp.WithString("format",
			mcp.Required(),
			mcp.Description("File format"),
			mcp.Enum(string(export.FormatCSV), string(export.FormatHTML), string(export.FormatPDF)),
		),
	)
}

// Handle processes the survey_export tool call.
func (t *ExportTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("survey_id", "")
	format := export.Format(req.GetString("format", ""))

	stored, err := t.store.GetSurvey(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("Survey %q not found", id)), nil
		}
		return nil, fmt.Errorf("loading survey: %w", err)
	}

	path, err := t.exporter.Survey(stored.Survey, format)
	if err != nil {
		if errors.Is(err, export.ErrUnsupportedFormat) {
			return mcp.NewToolResultError(fmt.Sprintf("Format %q is not supported; use csv, html or pdf", format)), nil
		}
		return nil, err
	}
	return mcp.NewToolResultText(fmt.Sprintf("Exported `%s` as %s: `%s`", id, format, path)), nil
}
