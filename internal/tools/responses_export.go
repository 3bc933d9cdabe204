package tools

import (
	"context"
	"fmt"

	"github.com/dpulseai/Mospi/internal/export"
	"github.com/dpulseai/Mospi/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
)

// ExportResponsesTool handles the responses_export MCP tool.
type ExportResponsesTool struct {
	store    *store.Store
	exporter *export.Exporter
}

// NewExportResponsesTool creates an ExportResponsesTool.
func NewExportResponsesTool(s *store.Store, e *export.Exporter) *ExportResponsesTool {
	return &ExportResponsesTool{store: s, exporter: e}
}

// Definition returns the MCP tool definition for registration.
func (t *ExportResponsesTool) Definition() mcp.Tool {
	return mcp.NewTool("responses_export",
		mcp.WithDescription("Export collected responses to an XLSX workbook in the output folder."),
		mcp.WithString("survey_id",
			mcp.Description("Survey id. If omitted, exports responses of all surveys."),
		),
	)
}

// Handle processes the responses_export tool call.
func (t *ExportResponsesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("survey_id", "")
	records, err := t.store.Responses(id)
	if err != nil {
		return nil, fmt.Errorf("loading responses: %w", err)
	}
	if len(records) == 0 {
		return mcp.NewToolResultError("No responses to export yet."), nil
	}

	name := id
	if name == "" {
		name = "all"
	}
	path, err := t.exporter.Responses(name, records)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(fmt.Sprintf("Exported %d responses: `%s`", len(records), path)), nil
}
