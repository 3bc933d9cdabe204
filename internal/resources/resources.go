// Package resources implements MCP resource handlers for the survey catalogue.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (mospi://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dpulseai/Mospi/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
)

// SurveysURI addresses the published survey listing.
const SurveysURI = "mospi://surveys"

// Handler manages catalogue resource endpoints.
type Handler struct {
	store *store.Store
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(s *store.Store) *Handler {
	return &Handler{store: s}
}

// SurveysResource returns the MCP resource definition for the catalogue.
func (h *Handler) SurveysResource() mcp.Resource {
	return mcp.NewResource(
		SurveysURI,
		"Published Surveys",
		mcp.WithResourceDescription("Published surveys with question and response counts"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleSurveys returns the catalogue as JSON.
func (h *Handler) HandleSurveys(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	surveys, err := h.store.ListSurveys()
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	if surveys == nil {
		surveys = []store.SurveySummary{}
	}

	data, err := json.MarshalIndent(surveys, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling surveys: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
