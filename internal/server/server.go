// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates concrete implementations and
// injects them into the tools, prompts and resources. No business logic
// lives here, only wiring.
package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/dpulseai/Mospi/internal/config"
	"github.com/dpulseai/Mospi/internal/export"
	"github.com/dpulseai/Mospi/internal/llm"
	"github.com/dpulseai/Mospi/internal/metrics"
	"github.com/dpulseai/Mospi/internal/pipeline"
	"github.com/dpulseai/Mospi/internal/prompts"
	"github.com/dpulseai/Mospi/internal/resources"
	"github.com/dpulseai/Mospi/internal/session"
	"github.com/dpulseai/Mospi/internal/store"
	"github.com/dpulseai/Mospi/internal/tools"
	"github.com/dpulseai/Mospi/internal/validate"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// Version is set at build time via ldflags.
var Version = "dev"

// ErrNoConfig is returned by New when cfg is nil.
var ErrNoConfig = errors.New("server: configuration is required")

// tool is the shape every handler in internal/tools shares.
type tool interface {
	Definition() mcp.Tool
	Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// New creates and configures the MCP server with all tools, prompts,
// and resources registered. This is the single place where all
// dependencies are resolved.
//
// The returned cleanup function closes the survey store and must be
// called on shutdown (typically via defer). It is always non-nil.
func New(cfg *config.Config, log *zap.Logger, m *metrics.Metrics) (*server.MCPServer, func(), error) {
	if cfg == nil {
		return nil, noop, ErrNoConfig
	}
	if log == nil {
		log = zap.NewNop()
	}

	// --- Create shared dependencies ---

	completer, err := llm.FromConfig(cfg.LLM, m, log)
	if err != nil {
		return nil, noop, fmt.Errorf("creating model backend: %w", err)
	}

	st, err := store.New(store.Config{DataDir: cfg.DataDir, SeedDemo: true})
	if err != nil {
		return nil, noop, fmt.Errorf("opening survey store: %w", err)
	}
	cleanup := func() {
		if err := st.Close(); err != nil {
			log.Warn("closing survey store", zap.Error(err))
		}
	}

	docs := store.NewDocumentStore(cfg.OutputDir)
	exporter := export.New(cfg.OutputDir)
	sessions := session.NewManager()
	generator := pipeline.NewGenerator(completer, m, log)
	validator := validate.New()

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"mospi",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register tools ---

	register(s,
		// Survey design
		tools.NewGenerateTool(generator),
		tools.NewValidateSurveyTool(),
		tools.NewSaveTool(st, docs, log),
		tools.NewBuildTool(st, docs),
		tools.NewListTool(st, docs),
		tools.NewGetTool(st, docs),
		tools.NewDeleteTool(st),
		tools.NewExportTool(st, exporter),

		// Response collection
		tools.NewStartSessionTool(st, sessions, m),
		tools.NewAnswerTool(st, sessions, m, log),
		tools.NewBackTool(sessions),
		tools.NewStatusTool(sessions),

		// Data quality and analytics
		tools.NewClassifyTool(),
		tools.NewFieldsTool(validator),
		tools.NewStatsTool(st),
		tools.NewExportResponsesTool(st, exporter),
	)

	// --- Register prompts ---

	designPrompt := prompts.NewDesignPrompt()
	s.AddPrompt(designPrompt.Definition(), designPrompt.Handle)

	collectPrompt := prompts.NewCollectPrompt()
	s.AddPrompt(collectPrompt.Definition(), collectPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(st)
	s.AddResource(resourceHandler.SurveysResource(), resourceHandler.HandleSurveys)

	log.Info("mcp server ready",
		zap.String("version", Version),
		zap.String("provider", cfg.LLM.Provider),
		zap.String("data_dir", cfg.DataDir),
		zap.String("output_dir", cfg.OutputDir),
	)
	return s, cleanup, nil
}

func register(s *server.MCPServer, ts ...tool) {
	for _, t := range ts {
		s.AddTool(t.Definition(), t.Handle)
	}
}

func noop() {}

func serverInstructions() string {
	return `You have access to Mospi, a survey design and data collection MCP server
for government field programs.

## DESIGNING A SURVEY

1. Call survey_generate with the domain (and region, area_type, language when known).
2. Show the preview to the user and ask for changes.
3. If the user edits the JSON, run survey_validate to see the repaired survey.
4. Publish with survey_save. Ask whether follow-up questions should be enabled (adaptive).
5. Offer survey_export (csv, html or pdf).

Use survey_build instead when the user wants to write questions by hand or pick
them from the built-in question bank.

## COLLECTING RESPONSES

1. session_start with the survey_id (DEMO_001 is always available).
2. Ask each question exactly as returned. List the options for choice questions.
3. Send the answer with session_answer: "answer" for text, single choice and numbers,
   "choices" for multiple choice, "skip" for optional questions the respondent declines.
4. If an answer is rejected, explain the reason and ask again.
5. session_back returns to the previous question.
6. When the session completes, report the quality score.

## RULES

- Never invent answers on the respondent's behalf.
- Avoid collecting political or personally identifying data beyond what the survey asks.
- responses_stats and responses_export summarize collected data.
- fields_validate and occupation_classify check individual contact fields.`
}
