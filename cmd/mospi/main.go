// Mospi: smart survey engine MCP server
//
// Drafts field surveys with a language model, normalizes them into a
// strict schema and runs adaptive response sessions with quality scoring.
//
// Usage:
//
//	mospi serve                                   # Start MCP server (stdio transport)
//	mospi generate <domain> [region] [area] [lang] # Draft a survey and save it
//	mospi normalize [file]                        # Normalize survey JSON (stdin if no file)
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/dpulseai/Mospi/internal/config"
	"github.com/dpulseai/Mospi/internal/extract"
	"github.com/dpulseai/Mospi/internal/llm"
	"github.com/dpulseai/Mospi/internal/logging"
	"github.com/dpulseai/Mospi/internal/metrics"
	"github.com/dpulseai/Mospi/internal/pipeline"
	mospiserver "github.com/dpulseai/Mospi/internal/server"
	"github.com/dpulseai/Mospi/internal/store"
	"github.com/dpulseai/Mospi/internal/survey"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// configFileEnv names an optional yaml/json/toml config file.
const configFileEnv = "MOSPI_CONFIG_FILE"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "serve":
		err = run()
	case "generate":
		err = runGenerate(os.Args[2:])
	case "normalize":
		err = runNormalize(os.Args[2:])
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("mospi v%s\n", mospiserver.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads configuration and builds the logger.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(".env", os.Getenv(configFileEnv))
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("creating logger: %w", err)
	}
	return cfg, log, nil
}

func run() error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	m := metrics.New()
	s, cleanup, err := mospiserver.New(cfg, log, m)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	// Graceful shutdown on interrupt.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddr != "" {
		go func() {
			if err := m.Serve(ctx, cfg.MetricsAddr); err != nil {
				log.Error("metrics server stopped", zap.Error(err))
			}
		}()
		log.Info("serving metrics", zap.String("addr", cfg.MetricsAddr))
	}

	stdio := server.NewStdioServer(s)
	stdio.SetErrorLogger(zap.NewStdLog(log))
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}

func runGenerate(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: mospi generate <domain> [region] [area_type] [language]")
	}
	req := pipeline.Request{Domain: args[0]}
	for i, dst := range []*string{&req.Region, &req.AreaType, &req.Language} {
		if len(args) > i+1 {
			*dst = args[i+1]
		}
	}

	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	m := metrics.New()
	completer, err := llm.FromConfig(cfg.LLM, m, log)
	if err != nil {
		return fmt.Errorf("creating model backend: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := pipeline.NewGenerator(completer, m, log).Generate(ctx, req)
	if err != nil {
		return err
	}

	path, err := store.NewDocumentStore(cfg.OutputDir).Save(s)
	if err != nil {
		return fmt.Errorf("saving survey: %w", err)
	}
	if err := writeJSON(os.Stdout, s); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Saved to %s\n", path)
	return nil
}

func runNormalize(args []string) error {
	in := io.Reader(os.Stdin)
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	obj, err := extract.Object(string(data))
	if err != nil {
		return err
	}
	return writeJSON(os.Stdout, survey.NormalizeMap(obj))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printUsage() {
	fmt.Fprintln(os.Stderr, figure.NewFigure("Mospi", "", true).String())
	fmt.Fprintf(os.Stderr, `Mospi v%s: smart survey engine MCP server

Usage:
  mospi serve                                      Start the MCP server (stdio transport)
  mospi generate <domain> [region] [area] [lang]   Draft a survey, print it and save it
  mospi normalize [file]                           Normalize survey JSON (stdin if no file)
  mospi version                                    Print the version

Configuration:
  Environment variables (or a .env file in the working directory):
    LLM_PROVIDER               openai | huggingface | offline (default huggingface)
    OPENAI_API_KEY             required for openai
    HUGGINGFACEHUB_API_TOKEN   token for huggingface
    HF_MODELS                  comma-separated models tried in order
    MOSPI_DATA_DIR             survey database directory (default ~/.mospi)
    MOSPI_OUTPUT_DIR           exports and survey files (default outputs)
    MOSPI_LOG_LEVEL            debug | info | warn | error
    MOSPI_METRICS_ADDR         serve Prometheus metrics, e.g. :9090
  %s names an optional yaml/json/toml config file.

  Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "mospi": {
        "command": "mospi",
        "args": ["serve"]
      }
    }
  }
`, mospiserver.Version, configFileEnv)
}
