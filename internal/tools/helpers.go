// Package tools implements the MCP tool handlers for survey design,
// response collection and analytics.
//
// Each tool is a struct that receives its dependencies via its constructor
// and exposes Definition() for registration and Handle() matching mcp-go's
// CallToolRequest signature.
//
// Design principles:
// - SRP: each file = one tool
// - Input problems come back as tool errors; infrastructure failures as Go errors
// - OCP: new tools are added without modifying existing ones
package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dpulseai/Mospi/internal/extract"
	"github.com/dpulseai/Mospi/internal/survey"
	"github.com/mark3labs/mcp-go/mcp"
)

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// boolArg extracts a boolean argument from a tool request.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// surveyArg reads a survey document from a string argument. The text may
// be bare JSON or model output wrapping it; the result is normalized.
func surveyArg(req mcp.CallToolRequest, key string) (*survey.Survey, error) {
	text := strings.TrimSpace(req.GetString(key, ""))
	if text == "" {
		return nil, fmt.Errorf("%s is required", key)
	}
	obj, err := extract.Object(text)
	if err != nil {
		return nil, err
	}
	return survey.NormalizeMap(obj), nil
}

// jsonBlock renders v as an indented fenced JSON block.
func jsonBlock(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding result: %w", err)
	}
	return "```json\n" + string(data) + "\n```", nil
}

// textBlock renders a survey's plain-text form as a fenced block.
func textBlock(s *survey.Survey) string {
	return "```\n" + survey.Text(s) + "```"
}
