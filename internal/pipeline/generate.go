// Package pipeline drafts surveys: prompt, model call, extraction and
// normalization in one step.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/dpulseai/Mospi/internal/extract"
	"github.com/dpulseai/Mospi/internal/llm"
	"github.com/dpulseai/Mospi/internal/metrics"
	"github.com/dpulseai/Mospi/internal/prompts"
	"github.com/dpulseai/Mospi/internal/survey"
	"go.uber.org/zap"
)

// Request describes the survey to draft. Empty fields are left for the
// model to fill and then defaulted by normalization.
type Request struct {
	Domain   string `json:"domain"`
	Region   string `json:"region"`
	AreaType string `json:"area_type"`
	Language string `json:"language"`
}

// Generator turns a Request into a normalized survey.
type Generator struct {
	completer llm.Completer
	metrics   *metrics.Metrics
	log       *zap.Logger
}

// NewGenerator creates a Generator. m and log may be nil.
func NewGenerator(c llm.Completer, m *metrics.Metrics, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{completer: c, metrics: m, log: log}
}

// Generate asks the model for a survey matching req.
//
// Metadata the model omits is taken from req before normalization, so
// a reply without "domain" still carries the requested domain. Model
// failures and extraction errors are returned wrapped; nothing is retried.
func (g *Generator) Generate(ctx context.Context, req Request) (*survey.Survey, error) {
	start := timeNow()
	s, outcome, err := g.generate(ctx, req)
	g.metrics.ObserveGeneration(outcome, timeNow().Sub(start))
	if err != nil {
		g.log.Warn("survey generation failed",
			zap.String("domain", req.Domain),
			zap.String("outcome", outcome),
			zap.Error(err),
		)
		return nil, err
	}
	g.log.Info("survey generated",
		zap.String("title", s.Title),
		zap.Int("questions", len(s.Questions)),
	)
	return s, nil
}

func (g *Generator) generate(ctx context.Context, req Request) (*survey.Survey, string, error) {
	prompt := prompts.SurveyPrompt(prompts.SurveyRequest{
		Domain:   req.Domain,
		Region:   req.Region,
		AreaType: req.AreaType,
		Language: req.Language,
	})

	text, err := g.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, metrics.OutcomeModelError, fmt.Errorf("calling model: %w", err)
	}

	obj, err := extract.Object(text)
	if err != nil {
		var malformed *extract.MalformedJSONError
		if errors.As(err, &malformed) {
			g.log.Debug("unparseable model output", zap.String("raw", malformed.Raw))
			return nil, metrics.OutcomeMalformed, fmt.Errorf("extracting survey: %w", err)
		}
		return nil, metrics.OutcomeNoJSON, fmt.Errorf("extracting survey: %w", err)
	}

	applyDefaults(obj, req)
	raw := survey.ParseRaw(obj)
	if len(raw.Questions) == 0 {
		g.log.Warn("model reply has no usable questions, using placeholder",
			zap.String("domain", req.Domain),
		)
	}
	return survey.Normalize(raw), metrics.OutcomeSuccess, nil
}

// applyDefaults sets request values for keys the model left out.
// Keys present in the reply, even as null, are left to normalization.
func applyDefaults(obj map[string]any, req Request) {
	for key, v := range map[string]string{
		"domain":    req.Domain,
		"region":    req.Region,
		"area_type": req.AreaType,
		"language":  req.Language,
	} {
		if v == "" {
			continue
		}
		if _, ok := obj[key]; !ok {
			obj[key] = v
		}
	}
}
