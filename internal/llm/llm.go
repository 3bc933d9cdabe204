// Package llm talks to the language model backends that draft surveys.
//
// Every backend implements Completer: one prompt in, one text out. Calls
// are request/response and never retried here; Fallback walks an ordered
// list of backends to pick the first that answers, which is provider
// selection rather than retry.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dpulseai/Mospi/internal/config"
	"github.com/dpulseai/Mospi/internal/metrics"
	"go.uber.org/zap"
)

// Completer turns a prompt into model text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, prompt string) (string, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

var (
	// ErrMissingAPIKey is returned when a hosted backend has no credentials.
	ErrMissingAPIKey = errors.New("api key not set")
	// ErrEmptyResponse is returned when a backend answers without text.
	ErrEmptyResponse = errors.New("model returned no text")
	// ErrNoBackends is returned by a Fallback with nothing to try.
	ErrNoBackends = errors.New("no model backends configured")
)

// StatusError reports a non-2xx HTTP answer from a backend.
type StatusError struct {
	Backend string
	Code    int
	Body    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Backend, e.Code, e.Body)
}

// Temperature is used for every hosted call; low values keep the JSON shape
// stable across runs.
const Temperature = 0.2

// FromConfig builds the completer selected by cfg.Provider, wrapped in the
// client-side rate limiter and instrumentation.
func FromConfig(cfg config.LLMConfig, m *metrics.Metrics, log *zap.Logger) (Completer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	client := &http.Client{Timeout: cfg.Timeout}

	var (
		c    Completer
		name = cfg.Provider
	)
	switch cfg.Provider {
	case config.ProviderOpenAI:
		if cfg.OpenAI.APIKey == "" {
			return nil, fmt.Errorf("openai: %w: set OPENAI_API_KEY", ErrMissingAPIKey)
		}
		c = NewOpenAI(cfg.OpenAI, client)
	case config.ProviderHuggingFace:
		backends := make([]Named, 0, len(cfg.HuggingFace.Models))
		for _, model := range cfg.HuggingFace.Models {
			backends = append(backends, Named{
				Name:      "huggingface/" + model,
				Completer: NewHuggingFace(cfg.HuggingFace.BaseURL, cfg.HuggingFace.Token, model, client),
			})
		}
		c = NewFallback(log, backends...)
	case config.ProviderOffline:
		c = NewOffline()
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}

	c = Instrument(name, c, m, log)
	if cfg.RatePerMinute > 0 && cfg.Provider != config.ProviderOffline {
		c = NewRateLimited(c, cfg.RatePerMinute, time.Minute)
	}
	return c, nil
}

// Instrument records call outcomes and latency for a backend.
func Instrument(backend string, c Completer, m *metrics.Metrics, log *zap.Logger) Completer {
	return CompleterFunc(func(ctx context.Context, prompt string) (string, error) {
		start := time.Now()
		out, err := c.Complete(ctx, prompt)
		m.ObserveModelCall(backend, err)
		if err != nil {
			log.Warn("model call failed", zap.String("backend", backend), zap.Duration("elapsed", time.Since(start)), zap.Error(err))
			return "", err
		}
		log.Debug("model call", zap.String("backend", backend), zap.Duration("elapsed", time.Since(start)), zap.Int("chars", len(out)))
		return out, nil
	})
}
