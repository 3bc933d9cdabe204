// Package metrics exposes Prometheus counters and histograms for survey
// generation, model calls and response sessions.
//
// A nil *Metrics is valid and records nothing, so components can take an
// optional collector without nil checks at every call site.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Generation outcomes.
const (
	OutcomeSuccess    = "success"
	OutcomeModelError = "model_error"
	OutcomeNoJSON     = "no_json"
	OutcomeMalformed  = "malformed_json"
)

// Metrics holds the collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	Generations        *prometheus.CounterVec
	GenerationDuration prometheus.Histogram
	ModelCalls         *prometheus.CounterVec
	SessionsStarted    prometheus.Counter
	SessionsCompleted  prometheus.Counter
	QualityScore       prometheus.Histogram
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Generations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mospi_survey_generations_total",
				Help: "Survey generation attempts by outcome",
			},
			[]string{"outcome"},
		),
		GenerationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "mospi_survey_generation_duration_seconds",
				Help:    "Duration of survey generation including the model call",
				Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
			},
		),
		ModelCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mospi_model_calls_total",
				Help: "Model backend calls by backend and outcome",
			},
			[]string{"backend", "outcome"},
		),
		SessionsStarted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "mospi_sessions_started_total",
				Help: "Response sessions started",
			},
		),
		SessionsCompleted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "mospi_sessions_completed_total",
				Help: "Response sessions completed",
			},
		),
		QualityScore: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "mospi_response_quality_score",
				Help:    "Quality score of completed responses",
				Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
			},
		),
	}
	m.registry.MustRegister(
		m.Generations,
		m.GenerationDuration,
		m.ModelCalls,
		m.SessionsStarted,
		m.SessionsCompleted,
		m.QualityScore,
	)
	return m
}

// ObserveGeneration records one generation attempt.
func (m *Metrics) ObserveGeneration(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.Generations.WithLabelValues(outcome).Inc()
	m.GenerationDuration.Observe(d.Seconds())
}

// ObserveModelCall records one backend call.
func (m *Metrics) ObserveModelCall(backend string, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = "error"
	}
	m.ModelCalls.WithLabelValues(backend, outcome).Inc()
}

// SessionStarted counts a new response session.
func (m *Metrics) SessionStarted() {
	if m == nil {
		return
	}
	m.SessionsStarted.Inc()
}

// SessionCompleted counts a completed session and its quality score.
func (m *Metrics) SessionCompleted(score float64) {
	if m == nil {
		return
	}
	m.SessionsCompleted.Inc()
	m.QualityScore.Observe(score)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
