package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveGeneration(t *testing.T) {
	m := New()
	m.ObserveGeneration(OutcomeSuccess, time.Second)
	m.ObserveGeneration(OutcomeSuccess, 2*time.Second)
	m.ObserveGeneration(OutcomeNoJSON, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Generations.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Generations.WithLabelValues(OutcomeNoJSON)))
}

func TestObserveModelCall(t *testing.T) {
	m := New()
	m.ObserveModelCall("openai", nil)
	m.ObserveModelCall("openai", errors.New("429"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ModelCalls.WithLabelValues("openai", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ModelCalls.WithLabelValues("openai", "error")))
}

func TestSessions(t *testing.T) {
	m := New()
	m.SessionStarted()
	m.SessionStarted()
	m.SessionCompleted(0.9)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SessionsStarted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionsCompleted))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveGeneration(OutcomeSuccess, time.Second)
		m.ObserveModelCall("x", nil)
		m.SessionStarted()
		m.SessionCompleted(1)
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.SessionStarted()

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.True(t, strings.Contains(string(body), "mospi_sessions_started_total 1"))
}
