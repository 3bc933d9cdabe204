package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dpulseai/Mospi/internal/config"
	"github.com/dpulseai/Mospi/internal/extract"
	"github.com/dpulseai/Mospi/internal/metrics"
	"github.com/dpulseai/Mospi/internal/survey"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- OpenAI ---

func TestOpenAI_Complete(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"title\":\"x\"}"}}]}`))
	}))
	defer srv.Close()

	c := NewOpenAI(config.OpenAIConfig{APIKey: "sk-test", Model: "gpt-4o-mini", BaseURL: srv.URL + "/v1/", MaxOutputTokens: 5000}, srv.Client())
	out, err := c.Complete(context.Background(), "hello")
	require.NoError(t, err)

	assert.Equal(t, `{"title":"x"}`, out)
	assert.Equal(t, "gpt-4o-mini", got.Model)
	assert.Equal(t, 0.2, got.Temperature)
	assert.Equal(t, 5000, got.MaxTokens)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "hello", got.Messages[0].Content)
}

func TestOpenAI_Errors(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		_, err := NewOpenAI(config.OpenAIConfig{}, nil).Complete(context.Background(), "p")
		assert.ErrorIs(t, err, ErrMissingAPIKey)
	})

	t.Run("status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"slow down"}`))
		}))
		defer srv.Close()

		_, err := NewOpenAI(config.OpenAIConfig{APIKey: "k", BaseURL: srv.URL}, srv.Client()).Complete(context.Background(), "p")
		var se *StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, http.StatusTooManyRequests, se.Code)
		assert.Contains(t, se.Body, "slow down")
	})

	t.Run("no choices", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		}))
		defer srv.Close()

		_, err := NewOpenAI(config.OpenAIConfig{APIKey: "k", BaseURL: srv.URL}, srv.Client()).Complete(context.Background(), "p")
		assert.ErrorIs(t, err, ErrEmptyResponse)
	})
}

// --- HuggingFace ---

func TestHuggingFace_Complete(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{"list form", `[{"generated_text":"{\"a\":1}"}]`, `{"a":1}`, false},
		{"object form", `{"generated_text":"ok"}`, "ok", false},
		{"model error", `{"error":"Model is loading"}`, "", true},
		{"empty list", `[]`, "", true},
		{"garbage", `not json`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/models/org/model", r.URL.Path)
				assert.Equal(t, "Bearer hf_x", r.Header.Get("Authorization"))
				var req hfRequest
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "prompt", req.Inputs)
				assert.False(t, req.Parameters.ReturnFullText)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			out, err := NewHuggingFace(srv.URL+"/models", "hf_x", "org/model", srv.Client()).Complete(context.Background(), "prompt")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

// --- Fallback ---

func failing(msg string) Completer {
	return CompleterFunc(func(context.Context, string) (string, error) { return "", errors.New(msg) })
}

func answering(text string) Completer {
	return CompleterFunc(func(context.Context, string) (string, error) { return text, nil })
}

func TestFallback_FirstSuccessWins(t *testing.T) {
	calls := 0
	counting := CompleterFunc(func(context.Context, string) (string, error) {
		calls++
		return "second", nil
	})
	f := NewFallback(nil,
		Named{"a", failing("a down")},
		Named{"b", counting},
		Named{"c", answering("third")},
	)
	out, err := f.Complete(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "second", out)
	assert.Equal(t, 1, calls)
}

func TestFallback_JoinsAllErrors(t *testing.T) {
	sentinel := errors.New("b down")
	f := NewFallback(nil,
		Named{"a", failing("a down")},
		Named{"b", CompleterFunc(func(context.Context, string) (string, error) { return "", sentinel })},
	)
	_, err := f.Complete(context.Background(), "p")
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
	assert.Contains(t, err.Error(), "a: a down")
	assert.Contains(t, err.Error(), "b: b down")
}

func TestFallback_Empty(t *testing.T) {
	_, err := NewFallback(nil).Complete(context.Background(), "p")
	assert.ErrorIs(t, err, ErrNoBackends)
}

func TestFallback_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	f := NewFallback(nil, Named{"a", CompleterFunc(func(context.Context, string) (string, error) {
		called = true
		return "x", nil
	})})
	_, err := f.Complete(ctx, "p")
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

// --- RateLimited ---

func TestRateLimited_WaitHonoursContext(t *testing.T) {
	r := NewRateLimited(answering("ok"), 1, time.Hour)

	out, err := r.Complete(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = r.Complete(ctx, "p")
	assert.Error(t, err, "second call within the period must wait and give up")
}

func TestRateLimited_Disabled(t *testing.T) {
	r := NewRateLimited(answering("ok"), 0, time.Minute)
	for i := 0; i < 5; i++ {
		_, err := r.Complete(context.Background(), "p")
		require.NoError(t, err)
	}
}

// --- Offline ---

func TestOffline_SelectsByDomainKeyword(t *testing.T) {
	tests := []struct {
		domain string
		want   []string
	}{
		{"Population census", []string{"d1", "d2"}},
		{"Household income", []string{"e1", "e2"}},
		{"Public Health", []string{"h1", "h2"}},
		{"Economic and health", []string{"e1", "e2", "h1", "h2"}},
		{"Agriculture", []string{"d1", "e1", "h1"}},
	}
	for _, tt := range tests {
		t.Run(tt.domain, func(t *testing.T) {
			prompt := "instructions mention health and income\nDomain: " + tt.domain + "\nRegion: Bihar\nArea Type: Rural\nLanguage: Hindi\nReturn only JSON."
			out, err := NewOffline().Complete(context.Background(), prompt)
			require.NoError(t, err)

			obj, err := extract.Object(out)
			require.NoError(t, err)
			s := survey.NormalizeMap(obj)

			var ids []string
			for _, q := range s.Questions {
				ids = append(ids, q.ID)
			}
			assert.Equal(t, tt.want, ids)
			assert.Equal(t, tt.domain, s.Domain)
			assert.Equal(t, "Bihar", s.Region)
			assert.Equal(t, "Hindi", s.Language)
			assert.Equal(t, tt.domain+" Survey", s.Title)
		})
	}
}

func TestOffline_ChoiceTypesSurviveNormalization(t *testing.T) {
	out, err := NewOffline().Complete(context.Background(), "Domain: health")
	require.NoError(t, err)
	obj, err := extract.Object(out)
	require.NoError(t, err)
	s := survey.NormalizeMap(obj)

	require.Len(t, s.Questions, 2)
	assert.Equal(t, survey.TypeSingleChoice, s.Questions[0].Type)
	assert.Len(t, s.Questions[0].Options, 3)
}

func TestOffline_WithoutDomainLineUsesPrompt(t *testing.T) {
	qs := SelectBankQuestions("Create a household survey with demographic questions")
	require.Len(t, qs, 2)
	assert.Equal(t, "d1", qs[0].ID)
}

// --- FromConfig ---

func TestFromConfig(t *testing.T) {
	base := config.LLMConfig{Timeout: time.Second, RatePerMinute: 30}

	t.Run("offline", func(t *testing.T) {
		cfg := base
		cfg.Provider = config.ProviderOffline
		m := metrics.New()
		c, err := FromConfig(cfg, m, nil)
		require.NoError(t, err)
		out, err := c.Complete(context.Background(), "Domain: health")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "{"))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.ModelCalls.WithLabelValues("offline", "success")))
	})

	t.Run("openai without key", func(t *testing.T) {
		cfg := base
		cfg.Provider = config.ProviderOpenAI
		_, err := FromConfig(cfg, nil, nil)
		assert.ErrorIs(t, err, ErrMissingAPIKey)
	})

	t.Run("huggingface tries models in order", func(t *testing.T) {
		var paths []string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			paths = append(paths, r.URL.Path)
			if r.URL.Path == "/first" {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte(`[{"generated_text":"from second"}]`))
		}))
		defer srv.Close()

		cfg := base
		cfg.Provider = config.ProviderHuggingFace
		cfg.RatePerMinute = 0
		cfg.HuggingFace = config.HuggingFaceConfig{BaseURL: srv.URL, Models: []string{"first", "second"}}
		c, err := FromConfig(cfg, nil, nil)
		require.NoError(t, err)

		out, err := c.Complete(context.Background(), "p")
		require.NoError(t, err)
		assert.Equal(t, "from second", out)
		assert.Equal(t, []string{"/first", "/second"}, paths)
	})

	t.Run("unknown", func(t *testing.T) {
		cfg := base
		cfg.Provider = "gemini"
		_, err := FromConfig(cfg, nil, nil)
		assert.Error(t, err)
	})
}
