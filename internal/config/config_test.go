package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every bound variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range bindings {
		t.Setenv(env, "")
		require.NoError(t, os.Unsetenv(env))
	}
}

// --- Defaults ---

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("", "")
	require.NoError(t, err)

	assert.Equal(t, ProviderHuggingFace, cfg.LLM.Provider)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 30, cfg.LLM.RatePerMinute)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.OpenAI.Model)
	assert.Equal(t, 5000, cfg.LLM.OpenAI.MaxOutputTokens)
	assert.Equal(t, []string{"microsoft/DialoGPT-medium"}, cfg.LLM.HuggingFace.Models)
	assert.Equal(t, "outputs", cfg.OutputDir)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.MetricsAddr)
	assert.Equal(t, ".mospi", filepath.Base(cfg.DataDir))
}

// --- Environment ---

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", " OpenAI ")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:8080/v1/")
	t.Setenv("OPENAI_MAX_OUTPUT_TOKENS", "1200")
	t.Setenv("HF_MODELS", "a/one, b/two ,,")
	t.Setenv("LLM_TIMEOUT", "5s")
	t.Setenv("MOSPI_METRICS_ADDR", ":9100")

	cfg, err := Load("", "")
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "sk-test", cfg.LLM.OpenAI.APIKey)
	assert.Equal(t, "http://localhost:8080/v1", cfg.LLM.OpenAI.BaseURL)
	assert.Equal(t, 1200, cfg.LLM.OpenAI.MaxOutputTokens)
	assert.Equal(t, []string{"a/one", "b/two"}, cfg.LLM.HuggingFace.Models)
	assert.Equal(t, 5*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, ":9100", cfg.MetricsAddr)
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("LLM_PROVIDER=offline\nOPENAI_MODEL=from-file\n"), 0o644))
	t.Setenv("OPENAI_MODEL", "from-env")

	cfg, err := Load(envFile, "")
	require.NoError(t, err)

	assert.Equal(t, ProviderOffline, cfg.LLM.Provider)
	assert.Equal(t, "from-env", cfg.LLM.OpenAI.Model)
}

func TestLoad_MissingDotEnvIsIgnored(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "absent.env"), "")
	assert.NoError(t, err)
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "mospi.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm:\n  provider: offline\noutput_dir: /tmp/out\n"), 0o644))

	cfg, err := Load("", path)
	require.NoError(t, err)
	assert.Equal(t, ProviderOffline, cfg.LLM.Provider)
	assert.Equal(t, "/tmp/out", cfg.OutputDir)
}

// --- Validation ---

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		env   string
		value string
	}{
		{"LLM_PROVIDER", "gemini"},
		{"LLM_TIMEOUT", "-1s"},
		{"LLM_RATE_PER_MINUTE", "-5"},
		{"OPENAI_MAX_OUTPUT_TOKENS", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.env, tt.value)
			_, err := Load("", "")
			assert.Error(t, err)
		})
	}
}

func TestSplitModels(t *testing.T) {
	assert.Equal(t, []string{"x"}, splitModels("", "x"))
	assert.Equal(t, []string{"a", "b"}, splitModels("a,b", "x"))
	assert.Nil(t, splitModels(" , ", ""))
}
