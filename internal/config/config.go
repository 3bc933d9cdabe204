// Package config loads runtime settings from a .env file, an optional
// config file and the process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LLM providers.
const (
	ProviderOpenAI      = "openai"
	ProviderHuggingFace = "huggingface"
	ProviderOffline     = "offline"
)

var validProviders = map[string]bool{
	ProviderOpenAI:      true,
	ProviderHuggingFace: true,
	ProviderOffline:     true,
}

// Config is the full runtime configuration.
type Config struct {
	LLM         LLMConfig
	DataDir     string
	OutputDir   string
	Log         LogConfig
	MetricsAddr string
}

// LLMConfig selects and configures the model backend.
type LLMConfig struct {
	Provider      string
	Timeout       time.Duration
	RatePerMinute int
	OpenAI        OpenAIConfig
	HuggingFace   HuggingFaceConfig
}

// OpenAIConfig configures the OpenAI-compatible chat completions backend.
type OpenAIConfig struct {
	APIKey          string
	Model           string
	BaseURL         string
	MaxOutputTokens int
}

// HuggingFaceConfig configures the Hugging Face inference backend.
type HuggingFaceConfig struct {
	Token string
	// Models are tried in order until one succeeds.
	Models  []string
	BaseURL string
}

// LogConfig configures logging.
type LogConfig struct {
	Level string
	// File enables JSON logs with rotation when non-empty.
	File string
}

// bindings maps viper keys to environment variables.
var bindings = map[string]string{
	"llm.provider":             "LLM_PROVIDER",
	"llm.timeout":              "LLM_TIMEOUT",
	"llm.rate_per_minute":      "LLM_RATE_PER_MINUTE",
	"openai.api_key":           "OPENAI_API_KEY",
	"openai.model":             "OPENAI_MODEL",
	"openai.base_url":          "OPENAI_BASE_URL",
	"openai.max_output_tokens": "OPENAI_MAX_OUTPUT_TOKENS",
	"huggingface.token":        "HUGGINGFACEHUB_API_TOKEN",
	"huggingface.model":        "HF_MODEL",
	"huggingface.models":       "HF_MODELS",
	"huggingface.base_url":     "HF_BASE_URL",
	"data_dir":                 "MOSPI_DATA_DIR",
	"output_dir":               "MOSPI_OUTPUT_DIR",
	"log.level":                "MOSPI_LOG_LEVEL",
	"log.file":                 "MOSPI_LOG_FILE",
	"metrics.addr":             "MOSPI_METRICS_ADDR",
}

func setDefaults(v *viper.Viper) {
	home, _ := os.UserHomeDir()

	v.SetDefault("llm.provider", ProviderHuggingFace)
	v.SetDefault("llm.timeout", 60*time.Second)
	v.SetDefault("llm.rate_per_minute", 30)
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.max_output_tokens", 5000)
	v.SetDefault("huggingface.model", "microsoft/DialoGPT-medium")
	v.SetDefault("huggingface.base_url", "https://api-inference.huggingface.co/models")
	v.SetDefault("data_dir", filepath.Join(home, ".mospi"))
	v.SetDefault("output_dir", "outputs")
	v.SetDefault("log.level", "info")
}

// Load reads configuration. Values in envFile (ignored when missing) are
// exported to the environment without overriding variables already set.
// configFile, when non-empty, is read as a yaml/json/toml file whose keys
// mirror the viper keys; environment variables take precedence over it.
func Load(envFile, configFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	cfg := &Config{
		LLM: LLMConfig{
			Provider:      strings.ToLower(strings.TrimSpace(v.GetString("llm.provider"))),
			Timeout:       v.GetDuration("llm.timeout"),
			RatePerMinute: v.GetInt("llm.rate_per_minute"),
			OpenAI: OpenAIConfig{
				APIKey:          v.GetString("openai.api_key"),
				Model:           v.GetString("openai.model"),
				BaseURL:         strings.TrimRight(v.GetString("openai.base_url"), "/"),
				MaxOutputTokens: v.GetInt("openai.max_output_tokens"),
			},
			HuggingFace: HuggingFaceConfig{
				Token:   v.GetString("huggingface.token"),
				Models:  splitModels(v.GetString("huggingface.models"), v.GetString("huggingface.model")),
				BaseURL: strings.TrimRight(v.GetString("huggingface.base_url"), "/"),
			},
		},
		DataDir:     v.GetString("data_dir"),
		OutputDir:   v.GetString("output_dir"),
		MetricsAddr: v.GetString("metrics.addr"),
		Log: LogConfig{
			Level: strings.ToLower(v.GetString("log.level")),
			File:  v.GetString("log.file"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if !validProviders[c.LLM.Provider] {
		return fmt.Errorf("invalid LLM_PROVIDER %q: must be one of: openai, huggingface, offline", c.LLM.Provider)
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("invalid LLM_TIMEOUT %s: must be positive", c.LLM.Timeout)
	}
	if c.LLM.RatePerMinute < 0 {
		return fmt.Errorf("invalid LLM_RATE_PER_MINUTE %d: must not be negative", c.LLM.RatePerMinute)
	}
	if c.LLM.OpenAI.MaxOutputTokens <= 0 {
		return fmt.Errorf("invalid OPENAI_MAX_OUTPUT_TOKENS %d: must be positive", c.LLM.OpenAI.MaxOutputTokens)
	}
	if c.DataDir == "" {
		return errors.New("MOSPI_DATA_DIR must not be empty")
	}
	if c.OutputDir == "" {
		return errors.New("MOSPI_OUTPUT_DIR must not be empty")
	}
	return nil
}

// splitModels parses a comma-separated model list, falling back to the
// single default model when the list is empty.
func splitModels(list, fallback string) []string {
	var out []string
	for _, m := range strings.Split(list, ",") {
		if m = strings.TrimSpace(m); m != "" {
			out = append(out, m)
		}
	}
	if len(out) == 0 && fallback != "" {
		out = []string{fallback}
	}
	return out
}
