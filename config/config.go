// Package config loads process-wide settings from an optional YAML file,
// overridden by environment variables. The result is resolved once at
// startup and passed explicitly to whatever needs it.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/requiem-ai/repobot/bot"
	"github.com/requiem-ai/repobot/llm"
)

type ProviderSettings struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

type Config struct {
	DefaultModel string  `yaml:"default_model"`
	Temperature  float64 `yaml:"temperature"`
	Streaming    bool    `yaml:"streaming"`
	RecordPath   string  `yaml:"record_path"`

	OpenAI  ProviderSettings `yaml:"openai"`
	Mistral ProviderSettings `yaml:"mistral"`
	Ollama  ProviderSettings `yaml:"ollama"`
}

// Load reads the config file at path, if any, on top of defaults and applies
// environment overrides. A missing file is not an error; an empty path skips
// the file entirely.
func Load(path string) (*Config, error) {
	cfg := &Config{
		DefaultModel: bot.DefaultModel,
		Streaming:    true,
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		if err == nil {
			if err := yaml.Unmarshal(raw, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if cfg.Temperature < 0 || cfg.Temperature > 1 {
		return nil, fmt.Errorf("config: temperature %v out of range [0,1]", cfg.Temperature)
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv("DEFAULT_MODEL")); v != "" {
		c.DefaultModel = v
	}
	if v := strings.TrimSpace(os.Getenv("TEMPERATURE")); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("config: parse TEMPERATURE %q: %w", v, err)
		}
		c.Temperature = t
	}
	if v := strings.TrimSpace(os.Getenv("RECORD_PATH")); v != "" {
		c.RecordPath = v
	}
	if v := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")); v != "" {
		c.OpenAI.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("MISTRAL_API_KEY")); v != "" {
		c.Mistral.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("OLLAMA_HOST")); v != "" {
		c.Ollama.BaseURL = v
	}
	return nil
}

// Providers projects the provider section into the shape the client factory
// consumes.
func (c *Config) Providers() llm.ProviderConfig {
	return llm.ProviderConfig{
		OpenAIAPIKey:   c.OpenAI.APIKey,
		OpenAIBaseURL:  c.OpenAI.BaseURL,
		MistralAPIKey:  c.Mistral.APIKey,
		MistralBaseURL: c.Mistral.BaseURL,
		OllamaBaseURL:  c.Ollama.BaseURL,
	}
}
