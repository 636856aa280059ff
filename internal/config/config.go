// Package config loads agentops configuration from
// .agentops/config.json with environment-variable overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// LLMConfig configures the decision-model client.
type LLMConfig struct {
	// APIKey for the chat endpoint. Empty disables the model path and
	// the deterministic rule backend is used alone.
	APIKey string `json:"api_key"`

	BaseURL string `json:"base_url"`
	Model   string `json:"model"`

	// TimeoutSeconds bounds each model call; expiry is treated like
	// any other caught failure.
	TimeoutSeconds int `json:"timeout_seconds"`

	// UseMocks forces the deterministic rule backend even when an API
	// key is present.
	UseMocks bool `json:"use_mocks"`
}

// MemoryConfig configures the long-term-memory layer.
type MemoryConfig struct {
	Enabled bool   `json:"enabled"`
	Dir     string `json:"dir"`

	// EmbedProvider: "ollama", "genai" or "" (keyword ranking only).
	EmbedProvider  string `json:"embed_provider"`
	OllamaEndpoint string `json:"ollama_endpoint"`
	OllamaModel    string `json:"ollama_model"`
	GenAIAPIKey    string `json:"genai_api_key"`
	GenAIModel     string `json:"genai_model"`
}

// LoggingConfig mirrors the logging package's file config.
type LoggingConfig struct {
	DebugMode  bool            `json:"debug_mode"`
	Categories map[string]bool `json:"categories,omitempty"`
	Level      string          `json:"level"`
	JSONFormat bool            `json:"json_format"`
}

// KBConfig configures the static knowledge base.
type KBConfig struct {
	// Path to a YAML override file; empty uses the built-in entries.
	Path string `json:"path"`
	// Watch reloads the file on change.
	Watch bool `json:"watch"`
}

// Config is the root configuration.
type Config struct {
	LLM     LLMConfig     `json:"llm"`
	Memory  MemoryConfig  `json:"memory"`
	Logging LoggingConfig `json:"logging"`
	KB      KBConfig      `json:"kb"`
}

// DefaultConfig returns sensible defaults: mock decision backend,
// memory enabled under .agentops/ltm, keyword-only ranking.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			BaseURL:        "https://api.openai.com/v1",
			Model:          "gpt-4o-mini",
			TimeoutSeconds: 60,
			UseMocks:       true,
		},
		Memory: MemoryConfig{
			Enabled:        true,
			Dir:            filepath.Join(".agentops", "ltm"),
			OllamaEndpoint: "http://localhost:11434",
			OllamaModel:    "embeddinggemma",
			GenAIModel:     "gemini-embedding-001",
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads .agentops/config.json under the workspace, falling back
// to defaults when the file is absent, then applies env overrides.
func Load(workspace string) (*Config, error) {
	cfg := DefaultConfig()

	path := filepath.Join(workspace, ".agentops", "config.json")
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides lets environment variables win over the file, so
// secrets stay out of config.json.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("AGENTOPS_LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("AGENTOPS_LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("AGENTOPS_LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("AGENTOPS_USE_MOCKS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.LLM.UseMocks = b
		}
	}
	if v := os.Getenv("AGENTOPS_MEMORY_DIR"); v != "" {
		cfg.Memory.Dir = v
	}
	if v := os.Getenv("AGENTOPS_EMBED_PROVIDER"); v != "" {
		cfg.Memory.EmbedProvider = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" && cfg.Memory.GenAIAPIKey == "" {
		cfg.Memory.GenAIAPIKey = v
	}
}

// Save writes the config back to .agentops/config.json.
func (c *Config) Save(workspace string) error {
	dir := filepath.Join(workspace, ".agentops")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}
