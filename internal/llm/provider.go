// Package llm hides LLM provider differences behind operation-specific
// ports (see internal/domain/ports) and selects a model per orchestration
// role, using CloudWeGo Eino adapters the way the teacher wires them.
package llm

import "time"

// Provider identifies a recognized LLM backend.
type Provider string

const (
	ProviderOpenAI    Provider = "OpenAI"
	ProviderAnthropic Provider = "Anthropic"
	ProviderOllama    Provider = "Ollama"
	ProviderMistral   Provider = "Mistral"
	ProviderGroq      Provider = "Groq"
	ProviderCustom    Provider = "Custom" // named custom fallback, wired to the Gemini adapter
)

// ProviderConfig is the per-provider configuration from config.providers[name].
type ProviderConfig struct {
	Name           string   `json:"-" yaml:"-"`
	Type           Provider `json:"provider_type" yaml:"provider_type"`
	CustomName     string   `json:"custom_name,omitempty" yaml:"custom_name,omitempty"` // set when Type == ProviderCustom
	BaseURL        string   `json:"base_url" yaml:"base_url"`
	APIKeyEnv      string   `json:"api_key_env,omitempty" yaml:"api_key_env,omitempty"` // env var name holding the key; never stored on disk
	TimeoutSeconds int      `json:"timeout_seconds" yaml:"timeout_seconds"`
	MaxRetries     int      `json:"max_retries" yaml:"max_retries"`
	DefaultModel   string   `json:"default_model" yaml:"default_model"`
}

// Timeout returns the configured timeout, defaulting to 120s if unset.
func (c *ProviderConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 120 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DefaultProviderConfigs returns the exact V0/V2 defaults carried over from
// original_source's config migration: an Ollama entry pointing at the local
// daemon. Other providers have no default and must be configured explicitly.
func DefaultProviderConfigs() map[string]ProviderConfig {
	return map[string]ProviderConfig{
		"ollama": {
			Name:           "ollama",
			Type:           ProviderOllama,
			BaseURL:        "http://localhost:11434",
			TimeoutSeconds: 120,
			MaxRetries:     2,
			DefaultModel:   "llama3.2",
		},
	}
}
