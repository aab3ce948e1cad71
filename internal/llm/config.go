package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// Config selects and configures one provider.
type Config struct {
	Provider string

	Anthropic  KeyModel
	OpenAI     KeyModel
	Gemini     KeyModel
	OpenRouter KeyModel

	Retry RetryConfig

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration
}

// KeyModel is the per-provider credential and model choice. BaseURL is
// only used by OpenAI-compatible providers.
type KeyModel struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig is exponential backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig uses small, cheap models; explanations are short.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderAnthropic,
		Anthropic:  KeyModel{Model: "claude-haiku"},
		OpenAI:     KeyModel{Model: "gpt-4o-mini"},
		Gemini:     KeyModel{Model: "gemini-flash"},
		OpenRouter: KeyModel{Model: "google/gemini-2.0-flash-001", BaseURL: defaultOpenRouterBaseURL},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 30 * time.Second,
	}
}

// DiscoverConfig looks for a provider's standard API key variable, in the
// order Gemini, OpenAI, Anthropic, OpenRouter, and returns a default
// Config for the first one found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()
	probes := []struct {
		env      string
		provider string
		target   *KeyModel
	}{
		{"GEMINI_API_KEY", ProviderGemini, &cfg.Gemini},
		{"OPENAI_API_KEY", ProviderOpenAI, &cfg.OpenAI},
		{"ANTHROPIC_API_KEY", ProviderAnthropic, &cfg.Anthropic},
		{"OPENROUTER_API_KEY", ProviderOpenRouter, &cfg.OpenRouter},
	}
	for _, p := range probes {
		if k := os.Getenv(p.env); k != "" {
			cfg.Provider = p.provider
			p.target.APIKey = k
			return cfg, true
		}
	}
	return Config{}, false
}

// Validate checks the selected provider has a key.
func (c Config) Validate() error {
	var km KeyModel
	switch c.Provider {
	case ProviderMock:
		return nil
	case ProviderAnthropic:
		km = c.Anthropic
	case ProviderOpenAI:
		km = c.OpenAI
	case ProviderGemini:
		km = c.Gemini
	case ProviderOpenRouter:
		km = c.OpenRouter
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if km.APIKey == "" {
		return fmt.Errorf("llm.%s.api_key is required for the %s provider", c.Provider, c.Provider)
	}
	return nil
}
