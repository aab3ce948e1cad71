package llm

import (
	"context"
	"fmt"

	"github.com/arlab/arlab/internal/logging"
	"github.com/arlab/arlab/internal/store"
)

// NewProvider builds the configured provider wrapped as
// caller → retry → recorder → backend. events may be nil.
func NewProvider(ctx context.Context, cfg Config, events store.EventRepo, logger *logging.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger = logger.OrNop()

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderMock:
		return NewMockProvider(), nil
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderOpenRouter:
		km := cfg.OpenRouter
		if km.BaseURL == "" {
			km.BaseURL = defaultOpenRouterBaseURL
		}
		base, err = NewOpenAIProvider(km)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	logger.Info("llm provider ready", "provider", cfg.Provider, "model", base.ModelID())
	recorded := WithRecorder(base, cfg.Provider, events, logger)
	return WithRetry(recorded, cfg.Retry, logger), nil
}
