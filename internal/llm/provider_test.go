package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProvider_ReplaysScript(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5}},
		MockResponse{Err: errors.New("scripted")},
	)
	ctx := context.Background()

	resp, err := mock.Generate(ctx, Request{Messages: []Message{{Role: RoleUser, Content: "first"}}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(resp.Content))
	assert.Equal(t, 10, resp.Usage.InputTokens)
	assert.Equal(t, "end", resp.StopReason)

	_, err = mock.Generate(ctx, Request{})
	assert.EqualError(t, err, "scripted")

	_, err = mock.Generate(ctx, Request{})
	var unavailable *ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavailable)

	calls := mock.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, "first", calls[0].Messages[0].Content)
	assert.Equal(t, "mock", mock.ModelID())
}

func TestPurposeContext(t *testing.T) {
	assert.Equal(t, "unknown", PurposeFrom(context.Background()))
	assert.Equal(t, "explain", PurposeFrom(WithPurpose(context.Background(), "explain")))
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"mock needs nothing", func(c *Config) { c.Provider = ProviderMock }, false},
		{"anthropic without key", func(c *Config) { c.Provider = ProviderAnthropic }, true},
		{"anthropic with key", func(c *Config) { c.Provider = ProviderAnthropic; c.Anthropic.APIKey = "k" }, false},
		{"openai with key", func(c *Config) { c.Provider = ProviderOpenAI; c.OpenAI.APIKey = "k" }, false},
		{"gemini without key", func(c *Config) { c.Provider = ProviderGemini }, true},
		{"openrouter with key", func(c *Config) { c.Provider = ProviderOpenRouter; c.OpenRouter.APIKey = "k" }, false},
		{"unknown provider", func(c *Config) { c.Provider = "llama" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDiscoverConfig(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}

	_, ok := DiscoverConfig()
	assert.False(t, ok)

	t.Setenv("ANTHROPIC_API_KEY", "a-key")
	cfg, ok := DiscoverConfig()
	require.True(t, ok)
	assert.Equal(t, ProviderAnthropic, cfg.Provider)
	assert.Equal(t, "a-key", cfg.Anthropic.APIKey)

	// Gemini wins when several keys are present.
	t.Setenv("GEMINI_API_KEY", "g-key")
	cfg, ok = DiscoverConfig()
	require.True(t, ok)
	assert.Equal(t, ProviderGemini, cfg.Provider)
}

func TestNewProvider_Mock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = ProviderMock
	p, err := NewProvider(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "mock", p.ModelID())
}

func TestNewProvider_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = ProviderOpenAI
	_, err := NewProvider(context.Background(), cfg, nil, nil)
	assert.Error(t, err)
}

func TestNewProvider_OpenRouterUsesOpenAIClient(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = ProviderOpenRouter
	cfg.OpenRouter.APIKey = "k"
	p, err := NewProvider(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "google/gemini-2.0-flash-001", p.ModelID())
}

func TestLookupCost(t *testing.T) {
	c := LookupCost("gpt-4o-mini")
	require.NotNil(t, c)
	assert.InDelta(t, 0.15+0.6, c.Cost(1_000_000, 1_000_000), 1e-9)
	assert.Nil(t, LookupCost("no-such-model"))
	assert.Nil(t, LookupCost("claude-haiku"), "aliases are resolved before logging")
}

func TestDefaultModelsArePriced(t *testing.T) {
	cfg := DefaultConfig()
	for provider, km := range map[string]KeyModel{
		ProviderAnthropic:  cfg.Anthropic,
		ProviderOpenAI:     cfg.OpenAI,
		ProviderGemini:     cfg.Gemini,
		ProviderOpenRouter: cfg.OpenRouter,
	} {
		id := ResolveModel(provider, km.Model)
		assert.NotNil(t, LookupCost(id), "%s default %q (%s) has no price", provider, km.Model, id)
	}
}
