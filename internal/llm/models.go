package llm

// ModelCost is USD per million tokens.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost returns the USD cost of the given token counts.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)*c.InputPerMTok + float64(outputTokens)*c.OutputPerMTok) / 1_000_000
}

type knownModel struct {
	provider string
	alias    string
	id       string
	cost     ModelCost
}

// knownModels lists what each selectable provider can be pointed at by
// alias, and the price of every model DefaultConfig picks. Other IDs pass
// through to the provider unpriced.
var knownModels = []knownModel{
	{ProviderAnthropic, "claude-haiku", "claude-haiku-4-5-20251001", ModelCost{1, 5}},
	{ProviderAnthropic, "claude-sonnet", "claude-sonnet-4-20250514", ModelCost{3, 15}},
	{ProviderOpenAI, "", "gpt-4o-mini", ModelCost{0.15, 0.6}},
	{ProviderOpenAI, "", "gpt-4o", ModelCost{2.5, 10}},
	{ProviderGemini, "gemini-flash", "gemini-2.0-flash", ModelCost{0.1, 0.4}},
	{ProviderGemini, "gemini-pro", "gemini-2.5-pro", ModelCost{1.25, 10}},
	{ProviderOpenRouter, "", "google/gemini-2.0-flash-001", ModelCost{0.1, 0.4}},
}

// ResolveModel maps a provider's short alias to its full model ID. Unknown
// names pass through unchanged.
func ResolveModel(provider, name string) string {
	for _, m := range knownModels {
		if m.provider == provider && m.alias != "" && m.alias == name {
			return m.id
		}
	}
	return name
}

// LookupCost returns pricing for a model ID as recorded in the request log,
// or nil if it is not listed.
func LookupCost(modelID string) *ModelCost {
	for _, m := range knownModels {
		if m.id == modelID {
			c := m.cost
			return &c
		}
	}
	return nil
}
