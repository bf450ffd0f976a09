package llm

// Provider identifies an LLM provider.
type Provider string

const (
	// ProviderGemini is Google Gemini (the default provider).
	ProviderGemini Provider = "gemini"
)

// ModelTier selects a model by role rather than by name. The interviewer's
// voice uses the full tier; short classification and evaluation judgments
// use the lite tier.
type ModelTier string

const (
	// TierFull is the conversational interviewer model.
	TierFull ModelTier = "full"
	// TierLite is the cheaper model for binary judgments and scoring.
	TierLite ModelTier = "lite"
)

// Config holds provider selection and per-tier model names.
type Config struct {
	Provider Provider             `json:"provider"`
	Models   map[ModelTier]string `json:"models"`
}

// DefaultConfig returns the default Gemini configuration.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierFull: "gemini-2.5-pro",
			TierLite: "gemini-2.5-flash",
		},
	}
}

// GetModel returns the model name configured for a tier, or "" when the
// tier is unknown.
func (c *Config) GetModel(tier ModelTier) string {
	if c.Models == nil {
		return ""
	}
	return c.Models[tier]
}
