// Package llm provides the Gemini-backed model client used for resume
// extraction and job description parsing.
package llm

// ModelTier selects how much model capability a call pays for.
type ModelTier string

const (
	// TierLite handles cheap classification and extraction calls.
	TierLite ModelTier = "lite"
	// TierStandard handles structured parsing with moderate reasoning.
	TierStandard ModelTier = "standard"
	// TierAdvanced handles the heavyweight reasoning calls.
	TierAdvanced ModelTier = "advanced"
)

// Provider identifies an LLM backend.
type Provider string

// ProviderGemini is the Google Gemini backend.
const ProviderGemini Provider = "gemini"

// Config maps model tiers to concrete model names for one provider.
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
}

// DefaultConfig returns the Gemini tier mapping.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

// GetModel resolves the model name for a tier, stepping down through
// standard and lite when the exact tier is not configured.
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}
