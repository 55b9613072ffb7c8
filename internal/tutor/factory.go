package tutor

import "fmt"

// ProviderConfig selects and configures the generation backend.
type ProviderConfig struct {
	Provider string // "mock", "anthropic", "openai"
	APIKey   string
	Model    string
	BaseURL  string // OpenAI-compatible endpoints only
}

// NewProvider creates a Provider from configuration.
func NewProvider(cfg ProviderConfig) (Provider, error) {
	switch cfg.Provider {
	case "", "mock":
		return NewMockProvider(), nil
	case "anthropic":
		return NewAnthropicProvider(cfg.APIKey, cfg.Model)
	case "openai":
		return NewOpenAIProvider(cfg.APIKey, cfg.Model, cfg.BaseURL)
	default:
		return nil, fmt.Errorf("unknown tutor provider: %q", cfg.Provider)
	}
}
