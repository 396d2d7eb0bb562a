package llm

import (
	"context"
	"fmt"
	"os"
)

// Well-known base URLs for OpenAI-compatible gateways.
const (
	OpenRouterBaseURL = "https://openrouter.ai/api/v1"
	MiniMaxBaseURL    = "https://api.minimax.io/v1"
)

// Options selects and configures a provider.
type Options struct {
	// Provider is one of openai, openrouter, anthropic, google, ollama, minimax.
	Provider string
	Model    string
	// BaseURL overrides the provider's default endpoint.
	BaseURL string
	// APIKey overrides the provider's conventional environment variable.
	APIKey string
}

// NewProvider creates a provider from opts. API keys are read from the
// environment unless opts.APIKey is set.
func NewProvider(opts Options) (Provider, error) {
	key := func(envVar string) (string, error) {
		if opts.APIKey != "" {
			return opts.APIKey, nil
		}
		v := os.Getenv(envVar)
		if v == "" {
			return "", fmt.Errorf("%s environment variable is not set", envVar)
		}
		return v, nil
	}

	switch opts.Provider {
	case "openai":
		apiKey, err := key("OPENAI_API_KEY")
		if err != nil {
			return nil, err
		}
		if opts.BaseURL != "" {
			return NewCompatibleProvider("openai", apiKey, opts.BaseURL, opts.Model), nil
		}
		return NewOpenAIProvider(apiKey, opts.Model), nil

	case "openrouter":
		apiKey, err := key("OPENROUTER_API_KEY")
		if err != nil {
			return nil, err
		}
		return NewCompatibleProvider("openrouter", apiKey, orDefault(opts.BaseURL, OpenRouterBaseURL), opts.Model), nil

	case "minimax":
		apiKey, err := key("MINIMAX_API_KEY")
		if err != nil {
			return nil, err
		}
		return NewCompatibleProvider("minimax", apiKey, orDefault(opts.BaseURL, MiniMaxBaseURL), opts.Model), nil

	case "anthropic":
		apiKey, err := key("ANTHROPIC_API_KEY")
		if err != nil {
			return nil, err
		}
		p := NewAnthropicProvider(apiKey, opts.Model)
		if opts.BaseURL != "" {
			p.baseURL = opts.BaseURL
		}
		return p, nil

	case "google":
		apiKey, err := key("GOOGLE_API_KEY")
		if err != nil {
			return nil, err
		}
		return NewGoogleProvider(context.Background(), apiKey, opts.BaseURL, opts.Model)

	case "ollama":
		host := opts.BaseURL
		if host == "" {
			host = os.Getenv("OLLAMA_HOST")
		}
		if host == "" {
			host = "http://localhost:11434"
		}
		return NewOllamaProvider(host, opts.Model), nil

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", opts.Provider)
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
