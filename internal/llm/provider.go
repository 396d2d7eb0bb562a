package llm

import "context"

// Provider defines the interface for hosted chat-completion providers.
type Provider interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name returns the name of this provider.
	Name() string
}

var displayNames = map[string]string{
	"openai":     "OpenAI",
	"openrouter": "OpenRouter",
	"anthropic":  "Anthropic",
	"google":     "Google Gemini",
	"ollama":     "Ollama",
	"minimax":    "MiniMax",
}

// DisplayName returns the human-readable label for a provider name, as used
// in user-facing error messages. Unknown names are returned unchanged.
func DisplayName(name string) string {
	if d, ok := displayNames[name]; ok {
		return d
	}
	return name
}
