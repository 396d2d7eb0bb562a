package config

import "time"

// DefaultContextFile is the spreadsheet the bot reads its Q&A pairs from.
const DefaultContextFile = "Chatbot Questions & Answers.xlsx"

// defaultModels maps each provider to the model used when none is configured.
var defaultModels = map[ProviderType]string{
	ProviderOpenAI:     "gpt-3.5-turbo",
	ProviderOpenRouter: "openai/gpt-3.5-turbo",
	ProviderAnthropic:  "claude-haiku-4-5-20251001",
	ProviderGoogle:     "gemini-2.0-flash",
	ProviderOllama:     "llama3",
	ProviderMiniMax:    "MiniMax-M2.5",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:    ProviderOpenAI,
		Model:       defaultModels[ProviderOpenAI],
		ContextFile: DefaultContextFile,
		Logo:        "kepler-logo.png",
		SecretsFile: ".env",
		Server: ServerConfig{
			Port:       8501,
			SessionTTL: 12 * time.Hour,
		},
	}
}

// DefaultModel returns the default model for the given provider, or the
// OpenAI default when the provider is unknown.
func DefaultModel(provider ProviderType) string {
	if m, ok := defaultModels[provider]; ok {
		return m
	}
	return defaultModels[ProviderOpenAI]
}
