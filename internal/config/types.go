package config

import "time"

// ProviderType identifies a hosted chat-completion provider.
type ProviderType string

const (
	ProviderOpenAI     ProviderType = "openai"
	ProviderOpenRouter ProviderType = "openrouter"
	ProviderAnthropic  ProviderType = "anthropic"
	ProviderGoogle     ProviderType = "google"
	ProviderOllama     ProviderType = "ollama"
	ProviderMiniMax    ProviderType = "minimax"
)

// Config is the top-level campusbot configuration, corresponding to .campusbot.yml.
type Config struct {
	Provider    ProviderType `yaml:"provider" koanf:"provider"`
	Model       string       `yaml:"model" koanf:"model"`
	BaseURL     string       `yaml:"base_url,omitempty" koanf:"base_url"`
	ContextFile string       `yaml:"context_file" koanf:"context_file"`
	Logo        string       `yaml:"logo" koanf:"logo"`
	SecretsFile string       `yaml:"secrets_file" koanf:"secrets_file"`
	Server      ServerConfig `yaml:"server" koanf:"server"`
	// RateLimitRPM caps outbound completion calls per minute. Zero disables it.
	RateLimitRPM int `yaml:"rate_limit_rpm" koanf:"rate_limit_rpm"`
	// AuditDB is the SQLite path for the turn log. Empty disables it.
	AuditDB string `yaml:"audit_db,omitempty" koanf:"audit_db"`
}

// ServerConfig holds settings for the web UI.
type ServerConfig struct {
	Port            int           `yaml:"port" koanf:"port"`
	SessionTTL      time.Duration `yaml:"session_ttl" koanf:"session_ttl"`
	AllowAllOrigins bool          `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	// ExposeAudit mounts /api/audit. The log holds every session's turns
	// and the API has no authentication.
	ExposeAudit bool `yaml:"expose_audit" koanf:"expose_audit"`
}
