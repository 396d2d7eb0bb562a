// Package audit keeps an optional log of chat turns in SQLite so operators can
// review what students asked and how the provider behaved.
package audit

import "time"

// Entry is a single recorded turn.
type Entry struct {
	ID           string        `json:"id"`
	SessionID    string        `json:"session_id"`
	Provider     string        `json:"provider"`
	Model        string        `json:"model"`
	Question     string        `json:"question"`
	Answer       string        `json:"answer"`
	IsError      bool          `json:"is_error"`
	InputTokens  int           `json:"input_tokens"`
	OutputTokens int           `json:"output_tokens"`
	Latency      time.Duration `json:"latency_ns"`
	CreatedAt    time.Time     `json:"created_at"`
}

// Stats summarises the turn log.
type Stats struct {
	Turns        int     `json:"turns"`
	Errors       int     `json:"errors"`
	Sessions     int     `json:"sessions"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	AvgLatencyMS float64 `json:"avg_latency_ms"`
}
