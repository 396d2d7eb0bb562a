package llm

import "strings"

// Role is the author of a message sent to a provider.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of a completion request.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// SystemMessage returns a system-role message.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage returns a user-role message.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// CompletionRequest is a single non-streaming chat-completion call.
// A zero MaxTokens leaves the limit to the provider.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// ModelOr returns the request's model, or def when none is set.
func (r CompletionRequest) ModelOr(def string) string {
	if r.Model == "" {
		return def
	}
	return r.Model
}

// Split separates the system instructions from the conversation, for APIs
// that take the system prompt in its own field. Multiple system messages are
// joined by a blank line.
func (r CompletionRequest) Split() (system string, turns []Message) {
	var parts []string
	for _, m := range r.Messages {
		switch m.Role {
		case RoleSystem:
			parts = append(parts, m.Content)
		case RoleUser, RoleAssistant:
			turns = append(turns, m)
		}
	}
	return strings.Join(parts, "\n\n"), turns
}

// CompletionResponse is the first choice of a completion and its usage.
type CompletionResponse struct {
	Content      string
	InputTokens  int
	OutputTokens int
	Model        string
	FinishReason string
}
