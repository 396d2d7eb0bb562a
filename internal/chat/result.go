package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/kepler-college/campusbot/internal/llm"
)

// Result is the outcome of one completion call: either a reply or an error.
type Result struct {
	Provider     string
	Model        string
	Reply        string
	Err          error
	InputTokens  int
	OutputTokens int
	Latency      time.Duration
}

// Failed reports whether the call produced an error.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Text is the assistant-visible content of the result. Errors are rendered as
// "Error from <Provider>: <detail>".
func (r Result) Text() string {
	if r.Err != nil {
		return fmt.Sprintf("Error from %s: %v", llm.DisplayName(r.Provider), r.Err)
	}
	return strings.TrimSpace(r.Reply)
}

// Message converts the result into an assistant transcript message.
func (r Result) Message() Message {
	return Message{Role: RoleAssistant, Content: r.Text()}
}
