package chat

import (
	"sync"
	"time"
)

// Role is the author of a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in a transcript. Messages are never edited.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Transcript is the ordered, append-only message history of one session.
// It is safe for concurrent use.
type Transcript struct {
	mu       sync.RWMutex
	messages []Message

	// turnMu serialises turns so each one completes before the next starts.
	turnMu sync.Mutex
}

// NewTranscript returns an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append adds a message to the end of the transcript.
func (t *Transcript) Append(m Message) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	t.mu.Lock()
	t.messages = append(t.messages, m)
	t.mu.Unlock()
}

// Messages returns a copy of the transcript in order.
func (t *Transcript) Messages() []Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}
