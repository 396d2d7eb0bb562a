// Package chat implements CampusBot's turn handling: it builds the prompt from
// the static Q&A context, calls the configured provider, and appends the
// outcome to a session transcript.
package chat

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/kepler-college/campusbot/internal/llm"
)

// TurnRecord describes a completed turn for the audit log.
type TurnRecord struct {
	SessionID    string
	Provider     string
	Model        string
	Question     string
	Answer       string
	IsError      bool
	InputTokens  int
	OutputTokens int
	Latency      time.Duration
}

// Recorder persists completed turns. Implementations must be safe for
// concurrent use.
type Recorder interface {
	RecordTurn(ctx context.Context, rec TurnRecord) error
}

// Bot answers questions using a fixed context blob and a provider.
type Bot struct {
	provider    llm.Provider
	model       string
	contextBlob string
	recorder    Recorder
}

// NewBot creates a Bot. The context blob is injected into every prompt.
func NewBot(provider llm.Provider, model, contextBlob string) *Bot {
	return &Bot{
		provider:    provider,
		model:       model,
		contextBlob: contextBlob,
	}
}

// WithRecorder attaches a turn recorder and returns the bot.
func (b *Bot) WithRecorder(r Recorder) *Bot {
	b.recorder = r
	return b
}

// Provider returns the underlying provider.
func (b *Bot) Provider() llm.Provider { return b.provider }

// Model returns the configured model identifier.
func (b *Bot) Model() string { return b.model }

// Context returns the static context blob.
func (b *Bot) Context() string { return b.contextBlob }

// Ask performs a single completion call for question. It never returns an
// error directly; failures are carried in the Result.
func (b *Bot) Ask(ctx context.Context, question string) Result {
	res := Result{Provider: b.provider.Name(), Model: b.model}

	start := time.Now()
	resp, err := b.provider.Complete(ctx, BuildRequest(b.model, b.contextBlob, question))
	res.Latency = time.Since(start)
	if err != nil {
		res.Err = err
		return res
	}

	res.Reply = resp.Content
	res.InputTokens = resp.InputTokens
	res.OutputTokens = resp.OutputTokens
	if resp.Model != "" {
		res.Model = resp.Model
	}
	return res
}

// Turn appends the user's question to t, asks the provider, and appends the
// assistant reply (or the error text). Blank questions are ignored and
// reported with ok == false. Turns on the same transcript run one at a time.
func (b *Bot) Turn(ctx context.Context, sessionID string, t *Transcript, question string) (reply Message, ok bool) {
	if strings.TrimSpace(question) == "" {
		return Message{}, false
	}

	t.turnMu.Lock()
	defer t.turnMu.Unlock()

	t.Append(Message{Role: RoleUser, Content: question})

	res := b.Ask(ctx, question)
	reply = res.Message()
	t.Append(reply)

	if res.Failed() {
		log.Printf("chat: session %s: %s call failed after %s: %v", sessionID, res.Provider, res.Latency.Round(time.Millisecond), res.Err)
	} else {
		log.Printf("chat: session %s: %s/%s answered in %s (%d in, %d out, ~$%.5f)",
			sessionID, res.Provider, res.Model, res.Latency.Round(time.Millisecond),
			res.InputTokens, res.OutputTokens, llm.EstimateCost(res.Model, res.InputTokens, res.OutputTokens))
	}

	b.record(ctx, sessionID, question, res)
	return reply, true
}

func (b *Bot) record(ctx context.Context, sessionID, question string, res Result) {
	if b.recorder == nil {
		return
	}
	rec := TurnRecord{
		SessionID:    sessionID,
		Provider:     res.Provider,
		Model:        res.Model,
		Question:     question,
		Answer:       res.Text(),
		IsError:      res.Failed(),
		InputTokens:  res.InputTokens,
		OutputTokens: res.OutputTokens,
		Latency:      res.Latency,
	}
	if rec.InputTokens == 0 && !rec.IsError {
		rec.InputTokens = llm.EstimateTokens(SystemPrompt + BuildPrompt(b.contextBlob, question))
	}
	// A failed audit write must not affect the user's turn.
	if err := b.recorder.RecordTurn(context.WithoutCancel(ctx), rec); err != nil {
		log.Printf("chat: recording turn: %v", err)
	}
}
