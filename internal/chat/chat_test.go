package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kepler-college/campusbot/internal/knowledge"
	"github.com/kepler-college/campusbot/internal/llm"
)

type stubProvider struct {
	mu    sync.Mutex
	name  string
	reply string
	err   error
	calls []llm.CompletionRequest
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Complete(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, req)
	if s.err != nil {
		return nil, s.err
	}
	return &llm.CompletionResponse{Content: s.reply, InputTokens: 40, OutputTokens: 5, Model: "gpt-3.5-turbo"}, nil
}

type memRecorder struct {
	mu   sync.Mutex
	recs []TurnRecord
}

func (m *memRecorder) RecordTurn(_ context.Context, rec TurnRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs = append(m.recs, rec)
	return nil
}

const visitingContext = "Q: What are visiting hours?\nA: 9am-5pm"

func TestBuildPromptInjectsContext(t *testing.T) {
	ctxBlob := knowledge.BuildContext([]knowledge.QAEntry{{Question: "What are visiting hours?", Answer: "9am-5pm"}})
	prompt := BuildPrompt(ctxBlob, "What are visiting hours?")

	assert.Contains(t, prompt, "Q: What are visiting hours?\nA: 9am-5pm")
	assert.Equal(t,
		"You are Kepler CampusBot. Use this Q&A to help answer:\nQ: What are visiting hours?\nA: 9am-5pm\n\nUser: What are visiting hours?\nAnswer:",
		prompt)
}

func TestBuildRequest(t *testing.T) {
	req := BuildRequest("gpt-3.5-turbo", visitingContext, "hi")

	require.Len(t, req.Messages, 2)
	assert.Equal(t, llm.RoleSystem, req.Messages[0].Role)
	assert.Equal(t, SystemPrompt, req.Messages[0].Content)
	assert.Equal(t, llm.RoleUser, req.Messages[1].Role)
	assert.Equal(t, 0.5, req.Temperature)
	assert.Equal(t, "gpt-3.5-turbo", req.Model)
}

func TestTurnAppendsUserThenAssistant(t *testing.T) {
	p := &stubProvider{name: "openai", reply: "\n  Visiting hours are 9am-5pm.  \n"}
	bot := NewBot(p, "gpt-3.5-turbo", visitingContext)
	tr := NewTranscript()

	reply, ok := bot.Turn(context.Background(), "s1", tr, "What are visiting hours?")
	require.True(t, ok)

	msgs := tr.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, RoleUser, msgs[0].Role)
	assert.Equal(t, "What are visiting hours?", msgs[0].Content)
	assert.Equal(t, RoleAssistant, msgs[1].Role)
	assert.Equal(t, "Visiting hours are 9am-5pm.", msgs[1].Content)
	assert.Equal(t, msgs[1].Content, reply.Content)

	require.Len(t, p.calls, 1)
	assert.Contains(t, p.calls[0].Messages[1].Content, visitingContext)
}

func TestTurnIgnoresBlankInput(t *testing.T) {
	p := &stubProvider{name: "openai", reply: "x"}
	bot := NewBot(p, "gpt-3.5-turbo", visitingContext)
	tr := NewTranscript()

	for _, q := range []string{"", "   ", "\n\t"} {
		_, ok := bot.Turn(context.Background(), "s1", tr, q)
		assert.False(t, ok)
	}
	assert.Equal(t, 0, tr.Len())
	assert.Empty(t, p.calls)
}

func TestTurnErrorBecomesAssistantMessage(t *testing.T) {
	p := &stubProvider{name: "openai", err: errors.New("You exceeded your current quota")}
	bot := NewBot(p, "gpt-3.5-turbo", visitingContext)
	tr := NewTranscript()

	reply, ok := bot.Turn(context.Background(), "s1", tr, "hello")
	require.True(t, ok)
	assert.Equal(t, RoleAssistant, reply.Role)
	assert.Equal(t, "Error from OpenAI: You exceeded your current quota", reply.Content)

	// The session keeps working once the provider recovers.
	p.err = nil
	p.reply = "recovered"
	reply, ok = bot.Turn(context.Background(), "s1", tr, "again")
	require.True(t, ok)
	assert.Equal(t, "recovered", reply.Content)

	msgs := tr.Messages()
	require.Len(t, msgs, 4)
	assert.Equal(t, []Role{RoleUser, RoleAssistant, RoleUser, RoleAssistant},
		[]Role{msgs[0].Role, msgs[1].Role, msgs[2].Role, msgs[3].Role})
}

func TestTurnGrowsTranscriptByTwo(t *testing.T) {
	p := &stubProvider{name: "openrouter", reply: "ok"}
	bot := NewBot(p, "m", visitingContext)
	tr := NewTranscript()

	for i := 1; i <= 5; i++ {
		before := tr.Len()
		_, ok := bot.Turn(context.Background(), "s1", tr, "question")
		require.True(t, ok)
		assert.Equal(t, before+2, tr.Len())
	}
}

func TestConcurrentTurnsStayPaired(t *testing.T) {
	p := &stubProvider{name: "openai", reply: "ok"}
	bot := NewBot(p, "m", visitingContext)
	tr := NewTranscript()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bot.Turn(context.Background(), "s1", tr, "q")
		}()
	}
	wg.Wait()

	msgs := tr.Messages()
	require.Len(t, msgs, 40)
	for i := 0; i < len(msgs); i += 2 {
		assert.Equal(t, RoleUser, msgs[i].Role, "message %d", i)
		assert.Equal(t, RoleAssistant, msgs[i+1].Role, "message %d", i+1)
	}
}

func TestTurnRecordsAudit(t *testing.T) {
	p := &stubProvider{name: "openai", err: errors.New("boom")}
	rec := &memRecorder{}
	bot := NewBot(p, "gpt-3.5-turbo", visitingContext).WithRecorder(rec)

	bot.Turn(context.Background(), "sess-9", NewTranscript(), "hello")

	require.Len(t, rec.recs, 1)
	got := rec.recs[0]
	assert.Equal(t, "sess-9", got.SessionID)
	assert.True(t, got.IsError)
	assert.Equal(t, "hello", got.Question)
	assert.True(t, strings.HasPrefix(got.Answer, "Error from OpenAI: "))
}

func TestResultText(t *testing.T) {
	assert.Equal(t, "hi", Result{Provider: "openai", Reply: "  hi\n"}.Text())
	assert.Equal(t, "Error from OpenRouter: 401 unauthorized",
		Result{Provider: "openrouter", Err: errors.New("401 unauthorized")}.Text())
}

func TestMessagesReturnsCopy(t *testing.T) {
	tr := NewTranscript()
	tr.Append(Message{Role: RoleUser, Content: "a"})

	msgs := tr.Messages()
	msgs[0].Content = "changed"

	assert.Equal(t, "a", tr.Messages()[0].Content)
	assert.False(t, tr.Messages()[0].CreatedAt.IsZero())
}
