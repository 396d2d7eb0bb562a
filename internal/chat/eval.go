package chat

import (
	"context"
	"strings"
	"time"

	"github.com/kepler-college/campusbot/internal/knowledge"
)

// EvalCase is the outcome of replaying one Q&A entry.
type EvalCase struct {
	Question  string        `json:"question"`
	Expected  string        `json:"expected"`
	Answer    string        `json:"answer"`
	Error     string        `json:"error,omitempty"`
	Contained bool          `json:"contained"`
	Latency   time.Duration `json:"latency_ns"`
}

// EvalReport summarises a replay of the knowledge base.
type EvalReport struct {
	Cases        []EvalCase `json:"cases"`
	Errors       int        `json:"errors"`
	Contained    int        `json:"contained"`
	InputTokens  int        `json:"input_tokens"`
	OutputTokens int        `json:"output_tokens"`
	Model        string     `json:"model"`
}

// AvgLatency is the mean latency over all cases.
func (r EvalReport) AvgLatency() time.Duration {
	if len(r.Cases) == 0 {
		return 0
	}
	var total time.Duration
	for _, c := range r.Cases {
		total += c.Latency
	}
	return total / time.Duration(len(r.Cases))
}

// Evaluate asks every entry's question in order, without a transcript, and
// checks whether the reply contains the entry's answer (case-insensitive).
// onProgress, if set, is called after each question. Evaluation stops early
// when ctx is cancelled.
func (b *Bot) Evaluate(ctx context.Context, entries []knowledge.QAEntry, onProgress func(done int, question string)) EvalReport {
	report := EvalReport{Model: b.model}

	for i, e := range entries {
		if ctx.Err() != nil {
			break
		}

		res := b.Ask(ctx, e.Question)
		c := EvalCase{
			Question: e.Question,
			Expected: e.Answer,
			Answer:   res.Text(),
			Latency:  res.Latency,
		}
		if res.Failed() {
			c.Error = res.Err.Error()
			report.Errors++
		} else if expected := strings.ToLower(strings.TrimSpace(e.Answer)); expected != "" &&
			strings.Contains(strings.ToLower(c.Answer), expected) {
			c.Contained = true
			report.Contained++
		}
		report.InputTokens += res.InputTokens
		report.OutputTokens += res.OutputTokens
		if res.Model != "" {
			report.Model = res.Model
		}
		report.Cases = append(report.Cases, c)

		if onProgress != nil {
			onProgress(i+1, e.Question)
		}
	}

	return report
}
