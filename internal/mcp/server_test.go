package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kepler-college/campusbot/internal/chat"
	"github.com/kepler-college/campusbot/internal/knowledge"
	"github.com/kepler-college/campusbot/internal/llm"
)

// mockProvider implements llm.Provider for testing.
type mockProvider struct {
	reply    string
	err      error
	requests []llm.CompletionRequest
}

func (m *mockProvider) Name() string { return "openai" }

func (m *mockProvider) Complete(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	return &llm.CompletionResponse{Content: m.reply, Model: req.Model}, nil
}

func testKnowledge() *knowledge.Base {
	entries := []knowledge.QAEntry{
		{Question: "What are visiting hours?", Answer: "9am-5pm"},
		{Question: "Where is the library?", Answer: "Building B"},
	}
	return &knowledge.Base{
		Source:  "qa.xlsx",
		Entries: entries,
		Context: knowledge.BuildContext(entries),
	}
}

func newTestServer(p *mockProvider) *Server {
	kb := testKnowledge()
	return NewServer(chat.NewBot(p, "gpt-3.5-turbo", kb.Context), kb)
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"ask_campusbot", askCampusBotTool, "ask_campusbot"},
		{"get_knowledge", getKnowledgeTool, "get_knowledge"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	srv := newTestServer(&mockProvider{})

	if srv == nil {
		t.Fatal("NewServer returned nil")
	}
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.kb.Source != "qa.xlsx" {
		t.Errorf("kb source = %q, want %q", srv.kb.Source, "qa.xlsx")
	}
}

func TestHandleAskCampusBot(t *testing.T) {
	ctx := context.Background()

	t.Run("answers with context", func(t *testing.T) {
		p := &mockProvider{reply: "  9am-5pm  "}
		srv := newTestServer(p)

		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"question": "What are visiting hours?"}

		result, err := srv.handleAskCampusBot(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		if got := extractText(result); got != "9am-5pm" {
			t.Errorf("answer = %q, want %q", got, "9am-5pm")
		}
		if len(p.requests) != 1 {
			t.Fatalf("expected 1 provider call, got %d", len(p.requests))
		}
		prompt := p.requests[0].Messages[1].Content
		if !strings.Contains(prompt, "Q: Where is the library?\nA: Building B") {
			t.Errorf("prompt missing knowledge: %q", prompt)
		}
	})

	t.Run("provider error", func(t *testing.T) {
		srv := newTestServer(&mockProvider{err: errors.New("quota exceeded")})

		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"question": "hi"}

		result, err := srv.handleAskCampusBot(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := extractText(result); got != "Error from OpenAI: quota exceeded" {
			t.Errorf("answer = %q", got)
		}
	})

	t.Run("missing question", func(t *testing.T) {
		srv := newTestServer(&mockProvider{})

		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleAskCampusBot(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing question")
		}
	})

	t.Run("blank question", func(t *testing.T) {
		p := &mockProvider{}
		srv := newTestServer(p)

		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"question": "   "}

		result, err := srv.handleAskCampusBot(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for blank question")
		}
		if len(p.requests) != 0 {
			t.Errorf("expected no provider calls, got %d", len(p.requests))
		}
	})
}

func TestHandleGetKnowledge(t *testing.T) {
	srv := newTestServer(&mockProvider{})

	result, err := srv.handleGetKnowledge(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := extractText(result)
	if !strings.Contains(text, "2 entries from qa.xlsx") {
		t.Errorf("missing header: %q", text)
	}
	if !strings.HasSuffix(text, "Q: What are visiting hours?\nA: 9am-5pm\nQ: Where is the library?\nA: Building B") {
		t.Errorf("unexpected knowledge text: %q", text)
	}

	empty := NewServer(chat.NewBot(&mockProvider{}, "m", ""), &knowledge.Base{})
	result, err = empty.handleGetKnowledge(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Error("empty knowledge base should not be a tool error")
	}
}

// extractText gets the text content from a CallToolResult.
func extractText(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}
