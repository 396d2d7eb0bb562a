package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kepler-college/campusbot/internal/chat"
)

// mcpSessionID tags audit records for turns that came in over MCP.
const mcpSessionID = "mcp"

// handleAskCampusBot runs a single turn on a fresh transcript.
func (s *Server) handleAskCampusBot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: question"), nil
	}

	reply, ok := s.bot.Turn(ctx, mcpSessionID, chat.NewTranscript(), question)
	if !ok {
		return mcp.NewToolResultError("question must not be empty"), nil
	}

	return mcp.NewToolResultText(reply.Content), nil
}

// handleGetKnowledge returns the flattened knowledge base.
func (s *Server) handleGetKnowledge(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.kb == nil || len(s.kb.Entries) == 0 {
		return mcp.NewToolResultText("The knowledge base is empty."), nil
	}

	header := fmt.Sprintf("# %d entries from %s\n\n", len(s.kb.Entries), s.kb.Source)
	return mcp.NewToolResultText(header + s.kb.Context), nil
}
