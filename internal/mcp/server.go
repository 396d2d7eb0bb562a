package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/kepler-college/campusbot/internal/chat"
	"github.com/kepler-college/campusbot/internal/knowledge"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the campus Q&A bot as tools.
type Server struct {
	bot *chat.Bot
	kb  *knowledge.Base
	mcp *server.MCPServer
}

// NewServer creates a new MCP server answering from kb through bot.
func NewServer(bot *chat.Bot, kb *knowledge.Base) *Server {
	s := &Server{
		bot: bot,
		kb:  kb,
	}

	s.mcp = server.NewMCPServer(
		"campusbot",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(askCampusBotTool, s.handleAskCampusBot)
	s.mcp.AddTool(getKnowledgeTool, s.handleGetKnowledge)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
