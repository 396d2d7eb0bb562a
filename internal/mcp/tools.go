package mcp

import "github.com/mark3labs/mcp-go/mcp"

// askCampusBotTool defines the ask_campusbot MCP tool.
var askCampusBotTool = mcp.NewTool("ask_campusbot",
	mcp.WithDescription("Ask Kepler CampusBot a question about Kepler College rules, policies, or services. Each call is answered independently."),
	mcp.WithString("question",
		mcp.Required(),
		mcp.Description("The question to ask"),
	),
)

// getKnowledgeTool defines the get_knowledge MCP tool.
var getKnowledgeTool = mcp.NewTool("get_knowledge",
	mcp.WithDescription("Get the question/answer knowledge base CampusBot answers from, formatted as Q:/A: blocks."),
)
