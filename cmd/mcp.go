package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/kepler-college/campusbot/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing CampusBot's question answering and its Q&A knowledge to AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		kb, err := loadKnowledge(cfg)
		if err != nil {
			return err
		}

		bot, err := createBot(cfg, kb)
		if err != nil {
			return err
		}

		database, auditStore, err := openAuditStore(cfg)
		if err != nil {
			return err
		}
		if database != nil {
			defer database.Close()
			bot.WithRecorder(auditStore)
		}

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "campusbot MCP server started on stdio (entries=%d, provider=%s)\n", len(kb.Entries), cfg.Provider)

		srv := mcpserver.NewServer(bot, kb)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
