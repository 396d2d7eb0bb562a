package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kepler-college/campusbot/internal/config"
	"github.com/kepler-college/campusbot/internal/knowledge"
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Print the Q&A context injected into every prompt",
	Long:  `Loads the Q&A spreadsheet and prints the flattened context blob, or the entries as JSON.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")

		// No provider is needed here, so a missing API key is not an error.
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if file, _ := cmd.Flags().GetString("file"); file != "" {
			cfg.ContextFile = file
		}

		kb, err := loadKnowledge(cfg)
		if err != nil {
			return err
		}

		if jsonOutput {
			entries := kb.Entries
			if entries == nil {
				entries = []knowledge.QAEntry{}
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		}

		fmt.Println(kb.Context)
		fmt.Fprintf(os.Stderr, "%d entries from %s\n", len(kb.Entries), kb.Source)
		return nil
	},
}

func init() {
	contextCmd.Flags().String("file", "", "Q&A file to load (overrides context_file)")
	contextCmd.Flags().Bool("json", false, "output entries as JSON")
	rootCmd.AddCommand(contextCmd)
}
