package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "campusbot",
	Short: "Kepler College question-answering chatbot",
	Long: `CampusBot answers questions about Kepler College rules, policies and
services. It loads a question/answer spreadsheet, injects it as context into
every prompt, and forwards the prompt to a hosted chat-completion provider.`,
	SilenceErrors: true,
	// Usage is for flag and argument mistakes, not runtime failures.
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cmd.SilenceUsage = true
	},
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		reportError(os.Stderr, err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".campusbot.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// reportError prints a command failure. A missing data file gets its own
// message without the "Error:" prefix.
func reportError(w io.Writer, err error) {
	var dfe *dataFileError
	if errors.As(err, &dfe) {
		fmt.Fprintln(w, dfe.Error())
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}
