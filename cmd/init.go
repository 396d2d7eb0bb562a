package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kepler-college/campusbot/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize campusbot configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to choose the provider, model, Q&A file and port, and generates a .campusbot.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.RunWizard()
		if err != nil {
			return err
		}
		if env := config.APIKeyEnvVar(cfg.Provider); env != "" && os.Getenv(env) == "" {
			fmt.Fprintf(os.Stderr, "Remember to set %s in the environment or in %s.\n", env, cfg.SecretsFile)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
