package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

// DefaultPath is where the wizard writes the configuration.
const DefaultPath = ".campusbot.yml"

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to DefaultPath.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to CampusBot! Let's configure your deployment.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Provider selection.
	providerPrompt := promptui.Select{
		Label: "Select chat-completion provider",
		Items: []string{"openai", "openrouter", "anthropic", "google", "ollama", "minimax"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.Provider = ProviderType(providerStr)

	// 2. Model.
	modelPrompt := promptui.Prompt{
		Label:   "Model identifier",
		Default: DefaultModel(cfg.Provider),
	}
	if cfg.Model, err = modelPrompt.Run(); err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}

	// 3. Optional base URL for OpenAI-compatible gateways.
	if cfg.Provider == ProviderOpenAI {
		baseURLPrompt := promptui.Prompt{
			Label:   "API base URL (leave blank for api.openai.com)",
			Default: "",
		}
		if cfg.BaseURL, err = baseURLPrompt.Run(); err != nil {
			return nil, fmt.Errorf("base url: %w", err)
		}
	}

	// 4. Context spreadsheet.
	contextPrompt := promptui.Prompt{
		Label:   "Q&A spreadsheet (.xlsx or .csv)",
		Default: DefaultContextFile,
		Validate: func(s string) error {
			if s == "" {
				return fmt.Errorf("a spreadsheet path is required")
			}
			return nil
		},
	}
	if cfg.ContextFile, err = contextPrompt.Run(); err != nil {
		return nil, fmt.Errorf("context file: %w", err)
	}

	// 5. Port.
	portPrompt := promptui.Prompt{
		Label:   "HTTP port",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	if envVar := APIKeyEnvVar(cfg.Provider); envVar != "" && os.Getenv(envVar) == "" {
		fmt.Printf("\nNote: Set %s in your environment or in %s before running campusbot server.\n", envVar, cfg.SecretsFile)
	}

	if _, err := os.Stat(cfg.ContextFile); os.IsNotExist(err) {
		fmt.Printf("Note: %s does not exist yet; the server will refuse to start without it.\n", cfg.ContextFile)
	}

	if err := cfg.Save(DefaultPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", DefaultPath)
	return cfg, nil
}
