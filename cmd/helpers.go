package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/kepler-college/campusbot/internal/audit"
	"github.com/kepler-college/campusbot/internal/chat"
	"github.com/kepler-college/campusbot/internal/config"
	"github.com/kepler-college/campusbot/internal/db"
	"github.com/kepler-college/campusbot/internal/knowledge"
	"github.com/kepler-college/campusbot/internal/llm"
)

// loadConfig loads and validates the config, then loads the secrets file
// into the environment.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `campusbot init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	if err := cfg.LoadSecrets(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// dataFileError reports a missing Q&A file. Its message is printed verbatim.
type dataFileError struct {
	path string
	err  error
}

func (e *dataFileError) Error() string {
	return fmt.Sprintf("Data file '%s' not found. Please make sure it's in the same directory.", e.path)
}

func (e *dataFileError) Unwrap() error { return e.err }

// loadKnowledge loads the Q&A file named by context_file. Commands call it
// before building a provider, so a missing file fails without network calls.
func loadKnowledge(cfg *config.Config) (*knowledge.Base, error) {
	kb, err := knowledge.Load(cfg.ContextFile)
	if errors.Is(err, knowledge.ErrContextNotFound) {
		return nil, &dataFileError{path: cfg.ContextFile, err: err}
	}
	if err != nil {
		return nil, err
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Loaded %d Q&A entries from %s\n", len(kb.Entries), kb.Source)
	}
	return kb, nil
}

// newProvider builds the configured provider. Tests replace it.
var newProvider = llm.NewProvider

// createLLMProviderFromConfig creates an LLM provider based on config
// settings, rate limited when rate_limit_rpm is set.
func createLLMProviderFromConfig(cfg *config.Config) (llm.Provider, error) {
	p, err := newProvider(llm.Options{
		Provider: string(cfg.Provider),
		Model:    cfg.Model,
		BaseURL:  cfg.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating %s provider: %w", llm.DisplayName(string(cfg.Provider)), err)
	}
	return llm.NewRateLimitedProvider(p, cfg.RateLimitRPM), nil
}

// createBot builds the chat bot for cfg and kb.
func createBot(cfg *config.Config, kb *knowledge.Base) (*chat.Bot, error) {
	p, err := createLLMProviderFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return chat.NewBot(p, cfg.Model, kb.Context), nil
}

// openAuditStore opens the turn log named by audit_db. It returns nils when
// the log is disabled.
func openAuditStore(cfg *config.Config) (*db.DB, *audit.Store, error) {
	if cfg.AuditDB == "" {
		return nil, nil, nil
	}
	database, err := db.Open(cfg.AuditDB)
	if err != nil {
		return nil, nil, fmt.Errorf("opening audit database: %w", err)
	}
	return database, audit.NewStore(database), nil
}
