package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kepler-college/campusbot/internal/config"
	"github.com/kepler-college/campusbot/internal/knowledge"
	"github.com/kepler-college/campusbot/internal/llm"
	"github.com/kepler-college/campusbot/internal/server"
	"github.com/kepler-college/campusbot/internal/session"
)

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the CampusBot web UI",
	Long:  `Loads the Q&A spreadsheet and starts the web UI with the chat and about pages.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = serverPort
		}

		srv, kb, closeFn, err := buildServer(cfg)
		if err != nil {
			return err
		}
		defer closeFn()

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		fmt.Fprintf(os.Stderr, "campusbot server v%s starting on port %d\n", Version, cfg.Server.Port)
		fmt.Fprintf(os.Stderr, "  Provider: %s (%s)\n", llm.DisplayName(string(cfg.Provider)), cfg.Model)
		fmt.Fprintf(os.Stderr, "  Q&A entries: %d from %s\n", len(kb.Entries), kb.Source)
		if cfg.AuditDB != "" {
			fmt.Fprintf(os.Stderr, "  Audit log: %s (API exposed: %t)\n", cfg.AuditDB, cfg.Server.ExposeAudit)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "  Session TTL: %s\n", cfg.Server.SessionTTL)
			fmt.Fprintf(os.Stderr, "  Rate limit: %d rpm\n", cfg.RateLimitRPM)
		}

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

// buildServer wires the web server in startup order: Q&A file, provider,
// audit log. A missing Q&A file fails before any provider is built. The
// returned func closes the audit database.
func buildServer(cfg *config.Config) (*server.Server, *knowledge.Base, func(), error) {
	kb, err := loadKnowledge(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	bot, err := createBot(cfg, kb)
	if err != nil {
		return nil, nil, nil, err
	}

	database, auditStore, err := openAuditStore(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	closeFn := func() {}
	if database != nil {
		closeFn = func() { database.Close() }
		bot.WithRecorder(auditStore)
	}

	srv := server.New(server.Config{
		Port:        cfg.Server.Port,
		Logo:        cfg.Logo,
		AllowAll:    cfg.Server.AllowAllOrigins,
		ExposeAudit: cfg.Server.ExposeAudit,
	}, bot, session.NewStore(cfg.Server.SessionTTL), auditStore)

	return srv, kb, closeFn, nil
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 8501, "Port to listen on (overrides server.port)")
	rootCmd.AddCommand(serverCmd)
}
