package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kepler-college/campusbot/internal/audit"
	"github.com/kepler-college/campusbot/internal/config"
	"github.com/kepler-college/campusbot/internal/db"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect or prune the turn audit log",
	Long:  `Works on the SQLite turn log named by audit_db. The log is disabled when audit_db is empty.`,
}

var auditStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print aggregate turn statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		database, store, err := openAuditFromFlags()
		if err != nil {
			return err
		}
		defer database.Close()

		st, err := store.Stats(context.Background())
		if err != nil {
			return err
		}

		fmt.Println("Audit Log")
		fmt.Println("=========")
		fmt.Printf("  Database:        %s\n", database.Path())
		fmt.Printf("  Turns:           %d\n", st.Turns)
		fmt.Printf("  Errors:          %d\n", st.Errors)
		fmt.Printf("  Sessions:        %d\n", st.Sessions)
		fmt.Printf("  Input tokens:    %d\n", st.InputTokens)
		fmt.Printf("  Output tokens:   %d\n", st.OutputTokens)
		fmt.Printf("  Avg latency:     %s\n", time.Duration(st.AvgLatencyMS*float64(time.Millisecond)).Round(time.Millisecond))
		return nil
	},
}

var auditPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete turns older than a given age",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		olderThan, _ := cmd.Flags().GetDuration("older-than")
		if olderThan <= 0 {
			return fmt.Errorf("--older-than must be positive")
		}

		database, store, err := openAuditFromFlags()
		if err != nil {
			return err
		}
		defer database.Close()

		n, err := store.DeleteBefore(context.Background(), time.Now().Add(-olderThan))
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d turns older than %s\n", n, olderThan)
		return nil
	},
}

func openAuditFromFlags() (*db.DB, *audit.Store, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if cfg.AuditDB == "" {
		return nil, nil, fmt.Errorf("audit log is disabled; set audit_db in %s", cfgFile)
	}
	return openAuditStore(cfg)
}

func init() {
	auditPruneCmd.Flags().Duration("older-than", 30*24*time.Hour, "delete turns older than this")
	auditCmd.AddCommand(auditStatsCmd, auditPruneCmd)
	rootCmd.AddCommand(auditCmd)
}
