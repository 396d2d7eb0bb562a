package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kepler-college/campusbot/internal/llm"
	"github.com/kepler-college/campusbot/internal/progress"
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Replay the Q&A questions against the configured provider",
	Long: `Asks every question from the Q&A file, one at a time and without a transcript,
and reports how many replies contain the answer from the file. Each question is a
billed provider call; use --limit to sample.`,
	Args: cobra.NoArgs,
	RunE: runEval,
}

func init() {
	evalCmd.Flags().Int("limit", 0, "maximum number of questions to ask (0 = all)")
	evalCmd.Flags().String("out", "", "write per-question results as JSON to this file")
	rootCmd.AddCommand(evalCmd)
}

func runEval(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	outPath, _ := cmd.Flags().GetString("out")

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

	entries := kb.Entries
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	if len(entries) == 0 {
		fmt.Println("No questions to evaluate.")
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reporter := progress.NewReporter("Evaluating")
	reporter.Start(len(entries))
	report := bot.Evaluate(ctx, entries, func(done int, question string) {
		reporter.Update(done, question)
	})
	reporter.Finish()

	if outPath != "" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding results: %w", err)
		}
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", outPath, err)
		}
	}

	asked := len(report.Cases)
	fmt.Println("Evaluation")
	fmt.Println("==========")
	fmt.Printf("  Provider:            %s (%s)\n", llm.DisplayName(string(cfg.Provider)), report.Model)
	fmt.Printf("  Questions asked:     %d of %d\n", asked, len(entries))
	fmt.Printf("  Answer contained:    %d\n", report.Contained)
	fmt.Printf("  Errors:              %d\n", report.Errors)
	fmt.Printf("  Avg latency:         %s\n", report.AvgLatency())
	fmt.Printf("  Tokens:              %d in, %d out\n", report.InputTokens, report.OutputTokens)
	fmt.Printf("  Estimated cost:      $%.4f\n", llm.EstimateCost(report.Model, report.InputTokens, report.OutputTokens))
	if outPath != "" {
		fmt.Printf("  Results:             %s\n", outPath)
	}

	if verbose {
		for _, c := range report.Cases {
			if c.Error != "" {
				fmt.Fprintf(os.Stderr, "error: %q: %s\n", c.Question, c.Error)
			}
		}
	}
	return nil
}
