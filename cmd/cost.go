package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kepler-college/campusbot/internal/chat"
	"github.com/kepler-college/campusbot/internal/config"
	"github.com/kepler-college/campusbot/internal/llm"
)

var costCmd = &cobra.Command{
	Use:   "cost",
	Short: "Estimate the API cost of answering questions",
	Long:  `Performs a dry run that sizes the prompt built from the Q&A file and estimates the cost per question without making any calls.`,
	Args:  cobra.NoArgs,
	RunE:  runCost,
}

func init() {
	costCmd.Flags().Int("questions", 1000, "number of questions to estimate for")
	costCmd.Flags().Int("answer-tokens", 150, "expected tokens per answer")
	rootCmd.AddCommand(costCmd)
}

func runCost(cmd *cobra.Command, args []string) error {
	questions, _ := cmd.Flags().GetInt("questions")
	answerTokens, _ := cmd.Flags().GetInt("answer-tokens")

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	kb, err := loadKnowledge(cfg)
	if err != nil {
		return err
	}

	// Size a typical request: system prompt plus the user prompt with an
	// average-length question.
	sample := "What are the library opening hours during exams?"
	req := chat.BuildRequest(cfg.Model, kb.Context, sample)
	inputTokens := 0
	for _, m := range req.Messages {
		inputTokens += llm.EstimateTokens(m.Content)
	}

	fmt.Println("Cost Estimate")
	fmt.Println("=============")
	fmt.Printf("  Q&A entries:         %d\n", len(kb.Entries))
	fmt.Printf("  Context size:        %d bytes\n", len(kb.Context))
	fmt.Printf("  Prompt tokens:       ~%d per question\n", inputTokens)
	fmt.Printf("  Answer tokens:       ~%d per question\n", answerTokens)
	fmt.Printf("  Questions:           %d\n", questions)
	fmt.Println()

	fmt.Println("  Model Comparison:")
	fmt.Println("  ────────────────────────────────────────")
	for _, model := range llm.PricedModels() {
		perQuestion := llm.EstimateCost(model, inputTokens, answerTokens)
		marker := " "
		if model == cfg.Model {
			marker = "*"
		}
		fmt.Printf("  %s %-28s  $%.5f/question  ~$%.2f total\n", marker, model, perQuestion, perQuestion*float64(questions))
	}
	fmt.Println()

	if llm.EstimateCost(cfg.Model, 1, 1) == 0 {
		fmt.Printf("  No pricing known for %s.\n", cfg.Model)
	}
	return nil
}
