package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kepler-college/campusbot/internal/llm"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask CampusBot a single question from the terminal",
	Long:  `Builds the same prompt as the web UI, sends it to the configured provider, and prints the answer.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().Bool("json", false, "output the result as JSON")
	rootCmd.AddCommand(askCmd)
}

// askOutput is the JSON form of a one-shot answer.
type askOutput struct {
	Provider     string  `json:"provider"`
	Model        string  `json:"model"`
	Answer       string  `json:"answer"`
	Error        string  `json:"error,omitempty"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	LatencyMS    int64   `json:"latency_ms"`
	CostUSD      float64 `json:"cost_usd"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")
	if strings.TrimSpace(question) == "" {
		return fmt.Errorf("question must not be empty")
	}
	jsonOutput, _ := cmd.Flags().GetBool("json")

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

	res := bot.Ask(context.Background(), question)

	if jsonOutput {
		out := askOutput{
			Provider:     res.Provider,
			Model:        res.Model,
			Answer:       res.Text(),
			InputTokens:  res.InputTokens,
			OutputTokens: res.OutputTokens,
			LatencyMS:    res.Latency.Milliseconds(),
			CostUSD:      llm.EstimateCost(res.Model, res.InputTokens, res.OutputTokens),
		}
		if res.Failed() {
			out.Error = res.Err.Error()
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return err
		}
	} else {
		fmt.Println(res.Text())
	}

	if verbose && !res.Failed() {
		fmt.Fprintf(os.Stderr, "%s/%s: %d in, %d out, %s\n",
			llm.DisplayName(res.Provider), res.Model, res.InputTokens, res.OutputTokens, res.Latency)
	}

	if res.Failed() {
		os.Exit(1)
	}
	return nil
}
