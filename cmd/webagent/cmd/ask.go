package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var askFormat string

var askCmd = &cobra.Command{
	Use:   "ask [unique-code] [question]",
	Short: "Ask a question against a stored agent",
	Long: `Answer a natural-language question using an agent's stored content.

The stored pages are filtered for relevance to the question; only when
a meaningful keyword match exists is the LLM consulted.

Examples:
  webagent ask 5f3c... "What is the refund policy?"

  # JSON output for scripting
  webagent ask 5f3c... "What is the refund policy?" --format json`,
	Args: cobra.ExactArgs(2),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().StringVar(&askFormat, "format", "text", "Output format: text or json")
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := GetConfig()

	svc, _, err := buildService(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	answer, err := svc.Ask(ctx, args[0], args[1])
	if err != nil {
		return err
	}

	if askFormat == "json" {
		output, err := json.MarshalIndent(answer, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(output))
		return nil
	}

	fmt.Println(answer.Response)
	if verbose {
		fmt.Printf("\n(ai_used: %t)\n", answer.AIUsed)
	}
	return nil
}
