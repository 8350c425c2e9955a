package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var storeAgentName string

var storeCmd = &cobra.Command{
	Use:   "store [url]...",
	Short: "Scrape URLs and store them under a new agent",
	Long: `Scrape one or more URLs, extract structured content, and store it
under a new agent. Prints the agent's unique code.

Examples:
  # Store a single page
  webagent store --name docs https://example.com/docs

  # Store several pages under one agent
  webagent store --name kb https://example.com/faq https://example.com/pricing`,
	Args: cobra.MinimumNArgs(1),
	RunE: runStore,
}

func init() {
	rootCmd.AddCommand(storeCmd)

	storeCmd.Flags().StringVar(&storeAgentName, "name", "", "Human-readable agent name (required)")
	storeCmd.MarkFlagRequired("name")
}

func runStore(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := GetConfig()

	svc, _, err := buildService(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	result, err := svc.StoreAgent(ctx, storeAgentName, args)
	if err != nil {
		return err
	}

	fmt.Printf("Agent:       %s\n", result.AgentName)
	fmt.Printf("Unique code: %s\n", result.ID)
	if len(result.ScrapeErrors) > 0 {
		fmt.Printf("Scrape errors (%d):\n", len(result.ScrapeErrors))
		for _, e := range result.ScrapeErrors {
			fmt.Printf("  %s: %s\n", e.URL, e.Error)
		}
	}
	return nil
}
