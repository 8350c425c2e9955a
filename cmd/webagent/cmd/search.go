package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	searchLimit  int
	searchFormat string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed agent pages",
	Long: `Full-text search across all indexed agent pages.

Requires the page index to be enabled in configuration.

Examples:
  # Basic search
  webagent search "refund policy"

  # Limit results
  webagent search "shipping" --limit 5

  # JSON output for scripting
  webagent search "pricing" --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVar(&searchLimit, "limit", 10, "Maximum number of results")
	searchCmd.Flags().StringVar(&searchFormat, "format", "text", "Output format: text or json")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := GetConfig()
	if !cfg.Index.Enabled {
		return fmt.Errorf("page index is disabled: enable index.enabled in configuration")
	}

	indexClient, err := buildIndex(cfg)
	if err != nil {
		return err
	}

	pages, err := indexClient.Search(ctx, args[0], searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(pages) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	if searchFormat == "json" {
		output, err := json.MarshalIndent(pages, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Found %d results:\n\n", len(pages))
	for i, page := range pages {
		fmt.Printf("─── Result %d ───\n", i+1)
		fmt.Printf("Title:   %s\n", page.Title)
		fmt.Printf("URL:     %s\n", page.URL)
		fmt.Printf("Agent:   %s\n", page.AgentID)

		text := page.Text
		if len(text) > 500 {
			text = text[:500] + "..."
		}
		fmt.Printf("Text:\n%s\n\n", text)
	}

	return nil
}
