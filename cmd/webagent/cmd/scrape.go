package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"webagent/internal/agent"
	"webagent/internal/scraper"
	"webagent/pkg/models"
)

var (
	scrapeMode  string
	scrapeCrawl bool
	scrapeQuery string
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape [url]...",
	Short: "Scrape or crawl URLs without storing them",
	Long: `Scrape URLs and print the result without creating an agent.

Mode 'beautify' extracts structured heading+paragraph content; 'raw'
returns the page body as-is. With --query, the scraped content is used
to answer the question directly. With --crawl, same-domain links are
followed from a single start URL.

Examples:
  # Structured content from two pages
  webagent scrape https://example.com/a https://example.com/b

  # Raw page body
  webagent scrape --mode raw https://example.com

  # One-shot question over freshly scraped pages
  webagent scrape --query "What ports are used?" https://example.com/docs

  # Crawl a site and answer a question over every page found
  webagent scrape --crawl --query "How do I install it?" https://example.com`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().StringVar(&scrapeMode, "mode", "beautify", "Scrape mode: raw or beautify")
	scrapeCmd.Flags().BoolVar(&scrapeCrawl, "crawl", false, "Follow same-domain links from the start URL")
	scrapeCmd.Flags().StringVar(&scrapeQuery, "query", "", "Answer this question from the scraped content")
}

func runScrape(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := GetConfig()

	mode := scraper.Mode(scrapeMode)
	if !scraper.ValidMode(mode) {
		return fmt.Errorf("invalid mode %q: must be raw or beautify", scrapeMode)
	}
	if scrapeCrawl && len(args) != 1 {
		return fmt.Errorf("--crawl takes exactly one start URL")
	}

	svc, _, err := buildService(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	if scrapeQuery != "" {
		return runScrapeAnswer(ctx, svc, args)
	}

	var outcomes []agent.ScrapeOutcome
	if scrapeCrawl {
		outcomes, err = svc.CrawlPages(ctx, args[0], mode)
	} else {
		outcomes, err = svc.ScrapePages(ctx, args, mode)
	}
	if err != nil {
		return err
	}

	output, err := json.MarshalIndent(outcomes, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(output))
	return nil
}

func runScrapeAnswer(ctx context.Context, svc *agent.Service, urls []string) error {
	var (
		answer    *agent.Answer
		scrapeErr []models.ScrapeError
		err       error
	)
	if scrapeCrawl {
		answer, scrapeErr, err = svc.CrawlAnswer(ctx, urls[0], scrapeQuery)
	} else {
		answer, scrapeErr, err = svc.ScrapeAnswer(ctx, urls, scrapeQuery)
	}
	if err != nil {
		return err
	}

	fmt.Println(answer.Response)
	if verbose {
		fmt.Printf("\n(ai_used: %t)\n", answer.AIUsed)
	}
	for _, e := range scrapeErr {
		fmt.Printf("Scrape error: %s: %s\n", e.URL, e.Error)
	}
	return nil
}
