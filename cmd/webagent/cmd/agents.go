package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "Manage stored agents",
	Long: `List, inspect, update, and delete stored agents.

Examples:
  webagent agents list
  webagent agents get 5f3c...
  webagent agents update 5f3c... https://example.com/new-page
  webagent agents delete 5f3c...`,
}

var agentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored agents",
	Args:  cobra.NoArgs,
	RunE:  runAgentsList,
}

var agentsGetCmd = &cobra.Command{
	Use:   "get [unique-code]",
	Short: "Print the full stored record of an agent",
	Args:  cobra.ExactArgs(1),
	RunE:  runAgentsGet,
}

var agentsUpdateCmd = &cobra.Command{
	Use:   "update [unique-code] [url]...",
	Short: "Add new URLs to an existing agent",
	Long: `Scrape URLs not already stored and append their content to the agent.
URLs already present in the agent record are skipped.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAgentsUpdate,
}

var agentsDeleteCmd = &cobra.Command{
	Use:   "delete [unique-code]",
	Short: "Delete a stored agent",
	Args:  cobra.ExactArgs(1),
	RunE:  runAgentsDelete,
}

func init() {
	rootCmd.AddCommand(agentsCmd)
	agentsCmd.AddCommand(agentsListCmd, agentsGetCmd, agentsUpdateCmd, agentsDeleteCmd)
}

func runAgentsList(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, _, err := buildService(ctx, GetConfig())
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	summaries, err := svc.ListAgents(ctx)
	if err != nil {
		return err
	}

	if len(summaries) == 0 {
		fmt.Println("No agents stored.")
		return nil
	}

	for _, s := range summaries {
		fmt.Printf("%s  %s  (%d URLs)\n", s.ID, s.AgentName, len(s.URLs))
	}
	return nil
}

func runAgentsGet(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, _, err := buildService(ctx, GetConfig())
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	record, err := svc.GetAgent(ctx, args[0])
	if err != nil {
		return err
	}

	output, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(output))
	return nil
}

func runAgentsUpdate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, _, err := buildService(ctx, GetConfig())
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	result, err := svc.UpdateAgent(ctx, args[0], args[1:])
	if err != nil {
		return err
	}

	if len(result.NewlyScraped) == 0 {
		fmt.Println("No new URLs to add.")
	} else {
		fmt.Printf("Added %d URLs:\n", len(result.NewlyScraped))
		for _, u := range result.NewlyScraped {
			fmt.Printf("  %s\n", u)
		}
	}
	for _, e := range result.NewErrors {
		fmt.Printf("Error: %s: %s\n", e.URL, e.Error)
	}
	return nil
}

func runAgentsDelete(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, _, err := buildService(ctx, GetConfig())
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	if err := svc.DeleteAgent(ctx, args[0]); err != nil {
		return err
	}

	fmt.Printf("Agent %s deleted.\n", args[0])
	return nil
}
