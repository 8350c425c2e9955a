// Package mcp exposes the agent operations as MCP tools over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"webagent/internal/agent"
	"webagent/internal/index"
	"webagent/internal/scraper"
)

// Config holds MCP server configuration.
type Config struct {
	Name    string
	Version string
}

// Server wraps the MCP server around the agent service.
type Server struct {
	mcpServer *server.MCPServer
	svc       *agent.Service
	search    *index.Client // nil when the page index is disabled
}

// NewServer creates an MCP server with the agent tools registered.
// searchClient may be nil; the search tool is only registered when the
// page index is available.
func NewServer(config Config, svc *agent.Service, searchClient *index.Client) *Server {
	mcpServer := server.NewMCPServer(
		config.Name,
		config.Version,
		server.WithToolCapabilities(true),
	)

	s := &Server{mcpServer: mcpServer, svc: svc, search: searchClient}

	mcpServer.AddTool(mcp.NewTool("store_agent",
		mcp.WithDescription("Scrape one or more URLs and store the extracted content under a new agent. Returns the agent's unique code."),
		mcp.WithString("agent_name", mcp.Required(), mcp.Description("Human-readable label for the agent")),
		mcp.WithString("urls", mcp.Required(), mcp.Description("Comma-separated list of URLs to scrape")),
	), s.storeAgentHandler)

	mcpServer.AddTool(mcp.NewTool("ask_agent",
		mcp.WithDescription("Answer a natural-language question against a stored agent's content"),
		mcp.WithString("unique_code", mcp.Required(), mcp.Description("The agent's unique code")),
		mcp.WithString("query", mcp.Required(), mcp.Description("The question to answer")),
	), s.askAgentHandler)

	mcpServer.AddTool(mcp.NewTool("update_agent",
		mcp.WithDescription("Add new URLs to an existing agent. URLs already stored are not re-scraped."),
		mcp.WithString("unique_code", mcp.Required(), mcp.Description("The agent's unique code")),
		mcp.WithString("urls", mcp.Required(), mcp.Description("Comma-separated list of URLs to add")),
	), s.updateAgentHandler)

	mcpServer.AddTool(mcp.NewTool("delete_agent",
		mcp.WithDescription("Delete a stored agent and its content"),
		mcp.WithString("unique_code", mcp.Required(), mcp.Description("The agent's unique code")),
	), s.deleteAgentHandler)

	mcpServer.AddTool(mcp.NewTool("get_agent",
		mcp.WithDescription("Get the full stored record of an agent"),
		mcp.WithString("unique_code", mcp.Required(), mcp.Description("The agent's unique code")),
	), s.getAgentHandler)

	mcpServer.AddTool(mcp.NewTool("list_agents",
		mcp.WithDescription("List all stored agents (code, name, URLs)"),
	), s.listAgentsHandler)

	mcpServer.AddTool(mcp.NewTool("scrape_url",
		mcp.WithDescription("Scrape URLs without storing them. Mode 'beautify' returns structured content, 'raw' the page body."),
		mcp.WithString("urls", mcp.Required(), mcp.Description("Comma-separated list of URLs to scrape")),
		mcp.WithString("mode", mcp.Description("Scrape mode: raw or beautify (default: beautify)")),
	), s.scrapeURLHandler)

	if searchClient != nil {
		mcpServer.AddTool(mcp.NewTool("search_pages",
			mcp.WithDescription("Full-text search across all indexed agent pages"),
			mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
			mcp.WithNumber("limit", mcp.Description("Maximum number of results (default: 10)")),
		), s.searchPagesHandler)
	}

	return s
}

// splitURLs parses a comma-separated URL parameter, dropping empties.
func splitURLs(raw string) []string {
	var urls []string
	for _, u := range strings.Split(raw, ",") {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// toolResult marshals a handler result as JSON tool output.
func toolResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// toolError renders a service failure as a tool error carrying the
// machine-readable kind alongside the message.
func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(fmt.Sprintf("[%s] %v", agent.KindOf(err), err)), nil
}

func (s *Server) storeAgentHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("agent_name")
	if err != nil {
		return mcp.NewToolResultError("agent_name parameter is required"), nil
	}
	rawURLs, err := req.RequireString("urls")
	if err != nil {
		return mcp.NewToolResultError("urls parameter is required"), nil
	}

	result, err := s.svc.StoreAgent(ctx, name, splitURLs(rawURLs))
	if err != nil {
		return toolError(err)
	}
	return toolResult(result)
}

func (s *Server) askAgentHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("unique_code")
	if err != nil {
		return mcp.NewToolResultError("unique_code parameter is required"), nil
	}
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query parameter is required"), nil
	}

	ans, err := s.svc.Ask(ctx, id, query)
	if err != nil {
		return toolError(err)
	}
	return toolResult(ans)
}

func (s *Server) updateAgentHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("unique_code")
	if err != nil {
		return mcp.NewToolResultError("unique_code parameter is required"), nil
	}
	rawURLs, err := req.RequireString("urls")
	if err != nil {
		return mcp.NewToolResultError("urls parameter is required"), nil
	}

	result, err := s.svc.UpdateAgent(ctx, id, splitURLs(rawURLs))
	if err != nil {
		return toolError(err)
	}
	return toolResult(result)
}

func (s *Server) deleteAgentHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("unique_code")
	if err != nil {
		return mcp.NewToolResultError("unique_code parameter is required"), nil
	}

	if err := s.svc.DeleteAgent(ctx, id); err != nil {
		return toolError(err)
	}
	return toolResult(map[string]string{"status": "success", "message": fmt.Sprintf("Agent %s deleted successfully.", id)})
}

func (s *Server) getAgentHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("unique_code")
	if err != nil {
		return mcp.NewToolResultError("unique_code parameter is required"), nil
	}

	record, err := s.svc.GetAgent(ctx, id)
	if err != nil {
		return toolError(err)
	}
	return toolResult(record)
}

func (s *Server) listAgentsHandler(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summaries, err := s.svc.ListAgents(ctx)
	if err != nil {
		return toolError(err)
	}
	return toolResult(summaries)
}

func (s *Server) scrapeURLHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rawURLs, err := req.RequireString("urls")
	if err != nil {
		return mcp.NewToolResultError("urls parameter is required"), nil
	}
	mode := scraper.Mode(req.GetString("mode", string(scraper.ModeBeautify)))

	outcomes, err := s.svc.ScrapePages(ctx, splitURLs(rawURLs), mode)
	if err != nil {
		return toolError(err)
	}
	return toolResult(outcomes)
}

func (s *Server) searchPagesHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query parameter is required"), nil
	}
	limit := req.GetInt("limit", 10)

	pages, err := s.search.Search(ctx, query, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	return toolResult(pages)
}

// ServeStdio starts the MCP server using stdio transport.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
