// Package agent orchestrates scraping, storage, relevance filtering,
// and LLM question answering for stored and ad hoc content.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"webagent/internal/answer"
	"webagent/internal/prompt"
	"webagent/internal/relevance"
	"webagent/internal/scraper"
	"webagent/internal/store"
	"webagent/pkg/models"
)

// Canonical replies for the terminal states of the ask/answer state
// machines. The LLM is only consulted in the CALL_LLM state; every
// other state short-circuits to one of these.
const (
	MsgNoStoredContent = "I cannot provide a helpful response (no content available)."
	MsgNoStoredMatch   = "I cannot provide a helpful response based on the stored content and your query."
	MsgNoUsableContent = "I cannot provide a helpful response due to an issue processing the stored content."
	MsgNoExtractedText = "Could not extract text content from the website(s)."
	MsgNoAdhocMatch    = "I cannot provide a helpful response based on the website content and your query."
	MsgNoCrawledText   = "Could not extract text content from the crawled website(s)."
	MsgNoCrawlMatch    = "I cannot provide a helpful response based on the crawled website content and your query."
	MsgUnhelpfulCrawl  = "I cannot provide a helpful response based on the available information from the crawled website."
)

// PageScraper is the external scraping capability.
type PageScraper interface {
	Scrape(ctx context.Context, url string, mode scraper.Mode) (*scraper.Result, error)
	Crawl(ctx context.Context, url string, mode scraper.Mode) ([]scraper.CrawlItem, error)
}

// Completer is the external LLM capability.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// PageIndex is the optional search index over stored pages. Titles are
// keyed by URL; they are indexed but never persisted in the store.
type PageIndex interface {
	IndexPages(ctx context.Context, agentID string, pages []models.PageContent, titles map[string]string) error
	DeleteAgent(ctx context.Context, agentID string) error
}

// Options configures the optional collaborators of a Service.
type Options struct {
	LLM             Completer // nil means AI operations are unavailable
	Index           PageIndex // nil disables indexing
	MaxContextChars int       // 0 disables prompt truncation
}

// Service ties the content store, the scraper, and the LLM together
// behind the API operations. Collaborators are injected at startup;
// construction failures belong to the caller, not to request time.
type Service struct {
	store     *store.ContentStore
	pages     PageScraper
	llm       Completer
	index     PageIndex
	assembler prompt.Assembler
}

// New creates a Service.
func New(contentStore *store.ContentStore, pages PageScraper, opts Options) *Service {
	return &Service{
		store:     contentStore,
		pages:     pages,
		llm:       opts.LLM,
		index:     opts.Index,
		assembler: prompt.Assembler{MaxContextChars: opts.MaxContextChars},
	}
}

// StoreResult is the outcome of StoreAgent.
type StoreResult struct {
	ID           string               `json:"unique_code"`
	AgentName    string               `json:"agent_name"`
	ScrapeErrors []models.ScrapeError `json:"scrape_errors"`
}

// UpdateResult is the outcome of UpdateAgent.
type UpdateResult struct {
	ID            string               `json:"unique_code"`
	AgentName     string               `json:"agent_name"`
	NewlyScraped  []string             `json:"newly_scraped_urls"`
	NewErrors     []models.ScrapeError `json:"new_scrape_errors"`
}

// Answer is the outcome of a question-answering operation. AIUsed is
// true whenever the LLM was actually invoked, regardless of whether
// its response survived the quality gate.
type Answer struct {
	Response string `json:"ai_response"`
	AIUsed   bool   `json:"ai_used"`
}

// ScrapeOutcome is the per-URL result of an ad hoc scrape or crawl.
type ScrapeOutcome struct {
	URL     string               `json:"url"`
	Status  string               `json:"status"`
	Content []models.ContentUnit `json:"content,omitempty"`
	Raw     string               `json:"raw_data,omitempty"`
	Error   string               `json:"error,omitempty"`
}

// scrapeAll scrapes every URL in beautify mode, accumulating per-URL
// failures instead of aborting the batch. Page titles are returned
// keyed by URL for the search index.
func (s *Service) scrapeAll(ctx context.Context, urls []string) ([]models.PageContent, []models.ScrapeError, map[string]string) {
	var results []models.PageContent
	var scrapeErrors []models.ScrapeError
	titles := make(map[string]string)
	for _, u := range urls {
		result, err := s.pages.Scrape(ctx, u, scraper.ModeBeautify)
		if err != nil {
			slog.Error("scrape failed", "url", u, "error", err)
			// The scraper already names the URL in its message.
			scrapeErrors = append(scrapeErrors, models.ScrapeError{URL: u, Error: err.Error()})
			continue
		}
		results = append(results, *result.Page)
		if result.Title != "" {
			titles[result.Page.URL] = result.Title
		}
	}
	return results, scrapeErrors, titles
}

// StoreAgent scrapes the given URLs, persists the result under a fresh
// identifier, and returns the identifier with any per-URL errors.
func (s *Service) StoreAgent(ctx context.Context, agentName string, urls []string) (*StoreResult, error) {
	if agentName == "" {
		return nil, newError(KindValidation, "agent_name parameter is required")
	}
	if len(urls) == 0 {
		return nil, newError(KindValidation, "at least one URL is required")
	}

	slog.Info("storing agent", "agent_name", agentName, "urls", urls)
	results, scrapeErrors, titles := s.scrapeAll(ctx, urls)

	id, err := s.store.Create(ctx, agentName, urls, results, scrapeErrors)
	if err != nil {
		return nil, wrapError(KindStorage, err, "failed to store scraped data")
	}

	s.indexPages(ctx, id, results, titles)

	return &StoreResult{ID: id, AgentName: agentName, ScrapeErrors: scrapeErrors}, nil
}

// indexPages writes pages to the optional search index. Index failures
// are logged, never surfaced: the record of truth is the store.
func (s *Service) indexPages(ctx context.Context, id string, pages []models.PageContent, titles map[string]string) {
	if s.index == nil || len(pages) == 0 {
		return
	}
	if err := s.index.IndexPages(ctx, id, pages, titles); err != nil {
		slog.Warn("failed to index agent pages", "id", id, "error", err)
	}
}

// askLLM invokes the LLM and applies the quality gate. A provider
// error degrades to the canonical unhelpful reply; the LLM was still
// invoked, so AIUsed stays true.
func (s *Service) askLLM(ctx context.Context, promptText string) (*Answer, error) {
	if s.llm == nil {
		return nil, newError(KindLLMUnavailable, "AI functionality is not available")
	}
	response, err := s.llm.Complete(ctx, promptText)
	if err != nil {
		slog.Warn("LLM call failed", "error", err)
		response = ""
	}
	return &Answer{Response: answer.Filter(response), AIUsed: true}, nil
}

// Ask answers a question against a stored agent's content:
// no content and no meaningful relevance match both short-circuit
// without touching the LLM.
func (s *Service) Ask(ctx context.Context, id, query string) (*Answer, error) {
	if id == "" {
		return nil, newError(KindValidation, "unique_code parameter is required")
	}
	if query == "" {
		return nil, newError(KindValidation, "user_query parameter is required")
	}

	record, err := s.store.Read(ctx, id)
	if err != nil {
		return nil, storeError(err, id)
	}

	if len(record.Results) == 0 {
		return &Answer{Response: MsgNoStoredContent, AIUsed: false}, nil
	}

	relevant, meaningful := relevance.FilterPages(record.Results, query)
	if len(relevant) == 0 || !meaningful {
		slog.Info("no relevant stored content", "id", id, "query", query)
		return &Answer{Response: MsgNoStoredMatch, AIUsed: false}, nil
	}

	promptText, err := s.assembler.BuildPagePrompt(relevant, query)
	if err != nil {
		if errors.Is(err, prompt.ErrNoUsableContent) {
			slog.Warn("relevant pages contained no text", "id", id)
			return &Answer{Response: MsgNoUsableContent, AIUsed: false}, nil
		}
		return nil, wrapError(KindInternal, err, "failed to assemble prompt")
	}

	return s.askLLM(ctx, promptText)
}

// GetAgent returns the full stored record.
func (s *Service) GetAgent(ctx context.Context, id string) (*models.AgentRecord, error) {
	if id == "" {
		return nil, newError(KindValidation, "unique_code parameter is required")
	}
	record, err := s.store.Read(ctx, id)
	if err != nil {
		return nil, storeError(err, id)
	}
	return record, nil
}

// ListAgents returns summaries of all stored agents.
func (s *Service) ListAgents(ctx context.Context) ([]models.AgentSummary, error) {
	summaries, err := s.store.List(ctx)
	if err != nil {
		return nil, wrapError(KindStorage, err, "failed to list agents")
	}
	return summaries, nil
}

// UpdateAgent scrapes only URLs not already associated with the agent
// and merges the new results into the stored record.
func (s *Service) UpdateAgent(ctx context.Context, id string, urls []string) (*UpdateResult, error) {
	if id == "" {
		return nil, newError(KindValidation, "unique_code parameter is required")
	}
	if len(urls) == 0 {
		return nil, newError(KindValidation, "at least one new URL is required")
	}

	record, err := s.store.Read(ctx, id)
	if err != nil {
		return nil, storeError(err, id)
	}

	toScrape := store.MissingURLs(record, urls)
	slog.Info("updating agent", "id", id, "requested", len(urls), "to_scrape", len(toScrape))

	newResults, newErrors, newTitles := s.scrapeAll(ctx, toScrape)

	merged, err := s.store.Update(ctx, id, urls, newResults, newErrors)
	if err != nil {
		return nil, storeError(err, id)
	}

	s.indexPages(ctx, id, newResults, newTitles)

	scraped := make([]string, 0, len(newResults))
	for _, page := range newResults {
		scraped = append(scraped, page.URL)
	}

	return &UpdateResult{
		ID:           id,
		AgentName:    merged.AgentName,
		NewlyScraped: scraped,
		NewErrors:    newErrors,
	}, nil
}

// DeleteAgent removes the stored record and its indexed pages.
func (s *Service) DeleteAgent(ctx context.Context, id string) error {
	if id == "" {
		return newError(KindValidation, "unique_code parameter is required")
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return storeError(err, id)
	}
	if s.index != nil {
		if err := s.index.DeleteAgent(ctx, id); err != nil {
			slog.Warn("failed to delete indexed pages", "id", id, "error", err)
		}
	}
	return nil
}

// ScrapePages performs an ad hoc scrape of multiple URLs without
// persisting anything. Per-URL failures appear as error outcomes.
func (s *Service) ScrapePages(ctx context.Context, urls []string, mode scraper.Mode) ([]ScrapeOutcome, error) {
	if len(urls) == 0 {
		return nil, newError(KindValidation, "at least one URL is required")
	}
	if !scraper.ValidMode(mode) {
		return nil, newError(KindValidation, "invalid scrape mode %q", mode)
	}

	outcomes := make([]ScrapeOutcome, 0, len(urls))
	for _, u := range urls {
		result, err := s.pages.Scrape(ctx, u, mode)
		if err != nil {
			outcomes = append(outcomes, ScrapeOutcome{URL: u, Status: "error", Error: err.Error()})
			continue
		}
		outcome := ScrapeOutcome{URL: u, Status: "success", Raw: result.Raw}
		if result.Page != nil {
			outcome.Content = result.Page.Content
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

// CrawlPages performs an ad hoc crawl from one URL without persisting
// anything.
func (s *Service) CrawlPages(ctx context.Context, startURL string, mode scraper.Mode) ([]ScrapeOutcome, error) {
	if startURL == "" {
		return nil, newError(KindValidation, "URL parameter is required")
	}
	if !scraper.ValidMode(mode) {
		return nil, newError(KindValidation, "invalid scrape mode %q", mode)
	}

	items, err := s.pages.Crawl(ctx, startURL, mode)
	if err != nil && len(items) == 0 {
		return nil, scrapeError(err, startURL)
	}

	outcomes := make([]ScrapeOutcome, 0, len(items))
	for _, item := range items {
		if item.Err != "" {
			outcomes = append(outcomes, ScrapeOutcome{URL: item.URL, Status: "error", Error: item.Err})
			continue
		}
		outcome := ScrapeOutcome{URL: item.URL, Status: "success", Raw: item.Raw}
		if item.Page != nil {
			outcome.Content = item.Page.Content
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

// flattenUnits renders content units into the flat text shape consumed
// by sentence-level relevance extraction.
func flattenUnits(b *strings.Builder, units []models.ContentUnit) {
	for _, unit := range units {
		if unit.Heading != nil && *unit.Heading != "" {
			fmt.Fprintf(b, "\nHeading: %s\n", *unit.Heading)
		}
		if len(unit.Paragraphs) > 0 {
			b.WriteString(strings.Join(unit.Paragraphs, "\n"))
			b.WriteString("\n")
		}
	}
}

// ScrapeAnswer answers a question against freshly scraped (not stored)
// pages using sentence-level relevance.
func (s *Service) ScrapeAnswer(ctx context.Context, urls []string, query string) (*Answer, []models.ScrapeError, error) {
	if len(urls) == 0 {
		return nil, nil, newError(KindValidation, "URL parameter is required")
	}
	if query == "" {
		return nil, nil, newError(KindValidation, "user_query parameter is required for type 'ai'")
	}
	if s.llm == nil {
		return nil, nil, newError(KindLLMUnavailable, "AI functionality is not available")
	}

	var combined strings.Builder
	var scrapeErrors []models.ScrapeError
	for _, u := range urls {
		result, err := s.pages.Scrape(ctx, u, scraper.ModeBeautify)
		if err != nil {
			scrapeErrors = append(scrapeErrors, models.ScrapeError{URL: u, Error: err.Error()})
			continue
		}
		flattenUnits(&combined, result.Page.Content)
	}

	if strings.TrimSpace(combined.String()) == "" {
		return &Answer{Response: MsgNoExtractedText, AIUsed: false}, scrapeErrors, nil
	}

	sentences := relevance.FilterSentences(combined.String(), query)
	if len(sentences) == 0 {
		return &Answer{Response: MsgNoAdhocMatch, AIUsed: false}, scrapeErrors, nil
	}

	promptText, err := s.assembler.BuildSentencePrompt(sentences, query)
	if err != nil {
		return nil, scrapeErrors, wrapError(KindInternal, err, "failed to assemble prompt")
	}

	ans, err := s.askLLM(ctx, promptText)
	if err != nil {
		return nil, scrapeErrors, err
	}
	return ans, scrapeErrors, nil
}

// CrawlAnswer answers a question against a crawl starting from one
// URL. Pages reached via multiple paths contribute their text once.
func (s *Service) CrawlAnswer(ctx context.Context, startURL, query string) (*Answer, []models.ScrapeError, error) {
	if startURL == "" {
		return nil, nil, newError(KindValidation, "URL parameter is required")
	}
	if query == "" {
		return nil, nil, newError(KindValidation, "user_query parameter is required for type 'crawl_ai'")
	}
	if s.llm == nil {
		return nil, nil, newError(KindLLMUnavailable, "AI functionality is not available")
	}

	items, err := s.pages.Crawl(ctx, startURL, scraper.ModeBeautify)
	if err != nil && len(items) == 0 {
		return nil, nil, scrapeError(err, startURL)
	}

	var combined strings.Builder
	var crawlErrors []models.ScrapeError
	seen := make(map[string]struct{})
	for _, item := range items {
		if _, dup := seen[item.URL]; dup {
			continue
		}
		seen[item.URL] = struct{}{}

		if item.Err != "" {
			crawlErrors = append(crawlErrors, models.ScrapeError{URL: item.URL, Error: item.Err})
			continue
		}
		if item.Page != nil {
			fmt.Fprintf(&combined, "\n\n--- Content from %s ---\n", item.URL)
			flattenUnits(&combined, item.Page.Content)
		}
	}

	if strings.TrimSpace(combined.String()) == "" {
		return &Answer{Response: MsgNoCrawledText, AIUsed: false}, crawlErrors, nil
	}

	sentences := relevance.FilterSentences(combined.String(), query)
	if len(sentences) == 0 {
		return &Answer{Response: MsgNoCrawlMatch, AIUsed: false}, crawlErrors, nil
	}

	promptText, err := s.assembler.BuildSentencePrompt(sentences, query)
	if err != nil {
		return nil, crawlErrors, wrapError(KindInternal, err, "failed to assemble prompt")
	}

	response, err := s.llm.Complete(ctx, promptText)
	if err != nil {
		slog.Warn("LLM call failed", "error", err)
		response = ""
	}
	if answer.Unhelpful(response) {
		return &Answer{Response: MsgUnhelpfulCrawl, AIUsed: true}, crawlErrors, nil
	}
	return &Answer{Response: response, AIUsed: true}, crawlErrors, nil
}
