package models

import (
	"strings"

	"github.com/google/uuid"
)

// ContentUnit is one heading+body block extracted from a page.
// A unit with no heading and no paragraphs is dropped at the source
// and never persisted.
type ContentUnit struct {
	Heading    *string  `json:"heading"`
	Paragraphs []string `json:"paragraphs"`
}

// Empty reports whether the unit carries no text at all.
func (u ContentUnit) Empty() bool {
	return (u.Heading == nil || *u.Heading == "") && len(u.Paragraphs) == 0
}

// PageContent is the scraped result for one URL. The URL is stored as
// requested, without normalization or deduplication.
type PageContent struct {
	URL     string        `json:"url"`
	Content []ContentUnit `json:"content"`
}

// Text flattens all headings and paragraphs into one space-joined blob,
// in document order.
func (p PageContent) Text() string {
	var b strings.Builder
	for _, unit := range p.Content {
		if unit.Heading != nil && *unit.Heading != "" {
			b.WriteString(" ")
			b.WriteString(*unit.Heading)
			b.WriteString(" ")
		}
		for i, para := range unit.Paragraphs {
			if i > 0 || b.Len() > 0 {
				b.WriteString(" ")
			}
			b.WriteString(para)
		}
	}
	return b.String()
}

// ScrapeError records a per-URL scrape failure. Failures are collected
// alongside successes and never abort a batch.
type ScrapeError struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

// AgentRecord is the persisted unit of work, addressed by a generated
// identifier. URLs behaves as an order-insensitive set; Results and
// Errors are append-only across updates.
type AgentRecord struct {
	AgentName string        `json:"agent_name"`
	URLs      []string      `json:"urls"`
	Results   []PageContent `json:"results"`
	Errors    []ScrapeError `json:"errors"`
}

// HasURL reports whether the URL was ever successfully associated with
// the record.
func (r *AgentRecord) HasURL(url string) bool {
	for _, u := range r.URLs {
		if u == url {
			return true
		}
	}
	return false
}

// AgentSummary is the listing view of a stored agent.
type AgentSummary struct {
	ID        string   `json:"agent_id"`
	AgentName string   `json:"agent_name"`
	URLs      []string `json:"urls"`
}

// NewAgentID generates a fresh agent identifier.
func NewAgentID() string {
	return uuid.NewString()
}

// Heading wraps a heading string for ContentUnit construction, mapping
// the empty string to nil.
func Heading(text string) *string {
	if text == "" {
		return nil
	}
	return &text
}
