// Package index maintains an optional Elasticsearch full-text index
// over stored agent pages. All core operations work without it.
package index

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/elastic/go-elasticsearch/v8"

	"webagent/pkg/models"
)

// Config holds Elasticsearch client configuration.
type Config struct {
	Addresses []string
	Index     string
	Username  string
	Password  string
}

// Embedder optionally enriches indexed pages with vectors for hybrid
// search. Nil disables the vector path.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Page is the indexed view of one stored page.
type Page struct {
	ID        string    `json:"id"`
	AgentID   string    `json:"agent_id"`
	URL       string    `json:"url"`
	Title     string    `json:"title,omitempty"`
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding,omitempty"`
}

// PageID derives a deterministic document ID so re-indexing the same
// page position overwrites rather than duplicates.
func PageID(agentID, url string, seq int) string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d", agentID, url, seq)))
	return hex.EncodeToString(hash[:])[:16]
}

// Client wraps the Elasticsearch client with page-index operations.
type Client struct {
	es       *elasticsearch.Client
	index    string
	embedder Embedder
}

// New creates an index client. embedder may be nil.
func New(config Config, embedder Embedder) (*Client, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: config.Addresses,
		Username:  config.Username,
		Password:  config.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ES client: %w", err)
	}
	return &Client{es: es, index: config.Index, embedder: embedder}, nil
}

// Ping checks if Elasticsearch is available.
func (c *Client) Ping(ctx context.Context) bool {
	res, err := c.es.Ping(c.es.Ping.WithContext(ctx))
	if err != nil {
		return false
	}
	defer res.Body.Close()
	return !res.IsError()
}

var indexMapping = `{
	"mappings": {
		"properties": {
			"id": { "type": "keyword" },
			"agent_id": { "type": "keyword" },
			"url": { "type": "keyword" },
			"title": { "type": "text" },
			"text": { "type": "text", "analyzer": "english" },
			"embedding": {
				"type": "dense_vector",
				"index": true,
				"similarity": "cosine"
			}
		}
	}
}`

// CreateIndex creates the index with its mapping if it doesn't exist.
func (c *Client) CreateIndex(ctx context.Context) error {
	res, err := c.es.Indices.Exists([]string{c.index}, c.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to check index: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}

	res, err = c.es.Indices.Create(
		c.index,
		c.es.Indices.Create.WithContext(ctx),
		c.es.Indices.Create.WithBody(bytes.NewReader([]byte(indexMapping))),
	)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("error creating index: %s", res.String())
	}
	return nil
}

// DeleteIndex removes the index (for testing/cleanup).
func (c *Client) DeleteIndex(ctx context.Context) error {
	res, err := c.es.Indices.Delete([]string{c.index}, c.es.Indices.Delete.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	return nil
}

// IndexPages indexes the flattened text of the given pages under an
// agent. titles maps page URLs to their document titles; missing
// entries index without one. Embedding failures degrade to
// keyword-only documents.
func (c *Client) IndexPages(ctx context.Context, agentID string, pages []models.PageContent, titles map[string]string) error {
	for i, page := range pages {
		doc := Page{
			ID:      PageID(agentID, page.URL, i),
			AgentID: agentID,
			URL:     page.URL,
			Title:   titles[page.URL],
			Text:    page.Text(),
		}
		if c.embedder != nil {
			embedding, err := c.embedder.Embed(ctx, doc.Text)
			if err != nil {
				slog.Warn("failed to embed page, indexing without vector", "url", page.URL, "error", err)
			} else {
				doc.Embedding = embedding
			}
		}
		if err := c.indexPage(ctx, doc); err != nil {
			return err
		}
	}
	return c.refresh(ctx)
}

func (c *Client) indexPage(ctx context.Context, doc Page) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal page: %w", err)
	}

	res, err := c.es.Index(
		c.index,
		bytes.NewReader(data),
		c.es.Index.WithContext(ctx),
		c.es.Index.WithDocumentID(doc.ID),
	)
	if err != nil {
		return fmt.Errorf("failed to index page: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("error indexing page (status %d): %s", res.StatusCode, res.String())
	}
	return nil
}

// DeleteAgent removes all indexed pages for an agent.
func (c *Client) DeleteAgent(ctx context.Context, agentID string) error {
	query := fmt.Sprintf(`{"query": {"term": {"agent_id": %q}}}`, agentID)
	res, err := c.es.DeleteByQuery(
		[]string{c.index},
		bytes.NewReader([]byte(query)),
		c.es.DeleteByQuery.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to delete agent pages: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("error deleting agent pages: %s", res.String())
	}
	return nil
}

func (c *Client) refresh(ctx context.Context) error {
	res, err := c.es.Indices.Refresh(
		c.es.Indices.Refresh.WithContext(ctx),
		c.es.Indices.Refresh.WithIndex(c.index),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	return nil
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source Page `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search performs a BM25 text search over indexed pages. When an
// embedder is configured the query is also embedded and combined with
// the keyword results via reciprocal rank fusion.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Page, error) {
	var body map[string]any

	var queryEmbedding []float32
	if c.embedder != nil {
		embedding, err := c.embedder.Embed(ctx, query)
		if err != nil {
			slog.Warn("failed to embed query, falling back to keyword search", "error", err)
		} else {
			queryEmbedding = embedding
		}
	}

	bm25 := map[string]any{
		"multi_match": map[string]any{
			"query":  query,
			"fields": []string{"text", "title", "url"},
		},
	}

	if queryEmbedding == nil {
		body = map[string]any{"query": bm25, "size": limit}
	} else {
		body = map[string]any{
			"retriever": map[string]any{
				"rrf": map[string]any{
					"retrievers": []map[string]any{
						{"standard": map[string]any{"query": bm25}},
						{"knn": map[string]any{
							"field":          "embedding",
							"query_vector":   queryEmbedding,
							"k":              limit,
							"num_candidates": limit * 2,
						}},
					},
				},
			},
			"size": limit,
		}
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(c.index),
		c.es.Search.WithBody(bytes.NewReader(data)),
	)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("search error: %s", res.String())
	}

	var sr searchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	pages := make([]Page, len(sr.Hits.Hits))
	for i, hit := range sr.Hits.Hits {
		pages[i] = hit.Source
	}
	return pages, nil
}
