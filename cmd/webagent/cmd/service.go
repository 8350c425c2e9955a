package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"webagent/internal/agent"
	"webagent/internal/config"
	"webagent/internal/embeddings"
	"webagent/internal/index"
	"webagent/internal/llm"
	"webagent/internal/scraper"
	"webagent/internal/store"
)

// buildStore constructs the agent record store for the configured
// backend.
func buildStore(ctx context.Context, cfg config.Config) (*store.ContentStore, error) {
	switch cfg.Storage.Backend {
	case "s3":
		backend, err := store.NewS3(store.S3Config{
			Endpoint:        cfg.Storage.Endpoint,
			Bucket:          cfg.Storage.Bucket,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			UseSSL:          cfg.Storage.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 backend: %w", err)
		}
		if err := backend.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("failed to ensure bucket: %w", err)
		}
		return store.New(backend), nil
	case "fs", "":
		backend, err := store.NewFS(cfg.Storage.DataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to create filesystem backend: %w", err)
		}
		return store.New(backend), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// buildIndex constructs the optional page index client. Returns nil
// when the index is disabled.
func buildIndex(cfg config.Config) (*index.Client, error) {
	if !cfg.Index.Enabled {
		return nil, nil
	}

	var embedder index.Embedder
	if cfg.Embeddings.Enabled {
		embedClient, err := embeddings.New(embeddings.Config{
			BaseURL: cfg.Embeddings.BaseURL,
			APIKey:  cfg.Embeddings.APIKey,
			Model:   cfg.Embeddings.Model,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create embeddings client: %w", err)
		}
		embedder = embedClient
		slog.Info("embeddings enabled", "model", cfg.Embeddings.Model)
	}

	indexClient, err := index.New(index.Config{
		Addresses: cfg.Index.Addresses,
		Index:     cfg.Index.Index,
		Username:  cfg.Index.Username,
		Password:  cfg.Index.Password,
	}, embedder)
	if err != nil {
		return nil, fmt.Errorf("failed to create index client: %w", err)
	}
	return indexClient, nil
}

// buildService wires the full agent service from configuration. The
// returned index client is nil when indexing is disabled.
func buildService(ctx context.Context, cfg config.Config) (*agent.Service, *index.Client, error) {
	contentStore, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	pages := scraper.New(scraper.Config{
		Delay:        cfg.Scraper.Delay,
		MaxDepth:     cfg.Scraper.MaxDepth,
		UserAgent:    cfg.Scraper.UserAgent,
		PageTimeout:  cfg.Scraper.PageTimeout,
		CrawlTimeout: cfg.Scraper.CrawlTimeout,
	})

	opts := agent.Options{MaxContextChars: cfg.Prompt.MaxContextChars}

	if cfg.LLM.Enabled {
		llmClient, err := llm.New(llm.Config{
			BaseURL: cfg.LLM.BaseURL,
			APIKey:  cfg.LLM.APIKey,
			Model:   cfg.LLM.Model,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		opts.LLM = llmClient
		slog.Info("LLM enabled", "model", cfg.LLM.Model)
	}

	indexClient, err := buildIndex(cfg)
	if err != nil {
		return nil, nil, err
	}
	if indexClient != nil {
		if err := indexClient.CreateIndex(ctx); err != nil {
			return nil, nil, fmt.Errorf("failed to create index: %w", err)
		}
		opts.Index = indexClient
		slog.Info("page index enabled", "index", cfg.Index.Index)
	}

	return agent.New(contentStore, pages, opts), indexClient, nil
}
