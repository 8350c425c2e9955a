package config

import "time"

// Config holds all application configuration.
type Config struct {
	Storage    Storage    `mapstructure:"storage"`
	Scraper    Scraper    `mapstructure:"scraper"`
	LLM        LLM        `mapstructure:"llm"`
	Index      Index      `mapstructure:"index"`
	Embeddings Embeddings `mapstructure:"embeddings"`
	Prompt     Prompt     `mapstructure:"prompt"`
	MCP        MCP        `mapstructure:"mcp"`
}

// Storage selects and configures the agent record backend.
type Storage struct {
	Backend         string `mapstructure:"backend"` // "fs" or "s3"
	DataDir         string `mapstructure:"data_dir"`
	Endpoint        string `mapstructure:"endpoint"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// Scraper holds web scraping configuration. PageTimeout bounds a
// single-page scrape; CrawlTimeout bounds a whole crawl.
type Scraper struct {
	Delay        time.Duration `mapstructure:"delay"`
	MaxDepth     int           `mapstructure:"max_depth"`
	UserAgent    string        `mapstructure:"user_agent"`
	PageTimeout  time.Duration `mapstructure:"page_timeout"`
	CrawlTimeout time.Duration `mapstructure:"crawl_timeout"`
}

// LLM holds question-answering model configuration.
type LLM struct {
	Enabled bool   `mapstructure:"enabled"`
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
}

// Index holds the optional Elasticsearch page index configuration.
type Index struct {
	Enabled   bool     `mapstructure:"enabled"`
	Addresses []string `mapstructure:"addresses"`
	Index     string   `mapstructure:"index"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
}

// Embeddings holds the optional embedding model configuration used for
// hybrid page search.
type Embeddings struct {
	Enabled bool   `mapstructure:"enabled"`
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
}

// Prompt holds prompt assembly configuration.
type Prompt struct {
	MaxContextChars int `mapstructure:"max_context_chars"`
}

// MCP holds MCP server configuration.
type MCP struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Storage: Storage{
			Backend: "fs",
			DataDir: "./scraped_content",
			Bucket:  "webagent",
		},
		Scraper: Scraper{
			Delay:        2 * time.Second,
			MaxDepth:     2,
			UserAgent:    "webagent/1.0",
			PageTimeout:  5 * time.Minute,
			CrawlTimeout: 10 * time.Minute,
		},
		LLM: LLM{
			Enabled: false, // Requires a provider endpoint and key
			Model:   "meta-llama/Llama-4-Maverick-17B-128E-Instruct-FP8",
		},
		Index: Index{
			Enabled:   false,
			Addresses: []string{"http://localhost:9200"},
			Index:     "webagent-pages",
		},
		Embeddings: Embeddings{
			Enabled: false,
		},
		Prompt: Prompt{
			MaxContextChars: 0, // No truncation by default
		},
		MCP: MCP{
			Name:    "webagent",
			Version: "1.0.0",
		},
	}
}
