package cmd

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"webagent/internal/config"
)

var (
	cfgFile string
	verbose bool
	cfg     config.Config
)

// GetConfig returns the loaded configuration.
func GetConfig() config.Config {
	return cfg
}

var rootCmd = &cobra.Command{
	Use:   "webagent",
	Short: "webagent: a web content question-answering service",
	Long: `webagent scrapes web pages into structured heading+paragraph content,
stores it under uniquely identified agents, and answers natural-language
questions against the stored content using an LLM gated by relevance
filtering.

Commands:
  store   Scrape URLs and store them under a new agent
  ask     Ask a question against a stored agent
  agents  List, inspect, update, and delete stored agents
  scrape  Scrape or crawl URLs without storing them
  search  Full-text search across indexed agent pages
  serve   Start the MCP server`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig, initLogger)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

func initLogger() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

func initConfig() {
	// Start with defaults
	cfg = config.Defaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("/etc/webagent")
		viper.AddConfigPath(".")
	}

	// Environment variable overrides
	// WEBAGENT_STORAGE_DATA_DIR -> storage.data_dir
	viper.SetEnvPrefix("WEBAGENT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Explicitly bind nested env vars
	viper.BindEnv("storage.backend", "WEBAGENT_STORAGE_BACKEND")
	viper.BindEnv("storage.data_dir", "WEBAGENT_STORAGE_DATA_DIR")
	viper.BindEnv("storage.endpoint", "WEBAGENT_STORAGE_ENDPOINT")
	viper.BindEnv("storage.bucket", "WEBAGENT_STORAGE_BUCKET")
	viper.BindEnv("storage.access_key_id", "WEBAGENT_STORAGE_ACCESS_KEY_ID")
	viper.BindEnv("storage.secret_access_key", "WEBAGENT_STORAGE_SECRET_ACCESS_KEY")
	viper.BindEnv("storage.use_ssl", "WEBAGENT_STORAGE_USE_SSL")
	viper.BindEnv("scraper.delay", "WEBAGENT_SCRAPER_DELAY")
	viper.BindEnv("scraper.max_depth", "WEBAGENT_SCRAPER_MAX_DEPTH")
	viper.BindEnv("scraper.page_timeout", "WEBAGENT_SCRAPER_PAGE_TIMEOUT")
	viper.BindEnv("scraper.crawl_timeout", "WEBAGENT_SCRAPER_CRAWL_TIMEOUT")
	viper.BindEnv("llm.enabled", "WEBAGENT_LLM_ENABLED")
	viper.BindEnv("llm.base_url", "WEBAGENT_LLM_BASE_URL")
	viper.BindEnv("llm.api_key", "WEBAGENT_LLM_API_KEY")
	viper.BindEnv("llm.model", "WEBAGENT_LLM_MODEL")
	viper.BindEnv("index.enabled", "WEBAGENT_INDEX_ENABLED")
	viper.BindEnv("index.addresses", "WEBAGENT_INDEX_ADDRESSES")
	viper.BindEnv("index.index", "WEBAGENT_INDEX_INDEX")
	viper.BindEnv("index.username", "WEBAGENT_INDEX_USERNAME")
	viper.BindEnv("index.password", "WEBAGENT_INDEX_PASSWORD")
	viper.BindEnv("embeddings.enabled", "WEBAGENT_EMBEDDINGS_ENABLED")
	viper.BindEnv("embeddings.base_url", "WEBAGENT_EMBEDDINGS_BASE_URL")
	viper.BindEnv("embeddings.api_key", "WEBAGENT_EMBEDDINGS_API_KEY")
	viper.BindEnv("embeddings.model", "WEBAGENT_EMBEDDINGS_MODEL")
	viper.BindEnv("prompt.max_context_chars", "WEBAGENT_PROMPT_MAX_CONTEXT_CHARS")
	viper.BindEnv("mcp.name", "WEBAGENT_MCP_NAME")
	viper.BindEnv("mcp.version", "WEBAGENT_MCP_VERSION")

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("config file error", "error", err)
		}
		// No config file - use defaults + env vars
	}

	// Unmarshal into struct (merges config file with defaults)
	if err := viper.Unmarshal(&cfg); err != nil {
		slog.Warn("failed to parse config", "error", err)
	}

	// Handle special case: addresses as comma-separated string from env
	if addrs := os.Getenv("WEBAGENT_INDEX_ADDRESSES"); addrs != "" {
		cfg.Index.Addresses = strings.Split(addrs, ",")
	}
}
