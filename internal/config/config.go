package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"hnradar/internal/domain"
)

const (
	configPathEnv     = "HNRADAR_CONFIG"
	databasePathEnv   = "DATABASE_PATH"
	feedAPIURLEnv     = "HN_API_URL"
	ollamaURLEnv      = "OLLAMA_URL"
	ollamaModelEnv    = "OLLAMA_MODEL"
	fetchIntervalEnv  = "FETCH_INTERVAL_MINUTES"
	topStoriesEnv     = "TOP_STORIES_COUNT"
	serverAddrEnv     = "SERVER_ADDR"
	logLevelEnv       = "LOG_LEVEL"
	personaFileEnv    = "PERSONA_FILE"
	categoriesFileEnv = "CATEGORIES_FILE"
)

const (
	defaultPersona = "You are a helpful AI assistant analyzing Hacker News articles."

	defaultCategories = "Programming\nWeb Development\nAI & Machine Learning\nOther"
)

// Config holds the fully-resolved settings injected into every component.
// It is loaded once at startup and treated as immutable afterwards.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Feed     FeedConfig     `yaml:"feed"`
	Ollama   OllamaConfig   `yaml:"ollama"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DatabaseConfig describes the SQLite storage location.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// FeedConfig describes the feed API and the ingestion schedule.
type FeedConfig struct {
	APIURL               string `yaml:"apiUrl"`
	TopStoriesCount      int    `yaml:"topStoriesCount"`
	FetchIntervalMinutes int    `yaml:"fetchIntervalMinutes"`
}

// OllamaConfig defines how to contact the local model service.
type OllamaConfig struct {
	URL   string `yaml:"url"`
	Model string `yaml:"model"`
}

// AnalysisConfig carries the persona prompt and the allowed category set.
// Persona and Categories are resolved from text files at load time; the
// file paths themselves are not part of the resolved value.
type AnalysisConfig struct {
	Persona    string   `yaml:"-"`
	Categories []string `yaml:"-"`
}

// ServerConfig describes the HTTP read API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LoggingConfig selects the log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present), applies environment overrides,
// resolves persona/category text files and validates the result.
func Load() (Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("%w: read %s: %v", domain.ErrConfig, path, err)
		}
		var fileCfg Config
		if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
			return Config{}, fmt.Errorf("%w: parse %s: %v", domain.ErrConfig, path, err)
		}
		cfg = mergeConfig(cfg, fileCfg)
	}

	cfg.applyEnvOverrides()

	cfg.Analysis.Persona = loadTextFile(
		os.Getenv(personaFileEnv), "persona.txt", defaultPersona)
	cfg.Analysis.Categories = parseCategories(loadTextFile(
		os.Getenv(categoriesFileEnv), "categories.txt", defaultCategories))

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databasePathEnv); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(feedAPIURLEnv); v != "" {
		c.Feed.APIURL = v
	}
	if v := os.Getenv(ollamaURLEnv); v != "" {
		c.Ollama.URL = v
	}
	if v := os.Getenv(ollamaModelEnv); v != "" {
		c.Ollama.Model = v
	}
	if v := os.Getenv(fetchIntervalEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Feed.FetchIntervalMinutes = n
		}
	}
	if v := os.Getenv(topStoriesEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Feed.TopStoriesCount = n
		}
	}
	if v := os.Getenv(serverAddrEnv); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func (c Config) validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("%w: database path is empty", domain.ErrConfig)
	}
	if c.Feed.FetchIntervalMinutes <= 0 {
		return fmt.Errorf("%w: fetch interval must be positive, got %d",
			domain.ErrConfig, c.Feed.FetchIntervalMinutes)
	}
	if c.Feed.TopStoriesCount < 0 {
		return fmt.Errorf("%w: top stories count must not be negative, got %d",
			domain.ErrConfig, c.Feed.TopStoriesCount)
	}
	if c.Ollama.URL == "" || c.Ollama.Model == "" {
		return fmt.Errorf("%w: ollama url and model are required", domain.ErrConfig)
	}
	return nil
}

// loadTextFile tries the explicit path, then name in the working directory,
// then config/<name>, falling back to the built-in default.
func loadTextFile(explicit, name, fallback string) string {
	candidates := []string{explicit, name, "config/" + name}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		if raw, err := os.ReadFile(path); err == nil {
			if text := strings.TrimSpace(string(raw)); text != "" {
				return text
			}
		}
	}
	return fallback
}

// parseCategories splits one category per line and guarantees the fallback
// category is always present.
func parseCategories(text string) []string {
	var categories []string
	for _, line := range strings.Split(text, "\n") {
		if name := strings.TrimSpace(line); name != "" {
			categories = append(categories, name)
		}
	}

	hasFallback := false
	for _, name := range categories {
		if strings.EqualFold(name, domain.FallbackCategory) {
			hasFallback = true
			break
		}
	}
	if !hasFallback {
		categories = append(categories, domain.FallbackCategory)
	}

	return categories
}

func mergeConfig(base, override Config) Config {
	if override.Database.Path != "" {
		base.Database = override.Database
	}

	if override.Feed.APIURL != "" {
		base.Feed.APIURL = override.Feed.APIURL
	}
	if override.Feed.TopStoriesCount != 0 {
		base.Feed.TopStoriesCount = override.Feed.TopStoriesCount
	}
	if override.Feed.FetchIntervalMinutes != 0 {
		base.Feed.FetchIntervalMinutes = override.Feed.FetchIntervalMinutes
	}

	if override.Ollama.URL != "" {
		base.Ollama.URL = override.Ollama.URL
	}
	if override.Ollama.Model != "" {
		base.Ollama.Model = override.Ollama.Model
	}

	if override.Server.Addr != "" {
		base.Server.Addr = override.Server.Addr
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Database: DatabaseConfig{Path: "articles.db"},
		Feed: FeedConfig{
			APIURL:               "https://hacker-news.firebaseio.com/v0",
			TopStoriesCount:      15,
			FetchIntervalMinutes: 60,
		},
		Ollama: OllamaConfig{
			URL:   "http://localhost:11434",
			Model: "qwen2.5:7b",
		},
		Server:  ServerConfig{Addr: ":8080"},
		Logging: LoggingConfig{Level: "info"},
	}
}
