package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// APISource configures one of the keyed news providers. An empty key (after
// env resolution) disables the adapter without error.
type APISource struct {
	Enabled bool   `yaml:"enabled"`
	APIKey  string `yaml:"api_key,omitempty"`
}

type AIConfig struct {
	Provider string `yaml:"provider"` // "claude" or "openai"
	APIKey   string `yaml:"api_key,omitempty"`
	Model    string `yaml:"model,omitempty"`
}

type Config struct {
	CacheTTL       string              `yaml:"cache_ttl"`
	SessionTTL     string              `yaml:"session_ttl"`
	AdapterTimeout string              `yaml:"adapter_timeout"`
	NewsAPI        APISource           `yaml:"newsapi"`
	GNews          APISource           `yaml:"gnews"`
	Feeds          map[string][]string `yaml:"feeds"`
	AI             *AIConfig           `yaml:"ai,omitempty"`
}

// NewsAPIKey returns the resolved NewsAPI credential (config or env var).
func (c *Config) NewsAPIKey() string {
	if !c.NewsAPI.Enabled {
		return ""
	}
	if c.NewsAPI.APIKey != "" {
		return c.NewsAPI.APIKey
	}
	return os.Getenv("NEWS_API_KEY")
}

// GNewsKey returns the resolved GNews credential (config or env var).
func (c *Config) GNewsKey() string {
	if !c.GNews.Enabled {
		return ""
	}
	if c.GNews.APIKey != "" {
		return c.GNews.APIKey
	}
	return os.Getenv("GNEWS_API_KEY")
}

// AIKey returns the resolved summarization API key (config or env var).
func (c *Config) AIKey() string {
	if c.AI != nil && c.AI.APIKey != "" {
		return c.AI.APIKey
	}
	return os.Getenv("NEWS_BRIEF_AI_KEY")
}

func (c *Config) CacheTTLDuration() time.Duration {
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil || d <= 0 {
		return 6 * time.Hour
	}
	return d
}

func (c *Config) SessionTTLDuration() time.Duration {
	d, err := time.ParseDuration(c.SessionTTL)
	if err != nil || d <= 0 {
		return 30 * 24 * time.Hour
	}
	return d
}

func (c *Config) AdapterTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.AdapterTimeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

// FeedURLs returns the feed URLs configured for a topic name.
func (c *Config) FeedURLs(topic string) []string {
	return c.Feeds[topic]
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "newsbrief", "config.yaml")
}

func DBPath() string {
	return filepath.Join(xdg.DataHome, "newsbrief", "newsbrief.db")
}

// SessionTokenPath is where the CLI keeps the active session token.
func SessionTokenPath() string {
	return filepath.Join(xdg.StateHome, "newsbrief", "session")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

func Load(path string) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Write defaults to config path on first run
			if err := writeDefaults(path); err != nil {
				// Non-fatal: just use embedded defaults
				return defaults, nil
			}
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	for topic, urls := range cfg.Feeds {
		if len(urls) == 0 {
			return fmt.Errorf("feeds for %q: at least one url is required", topic)
		}
		for _, raw := range urls {
			u, err := url.Parse(raw)
			if err != nil {
				return fmt.Errorf("feeds for %q: invalid url %q: %w", topic, raw, err)
			}
			if u.Scheme != "http" && u.Scheme != "https" {
				return fmt.Errorf("feeds for %q: url scheme must be http or https, got %q", topic, u.Scheme)
			}
		}
	}
	if cfg.AI != nil && cfg.AI.Provider != "" && cfg.AI.Provider != "claude" && cfg.AI.Provider != "openai" {
		return fmt.Errorf("ai provider %q unknown (valid: claude, openai)", cfg.AI.Provider)
	}
	return nil
}
