package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadDefaults()
	if err != nil {
		t.Fatalf("loadDefaults: %v", err)
	}
	if len(cfg.Feeds) == 0 {
		t.Error("expected default feeds")
	}
	if _, ok := cfg.Feeds["Technology"]; !ok {
		t.Error("expected a Technology feed in defaults")
	}
	if !cfg.NewsAPI.Enabled || !cfg.GNews.Enabled {
		t.Error("expected keyed providers enabled by default")
	}
}

func TestDurationDefaults(t *testing.T) {
	cfg := &Config{}
	if got := cfg.CacheTTLDuration(); got != 6*time.Hour {
		t.Errorf("expected 6h cache TTL default, got %v", got)
	}
	if got := cfg.SessionTTLDuration(); got != 30*24*time.Hour {
		t.Errorf("expected 30d session TTL default, got %v", got)
	}
	if got := cfg.AdapterTimeoutDuration(); got != 15*time.Second {
		t.Errorf("expected 15s adapter timeout default, got %v", got)
	}

	cfg = &Config{CacheTTL: "2h", SessionTTL: "24h", AdapterTimeout: "5s"}
	if got := cfg.CacheTTLDuration(); got != 2*time.Hour {
		t.Errorf("expected 2h, got %v", got)
	}
	if got := cfg.SessionTTLDuration(); got != 24*time.Hour {
		t.Errorf("expected 24h, got %v", got)
	}
	if got := cfg.AdapterTimeoutDuration(); got != 5*time.Second {
		t.Errorf("expected 5s, got %v", got)
	}

	cfg = &Config{CacheTTL: "bogus"}
	if got := cfg.CacheTTLDuration(); got != 6*time.Hour {
		t.Errorf("expected 6h fallback for invalid TTL, got %v", got)
	}
}

func TestKeyResolutionFromEnv(t *testing.T) {
	t.Setenv("NEWS_API_KEY", "env-news-key")
	t.Setenv("GNEWS_API_KEY", "env-gnews-key")

	cfg := &Config{NewsAPI: APISource{Enabled: true}, GNews: APISource{Enabled: true}}
	if got := cfg.NewsAPIKey(); got != "env-news-key" {
		t.Errorf("NewsAPIKey = %q", got)
	}
	if got := cfg.GNewsKey(); got != "env-gnews-key" {
		t.Errorf("GNewsKey = %q", got)
	}

	// Config value wins over env.
	cfg.NewsAPI.APIKey = "inline-key"
	if got := cfg.NewsAPIKey(); got != "inline-key" {
		t.Errorf("expected inline key to win, got %q", got)
	}

	// Disabled providers resolve to no key regardless of env.
	cfg.GNews.Enabled = false
	if got := cfg.GNewsKey(); got != "" {
		t.Errorf("expected empty key for disabled provider, got %q", got)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope", "config.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Feeds) == 0 {
		t.Error("expected default feeds for missing file")
	}
}

func TestLoadAndValidate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	good := `
cache_ttl: 1h
feeds:
  Technology:
    - https://example.com/tech.xml
`
	if err := os.WriteFile(path, []byte(good), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CacheTTLDuration() != time.Hour {
		t.Errorf("expected 1h TTL, got %v", cfg.CacheTTLDuration())
	}

	bad := `
feeds:
  Technology:
    - ftp://example.com/tech.xml
`
	if err := os.WriteFile(path, []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected validation error for non-http feed url")
	}

	badAI := `
ai:
  provider: mystery
`
	if err := os.WriteFile(path, []byte(badAI), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected validation error for unknown ai provider")
	}
}
