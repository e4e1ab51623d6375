package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Yogesh-Venkat/daily-news-brief-generator/internal/auth"
	"github.com/Yogesh-Venkat/daily-news-brief-generator/internal/brief"
	"github.com/Yogesh-Venkat/daily-news-brief-generator/internal/cache"
	"github.com/Yogesh-Venkat/daily-news-brief-generator/internal/config"
	"github.com/Yogesh-Venkat/daily-news-brief-generator/internal/prefs"
	"github.com/Yogesh-Venkat/daily-news-brief-generator/internal/source"
	"github.com/Yogesh-Venkat/daily-news-brief-generator/internal/store"
	"github.com/Yogesh-Venkat/daily-news-brief-generator/internal/summarize"
)

// app wires the component graph for one command invocation.
type app struct {
	cfg      *config.Config
	db       *store.Store
	sessions *auth.Manager
	prefs    *prefs.Store
	cache    *cache.Store
	briefs   *brief.Orchestrator
}

func openApp() (*app, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	db, err := store.Open(config.DBPath())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	prefStore := prefs.NewStore(db)
	cacheStore := cache.New(db, cfg.CacheTTLDuration())
	engine := summarize.New(cfg.AI, cfg.AIKey())

	return &app{
		cfg:      cfg,
		db:       db,
		sessions: auth.NewManager(db, cfg.SessionTTLDuration()),
		prefs:    prefStore,
		cache:    cacheStore,
		briefs:   brief.NewOrchestrator(prefStore, cacheStore, buildAdapters(cfg), engine, cfg.AdapterTimeoutDuration()),
	}, nil
}

func (a *app) Close() {
	a.db.Close()
}

// buildAdapters constructs the enabled source adapters in priority order.
// A missing credential leaves that adapter out without error.
func buildAdapters(cfg *config.Config) []source.Adapter {
	var adapters []source.Adapter
	if key := cfg.NewsAPIKey(); key != "" {
		adapters = append(adapters, source.NewNewsAPIAdapter(key))
	}
	if key := cfg.GNewsKey(); key != "" {
		adapters = append(adapters, source.NewGNewsAdapter(key))
	}
	adapters = append(adapters, source.NewRSSAdapter(cfg.Feeds))
	return adapters
}

// requireUser resolves the persisted session token to a user ID. Every
// identity-gated command goes through here.
func (a *app) requireUser(ctx context.Context) (string, error) {
	token, err := loadToken()
	if err != nil {
		return "", fmt.Errorf("not logged in (run: newsbrief login)")
	}
	userID, err := a.sessions.Verify(ctx, token)
	if err != nil {
		return "", fmt.Errorf("session %w (run: newsbrief login)", err)
	}
	return userID, nil
}

func saveToken(token string) error {
	path := config.SessionTokenPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(token), 0o600)
}

func loadToken() (string, error) {
	data, err := os.ReadFile(config.SessionTokenPath())
	if err != nil {
		return "", err
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("empty session token")
	}
	return token, nil
}

func clearToken() {
	os.Remove(config.SessionTokenPath())
}
