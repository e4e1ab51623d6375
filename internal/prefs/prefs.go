// Package prefs stores per-user news preferences: subscribed topics,
// reading mode, and language.
package prefs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Yogesh-Venkat/daily-news-brief-generator/internal/news"
	"github.com/Yogesh-Venkat/daily-news-brief-generator/internal/store"
)

// ErrNoTopics rejects an explicit update with an empty topic set.
var ErrNoTopics = errors.New("at least one topic is required")

// Preferences is one user's news configuration. One row per user.
type Preferences struct {
	UserID      string
	Topics      []news.Topic
	ReadingMode news.ReadingMode
	Language    string
}

// Default is what a user without a stored row gets.
func Default(userID string) Preferences {
	return Preferences{
		UserID:      userID,
		Topics:      []news.Topic{news.Technology, news.Business},
		ReadingMode: news.ModeShort,
		Language:    "en",
	}
}

type Store struct {
	db *store.Store
}

func NewStore(db *store.Store) *Store {
	return &Store{db: db}
}

// Get returns the user's stored preferences, or the defaults when none are
// set.
func (s *Store) Get(ctx context.Context, userID string) (Preferences, error) {
	row := s.db.Read().QueryRowContext(ctx, `
		SELECT topics, reading_mode, language
		FROM user_preferences WHERE user_id = ?
	`, userID)

	var (
		topicsJSON string
		mode       string
		language   string
	)
	if err := row.Scan(&topicsJSON, &mode, &language); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Default(userID), nil
		}
		return Preferences{}, fmt.Errorf("reading preferences: %w", err)
	}

	var names []string
	if err := json.Unmarshal([]byte(topicsJSON), &names); err != nil {
		return Preferences{}, fmt.Errorf("decoding preferences: %w", err)
	}
	topics := make([]news.Topic, 0, len(names))
	for _, n := range names {
		t, err := news.ParseTopic(n)
		if err != nil {
			// A topic removed from the fixed set drops out silently.
			continue
		}
		topics = append(topics, t)
	}

	readingMode, err := news.ParseReadingMode(mode)
	if err != nil {
		readingMode = news.ModeShort
	}
	if language == "" {
		language = "en"
	}

	return Preferences{
		UserID:      userID,
		Topics:      topics,
		ReadingMode: readingMode,
		Language:    language,
	}, nil
}

// Set validates and upserts the user's preferences.
func (s *Store) Set(ctx context.Context, p Preferences) error {
	if len(p.Topics) == 0 {
		return ErrNoTopics
	}
	names := make([]string, 0, len(p.Topics))
	seen := make(map[news.Topic]bool)
	for _, t := range p.Topics {
		parsed, err := news.ParseTopic(string(t))
		if err != nil {
			return err
		}
		if seen[parsed] {
			continue
		}
		seen[parsed] = true
		names = append(names, string(parsed))
	}

	if _, err := news.ParseReadingMode(string(p.ReadingMode)); err != nil {
		return err
	}
	if p.ReadingMode == "" {
		p.ReadingMode = news.ModeShort
	}
	if p.Language == "" {
		p.Language = "en"
	}

	topicsJSON, err := json.Marshal(names)
	if err != nil {
		return fmt.Errorf("encoding preferences: %w", err)
	}

	_, err = s.db.Write().ExecContext(ctx, `
		INSERT INTO user_preferences (user_id, topics, reading_mode, language, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			topics = excluded.topics,
			reading_mode = excluded.reading_mode,
			language = excluded.language,
			updated_at = excluded.updated_at
	`, p.UserID, string(topicsJSON), string(p.ReadingMode), p.Language, time.Now())
	if err != nil {
		return fmt.Errorf("writing preferences: %w", err)
	}
	return nil
}
