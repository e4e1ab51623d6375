// Package cache is the two-tier, TTL-based memo of raw topic results and
// personalized briefs. It is the only writer of both cache tables and owns
// the per-key singleflight guarantee.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Yogesh-Venkat/daily-news-brief-generator/internal/news"
	"github.com/Yogesh-Venkat/daily-news-brief-generator/internal/store"
)

// Store memoizes topic fetches and personalized briefs with a shared TTL.
type Store struct {
	db    *store.Store
	ttl   time.Duration
	now   func() time.Time
	group singleflight.Group
}

func New(db *store.Store, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	return &Store{db: db, ttl: ttl, now: time.Now}
}

// GetNews returns the live shared entry for a topic and date, or a miss.
// Expiry is binary: now at or past expires_at is a miss.
func (s *Store) GetNews(ctx context.Context, topic news.Topic, date string) (*NewsEntry, bool, error) {
	row := s.db.Read().QueryRowContext(ctx, `
		SELECT articles, created_at, expires_at
		FROM cached_news
		WHERE topic = ? AND date = ?
	`, string(topic), date)

	var (
		payload   string
		createdAt time.Time
		expiresAt time.Time
	)
	if err := row.Scan(&payload, &createdAt, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading news cache: %w", err)
	}
	if !s.now().Before(expiresAt) {
		return nil, false, nil
	}

	var articles []news.Article
	if err := json.Unmarshal([]byte(payload), &articles); err != nil {
		return nil, false, fmt.Errorf("decoding news cache entry: %w", err)
	}
	return &NewsEntry{
		Topic:     topic,
		Date:      date,
		Articles:  articles,
		CreatedAt: createdAt,
		ExpiresAt: expiresAt,
	}, true, nil
}

// PutNews stores the deduplicated article list for a topic and date,
// stamping creation and expiry. An existing entry for the key is replaced.
func (s *Store) PutNews(ctx context.Context, topic news.Topic, date string, articles []news.Article) (*NewsEntry, error) {
	payload, err := json.Marshal(articles)
	if err != nil {
		return nil, fmt.Errorf("encoding news cache entry: %w", err)
	}

	createdAt := s.now()
	expiresAt := createdAt.Add(s.ttl)
	_, err = s.db.Write().ExecContext(ctx, `
		INSERT INTO cached_news (topic, date, articles, article_count, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(topic, date) DO UPDATE SET
			articles = excluded.articles,
			article_count = excluded.article_count,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at
	`, string(topic), date, string(payload), len(articles), createdAt, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("writing news cache: %w", err)
	}

	return &NewsEntry{
		Topic:     topic,
		Date:      date,
		Articles:  articles,
		CreatedAt: createdAt,
		ExpiresAt: expiresAt,
	}, nil
}

// GetUserBrief returns the live personalized brief for (user, topic, date),
// or a miss.
func (s *Store) GetUserBrief(ctx context.Context, userID string, topic news.Topic, date string) (*BriefEntry, bool, error) {
	row := s.db.Read().QueryRowContext(ctx, `
		SELECT brief, created_at, expires_at
		FROM user_news_cache
		WHERE user_id = ? AND topic = ? AND date = ?
	`, userID, string(topic), date)

	var (
		payload   string
		createdAt time.Time
		expiresAt time.Time
	)
	if err := row.Scan(&payload, &createdAt, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading brief cache: %w", err)
	}
	if !s.now().Before(expiresAt) {
		return nil, false, nil
	}

	var brief news.Brief
	if err := json.Unmarshal([]byte(payload), &brief); err != nil {
		return nil, false, fmt.Errorf("decoding brief cache entry: %w", err)
	}
	return &BriefEntry{
		UserID:    userID,
		Brief:     brief,
		CreatedAt: createdAt,
		ExpiresAt: expiresAt,
	}, true, nil
}

// PutUserBrief stores a personalized brief with implicit TTL stamping.
func (s *Store) PutUserBrief(ctx context.Context, userID string, brief news.Brief) error {
	payload, err := json.Marshal(brief)
	if err != nil {
		return fmt.Errorf("encoding brief cache entry: %w", err)
	}

	createdAt := s.now()
	_, err = s.db.Write().ExecContext(ctx, `
		INSERT INTO user_news_cache (user_id, topic, date, brief, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, topic, date) DO UPDATE SET
			brief = excluded.brief,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at
	`, userID, string(brief.Topic), brief.Date, string(payload), createdAt, createdAt.Add(s.ttl))
	if err != nil {
		return fmt.Errorf("writing brief cache: %w", err)
	}
	return nil
}

// InvalidateUser clears every personalized brief for one user. Returns the
// number of entries removed.
func (s *Store) InvalidateUser(ctx context.Context, userID string) (int64, error) {
	res, err := s.db.Write().ExecContext(ctx, `DELETE FROM user_news_cache WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("clearing brief cache: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// PruneExpired removes dead rows from both tiers.
func (s *Store) PruneExpired(ctx context.Context) (int64, error) {
	now := s.now()
	var total int64
	for _, table := range []string{"cached_news", "user_news_cache"} {
		res, err := s.db.Write().ExecContext(ctx, `DELETE FROM `+table+` WHERE expires_at <= ?`, now)
		if err != nil {
			return total, fmt.Errorf("pruning %s: %w", table, err)
		}
		n, _ := res.RowsAffected()
		total += n
	}
	return total, nil
}

// NewsStats reports shared-tier cache counts.
func (s *Store) NewsStats(ctx context.Context) (Stats, error) {
	var st Stats
	row := s.db.Read().QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(CASE WHEN article_count > 0 THEN 1 END),
		       COUNT(CASE WHEN expires_at > ? THEN 1 END)
		FROM cached_news
	`, s.now())
	if err := row.Scan(&st.TotalEntries, &st.NonEmptyEntries, &st.LiveEntries); err != nil {
		return Stats{}, fmt.Errorf("reading cache stats: %w", err)
	}
	return st, nil
}

// FetchNews resolves the shared tier for a key, calling fetch on a miss and
// storing the result. Concurrent callers for the same key share a single
// in-flight fetch; with force set the shared-tier read is skipped but the
// flight is still shared, and a successful fetch rewrites the entry.
func (s *Store) FetchNews(ctx context.Context, topic news.Topic, date string, force bool, fetch func(context.Context) ([]news.Article, error)) (*NewsEntry, error) {
	key := string(topic) + "|" + date

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		// Re-check inside the flight: a waiter that arrived during another
		// caller's write must not refetch.
		if !force {
			if entry, ok, err := s.GetNews(ctx, topic, date); err != nil {
				return nil, err
			} else if ok {
				return entry, nil
			}
		}

		articles, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		return s.PutNews(ctx, topic, date, articles)
	})
	if err != nil {
		return nil, err
	}
	return v.(*NewsEntry), nil
}
