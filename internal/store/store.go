// Package store owns the sqlite database backing users, sessions,
// preferences, and both cache tiers.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store holds split read/write handles to one sqlite file. The write pool
// is capped at a single connection, which serializes all writes.
type Store struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	readDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}

	s := &Store{readDB: readDB, writeDB: writeDB}
	if err := s.init(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			email         TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			name          TEXT NOT NULL DEFAULT '',
			created_at    DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS sessions (
			token      TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			expires_at DATETIME NOT NULL,
			revoked_at DATETIME,
			FOREIGN KEY (user_id) REFERENCES users (id)
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);

		CREATE TABLE IF NOT EXISTS user_preferences (
			user_id      TEXT PRIMARY KEY,
			topics       TEXT NOT NULL,
			reading_mode TEXT NOT NULL DEFAULT 'short',
			language     TEXT NOT NULL DEFAULT 'en',
			updated_at   DATETIME NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users (id)
		);

		CREATE TABLE IF NOT EXISTS cached_news (
			topic         TEXT NOT NULL,
			date          TEXT NOT NULL,
			articles      TEXT NOT NULL,
			article_count INTEGER NOT NULL DEFAULT 0,
			created_at    DATETIME NOT NULL,
			expires_at    DATETIME NOT NULL,
			PRIMARY KEY (topic, date)
		);
		CREATE INDEX IF NOT EXISTS idx_cached_news_date ON cached_news(date DESC);

		CREATE TABLE IF NOT EXISTS user_news_cache (
			user_id    TEXT NOT NULL,
			topic      TEXT NOT NULL,
			date       TEXT NOT NULL,
			brief      TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			expires_at DATETIME NOT NULL,
			PRIMARY KEY (user_id, topic, date),
			FOREIGN KEY (user_id) REFERENCES users (id)
		);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

// Read returns the read handle.
func (s *Store) Read() *sql.DB { return s.readDB }

// Write returns the serialized write handle.
func (s *Store) Write() *sql.DB { return s.writeDB }

func (s *Store) Close() error {
	var errs []error
	if s.readDB != nil {
		errs = append(errs, s.readDB.Close())
	}
	if s.writeDB != nil {
		errs = append(errs, s.writeDB.Close())
	}
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}
