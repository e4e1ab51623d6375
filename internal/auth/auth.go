// Package auth owns user credentials and session tokens: registration,
// login, token verification, and revocation.
package auth

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Yogesh-Venkat/daily-news-brief-generator/internal/store"
)

var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("expired token")
)

// User is an account. The password hash never leaves this package.
type User struct {
	ID        string
	Email     string
	Name      string
	CreatedAt time.Time
}

// Manager issues and verifies sessions. Many live sessions per user are
// permitted.
type Manager struct {
	db         *store.Store
	sessionTTL time.Duration
	now        func() time.Time
}

func NewManager(db *store.Store, sessionTTL time.Duration) *Manager {
	if sessionTTL <= 0 {
		sessionTTL = 30 * 24 * time.Hour
	}
	return &Manager{db: db, sessionTTL: sessionTTL, now: time.Now}
}

// Register creates a user and an initial session. The email must be unused.
func (m *Manager) Register(ctx context.Context, email, password, name string) (*User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}

	var existing string
	err := m.db.Read().QueryRowContext(ctx, `SELECT id FROM users WHERE email = ?`, email).Scan(&existing)
	if err == nil {
		return nil, "", ErrDuplicateEmail
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, "", fmt.Errorf("checking email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hashing password: %w", err)
	}

	user := &User{
		ID:        uuid.NewString(),
		Email:     email,
		Name:      name,
		CreatedAt: m.now(),
	}
	_, err = m.db.Write().ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, name, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, user.ID, user.Email, string(hash), user.Name, user.CreatedAt)
	if err != nil {
		return nil, "", fmt.Errorf("creating user: %w", err)
	}

	token, err := m.createSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies credentials and opens a new session. Existing sessions
// stay valid.
func (m *Manager) Login(ctx context.Context, email, password string) (*User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var (
		user User
		hash string
	)
	row := m.db.Read().QueryRowContext(ctx, `
		SELECT id, email, password_hash, name, created_at
		FROM users WHERE email = ?
	`, email)
	if err := row.Scan(&user.ID, &user.Email, &hash, &user.Name, &user.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("reading user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := m.createSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// Verify resolves a token to its owning user ID. Unknown or revoked tokens
// are invalid; a token is expired from its expiry instant onward.
func (m *Manager) Verify(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}

	var (
		userID    string
		expiresAt time.Time
		revokedAt sql.NullTime
	)
	row := m.db.Read().QueryRowContext(ctx, `
		SELECT user_id, expires_at, revoked_at FROM sessions WHERE token = ?
	`, token)
	if err := row.Scan(&userID, &expiresAt, &revokedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrInvalidToken
		}
		return "", fmt.Errorf("reading session: %w", err)
	}

	if revokedAt.Valid {
		return "", ErrInvalidToken
	}
	if !m.now().Before(expiresAt) {
		return "", ErrExpiredToken
	}
	return userID, nil
}

// Logout revokes a session. Revoking an unknown or already-revoked token is
// not an error.
func (m *Manager) Logout(ctx context.Context, token string) error {
	_, err := m.db.Write().ExecContext(ctx, `
		UPDATE sessions SET revoked_at = ? WHERE token = ? AND revoked_at IS NULL
	`, m.now(), token)
	if err != nil {
		return fmt.Errorf("revoking session: %w", err)
	}
	return nil
}

// GetUser loads account details for a verified user ID.
func (m *Manager) GetUser(ctx context.Context, userID string) (*User, error) {
	var user User
	row := m.db.Read().QueryRowContext(ctx, `
		SELECT id, email, name, created_at FROM users WHERE id = ?
	`, userID)
	if err := row.Scan(&user.ID, &user.Email, &user.Name, &user.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("reading user: %w", err)
	}
	return &user, nil
}

func (m *Manager) createSession(ctx context.Context, userID string) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}

	createdAt := m.now()
	_, err = m.db.Write().ExecContext(ctx, `
		INSERT INTO sessions (token, user_id, created_at, expires_at)
		VALUES (?, ?, ?, ?)
	`, token, userID, createdAt, createdAt.Add(m.sessionTTL))
	if err != nil {
		return "", fmt.Errorf("creating session: %w", err)
	}
	return token, nil
}

// newToken returns 32 bytes of entropy as an opaque url-safe string.
func newToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
