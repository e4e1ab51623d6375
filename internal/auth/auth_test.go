package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/Yogesh-Venkat/daily-news-brief-generator/internal/store"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewManager(db, 30*24*time.Hour)
}

func TestRegisterAndVerify(t *testing.T) {
	m := testManager(t)
	ctx := context.Background()

	user, token, err := m.Register(ctx, "Alice@Example.com", "s3cret", "Alice")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("expected normalized email, got %q", user.Email)
	}
	if user.ID == "" || token == "" {
		t.Fatal("expected non-empty user id and token")
	}

	userID, err := m.Verify(ctx, token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if userID != user.ID {
		t.Errorf("token resolved to %q, want %q", userID, user.ID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	m := testManager(t)
	ctx := context.Background()

	if _, _, err := m.Register(ctx, "alice@example.com", "s3cret", "Alice"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	// Case and whitespace variants collide too.
	_, _, err := m.Register(ctx, "  ALICE@example.com ", "other", "Imposter")
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestRegisterRejectsEmptyCredentials(t *testing.T) {
	m := testManager(t)
	ctx := context.Background()

	if _, _, err := m.Register(ctx, "", "pw", "X"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("empty email: got %v", err)
	}
	if _, _, err := m.Register(ctx, "a@b.com", "", "X"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("empty password: got %v", err)
	}
}

func TestLogin(t *testing.T) {
	m := testManager(t)
	ctx := context.Background()

	reg, _, err := m.Register(ctx, "alice@example.com", "s3cret", "Alice")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	user, token, err := m.Login(ctx, "ALICE@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.ID != reg.ID {
		t.Errorf("login returned user %q, want %q", user.ID, reg.ID)
	}
	if _, err := m.Verify(ctx, token); err != nil {
		t.Errorf("fresh login token rejected: %v", err)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	m := testManager(t)
	ctx := context.Background()
	m.Register(ctx, "alice@example.com", "s3cret", "Alice")

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "nobody@example.com", "s3cret"},
		{"wrong password", "alice@example.com", "wrong"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := m.Login(ctx, tc.email, tc.password)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestMultipleSessionsStayValid(t *testing.T) {
	m := testManager(t)
	ctx := context.Background()

	_, first, err := m.Register(ctx, "alice@example.com", "s3cret", "Alice")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	_, second, err := m.Login(ctx, "alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if first == second {
		t.Fatal("expected distinct tokens per session")
	}

	for _, token := range []string{first, second} {
		if _, err := m.Verify(ctx, token); err != nil {
			t.Errorf("session rejected: %v", err)
		}
	}
}

func TestVerifyUnknownToken(t *testing.T) {
	m := testManager(t)
	if _, err := m.Verify(context.Background(), "no-such-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := m.Verify(context.Background(), ""); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("empty token: got %v", err)
	}
}

func TestSessionExpiryBoundary(t *testing.T) {
	m := testManager(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }

	_, token, err := m.Register(ctx, "alice@example.com", "s3cret", "Alice")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	// Just short of 30 days: still valid.
	m.now = func() time.Time { return base.Add(30*24*time.Hour - time.Second) }
	if _, err := m.Verify(ctx, token); err != nil {
		t.Errorf("token rejected before expiry: %v", err)
	}

	// At exactly 30 days: expired.
	m.now = func() time.Time { return base.Add(30 * 24 * time.Hour) }
	if _, err := m.Verify(ctx, token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("expected ErrExpiredToken at the boundary, got %v", err)
	}
}

func TestLogoutRevokesOnlyThatSession(t *testing.T) {
	m := testManager(t)
	ctx := context.Background()

	_, first, _ := m.Register(ctx, "alice@example.com", "s3cret", "Alice")
	_, second, err := m.Login(ctx, "alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := m.Logout(ctx, first); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := m.Verify(ctx, first); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("revoked token should be invalid, got %v", err)
	}
	if _, err := m.Verify(ctx, second); err != nil {
		t.Errorf("other session must survive logout: %v", err)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	m := testManager(t)
	ctx := context.Background()

	_, token, _ := m.Register(ctx, "alice@example.com", "s3cret", "Alice")
	if err := m.Logout(ctx, token); err != nil {
		t.Fatalf("first logout: %v", err)
	}
	if err := m.Logout(ctx, token); err != nil {
		t.Errorf("second logout: %v", err)
	}
	if err := m.Logout(ctx, "never-issued"); err != nil {
		t.Errorf("logout of unknown token: %v", err)
	}
}

func TestGetUser(t *testing.T) {
	m := testManager(t)
	ctx := context.Background()

	reg, _, err := m.Register(ctx, "alice@example.com", "s3cret", "Alice")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	user, err := m.GetUser(ctx, reg.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if user.Email != "alice@example.com" || user.Name != "Alice" {
		t.Errorf("unexpected user: %+v", user)
	}

	if _, err := m.GetUser(ctx, "missing"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for unknown id, got %v", err)
	}
}

func TestTokensAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 32; i++ {
		token, err := newToken()
		if err != nil {
			t.Fatalf("newToken: %v", err)
		}
		if seen[token] {
			t.Fatal("duplicate token generated")
		}
		seen[token] = true
	}
}
