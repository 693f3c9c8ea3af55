package auth

import (
	"errors"
	"testing"
	"time"
)

func newTestUser() *User {
	return &User{Username: "ana", Role: RoleAnalyst, DisplayName: "Ana"}
}

func TestSessionValidateAndRefresh(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	store := NewSessionStore(30 * time.Minute)
	store.nowFunc = func() time.Time { return now }

	sess, err := store.Create(newTestUser())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(sess.Token) != 64 {
		t.Fatalf("token length %d, want 64 hex chars", len(sess.Token))
	}

	// Just inside the idle window: valid, and activity refreshes.
	now = now.Add(29 * time.Minute)
	got, err := store.Validate("ana", sess.Token)
	if err != nil {
		t.Fatalf("validate at 29m: %v", err)
	}
	if !got.LastActivity.Equal(now) {
		t.Fatalf("last activity not refreshed: %v", got.LastActivity)
	}

	// The refresh restarted the clock, so another 29 minutes is still fine.
	now = now.Add(29 * time.Minute)
	if _, err := store.Validate("ana", sess.Token); err != nil {
		t.Fatalf("validate after refresh: %v", err)
	}
}

func TestSessionExpiresAtIdleTimeout(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	store := NewSessionStore(30 * time.Minute)
	store.nowFunc = func() time.Time { return now }

	sess, err := store.Create(newTestUser())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Exactly at the timeout boundary the session is already invalid.
	now = now.Add(30 * time.Minute)
	if _, err := store.Validate("ana", sess.Token); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("at boundary: want ErrInvalidSession, got %v", err)
	}
	// And it stays invalid: no silent renewal.
	now = now.Add(-time.Minute)
	if _, err := store.Validate("ana", sess.Token); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("after expiry: want ErrInvalidSession, got %v", err)
	}
}

func TestSessionTokenMismatch(t *testing.T) {
	store := NewSessionStore(30 * time.Minute)
	sess, err := store.Create(newTestUser())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := store.Validate("ana", "deadbeef"); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("wrong token: want ErrInvalidSession, got %v", err)
	}
	if _, err := store.Validate("someone-else", sess.Token); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("wrong username: want ErrInvalidSession, got %v", err)
	}
}

func TestLogoutIsImmediate(t *testing.T) {
	store := NewSessionStore(30 * time.Minute)
	sess, err := store.Create(newTestUser())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	store.Logout(sess.Token)
	if _, err := store.Validate("ana", sess.Token); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("after logout: want ErrInvalidSession, got %v", err)
	}
}

func TestZeroIdleTimeoutDisablesExpiry(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	store := NewSessionStore(0)
	store.nowFunc = func() time.Time { return now }

	sess, err := store.Create(newTestUser())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	now = now.Add(24 * time.Hour * 365)
	if _, err := store.Validate("ana", sess.Token); err != nil {
		t.Fatalf("expiry disabled, validate failed: %v", err)
	}
}
