package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrInvalidSession covers every rejection: unknown token, username
// mismatch, and idle expiry. Callers are routed back to anonymous without
// learning which case they hit.
var ErrInvalidSession = errors.New("invalid session")

// Session is a server-held record keyed by an opaque random token. The
// token carries no verifiable structure; validity is established purely by
// lookup here.
type Session struct {
	Username     string
	Role         Role
	DisplayName  string
	Token        string
	CreatedAt    time.Time
	LastActivity time.Time
}

// SessionStore maps token -> session with create/validate/logout
// operations and an idle timeout. A zero idle timeout disables expiry.
type SessionStore struct {
	mu          sync.Mutex
	byToken     map[string]*Session
	idleTimeout time.Duration
	nowFunc     func() time.Time
}

func NewSessionStore(idleTimeout time.Duration) *SessionStore {
	return &SessionStore{
		byToken:     make(map[string]*Session),
		idleTimeout: idleTimeout,
		nowFunc:     time.Now,
	}
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Create opens a session for an authenticated user. Any previous session
// for the same username is displaced; the deployment is single caller per
// session.
func (s *SessionStore) Create(user *User) (*Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}
	now := s.nowFunc()
	sess := &Session{
		Username:     user.Username,
		Role:         user.Role,
		DisplayName:  user.DisplayName,
		Token:        token,
		CreatedAt:    now,
		LastActivity: now,
	}
	s.mu.Lock()
	for t, existing := range s.byToken {
		if existing.Username == user.Username {
			delete(s.byToken, t)
		}
	}
	s.byToken[token] = sess
	s.mu.Unlock()
	return sess, nil
}

// Validate accepts a (token, username) pair only when the token is held
// server-side, belongs to that username, and the idle timeout has not
// elapsed. A valid request refreshes last activity; an expired session is
// removed and must be re-established with credentials.
func (s *SessionStore) Validate(username, token string) (*Session, error) {
	if username == "" || token == "" {
		return nil, ErrInvalidSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byToken[token]
	if !ok || sess.Username != username {
		return nil, ErrInvalidSession
	}
	now := s.nowFunc()
	if s.idleTimeout > 0 && now.Sub(sess.LastActivity) >= s.idleTimeout {
		delete(s.byToken, token)
		return nil, ErrInvalidSession
	}
	sess.LastActivity = now
	copied := *sess
	return &copied, nil
}

// Logout destroys the session immediately, with no timeout check.
func (s *SessionStore) Logout(token string) {
	s.mu.Lock()
	delete(s.byToken, token)
	s.mu.Unlock()
}

// Active reports how many sessions are currently held, counting out any
// that have idled past the timeout.
func (s *SessionStore) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.idleTimeout <= 0 {
		return len(s.byToken)
	}
	now := s.nowFunc()
	n := 0
	for _, sess := range s.byToken {
		if now.Sub(sess.LastActivity) < s.idleTimeout {
			n++
		}
	}
	return n
}
