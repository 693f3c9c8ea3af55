package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Service verifies credentials against the static store and owns the
// session lifecycle through the attached SessionStore.
type Service struct {
	store    *Store
	sessions *SessionStore
}

func NewService(store *Store, sessions *SessionStore) *Service {
	return &Service{store: store, sessions: sessions}
}

var ErrInvalidCredentials = errors.New("invalid credentials")

// Authenticate checks a plaintext password against the stored bcrypt hash.
// An unknown user fails closed without any hash computation, and a
// malformed stored hash is treated as a verification failure; both surface
// as the same generic error so the response never reveals whether the
// username existed.
func (s *Service) Authenticate(username, password string) (*User, error) {
	user, err := s.store.GetByUsername(username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates and opens a fresh session on success.
func (s *Service) Login(username, password string) (*Session, error) {
	user, err := s.Authenticate(username, password)
	if err != nil {
		return nil, err
	}
	return s.sessions.Create(user)
}

func (s *Service) Sessions() *SessionStore {
	return s.sessions
}
