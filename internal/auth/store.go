package auth

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Store holds the static credential table. Accounts are loaded once at
// startup and never change for the lifetime of the process; there is no
// account management surface.
type Store struct {
	users map[string]*User
}

var ErrUserNotFound = errors.New("user not found")

type usersFile struct {
	Users []struct {
		Username     string `yaml:"username"`
		PasswordHash string `yaml:"password_hash"`
		Role         Role   `yaml:"role"`
		DisplayName  string `yaml:"display_name"`
	} `yaml:"users"`
}

// LoadStore reads the credential file. Entries without a username or hash
// are skipped; an unknown role is rejected outright so a typo cannot grant
// an account the zero-capability fallback by accident.
func LoadStore(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read users file: %w", err)
	}
	var uf usersFile
	if err := yaml.Unmarshal(data, &uf); err != nil {
		return nil, fmt.Errorf("parse users file: %w", err)
	}
	s := &Store{users: make(map[string]*User, len(uf.Users))}
	for _, u := range uf.Users {
		if u.Username == "" || u.PasswordHash == "" {
			continue
		}
		if !u.Role.Valid() {
			return nil, fmt.Errorf("user %q: unknown role %q", u.Username, u.Role)
		}
		s.users[u.Username] = &User{
			Username:     u.Username,
			PasswordHash: u.PasswordHash,
			Role:         u.Role,
			DisplayName:  u.DisplayName,
		}
	}
	return s, nil
}

// NewStore builds a store from an in-memory user list. Used by tests.
func NewStore(users ...*User) *Store {
	s := &Store{users: make(map[string]*User, len(users))}
	for _, u := range users {
		s.users[u.Username] = u
	}
	return s
}

func (s *Store) GetByUsername(username string) (*User, error) {
	u, ok := s.users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *Store) Len() int {
	return len(s.users)
}
