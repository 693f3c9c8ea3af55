package auth

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return NewStore(
		&User{Username: "ana", PasswordHash: string(hash), Role: RoleAnalyst, DisplayName: "Ana"},
		&User{Username: "broken", PasswordHash: "not-a-bcrypt-hash", Role: RoleAdmin, DisplayName: "Broken"},
	)
}

func TestAuthenticate(t *testing.T) {
	svc := NewService(testStore(t), NewSessionStore(0))

	user, err := svc.Authenticate("ana", "correct horse")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if user.Role != RoleAnalyst {
		t.Fatalf("unexpected role %q", user.Role)
	}

	// Any single-character mutation of the password must fail.
	if _, err := svc.Authenticate("ana", "correct hoRse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("mutated password: want ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticateUnknownUser(t *testing.T) {
	svc := NewService(testStore(t), NewSessionStore(0))
	_, err := svc.Authenticate("nobody", "whatever")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user: want ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticateMalformedHash(t *testing.T) {
	svc := NewService(testStore(t), NewSessionStore(0))
	// A malformed stored hash is a verification failure, not a distinct error.
	_, err := svc.Authenticate("broken", "anything")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("malformed hash: want ErrInvalidCredentials, got %v", err)
	}
}

func TestRoleCapabilities(t *testing.T) {
	cases := []struct {
		role   Role
		upload bool
	}{
		{RoleAdmin, true},
		{RoleAnalyst, true},
		{RoleGuest, false},
		{Role("intern"), false}, // unknown roles get no capabilities
	}
	for _, tc := range cases {
		if got := tc.role.CanUpload(); got != tc.upload {
			t.Errorf("CanUpload(%q) = %v, want %v", tc.role, got, tc.upload)
		}
	}
	if Role("intern").Valid() {
		t.Errorf("unknown role must not be valid")
	}
}
