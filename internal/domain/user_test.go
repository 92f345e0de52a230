package domain

import (
	"strings"
	"testing"
	"time"
)

func TestNewUser(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	user, err := NewUser("  alice ", "alice@example.com", "hashedpassword123", now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if user.Username != "alice" {
		t.Errorf("Expected trimmed username alice, got %q", user.Username)
	}
	if user.Role != RoleUser {
		t.Errorf("Expected role %s, got %s", RoleUser, user.Role)
	}
	if !user.CreatedAt.Equal(now) || !user.UpdatedAt.Equal(now) {
		t.Errorf("Expected timestamps %v, got %v / %v", now, user.CreatedAt, user.UpdatedAt)
	}

	_, err = NewUser("", "alice@example.com", "hash", now)
	if err != ErrEmptyUsername {
		t.Errorf("Expected error %v, got %v", ErrEmptyUsername, err)
	}

	_, err = NewUser("al", "alice@example.com", "hash", now)
	if err != ErrUsernameLength {
		t.Errorf("Expected error %v, got %v", ErrUsernameLength, err)
	}

	_, err = NewUser(strings.Repeat("é", MaxUsernameLength), "alice@example.com", "hash", now)
	if err != nil {
		t.Errorf("Expected multi-byte username at the limit to be valid, got %v", err)
	}

	_, err = NewUser("alice", "", "hash", now)
	if err != ErrEmptyEmail {
		t.Errorf("Expected error %v, got %v", ErrEmptyEmail, err)
	}

	_, err = NewUser("alice", "invalidemail", "hash", now)
	if err != ErrInvalidEmail {
		t.Errorf("Expected error %v, got %v", ErrInvalidEmail, err)
	}

	_, err = NewUser("alice", "alice@example.com", "", now)
	if err != ErrEmptyHashedPassword {
		t.Errorf("Expected error %v, got %v", ErrEmptyHashedPassword, err)
	}
}

func TestUserValidateRole(t *testing.T) {
	user := User{
		Username:       "alice",
		Email:          "alice@example.com",
		HashedPassword: "hash",
		Role:           RoleAdmin,
	}
	if err := user.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	user.Role = "ROOT"
	if err := user.Validate(); err != ErrInvalidRole {
		t.Errorf("Expected error %v, got %v", ErrInvalidRole, err)
	}
}

func TestValidateEmailFormat(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"test@example.com", true},
		{"a.b@sub.example.org", true},
		{"@example.com", false},
		{"test@", false},
		{"test@example", false},
		{"test@@example.com", false},
		{"test@example.", false},
		{"testexample.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if got := validateEmailFormat(tt.email); got != tt.valid {
				t.Errorf("validateEmailFormat(%q) = %v, want %v", tt.email, got, tt.valid)
			}
		})
	}
}
