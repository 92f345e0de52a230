package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// User field limits, counted in characters.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 50
	MaxEmailLength    = 100
)

// Common validation errors
var (
	ErrEmptyUsername       = errors.New("username cannot be empty")
	ErrUsernameLength      = errors.New("username must be between 3 and 50 characters")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// Role is the authorization role of a user. It grants no extra task access.
type Role string

// Known roles.
const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents a registered account. Only the password hash is ever kept.
type User struct {
	ID             int64
	Username       string
	Email          string
	HashedPassword string
	Role           Role
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewUser builds a USER-role account stamped with now. The caller hashes the
// password before calling.
func NewUser(username, email, hashedPassword string, now time.Time) (*User, error) {
	now = NormalizeTime(now)
	user := &User{
		Username:       strings.TrimSpace(username),
		Email:          strings.TrimSpace(email),
		HashedPassword: hashedPassword,
		Role:           RoleUser,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.Username == "" {
		return ErrEmptyUsername
	}
	if n := utf8.RuneCountInString(u.Username); n < MinUsernameLength || n > MaxUsernameLength {
		return ErrUsernameLength
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}
	if utf8.RuneCountInString(u.Email) > MaxEmailLength || !validateEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	if u.HashedPassword == "" {
		return ErrEmptyHashedPassword
	}

	if !u.Role.IsValid() {
		return ErrInvalidRole
	}

	return nil
}

// validateEmailFormat requires a non-empty local part and a dotted domain.
// Request payloads are checked more strictly with the validator "email" tag.
func validateEmailFormat(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 || strings.Count(email, "@") != 1 {
		return false
	}

	domainPart := email[at+1:]
	dot := strings.LastIndexByte(domainPart, '.')
	return dot > 0 && dot < len(domainPart)-1
}
