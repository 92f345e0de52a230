package mocks

import (
	"errors"

	"github.com/phrazzld/taskboard-api/internal/service/auth"
)

// ErrPasswordMismatch is returned by MockPassword when ShouldSucceed is false.
var ErrPasswordMismatch = errors.New("password mismatch")

// MockPassword implements auth.PasswordHasher and auth.PasswordVerifier for testing.
// Hash prefixes the plaintext with "hashed:" unless HashFn is set.
type MockPassword struct {
	// ShouldSucceed determines whether Compare succeeds
	ShouldSucceed bool

	HashFn    func(password string) (string, error)
	CompareFn func(hashedPassword, password string) error

	// CompareCalledWith stores the arguments of the last Compare call
	CompareCalledWith struct {
		HashedPassword string
		Password       string
	}
	CompareCallCount int
}

var (
	_ auth.PasswordHasher   = (*MockPassword)(nil)
	_ auth.PasswordVerifier = (*MockPassword)(nil)
)

// Hash implements auth.PasswordHasher
func (m *MockPassword) Hash(password string) (string, error) {
	if m.HashFn != nil {
		return m.HashFn(password)
	}
	return "hashed:" + password, nil
}

// Compare implements auth.PasswordVerifier
func (m *MockPassword) Compare(hashedPassword, password string) error {
	m.CompareCalledWith.HashedPassword = hashedPassword
	m.CompareCalledWith.Password = password
	m.CompareCallCount++

	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if m.ShouldSucceed {
		return nil
	}
	return ErrPasswordMismatch
}
