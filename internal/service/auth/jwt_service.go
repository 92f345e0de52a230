package auth

import (
	"context"
	"time"

	"github.com/phrazzld/taskboard-api/internal/domain"
)

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed JWT access token for the given account.
	// It returns the token together with its expiry time.
	GenerateToken(
		ctx context.Context,
		username string,
		userID int64,
		role domain.Role,
	) (string, time.Time, error)

	// ValidateToken validates the provided token string and extracts the claims.
	// Returns ErrExpiredToken for an expired token and ErrInvalidToken for any
	// other failure (malformed, wrong signature, unexpected algorithm).
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the validated content of an access token.
type Claims struct {
	// Username is the account name the token was issued for (the "sub" claim).
	Username string

	// UserID is the numeric account id (the "uid" claim).
	UserID int64

	// Role is the account role at issue time.
	Role domain.Role

	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}
