package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/service/auth"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// RegisterInput carries a registration request.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// AuthResult is returned by a successful registration or login.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// AuthService handles account registration and login.
type AuthService interface {
	// Register creates a USER account and issues a token for it.
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)

	// Login checks the credentials and issues a token.
	// Every failure is reported as ErrInvalidCredentials.
	Login(ctx context.Context, username, password string) (*AuthResult, error)

	// CurrentUser returns the account with the given id.
	CurrentUser(ctx context.Context, userID int64) (*domain.User, error)
}

type authServiceImpl struct {
	users    store.UserStore
	tokens   auth.JWTService
	hasher   auth.PasswordHasher
	verifier auth.PasswordVerifier
	now      func() time.Time
	logger   *slog.Logger

	// dummyHash is compared against when the username is unknown, so a
	// failed login costs the same hashing work whether or not the account exists.
	dummyHash string
}

var _ AuthService = (*authServiceImpl)(nil)

// NewAuthService creates an AuthService.
// It returns an error if any of the required dependencies are nil.
func NewAuthService(
	users store.UserStore,
	tokens auth.JWTService,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	logger *slog.Logger,
) (AuthService, error) {
	if users == nil {
		return nil, domain.NewValidationError("userStore", "cannot be nil")
	}
	if tokens == nil {
		return nil, domain.NewValidationError("jwtService", "cannot be nil")
	}
	if hasher == nil {
		return nil, domain.NewValidationError("passwordHasher", "cannot be nil")
	}
	if verifier == nil {
		return nil, domain.NewValidationError("passwordVerifier", "cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	dummyHash, err := hasher.Hash("taskboard-login-timing-guard")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare login timing guard: %w", err)
	}

	return &authServiceImpl{
		users:     users,
		tokens:    tokens,
		hasher:    hasher,
		verifier:  verifier,
		now:       time.Now,
		logger:    logger.With(slog.String("component", "auth_service")),
		dummyHash: dummyHash,
	}, nil
}

// Register implements AuthService.Register
func (s *authServiceImpl) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if input.Password != input.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := domain.NewUser(input.Username, input.Email, hashed, s.now())
	if err != nil {
		return nil, registrationValidationError(err)
	}

	if err := s.users.Create(ctx, user); err != nil {
		if store.IsDuplicateError(err) {
			log.Info("registration rejected: account exists", slog.String("error", err.Error()))
			return nil, err
		}
		log.Error("failed to create user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info("user registered", slog.Int64("user_id", user.ID))
	return s.issue(ctx, user)
}

// registrationValidationError maps domain user errors onto field errors.
func registrationValidationError(err error) error {
	switch {
	case errors.Is(err, domain.ErrEmptyUsername), errors.Is(err, domain.ErrUsernameLength):
		return domain.NewValidationError("username", err.Error())
	case errors.Is(err, domain.ErrEmptyEmail), errors.Is(err, domain.ErrInvalidEmail):
		return domain.NewValidationError("email", err.Error())
	case errors.Is(err, domain.ErrEmptyHashedPassword):
		return domain.NewValidationError("password", "password is required")
	}
	return domain.NewValidationError("user", err.Error())
}

// Login implements AuthService.Login
func (s *authServiceImpl) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			_ = s.verifier.Compare(s.dummyHash, password)
			log.Debug("login failed: unknown user")
			return nil, ErrInvalidCredentials
		}
		log.Error("failed to load user for login", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login failed: password mismatch", slog.Int64("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}

	log.Info("user logged in", slog.Int64("user_id", user.ID))
	return s.issue(ctx, user)
}

func (s *authServiceImpl) issue(ctx context.Context, user *domain.User) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.GenerateToken(ctx, user.Username, user.ID, user.Role)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to generate token",
			slog.Int64("user_id", user.ID),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// CurrentUser implements AuthService.CurrentUser
func (s *authServiceImpl) CurrentUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to load current user",
				slog.Int64("user_id", userID),
				slog.String("error", err.Error()))
		}
		return nil, fmt.Errorf("failed to load current user: %w", err)
	}
	return user, nil
}
