package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/taskboard-api/internal/api/shared"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/redact"
	"github.com/phrazzld/taskboard-api/internal/service/auth"
	"github.com/phrazzld/taskboard-api/internal/store"
)

const bearerPrefix = "Bearer "

// AuthMiddleware provides JWT authentication for routes.
type AuthMiddleware struct {
	jwtService auth.JWTService
	users      store.UserStore
	logger     *slog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService, users store.UserStore, logger *slog.Logger) *AuthMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthMiddleware{
		jwtService: jwtService,
		users:      users,
		logger:     logger.With(slog.String("component", "auth_middleware")),
	}
}

// Authenticate resolves a bearer token to a user and stores the resulting
// shared.Identity in the request context. Requests without a usable token
// continue anonymously; RequireAuth decides whether that is acceptable.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContextOrDefault(r.Context(), m.logger)

		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err == nil && claims == nil {
			err = auth.ErrInvalidToken
		}
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) || errors.Is(err, auth.ErrInvalidToken) {
				log.Debug("ignoring unusable bearer token", slog.String("reason", err.Error()))
			} else {
				log.Error("failed to validate token", slog.String("error", redact.Error(err)))
			}
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.users.GetByUsername(r.Context(), claims.Username)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				log.Debug("token subject no longer exists")
			} else {
				log.Error("failed to resolve token subject", slog.String("error", redact.Error(err)))
			}
			next.ServeHTTP(w, r)
			return
		}
		if user.ID != claims.UserID {
			log.Debug("token subject does not match stored user",
				slog.Int64("claim_user_id", claims.UserID),
				slog.Int64("user_id", user.ID))
			next.ServeHTTP(w, r)
			return
		}

		ctx := shared.WithIdentity(r.Context(), shared.Identity{
			UserID:   user.ID,
			Username: user.Username,
			Role:     user.Role,
		})
		ctx = logger.WithLogger(ctx, log.With(slog.Int64("user_id", user.ID)))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth rejects requests that carry no authenticated identity.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := shared.IdentityFromContext(r.Context()); !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// bearerToken extracts the token from an Authorization header value.
func bearerToken(header string) (string, bool) {
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	return token, token != ""
}
