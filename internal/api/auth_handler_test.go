package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/phrazzld/taskboard-api/internal/api/shared"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/mocks"
	"github.com/phrazzld/taskboard-api/internal/service"
	"github.com/phrazzld/taskboard-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func jsonBody(t *testing.T, v interface{}) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func TestAuthHandler_Register(t *testing.T) {
	t.Parallel()

	expiresAt := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	alice := &domain.User{ID: 5, Username: "alice", Email: "alice@example.com", Role: domain.RoleUser}

	validPayload := map[string]interface{}{
		"username":        "alice",
		"email":           "alice@example.com",
		"password":        "secret1",
		"confirmPassword": "secret1",
	}

	tests := []struct {
		name       string
		payload    interface{}
		serviceErr error
		callsSvc   bool
		wantStatus int
		wantError  string
	}{
		{
			name:       "valid registration",
			payload:    validPayload,
			callsSvc:   true,
			wantStatus: http.StatusCreated,
		},
		{
			name: "invalid email",
			payload: map[string]interface{}{
				"username": "alice", "email": "nope", "password": "secret1", "confirmPassword": "secret1",
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "Email must be a valid email address",
		},
		{
			name: "password too short",
			payload: map[string]interface{}{
				"username": "alice", "email": "alice@example.com", "password": "abc", "confirmPassword": "abc",
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "Password must be at least 6 characters",
		},
		{
			name: "username too short",
			payload: map[string]interface{}{
				"username": "al", "email": "alice@example.com", "password": "secret1", "confirmPassword": "secret1",
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "Username must be at least 3 characters",
		},
		{
			name:       "password mismatch",
			payload:    validPayload,
			serviceErr: service.ErrPasswordMismatch,
			callsSvc:   true,
			wantStatus: http.StatusBadRequest,
			wantError:  "Passwords do not match",
		},
		{
			name:       "duplicate username",
			payload:    validPayload,
			serviceErr: store.ErrUsernameExists,
			callsSvc:   true,
			wantStatus: http.StatusConflict,
			wantError:  "Username already exists",
		},
		{
			name:       "duplicate email",
			payload:    validPayload,
			serviceErr: store.ErrEmailExists,
			callsSvc:   true,
			wantStatus: http.StatusConflict,
			wantError:  "Email already exists",
		},
		{
			name:       "unknown field",
			payload:    map[string]interface{}{"username": "alice", "admin": true},
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request format",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := &mocks.MockAuthService{}
			if tt.callsSvc {
				if tt.serviceErr != nil {
					svc.On("Register", mock.Anything, mock.Anything).Return(nil, tt.serviceErr)
				} else {
					svc.On("Register", mock.Anything, service.RegisterInput{
						Username:        "alice",
						Email:           "alice@example.com",
						Password:        "secret1",
						ConfirmPassword: "secret1",
					}).Return(&service.AuthResult{Token: "tok", ExpiresAt: expiresAt, User: alice}, nil)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", jsonBody(t, tt.payload))
			rr := httptest.NewRecorder()
			NewAuthHandler(svc, nil).Register(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantError != "" {
				var body shared.ErrorResponse
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
				assert.Equal(t, tt.wantError, body.Error)
			} else {
				var body AuthResponse
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
				assert.Equal(t, AuthResponse{
					Token:     "tok",
					Type:      "Bearer",
					ID:        5,
					Username:  "alice",
					Email:     "alice@example.com",
					Role:      domain.RoleUser,
					ExpiresAt: expiresAt,
				}, body)
			}
			if !tt.callsSvc {
				svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	t.Parallel()

	alice := &domain.User{ID: 5, Username: "alice", Email: "alice@example.com", Role: domain.RoleUser}

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		svc := &mocks.MockAuthService{}
		svc.On("Login", mock.Anything, "alice", "secret1").
			Return(&service.AuthResult{Token: "tok", User: alice}, nil)

		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
			jsonBody(t, map[string]string{"username": "alice", "password": "secret1"}))
		NewAuthHandler(svc, nil).Login(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var body AuthResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "tok", body.Token)
		assert.Equal(t, "Bearer", body.Type)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		t.Parallel()
		svc := &mocks.MockAuthService{}
		svc.On("Login", mock.Anything, "alice", "wrong").Return(nil, service.ErrInvalidCredentials)

		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
			jsonBody(t, map[string]string{"username": "alice", "password": "wrong"}))
		NewAuthHandler(svc, nil).Login(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "Invalid username or password")
	})

	t.Run("missing password", func(t *testing.T) {
		t.Parallel()
		svc := &mocks.MockAuthService{}

		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
			jsonBody(t, map[string]string{"username": "alice"}))
		NewAuthHandler(svc, nil).Login(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		svc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthHandler_Me(t *testing.T) {
	t.Parallel()

	svc := &mocks.MockAuthService{}
	created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	svc.On("CurrentUser", mock.Anything, int64(5)).Return(&domain.User{
		ID: 5, Username: "alice", Email: "alice@example.com", Role: domain.RoleUser, CreatedAt: created,
	}, nil)
	h := NewAuthHandler(svc, nil)

	t.Run("anonymous", func(t *testing.T) {
		t.Parallel()
		rr := httptest.NewRecorder()
		h.Me(rr, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("authenticated", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req = req.WithContext(shared.WithIdentity(req.Context(), shared.Identity{UserID: 5, Username: "alice"}))
		rr := httptest.NewRecorder()
		h.Me(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var body UserResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, UserResponse{
			ID: 5, Username: "alice", Email: "alice@example.com", Role: domain.RoleUser, CreatedAt: created,
		}, body)
	})
}
