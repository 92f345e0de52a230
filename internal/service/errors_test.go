package service

import (
	"errors"
	"testing"

	"github.com/phrazzld/taskboard-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestSentinelErrors(t *testing.T) {
	t.Run("ErrTaskNotFound wraps the store error", func(t *testing.T) {
		assert.True(t, errors.Is(ErrTaskNotFound, store.ErrTaskNotFound))
		assert.True(t, errors.Is(ErrTaskNotFound, store.ErrNotFound))
		assert.True(t, store.IsNotFoundError(ErrTaskNotFound))
	})

	t.Run("sentinel errors are different", func(t *testing.T) {
		assert.False(t, errors.Is(ErrInvalidCredentials, ErrPasswordMismatch))
		assert.False(t, errors.Is(ErrPasswordMismatch, ErrInvalidCredentials))
	})
}

func TestTaskServiceError(t *testing.T) {
	tests := []struct {
		name     string
		op       string
		msg      string
		err      error
		expected string
	}{
		{
			name:     "with underlying error",
			op:       "list",
			msg:      "failed to list",
			err:      errors.New("database connection failed"),
			expected: "task service list failed: failed to list: database connection failed",
		},
		{
			name:     "without underlying error",
			op:       "stats",
			msg:      "failed to stats",
			expected: "task service stats failed: failed to stats",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewTaskServiceError(tt.op, tt.msg, tt.err)
			assert.Equal(t, tt.expected, err.Error())
			assert.Equal(t, tt.err, errors.Unwrap(err))
		})
	}

	t.Run("errors.As finds it through wrapping", func(t *testing.T) {
		cause := errors.New("boom")
		wrapped := errors.Join(errors.New("outer"), NewTaskServiceError("get", "failed to get", cause))

		var svcErr *TaskServiceError
		assert.True(t, errors.As(wrapped, &svcErr))
		assert.Equal(t, "get", svcErr.Operation)
		assert.ErrorIs(t, wrapped, cause)
	})
}
