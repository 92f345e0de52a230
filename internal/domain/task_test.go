package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

var baseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestParseTaskStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    TaskStatus
		wantErr bool
	}{
		{"PENDING", TaskStatusPending, false},
		{"pending", TaskStatusPending, false},
		{" In_Progress ", TaskStatusInProgress, false},
		{"completed", TaskStatusCompleted, false},
		{"CANCELLED", TaskStatusCancelled, false},
		{"DONE", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseTaskStatus(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidStatus)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTaskPriority(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    TaskPriority
		wantErr bool
	}{
		{"low", TaskPriorityLow, false},
		{"Medium", TaskPriorityMedium, false},
		{"HIGH", TaskPriorityHigh, false},
		{"urgent", TaskPriorityUrgent, false},
		{"CRITICAL", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseTaskPriority(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPriority)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewTask(t *testing.T) {
	t.Parallel()

	t.Run("applies defaults", func(t *testing.T) {
		task, err := NewTask(7, TaskInput{Title: "Write report"}, baseTime)
		require.NoError(t, err)

		assert.Equal(t, int64(7), task.OwnerID)
		assert.Equal(t, "Write report", task.Title)
		assert.Equal(t, TaskStatusPending, task.Status)
		assert.Equal(t, TaskPriorityMedium, task.Priority)
		assert.Equal(t, baseTime, task.CreatedAt)
		assert.Equal(t, baseTime, task.UpdatedAt)
		assert.Nil(t, task.CompletedAt)
		assert.Nil(t, task.DueDate)
	})

	t.Run("created as completed stamps completion time", func(t *testing.T) {
		task, err := NewTask(7, TaskInput{Title: "Done already", Status: "completed"}, baseTime)
		require.NoError(t, err)

		assert.Equal(t, TaskStatusCompleted, task.Status)
		require.NotNil(t, task.CompletedAt)
		assert.Equal(t, baseTime, *task.CompletedAt)
	})

	t.Run("normalizes times to UTC microseconds", func(t *testing.T) {
		loc := time.FixedZone("UTC+2", 2*60*60)
		due := time.Date(2025, 6, 3, 9, 0, 0, 123456789, loc)

		task, err := NewTask(7, TaskInput{Title: "t", DueDate: &due}, baseTime.Add(789*time.Nanosecond))
		require.NoError(t, err)

		require.NotNil(t, task.DueDate)
		assert.Equal(t, time.UTC, task.DueDate.Location())
		assert.Equal(t, 123456000, task.DueDate.Nanosecond())
		assert.Equal(t, baseTime, task.CreatedAt)
	})

	t.Run("collects every invalid field", func(t *testing.T) {
		_, err := NewTask(0, TaskInput{
			Title:       "   ",
			Description: strings.Repeat("x", MaxDescriptionLength+1),
			Status:      "DONE",
			Priority:    "CRITICAL",
		}, baseTime)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValidation))

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		fields := verr.FieldMap()
		assert.Equal(t, "Title is required", fields["title"])
		assert.Contains(t, fields, "description")
		assert.Contains(t, fields, "status")
		assert.Contains(t, fields, "priority")
		assert.Contains(t, fields, "userId")
	})

	t.Run("title length counts characters", func(t *testing.T) {
		_, err := NewTask(1, TaskInput{Title: strings.Repeat("ü", MaxTitleLength)}, baseTime)
		assert.NoError(t, err)

		_, err = NewTask(1, TaskInput{Title: strings.Repeat("ü", MaxTitleLength+1)}, baseTime)
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestValidateTaskInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      TaskInput
		wantFields []string
	}{
		{name: "minimal", input: TaskInput{Title: "Write report"}},
		{name: "explicit enums", input: TaskInput{Title: "x", Status: "in_progress", Priority: "Urgent"}},
		{name: "blank title", input: TaskInput{Title: "   "}, wantFields: []string{"title"}},
		{
			name:       "every field invalid",
			input:      TaskInput{Title: "", Description: strings.Repeat("d", MaxDescriptionLength+1), Status: "DONE", Priority: "ASAP"},
			wantFields: []string{"title", "description", "status", "priority"},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateTaskInput(tc.input)
			if len(tc.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			fields := verr.FieldMap()
			assert.Len(t, fields, len(tc.wantFields))
			for _, f := range tc.wantFields {
				assert.Contains(t, fields, f)
			}
		})
	}
}

func TestValidateTaskPatch(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateTaskPatch(TaskPatch{}))
	assert.NoError(t, ValidateTaskPatch(TaskPatch{Title: strPtr("  ")}))
	assert.NoError(t, ValidateTaskPatch(TaskPatch{Status: strPtr("completed")}))

	err := ValidateTaskPatch(TaskPatch{
		Title:    strPtr(strings.Repeat("t", MaxTitleLength+1)),
		Priority: strPtr("ASAP"),
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Invalid priority: ASAP", verr.FieldMap()["priority"])
	assert.Contains(t, verr.FieldMap(), "title")
}

func TestTaskApplyPatch(t *testing.T) {
	t.Parallel()

	newTask := func(t *testing.T) *Task {
		t.Helper()
		task, err := NewTask(1, TaskInput{
			Title:       "Original",
			Description: "first",
			Priority:    "LOW",
			DueDate:     timePtr(baseTime.Add(48 * time.Hour)),
		}, baseTime)
		require.NoError(t, err)
		return task
	}

	later := baseTime.Add(time.Hour)

	t.Run("only provided fields change", func(t *testing.T) {
		task := newTask(t)
		err := task.ApplyPatch(TaskPatch{Priority: strPtr("high")}, later)
		require.NoError(t, err)

		assert.Equal(t, "Original", task.Title)
		assert.Equal(t, "first", task.Description)
		assert.Equal(t, TaskPriorityHigh, task.Priority)
		assert.Equal(t, TaskStatusPending, task.Status)
		require.NotNil(t, task.DueDate)
		assert.Equal(t, later, task.UpdatedAt)
		assert.Equal(t, baseTime, task.CreatedAt)
	})

	t.Run("blank title and empty description are ignored", func(t *testing.T) {
		task := newTask(t)
		err := task.ApplyPatch(TaskPatch{Title: strPtr("   "), Description: strPtr("")}, later)
		require.NoError(t, err)

		assert.Equal(t, "Original", task.Title)
		assert.Equal(t, "first", task.Description)
	})

	t.Run("completion time follows status", func(t *testing.T) {
		task := newTask(t)

		require.NoError(t, task.ApplyPatch(TaskPatch{Status: strPtr("COMPLETED")}, later))
		require.NotNil(t, task.CompletedAt)
		assert.Equal(t, later, *task.CompletedAt)

		// Re-completing keeps the first completion time.
		evenLater := later.Add(time.Hour)
		require.NoError(t, task.ApplyPatch(TaskPatch{Status: strPtr("completed")}, evenLater))
		assert.Equal(t, later, *task.CompletedAt)
		assert.Equal(t, evenLater, task.UpdatedAt)

		require.NoError(t, task.ApplyPatch(TaskPatch{Status: strPtr("IN_PROGRESS")}, evenLater))
		assert.Nil(t, task.CompletedAt)
	})

	t.Run("invalid patch leaves task untouched", func(t *testing.T) {
		task := newTask(t)
		before := *task

		err := task.ApplyPatch(TaskPatch{
			Title:  strPtr("New title"),
			Status: strPtr("ARCHIVED"),
		}, later)
		require.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, before, *task)
	})

	t.Run("updatedAt never precedes createdAt", func(t *testing.T) {
		task := newTask(t)
		require.NoError(t, task.ApplyPatch(TaskPatch{Title: strPtr("x")}, baseTime.Add(-time.Hour)))
		assert.Equal(t, task.CreatedAt, task.UpdatedAt)
	})
}

func TestTaskIsOverdue(t *testing.T) {
	t.Parallel()

	past := baseTime.Add(-time.Hour)
	future := baseTime.Add(time.Hour)

	tests := []struct {
		name   string
		status TaskStatus
		due    *time.Time
		want   bool
	}{
		{"pending past due", TaskStatusPending, &past, true},
		{"in progress past due", TaskStatusInProgress, &past, true},
		{"completed past due", TaskStatusCompleted, &past, false},
		{"cancelled past due", TaskStatusCancelled, &past, false},
		{"pending future", TaskStatusPending, &future, false},
		{"no due date", TaskStatusPending, nil, false},
		{"due exactly now", TaskStatusPending, timePtr(baseTime), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := &Task{Status: tt.status, DueDate: tt.due}
			assert.Equal(t, tt.want, task.IsOverdue(baseTime))
		})
	}
}

func TestValidationError(t *testing.T) {
	t.Parallel()

	var empty *ValidationError
	assert.False(t, empty.HasErrors())
	assert.NoError(t, (&ValidationError{}).Err())

	verr := NewValidationError("title", "Title is required")
	verr.Add("title", "second message")
	verr.Add("priority", "Invalid priority: X")

	assert.Equal(t, "validation failed: title: Title is required; title: second message; priority: Invalid priority: X", verr.Error())
	assert.Equal(t, map[string]string{
		"title":    "Title is required",
		"priority": "Invalid priority: X",
	}, verr.FieldMap())
	assert.ErrorIs(t, verr.Err(), ErrValidation)
}
