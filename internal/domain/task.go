package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Task field limits, counted in characters.
const (
	MaxTitleLength       = 255
	MaxDescriptionLength = 1000
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

// Valid task statuses.
const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
	TaskStatusCancelled  TaskStatus = "CANCELLED"
)

// IsValid reports whether s is one of the known statuses.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

// ParseTaskStatus converts a case-insensitive status name into a TaskStatus.
func ParseTaskStatus(raw string) (TaskStatus, error) {
	s := TaskStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

// TaskPriority ranks how urgent a task is.
type TaskPriority string

// Valid task priorities.
const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
	TaskPriorityUrgent TaskPriority = "URGENT"
)

// IsValid reports whether p is one of the known priorities.
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}

// ParseTaskPriority converts a case-insensitive priority name into a TaskPriority.
func ParseTaskPriority(raw string) (TaskPriority, error) {
	p := TaskPriority(strings.ToUpper(strings.TrimSpace(raw)))
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, raw)
	}
	return p, nil
}

// Task is a unit of personal work owned by exactly one user.
//
// CompletedAt is non-nil exactly when Status is TaskStatusCompleted, and
// UpdatedAt is never earlier than CreatedAt.
type Task struct {
	ID          int64
	OwnerID     int64
	Title       string
	Description string
	Status      TaskStatus
	Priority    TaskPriority
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

// TaskInput carries the values for a new task. Empty Status and Priority fall
// back to PENDING and MEDIUM.
type TaskInput struct {
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     *time.Time
}

// TaskPatch carries a partial update. Nil fields are left unchanged, as are a
// blank Title and an empty Description.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	DueDate     *time.Time
}

// NormalizeTime converts t to UTC at microsecond precision, the resolution
// every supported database keeps.
func NormalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

func normalizeTimePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	n := NormalizeTime(*t)
	return &n
}

// ValidateTaskInput checks the values for a new task. The returned error is a
// *ValidationError listing every invalid field.
func ValidateTaskInput(input TaskInput) error {
	verr := &ValidationError{}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		verr.Add("title", "Title is required")
	} else {
		validateTitle(verr, title)
	}
	validateDescription(verr, input.Description)

	if strings.TrimSpace(input.Status) != "" {
		validateStatus(verr, input.Status)
	}
	if strings.TrimSpace(input.Priority) != "" {
		validatePriority(verr, input.Priority)
	}

	return verr.Err()
}

// ValidateTaskPatch checks the provided fields of a partial update. Absent
// fields are not checked; a blank title is accepted and later ignored.
func ValidateTaskPatch(patch TaskPatch) error {
	verr := &ValidationError{}

	if patch.Title != nil {
		validateTitle(verr, strings.TrimSpace(*patch.Title))
	}
	if patch.Description != nil {
		validateDescription(verr, *patch.Description)
	}
	if patch.Status != nil {
		validateStatus(verr, *patch.Status)
	}
	if patch.Priority != nil {
		validatePriority(verr, *patch.Priority)
	}

	return verr.Err()
}

func validateTitle(verr *ValidationError, title string) {
	if utf8.RuneCountInString(title) > MaxTitleLength {
		verr.Add("title", fmt.Sprintf("Title must not exceed %d characters", MaxTitleLength))
	}
}

func validateDescription(verr *ValidationError, description string) {
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		verr.Add("description",
			fmt.Sprintf("Description must not exceed %d characters", MaxDescriptionLength))
	}
}

func validateStatus(verr *ValidationError, raw string) {
	if _, err := ParseTaskStatus(raw); err != nil {
		verr.Add("status", "Invalid status: "+raw)
	}
}

func validatePriority(verr *ValidationError, raw string) {
	if _, err := ParseTaskPriority(raw); err != nil {
		verr.Add("priority", "Invalid priority: "+raw)
	}
}

// NewTask validates input and builds a task owned by ownerID, stamped with now.
// The returned error is a *ValidationError listing every invalid field.
func NewTask(ownerID int64, input TaskInput, now time.Time) (*Task, error) {
	err := ValidateTaskInput(input)
	if ownerID <= 0 {
		verr, _ := err.(*ValidationError)
		if verr == nil {
			verr = &ValidationError{}
		}
		verr.Fields = append([]FieldError{{Field: "userId", Message: "Owner is required"}}, verr.Fields...)
		err = verr
	}
	if err != nil {
		return nil, err
	}

	status := TaskStatusPending
	if strings.TrimSpace(input.Status) != "" {
		status, _ = ParseTaskStatus(input.Status)
	}
	priority := TaskPriorityMedium
	if strings.TrimSpace(input.Priority) != "" {
		priority, _ = ParseTaskPriority(input.Priority)
	}

	now = NormalizeTime(now)
	task := &Task{
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     normalizeTimePtr(input.DueDate),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	task.syncCompletedAt(now)

	return task, nil
}

// ApplyPatch validates patch and, when every provided field is valid, applies
// it to t and stamps UpdatedAt with now. On error t is left untouched.
func (t *Task) ApplyPatch(patch TaskPatch, now time.Time) error {
	if err := ValidateTaskPatch(patch); err != nil {
		return err
	}

	if patch.Title != nil {
		if title := strings.TrimSpace(*patch.Title); title != "" {
			t.Title = title
		}
	}
	if patch.Description != nil && *patch.Description != "" {
		t.Description = *patch.Description
	}
	if patch.Status != nil {
		t.Status, _ = ParseTaskStatus(*patch.Status)
	}
	if patch.Priority != nil {
		t.Priority, _ = ParseTaskPriority(*patch.Priority)
	}
	if patch.DueDate != nil {
		t.DueDate = normalizeTimePtr(patch.DueDate)
	}

	now = NormalizeTime(now)
	if now.Before(t.CreatedAt) {
		now = t.CreatedAt
	}
	t.UpdatedAt = now
	t.syncCompletedAt(now)

	return nil
}

// syncCompletedAt keeps CompletedAt coupled to the COMPLETED status. A task
// that stays completed keeps its original completion time.
func (t *Task) syncCompletedAt(now time.Time) {
	if t.Status == TaskStatusCompleted {
		if t.CompletedAt == nil {
			completed := now
			t.CompletedAt = &completed
		}
		return
	}
	t.CompletedAt = nil
}

// IsOverdue reports whether the task is still open and its due date lies
// strictly before now.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	if t.Status == TaskStatusCompleted || t.Status == TaskStatusCancelled {
		return false
	}
	return t.DueDate.Before(now)
}

// TaskStats aggregates an owner's tasks by status.
type TaskStats struct {
	Total      int64
	Pending    int64
	InProgress int64
	Completed  int64
	Cancelled  int64
	Overdue    int64
}
