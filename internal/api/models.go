package api

import (
	"time"

	"github.com/phrazzld/taskboard-api/internal/domain"
)

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Username        string `json:"username"        validate:"required,min=3,max=50"`
	Email           string `json:"email"           validate:"required,email,max=100"`
	Password        string `json:"password"        validate:"required,min=6,max=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	Token     string      `json:"token"`
	Type      string      `json:"type"`
	ID        int64       `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// UserResponse describes the authenticated user.
type UserResponse struct {
	ID        int64       `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
}

// TaskRequest defines the payload for creating a task.
// Title length, status and priority are checked by domain validation, which
// trims the title first.
type TaskRequest struct {
	Title       string     `json:"title"       validate:"required"`
	Description string     `json:"description" validate:"max=1000"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
}

// TaskUpdateRequest defines the payload for a partial task update.
// Absent or null fields are left unchanged.
type TaskUpdateRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description" validate:"omitnil,max=1000"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
}

// TaskResponse is the JSON representation of a task.
type TaskResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	CompletedAt *time.Time `json:"completedAt"`
	UserID      int64      `json:"userId"`
	Username    string     `json:"username"`
}

// TaskStatsResponse is the JSON representation of an owner's task counts.
type TaskStatsResponse struct {
	TotalTasks      int64 `json:"totalTasks"`
	PendingTasks    int64 `json:"pendingTasks"`
	InProgressTasks int64 `json:"inProgressTasks"`
	CompletedTasks  int64 `json:"completedTasks"`
	CancelledTasks  int64 `json:"cancelledTasks"`
	OverdueTasks    int64 `json:"overdueTasks"`
}

func (req TaskRequest) toInput() domain.TaskInput {
	return domain.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	}
}

func (req TaskUpdateRequest) toPatch() domain.TaskPatch {
	return domain.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	}
}

// taskToResponse converts a task owned by username to its response form.
func taskToResponse(task *domain.Task, username string) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Priority:    string(task.Priority),
		DueDate:     task.DueDate,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
		CompletedAt: task.CompletedAt,
		UserID:      task.OwnerID,
		Username:    username,
	}
}

func tasksToResponse(tasks []*domain.Task, username string) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskToResponse(t, username))
	}
	return out
}

func statsToResponse(s *domain.TaskStats) TaskStatsResponse {
	return TaskStatsResponse{
		TotalTasks:      s.Total,
		PendingTasks:    s.Pending,
		InProgressTasks: s.InProgress,
		CompletedTasks:  s.Completed,
		CancelledTasks:  s.Cancelled,
		OverdueTasks:    s.Overdue,
	}
}

func userToResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
