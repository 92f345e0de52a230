package sqlite

import (
	"time"

	"github.com/phrazzld/taskboard-api/internal/domain"
)

// userModel is the gorm mapping of the users table.
type userModel struct {
	ID             int64     `gorm:"primaryKey;autoIncrement"`
	Username       string    `gorm:"size:50;not null;uniqueIndex:users_username_key"`
	Email          string    `gorm:"size:100;not null;uniqueIndex:users_email_key"`
	HashedPassword string    `gorm:"size:255;not null"`
	Role           string    `gorm:"size:20;not null;default:USER"`
	CreatedAt      time.Time `gorm:"not null;autoCreateTime:false"`
	UpdatedAt      time.Time `gorm:"not null;autoUpdateTime:false"`
}

// TableName returns the table name for userModel.
func (userModel) TableName() string {
	return "users"
}

// taskModel is the gorm mapping of the tasks table.
type taskModel struct {
	ID          int64      `gorm:"primaryKey;autoIncrement"`
	UserID      int64      `gorm:"not null;index:idx_tasks_user_created,priority:1"`
	User        *userModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Title       string     `gorm:"size:255;not null"`
	Description *string    `gorm:"size:1000"`
	Status      string     `gorm:"size:20;not null;default:PENDING"`
	Priority    string     `gorm:"size:20;not null;default:MEDIUM"`
	DueDate     *time.Time
	CreatedAt   time.Time `gorm:"not null;autoCreateTime:false;index:idx_tasks_user_created,priority:2"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime:false"`
	CompletedAt *time.Time
}

// TableName returns the table name for taskModel.
func (taskModel) TableName() string {
	return "tasks"
}

func userToModel(u *domain.User) *userModel {
	return &userModel{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		HashedPassword: u.HashedPassword,
		Role:           string(u.Role),
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func (m *userModel) toDomain() *domain.User {
	return &domain.User{
		ID:             m.ID,
		Username:       m.Username,
		Email:          m.Email,
		HashedPassword: m.HashedPassword,
		Role:           domain.Role(m.Role),
		CreatedAt:      m.CreatedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
	}
}

func taskToModel(t *domain.Task) *taskModel {
	m := &taskModel{
		ID:          t.ID,
		UserID:      t.OwnerID,
		Title:       t.Title,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		CompletedAt: t.CompletedAt,
	}
	if t.Description != "" {
		d := t.Description
		m.Description = &d
	}
	return m
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func (m *taskModel) toDomain() *domain.Task {
	t := &domain.Task{
		ID:          m.ID,
		OwnerID:     m.UserID,
		Title:       m.Title,
		Status:      domain.TaskStatus(m.Status),
		Priority:    domain.TaskPriority(m.Priority),
		DueDate:     utcPtr(m.DueDate),
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
		CompletedAt: utcPtr(m.CompletedAt),
	}
	if m.Description != nil {
		t.Description = *m.Description
	}
	return t
}

func tasksToDomain(models []taskModel) []*domain.Task {
	out := make([]*domain.Task, 0, len(models))
	for i := range models {
		out = append(out, models[i].toDomain())
	}
	return out
}
