package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/store"
	"gorm.io/gorm"
)

// TaskStore implements store.TaskStore on SQLite through gorm.
type TaskStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewTaskStore creates a TaskStore. If logger is nil, a default logger is used.
func NewTaskStore(db *gorm.DB, logger *slog.Logger) *TaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

var _ store.TaskStore = (*TaskStore)(nil)

func (s *TaskStore) fail(ctx context.Context, op, msg string, err error) error {
	logger.FromContextOrDefault(ctx, s.logger).Error(msg,
		slog.String("operation", op),
		slog.String("error", err.Error()))
	return store.NewStoreError("task", op, msg, err)
}

// Create implements store.TaskStore.Create
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	m := taskToModel(task)
	m.ID = 0
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return s.fail(ctx, "create", "failed to insert task", err)
	}
	task.ID = m.ID
	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *TaskStore) GetByID(ctx context.Context, ownerID, id int64) (*domain.Task, error) {
	var m taskModel
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, ownerID).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrTaskNotFound
		}
		return nil, s.fail(ctx, "get", "failed to query task", err)
	}
	return m.toDomain(), nil
}

// GetByIDForUpdate implements store.TaskStore.GetByIDForUpdate.
// SQLite has no row locks; the single-connection pool serializes the
// surrounding transaction instead.
func (s *TaskStore) GetByIDForUpdate(ctx context.Context, ownerID, id int64) (*domain.Task, error) {
	return s.GetByID(ctx, ownerID, id)
}

// Update implements store.TaskStore.Update
func (s *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	m := taskToModel(task)
	result := s.db.WithContext(ctx).
		Model(&taskModel{}).
		Where("id = ? AND user_id = ?", task.ID, task.OwnerID).
		Updates(map[string]any{
			"title":        m.Title,
			"description":  m.Description,
			"status":       m.Status,
			"priority":     m.Priority,
			"due_date":     m.DueDate,
			"updated_at":   m.UpdatedAt,
			"completed_at": m.CompletedAt,
		})
	if result.Error != nil {
		return s.fail(ctx, "update", "failed to update task", result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrTaskNotFound
	}
	return nil
}

// Delete implements store.TaskStore.Delete
func (s *TaskStore) Delete(ctx context.Context, ownerID, id int64) error {
	result := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, ownerID).Delete(&taskModel{})
	if result.Error != nil {
		return s.fail(ctx, "delete", "failed to delete task", result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrTaskNotFound
	}
	return nil
}

func (s *TaskStore) owned(ctx context.Context, ownerID int64) *gorm.DB {
	return s.db.WithContext(ctx).Model(&taskModel{}).Where("user_id = ?", ownerID)
}

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Order("id DESC")
}

func soonestDueFirst(db *gorm.DB) *gorm.DB {
	return db.Order("due_date ASC").Order("id ASC")
}

func (s *TaskStore) find(ctx context.Context, op string, q *gorm.DB) ([]*domain.Task, error) {
	var models []taskModel
	if err := q.Find(&models).Error; err != nil {
		return nil, s.fail(ctx, op, "failed to query tasks", err)
	}
	return tasksToDomain(models), nil
}

// List implements store.TaskStore.List
func (s *TaskStore) List(ctx context.Context, ownerID int64) ([]*domain.Task, error) {
	return s.find(ctx, "list", s.owned(ctx, ownerID).Scopes(newestFirst))
}

// ListByStatus implements store.TaskStore.ListByStatus
func (s *TaskStore) ListByStatus(
	ctx context.Context,
	ownerID int64,
	status domain.TaskStatus,
) ([]*domain.Task, error) {
	q := s.owned(ctx, ownerID).Where("status = ?", string(status)).Scopes(newestFirst)
	return s.find(ctx, "list_by_status", q)
}

// ListByPriority implements store.TaskStore.ListByPriority
func (s *TaskStore) ListByPriority(
	ctx context.Context,
	ownerID int64,
	priority domain.TaskPriority,
) ([]*domain.Task, error) {
	q := s.owned(ctx, ownerID).Where("priority = ?", string(priority)).Scopes(newestFirst)
	return s.find(ctx, "list_by_priority", q)
}

// Search implements store.TaskStore.Search
func (s *TaskStore) Search(ctx context.Context, ownerID int64, query string) ([]*domain.Task, error) {
	pattern := store.LikePattern(query)
	q := s.owned(ctx, ownerID).
		Where(`(`+lowerFunc+`(title) LIKE ? ESCAPE '\' OR `+lowerFunc+`(COALESCE(description, '')) LIKE ? ESCAPE '\')`,
			pattern, pattern).
		Scopes(newestFirst)
	return s.find(ctx, "search", q)
}

// ListUpcoming implements store.TaskStore.ListUpcoming
func (s *TaskStore) ListUpcoming(ctx context.Context, ownerID int64, from, to time.Time) ([]*domain.Task, error) {
	q := s.owned(ctx, ownerID).
		Where("status = ? AND due_date BETWEEN ? AND ?", string(domain.TaskStatusPending), from.UTC(), to.UTC()).
		Scopes(soonestDueFirst)
	return s.find(ctx, "list_upcoming", q)
}

func overdueScope(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("status NOT IN ? AND due_date < ?",
			[]string{string(domain.TaskStatusCompleted), string(domain.TaskStatusCancelled)},
			now.UTC())
	}
}

// ListOverdue implements store.TaskStore.ListOverdue
func (s *TaskStore) ListOverdue(ctx context.Context, ownerID int64, now time.Time) ([]*domain.Task, error) {
	q := s.owned(ctx, ownerID).Scopes(overdueScope(now), soonestDueFirst)
	return s.find(ctx, "list_overdue", q)
}

// CountByStatus implements store.TaskStore.CountByStatus
func (s *TaskStore) CountByStatus(ctx context.Context, ownerID int64) (map[domain.TaskStatus]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := s.owned(ctx, ownerID).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, s.fail(ctx, "count_by_status", "failed to count tasks", err)
	}

	counts := make(map[domain.TaskStatus]int64, len(rows))
	for _, r := range rows {
		counts[domain.TaskStatus(r.Status)] = r.Count
	}
	return counts, nil
}

// CountOverdue implements store.TaskStore.CountOverdue
func (s *TaskStore) CountOverdue(ctx context.Context, ownerID int64, now time.Time) (int64, error) {
	var n int64
	if err := s.owned(ctx, ownerID).Scopes(overdueScope(now)).Count(&n).Error; err != nil {
		return 0, s.fail(ctx, "count_overdue", "failed to count overdue tasks", err)
	}
	return n, nil
}

// WithTx implements store.TaskStore.WithTx
func (s *TaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &TaskStore{db: bindTx(s.db, tx), logger: s.logger}
}
