package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

const taskColumns = `id, user_id, title, description, status, priority, due_date,
	created_at, updated_at, completed_at`

const newestFirst = ` ORDER BY created_at DESC, id DESC`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task        domain.Task
		description sql.NullString
		status      string
		priority    string
		dueDate     sql.NullTime
		completedAt sql.NullTime
	)

	err := row.Scan(
		&task.ID,
		&task.OwnerID,
		&task.Title,
		&description,
		&status,
		&priority,
		&dueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Description = description.String
	task.Status = domain.TaskStatus(status)
	task.Priority = domain.TaskPriority(priority)
	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()
	if dueDate.Valid {
		d := dueDate.Time.UTC()
		task.DueDate = &d
	}
	if completedAt.Valid {
		c := completedAt.Time.UTC()
		task.CompletedAt = &c
	}

	return &task, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// Create implements store.TaskStore.Create
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO tasks (user_id, title, description, status, priority, due_date,
			created_at, updated_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		task.OwnerID,
		task.Title,
		nullString(task.Description),
		string(task.Status),
		string(task.Priority),
		nullTime(task.DueDate),
		task.CreatedAt,
		task.UpdatedAt,
		nullTime(task.CompletedAt),
	).Scan(&task.ID)

	if err != nil {
		log.Error("failed to create task",
			slog.Int64("user_id", task.OwnerID),
			slog.String("error", err.Error()))
		return store.NewStoreError("task", "create", "failed to insert task", MapError(err))
	}

	log.Debug("task created",
		slog.Int64("task_id", task.ID),
		slog.Int64("user_id", task.OwnerID))
	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *PostgresTaskStore) GetByID(ctx context.Context, ownerID, id int64) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2`
	return s.getOne(ctx, "get", query, ownerID, id)
}

// GetByIDForUpdate implements store.TaskStore.GetByIDForUpdate
func (s *PostgresTaskStore) GetByIDForUpdate(ctx context.Context, ownerID, id int64) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2 FOR UPDATE`
	return s.getOne(ctx, "get_for_update", query, ownerID, id)
}

func (s *PostgresTaskStore) getOne(
	ctx context.Context,
	op, query string,
	ownerID, id int64,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found",
				slog.Int64("task_id", id),
				slog.Int64("user_id", ownerID))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to query task",
			slog.String("operation", op),
			slog.Int64("task_id", id),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", op, "failed to query task", MapError(err))
	}

	return task, nil
}

// Update implements store.TaskStore.Update
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, priority = $4, due_date = $5,
			updated_at = $6, completed_at = $7
		WHERE id = $8 AND user_id = $9
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		task.Title,
		nullString(task.Description),
		string(task.Status),
		string(task.Priority),
		nullTime(task.DueDate),
		task.UpdatedAt,
		nullTime(task.CompletedAt),
		task.ID,
		task.OwnerID,
	)
	if err != nil {
		log.Error("failed to update task",
			slog.Int64("task_id", task.ID),
			slog.String("error", err.Error()))
		return store.NewStoreError("task", "update", "failed to update task", MapError(err))
	}

	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// Delete implements store.TaskStore.Delete
func (s *PostgresTaskStore) Delete(ctx context.Context, ownerID, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		log.Error("failed to delete task",
			slog.Int64("task_id", id),
			slog.String("error", err.Error()))
		return store.NewStoreError("task", "delete", "failed to delete task", MapError(err))
	}

	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// List implements store.TaskStore.List
func (s *PostgresTaskStore) List(ctx context.Context, ownerID int64) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1` + newestFirst
	return s.query(ctx, "list", query, ownerID)
}

// ListByStatus implements store.TaskStore.ListByStatus
func (s *PostgresTaskStore) ListByStatus(
	ctx context.Context,
	ownerID int64,
	status domain.TaskStatus,
) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1 AND status = $2` + newestFirst
	return s.query(ctx, "list_by_status", query, ownerID, string(status))
}

// ListByPriority implements store.TaskStore.ListByPriority
func (s *PostgresTaskStore) ListByPriority(
	ctx context.Context,
	ownerID int64,
	priority domain.TaskPriority,
) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1 AND priority = $2` + newestFirst
	return s.query(ctx, "list_by_priority", query, ownerID, string(priority))
}

// Search implements store.TaskStore.Search
func (s *PostgresTaskStore) Search(ctx context.Context, ownerID int64, query string) ([]*domain.Task, error) {
	sqlQuery := `SELECT ` + taskColumns + ` FROM tasks
		WHERE user_id = $1
		AND (LOWER(title) LIKE $2 ESCAPE '\' OR LOWER(COALESCE(description, '')) LIKE $2 ESCAPE '\')` +
		newestFirst
	return s.query(ctx, "search", sqlQuery, ownerID, store.LikePattern(query))
}

// ListUpcoming implements store.TaskStore.ListUpcoming
func (s *PostgresTaskStore) ListUpcoming(
	ctx context.Context,
	ownerID int64,
	from, to time.Time,
) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE user_id = $1 AND status = $2 AND due_date BETWEEN $3 AND $4
		ORDER BY due_date ASC, id ASC`
	return s.query(ctx, "list_upcoming", query, ownerID, string(domain.TaskStatusPending), from, to)
}

// ListOverdue implements store.TaskStore.ListOverdue
func (s *PostgresTaskStore) ListOverdue(ctx context.Context, ownerID int64, now time.Time) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE user_id = $1 AND status NOT IN ($2, $3) AND due_date < $4
		ORDER BY due_date ASC, id ASC`
	return s.query(ctx, "list_overdue", query, ownerID,
		string(domain.TaskStatusCompleted), string(domain.TaskStatusCancelled), now)
}

// CountByStatus implements store.TaskStore.CountByStatus
func (s *PostgresTaskStore) CountByStatus(ctx context.Context, ownerID int64) (map[domain.TaskStatus]int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM tasks WHERE user_id = $1 GROUP BY status`, ownerID)
	if err != nil {
		log.Error("failed to count tasks", slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "count_by_status", "failed to count tasks", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[domain.TaskStatus]int64)
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, store.NewStoreError("task", "count_by_status", "failed to scan count", err)
		}
		counts[domain.TaskStatus(status)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("task", "count_by_status", "failed to iterate counts", err)
	}

	return counts, nil
}

// CountOverdue implements store.TaskStore.CountOverdue
func (s *PostgresTaskStore) CountOverdue(ctx context.Context, ownerID int64, now time.Time) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var n int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE user_id = $1 AND status NOT IN ($2, $3) AND due_date < $4`,
		ownerID, string(domain.TaskStatusCompleted), string(domain.TaskStatusCancelled), now,
	).Scan(&n)
	if err != nil {
		log.Error("failed to count overdue tasks", slog.String("error", err.Error()))
		return 0, store.NewStoreError("task", "count_overdue", "failed to count overdue tasks", MapError(err))
	}

	return n, nil
}

func (s *PostgresTaskStore) query(ctx context.Context, op, query string, args ...any) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", op, "failed to query tasks", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, store.NewStoreError("task", op, "failed to scan task", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("task", op, "failed to iterate tasks", err)
	}

	log.Debug("tasks queried",
		slog.String("operation", op),
		slog.Int("count", len(tasks)))
	return tasks, nil
}

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}
