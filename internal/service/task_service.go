package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/store"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/phrazzld/taskboard-api/internal/service")

// Outcomes reported to an OperationRecorder.
const (
	OutcomeSuccess  = "success"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// MaxUpcomingDays bounds the window accepted by UpcomingTasks.
const MaxUpcomingDays = 3650

// OperationRecorder receives one observation per task service call.
type OperationRecorder interface {
	RecordTaskOperation(operation, outcome string)
}

type noopRecorder struct{}

func (noopRecorder) RecordTaskOperation(string, string) {}

// TaskService manages the tasks of a single owner per call. Every method takes
// the caller's user id explicitly; tasks of other users behave as missing.
type TaskService interface {
	// CreateTask validates input and stores a new task owned by ownerID.
	CreateTask(ctx context.Context, ownerID int64, input domain.TaskInput) (*domain.Task, error)

	// GetTask returns a single task, or ErrTaskNotFound.
	GetTask(ctx context.Context, ownerID, id int64) (*domain.Task, error)

	// ListTasks returns all tasks, newest first.
	ListTasks(ctx context.Context, ownerID int64) ([]*domain.Task, error)

	// ListTasksByStatus returns the tasks with the given case-insensitive status.
	ListTasksByStatus(ctx context.Context, ownerID int64, status string) ([]*domain.Task, error)

	// ListTasksByPriority returns the tasks with the given case-insensitive priority.
	ListTasksByPriority(ctx context.Context, ownerID int64, priority string) ([]*domain.Task, error)

	// UpdateTask applies a partial update under a row lock.
	UpdateTask(ctx context.Context, ownerID, id int64, patch domain.TaskPatch) (*domain.Task, error)

	// DeleteTask removes a task permanently.
	DeleteTask(ctx context.Context, ownerID, id int64) error

	// SearchTasks matches query against title and description, ignoring case.
	// A blank query returns every task.
	SearchTasks(ctx context.Context, ownerID int64, query string) ([]*domain.Task, error)

	// UpcomingTasks returns PENDING tasks due within the next days days,
	// soonest first. Non-positive days yield an empty list; more than
	// MaxUpcomingDays is a validation error.
	UpcomingTasks(ctx context.Context, ownerID int64, days int) ([]*domain.Task, error)

	// OverdueTasks returns open tasks whose due date has passed, soonest first.
	OverdueTasks(ctx context.Context, ownerID int64) ([]*domain.Task, error)

	// TaskStats counts tasks per status plus the overdue ones.
	TaskStats(ctx context.Context, ownerID int64) (*domain.TaskStats, error)
}

// TaskServiceOption configures optional TaskService collaborators.
type TaskServiceOption func(*taskServiceImpl)

// WithClock overrides the time source used for timestamps and time windows.
func WithClock(now func() time.Time) TaskServiceOption {
	return func(s *taskServiceImpl) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRecorder reports every operation to r.
func WithRecorder(r OperationRecorder) TaskServiceOption {
	return func(s *taskServiceImpl) {
		if r != nil {
			s.recorder = r
		}
	}
}

type taskServiceImpl struct {
	tasks    store.TaskStore
	db       store.TxBeginner
	now      func() time.Time
	recorder OperationRecorder
	logger   *slog.Logger
}

var _ TaskService = (*taskServiceImpl)(nil)

// NewTaskService creates a TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	tasks store.TaskStore,
	db store.TxBeginner,
	logger *slog.Logger,
	opts ...TaskServiceOption,
) (TaskService, error) {
	if tasks == nil {
		return nil, domain.NewValidationError("taskStore", "cannot be nil")
	}
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &taskServiceImpl{
		tasks:    tasks,
		db:       db,
		now:      time.Now,
		recorder: noopRecorder{},
		logger:   logger.With(slog.String("component", "task_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *taskServiceImpl) clock() time.Time {
	return domain.NormalizeTime(s.now())
}

func (s *taskServiceImpl) begin(ctx context.Context, op string, ownerID int64) (context.Context, trace.Span) {
	return tracer.Start(ctx, "TaskService."+op,
		trace.WithAttributes(
			attribute.String("task.operation", op),
			attribute.Int64("task.owner_id", ownerID),
		))
}

// end closes the span and reports the outcome of op.
func (s *taskServiceImpl) end(span trace.Span, op string, err error) {
	outcome := OutcomeSuccess
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrValidation):
		outcome = OutcomeInvalid
	case errors.Is(err, store.ErrTaskNotFound):
		outcome = OutcomeNotFound
	default:
		outcome = OutcomeError
		span.RecordError(err)
		span.SetStatus(codes.Error, op+" failed")
	}
	span.SetAttributes(attribute.String("task.outcome", outcome))
	s.recorder.RecordTaskOperation(op, outcome)
	span.End()
}

// wrap translates store errors into service errors.
func (s *taskServiceImpl) wrap(ctx context.Context, op string, err error, attrs ...any) error {
	if err == nil {
		return nil
	}
	log := logger.FromContextOrDefault(ctx, s.logger)
	if errors.Is(err, store.ErrTaskNotFound) {
		log.Debug("task not found", append([]any{slog.String("operation", op)}, attrs...)...)
		return ErrTaskNotFound
	}
	if errors.Is(err, domain.ErrValidation) {
		return err
	}
	log.Error("task operation failed",
		append([]any{slog.String("operation", op), slog.String("error", err.Error())}, attrs...)...)
	return NewTaskServiceError(op, "failed to "+strings.ReplaceAll(op, "_", " "), err)
}

// CreateTask implements TaskService.CreateTask
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	ownerID int64,
	input domain.TaskInput,
) (task *domain.Task, err error) {
	ctx, span := s.begin(ctx, "create", ownerID)
	defer func() { s.end(span, "create", err) }()

	task, err = domain.NewTask(ownerID, input, s.clock())
	if err != nil {
		return nil, err
	}

	if err = s.tasks.Create(ctx, task); err != nil {
		return nil, s.wrap(ctx, "create", err, slog.Int64("owner_id", ownerID))
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task created",
		slog.Int64("task_id", task.ID),
		slog.Int64("owner_id", ownerID))
	return task, nil
}

// GetTask implements TaskService.GetTask
func (s *taskServiceImpl) GetTask(ctx context.Context, ownerID, id int64) (task *domain.Task, err error) {
	ctx, span := s.begin(ctx, "get", ownerID)
	defer func() { s.end(span, "get", err) }()

	task, err = s.tasks.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, s.wrap(ctx, "get", err, slog.Int64("task_id", id))
	}
	return task, nil
}

// ListTasks implements TaskService.ListTasks
func (s *taskServiceImpl) ListTasks(ctx context.Context, ownerID int64) (tasks []*domain.Task, err error) {
	ctx, span := s.begin(ctx, "list", ownerID)
	defer func() { s.end(span, "list", err) }()

	tasks, err = s.tasks.List(ctx, ownerID)
	return tasks, s.wrap(ctx, "list", err)
}

// ListTasksByStatus implements TaskService.ListTasksByStatus
func (s *taskServiceImpl) ListTasksByStatus(
	ctx context.Context,
	ownerID int64,
	status string,
) (tasks []*domain.Task, err error) {
	ctx, span := s.begin(ctx, "list_by_status", ownerID)
	defer func() { s.end(span, "list_by_status", err) }()

	parsed, err := domain.ParseTaskStatus(status)
	if err != nil {
		return nil, domain.NewValidationError("status", "Invalid status: "+status)
	}

	tasks, err = s.tasks.ListByStatus(ctx, ownerID, parsed)
	return tasks, s.wrap(ctx, "list_by_status", err)
}

// ListTasksByPriority implements TaskService.ListTasksByPriority
func (s *taskServiceImpl) ListTasksByPriority(
	ctx context.Context,
	ownerID int64,
	priority string,
) (tasks []*domain.Task, err error) {
	ctx, span := s.begin(ctx, "list_by_priority", ownerID)
	defer func() { s.end(span, "list_by_priority", err) }()

	parsed, err := domain.ParseTaskPriority(priority)
	if err != nil {
		return nil, domain.NewValidationError("priority", "Invalid priority: "+priority)
	}

	tasks, err = s.tasks.ListByPriority(ctx, ownerID, parsed)
	return tasks, s.wrap(ctx, "list_by_priority", err)
}

// UpdateTask implements TaskService.UpdateTask
// The read-modify-write runs in one transaction holding the row lock, so
// concurrent updates of the same task are applied one after the other.
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	ownerID, id int64,
	patch domain.TaskPatch,
) (updated *domain.Task, err error) {
	ctx, span := s.begin(ctx, "update", ownerID)
	defer func() { s.end(span, "update", err) }()

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txTasks := s.tasks.WithTx(tx)

		task, err := txTasks.GetByIDForUpdate(ctx, ownerID, id)
		if err != nil {
			return err
		}

		if err := task.ApplyPatch(patch, s.clock()); err != nil {
			return err
		}

		if err := txTasks.Update(ctx, task); err != nil {
			return err
		}

		updated = task
		return nil
	})
	if err != nil {
		return nil, s.wrap(ctx, "update", err, slog.Int64("task_id", id))
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task updated",
		slog.Int64("task_id", id),
		slog.String("status", string(updated.Status)))
	return updated, nil
}

// DeleteTask implements TaskService.DeleteTask
func (s *taskServiceImpl) DeleteTask(ctx context.Context, ownerID, id int64) (err error) {
	ctx, span := s.begin(ctx, "delete", ownerID)
	defer func() { s.end(span, "delete", err) }()

	if err = s.tasks.Delete(ctx, ownerID, id); err != nil {
		return s.wrap(ctx, "delete", err, slog.Int64("task_id", id))
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task deleted", slog.Int64("task_id", id))
	return nil
}

// SearchTasks implements TaskService.SearchTasks
func (s *taskServiceImpl) SearchTasks(
	ctx context.Context,
	ownerID int64,
	query string,
) (tasks []*domain.Task, err error) {
	ctx, span := s.begin(ctx, "search", ownerID)
	defer func() { s.end(span, "search", err) }()

	query = strings.TrimSpace(query)
	if query == "" {
		tasks, err = s.tasks.List(ctx, ownerID)
	} else {
		tasks, err = s.tasks.Search(ctx, ownerID, query)
	}
	return tasks, s.wrap(ctx, "search", err)
}

// UpcomingTasks implements TaskService.UpcomingTasks
func (s *taskServiceImpl) UpcomingTasks(
	ctx context.Context,
	ownerID int64,
	days int,
) (tasks []*domain.Task, err error) {
	ctx, span := s.begin(ctx, "upcoming", ownerID)
	defer func() { s.end(span, "upcoming", err) }()
	span.SetAttributes(attribute.Int("task.window_days", days))

	if days <= 0 {
		return []*domain.Task{}, nil
	}
	if days > MaxUpcomingDays {
		return nil, domain.NewValidationError("days",
			fmt.Sprintf("Days must not exceed %d", MaxUpcomingDays))
	}

	now := s.clock()
	tasks, err = s.tasks.ListUpcoming(ctx, ownerID, now, now.AddDate(0, 0, days))
	return tasks, s.wrap(ctx, "upcoming", err)
}

// OverdueTasks implements TaskService.OverdueTasks
func (s *taskServiceImpl) OverdueTasks(ctx context.Context, ownerID int64) (tasks []*domain.Task, err error) {
	ctx, span := s.begin(ctx, "overdue", ownerID)
	defer func() { s.end(span, "overdue", err) }()

	tasks, err = s.tasks.ListOverdue(ctx, ownerID, s.clock())
	return tasks, s.wrap(ctx, "overdue", err)
}

// TaskStats implements TaskService.TaskStats
func (s *taskServiceImpl) TaskStats(ctx context.Context, ownerID int64) (stats *domain.TaskStats, err error) {
	ctx, span := s.begin(ctx, "stats", ownerID)
	defer func() { s.end(span, "stats", err) }()

	counts, err := s.tasks.CountByStatus(ctx, ownerID)
	if err != nil {
		return nil, s.wrap(ctx, "stats", err)
	}

	overdue, err := s.tasks.CountOverdue(ctx, ownerID, s.clock())
	if err != nil {
		return nil, s.wrap(ctx, "stats", err)
	}

	stats = &domain.TaskStats{
		Pending:    counts[domain.TaskStatusPending],
		InProgress: counts[domain.TaskStatusInProgress],
		Completed:  counts[domain.TaskStatusCompleted],
		Cancelled:  counts[domain.TaskStatusCancelled],
		Overdue:    overdue,
	}
	for _, n := range counts {
		stats.Total += n
	}
	return stats, nil
}
