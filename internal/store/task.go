package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/phrazzld/taskboard-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
//
// Every read and write is scoped to an owner: a task that exists but belongs
// to another user is reported as ErrTaskNotFound. Lists are ordered by
// created_at DESC, id DESC unless stated otherwise.
type TaskStore interface {
	// Create saves a new task and sets its generated ID.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task owned by ownerID.
	// Returns ErrTaskNotFound if it does not exist or is owned by someone else.
	GetByID(ctx context.Context, ownerID, id int64) (*domain.Task, error)

	// GetByIDForUpdate is GetByID with a row lock held until the surrounding
	// transaction ends. It must be called on a store bound with WithTx.
	GetByIDForUpdate(ctx context.Context, ownerID, id int64) (*domain.Task, error)

	// Update persists every mutable field of task, matched by ID and OwnerID.
	// Returns ErrTaskNotFound if no row matched.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task owned by ownerID.
	// Returns ErrTaskNotFound if no row matched.
	Delete(ctx context.Context, ownerID, id int64) error

	// List returns all tasks of ownerID.
	List(ctx context.Context, ownerID int64) ([]*domain.Task, error)

	// ListByStatus returns the tasks of ownerID with the given status.
	ListByStatus(ctx context.Context, ownerID int64, status domain.TaskStatus) ([]*domain.Task, error)

	// ListByPriority returns the tasks of ownerID with the given priority.
	ListByPriority(ctx context.Context, ownerID int64, priority domain.TaskPriority) ([]*domain.Task, error)

	// Search returns the tasks of ownerID whose title or description contains
	// query, compared case-insensitively. Wildcards in query match literally.
	Search(ctx context.Context, ownerID int64, query string) ([]*domain.Task, error)

	// ListUpcoming returns PENDING tasks of ownerID due within [from, to],
	// ordered by due date ascending.
	ListUpcoming(ctx context.Context, ownerID int64, from, to time.Time) ([]*domain.Task, error)

	// ListOverdue returns tasks of ownerID that are neither COMPLETED nor
	// CANCELLED and are due strictly before now, ordered by due date ascending.
	ListOverdue(ctx context.Context, ownerID int64, now time.Time) ([]*domain.Task, error)

	// CountByStatus returns the number of tasks of ownerID per status.
	// Statuses with no tasks may be absent from the map.
	CountByStatus(ctx context.Context, ownerID int64) (map[domain.TaskStatus]int64, error)

	// CountOverdue counts the tasks ListOverdue would return for the same now.
	CountOverdue(ctx context.Context, ownerID int64, now time.Time) (int64, error)

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}

// LikeEscapeChar is the escape character used with LikePattern.
const LikeEscapeChar = `\`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LikePattern turns a user-supplied search term into a lower-cased LIKE
// pattern matching it as a substring. It must be paired with
// ESCAPE '\' in the query.
func LikePattern(query string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
}
