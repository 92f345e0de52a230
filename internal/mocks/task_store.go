package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockTaskStore is a mock of store.TaskStore for use with testify/mock
type MockTaskStore struct {
	mock.Mock
}

var _ store.TaskStore = (*MockTaskStore)(nil)

func taskResult(args mock.Arguments) (*domain.Task, error) {
	if task, ok := args.Get(0).(*domain.Task); ok {
		return task, args.Error(1)
	}
	return nil, args.Error(1)
}

func tasksResult(args mock.Arguments) ([]*domain.Task, error) {
	if tasks, ok := args.Get(0).([]*domain.Task); ok {
		return tasks, args.Error(1)
	}
	return nil, args.Error(1)
}

// Create is a mock implementation of store.TaskStore.Create
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	return m.Called(ctx, task).Error(0)
}

// GetByID is a mock implementation of store.TaskStore.GetByID
func (m *MockTaskStore) GetByID(ctx context.Context, ownerID, id int64) (*domain.Task, error) {
	return taskResult(m.Called(ctx, ownerID, id))
}

// GetByIDForUpdate is a mock implementation of store.TaskStore.GetByIDForUpdate
func (m *MockTaskStore) GetByIDForUpdate(ctx context.Context, ownerID, id int64) (*domain.Task, error) {
	return taskResult(m.Called(ctx, ownerID, id))
}

// Update is a mock implementation of store.TaskStore.Update
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	return m.Called(ctx, task).Error(0)
}

// Delete is a mock implementation of store.TaskStore.Delete
func (m *MockTaskStore) Delete(ctx context.Context, ownerID, id int64) error {
	return m.Called(ctx, ownerID, id).Error(0)
}

// List is a mock implementation of store.TaskStore.List
func (m *MockTaskStore) List(ctx context.Context, ownerID int64) ([]*domain.Task, error) {
	return tasksResult(m.Called(ctx, ownerID))
}

// ListByStatus is a mock implementation of store.TaskStore.ListByStatus
func (m *MockTaskStore) ListByStatus(
	ctx context.Context,
	ownerID int64,
	status domain.TaskStatus,
) ([]*domain.Task, error) {
	return tasksResult(m.Called(ctx, ownerID, status))
}

// ListByPriority is a mock implementation of store.TaskStore.ListByPriority
func (m *MockTaskStore) ListByPriority(
	ctx context.Context,
	ownerID int64,
	priority domain.TaskPriority,
) ([]*domain.Task, error) {
	return tasksResult(m.Called(ctx, ownerID, priority))
}

// Search is a mock implementation of store.TaskStore.Search
func (m *MockTaskStore) Search(ctx context.Context, ownerID int64, query string) ([]*domain.Task, error) {
	return tasksResult(m.Called(ctx, ownerID, query))
}

// ListUpcoming is a mock implementation of store.TaskStore.ListUpcoming
func (m *MockTaskStore) ListUpcoming(ctx context.Context, ownerID int64, from, to time.Time) ([]*domain.Task, error) {
	return tasksResult(m.Called(ctx, ownerID, from, to))
}

// ListOverdue is a mock implementation of store.TaskStore.ListOverdue
func (m *MockTaskStore) ListOverdue(ctx context.Context, ownerID int64, now time.Time) ([]*domain.Task, error) {
	return tasksResult(m.Called(ctx, ownerID, now))
}

// CountByStatus is a mock implementation of store.TaskStore.CountByStatus
func (m *MockTaskStore) CountByStatus(ctx context.Context, ownerID int64) (map[domain.TaskStatus]int64, error) {
	args := m.Called(ctx, ownerID)
	if counts, ok := args.Get(0).(map[domain.TaskStatus]int64); ok {
		return counts, args.Error(1)
	}
	return nil, args.Error(1)
}

// CountOverdue is a mock implementation of store.TaskStore.CountOverdue
func (m *MockTaskStore) CountOverdue(ctx context.Context, ownerID int64, now time.Time) (int64, error) {
	args := m.Called(ctx, ownerID, now)
	n, _ := args.Get(0).(int64)
	return n, args.Error(1)
}

// WithTx is a mock implementation of store.TaskStore.WithTx
func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	args := m.Called(tx)
	if ret, ok := args.Get(0).(store.TaskStore); ok {
		return ret
	}
	return m
}
