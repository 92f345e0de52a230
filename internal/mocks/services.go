package mocks

import (
	"context"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/service"
	"github.com/stretchr/testify/mock"
)

// MockTaskService is a mock of service.TaskService for use with testify/mock
type MockTaskService struct {
	mock.Mock
}

var _ service.TaskService = (*MockTaskService)(nil)

// CreateTask is a mock implementation of service.TaskService.CreateTask
func (m *MockTaskService) CreateTask(
	ctx context.Context,
	ownerID int64,
	input domain.TaskInput,
) (*domain.Task, error) {
	return taskResult(m.Called(ctx, ownerID, input))
}

// GetTask is a mock implementation of service.TaskService.GetTask
func (m *MockTaskService) GetTask(ctx context.Context, ownerID, id int64) (*domain.Task, error) {
	return taskResult(m.Called(ctx, ownerID, id))
}

// ListTasks is a mock implementation of service.TaskService.ListTasks
func (m *MockTaskService) ListTasks(ctx context.Context, ownerID int64) ([]*domain.Task, error) {
	return tasksResult(m.Called(ctx, ownerID))
}

// ListTasksByStatus is a mock implementation of service.TaskService.ListTasksByStatus
func (m *MockTaskService) ListTasksByStatus(
	ctx context.Context,
	ownerID int64,
	status string,
) ([]*domain.Task, error) {
	return tasksResult(m.Called(ctx, ownerID, status))
}

// ListTasksByPriority is a mock implementation of service.TaskService.ListTasksByPriority
func (m *MockTaskService) ListTasksByPriority(
	ctx context.Context,
	ownerID int64,
	priority string,
) ([]*domain.Task, error) {
	return tasksResult(m.Called(ctx, ownerID, priority))
}

// UpdateTask is a mock implementation of service.TaskService.UpdateTask
func (m *MockTaskService) UpdateTask(
	ctx context.Context,
	ownerID, id int64,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	return taskResult(m.Called(ctx, ownerID, id, patch))
}

// DeleteTask is a mock implementation of service.TaskService.DeleteTask
func (m *MockTaskService) DeleteTask(ctx context.Context, ownerID, id int64) error {
	return m.Called(ctx, ownerID, id).Error(0)
}

// SearchTasks is a mock implementation of service.TaskService.SearchTasks
func (m *MockTaskService) SearchTasks(ctx context.Context, ownerID int64, query string) ([]*domain.Task, error) {
	return tasksResult(m.Called(ctx, ownerID, query))
}

// UpcomingTasks is a mock implementation of service.TaskService.UpcomingTasks
func (m *MockTaskService) UpcomingTasks(ctx context.Context, ownerID int64, days int) ([]*domain.Task, error) {
	return tasksResult(m.Called(ctx, ownerID, days))
}

// OverdueTasks is a mock implementation of service.TaskService.OverdueTasks
func (m *MockTaskService) OverdueTasks(ctx context.Context, ownerID int64) ([]*domain.Task, error) {
	return tasksResult(m.Called(ctx, ownerID))
}

// TaskStats is a mock implementation of service.TaskService.TaskStats
func (m *MockTaskService) TaskStats(ctx context.Context, ownerID int64) (*domain.TaskStats, error) {
	args := m.Called(ctx, ownerID)
	if stats, ok := args.Get(0).(*domain.TaskStats); ok {
		return stats, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockAuthService is a mock of service.AuthService for use with testify/mock
type MockAuthService struct {
	mock.Mock
}

var _ service.AuthService = (*MockAuthService)(nil)

func authResult(args mock.Arguments) (*service.AuthResult, error) {
	if res, ok := args.Get(0).(*service.AuthResult); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

// Register is a mock implementation of service.AuthService.Register
func (m *MockAuthService) Register(ctx context.Context, input service.RegisterInput) (*service.AuthResult, error) {
	return authResult(m.Called(ctx, input))
}

// Login is a mock implementation of service.AuthService.Login
func (m *MockAuthService) Login(ctx context.Context, username, password string) (*service.AuthResult, error) {
	return authResult(m.Called(ctx, username, password))
}

// CurrentUser is a mock implementation of service.AuthService.CurrentUser
func (m *MockAuthService) CurrentUser(ctx context.Context, userID int64) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}
