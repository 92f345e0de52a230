package sqlite

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(MemoryPath, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, err := SQLDB(db)
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func createUser(t *testing.T, users *UserStore, username string) *domain.User {
	t.Helper()
	u, err := domain.NewUser(username, username+"@example.com", "$2a$10$hash", testNow)
	require.NoError(t, err)
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

func createTask(t *testing.T, tasks *TaskStore, ownerID int64, input domain.TaskInput, createdAt time.Time) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(ownerID, input, createdAt)
	require.NoError(t, err)
	require.NoError(t, tasks.Create(context.Background(), task))
	return task
}

func timePtr(t time.Time) *time.Time { return &t }

func TestUserStore(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	users := NewUserStore(db, nil)

	alice := createUser(t, users, "alice")
	assert.NotZero(t, alice.ID)

	t.Run("get by id", func(t *testing.T) {
		got, err := users.GetByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Username)
		assert.Equal(t, "alice@example.com", got.Email)
		assert.Equal(t, domain.RoleUser, got.Role)
		assert.True(t, testNow.Equal(got.CreatedAt))
	})

	t.Run("get by username", func(t *testing.T) {
		got, err := users.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, got.ID)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := users.GetByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, store.ErrUserNotFound)
		assert.True(t, store.IsNotFoundError(err))

		_, err = users.GetByID(ctx, 9999)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("duplicate username", func(t *testing.T) {
		u, err := domain.NewUser("alice", "other@example.com", "$2a$10$hash", testNow)
		require.NoError(t, err)
		err = users.Create(ctx, u)
		assert.ErrorIs(t, err, store.ErrUsernameExists)
		assert.True(t, store.IsDuplicateError(err))
	})

	t.Run("duplicate email", func(t *testing.T) {
		u, err := domain.NewUser("alice2", "alice@example.com", "$2a$10$hash", testNow)
		require.NoError(t, err)
		assert.ErrorIs(t, users.Create(ctx, u), store.ErrEmailExists)
	})

	t.Run("invalid user is rejected before insert", func(t *testing.T) {
		err := users.Create(ctx, &domain.User{Username: "x", Email: "x@example.com", HashedPassword: "h"})
		assert.ErrorIs(t, err, domain.ErrUsernameLength)
	})
}

func TestTaskStore_CRUD(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	users := NewUserStore(db, nil)
	tasks := NewTaskStore(db, nil)

	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")

	due := testNow.Add(48 * time.Hour)
	task := createTask(t, tasks, alice.ID, domain.TaskInput{
		Title:       "Write report",
		Description: "Quarterly numbers",
		Priority:    "HIGH",
		DueDate:     &due,
	}, testNow)
	require.NotZero(t, task.ID)

	got, err := tasks.GetByID(ctx, alice.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Write report", got.Title)
	assert.Equal(t, "Quarterly numbers", got.Description)
	assert.Equal(t, domain.TaskStatusPending, got.Status)
	assert.Equal(t, domain.TaskPriorityHigh, got.Priority)
	require.NotNil(t, got.DueDate)
	assert.True(t, due.Equal(*got.DueDate))
	assert.Nil(t, got.CompletedAt)

	t.Run("other owner cannot see it", func(t *testing.T) {
		_, err := tasks.GetByID(ctx, bob.ID, task.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})

	t.Run("update", func(t *testing.T) {
		later := testNow.Add(time.Hour)
		require.NoError(t, got.ApplyPatch(domain.TaskPatch{Status: strPtr("COMPLETED")}, later))
		require.NoError(t, tasks.Update(ctx, got))

		reloaded, err := tasks.GetByID(ctx, alice.ID, task.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusCompleted, reloaded.Status)
		require.NotNil(t, reloaded.CompletedAt)
		assert.True(t, later.Equal(*reloaded.CompletedAt))
		assert.True(t, later.Equal(reloaded.UpdatedAt))
		assert.True(t, testNow.Equal(reloaded.CreatedAt))
	})

	t.Run("update of foreign task", func(t *testing.T) {
		foreign := *got
		foreign.OwnerID = bob.ID
		assert.ErrorIs(t, tasks.Update(ctx, &foreign), store.ErrTaskNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		assert.ErrorIs(t, tasks.Delete(ctx, bob.ID, task.ID), store.ErrTaskNotFound)
		require.NoError(t, tasks.Delete(ctx, alice.ID, task.ID))
		assert.ErrorIs(t, tasks.Delete(ctx, alice.ID, task.ID), store.ErrTaskNotFound)
		_, err := tasks.GetByID(ctx, alice.ID, task.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func strPtr(s string) *string { return &s }

func TestTaskStore_Queries(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	users := NewUserStore(db, nil)
	tasks := NewTaskStore(db, nil)

	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")

	first := createTask(t, tasks, alice.ID, domain.TaskInput{
		Title:   "Buy milk",
		DueDate: timePtr(testNow.Add(-24 * time.Hour)),
	}, testNow.Add(-3*time.Hour))
	second := createTask(t, tasks, alice.ID, domain.TaskInput{
		Title:       "Plan 100% effort",
		Description: "Read the MILK_carton label",
		Priority:    "URGENT",
		DueDate:     timePtr(testNow.Add(2 * 24 * time.Hour)),
	}, testNow.Add(-2*time.Hour))
	third := createTask(t, tasks, alice.ID, domain.TaskInput{
		Title:   "Done already",
		Status:  "COMPLETED",
		DueDate: timePtr(testNow.Add(-48 * time.Hour)),
	}, testNow.Add(-time.Hour))
	createTask(t, tasks, bob.ID, domain.TaskInput{Title: "Bob's milk"}, testNow)

	ids := func(list []*domain.Task) []int64 {
		out := make([]int64, 0, len(list))
		for _, task := range list {
			out = append(out, task.ID)
		}
		return out
	}

	t.Run("list newest first", func(t *testing.T) {
		list, err := tasks.List(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, []int64{third.ID, second.ID, first.ID}, ids(list))
	})

	t.Run("list empty", func(t *testing.T) {
		list, err := tasks.List(ctx, 9999)
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})

	t.Run("by status and priority", func(t *testing.T) {
		list, err := tasks.ListByStatus(ctx, alice.ID, domain.TaskStatusPending)
		require.NoError(t, err)
		assert.Equal(t, []int64{second.ID, first.ID}, ids(list))

		list, err = tasks.ListByPriority(ctx, alice.ID, domain.TaskPriorityUrgent)
		require.NoError(t, err)
		assert.Equal(t, []int64{second.ID}, ids(list))
	})

	t.Run("search is case-insensitive and scoped", func(t *testing.T) {
		list, err := tasks.Search(ctx, alice.ID, "MiLk")
		require.NoError(t, err)
		assert.Equal(t, []int64{second.ID, first.ID}, ids(list))
	})

	t.Run("search treats wildcards literally", func(t *testing.T) {
		list, err := tasks.Search(ctx, alice.ID, "100%")
		require.NoError(t, err)
		assert.Equal(t, []int64{second.ID}, ids(list))

		list, err = tasks.Search(ctx, alice.ID, "k_c")
		require.NoError(t, err)
		assert.Equal(t, []int64{second.ID}, ids(list))

		list, err = tasks.Search(ctx, alice.ID, "%")
		require.NoError(t, err)
		assert.Equal(t, []int64{second.ID}, ids(list))
	})

	t.Run("upcoming", func(t *testing.T) {
		list, err := tasks.ListUpcoming(ctx, alice.ID, testNow, testNow.Add(7*24*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, []int64{second.ID}, ids(list))
	})

	t.Run("overdue", func(t *testing.T) {
		list, err := tasks.ListOverdue(ctx, alice.ID, testNow)
		require.NoError(t, err)
		assert.Equal(t, []int64{first.ID}, ids(list))

		n, err := tasks.CountOverdue(ctx, alice.ID, testNow)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("count by status", func(t *testing.T) {
		counts, err := tasks.CountByStatus(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), counts[domain.TaskStatusPending])
		assert.Equal(t, int64(1), counts[domain.TaskStatusCompleted])
		assert.Zero(t, counts[domain.TaskStatusCancelled])
	})
}

func TestTaskStore_SearchFoldsUnicode(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	alice := createUser(t, NewUserStore(db, nil), "alice")
	tasks := NewTaskStore(db, nil)

	meeting := createTask(t, tasks, alice.ID, domain.TaskInput{Title: "Reunión ÉLAN"}, testNow)
	errands := createTask(t, tasks, alice.ID, domain.TaskInput{
		Title:       "Errands",
		Description: "Post office on GROẞE Straße",
	}, testNow.Add(time.Minute))

	tests := []struct {
		query string
		want  []int64
	}{
		{"ÉLAN", []int64{meeting.ID}},
		{"élan", []int64{meeting.ID}},
		{"reunión", []int64{meeting.ID}},
		{"straße", []int64{errands.ID}},
		{"große", []int64{errands.ID}},
		{"elan", []int64{}},
	}
	for _, tc := range tests {
		list, err := tasks.Search(ctx, alice.ID, tc.query)
		require.NoError(t, err)
		got := make([]int64, 0, len(list))
		for _, task := range list {
			got = append(got, task.ID)
		}
		assert.Equal(t, tc.want, got, tc.query)
	}
}

func TestTaskStore_WithTx(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	users := NewUserStore(db, nil)
	tasks := NewTaskStore(db, nil)
	alice := createUser(t, users, "alice")

	sqlDB, err := SQLDB(db)
	require.NoError(t, err)

	t.Run("rollback discards writes", func(t *testing.T) {
		tx, err := sqlDB.BeginTx(ctx, nil)
		require.NoError(t, err)

		task, err := domain.NewTask(alice.ID, domain.TaskInput{Title: "Temporary"}, testNow)
		require.NoError(t, err)
		require.NoError(t, tasks.WithTx(tx).Create(ctx, task))
		require.NoError(t, tx.Rollback())

		list, err := tasks.List(ctx, alice.ID)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("commit keeps writes", func(t *testing.T) {
		err := store.RunInTransaction(ctx, sqlDB, func(ctx context.Context, tx *sql.Tx) error {
			txTasks := tasks.WithTx(tx)
			task, err := domain.NewTask(alice.ID, domain.TaskInput{Title: "Kept"}, testNow)
			if err != nil {
				return err
			}
			if err := txTasks.Create(ctx, task); err != nil {
				return err
			}
			locked, err := txTasks.GetByIDForUpdate(ctx, alice.ID, task.ID)
			if err != nil {
				return err
			}
			if err := locked.ApplyPatch(domain.TaskPatch{Title: strPtr("Kept and renamed")}, testNow.Add(time.Minute)); err != nil {
				return err
			}
			return txTasks.Update(ctx, locked)
		})
		require.NoError(t, err)

		list, err := tasks.List(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Kept and renamed", list[0].Title)
	})
}

func TestDeleteUserCascadesTasks(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	users := NewUserStore(db, nil)
	tasks := NewTaskStore(db, nil)
	alice := createUser(t, users, "alice")
	createTask(t, tasks, alice.ID, domain.TaskInput{Title: "Orphan"}, testNow)

	require.NoError(t, db.WithContext(ctx).Delete(&userModel{}, alice.ID).Error)

	list, err := tasks.List(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDSN(t *testing.T) {
	assert.Equal(t, "file::memory:?_foreign_keys=on&_busy_timeout=5000", dsn(MemoryPath))
	assert.Equal(t, "tasks.db?_foreign_keys=on&_busy_timeout=5000", dsn("tasks.db"))
	assert.Equal(t, "file:tasks.db?mode=rwc&_foreign_keys=on&_busy_timeout=5000", dsn("file:tasks.db?mode=rwc"))
}
