package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/store"
	"gorm.io/gorm"
)

// UserStore implements store.UserStore on SQLite through gorm.
type UserStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewUserStore creates a UserStore. If logger is nil, a default logger is used.
func NewUserStore(db *gorm.DB, logger *slog.Logger) *UserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

var _ store.UserStore = (*UserStore)(nil)

// Create implements store.UserStore.Create
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		return err
	}

	m := userToModel(user)
	m.ID = 0
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			// SQLite reports the failing column as "UNIQUE constraint failed: users.email".
			if strings.Contains(err.Error(), "users.email") {
				return fmt.Errorf("%w: %v", store.ErrEmailExists, err)
			}
			return fmt.Errorf("%w: %v", store.ErrUsernameExists, err)
		}
		log.Error("failed to create user", slog.String("error", err.Error()))
		return store.NewStoreError("user", "create", "failed to insert user", err)
	}

	user.ID = m.ID
	log.Info("user created", slog.Int64("user_id", user.ID))
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *UserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.first(ctx, "get_by_id", "id = ?", id)
}

// GetByUsername implements store.UserStore.GetByUsername
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.first(ctx, "get_by_username", "username = ?", username)
}

func (s *UserStore) first(ctx context.Context, op, cond string, arg any) (*domain.User, error) {
	var m userModel
	if err := s.db.WithContext(ctx).Where(cond, arg).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrUserNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to query user",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("user", op, "failed to query user", err)
	}
	return m.toDomain(), nil
}

// WithTx implements store.UserStore.WithTx
func (s *UserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &UserStore{db: bindTx(s.db, tx), logger: s.logger}
}

// bindTx returns a gorm session whose statements run on tx.
// It mirrors what gorm.DB.Begin does with a transaction it opened itself.
func bindTx(db *gorm.DB, tx *sql.Tx) *gorm.DB {
	session := db.Session(&gorm.Session{Context: context.Background(), SkipDefaultTransaction: true})
	session.Statement.ConnPool = tx
	return session
}
