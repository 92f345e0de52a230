package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// SQLSTATE codes for the integrity violations the schema can raise.
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
	notNullViolationCode    = "23502"
)

// Unique constraint names created by the migrations.
const (
	usersUsernameConstraint = "users_username_key"
	usersEmailConstraint    = "users_email_key"
)

// MapError translates driver errors into store sentinels, keeping the driver
// error in the chain. Errors it does not recognise are returned unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case uniqueViolationCode:
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	case foreignKeyViolationCode, checkViolationCode:
		return fmt.Errorf("%w: constraint %s: %v", store.ErrInvalidEntity, pgErr.ConstraintName, err)
	case notNullViolationCode:
		return fmt.Errorf("%w: column %s is required: %v", store.ErrInvalidEntity, pgErr.ColumnName, err)
	}
	return err
}

// IsUniqueViolation reports whether err carries SQLSTATE 23505.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// mapUserUniqueViolation resolves a unique violation on the users table to
// ErrUsernameExists or ErrEmailExists by constraint name. Other errors go
// through MapError.
func mapUserUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolationCode {
		return MapError(err)
	}

	switch pgErr.ConstraintName {
	case usersUsernameConstraint:
		return fmt.Errorf("%w: %v", store.ErrUsernameExists, err)
	case usersEmailConstraint:
		return fmt.Errorf("%w: %v", store.ErrEmailExists, err)
	default:
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	}
}

// CheckRowsAffected examines the number of rows affected by an UPDATE or
// DELETE and returns notFound when nothing matched.
func CheckRowsAffected(result sql.Result, notFound error) error {
	if result == nil {
		return errors.New("no result to inspect")
	}
	n, err := result.RowsAffected()
	switch {
	case err != nil:
		return fmt.Errorf("failed to get rows affected: %w", err)
	case n > 0:
		return nil
	case notFound != nil:
		return notFound
	default:
		return store.ErrNotFound
	}
}
