// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package, together with the
// embedded goose migrations that create their schema. Queries run through
// database/sql on the pgx stdlib driver.
package postgres
