// Package sqlite provides the embedded SQLite implementation of the
// internal/store interfaces, built on gorm. It backs single-node
// deployments and the in-memory database used by tests; the schema is
// created with AutoMigrate rather than the goose migrations used for
// PostgreSQL.
package sqlite
