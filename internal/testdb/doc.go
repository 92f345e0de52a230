// Package testdb provides helpers for tests that run against a real
// PostgreSQL database. Tests using it are guarded by the integration build
// tag and skip when no database URL is configured outside CI.
package testdb
