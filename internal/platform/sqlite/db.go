package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// driverName is the go-sqlite3 driver with the taskboard SQL functions
// registered on every connection.
const driverName = "sqlite3_taskboard"

// lowerFunc lower-cases its argument with Go's Unicode case mapping.
// The built-in LOWER only folds ASCII letters.
const lowerFunc = "ulower"

func init() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc(lowerFunc, strings.ToLower, true)
		},
	})
}

// Open opens (creating if needed) the SQLite database at path and migrates
// the schema. The pool is limited to a single connection: SQLite serializes
// writers anyway, and an in-memory database only lives as long as its
// connection.
func Open(path string, logger *slog.Logger) (*gorm.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With(slog.String("component", "sqlite"))

	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: driverName, DSN: dsn(path)}), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := db.AutoMigrate(&userModel{}, &taskModel{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate sqlite schema: %w", err)
	}

	log.Info("sqlite database ready", slog.String("path", path))
	return db, nil
}

// SQLDB returns the *sql.DB behind db, for transactions and shutdown.
func SQLDB(db *gorm.DB) (*sql.DB, error) {
	return db.DB()
}

func dsn(path string) string {
	const params = "_foreign_keys=on&_busy_timeout=5000"
	if path == MemoryPath || path == "" {
		return "file::memory:?" + params
	}
	if strings.Contains(path, "?") {
		return path + "&" + params
	}
	return path + "?" + params
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
