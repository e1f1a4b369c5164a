// Package database wraps an SQLite connection tuned for a single-writer, many-reader workload.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/lepinkainen/folio/pkg/filesystem"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrClosed is returned by operations on a closed Database.
var ErrClosed = errors.New("database is closed")

// Database is a thread-safe SQLite connection.
type Database struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// Config holds database configuration
type Config struct {
	Path    string
	Driver  string
	Timeout time.Duration
}

// DefaultConfig returns the default database configuration
func DefaultConfig() Config {
	return Config{
		Driver:  "sqlite",
		Timeout: 5 * time.Second,
	}
}

// Open opens the database at config.Path, creating its directory when needed.
func Open(config Config) (*Database, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("database path is empty")
	}
	if config.Driver == "" {
		config.Driver = "sqlite"
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultConfig().Timeout
	}

	if err := filesystem.EnsureDirectoryExists(config.Path); err != nil {
		return nil, err
	}

	db, err := sql.Open(config.Driver, config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", config.Path, err)
	}

	if err := configure(db, config); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("Failed to close database", "error", closeErr)
		}
		return nil, err
	}

	slog.Debug("Opened database", "path", config.Path)
	return &Database{db: db, dbPath: config.Path}, nil
}

func configure(db *sql.DB, config Config) error {
	if config.Driver == "sqlite" {
		busy := fmt.Sprintf("PRAGMA busy_timeout=%d", config.Timeout.Milliseconds())
		if _, err := db.Exec(busy); err != nil {
			return fmt.Errorf("failed to set busy timeout: %w", err)
		}

		var journalMode string
		if err := db.QueryRow("PRAGMA journal_mode;").Scan(&journalMode); err != nil {
			return fmt.Errorf("failed to read journal mode: %w", err)
		}
		if !strings.EqualFold(journalMode, "wal") {
			if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
				return fmt.Errorf("failed to enable WAL: %w", err)
			}
		}

		pragmas := []string{
			"PRAGMA synchronous=NORMAL",
			"PRAGMA temp_store=memory",
			"PRAGMA foreign_keys=ON",
		}
		for _, pragma := range pragmas {
			if _, err := db.Exec(pragma); err != nil {
				return fmt.Errorf("failed to apply %q: %w", pragma, err)
			}
		}
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	return db.Ping()
}

// Close closes the database connection
func (db *Database) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.db == nil {
		return nil
	}
	err := db.db.Close()
	db.db = nil
	return err
}

// DB returns the underlying sql.DB instance
func (db *Database) DB() *sql.DB {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.db
}

// Path returns the database file path
func (db *Database) Path() string {
	return db.dbPath
}

// ExecuteSchema executes one or more schema statements
func (db *Database) ExecuteSchema(ctx context.Context, schema string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.db == nil {
		return ErrClosed
	}
	if _, err := db.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// Transaction runs fn inside a transaction, rolling back when fn fails or panics.
func (db *Database) Transaction(ctx context.Context, fn func(*sql.Tx) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.db == nil {
		return ErrClosed
	}
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				slog.Error("Failed to rollback transaction", "error", rollbackErr)
			}
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			slog.Error("Failed to rollback transaction", "error", rollbackErr)
		}
		return err
	}

	return tx.Commit()
}
