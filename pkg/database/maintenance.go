package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Exists checks if a database file exists
func Exists(dbPath string) bool {
	_, err := os.Stat(dbPath)
	return !os.IsNotExist(err)
}

// Size returns the size of the database file in bytes
func Size(dbPath string) (int64, error) {
	info, err := os.Stat(dbPath)
	if err != nil {
		return 0, fmt.Errorf("failed to get database file info: %w", err)
	}

	return info.Size(), nil
}

// BackupPath returns the path a backup taken at t is written to.
// "site.db" becomes "site_backup_20240105_150405.db".
func BackupPath(dbPath string, t time.Time) string {
	ext := filepath.Ext(dbPath)
	return strings.TrimSuffix(dbPath, ext) + "_backup_" + t.Format("20060102_150405") + ext
}

// Backup writes a snapshot of the database next to its file and returns the
// backup path. VACUUM INTO includes pages still held in the WAL.
func (db *Database) Backup(ctx context.Context) (string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.db == nil {
		return "", ErrClosed
	}

	backupPath := BackupPath(db.dbPath, time.Now())
	if _, err := db.db.ExecContext(ctx, "VACUUM INTO ?", backupPath); err != nil {
		return "", fmt.Errorf("failed to back up database to %s: %w", backupPath, err)
	}
	return backupPath, nil
}

// Vacuum runs VACUUM on the database to reclaim space
func (db *Database) Vacuum(ctx context.Context) error {
	conn := db.DB()
	if conn == nil {
		return ErrClosed
	}
	if _, err := conn.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("failed to vacuum database: %w", err)
	}
	return nil
}

// Info returns the SQLite version, file size and table count.
func (db *Database) Info(ctx context.Context) (map[string]any, error) {
	conn := db.DB()
	if conn == nil {
		return nil, ErrClosed
	}
	info := make(map[string]any)

	var version string
	if err := conn.QueryRowContext(ctx, "SELECT sqlite_version()").Scan(&version); err != nil {
		return nil, fmt.Errorf("failed to get SQLite version: %w", err)
	}
	info["sqlite_version"] = version

	if size, err := Size(db.Path()); err == nil {
		info["file_size_bytes"] = size
	}

	var tableCount int
	err := conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM sqlite_master WHERE type='table'").Scan(&tableCount)
	if err != nil {
		return nil, fmt.Errorf("failed to get table count: %w", err)
	}
	info["table_count"] = tableCount

	return info, nil
}
