package content

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/lepinkainen/folio/pkg/database"
)

const entriesSchema = `
CREATE TABLE IF NOT EXISTS entries (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	collection  TEXT NOT NULL,
	slug        TEXT NOT NULL,
	title       TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	date        TEXT NOT NULL,
	draft       INTEGER NOT NULL DEFAULT 0,
	body        TEXT NOT NULL DEFAULT '',
	repo        TEXT,
	demo        TEXT,
	UNIQUE (collection, slug)
);
CREATE INDEX IF NOT EXISTS idx_entries_collection ON entries (collection, id);
`

// entryRow is the database representation of an Entry.
type entryRow struct {
	ID          int64          `db:"id"`
	Collection  string         `db:"collection"`
	Slug        string         `db:"slug"`
	Title       string         `db:"title"`
	Description string         `db:"description"`
	Date        string         `db:"date"`
	Draft       bool           `db:"draft"`
	Body        string         `db:"body"`
	Repo        sql.NullString `db:"repo"`
	Demo        sql.NullString `db:"demo"`
}

func (r entryRow) entry() (Entry, error) {
	date, err := time.Parse(time.RFC3339Nano, r.Date)
	if err != nil {
		return Entry{}, fmt.Errorf("invalid date for %s/%s: %w", r.Collection, r.Slug, err)
	}

	e := Entry{
		Collection:  Collection(r.Collection),
		Slug:        r.Slug,
		Title:       r.Title,
		Description: r.Description,
		Date:        date,
		Draft:       r.Draft,
		Body:        r.Body,
	}
	if r.Repo.Valid || r.Demo.Valid {
		e.Project = &ProjectLinks{Repo: r.Repo.String, Demo: r.Demo.String}
	}
	return e, nil
}

// SQLiteStore keeps entries in an SQLite database. Store order is insertion order.
type SQLiteStore struct {
	db *database.Database
	x  *sqlx.DB
}

// OpenSQLiteStore opens (and if needed creates) the content database at path.
func OpenSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	cfg := database.DefaultConfig()
	cfg.Path = path

	db, err := database.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open content database: %w", err)
	}

	if err := db.ExecuteSchema(ctx, entriesSchema); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("Failed to close database", "error", closeErr)
		}
		return nil, err
	}

	return &SQLiteStore{
		db: db,
		x:  sqlx.NewDb(db.DB(), cfg.Driver),
	}, nil
}

// Database exposes the underlying connection for maintenance tasks.
func (s *SQLiteStore) Database() *database.Database {
	return s.db
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Fetch returns the collection's entries in insertion order.
func (s *SQLiteStore) Fetch(ctx context.Context, c Collection) ([]Entry, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, c)
	}

	var rows []entryRow
	err := s.x.SelectContext(ctx, &rows, `
		SELECT id, collection, slug, title, description, date, draft, body, repo, demo
		FROM entries
		WHERE collection = ?
		ORDER BY id`, string(c))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", c, err)
	}

	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		e, err := row.entry()
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Replace swaps the whole content of the store for entries, in one transaction.
func (s *SQLiteStore) Replace(ctx context.Context, entries []Entry) error {
	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM entries`); err != nil {
			return fmt.Errorf("failed to clear entries: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO entries (collection, slug, title, description, date, draft, body, repo, demo)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, e := range entries {
			if !e.Collection.Valid() {
				return fmt.Errorf("%w: %q", ErrUnknownCollection, e.Collection)
			}
			if err := ValidateSlug(e.Slug); err != nil {
				return err
			}

			var repo, demo sql.NullString
			if e.Project != nil {
				repo = sql.NullString{String: e.Project.Repo, Valid: true}
				demo = sql.NullString{String: e.Project.Demo, Valid: true}
			}

			_, err := stmt.ExecContext(ctx,
				string(e.Collection), e.Slug, e.Title, e.Description,
				e.Date.Format(time.RFC3339Nano), e.Draft, e.Body, repo, demo)
			if err != nil {
				return fmt.Errorf("failed to insert %s: %w", e.Path(), err)
			}
		}

		slog.Debug("Replaced stored entries", "count", len(entries))
		return nil
	})
}
