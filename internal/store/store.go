// Package store provides sqlite persistence for generated diary entries.
package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/martijnpeper/dagboek-bot/backend/internal/model/diary"
)

const schema = `
CREATE TABLE IF NOT EXISTS entries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	date TEXT,
	user TEXT,
	entry TEXT
)`

// Store wraps the database connection pool. The entries table is
// append-only: nothing in the service updates or deletes rows.
type Store struct {
	db *sql.DB
}

// New opens the database at dbPath and ensures the entries schema exists.
// Creating the table is idempotent, so reopening an existing file is safe.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite is single-writer by design. Keep a single shared connection so
	// concurrent appends are serialized by database/sql instead of fighting
	// for write locks across multiple underlying connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create entries table: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// AppendEntry inserts one entry and returns its assigned id. The write runs
// on a connection checked out for this single call and released on every
// path, so a failed insert never leaks the connection or leaves a partial
// row behind.
func (s *Store) AppendEntry(ctx context.Context, entry diary.Entry) (int64, error) {
	query, args, err := sq.Insert("entries").
		Columns("date", "user", "entry").
		Values(entry.Date, entry.Author, entry.Body).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	result, err := conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("insert entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read inserted id: %w", err)
	}
	return id, nil
}

// ListEntries returns all persisted entries in insertion order.
func (s *Store) ListEntries(ctx context.Context) ([]diary.Entry, error) {
	query, args, err := sq.Select("id", "date", "user", "entry").
		From("entries").
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []diary.Entry
	for rows.Next() {
		var entry diary.Entry
		if err := rows.Scan(&entry.ID, &entry.Date, &entry.Author, &entry.Body); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	return entries, nil
}
