package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteFile is the database file name inside the base path.
const SQLiteFile = "tabtree.sqlite"

// SQLite stores the record as one row of a key/value table.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (and creates) basePath/tabtree.sqlite.
func OpenSQLite(basePath string) (*SQLite, error) {
	if basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	db, err := sql.Open("sqlite3", filepath.Join(basePath, SQLiteFile))
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	s := &SQLite{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("store: create schema: %w", err)
	}
	return nil
}

func (s *SQLite) Get(ctx context.Context) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT value FROM records WHERE key = ?", RecordKey).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", RecordKey, err)
	}
	return data, nil
}

func (s *SQLite) Set(ctx context.Context, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO records (key, value, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, RecordKey, data, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("store: write %s: %w", RecordKey, err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}
