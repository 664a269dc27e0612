package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Dialect selects the placeholder style of an SQLStore.
type Dialect int

const (
	// Postgres uses $1, $2... placeholders.
	Postgres Dialect = iota
	// SQLite uses ? placeholders.
	SQLite
)

const (
	getQuery    = `SELECT value FROM kv WHERE key = $1`
	removeQuery = `DELETE FROM kv WHERE key = $1`
	setQuery    = `INSERT INTO kv (key, value, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
)

var sqlitePlaceholders = strings.NewReplacer("$1", "?", "$2", "?", "$3", "?")

// SQLStore keeps values in the kv table of a relational database.
type SQLStore struct {
	// DB is the database handle for executing queries.
	DB      *sql.DB
	dialect Dialect
	now     func() time.Time
}

// NewPostgresStore creates an SQLStore over a PostgreSQL connection.
func NewPostgresStore(db *sql.DB) *SQLStore {
	return &SQLStore{DB: db, dialect: Postgres, now: time.Now}
}

// NewSQLiteStore creates an SQLStore over a SQLite connection.
func NewSQLiteStore(db *sql.DB) *SQLStore {
	return &SQLStore{DB: db, dialect: SQLite, now: time.Now}
}

func (s *SQLStore) query(q string) string {
	if s.dialect == SQLite {
		return sqlitePlaceholders.Replace(q)
	}
	return q
}

// Get returns the value stored under key.
func (s *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.DB.QueryRowContext(ctx, s.query(getQuery), key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

// Set upserts value under key.
func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	if _, err := s.DB.ExecContext(ctx, s.query(setQuery), key, value, s.now().UTC()); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// Remove deletes key if present.
func (s *SQLStore) Remove(ctx context.Context, key string) error {
	if _, err := s.DB.ExecContext(ctx, s.query(removeQuery), key); err != nil {
		return fmt.Errorf("remove %q: %w", key, err)
	}
	return nil
}
