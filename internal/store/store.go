package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/consultorio/internal/apperr"
)

//go:embed schema.sql
var schemaSQL string

// Store provides durable storage for patient records.
// A single connection is held for the lifetime of the process.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for completed operations.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// Open creates or opens a SQLite database at the given path, applies the
// required pragmas and creates the schema if absent.
//
// This function is idempotent - safe to call multiple times.
func Open(path string, opts ...Option) (*Store, error) {
	// Open database (creates file if doesn't exist)
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, apperr.Storage("open", fmt.Errorf("failed to open database: %w", err))
	}

	// Verify connection works
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, apperr.Storage("open", fmt.Errorf("failed to connect to database: %w", err))
	}

	// One writer, one reader: the same connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, apperr.Storage("open", fmt.Errorf("failed to apply pragmas: %w", err))
	}

	s := &Store{db: db, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.CreateSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection.
// Should be called when the store is no longer needed.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// CreateSchema creates the historias table if it does not exist.
// It is a no-op when the table is already present.
func (s *Store) CreateSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return apperr.Storage("create schema", fmt.Errorf("failed to execute schema: %w", err))
	}
	return nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
