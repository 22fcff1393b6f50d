// ABOUTME: SQLite implementation of the gateway's storage using modernc.org/sqlite
// ABOUTME: Provides document, tenant config, app settings and audit persistence

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// SQLiteStore backs the document store, tenant config store, app
// settings store and audit sink with a single SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
	cache  *queryCache
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "store")

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
		cache:  newQueryCache(defaultQueryCacheSize),
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			content TEXT,
			url TEXT,
			category TEXT NOT NULL DEFAULT '',
			tags TEXT NOT NULL DEFAULT '[]',
			author TEXT,
			enabled INTEGER NOT NULL DEFAULT 1,
			summary TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_documents_enabled_category
			ON documents(enabled, category);

		CREATE TABLE IF NOT EXISTS rag_configs (
			instance TEXT PRIMARY KEY,
			enabled INTEGER NOT NULL DEFAULT 0,
			description TEXT,
			search_settings TEXT,
			allowed_categories TEXT,
			allowed_tags TEXT,
			updated_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS app_settings (
			app_id TEXT PRIMARY KEY,
			settings TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS audit_log (
			audit_id TEXT PRIMARY KEY,
			instance TEXT NOT NULL,
			source TEXT NOT NULL,
			level TEXT NOT NULL,
			detail_json TEXT,
			ts DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_audit_log_ts
			ON audit_log(ts);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
