// Package store keeps extracted feature tables of imported batches in
// DuckDB and merges them across proteomes.
package store

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"

	"github.com/cockroachdb/errors"
	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection holding batch results.
type Store struct {
	db   *sql.DB
	path string
	// mu serializes batch writes.
	mu sync.Mutex
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrap(err, "create store directory")
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(err, "open duckdb")
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ensure schema")
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database path, empty for an in-memory store.
func (s *Store) Path() string {
	return s.path
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS batches (
		batch_id VARCHAR PRIMARY KEY,
		proteome VARCHAR,
		source VARCHAR,
		source_size BIGINT,
		source_modtime VARCHAR,
		proteins BIGINT,
		created_at TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS protein_rows (
		batch_id VARCHAR,
		proteome VARCHAR,
		feature VARCHAR,
		protein BIGINT,
		id VARCHAR,
		regions BIGINT,
		median_length DOUBLE,
		sum_length BIGINT,
		protein_length BIGINT,
		content DOUBLE,
		orientation VARCHAR
	)`,
	`CREATE TABLE IF NOT EXISTS protein_row_extras (
		batch_id VARCHAR,
		feature VARCHAR,
		protein BIGINT,
		name VARCHAR,
		value DOUBLE
	)`,
	`CREATE TABLE IF NOT EXISTS region_rows (
		batch_id VARCHAR,
		proteome VARCHAR,
		feature VARCHAR,
		seq BIGINT,
		protein BIGINT,
		id VARCHAR,
		begin_pos BIGINT,
		end_pos BIGINT,
		length BIGINT,
		description VARCHAR,
		point_begin DOUBLE,
		point_end DOUBLE,
		protein_length BIGINT,
		rel_length DOUBLE
	)`,
	`CREATE TABLE IF NOT EXISTS diagnostics (
		batch_id VARCHAR,
		seq BIGINT,
		protein VARCHAR,
		text VARCHAR
	)`,
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
