// Package store persists batch standardization results in DuckDB
// (queryable, append-only). It backs the batch command so large runs can
// be re-queried without re-standardizing.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection for standardization results.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
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

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS symbol_results (
		input VARCHAR,
		species VARCHAR,
		family VARCHAR,
		success BOOLEAN,
		subgroup VARCHAR,
		gene VARCHAR,
		protein VARCHAR,
		allele VARCHAR,
		reason VARCHAR,
		attempted_fix VARCHAR,
		PRIMARY KEY (input, species, family)
	)`); err != nil {
		return err
	}
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS junction_results (
		input VARCHAR,
		species VARCHAR,
		locus VARCHAR,
		success BOOLEAN,
		junction VARCHAR,
		cdr3 VARCHAR,
		reason VARCHAR,
		attempted_fix VARCHAR,
		PRIMARY KEY (input, species, locus)
	)`)
	return err
}
