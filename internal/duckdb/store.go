// Package duckdb records the chunks produced by a run in a DuckDB catalog.
// The catalog maps every chunk name to its range on the original
// chromosome, so coordinates can be lifted back without re-parsing names.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection holding the chunk catalog.
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
			return nil, fmt.Errorf("create catalog directory: %w", err)
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

// Path returns the database path, empty for in-memory stores.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Rows are replaced by delete and re-insert inside one transaction, which
// DuckDB rejects for indexed keys, so the tables carry no primary key.
// WriteRun keeps chunk names, chromosomes and roles unique.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS chunks (
		chunk_name VARCHAR,
		chrom VARCHAR,
		ordinal BIGINT,
		seg_start BIGINT,
		seg_end BIGINT,
		records BIGINT,
		passthrough BOOLEAN
	)`,
	`CREATE TABLE IF NOT EXISTS chromosomes (
		chrom VARCHAR,
		length BIGINT,
		chunks BIGINT,
		records BIGINT,
		dropped BIGINT
	)`,
	`CREATE TABLE IF NOT EXISTS sources (
		role VARCHAR,
		path VARCHAR,
		size BIGINT,
		mod_time TIMESTAMP
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
