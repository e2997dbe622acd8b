// Package store provides the SQLite persistence layer for jobfill:
// the user profile, per-site configurations and the uploaded resume.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/hazyhaar/jobfill/dbopen"
)

// Store is the jobfill database handle.
type Store struct {
	DB *sql.DB
}

// Open opens (or creates) the jobfill SQLite database at path, applies
// pragmas and the schema, and seeds the default profile and site configs
// when the tables are empty.
func Open(path string, opts ...dbopen.Option) (*Store, error) {
	allOpts := append([]dbopen.Option{
		dbopen.WithMkdirAll(),
		dbopen.WithSchema(Schema),
	}, opts...)

	db, err := dbopen.Open(path, allOpts...)
	if err != nil {
		return nil, err
	}
	s := &Store{DB: db}
	if err := s.seed(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: seed: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.DB.Close()
}

// OpenMemory opens an in-memory store for tests, seeded like Open.
func OpenMemory(tb testing.TB) *Store {
	tb.Helper()
	db := dbopen.OpenMemory(tb, dbopen.WithSchema(Schema))
	s := &Store{DB: db}
	if err := s.seed(context.Background()); err != nil {
		tb.Fatalf("store.OpenMemory: seed: %v", err)
	}
	return s
}
