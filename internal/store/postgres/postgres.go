// Package postgres implements the store contract over PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/mediasort/mediasort/internal/config"
)

// Store is a PostgreSQL-backed implementation of store.Store. It wraps a
// connection pool; all methods are safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Open creates a connection pool, verifies connectivity and applies any
// pending migrations.
func Open(cfg *config.DatabaseConfig) (*Store, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, errors.New("database URL is required")
	}

	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(10 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return s, nil
}

// DB returns the underlying sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the connection pool.
func (s *Store) Close() error {
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return fmt.Errorf("closing database connection: %w", err)
		}
	}
	return nil
}

// Clear wipes sets, items and the status flag. Suggestions and location
// cache are wiped too unless the corresponding keep flag is set.
func (s *Store) Clear(ctx context.Context, keepSuggestions, keepLocations bool) error {
	stmts := []string{
		"DELETE FROM set_items",
		"DELETE FROM sets",
		"DELETE FROM items",
		"DELETE FROM app_state",
	}
	if !keepSuggestions {
		stmts = append(stmts, "DELETE FROM suggestions")
	}
	if !keepLocations {
		stmts = append(stmts, "DELETE FROM location_cache")
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clearing store: %w", err)
		}
	}
	return nil
}
