package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mediasort/mediasort/internal/store"
)

const statusKey = "status"

// Status reads the durable load status flag. An unset flag reads as idle.
func (s *Store) Status(ctx context.Context) (store.Status, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM app_state WHERE key = $1", statusKey).Scan(&value)
	if err == sql.ErrNoRows {
		return store.StatusIdle, nil
	}
	if err != nil {
		return "", fmt.Errorf("read status: %w", err)
	}
	return store.Status(value), nil
}

// SetStatus writes the durable load status flag.
func (s *Store) SetStatus(ctx context.Context, status store.Status) error {
	query := `
		INSERT INTO app_state (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`
	if _, err := s.db.ExecContext(ctx, query, statusKey, string(status)); err != nil {
		return fmt.Errorf("write status: %w", err)
	}
	return nil
}

// AddSuggestion records a used set name for type-ahead.
func (s *Store) AddSuggestion(ctx context.Context, name string) error {
	query := "INSERT INTO suggestions (name) VALUES ($1) ON CONFLICT (name) DO NOTHING"
	if _, err := s.db.ExecContext(ctx, query, name); err != nil {
		return fmt.Errorf("add suggestion: %w", err)
	}
	return nil
}

// Suggestions lists recorded names in alphabetical order.
func (s *Store) Suggestions(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM suggestions ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan suggestion: %w", err)
		}
		out = append(out, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate suggestions: %w", err)
	}
	return out, nil
}

// SaveLocation caches a reverse-geocoded place name.
func (s *Store) SaveLocation(ctx context.Context, lat, lon float64, place string) error {
	query := `
		INSERT INTO location_cache (lat, lon, place)
		VALUES ($1, $2, $3)
		ON CONFLICT (lat, lon) DO UPDATE SET place = EXCLUDED.place
	`
	if _, err := s.db.ExecContext(ctx, query, lat, lon, place); err != nil {
		return fmt.Errorf("save location: %w", err)
	}
	return nil
}

// Location reads a cached place name, or ErrNotFound on a cache miss.
func (s *Store) Location(ctx context.Context, lat, lon float64) (string, error) {
	var place string
	err := s.db.QueryRowContext(ctx,
		"SELECT place FROM location_cache WHERE lat = $1 AND lon = $2", lat, lon).Scan(&place)
	if err == sql.ErrNoRows {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read location: %w", err)
	}
	return place, nil
}
