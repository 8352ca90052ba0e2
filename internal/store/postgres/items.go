package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mediasort/mediasort/internal/store"
)

// SaveItem upserts the item metadata record.
func (s *Store) SaveItem(ctx context.Context, rec store.ItemRecord) error {
	query := `
		INSERT INTO items (id, path, ts)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			path = EXCLUDED.path,
			ts = EXCLUDED.ts
	`
	_, err := s.db.ExecContext(ctx, query, rec.ID, rec.Path, rec.Timestamp.Unix())
	if err != nil {
		return fmt.Errorf("save item: %w", err)
	}
	return nil
}

// GetItem reads an item metadata record by id.
func (s *Store) GetItem(ctx context.Context, id string) (store.ItemRecord, error) {
	var (
		rec store.ItemRecord
		ts  int64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, path, ts FROM items WHERE id = $1", id,
	).Scan(&rec.ID, &rec.Path, &ts)
	if err == sql.ErrNoRows {
		return store.ItemRecord{}, store.ErrNotFound
	}
	if err != nil {
		return store.ItemRecord{}, fmt.Errorf("get item: %w", err)
	}
	rec.Timestamp = time.Unix(ts, 0).UTC()
	return rec, nil
}

// DeleteItem removes an item metadata record.
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM items WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// HasPath reports whether an item with this path was already ingested.
func (s *Store) HasPath(ctx context.Context, path string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM items WHERE path = $1)", path).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check item path: %w", err)
	}
	return exists, nil
}

// CountItems returns the total number of items.
func (s *Store) CountItems(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM items").Scan(&n); err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return n, nil
}

// ListItems pages through items ordered by (ts, id). One extra row is
// requested to detect whether more records remain past the page.
func (s *Store) ListItems(ctx context.Context, limit int, after *store.Cursor, order store.Order) ([]store.ItemRecord, bool, error) {
	var (
		query string
		args  []any
	)

	switch {
	case after != nil && order == store.OrderDesc:
		query = `
			SELECT id, path, ts FROM items
			WHERE ts < $1 OR (ts = $1 AND id < $2)
			ORDER BY ts DESC, id DESC LIMIT $3`
		args = []any{after.Timestamp.Unix(), after.ID, limit + 1}
	case after != nil:
		query = `
			SELECT id, path, ts FROM items
			WHERE ts > $1 OR (ts = $1 AND id > $2)
			ORDER BY ts, id LIMIT $3`
		args = []any{after.Timestamp.Unix(), after.ID, limit + 1}
	case order == store.OrderDesc:
		query = "SELECT id, path, ts FROM items ORDER BY ts DESC, id DESC LIMIT $1"
		args = []any{limit + 1}
	default:
		query = "SELECT id, path, ts FROM items ORDER BY ts, id LIMIT $1"
		args = []any{limit + 1}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var out []store.ItemRecord
	for rows.Next() {
		var (
			rec store.ItemRecord
			ts  int64
		)
		if err := rows.Scan(&rec.ID, &rec.Path, &ts); err != nil {
			return nil, false, fmt.Errorf("scan item: %w", err)
		}
		rec.Timestamp = time.Unix(ts, 0).UTC()
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate items: %w", err)
	}

	hasMore := len(out) > limit
	if hasMore {
		out = out[:limit]
	}
	return out, hasMore, nil
}
