package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mediasort/mediasort/internal/store"
)

// SaveSet upserts the set metadata record. The start_ts column doubles as
// the global index score, so the listing order follows every rewrite.
func (s *Store) SaveSet(ctx context.Context, rec store.SetRecord) error {
	query := `
		INSERT INTO sets (id, name, start_ts, end_ts, length)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			start_ts = EXCLUDED.start_ts,
			end_ts = EXCLUDED.end_ts,
			length = EXCLUDED.length
	`
	_, err := s.db.ExecContext(ctx, query, rec.ID, rec.Name, rec.Start.Unix(), rec.End.Unix(), rec.Length)
	if err != nil {
		return fmt.Errorf("save set: %w", err)
	}
	return nil
}

// GetSet reads the cached metadata for a set.
func (s *Store) GetSet(ctx context.Context, id string) (store.SetRecord, error) {
	var (
		rec            store.SetRecord
		startTs, endTs int64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, start_ts, end_ts, length FROM sets WHERE id = $1", id,
	).Scan(&rec.ID, &rec.Name, &startTs, &endTs, &rec.Length)
	if err == sql.ErrNoRows {
		return store.SetRecord{}, store.ErrNotFound
	}
	if err != nil {
		return store.SetRecord{}, fmt.Errorf("get set: %w", err)
	}
	if rec.Length <= 0 || startTs == 0 || endTs < startTs {
		return store.SetRecord{}, &store.ConsistencyError{SetID: id, Reason: "cached metadata is corrupt"}
	}
	rec.Start = time.Unix(startTs, 0).UTC()
	rec.End = time.Unix(endTs, 0).UTC()
	return rec, nil
}

// DeleteSet removes the metadata record and the per-set index.
func (s *Store) DeleteSet(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM set_items WHERE set_id = $1", id); err != nil {
		return fmt.Errorf("delete set index: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM sets WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete set: %w", err)
	}
	return nil
}

// ListSets returns set metadata ordered by start, earliest first.
func (s *Store) ListSets(ctx context.Context, limit int, desc bool) ([]store.SetRecord, error) {
	query := "SELECT id, name, start_ts, end_ts, length FROM sets ORDER BY start_ts, id"
	if desc {
		query = "SELECT id, name, start_ts, end_ts, length FROM sets ORDER BY start_ts DESC, id DESC"
	}
	args := []any{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}
	defer rows.Close()

	var out []store.SetRecord
	for rows.Next() {
		var (
			rec            store.SetRecord
			startTs, endTs int64
		)
		if err := rows.Scan(&rec.ID, &rec.Name, &startTs, &endTs, &rec.Length); err != nil {
			return nil, fmt.Errorf("scan set: %w", err)
		}
		rec.Start = time.Unix(startTs, 0).UTC()
		rec.End = time.Unix(endTs, 0).UTC()
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sets: %w", err)
	}
	return out, nil
}

// CountSets returns the number of sets in the global index.
func (s *Store) CountSets(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sets").Scan(&n); err != nil {
		return 0, fmt.Errorf("count sets: %w", err)
	}
	return n, nil
}

// AddSetItem inserts an entry into the set's sorted index.
func (s *Store) AddSetItem(ctx context.Context, setID string, entry store.SetEntry) error {
	query := `
		INSERT INTO set_items (set_id, item_id, ts)
		VALUES ($1, $2, $3)
		ON CONFLICT (set_id, item_id) DO UPDATE SET ts = EXCLUDED.ts
	`
	_, err := s.db.ExecContext(ctx, query, setID, entry.ItemID, entry.Timestamp.Unix())
	if err != nil {
		return fmt.Errorf("add set item: %w", err)
	}
	return nil
}

// RemoveSetItem deletes an entry from the set's sorted index.
func (s *Store) RemoveSetItem(ctx context.Context, setID, itemID string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM set_items WHERE set_id = $1 AND item_id = $2", setID, itemID)
	if err != nil {
		return fmt.Errorf("remove set item: %w", err)
	}
	return nil
}

// SetItemsRange reads a slice of the per-set index with sorted-set range
// semantics (end inclusive, negatives from the tail).
func (s *Store) SetItemsRange(ctx context.Context, setID string, start, end int) ([]store.SetEntry, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM set_items WHERE set_id = $1", setID).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("count set items: %w", err)
	}

	offset, limit, ok := rangeToWindow(start, end, count)
	if !ok {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT item_id, ts FROM set_items
		WHERE set_id = $1
		ORDER BY ts, item_id
		LIMIT $2 OFFSET $3
	`, setID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("read set items: %w", err)
	}
	defer rows.Close()

	var out []store.SetEntry
	for rows.Next() {
		var (
			entry store.SetEntry
			ts    int64
		)
		if err := rows.Scan(&entry.ItemID, &ts); err != nil {
			return nil, fmt.Errorf("scan set item: %w", err)
		}
		entry.Timestamp = time.Unix(ts, 0).UTC()
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate set items: %w", err)
	}
	return out, nil
}

// SetOfItem returns the id of the set whose index contains the item.
func (s *Store) SetOfItem(ctx context.Context, itemID string) (string, error) {
	var setID string
	err := s.db.QueryRowContext(ctx,
		"SELECT set_id FROM set_items WHERE item_id = $1", itemID).Scan(&setID)
	if err == sql.ErrNoRows {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("find set of item: %w", err)
	}
	return setID, nil
}

// rangeToWindow translates an inclusive (start, end) range with negative
// tail offsets into an OFFSET/LIMIT window over count rows. The boolean is
// false when the range selects nothing.
func rangeToWindow(start, end, count int) (offset, limit int, ok bool) {
	if count == 0 {
		return 0, 0, false
	}
	if start < 0 {
		start += count
		if start < 0 {
			start = 0
		}
	}
	if end < 0 {
		end += count
	}
	if end >= count {
		end = count - 1
	}
	if start > end || start >= count {
		return 0, 0, false
	}
	return start, end - start + 1, true
}
