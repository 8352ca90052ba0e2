package library

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/mediasort/mediasort/internal/store"
)

// SetDetail is a set's cached metadata plus a materialized slice of its
// items.
type SetDetail struct {
	store.SetRecord
	Items []store.ItemRecord
}

// ItemPage is one page of the flat item listing.
type ItemPage struct {
	Items      []store.ItemRecord
	NextCursor *store.Cursor
	HasMore    bool
}

// ListSets returns up to limit set summaries ordered earliest first. The
// summaries come straight from the metadata cache; nothing is refolded
// from items.
func (s *Service) ListSets(ctx context.Context, limit int) ([]store.SetRecord, error) {
	if limit <= 0 {
		limit = s.cfg.SetsShown
	}
	return s.store.ListSets(ctx, limit, false)
}

// GetSet returns a set's metadata and the items in the index range
// (start, end). Range offsets follow sorted-set semantics, so (0, -1) is
// the whole set and (-k, -1) the last k items.
func (s *Service) GetSet(ctx context.Context, id string, start, end int) (*SetDetail, error) {
	rec, err := s.store.GetSet(ctx, id)
	if err != nil {
		return nil, err
	}

	entries, err := s.store.SetItemsRange(ctx, id, start, end)
	if err != nil {
		return nil, fmt.Errorf("reading set %s index: %w", id, err)
	}

	return &SetDetail{SetRecord: rec, Items: s.materialize(ctx, entries)}, nil
}

// TopTail returns a set's metadata with only the first and last limit
// items materialized: a preview of a potentially large set without
// touching its full membership.
func (s *Service) TopTail(ctx context.Context, id string, limit int) (*SetDetail, error) {
	if limit <= 0 {
		limit = s.cfg.SummaryItems
	}
	rec, err := s.store.GetSet(ctx, id)
	if err != nil {
		return nil, err
	}

	head, err := s.store.SetItemsRange(ctx, id, 0, limit-1)
	if err != nil {
		return nil, fmt.Errorf("reading set %s head: %w", id, err)
	}
	tail, err := s.store.SetItemsRange(ctx, id, -limit, -1)
	if err != nil {
		return nil, fmt.Errorf("reading set %s tail: %w", id, err)
	}

	seen := make(map[string]bool, len(head)+len(tail))
	var entries []store.SetEntry
	for _, e := range append(head, tail...) {
		if seen[e.ItemID] {
			continue
		}
		seen[e.ItemID] = true
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Timestamp.Equal(entries[j].Timestamp) {
			return entries[i].Timestamp.Before(entries[j].Timestamp)
		}
		return entries[i].ItemID < entries[j].ItemID
	})

	return &SetDetail{SetRecord: rec, Items: s.materialize(ctx, entries)}, nil
}

// materialize resolves index entries into item records. An entry whose
// record is missing, or whose file no longer resolves on disk, is dropped
// from the result and logged; one bad item never fails the whole read.
func (s *Service) materialize(ctx context.Context, entries []store.SetEntry) []store.ItemRecord {
	items := make([]store.ItemRecord, 0, len(entries))
	for _, e := range entries {
		rec, err := s.store.GetItem(ctx, e.ItemID)
		if errors.Is(err, store.ErrNotFound) {
			log.Printf("warning: skipping unknown item %s in set index", e.ItemID)
			continue
		}
		if err != nil {
			log.Printf("warning: skipping item %s: %v", e.ItemID, err)
			continue
		}
		if _, err := s.stat(rec.Path); err != nil {
			if os.IsNotExist(err) {
				log.Printf("warning: %v", &StaleFileError{ItemID: rec.ID, Path: rec.Path})
				continue
			}
			log.Printf("warning: skipping item %s: %v", rec.ID, err)
			continue
		}
		items = append(items, rec)
	}
	return items
}

// ListItems pages through every item ordered by (timestamp, id). The page
// size is clamped to the configured maximum; order defaults to ascending.
func (s *Service) ListItems(ctx context.Context, limit int, after *store.Cursor, order store.Order) (*ItemPage, error) {
	if limit <= 0 {
		limit = s.cfg.ItemsPerPage
	}
	if limit > s.cfg.MaxItems {
		limit = s.cfg.MaxItems
	}
	switch order {
	case "":
		order = store.OrderAsc
	case store.OrderAsc, store.OrderDesc:
	default:
		return nil, &ValidationError{Reason: fmt.Sprintf("unknown order %q", order)}
	}

	items, hasMore, err := s.store.ListItems(ctx, limit, after, order)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}

	page := &ItemPage{Items: items, HasMore: hasMore}
	if hasMore && len(items) > 0 {
		last := items[len(items)-1]
		page.NextCursor = &store.Cursor{Timestamp: last.Timestamp, ID: last.ID}
	}
	return page, nil
}

// Counts returns the number of stored items and sets.
func (s *Service) Counts(ctx context.Context) (items, sets int, err error) {
	items, err = s.store.CountItems(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("counting items: %w", err)
	}
	sets, err = s.store.CountSets(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("counting sets: %w", err)
	}
	return items, sets, nil
}

// Suggestions lists previously used set names.
func (s *Service) Suggestions(ctx context.Context) ([]string, error) {
	return s.store.Suggestions(ctx)
}

// AddSuggestion records a name for type-ahead.
func (s *Service) AddSuggestion(ctx context.Context, name string) error {
	return s.store.AddSuggestion(ctx, name)
}
