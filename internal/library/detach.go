package library

import (
	"context"
	"fmt"
	"time"

	"github.com/mediasort/mediasort/internal/cluster"
	"github.com/mediasort/mediasort/internal/media"
	"github.com/mediasort/mediasort/internal/store"
)

// removeItemFromSet rebuilds a set from its persisted index, removes one
// item through the engine (full boundary recompute) and writes the result
// back: a shrunk metadata record, or nothing at all when the set emptied.
// Returns the removed item's timestamp.
func (s *Service) removeItemFromSet(ctx context.Context, setID, itemID string) (time.Time, error) {
	entries, err := s.store.SetItemsRange(ctx, setID, 0, -1)
	if err != nil {
		return time.Time{}, fmt.Errorf("reading set %s index: %w", setID, err)
	}
	if len(entries) == 0 {
		return time.Time{}, store.ErrNotFound
	}

	membership := make(map[string]time.Time, len(entries))
	for _, e := range entries {
		membership[e.ItemID] = e.Timestamp
	}
	removedTs, ok := membership[itemID]
	if !ok {
		return time.Time{}, store.ErrNotFound
	}

	rec, err := s.store.GetSet(ctx, setID)
	if err != nil {
		return time.Time{}, err
	}

	set, err := cluster.Restore(setID, s.gap(), membership)
	if err != nil {
		return time.Time{}, fmt.Errorf("rebuilding set %s: %w", setID, err)
	}
	set.Name = rec.Name

	if err := set.Remove(itemID); err != nil {
		return time.Time{}, fmt.Errorf("removing item %s from set %s: %w", itemID, setID, err)
	}

	if set.Length == 0 {
		// An empty set has no valid state; destroy it.
		if err := s.store.DeleteSet(ctx, setID); err != nil {
			return time.Time{}, fmt.Errorf("destroying emptied set %s: %w", setID, err)
		}
		return removedTs, nil
	}

	if err := s.store.RemoveSetItem(ctx, setID, itemID); err != nil {
		return time.Time{}, fmt.Errorf("unindexing item %s: %w", itemID, err)
	}
	if err := s.store.SaveSet(ctx, setRecord(set)); err != nil {
		return time.Time{}, fmt.Errorf("persisting shrunk set %s: %w", setID, err)
	}
	return removedTs, nil
}

// Detach removes an item from its set and gives it a set of its own: a
// fresh singleton whose boundary is [ts-gap, ts+gap]. Returns the new
// set's id.
func (s *Service) Detach(ctx context.Context, itemID, setID string) (string, error) {
	removedTs, err := s.removeItemFromSet(ctx, setID, itemID)
	if err != nil {
		return "", err
	}

	singleton := cluster.New(media.Item{ID: itemID, Timestamp: removedTs}, s.gap())
	if err := s.store.SaveSet(ctx, setRecord(singleton)); err != nil {
		return "", fmt.Errorf("persisting singleton set: %w", err)
	}
	if err := s.store.AddSetItem(ctx, singleton.ID, store.SetEntry{ItemID: itemID, Timestamp: removedTs}); err != nil {
		return "", fmt.Errorf("indexing item %s in singleton set: %w", itemID, err)
	}
	return singleton.ID, nil
}
