package library

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/mediasort/mediasort/internal/cluster"
	"github.com/mediasort/mediasort/internal/media"
	"github.com/mediasort/mediasort/internal/store"
)

// setRecord converts the engine's view of a set into the persisted
// metadata record.
func setRecord(s *cluster.Set) store.SetRecord {
	return store.SetRecord{
		ID:     s.ID,
		Name:   s.Name,
		Start:  s.Start,
		End:    s.End,
		Length: s.Length,
	}
}

// Populate drains the source through the cluster engine and commits each
// (item, set) pair to the store before moving to the next item. The
// working candidate list starts empty: the caller must clear previously
// persisted state first, or items are double-counted into inconsistent
// sets.
//
// Per-item extraction failures are logged and skipped. Any other failure
// aborts the load; there is no partial restart.
func (s *Service) Populate(ctx context.Context, src media.Source) error {
	status, err := s.store.Status(ctx)
	if err != nil {
		return fmt.Errorf("reading load status: %w", err)
	}
	if status == store.StatusLoading {
		return ErrLoadInProgress
	}
	if err := s.store.SetStatus(ctx, store.StatusLoading); err != nil {
		return fmt.Errorf("marking load started: %w", err)
	}

	if err := s.drain(ctx, src); err != nil {
		// The load failed outright. Reset the flag so a later clear and
		// reload is not locked out.
		if stErr := s.store.SetStatus(ctx, store.StatusIdle); stErr != nil {
			log.Printf("resetting load status after failure: %v", stErr)
		}
		return err
	}

	if err := s.store.SetStatus(ctx, store.StatusDone); err != nil {
		return fmt.Errorf("marking load done: %w", err)
	}
	return nil
}

func (s *Service) drain(ctx context.Context, src media.Source) error {
	var sets []*cluster.Set
	gap := s.gap()

	for {
		item, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		var readErr *media.SourceReadError
		if errors.As(err, &readErr) {
			log.Printf("warning: unable to add file: %v", readErr)
			continue
		}
		if err != nil {
			return fmt.Errorf("reading source: %w", err)
		}

		exists, err := s.store.HasPath(ctx, item.Path)
		if err != nil {
			return fmt.Errorf("checking path uniqueness: %w", err)
		}
		if exists {
			log.Printf("warning: skipping duplicate path: %s", item.Path)
			continue
		}

		var set *cluster.Set
		set, sets = cluster.Upsert(item, sets, gap)

		// Commit the pair: set metadata and global index, per-set index,
		// item metadata. All four belong to one logical mutation.
		if err := s.store.SaveSet(ctx, setRecord(set)); err != nil {
			return fmt.Errorf("persisting set %s: %w", set.ID, err)
		}
		if err := s.store.AddSetItem(ctx, set.ID, store.SetEntry{ItemID: item.ID, Timestamp: item.Timestamp}); err != nil {
			return fmt.Errorf("indexing item %s in set %s: %w", item.ID, set.ID, err)
		}
		if err := s.store.SaveItem(ctx, store.ItemRecord{ID: item.ID, Path: item.Path, Timestamp: item.Timestamp}); err != nil {
			return fmt.Errorf("persisting item %s: %w", item.ID, err)
		}
	}

	log.Printf("load finished: %d sets", len(sets))
	return nil
}

// PopulateAsync starts a load in the background. Callers observe progress
// by polling the durable status flag; there is no completion callback.
func (s *Service) PopulateAsync(src media.Source) {
	go func() {
		if err := s.Populate(context.Background(), src); err != nil {
			log.Printf("background load failed: %v", err)
		}
	}()
}

// Clear wipes the persisted state so a fresh load can run. Suggestions and
// cached locations survive according to configuration.
func (s *Service) Clear(ctx context.Context) error {
	return s.store.Clear(ctx, s.cfg.KeepSuggestions, s.cfg.KeepLocations)
}

// Status reads the durable load status flag.
func (s *Service) Status(ctx context.Context) (store.Status, error) {
	return s.store.Status(ctx)
}
