package library

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/mediasort/mediasort/internal/cluster"
	"github.com/mediasort/mediasort/internal/store"
)

// Move actions. Save actions require a name; delete relocates into the
// configured delete directory.
const (
	ActionSaveDate   = "save_date"
	ActionSaveNoDate = "save_no_date"
	ActionDelete     = "delete"
)

// IsSaveAction reports whether the action persists under a user-chosen
// name.
func IsSaveAction(action string) bool {
	return strings.Contains(action, "save")
}

// dateDirectory renders the year/month/day directory hierarchy for a
// timestamp, e.g. 2022/2022-01/2022-01-01.
func dateDirectory(t time.Time) string {
	return t.Format("2006/2006-01/2006-01-02")
}

// Move relocates the given items. The destination directory depends on
// the action: a date-derived path (from the earliest moved timestamp)
// suffixed with the sanitized name for save_date, the name alone for
// save_no_date, the delete directory for delete. Items are removed from
// the store before the physical move so subsequent reads do not see
// already-actioned items; a failure mid-move is not rolled back.
//
// In dry-run mode the destination is computed and returned without
// touching the filesystem.
func (s *Service) Move(ctx context.Context, action string, itemIDs []string, name string, dryRun bool) (string, error) {
	switch action {
	case ActionSaveDate, ActionSaveNoDate, ActionDelete:
	default:
		return "", &ValidationError{Reason: fmt.Sprintf("unknown action %q", action)}
	}
	if len(itemIDs) == 0 {
		return "", &ValidationError{Reason: "you must provide item ids"}
	}

	clean := cluster.SanitizeName(name)
	if IsSaveAction(action) && clean == "" {
		return "", &ValidationError{Reason: "you must provide a name to save"}
	}

	// Resolve every id up front; any miss rejects the whole request.
	items := make([]store.ItemRecord, 0, len(itemIDs))
	for _, id := range itemIDs {
		rec, err := s.store.GetItem(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return "", &ValidationError{Reason: fmt.Sprintf("unknown item id %q", id)}
		}
		if err != nil {
			return "", fmt.Errorf("resolving item %s: %w", id, err)
		}
		items = append(items, rec)
	}

	earliest := items[0].Timestamp
	for _, rec := range items[1:] {
		if rec.Timestamp.Before(earliest) {
			earliest = rec.Timestamp
		}
	}

	var dir string
	switch action {
	case ActionSaveDate:
		dir = filepath.Join(s.cfg.OutputDir, dateDirectory(earliest)+" "+clean)
	case ActionSaveNoDate:
		dir = filepath.Join(s.cfg.OutputDir, clean)
	case ActionDelete:
		dir = s.cfg.DeleteDir
	}

	// Optimistic removal: drop the items from the store first so listings
	// stop handing them out while files are still in flight.
	for _, rec := range items {
		s.removeFromStore(ctx, rec)
	}

	if dryRun {
		log.Printf("moving files in dry-run mode, no changes will occur to the file system")
	} else if err := s.mkdir(dir); err != nil {
		return "", fmt.Errorf("creating destination %s: %w", dir, err)
	}

	for _, rec := range items {
		dest := filepath.Join(dir, s.uniqueName(dir, filepath.Base(rec.Path)))
		log.Printf("%s > %s", rec.Path, dest)
		if dryRun {
			continue
		}
		if err := s.rename(rec.Path, dest); err != nil {
			// Best effort: keep going so one bad file does not strand
			// the rest of the batch half-moved.
			log.Printf("warning: moving %s: %v", rec.Path, err)
		}
	}

	return dir, nil
}

// removeFromStore deletes an item record and shrinks (or destroys) the
// set that indexed it. Failures are logged, not fatal: the physical move
// still proceeds.
func (s *Service) removeFromStore(ctx context.Context, rec store.ItemRecord) {
	setID, err := s.store.SetOfItem(ctx, rec.ID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		// Item was never indexed, nothing to shrink.
	case err != nil:
		log.Printf("warning: locating set for item %s: %v", rec.ID, err)
	default:
		if _, err := s.removeItemFromSet(ctx, setID, rec.ID); err != nil {
			log.Printf("warning: removing item %s from set %s: %v", rec.ID, setID, err)
		}
	}
	if err := s.store.DeleteItem(ctx, rec.ID); err != nil {
		log.Printf("warning: deleting item %s: %v", rec.ID, err)
	}
}

// uniqueName returns filename, or filename with an incrementing numeric
// suffix before the extension, whichever is first to not exist in dir.
func (s *Service) uniqueName(dir, filename string) string {
	candidate := filename
	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)
	for n := 0; s.exists(filepath.Join(dir, candidate)); n++ {
		candidate = fmt.Sprintf("%s-%04d%s", stem, n, ext)
	}
	return candidate
}

func (s *Service) exists(path string) bool {
	_, err := s.stat(path)
	return err == nil
}
