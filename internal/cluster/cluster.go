// Package cluster implements the temporal grouping engine. Items whose
// timestamps are transitively within a configurable gap of each other end
// up in the same set. Boundaries grow eagerly on insert and are fully
// recomputed on removal, since they cannot be shrunk incrementally.
package cluster

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/mediasort/mediasort/internal/media"
)

// ErrItemNotInSet is returned by Remove when the item id is not a member.
var ErrItemNotInSet = errors.New("item is not a member of the set")

// ErrEmptySet is returned when restoring a set with no members.
var ErrEmptySet = errors.New("a set must contain at least one item")

// Set is a group of items considered one event. Start/End is the tight
// span covered by the members; BoundaryStart/BoundaryEnd is the tolerant
// acceptance range [Start-Gap, End+Gap] that an incoming timestamp must
// fall strictly inside.
type Set struct {
	ID     string
	Gap    time.Duration
	Name   string
	Length int

	Start         time.Time
	End           time.Time
	BoundaryStart time.Time
	BoundaryEnd   time.Time

	items map[string]time.Time
}

// New creates a singleton set around item.
func New(item media.Item, gap time.Duration) *Set {
	s := &Set{
		ID:    uuid.NewString(),
		Gap:   gap,
		items: make(map[string]time.Time, 1),
	}
	s.Add(item)
	return s
}

// Restore rebuilds a set from persisted membership, keeping its id. The
// boundary fold is seeded from the first entry, so the result is exactly
// what repeated Add calls produced originally.
func Restore(id string, gap time.Duration, entries map[string]time.Time) (*Set, error) {
	if len(entries) == 0 {
		return nil, ErrEmptySet
	}
	s := &Set{
		ID:    id,
		Gap:   gap,
		items: make(map[string]time.Time, len(entries)),
	}
	for itemID, ts := range entries {
		s.items[itemID] = ts
	}
	s.recalculate()
	return s, nil
}

// Fits reports whether a timestamp falls strictly inside the boundary.
// A timestamp equal to either boundary is rejected.
func (s *Set) Fits(ts time.Time) bool {
	return ts.After(s.BoundaryStart) && ts.Before(s.BoundaryEnd)
}

// Contains reports whether the item id is a member.
func (s *Set) Contains(itemID string) bool {
	_, ok := s.items[itemID]
	return ok
}

// Add inserts the item and grows the span and boundary monotonically.
func (s *Set) Add(item media.Item) {
	if s.Length == 0 {
		s.Start = item.Timestamp
		s.End = item.Timestamp
		s.BoundaryStart = item.Timestamp
		s.BoundaryEnd = item.Timestamp
	}
	s.items[item.ID] = item.Timestamp
	s.adjust(item.Timestamp)
}

// adjust widens the boundary and span for one timestamp and refreshes the
// cached length.
func (s *Set) adjust(ts time.Time) {
	if bs := ts.Add(-s.Gap); bs.Before(s.BoundaryStart) {
		s.BoundaryStart = bs
	}
	if be := ts.Add(s.Gap); be.After(s.BoundaryEnd) {
		s.BoundaryEnd = be
	}
	if ts.Before(s.Start) {
		s.Start = ts
	}
	if ts.After(s.End) {
		s.End = ts
	}
	s.Length = len(s.items)
}

// Remove deletes the item and recomputes span and boundary from the
// remaining membership. Boundaries only ever grow on insert, so removal
// has to refold every remaining timestamp; this is O(n) by design. A set
// left empty has no valid state and must be destroyed by the caller.
func (s *Set) Remove(itemID string) error {
	if _, ok := s.items[itemID]; !ok {
		return ErrItemNotInSet
	}
	delete(s.items, itemID)
	s.Length = len(s.items)
	if s.Length == 0 {
		return nil
	}
	s.recalculate()
	return nil
}

// recalculate refolds span and boundary over current membership. The seed
// is the timestamp of the lexically smallest item id, which makes the
// transient state deterministic; the final values do not depend on the
// seed choice.
func (s *Set) recalculate() {
	ids := make([]string, 0, len(s.items))
	for id := range s.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	seed := s.items[ids[0]]
	s.Start = seed
	s.End = seed
	s.BoundaryStart = seed
	s.BoundaryEnd = seed
	for _, id := range ids {
		s.adjust(s.items[id])
	}
}

// Items returns a copy of the membership (item id to timestamp).
func (s *Set) Items() map[string]time.Time {
	out := make(map[string]time.Time, len(s.items))
	for id, ts := range s.items {
		out[id] = ts
	}
	return out
}

// Equal reports whether two sets hold the same items with the same
// timestamps. It is a membership comparison, not an identity one.
func (s *Set) Equal(other *Set) bool {
	if s.Length != other.Length {
		return false
	}
	for id, ts := range s.items {
		ots, ok := other.items[id]
		if !ok || !ts.Equal(ots) {
			return false
		}
	}
	return true
}

// Validate checks the boundary invariants: every member timestamp lies
// strictly inside the boundary, and span and boundary are exactly what a
// refold over current membership produces. A failure indicates a logic
// defect in the engine.
func (s *Set) Validate() error {
	if s.Length != len(s.items) {
		return fmt.Errorf("set %s: cached length %d, actual %d", s.ID, s.Length, len(s.items))
	}
	for id, ts := range s.items {
		if !s.Fits(ts) {
			return fmt.Errorf("set %s: item %s at %s outside boundary [%s, %s]",
				s.ID, id, ts, s.BoundaryStart, s.BoundaryEnd)
		}
	}
	want, err := Restore(s.ID, s.Gap, s.items)
	if err != nil {
		return err
	}
	if !s.Start.Equal(want.Start) || !s.End.Equal(want.End) ||
		!s.BoundaryStart.Equal(want.BoundaryStart) || !s.BoundaryEnd.Equal(want.BoundaryEnd) {
		return fmt.Errorf("set %s: span/boundary not re-derivable from membership", s.ID)
	}
	return nil
}

// Upsert places the item into the first candidate it fits, scanning in
// ascending-start order, or creates a new singleton set when none fits.
// First fit, not nearest fit: with overlapping boundaries the earliest-
// starting set wins, and callers depend on that tie-break. The returned
// slice is re-sorted by start, since an insert can move a set's start
// earlier.
func Upsert(item media.Item, sets []*Set, gap time.Duration) (*Set, []*Set) {
	var target *Set
	for _, s := range sets {
		if s.Fits(item.Timestamp) {
			target = s
			break
		}
	}
	if target != nil {
		target.Add(item)
	} else {
		target = New(item, gap)
		sets = append(sets, target)
	}
	sort.Slice(sets, func(i, j int) bool { return sets[i].Start.Before(sets[j].Start) })
	return target, sets
}
