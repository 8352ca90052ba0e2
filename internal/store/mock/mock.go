// Package mock provides an in-memory implementation of the store contract
// for testing. It mirrors the ordering semantics of the real backend and
// supports per-method error injection.
package mock

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mediasort/mediasort/internal/store"
)

type locationKey struct {
	lat float64
	lon float64
}

// Store is an in-memory store.Store. The zero value is not usable; create
// instances with New.
type Store struct {
	mu          sync.RWMutex
	sets        map[string]store.SetRecord
	setItems    map[string]map[string]time.Time // set id -> item id -> ts
	items       map[string]store.ItemRecord
	status      store.Status
	suggestions map[string]struct{}
	locations   map[locationKey]string

	// Error injection
	SaveSetError    error
	GetSetError     error
	ListSetsError   error
	SaveItemError   error
	GetItemError    error
	ListItemsError  error
	SetStatusError  error
	StatusError     error
	SuggestionError error
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		sets:        make(map[string]store.SetRecord),
		setItems:    make(map[string]map[string]time.Time),
		items:       make(map[string]store.ItemRecord),
		status:      store.StatusIdle,
		suggestions: make(map[string]struct{}),
		locations:   make(map[locationKey]string),
	}
}

// SaveSet upserts a set metadata record.
func (m *Store) SaveSet(ctx context.Context, rec store.SetRecord) error {
	if m.SaveSetError != nil {
		return m.SaveSetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets[rec.ID] = rec
	return nil
}

// GetSet reads a set metadata record.
func (m *Store) GetSet(ctx context.Context, id string) (store.SetRecord, error) {
	if m.GetSetError != nil {
		return store.SetRecord{}, m.GetSetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.sets[id]
	if !ok {
		return store.SetRecord{}, store.ErrNotFound
	}
	if rec.Length <= 0 || rec.Start.IsZero() || rec.End.Before(rec.Start) {
		return store.SetRecord{}, &store.ConsistencyError{SetID: id, Reason: "cached metadata is corrupt"}
	}
	return rec, nil
}

// DeleteSet removes a set record and its index.
func (m *Store) DeleteSet(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sets, id)
	delete(m.setItems, id)
	return nil
}

// ListSets returns set records ordered by (start, id).
func (m *Store) ListSets(ctx context.Context, limit int, desc bool) ([]store.SetRecord, error) {
	if m.ListSetsError != nil {
		return nil, m.ListSetsError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]store.SetRecord, 0, len(m.sets))
	for _, rec := range m.sets {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			if desc {
				return out[i].Start.After(out[j].Start)
			}
			return out[i].Start.Before(out[j].Start)
		}
		if desc {
			return out[i].ID > out[j].ID
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// CountSets returns the number of stored sets.
func (m *Store) CountSets(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sets), nil
}

// AddSetItem inserts an entry into a set's index.
func (m *Store) AddSetItem(ctx context.Context, setID string, entry store.SetEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx, ok := m.setItems[setID]
	if !ok {
		idx = make(map[string]time.Time)
		m.setItems[setID] = idx
	}
	idx[entry.ItemID] = entry.Timestamp
	return nil
}

// RemoveSetItem deletes an entry from a set's index.
func (m *Store) RemoveSetItem(ctx context.Context, setID, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if idx, ok := m.setItems[setID]; ok {
		delete(idx, itemID)
	}
	return nil
}

// SetItemsRange reads a slice of a set's index with sorted-set range
// semantics (end inclusive, negatives from the tail).
func (m *Store) SetItemsRange(ctx context.Context, setID string, start, end int) ([]store.SetEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	idx := m.setItems[setID]
	entries := make([]store.SetEntry, 0, len(idx))
	for itemID, ts := range idx {
		entries = append(entries, store.SetEntry{ItemID: itemID, Timestamp: ts})
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Timestamp.Equal(entries[j].Timestamp) {
			return entries[i].Timestamp.Before(entries[j].Timestamp)
		}
		return entries[i].ItemID < entries[j].ItemID
	})

	count := len(entries)
	if count == 0 {
		return nil, nil
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
		return nil, nil
	}
	return entries[start : end+1], nil
}

// SetOfItem returns the id of the set whose index contains the item.
func (m *Store) SetOfItem(ctx context.Context, itemID string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for setID, idx := range m.setItems {
		if _, ok := idx[itemID]; ok {
			return setID, nil
		}
	}
	return "", store.ErrNotFound
}

// SaveItem upserts an item metadata record.
func (m *Store) SaveItem(ctx context.Context, rec store.ItemRecord) error {
	if m.SaveItemError != nil {
		return m.SaveItemError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[rec.ID] = rec
	return nil
}

// GetItem reads an item metadata record.
func (m *Store) GetItem(ctx context.Context, id string) (store.ItemRecord, error) {
	if m.GetItemError != nil {
		return store.ItemRecord{}, m.GetItemError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.items[id]
	if !ok {
		return store.ItemRecord{}, store.ErrNotFound
	}
	return rec, nil
}

// DeleteItem removes an item metadata record.
func (m *Store) DeleteItem(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

// HasPath reports whether any stored item has this path.
func (m *Store) HasPath(ctx context.Context, path string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, rec := range m.items {
		if rec.Path == path {
			return true, nil
		}
	}
	return false, nil
}

// CountItems returns the number of stored items.
func (m *Store) CountItems(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items), nil
}

// ListItems pages through items ordered by (timestamp, id).
func (m *Store) ListItems(ctx context.Context, limit int, after *store.Cursor, order store.Order) ([]store.ItemRecord, bool, error) {
	if m.ListItemsError != nil {
		return nil, false, m.ListItemsError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]store.ItemRecord, 0, len(m.items))
	for _, rec := range m.items {
		all = append(all, rec)
	}
	desc := order == store.OrderDesc
	sort.Slice(all, func(i, j int) bool {
		if !all[i].Timestamp.Equal(all[j].Timestamp) {
			if desc {
				return all[i].Timestamp.After(all[j].Timestamp)
			}
			return all[i].Timestamp.Before(all[j].Timestamp)
		}
		if desc {
			return all[i].ID > all[j].ID
		}
		return all[i].ID < all[j].ID
	})

	var out []store.ItemRecord
	for _, rec := range all {
		if after != nil && !afterCursor(rec, after, desc) {
			continue
		}
		out = append(out, rec)
		if len(out) > limit {
			break
		}
	}

	hasMore := len(out) > limit
	if hasMore {
		out = out[:limit]
	}
	return out, hasMore, nil
}

// afterCursor reports whether rec sorts strictly past the cursor in the
// listing direction.
func afterCursor(rec store.ItemRecord, c *store.Cursor, desc bool) bool {
	if desc {
		if rec.Timestamp.Before(c.Timestamp) {
			return true
		}
		return rec.Timestamp.Equal(c.Timestamp) && rec.ID < c.ID
	}
	if rec.Timestamp.After(c.Timestamp) {
		return true
	}
	return rec.Timestamp.Equal(c.Timestamp) && rec.ID > c.ID
}

// Status reads the load status flag.
func (m *Store) Status(ctx context.Context) (store.Status, error) {
	if m.StatusError != nil {
		return "", m.StatusError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status, nil
}

// SetStatus writes the load status flag.
func (m *Store) SetStatus(ctx context.Context, status store.Status) error {
	if m.SetStatusError != nil {
		return m.SetStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = status
	return nil
}

// AddSuggestion records a used name.
func (m *Store) AddSuggestion(ctx context.Context, name string) error {
	if m.SuggestionError != nil {
		return m.SuggestionError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.suggestions[name] = struct{}{}
	return nil
}

// Suggestions lists recorded names in alphabetical order.
func (m *Store) Suggestions(ctx context.Context) ([]string, error) {
	if m.SuggestionError != nil {
		return nil, m.SuggestionError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.suggestions))
	for name := range m.suggestions {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

// SaveLocation caches a place name for coordinates.
func (m *Store) SaveLocation(ctx context.Context, lat, lon float64, place string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locations[locationKey{lat, lon}] = place
	return nil
}

// Location reads a cached place name.
func (m *Store) Location(ctx context.Context, lat, lon float64) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	place, ok := m.locations[locationKey{lat, lon}]
	if !ok {
		return "", store.ErrNotFound
	}
	return place, nil
}

// Clear wipes sets, items and status; suggestions and locations survive
// when the corresponding keep flag is set.
func (m *Store) Clear(ctx context.Context, keepSuggestions, keepLocations bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets = make(map[string]store.SetRecord)
	m.setItems = make(map[string]map[string]time.Time)
	m.items = make(map[string]store.ItemRecord)
	m.status = store.StatusIdle
	if !keepSuggestions {
		m.suggestions = make(map[string]struct{})
	}
	if !keepLocations {
		m.locations = make(map[locationKey]string)
	}
	return nil
}
