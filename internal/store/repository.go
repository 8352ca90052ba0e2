// Package store defines the persistence contract for sets and items.
// Backends only need three primitives: field-mapped records keyed by id,
// ordered structures keyed by id with a numeric score, and atomic
// single-key writes. Per-statement writes are atomic; multi-statement
// sequences are not, and no cross-entity transaction is provided.
package store

import (
	"context"
)

// SetRepository holds the global sorted index (set id scored by start) and
// the per-set sorted indexes (item id scored by item timestamp), plus the
// metadata cache for each set.
type SetRepository interface {
	// SaveSet writes the metadata record and keeps the global index in
	// step. Called as part of the same logical mutation that changed
	// membership; a stale record is a defect.
	SaveSet(ctx context.Context, rec SetRecord) error

	// GetSet reads the metadata record. Returns ErrNotFound for unknown
	// ids and a ConsistencyError when the record exists but is corrupt.
	GetSet(ctx context.Context, id string) (SetRecord, error)

	// DeleteSet removes the metadata record, the global index entry and
	// the per-set index.
	DeleteSet(ctx context.Context, id string) error

	// ListSets returns up to limit metadata records ordered by start,
	// earliest first (or latest first when desc). limit <= 0 means all.
	ListSets(ctx context.Context, limit int, desc bool) ([]SetRecord, error)

	// CountSets returns the number of sets in the global index.
	CountSets(ctx context.Context) (int, error)

	// AddSetItem inserts an entry into the set's sorted index.
	AddSetItem(ctx context.Context, setID string, entry SetEntry) error

	// RemoveSetItem deletes an entry from the set's sorted index.
	RemoveSetItem(ctx context.Context, setID, itemID string) error

	// SetItemsRange reads a slice of the set's sorted index ordered by
	// (timestamp, item id). Offsets follow sorted-set range semantics:
	// zero-based, end inclusive, negative values count from the tail, so
	// (0, -1) is the full index and (-k, -1) is the last k entries.
	SetItemsRange(ctx context.Context, setID string, start, end int) ([]SetEntry, error)

	// SetOfItem returns the id of the set whose index contains the item.
	SetOfItem(ctx context.Context, itemID string) (string, error)
}

// ItemRepository holds the per-item metadata records and the flat
// (timestamp, id) ordered listing used for cursor pagination.
type ItemRepository interface {
	SaveItem(ctx context.Context, rec ItemRecord) error
	GetItem(ctx context.Context, id string) (ItemRecord, error)
	DeleteItem(ctx context.Context, id string) error

	// HasPath reports whether an item with this path was already
	// ingested. Path is the uniqueness key at ingest time.
	HasPath(ctx context.Context, path string) (bool, error)

	CountItems(ctx context.Context) (int, error)

	// ListItems returns up to limit records ordered by (timestamp, id)
	// in the given direction, starting strictly after the cursor when
	// one is supplied. The second result reports whether more records
	// remain past the returned page.
	ListItems(ctx context.Context, limit int, after *Cursor, order Order) ([]ItemRecord, bool, error)
}

// StateRepository holds the durable load status flag.
type StateRepository interface {
	Status(ctx context.Context) (Status, error)
	SetStatus(ctx context.Context, status Status) error
}

// SuggestionRepository holds the set of previously used names, served as
// type-ahead suggestions.
type SuggestionRepository interface {
	AddSuggestion(ctx context.Context, name string) error
	Suggestions(ctx context.Context) ([]string, error)
}

// LocationRepository caches reverse-geocoded place names by coordinates.
// The geocoding call itself lives outside this system.
type LocationRepository interface {
	SaveLocation(ctx context.Context, lat, lon float64, place string) error
	Location(ctx context.Context, lat, lon float64) (string, error)
}

// Store is the full persistence surface consumed by the library layer.
type Store interface {
	SetRepository
	ItemRepository
	StateRepository
	SuggestionRepository
	LocationRepository

	// Clear wipes sets, items and the status flag. Suggestions and the
	// location cache survive when the corresponding keep flag is set.
	Clear(ctx context.Context, keepSuggestions, keepLocations bool) error
}
