package store

import (
	"time"
)

// SetRecord is the cached metadata for a set. It is rewritten as part of
// every mutation that changes membership; readers that need start/end/
// length use this record instead of refolding the items.
type SetRecord struct {
	ID     string
	Name   string
	Start  time.Time
	End    time.Time
	Length int
}

// SetEntry is a row of a per-set sorted index: an item id scored by the
// item's timestamp.
type SetEntry struct {
	ItemID    string
	Timestamp time.Time
}

// ItemRecord is the persisted metadata for a media item, sufficient to
// reconstruct it without re-reading the file's embedded metadata.
type ItemRecord struct {
	ID        string
	Path      string
	Timestamp time.Time
}

// Order selects the direction of a flat item listing.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// Cursor marks a pagination position in the flat item listing, which is
// totally ordered by (timestamp, id).
type Cursor struct {
	Timestamp time.Time `json:"timestamp"`
	ID        string    `json:"id"`
}

// Status is the durable state of the load pipeline.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusDone    Status = "done"
)
