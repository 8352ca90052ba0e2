// Package media defines the media item model and the sources that produce
// items from the filesystem. Metadata extraction (EXIF and friends) is
// pluggable; the package only requires something that can turn a path into
// a capture timestamp.
package media

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Coordinates is an optional GPS position attached to an item.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Item represents a single photo or video. Items are immutable after
// creation; identity is the ID, uniqueness is enforced by path at ingest.
type Item struct {
	ID          string
	Path        string
	Timestamp   time.Time
	Coordinates *Coordinates
}

// NewItem creates an item with a fresh id. Timestamps are truncated to
// second precision so that a value survives a store round trip unchanged.
func NewItem(path string, ts time.Time, coords *Coordinates) Item {
	return Item{
		ID:          uuid.NewString(),
		Path:        path,
		Timestamp:   ts.Truncate(time.Second),
		Coordinates: coords,
	}
}

// SourceReadError reports that metadata extraction failed for a single
// path. Consumers skip the item and continue.
type SourceReadError struct {
	Path string
	Err  error
}

func (e *SourceReadError) Error() string {
	return fmt.Sprintf("reading media metadata from %s: %v", e.Path, e.Err)
}

func (e *SourceReadError) Unwrap() error { return e.Err }

// Source is a lazy, finite, non-restartable sequence of media items.
// Next returns io.EOF when the sequence is exhausted and *SourceReadError
// when a single item could not be read; any other error is fatal to the
// scan.
type Source interface {
	Next() (Item, error)
}
