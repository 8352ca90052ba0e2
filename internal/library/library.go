// Package library implements the application services on top of the
// cluster engine and the store: the load pipeline, the query surface and
// the mutations (detach, move).
package library

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mediasort/mediasort/internal/config"
	"github.com/mediasort/mediasort/internal/store"
)

// ErrLoadInProgress is returned when a populate is requested while another
// load is still running.
var ErrLoadInProgress = errors.New("a load is already in progress")

// ValidationError reports a rejected request with a human-readable reason.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// StaleFileError reports that a persisted item's path no longer resolves.
// Readers drop the item from the result and continue.
type StaleFileError struct {
	ItemID string
	Path   string
}

func (e *StaleFileError) Error() string {
	return fmt.Sprintf("item %s: file has gone away: %s", e.ItemID, e.Path)
}

// Service exposes the load pipeline, queries and mutations. Sets are
// logically owned by whichever operation currently mutates them; two
// concurrent mutations on the same set can race and lose one update. That
// gap is inherited from the original design and deliberately not papered
// over with locking.
type Service struct {
	store store.Store
	cfg   *config.Config

	// Swappable filesystem hooks so tests can run without touching disk.
	stat   func(string) (os.FileInfo, error)
	rename func(src, dst string) error
	mkdir  func(dir string) error
}

// New creates a service over the given store and configuration.
func New(st store.Store, cfg *config.Config) *Service {
	return &Service{
		store:  st,
		cfg:    cfg,
		stat:   os.Stat,
		rename: os.Rename,
		mkdir:  func(dir string) error { return os.MkdirAll(dir, 0o755) },
	}
}

// WithFS overrides the filesystem hooks and returns the service. Intended
// for tests in other packages that must not touch disk.
func (s *Service) WithFS(
	stat func(string) (os.FileInfo, error),
	rename func(src, dst string) error,
	mkdir func(dir string) error,
) *Service {
	s.stat = stat
	s.rename = rename
	s.mkdir = mkdir
	return s
}

// gap returns the configured clustering window.
func (s *Service) gap() time.Duration {
	return s.cfg.Gap()
}

