package store

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that a referenced set or item id is absent.
var ErrNotFound = errors.New("not found")

// ConsistencyError reports that the cached metadata for an existing set is
// missing or corrupt. It is a server-side defect, never silently defaulted.
type ConsistencyError struct {
	SetID  string
	Reason string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("set %s metadata inconsistent: %s", e.SetID, e.Reason)
}

// IsConsistency reports whether err is a ConsistencyError.
func IsConsistency(err error) bool {
	var ce *ConsistencyError
	return errors.As(err, &ce)
}
