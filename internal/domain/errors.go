package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyQuery means the input carried no term, filter or sort.
	// Callers treat it as "no search", never as a user-facing failure.
	ErrEmptyQuery = errors.New("empty query")

	// ErrCatalogUnavailable covers transport failures and non-success statuses.
	// It is retryable by the caller.
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrNotFound is returned by detail lookups for unknown ids.
	ErrNotFound = errors.New("not found")
)

// CatalogError carries the failing operation and upstream status.
// It unwraps to one of the sentinels above.
type CatalogError struct {
	Op     string // ex: "GET /v1/machines"
	Status int    // 0 on transport failure
	Err    error
}

func (e *CatalogError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CatalogError) Unwrap() error { return e.Err }
