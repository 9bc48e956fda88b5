package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for the domain layer. These map to the error taxonomy
// (kinds, not types) used throughout the pipeline: fetchers, the
// normalizer, the Event Store, and the API all wrap one of these with
// fmt.Errorf("...: %w", err) and unwrap with errors.Is/errors.As.
var (
	// ErrSourceUnavailable indicates a fetcher-scoped failure (network,
	// HTTP >= 500, or malformed payload). Recovered locally: the
	// fetcher returns an empty batch and the enclosing tier continues.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrDuplicateURL indicates the normalizer found an existing Article
	// with the same canonicalized URL. Treated as a skip, not an error,
	// by callers above the store boundary.
	ErrDuplicateURL = errors.New("duplicate url")

	// ErrInvariantViolation indicates a store-scoped failure that aborts
	// the enclosing transaction. The tier logs it at error level and
	// continues with the next unit of work.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrTimeout is returned by any I/O operation that exceeds its
	// deadline. At a fetcher boundary it behaves like
	// ErrSourceUnavailable; at the API boundary it maps to 504.
	ErrTimeout = errors.New("timeout")

	// ErrConfigurationMissing indicates an optional configuration key is
	// absent. The affected feature degrades gracefully at startup. A
	// missing required key is fatal and does not use this sentinel.
	ErrConfigurationMissing = errors.New("configuration missing")

	// ErrNotFound is API-scoped; maps to HTTP 404.
	ErrNotFound = errors.New("not found")

	// ErrBadRequest is API-scoped; maps to HTTP 400.
	ErrBadRequest = errors.New("bad request")
)

// ValidationError represents a validation error with detailed field
// information. It implements the error interface and provides context
// about which field failed validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}
