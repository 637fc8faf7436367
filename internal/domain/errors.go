package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is matched by every *InvalidInputError via errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError reports malformed or out-of-range input to a pure function.
// It is always returned to the immediate caller.
type InvalidInputError struct {
	Field  string
	Value  any
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// UpstreamError wraps a timeout, non-2xx response or malformed body from an
// external data provider. It never escapes the environment provider; it is
// converted into unavailable fields plus a Diagnostic.
type UpstreamError struct {
	Provider string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s provider unavailable: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// PartialEnrichmentError marks a single record in a batch whose enrichment
// failed outright (a defect, not missing upstream data). The record is still
// returned, downgraded to fully unavailable enrichment.
type PartialEnrichmentError struct {
	RecordID string
	Err      error
}

func (e *PartialEnrichmentError) Error() string {
	return fmt.Sprintf("enrich record %q: %v", e.RecordID, e.Err)
}

func (e *PartialEnrichmentError) Unwrap() error { return e.Err }
