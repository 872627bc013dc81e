package analytics

import (
	"fmt"
	"strings"
)

// SchemaError means a required column concept could not be established after
// header normalization. The user has to fix the file; the request fails.
type SchemaError struct {
	Missing []string
	Found   []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s (found: %s)",
		strings.Join(e.Missing, ", "), strings.Join(e.Found, ", "))
}

// EmptyDatasetError means zero rows survived cleaning or date filtering.
// It names the requested window against the available range so the caller
// can adjust the filter instead of guessing.
type EmptyDatasetError struct {
	Requested string
	Available string
}

func (e *EmptyDatasetError) Error() string {
	if e.Requested == "" {
		return fmt.Sprintf("no valid rows after cleaning (available range: %s)", e.Available)
	}
	return fmt.Sprintf("no data in requested range %s (available range: %s)", e.Requested, e.Available)
}

// ModelFittingError means one product's forecast fit failed. The product is
// skipped with a warning; the rest of the pipeline continues.
type ModelFittingError struct {
	SKU   string
	Stage string
	Err   error
}

func (e *ModelFittingError) Error() string {
	return fmt.Sprintf("forecast fit failed for %s at %s: %v", e.SKU, e.Stage, e.Err)
}

func (e *ModelFittingError) Unwrap() error { return e.Err }
