package finviz

import (
	"errors"
	"fmt"
)

// --- Sentinel errors ---

// ErrTickerNotFound is returned when finviz reports that a ticker does not exist.
var ErrTickerNotFound = errors.New("ticker not found")

// ErrSectionMissing is returned when an optional page section is absent.
// It is distinct from a LayoutError: the section is not there at all.
var ErrSectionMissing = errors.New("section not present on page")

// ErrNoValue is returned by Normalize for the "-" placeholder finviz prints
// for missing values.
var ErrNoValue = errors.New("no value")

// ErrNotNumeric is returned by Normalize for tokens that are not numbers.
var ErrNotNumeric = errors.New("not a numeric value")

// ValidationError reports an invalid argument, detected before any I/O.
type ValidationError struct {
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

// LayoutError reports page markup that does not have the expected structure.
type LayoutError struct {
	Section string
	Reason  string
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("unexpected %s layout: %s", e.Section, e.Reason)
}

func layoutErrorf(section, format string, args ...any) *LayoutError {
	return &LayoutError{Section: section, Reason: fmt.Sprintf(format, args...)}
}

// HTTPError wraps a non-success HTTP response.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d %s: %s", e.StatusCode, e.Status, e.Body)
}
