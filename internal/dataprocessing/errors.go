package dataprocessing

import (
	"errors"
	"fmt"
)

// Sentinel errors for the load pipeline. The typed errors below wrap them so
// callers can match with errors.Is and inspect details with errors.As.
var (
	ErrParse   = errors.New("malformed numeric cell")
	ErrFormat  = errors.New("malformed column label")
	ErrReshape = errors.New("reshape invariant violated")
	ErrNoData  = errors.New("no data for selection")
)

// ParseError reports a cell whose residue is not a number after the thousands
// separators have been stripped.
type ParseError struct {
	Field string
	Raw   string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: field %q value %q: %v", ErrParse, e.Field, e.Raw, e.Err)
	}
	return fmt.Sprintf("%s: field %q value %q", ErrParse, e.Field, e.Raw)
}

func (e *ParseError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrParse, e.Err}
	}
	return []error{ErrParse}
}

// FormatError reports a header label that is not "<year>년_<category>".
type FormatError struct {
	Label  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %q: %s", ErrFormat, e.Label, e.Reason)
}

func (e *FormatError) Unwrap() error {
	return ErrFormat
}

// ReshapeError reports a long table that does not have exactly one row per
// (entity, label) pair.
type ReshapeError struct {
	Expected int
	Actual   int
	Reason   string
}

func (e *ReshapeError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", ErrReshape, e.Reason)
	}
	return fmt.Sprintf("%s: expected %d rows, got %d", ErrReshape, e.Expected, e.Actual)
}

func (e *ReshapeError) Unwrap() error {
	return ErrReshape
}
