package ingest

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat is wrapped by FormatError for unknown extensions
var ErrUnsupportedFormat = errors.New("unsupported format")

// ErrNoColumns is returned for inputs without a header
var ErrNoColumns = errors.New("no columns to parse from file")

// FormatError reports an input that could not be turned into a Table.
// It is the only error ingestion returns.
type FormatError struct {
	Filename string
	Format   Format
	Err      error
}

// Error implements the error interface
func (e *FormatError) Error() string {
	if errors.Is(e.Err, ErrUnsupportedFormat) {
		return ErrUnsupportedFormat.Error()
	}
	if e.Format == "" {
		return fmt.Sprintf("error reading file: %v", e.Err)
	}
	return fmt.Sprintf("error reading %s file: %v", e.Format, e.Err)
}

// Unwrap allows errors.Is and errors.As to see the cause
func (e *FormatError) Unwrap() error {
	return e.Err
}

// IsFormatError reports whether err is or wraps a FormatError
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}
