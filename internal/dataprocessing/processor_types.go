package dataprocessing

import (
	"errors"
	"fmt"
	"strings"

	"dataclean/pkg/contracts/domain"
)

// ErrUnknownOperation is returned by Clean for operations it does not know
var ErrUnknownOperation = errors.New("unknown cleaning operation")

// EdgePolicy decides how interpolation treats nulls before the first or
// after the last known value of a numeric column
type EdgePolicy string

const (
	// EdgeNearest fills leading nulls with the first known value and
	// trailing nulls with the last known value
	EdgeNearest EdgePolicy = "nearest"
	// EdgeForward leaves leading nulls and carries the last value forward
	EdgeForward EdgePolicy = "forward"
	// EdgeNone only fills nulls that lie between two known values
	EdgeNone EdgePolicy = "none"
)

// ParseEdgePolicy parses a policy name; the empty string means EdgeNearest
func ParseEdgePolicy(s string) (EdgePolicy, error) {
	switch p := EdgePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return EdgeNearest, nil
	case EdgeNearest, EdgeForward, EdgeNone:
		return p, nil
	default:
		return "", fmt.Errorf("unknown edge policy %q", s)
	}
}

// ProcessingOptions configures cleaning behavior
type ProcessingOptions struct {
	// EdgePolicy applies to numeric interpolation in HandleMissing
	EdgePolicy EdgePolicy
}

// DefaultOptions returns default processing options
func DefaultOptions() ProcessingOptions {
	return ProcessingOptions{
		EdgePolicy: EdgeNearest,
	}
}

// CleaningStatistics describes the effect of one cleaning run
type CleaningStatistics struct {
	Operation   domain.Operation
	RowsBefore  int
	RowsAfter   int
	CellsFilled int
}

// RowsRemoved is the number of dropped rows
func (s CleaningStatistics) RowsRemoved() int {
	return s.RowsBefore - s.RowsAfter
}
