package dataprocessing

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"dataclean/pkg/contracts/domain"
)

// Cleaner runs the cleaning operations with a fixed set of options
type Cleaner struct {
	logger  *slog.Logger
	options ProcessingOptions
}

// NewCleaner creates a cleaner; a nil logger falls back to slog.Default
func NewCleaner(logger *slog.Logger, options ProcessingOptions) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	if options.EdgePolicy == "" {
		options.EdgePolicy = EdgeNearest
	}
	return &Cleaner{
		logger:  logger.With(slog.String("component", "cleaner")),
		options: options,
	}
}

// Options returns the cleaner's options
func (c *Cleaner) Options() ProcessingOptions {
	return c.options
}

// Clean applies op to t and returns the new table with statistics.
// The source table is never modified.
func (c *Cleaner) Clean(op domain.Operation, t *domain.Table) (*domain.Table, CleaningStatistics, error) {
	stats := CleaningStatistics{Operation: op, RowsBefore: t.NumRows()}

	var out *domain.Table
	switch op {
	case domain.OpRemoveMissing:
		out = RemoveMissing(t)
	case domain.OpHandleMissing:
		out, stats.CellsFilled = handleMissing(t, c.options.EdgePolicy)
	case domain.OpRemoveDuplicates:
		out = RemoveDuplicates(t)
	case domain.OpHandleMissingRemoveDuplicates:
		var filled *domain.Table
		filled, stats.CellsFilled = handleMissing(t, c.options.EdgePolicy)
		out = RemoveDuplicates(filled)
	default:
		return nil, stats, fmt.Errorf("%w: %q", ErrUnknownOperation, op)
	}

	stats.RowsAfter = out.NumRows()
	c.logger.Debug("Cleaning operation applied",
		slog.String("operation", string(op)),
		slog.Int("rows_before", stats.RowsBefore),
		slog.Int("rows_after", stats.RowsAfter),
		slog.Int("cells_filled", stats.CellsFilled))
	return out, stats, nil
}

// RemoveMissing drops every row that has at least one null cell
func RemoveMissing(t *domain.Table) *domain.Table {
	keep := make([]int, 0, t.NumRows())
	for r := 0; r < t.NumRows(); r++ {
		complete := true
		for c := 0; c < t.NumColumns(); c++ {
			if t.Cell(r, c).IsNull() {
				complete = false
				break
			}
		}
		if complete {
			keep = append(keep, r)
		}
	}
	return t.SelectRows(keep)
}

// HandleMissing imputes nulls with EdgeNearest interpolation for numeric
// columns and the mode for text columns
func HandleMissing(t *domain.Table) *domain.Table {
	out, _ := handleMissing(t, EdgeNearest)
	return out
}

// HandleMissingWithPolicy is HandleMissing with an explicit edge policy
func HandleMissingWithPolicy(t *domain.Table, policy EdgePolicy) *domain.Table {
	out, _ := handleMissing(t, policy)
	return out
}

// RemoveDuplicates keeps the first occurrence of each distinct row
func RemoveDuplicates(t *domain.Table) *domain.Table {
	seen := make(map[string]struct{}, t.NumRows())
	keep := make([]int, 0, t.NumRows())
	for r := 0; r < t.NumRows(); r++ {
		k := rowKey(t, r)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keep = append(keep, r)
	}
	return t.SelectRows(keep)
}

// HandleMissingRemoveDuplicates runs HandleMissing then RemoveDuplicates
func HandleMissingRemoveDuplicates(t *domain.Table) *domain.Table {
	return RemoveDuplicates(HandleMissing(t))
}

func handleMissing(t *domain.Table, policy EdgePolicy) (*domain.Table, int) {
	columns := make([]domain.Column, t.NumColumns())
	filled := 0
	for j := 0; j < t.NumColumns(); j++ {
		col := t.Column(j)
		before := col.NullCount()
		if before > 0 {
			switch col.Type() {
			case domain.TypeInt64, domain.TypeFloat64:
				col.Cells = Interpolate(col.Cells, policy)
			case domain.TypeObject:
				col.Cells = FillWithMode(col.Cells)
			}
			filled += before - col.NullCount()
		}
		columns[j] = col
	}
	out, err := domain.NewTable(columns)
	if err != nil {
		// columns come from a valid table
		panic(err)
	}
	return out, filled
}

// rowKey is identical for two rows exactly when all their cells are Equal
func rowKey(t *domain.Table, r int) string {
	var b strings.Builder
	for c := 0; c < t.NumColumns(); c++ {
		k := t.Cell(r, c).Key()
		b.WriteString(strconv.Itoa(len(k)))
		b.WriteByte(':')
		b.WriteString(k)
	}
	return b.String()
}
