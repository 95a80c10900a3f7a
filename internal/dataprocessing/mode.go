package dataprocessing

import (
	"dataclean/pkg/contracts/domain"
)

// Mode returns the most frequent non-null cell. Ties go to the smallest tied
// value under Cell.Compare. ok is false when every cell is null.
func Mode(cells []domain.Cell) (mode domain.Cell, ok bool) {
	counts := make(map[string]int)
	reps := make(map[string]domain.Cell)
	for _, c := range cells {
		if c.IsNull() {
			continue
		}
		k := c.Key()
		if _, seen := reps[k]; !seen {
			reps[k] = c
		}
		counts[k]++
	}

	best := 0
	for k, n := range counts {
		c := reps[k]
		if n > best || (n == best && c.Compare(mode) < 0) {
			mode, best = c, n
		}
	}
	return mode, best > 0
}

// FillWithMode replaces nulls with the column mode. Columns without a
// non-null cell are returned unchanged.
func FillWithMode(cells []domain.Cell) []domain.Cell {
	out := make([]domain.Cell, len(cells))
	copy(out, cells)
	mode, ok := Mode(cells)
	if !ok {
		return out
	}
	for i, c := range out {
		if c.IsNull() {
			out[i] = mode
		}
	}
	return out
}
