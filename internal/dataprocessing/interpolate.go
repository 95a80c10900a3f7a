package dataprocessing

import (
	"math"

	"dataclean/pkg/contracts/domain"
)

// Interpolate fills nulls in a numeric column by linear interpolation over
// row positions. Cells outside the first and last known value are handled
// by policy. A column with no known value is returned unchanged. When every
// known value is an integer, integral results stay integers.
func Interpolate(cells []domain.Cell, policy EdgePolicy) []domain.Cell {
	out := make([]domain.Cell, len(cells))
	copy(out, cells)

	known := make([]int, 0, len(cells))
	values := make([]float64, 0, len(cells))
	allInt := true
	for i, c := range cells {
		if c.IsNull() {
			continue
		}
		if !c.IsNumeric() {
			// not numeric; leave the column alone
			return out
		}
		known = append(known, i)
		values = append(values, c.FloatValue())
		if c.Kind() != domain.KindInt {
			allInt = false
		}
	}
	if len(known) == 0 || len(known) == len(cells) {
		return out
	}

	first, last := known[0], known[len(known)-1]

	if policy == EdgeNearest {
		for i := 0; i < first; i++ {
			out[i] = cells[first]
		}
	}
	if policy == EdgeNearest || policy == EdgeForward {
		for i := last + 1; i < len(cells); i++ {
			out[i] = cells[last]
		}
	}

	for k := 0; k+1 < len(known); k++ {
		lo, hi := known[k], known[k+1]
		if hi-lo < 2 {
			continue
		}
		y0, y1 := values[k], values[k+1]
		span := float64(hi - lo)
		for i := lo + 1; i < hi; i++ {
			v := y0 + (y1-y0)*float64(i-lo)/span
			out[i] = numericCell(v, allInt)
		}
	}
	return out
}

func numericCell(v float64, asInt bool) domain.Cell {
	if asInt && v == math.Trunc(v) && math.Abs(v) < 1<<63 {
		return domain.Int(int64(v))
	}
	return domain.Float(v)
}
