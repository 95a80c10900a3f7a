package ingest

import (
	"strconv"
	"strings"

	"dataclean/pkg/contracts/domain"
)

// missingTokens are read as null from text sources
var missingTokens = map[string]struct{}{
	"":         {},
	"NA":       {},
	"N/A":      {},
	"n/a":      {},
	"NaN":      {},
	"nan":      {},
	"-NaN":     {},
	"-nan":     {},
	"NULL":     {},
	"null":     {},
	"None":     {},
	"<NA>":     {},
	"#N/A":     {},
	"#NA":      {},
	"#N/A N/A": {},
	"-1.#IND":  {},
	"1.#IND":   {},
	"-1.#QNAN": {},
	"1.#QNAN":  {},
}

// InferCell converts a text field into a typed cell: missing tokens become
// null, then integer, float and boolean parses are tried in that order.
func InferCell(raw string) domain.Cell {
	if _, missing := missingTokens[raw]; missing {
		return domain.Null()
	}
	s := strings.TrimSpace(raw)
	if s == "" {
		return domain.String(raw)
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return domain.Int(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !looksLikeWord(s) {
		return domain.Float(f)
	}
	switch s {
	case "True", "true", "TRUE":
		return domain.Bool(true)
	case "False", "false", "FALSE":
		return domain.Bool(false)
	}
	return domain.String(raw)
}

// looksLikeWord rejects spellings ParseFloat accepts but data files mean as
// text, e.g. "Infinity" or hex floats
func looksLikeWord(s string) bool {
	lower := strings.ToLower(strings.TrimLeft(s, "+-"))
	switch {
	case lower == "inf", lower == "infinity":
		return false
	case strings.HasPrefix(lower, "0x"):
		return true
	case strings.ContainsAny(lower, "abcdfghijklmnopqrstuvwxyz_"):
		return true
	}
	return false
}

// buildTable assembles a table from header and text rows, applying header
// clean-up, cell inference and numeric upcasting
func buildTable(header []string, rows [][]string) (*domain.Table, error) {
	names := uniqueNames(header)
	cells := make([][]domain.Cell, len(rows))
	for i, row := range rows {
		rc := make([]domain.Cell, len(row))
		for j, v := range row {
			rc[j] = InferCell(v)
		}
		cells[i] = rc
	}
	t, err := domain.NewTableFromRows(names, cells)
	if err != nil {
		return nil, err
	}
	return upcastFloatColumns(t)
}

// uniqueNames fills blank header names with "Unnamed: i" and de-duplicates
// repeated names as name.1, name.2, ...
func uniqueNames(header []string) []string {
	names := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		candidate := name
		for {
			n, exists := seen[candidate]
			if !exists {
				break
			}
			seen[candidate] = n + 1
			candidate = name + "." + strconv.Itoa(n+1)
		}
		seen[candidate] = 0
		names[i] = candidate
	}
	return names
}

// upcastFloatColumns converts integer cells of float64 columns to floats so a
// column has a single numeric representation
func upcastFloatColumns(t *domain.Table) (*domain.Table, error) {
	out := t
	for j := 0; j < t.NumColumns(); j++ {
		if t.ColumnType(j) != domain.TypeFloat64 {
			continue
		}
		col := t.Column(j)
		changed := false
		for i, c := range col.Cells {
			if c.Kind() == domain.KindInt {
				col.Cells[i] = domain.Float(c.FloatValue())
				changed = true
			}
		}
		if !changed {
			continue
		}
		var err error
		out, err = out.WithColumn(j, col.Cells)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
