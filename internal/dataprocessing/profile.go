package dataprocessing

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"text/tabwriter"

	"dataclean/pkg/contracts/domain"
)

// DefaultPreviewRows is the number of rows a profile previews
const DefaultPreviewRows = 10

// Profiler computes descriptive profiles of tables
type Profiler struct {
	logger      *slog.Logger
	previewRows int
}

// ProfilerConfig holds configuration options for the Profiler
type ProfilerConfig struct {
	PreviewRows int // rows included in Profile.Preview
}

// NewProfiler creates a profiler with the given configuration
func NewProfiler(logger *slog.Logger, config ProfilerConfig) *Profiler {
	if logger == nil {
		logger = slog.Default()
	}
	if config.PreviewRows <= 0 {
		config.PreviewRows = DefaultPreviewRows
	}
	return &Profiler{
		logger:      logger.With(slog.String("component", "profiler")),
		previewRows: config.PreviewRows,
	}
}

// Profile builds the profile of t
func (p *Profiler) Profile(t *domain.Table) domain.Profile {
	prof := domain.Profile{
		RowCount:      t.NumRows(),
		ColumnCount:   t.NumColumns(),
		Columns:       make([]domain.ColumnProfile, t.NumColumns()),
		DuplicateRows: DuplicateRowCount(t),
		Preview:       t.Head(p.previewRows),
	}
	for j := 0; j < t.NumColumns(); j++ {
		col := t.Column(j)
		cp := domain.ColumnProfile{
			Name:          col.Name,
			Type:          col.Type(),
			NullCount:     col.NullCount(),
			DistinctCount: distinctCount(col.Cells),
		}
		prof.Columns[j] = cp
		prof.TotalNulls += cp.NullCount
	}
	prof.Summary = Summary(prof)

	p.logger.Debug("Profile computed",
		slog.Int("rows", prof.RowCount),
		slog.Int("columns", prof.ColumnCount),
		slog.Int("total_nulls", prof.TotalNulls),
		slog.Int("duplicate_rows", prof.DuplicateRows))
	return prof
}

// ProfileTable profiles t with the default preview size
func ProfileTable(t *domain.Table) domain.Profile {
	return NewProfiler(nil, ProfilerConfig{}).Profile(t)
}

// DuplicateRowCount counts rows equal to an earlier row
func DuplicateRowCount(t *domain.Table) int {
	seen := make(map[string]struct{}, t.NumRows())
	dups := 0
	for r := 0; r < t.NumRows(); r++ {
		k := rowKey(t, r)
		if _, ok := seen[k]; ok {
			dups++
			continue
		}
		seen[k] = struct{}{}
	}
	return dups
}

func distinctCount(cells []domain.Cell) int {
	seen := make(map[string]struct{})
	for _, c := range cells {
		if !c.IsNull() {
			seen[c.Key()] = struct{}{}
		}
	}
	return len(seen)
}

// Summary renders the type and shape overview of a profile
func Summary(p domain.Profile) string {
	var b strings.Builder
	if p.RowCount == 0 {
		b.WriteString("Index: 0 entries\n")
	} else {
		fmt.Fprintf(&b, "Index: %d entries, 0 to %d\n", p.RowCount, p.RowCount-1)
	}
	fmt.Fprintf(&b, "Data columns (total %d columns):\n", p.ColumnCount)

	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, " #\tColumn\tNon-Null Count\tType")
	fmt.Fprintln(tw, "---\t------\t--------------\t----")
	tally := make(map[domain.ColumnType]int)
	for i, c := range p.Columns {
		fmt.Fprintf(tw, " %d\t%s\t%d non-null\t%s\n", i, c.Name, p.RowCount-c.NullCount, c.Type)
		tally[c.Type]++
	}
	_ = tw.Flush()

	types := make([]string, 0, len(tally))
	for typ := range tally {
		types = append(types, string(typ))
	}
	sort.Strings(types)
	parts := make([]string, len(types))
	for i, typ := range types {
		parts[i] = fmt.Sprintf("%s(%d)", typ, tally[domain.ColumnType(typ)])
	}
	fmt.Fprintf(&b, "types: %s\n", strings.Join(parts, ", "))
	return b.String()
}
