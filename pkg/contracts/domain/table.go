package domain

import (
	"errors"
	"fmt"
)

// Table errors
var (
	ErrDuplicateColumn = errors.New("duplicate column name")
	ErrRaggedColumns   = errors.New("columns have different lengths")
)

// ColumnType is the inferred type of a column, named after dataframe dtypes
type ColumnType string

const (
	TypeInt64   ColumnType = "int64"
	TypeFloat64 ColumnType = "float64"
	TypeBool    ColumnType = "bool"
	TypeObject  ColumnType = "object"
)

// IsNumeric reports whether the column holds numbers only
func (t ColumnType) IsNumeric() bool {
	return t == TypeInt64 || t == TypeFloat64
}

// Column is a named sequence of cells
type Column struct {
	Name  string
	Cells []Cell
}

// Type infers the column type from its cells.
//
// A column of a zero-row table is object. A column with no non-null cell is
// float64. Integers without gaps are int64, numbers with gaps or fractions are
// float64, booleans without gaps are bool, anything else is object.
func (c Column) Type() ColumnType {
	if len(c.Cells) == 0 {
		return TypeObject
	}
	var nulls, ints, floats, bools, strs int
	for _, cell := range c.Cells {
		switch cell.Kind() {
		case KindNull:
			nulls++
		case KindInt:
			ints++
		case KindFloat:
			floats++
		case KindBool:
			bools++
		default:
			strs++
		}
	}
	switch {
	case nulls == len(c.Cells):
		return TypeFloat64
	case strs > 0 || (bools > 0 && ints+floats > 0):
		return TypeObject
	case bools > 0:
		if nulls > 0 {
			return TypeObject
		}
		return TypeBool
	case floats > 0 || nulls > 0:
		return TypeFloat64
	default:
		return TypeInt64
	}
}

// NullCount returns the number of null cells
func (c Column) NullCount() int {
	n := 0
	for _, cell := range c.Cells {
		if cell.IsNull() {
			n++
		}
	}
	return n
}

// Table is an immutable, ordered set of uniquely named columns of equal
// length. Every transformation builds a new Table; a Table is never modified
// after construction, so it can be shared freely.
type Table struct {
	columns []Column
	index   map[string]int
	rows    int
}

// NewTable builds a table from columns. The cells are copied.
func NewTable(columns []Column) (*Table, error) {
	t := &Table{
		columns: make([]Column, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		if _, exists := t.index[col.Name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, col.Name)
		}
		if i == 0 {
			t.rows = len(col.Cells)
		} else if len(col.Cells) != t.rows {
			return nil, fmt.Errorf("%w: column %q has %d cells, expected %d",
				ErrRaggedColumns, col.Name, len(col.Cells), t.rows)
		}
		cells := make([]Cell, len(col.Cells))
		copy(cells, col.Cells)
		t.columns[i] = Column{Name: col.Name, Cells: cells}
		t.index[col.Name] = i
	}
	return t, nil
}

// NewTableFromRows builds a table from a header and row-major cells.
// Rows shorter than the header are padded with nulls; longer rows are an error.
func NewTableFromRows(names []string, rows [][]Cell) (*Table, error) {
	columns := make([]Column, len(names))
	for j, name := range names {
		columns[j] = Column{Name: name, Cells: make([]Cell, len(rows))}
	}
	for i, row := range rows {
		if len(row) > len(names) {
			return nil, fmt.Errorf("row %d has %d fields, expected %d", i+1, len(row), len(names))
		}
		for j, cell := range row {
			columns[j].Cells[i] = cell
		}
	}
	return newTableNoCopy(columns)
}

// newTableNoCopy takes ownership of the column slices
func newTableNoCopy(columns []Column) (*Table, error) {
	t := &Table{
		columns: columns,
		index:   make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		if _, exists := t.index[col.Name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, col.Name)
		}
		if i == 0 {
			t.rows = len(col.Cells)
		} else if len(col.Cells) != t.rows {
			return nil, fmt.Errorf("%w: column %q has %d cells, expected %d",
				ErrRaggedColumns, col.Name, len(col.Cells), t.rows)
		}
		t.index[col.Name] = i
	}
	return t, nil
}

// NumRows returns the row count
func (t *Table) NumRows() int { return t.rows }

// NumColumns returns the column count
func (t *Table) NumColumns() int { return len(t.columns) }

// ColumnNames returns the column names in order
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.Name
	}
	return names
}

// Column returns a copy of the i-th column
func (t *Table) Column(i int) Column {
	col := t.columns[i]
	cells := make([]Cell, len(col.Cells))
	copy(cells, col.Cells)
	return Column{Name: col.Name, Cells: cells}
}

// ColumnByName returns a copy of the named column
func (t *Table) ColumnByName(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.Column(i), true
}

// ColumnType returns the inferred type of the i-th column
func (t *Table) ColumnType(i int) ColumnType {
	return t.columns[i].Type()
}

// Cell returns the cell at row r, column c
func (t *Table) Cell(r, c int) Cell {
	return t.columns[c].Cells[r]
}

// Row returns a copy of row r
func (t *Table) Row(r int) []Cell {
	row := make([]Cell, len(t.columns))
	for j, col := range t.columns {
		row[j] = col.Cells[r]
	}
	return row
}

// Rows returns a copy of all rows
func (t *Table) Rows() [][]Cell {
	rows := make([][]Cell, t.rows)
	for i := range rows {
		rows[i] = t.Row(i)
	}
	return rows
}

// SelectRows returns a new table holding the given rows in the given order
func (t *Table) SelectRows(indices []int) *Table {
	columns := make([]Column, len(t.columns))
	for j, col := range t.columns {
		cells := make([]Cell, len(indices))
		for k, r := range indices {
			cells[k] = col.Cells[r]
		}
		columns[j] = Column{Name: col.Name, Cells: cells}
	}
	out, _ := newTableNoCopy(columns) // names and lengths already valid
	return out
}

// Head returns a new table with at most n leading rows
func (t *Table) Head(n int) *Table {
	if n > t.rows {
		n = t.rows
	}
	if n < 0 {
		n = 0
	}
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return t.SelectRows(indices)
}

// WithColumn returns a new table where the i-th column's cells are replaced
func (t *Table) WithColumn(i int, cells []Cell) (*Table, error) {
	if len(cells) != t.rows {
		return nil, fmt.Errorf("%w: replacement for %q has %d cells, expected %d",
			ErrRaggedColumns, t.columns[i].Name, len(cells), t.rows)
	}
	columns := make([]Column, len(t.columns))
	copy(columns, t.columns)
	replaced := make([]Cell, len(cells))
	copy(replaced, cells)
	columns[i] = Column{Name: t.columns[i].Name, Cells: replaced}
	return newTableNoCopy(columns)
}

// Equal reports whether two tables have the same columns and cells
func (t *Table) Equal(o *Table) bool {
	if t.NumColumns() != o.NumColumns() || t.rows != o.rows {
		return false
	}
	for j, col := range t.columns {
		other := o.columns[j]
		if col.Name != other.Name {
			return false
		}
		for i, cell := range col.Cells {
			if !cell.Equal(other.Cells[i]) {
				return false
			}
		}
	}
	return true
}
