package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumn_Type(t *testing.T) {
	tests := []struct {
		name  string
		cells []Cell
		want  ColumnType
	}{
		{"empty column", nil, TypeObject},
		{"all null", []Cell{Null(), Null()}, TypeFloat64},
		{"ints", []Cell{Int(1), Int(2)}, TypeInt64},
		{"ints with gap", []Cell{Int(1), Null()}, TypeFloat64},
		{"mixed numbers", []Cell{Int(1), Float(2.5)}, TypeFloat64},
		{"bools", []Cell{Bool(true), Bool(false)}, TypeBool},
		{"bools with gap", []Cell{Bool(true), Null()}, TypeObject},
		{"strings", []Cell{String("a"), Null()}, TypeObject},
		{"numbers and strings", []Cell{Int(1), String("a")}, TypeObject},
		{"numbers and bools", []Cell{Int(1), Bool(true)}, TypeObject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Column{Name: "c", Cells: tt.cells}.Type())
		})
	}
}

func TestNewTable(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		tbl, err := NewTable([]Column{
			{Name: "a", Cells: []Cell{Int(1), Int(2)}},
			{Name: "b", Cells: []Cell{String("x"), Null()}},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, tbl.NumRows())
		assert.Equal(t, 2, tbl.NumColumns())
		assert.Equal(t, []string{"a", "b"}, tbl.ColumnNames())
		assert.True(t, tbl.Cell(1, 1).IsNull())
	})

	t.Run("duplicate names", func(t *testing.T) {
		_, err := NewTable([]Column{{Name: "a"}, {Name: "a"}})
		assert.ErrorIs(t, err, ErrDuplicateColumn)
	})

	t.Run("ragged columns", func(t *testing.T) {
		_, err := NewTable([]Column{
			{Name: "a", Cells: []Cell{Int(1)}},
			{Name: "b", Cells: []Cell{Int(1), Int(2)}},
		})
		assert.ErrorIs(t, err, ErrRaggedColumns)
	})

	t.Run("input slices are copied", func(t *testing.T) {
		cells := []Cell{Int(1)}
		tbl, err := NewTable([]Column{{Name: "a", Cells: cells}})
		require.NoError(t, err)
		cells[0] = Int(99)
		assert.Equal(t, int64(1), tbl.Cell(0, 0).IntValue())
	})
}

func TestNewTableFromRows(t *testing.T) {
	tbl, err := NewTableFromRows([]string{"a", "b"}, [][]Cell{
		{Int(1), String("x")},
		{Int(2)},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.NumRows())
	assert.True(t, tbl.Cell(1, 1).IsNull(), "short rows are padded with nulls")

	_, err = NewTableFromRows([]string{"a"}, [][]Cell{{Int(1), Int(2)}})
	assert.Error(t, err)
}

func TestTable_CopiesDoNotLeak(t *testing.T) {
	tbl, err := NewTableFromRows([]string{"a"}, [][]Cell{{Int(1)}, {Int(2)}})
	require.NoError(t, err)

	row := tbl.Row(0)
	row[0] = Int(100)
	col := tbl.Column(0)
	col.Cells[1] = Int(200)

	assert.Equal(t, int64(1), tbl.Cell(0, 0).IntValue())
	assert.Equal(t, int64(2), tbl.Cell(1, 0).IntValue())
}

func TestTable_SelectRowsAndHead(t *testing.T) {
	tbl, err := NewTableFromRows([]string{"a"}, [][]Cell{{Int(1)}, {Int(2)}, {Int(3)}})
	require.NoError(t, err)

	sel := tbl.SelectRows([]int{2, 0})
	assert.Equal(t, 2, sel.NumRows())
	assert.Equal(t, int64(3), sel.Cell(0, 0).IntValue())
	assert.Equal(t, int64(1), sel.Cell(1, 0).IntValue())

	assert.Equal(t, 3, tbl.Head(10).NumRows())
	assert.Equal(t, 1, tbl.Head(1).NumRows())
	assert.Equal(t, 0, tbl.Head(-1).NumRows())
}

func TestTable_WithColumn(t *testing.T) {
	tbl, err := NewTableFromRows([]string{"a", "b"}, [][]Cell{{Int(1), Null()}})
	require.NoError(t, err)

	out, err := tbl.WithColumn(1, []Cell{String("z")})
	require.NoError(t, err)
	assert.Equal(t, "z", out.Cell(0, 1).StringValue())
	assert.True(t, tbl.Cell(0, 1).IsNull(), "source table is untouched")

	_, err = tbl.WithColumn(1, []Cell{Null(), Null()})
	assert.ErrorIs(t, err, ErrRaggedColumns)
}

func TestTable_Equal(t *testing.T) {
	a, _ := NewTableFromRows([]string{"x"}, [][]Cell{{Int(1)}, {Null()}})
	b, _ := NewTableFromRows([]string{"x"}, [][]Cell{{Float(1)}, {Null()}})
	c, _ := NewTableFromRows([]string{"y"}, [][]Cell{{Int(1)}, {Null()}})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
