package ingest

import (
	"dataclean/pkg/contracts/domain"
)

// columnBuilder accumulates sparse records into columns, keeping the order
// in which column names are first seen
type columnBuilder struct {
	names []string
	index map[string]int
	cells [][]domain.Cell
	rows  int
}

func newColumnBuilder() *columnBuilder {
	return &columnBuilder{index: make(map[string]int)}
}

func (cb *columnBuilder) column(name string) int {
	if i, ok := cb.index[name]; ok {
		return i
	}
	i := len(cb.names)
	cb.index[name] = i
	cb.names = append(cb.names, name)
	col := make([]domain.Cell, cb.rows)
	cb.cells = append(cb.cells, col)
	return i
}

// set stores value at (row, name); rows must be added in order
func (cb *columnBuilder) set(row int, name string, value domain.Cell) {
	i := cb.column(name)
	cb.cells[i][row] = value
}

func (cb *columnBuilder) addRow() int {
	for i := range cb.cells {
		cb.cells[i] = append(cb.cells[i], domain.Null())
	}
	cb.rows++
	return cb.rows - 1
}

func (cb *columnBuilder) table() (*domain.Table, error) {
	cols := make([]domain.Column, len(cb.names))
	for i, name := range cb.names {
		cols[i] = domain.Column{Name: name, Cells: cb.cells[i]}
	}
	t, err := domain.NewTable(cols)
	if err != nil {
		return nil, err
	}
	return upcastFloatColumns(t)
}
