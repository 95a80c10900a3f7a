package ingest

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/buger/jsonparser"

	"dataclean/pkg/contracts/domain"
)

var errJSONShape = errors.New("expected an array of records or an object of columns")

// readJSON accepts either an array of records (objects or arrays) or an
// object mapping column names to index-keyed objects or arrays.
func readJSON(data []byte) (*domain.Table, error) {
	value, dataType, _, err := jsonparser.Get(data)
	if err != nil {
		return nil, err
	}
	switch dataType {
	case jsonparser.Array:
		return readJSONRecords(value)
	case jsonparser.Object:
		return readJSONColumns(value)
	default:
		return nil, errJSONShape
	}
}

func readJSONRecords(data []byte) (*domain.Table, error) {
	cb := newColumnBuilder()
	var shapeErr error
	_, err := jsonparser.ArrayEach(data, func(value []byte, dt jsonparser.ValueType, _ int, _ error) {
		if shapeErr != nil {
			return
		}
		row := cb.addRow()
		switch dt {
		case jsonparser.Object:
			shapeErr = jsonparser.ObjectEach(value, func(key, v []byte, vt jsonparser.ValueType, _ int) error {
				cell, err := jsonCell(v, vt)
				if err != nil {
					return err
				}
				cb.set(row, string(key), cell)
				return nil
			})
		case jsonparser.Array:
			var cellErr error
			pos := 0
			_, err := jsonparser.ArrayEach(value, func(v []byte, vt jsonparser.ValueType, _ int, _ error) {
				cell, err := jsonCell(v, vt)
				if err != nil && cellErr == nil {
					cellErr = err
				}
				cb.set(row, strconv.Itoa(pos), cell)
				pos++
			})
			if err == nil {
				err = cellErr
			}
			shapeErr = err
		default:
			shapeErr = fmt.Errorf("record %d: %w", row, errJSONShape)
		}
	})
	if err != nil {
		return nil, err
	}
	if shapeErr != nil {
		return nil, shapeErr
	}
	return cb.table()
}

func readJSONColumns(data []byte) (*domain.Table, error) {
	cb := newColumnBuilder()
	rowIndex := make(map[string]int)

	rowFor := func(key string) int {
		if r, ok := rowIndex[key]; ok {
			return r
		}
		r := cb.addRow()
		rowIndex[key] = r
		return r
	}

	err := jsonparser.ObjectEach(data, func(name, value []byte, dt jsonparser.ValueType, _ int) error {
		column := string(name)
		cb.column(column)
		switch dt {
		case jsonparser.Object:
			return jsonparser.ObjectEach(value, func(key, v []byte, vt jsonparser.ValueType, _ int) error {
				cell, err := jsonCell(v, vt)
				if err != nil {
					return err
				}
				cb.set(rowFor(string(key)), column, cell)
				return nil
			})
		case jsonparser.Array:
			var cellErr error
			pos := 0
			_, err := jsonparser.ArrayEach(value, func(v []byte, vt jsonparser.ValueType, _ int, _ error) {
				cell, err := jsonCell(v, vt)
				if err != nil && cellErr == nil {
					cellErr = err
				}
				cb.set(rowFor(strconv.Itoa(pos)), column, cell)
				pos++
			})
			if err != nil {
				return err
			}
			return cellErr
		default:
			return fmt.Errorf("column %q: %w", column, errJSONShape)
		}
	})
	if err != nil {
		return nil, err
	}
	return cb.table()
}

// jsonCell maps a JSON value onto a cell. Strings stay literal; nested
// objects and arrays keep their raw JSON text.
func jsonCell(value []byte, dt jsonparser.ValueType) (domain.Cell, error) {
	switch dt {
	case jsonparser.Null:
		return domain.Null(), nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(value)
		if err != nil {
			return domain.Null(), err
		}
		return domain.Bool(b), nil
	case jsonparser.Number:
		if i, err := jsonparser.ParseInt(value); err == nil {
			return domain.Int(i), nil
		}
		f, err := jsonparser.ParseFloat(value)
		if err != nil {
			return domain.Null(), err
		}
		return domain.Float(f), nil
	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return domain.Null(), err
		}
		return domain.String(s), nil
	case jsonparser.Object, jsonparser.Array:
		return domain.String(string(value)), nil
	default:
		return domain.Null(), fmt.Errorf("unexpected JSON value %q", value)
	}
}
