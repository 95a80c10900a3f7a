// Package ingest reads uploaded data files into domain tables.
//
// The format is chosen from the filename extension. Delimited text (.csv,
// .txt) is decoded permissively and its delimiter detected from a sample;
// workbooks (.xlsx, .xls) are read from the first sheet; JSON and XML are
// read as records. Every failure surfaces as a *FormatError.
package ingest

import (
	"fmt"
	"io"
	"log/slog"

	"dataclean/pkg/contracts/domain"
)

// Result is a successfully loaded table plus how it was read
type Result struct {
	Table     *domain.Table
	Format    Format
	Delimiter rune
}

// Load reads r as the format implied by filename
func Load(filename string, r io.Reader) (*Result, error) {
	format, err := FormatFromFilename(filename)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &FormatError{Filename: filename, Format: format, Err: err}
	}
	return LoadBytes(filename, data)
}

// LoadBytes is Load over an in-memory file
func LoadBytes(filename string, data []byte) (res *Result, err error) {
	format, err := FormatFromFilename(filename)
	if err != nil {
		return nil, err
	}

	defer func() {
		if p := recover(); p != nil {
			slog.Error("Reader panicked",
				slog.String("filename", filename),
				slog.String("format", string(format)),
				slog.Any("panic", p))
			res = nil
			err = &FormatError{Filename: filename, Format: format, Err: fmt.Errorf("malformed input: %v", p)}
		}
	}()

	res = &Result{Format: format}
	var t *domain.Table
	switch format {
	case FormatCSV:
		t, res.Delimiter, err = readDelimited(data)
	case FormatExcel:
		t, err = readExcel(data)
	case FormatJSON:
		t, err = readJSON(data)
	case FormatXML:
		t, err = readXML(data)
	default:
		err = ErrUnsupportedFormat
	}
	if err != nil {
		return nil, &FormatError{Filename: filename, Format: format, Err: err}
	}
	res.Table = t

	slog.Debug("Dataset loaded",
		slog.String("filename", filename),
		slog.String("format", string(format)),
		slog.Int("rows", t.NumRows()),
		slog.Int("columns", t.NumColumns()))
	return res, nil
}
