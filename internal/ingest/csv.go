package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"dataclean/pkg/contracts/domain"
)

// readDelimited parses permissively decoded delimited text. The first record
// is the header, blank lines are skipped and short records are padded with
// nulls.
func readDelimited(data []byte) (*domain.Table, rune, error) {
	text := DecodeText(data)

	sample := text
	truncated := false
	if len(sample) > SniffSampleSize {
		sample = sample[:SniffSampleSize]
		truncated = true
	}
	delim := DetectDelimiter(sample, truncated)

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.ReuseRecord = false

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, delim, ErrNoColumns
	}
	if err != nil {
		return nil, delim, err
	}

	var rows [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, delim, err
		}
		if len(rec) > len(header) {
			line, _ := r.FieldPos(0)
			return nil, delim, fmt.Errorf("expected %d fields in line %d, saw %d", len(header), line, len(rec))
		}
		rows = append(rows, rec)
	}

	t, err := buildTable(header, rows)
	if err != nil {
		return nil, delim, err
	}
	return t, delim, nil
}
