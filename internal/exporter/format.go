package exporter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"dataclean/pkg/contracts/domain"
)

// ContentTypeCSV is the media type of every export
const ContentTypeCSV = "text/csv"

// formatCell renders one cell for CSV output
func formatCell(c domain.Cell) string {
	return c.Format()
}

// tableRecords converts the table body to CSV records
func tableRecords(t *domain.Table) [][]string {
	records := make([][]string, t.NumRows())
	for r := range records {
		rec := make([]string, t.NumColumns())
		for c := range rec {
			rec[c] = formatCell(t.Cell(r, c))
		}
		records[r] = rec
	}
	return records
}

// MarshalCSV serializes t as UTF-8 CSV with a header row, no index column
// and "\n" line endings
func MarshalCSV(t *domain.Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeRecords(&buf, t.ColumnNames(), tableRecords(t)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// NewExport serializes the result of op under its fixed filename
func NewExport(op domain.Operation, t *domain.Table) (domain.Export, error) {
	if !op.Valid() {
		return domain.Export{}, fmt.Errorf("no export filename for operation %q", op)
	}
	content, err := MarshalCSV(t)
	if err != nil {
		return domain.Export{}, fmt.Errorf("failed to serialize %s: %w", op, err)
	}
	return domain.Export{
		Filename:    op.ExportFilename(),
		ContentType: ContentTypeCSV,
		Content:     content,
	}, nil
}

func writeRecords(out io.Writer, headers []string, records [][]string) error {
	w := csv.NewWriter(out)
	if len(headers) > 0 {
		if err := writeRecord(out, w, headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range records {
		if err := writeRecord(out, w, record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	w.Flush()
	return w.Error()
}

// writeRecord writes a lone empty field as "" so the line is not read back
// as a blank line and skipped
func writeRecord(out io.Writer, w *csv.Writer, record []string) error {
	if len(record) != 1 || record[0] != "" {
		return w.Write(record)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	_, err := io.WriteString(out, "\"\"\n")
	return err
}
