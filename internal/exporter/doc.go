// Package exporter serializes tables as CSV.
//
// MarshalCSV produces the export bytes: a header row, no index column, "\n"
// line endings and RFC 4180 quoting. Nulls are empty fields, booleans are
// True/False and integral floats keep a ".0" suffix.
//
// NewExport pairs the bytes with the operation's fixed filename, and
// CSVWriter writes exports or tables below an output directory:
//
//	export, err := exporter.NewExport(domain.OpRemoveMissing, cleaned)
//	path, err := exporter.NewCSVWriter("out").WriteExport(export)
package exporter
