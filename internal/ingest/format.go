package ingest

import (
	"path/filepath"
	"strings"
)

// Format is the input file format, resolved once from the filename
type Format string

const (
	FormatCSV   Format = "csv"
	FormatExcel Format = "excel"
	FormatJSON  Format = "json"
	FormatXML   Format = "xml"
)

var extensionFormats = map[string]Format{
	".csv":  FormatCSV,
	".txt":  FormatCSV,
	".xlsx": FormatExcel,
	".xls":  FormatExcel,
	".json": FormatJSON,
	".xml":  FormatXML,
}

// SupportedExtensions lists the accepted filename extensions
func SupportedExtensions() []string {
	return []string{".csv", ".txt", ".xlsx", ".xls", ".json", ".xml"}
}

// FormatFromFilename resolves the format from the filename extension.
// Unknown extensions yield a FormatError wrapping ErrUnsupportedFormat.
func FormatFromFilename(filename string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filename)))
	if f, ok := extensionFormats[ext]; ok {
		return f, nil
	}
	return "", &FormatError{Filename: filename, Err: ErrUnsupportedFormat}
}
