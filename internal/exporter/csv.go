package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dataclean/pkg/contracts/domain"
)

// CSVWriter writes CSV files below an output directory
type CSVWriter struct {
	outputDir string
}

// NewCSVWriter creates a writer rooted at outputDir; "" means the working
// directory
func NewCSVWriter(outputDir string) *CSVWriter {
	if outputDir == "" {
		outputDir = "."
	}
	return &CSVWriter{outputDir: outputDir}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options and returns the
// path written
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) (string, error) {
	fullPath := w.resolvePath(filePath)

	slog.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return "", fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	if err := writeRecords(file, options.Headers, options.Records); err != nil {
		return "", err
	}
	return fullPath, file.Close()
}

// WriteTable writes t to filePath
func (w *CSVWriter) WriteTable(filePath string, t *domain.Table) (string, error) {
	return w.WriteCSV(filePath, WriteOptions{
		Headers: t.ColumnNames(),
		Records: tableRecords(t),
	})
}

// WriteExport writes an already serialized export under its own filename
func (w *CSVWriter) WriteExport(export domain.Export) (string, error) {
	fullPath := w.resolvePath(export.Filename)

	slog.Info("Writing export",
		slog.String("filename", export.Filename),
		slog.String("full_path", fullPath),
		slog.Int("bytes", len(export.Content)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(fullPath, export.Content, 0644); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return fullPath, nil
}

func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) {
		return filePath
	}
	return filepath.Join(w.outputDir, filePath)
}
