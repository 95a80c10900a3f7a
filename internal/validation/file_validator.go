// Package validation checks data files and output locations before the
// command-line tools touch them.
package validation

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dataclean/internal/ingest"
)

var (
	// ErrNotAFile is returned when the input path names a directory or device
	ErrNotAFile = errors.New("not a regular file")

	// ErrFileTooLarge is returned when the input exceeds the size limit
	ErrFileTooLarge = errors.New("file too large")

	// ErrLockFile is returned for office lock files such as "~$book.xlsx"
	ErrLockFile = errors.New("temporary lock file")
)

// FileValidator checks input data files and output directories
type FileValidator struct {
	logger   *slog.Logger
	maxBytes int64
}

// NewFileValidator creates a new file validator. maxBytes <= 0 disables
// the size check.
func NewFileValidator(logger *slog.Logger, maxBytes int64) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger:   logger,
		maxBytes: maxBytes,
	}
}

// ValidateInputFile checks that path is a readable data file of a supported
// format and returns that format. Unsupported extensions yield an
// *ingest.FormatError.
func (v *FileValidator) ValidateInputFile(path string) (ingest.Format, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		v.logger.Error("Input file does not exist", slog.String("file", path))
		return "", fmt.Errorf("input file %s does not exist", path)
	}
	if err != nil {
		v.logger.Error("Failed to stat input file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		v.logger.Error("Input path is not a regular file", slog.String("path", path))
		return "", fmt.Errorf("%s: %w", path, ErrNotAFile)
	}
	if v.maxBytes > 0 && info.Size() > v.maxBytes {
		v.logger.Error("Input file exceeds size limit",
			slog.String("file", path),
			slog.Int64("size", info.Size()),
			slog.Int64("max_bytes", v.maxBytes))
		return "", fmt.Errorf("%s is %d bytes, limit is %d: %w", path, info.Size(), v.maxBytes, ErrFileTooLarge)
	}

	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") {
		v.logger.Warn("Skipping temporary lock file", slog.String("file", path))
		return "", fmt.Errorf("%s: %w", path, ErrLockFile)
	}

	format, err := ingest.FormatFromFilename(base)
	if err != nil {
		v.logger.Error("Input file has an unsupported extension",
			slog.String("file", path),
			slog.String("extension", filepath.Ext(base)))
		return "", err
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("Input file is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("Input file validated",
		slog.String("file", path),
		slog.String("format", string(format)),
		slog.Int64("size", info.Size()))
	return format, nil
}

// ValidateOutputDirectory ensures dir exists or can be created and is writable
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	file, err := os.CreateTemp(dir, ".write_test")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	name := file.Name()
	file.Close()
	os.Remove(name)

	v.logger.Debug("Output directory validated", slog.String("directory", dir))
	return nil
}
