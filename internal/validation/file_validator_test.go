package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dataclean/internal/ingest"
	"dataclean/internal/shared/testutil"
)

func TestFileValidator_ValidateInputFile(t *testing.T) {
	tests := []struct {
		name      string
		setupFunc func(t *testing.T) string
		maxBytes  int64
		want      ingest.Format
		wantErr   error
		errorText string
	}{
		{
			name:      "csv file",
			setupFunc: func(t *testing.T) string { return testutil.WriteFixture(t, "data.csv", testutil.SampleCSV) },
			want:      ingest.FormatCSV,
		},
		{
			name:      "txt file reads as csv",
			setupFunc: func(t *testing.T) string { return testutil.WriteFixture(t, "data.TXT", testutil.SampleCSV) },
			want:      ingest.FormatCSV,
		},
		{
			name:      "xml file",
			setupFunc: func(t *testing.T) string { return testutil.WriteFixture(t, "data.xml", testutil.SampleXML) },
			want:      ingest.FormatXML,
		},
		{
			name:      "missing file",
			setupFunc: func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.csv") },
			errorText: "does not exist",
		},
		{
			name:      "directory",
			setupFunc: func(t *testing.T) string { return t.TempDir() },
			wantErr:   ErrNotAFile,
		},
		{
			name:      "over the size limit",
			setupFunc: func(t *testing.T) string { return testutil.WriteFixture(t, "data.csv", testutil.SampleCSV) },
			maxBytes:  4,
			wantErr:   ErrFileTooLarge,
		},
		{
			name:      "excel lock file",
			setupFunc: func(t *testing.T) string { return testutil.WriteFixture(t, "~$book.xlsx", "x") },
			wantErr:   ErrLockFile,
		},
		{
			name:      "unsupported extension",
			setupFunc: func(t *testing.T) string { return testutil.WriteFixture(t, "slides.pptx", "PK") },
			wantErr:   ingest.ErrUnsupportedFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			v := NewFileValidator(logger, tt.maxBytes)

			got, err := v.ValidateInputFile(tt.setupFunc(t))
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.errorText != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorText)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestFileValidator_UnsupportedIsFormatError(t *testing.T) {
	v := NewFileValidator(nil, 0)
	_, err := v.ValidateInputFile(testutil.WriteFixture(t, "notes.doc", "x"))
	assert.True(t, ingest.IsFormatError(err))
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	v := NewFileValidator(logger, 0)

	dir := filepath.Join(t.TempDir(), "nested", "out")
	require.NoError(t, v.ValidateOutputDirectory(dir))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "probe file must be removed")
	assert.True(t, handler.ContainsMessage("Output directory validated"))

	file := testutil.WriteFixture(t, "plain.csv", "a\n")
	err = v.ValidateOutputDirectory(file)
	assert.Error(t, err)
}
