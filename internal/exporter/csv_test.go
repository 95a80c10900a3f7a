package exporter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dataclean/pkg/contracts/domain"
)

// Setup test environment
func setupTestEnv(t *testing.T) (*CSVWriter, string) {
	t.Helper()
	tempDir := t.TempDir()
	return NewCSVWriter(filepath.Join(tempDir, "out")), tempDir
}

func TestNewCSVWriter(t *testing.T) {
	assert.Equal(t, ".", NewCSVWriter("").outputDir)
	assert.Equal(t, "reports", NewCSVWriter("reports").outputDir)
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	writer, tempDir := setupTestEnv(t)

	tests := []struct {
		name     string
		filePath string
		options  WriteOptions
		validate func(t *testing.T, path string)
	}{
		{
			name:     "headers and records",
			filePath: "basic.csv",
			options: WriteOptions{
				Headers: []string{"a", "b"},
				Records: [][]string{{"1", "x"}, {"2", "y, z"}},
			},
			validate: func(t *testing.T, path string) {
				content, err := os.ReadFile(path)
				require.NoError(t, err)
				assert.Equal(t, "a,b\n1,x\n2,\"y, z\"\n", string(content))
			},
		},
		{
			name:     "bom prefix",
			filePath: "bom.csv",
			options: WriteOptions{
				Headers:   []string{"a"},
				BOMPrefix: true,
			},
			validate: func(t *testing.T, path string) {
				content, err := os.ReadFile(path)
				require.NoError(t, err)
				assert.Equal(t, []byte{0xEF, 0xBB, 0xBF, 'a', '\n'}, content)
			},
		},
		{
			name:     "absolute path bypasses output dir",
			filePath: filepath.Join(tempDir, "abs", "file.csv"),
			options:  WriteOptions{Headers: []string{"h"}},
			validate: func(t *testing.T, path string) {
				assert.Equal(t, filepath.Join(tempDir, "abs", "file.csv"), path)
				assert.FileExists(t, path)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := writer.WriteCSV(tt.filePath, tt.options)
			require.NoError(t, err)
			tt.validate(t, path)
		})
	}
}

func TestCSVWriter_WriteExport(t *testing.T) {
	writer, tempDir := setupTestEnv(t)

	tbl, err := domain.NewTable([]domain.Column{
		{Name: "a", Cells: []domain.Cell{domain.Int(2)}},
		{Name: "b", Cells: []domain.Cell{domain.Float(3)}},
	})
	require.NoError(t, err)

	export, err := NewExport(domain.OpRemoveMissing, tbl)
	require.NoError(t, err)

	path, err := writer.WriteExport(export)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tempDir, "out", "cleaned_no_missing.csv"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n2,3.0\n", string(content))

	// overwriting replaces the previous content
	empty, err := NewExport(domain.OpRemoveMissing, tbl.Head(0))
	require.NoError(t, err)
	_, err = writer.WriteExport(empty)
	require.NoError(t, err)
	content, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(content))
}

func TestCSVWriter_WriteTable(t *testing.T) {
	writer, _ := setupTestEnv(t)

	tbl, err := domain.NewTable([]domain.Column{
		{Name: "flag", Cells: []domain.Cell{domain.Bool(true), domain.Null()}},
		{Name: "n", Cells: []domain.Cell{domain.Int(1), domain.Int(2)}},
	})
	require.NoError(t, err)

	path, err := writer.WriteTable("nested/table.csv", tbl)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "flag,n\nTrue,1\n,2\n", string(content))
}
