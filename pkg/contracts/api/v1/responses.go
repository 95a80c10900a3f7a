// Package api contains the JSON contract of the dataclean HTTP API.
// Version v1 represents the current stable API version.
package api

import (
	"time"

	"dataclean/pkg/contracts/domain"
)

// ColumnSummary describes one column of a dataset
type ColumnSummary struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	NonNullCount  int    `json:"non_null_count"`
	NullCount     int    `json:"null_count"`
	DistinctCount int    `json:"distinct_count"`
}

// ProfileResponse is the profile of a dataset
type ProfileResponse struct {
	RowCount      int             `json:"row_count"`
	ColumnCount   int             `json:"column_count"`
	TotalMissing  int             `json:"total_missing"`
	DuplicateRows int             `json:"duplicate_rows"`
	Columns       []ColumnSummary `json:"columns"`
	Summary       string          `json:"summary"`
}

// DatasetResponse is returned by upload and lookup
type DatasetResponse struct {
	ID        string          `json:"id"`
	Filename  string          `json:"filename"`
	Format    string          `json:"format"`
	Delimiter string          `json:"delimiter,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
	Profile   ProfileResponse `json:"profile"`
}

// PreviewResponse holds the first rows of a dataset. Cells are rendered
// the way the CSV export renders them; missing values are null.
type PreviewResponse struct {
	ID      string      `json:"id"`
	Columns []string    `json:"columns"`
	Rows    [][]*string `json:"rows"`
	Total   int         `json:"total_rows"`
}

// OperationInfo describes one cleaning operation
type OperationInfo struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Filename string `json:"filename"`
}

// OperationsResponse lists the cleaning operations
type OperationsResponse struct {
	Operations   []OperationInfo `json:"operations"`
	EdgePolicy   string          `json:"edge_policy"`
	EdgePolicies []string        `json:"edge_policies"`
}

// HealthResponse reports liveness
type HealthResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Datasets  int       `json:"datasets"`
	Uptime    string    `json:"uptime"`
	Timestamp time.Time `json:"timestamp"`
}

// NewProfileResponse converts a domain profile
func NewProfileResponse(p domain.Profile) ProfileResponse {
	cols := make([]ColumnSummary, len(p.Columns))
	for i, c := range p.Columns {
		cols[i] = ColumnSummary{
			Name:          c.Name,
			Type:          string(c.Type),
			NonNullCount:  p.RowCount - c.NullCount,
			NullCount:     c.NullCount,
			DistinctCount: c.DistinctCount,
		}
	}
	return ProfileResponse{
		RowCount:      p.RowCount,
		ColumnCount:   p.ColumnCount,
		TotalMissing:  p.TotalNulls,
		DuplicateRows: p.DuplicateRows,
		Columns:       cols,
		Summary:       p.Summary,
	}
}

// NewPreviewResponse renders the rows of t
func NewPreviewResponse(id string, t *domain.Table, total int) PreviewResponse {
	rows := make([][]*string, t.NumRows())
	for r := range rows {
		row := make([]*string, t.NumColumns())
		for c := range row {
			cell := t.Cell(r, c)
			if cell.IsNull() {
				continue
			}
			s := cell.Format()
			row[c] = &s
		}
		rows[r] = row
	}
	return PreviewResponse{
		ID:      id,
		Columns: t.ColumnNames(),
		Rows:    rows,
		Total:   total,
	}
}

// NewOperationInfo describes op
func NewOperationInfo(op domain.Operation) OperationInfo {
	return OperationInfo{
		Name:     string(op),
		Label:    op.Label(),
		Filename: op.ExportFilename(),
	}
}
