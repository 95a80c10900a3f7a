package domain

// ColumnProfile holds derived statistics for one column
type ColumnProfile struct {
	Name          string     `json:"name"`
	Type          ColumnType `json:"type"`
	NullCount     int        `json:"null_count"`
	DistinctCount int        `json:"distinct_count"`
}

// Profile is the descriptive summary of a Table
type Profile struct {
	RowCount      int             `json:"row_count"`
	ColumnCount   int             `json:"column_count"`
	Columns       []ColumnProfile `json:"columns"`
	TotalNulls    int             `json:"total_nulls"`
	DuplicateRows int             `json:"duplicate_rows"`
	Summary       string          `json:"summary"`
	Preview       *Table          `json:"-"`
}
