package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dataclean/pkg/contracts/domain"
)

func TestNewPreviewResponse(t *testing.T) {
	tbl, err := domain.NewTable([]domain.Column{
		{Name: "a", Cells: []domain.Cell{domain.Int(1), domain.Null()}},
		{Name: "b", Cells: []domain.Cell{domain.Float(2), domain.Bool(true)}},
	})
	require.NoError(t, err)

	resp := NewPreviewResponse("id-1", tbl, 7)
	data, err := json.Marshal(resp)
	require.NoError(t, err)

	assert.JSONEq(t, `{"id":"id-1","columns":["a","b"],"rows":[["1","2.0"],[null,"True"]],"total_rows":7}`, string(data))
}

func TestNewProfileResponse(t *testing.T) {
	p := domain.Profile{
		RowCount:      3,
		ColumnCount:   1,
		TotalNulls:    1,
		DuplicateRows: 0,
		Columns:       []domain.ColumnProfile{{Name: "x", Type: domain.TypeFloat64, NullCount: 1, DistinctCount: 2}},
	}

	resp := NewProfileResponse(p)
	require.Len(t, resp.Columns, 1)
	assert.Equal(t, ColumnSummary{Name: "x", Type: "float64", NonNullCount: 2, NullCount: 1, DistinctCount: 2}, resp.Columns[0])
	assert.Equal(t, 1, resp.TotalMissing)
}

func TestNewOperationInfo(t *testing.T) {
	info := NewOperationInfo(domain.OpRemoveDuplicates)
	assert.Equal(t, OperationInfo{
		Name:     "remove-duplicates",
		Label:    "Remove Duplicate Records",
		Filename: "cleaned_no_duplicates.csv",
	}, info)
}
