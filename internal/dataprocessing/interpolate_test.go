package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dataclean/pkg/contracts/domain"
)

func TestInterpolate(t *testing.T) {
	n := domain.Null()
	f := domain.Float
	i := domain.Int

	tests := []struct {
		name   string
		cells  []domain.Cell
		policy EdgePolicy
		want   []domain.Cell
	}{
		{
			name:   "interior gap",
			cells:  []domain.Cell{f(1), n, n, f(4)},
			policy: EdgeNearest,
			want:   []domain.Cell{f(1), f(2), f(3), f(4)},
		},
		{
			name:   "nearest fills both edges",
			cells:  []domain.Cell{n, f(2), n, f(6), n},
			policy: EdgeNearest,
			want:   []domain.Cell{f(2), f(2), f(4), f(6), f(6)},
		},
		{
			name:   "forward keeps leading nulls",
			cells:  []domain.Cell{n, f(2), n, f(6), n},
			policy: EdgeForward,
			want:   []domain.Cell{n, f(2), f(4), f(6), f(6)},
		},
		{
			name:   "none keeps both edges",
			cells:  []domain.Cell{n, f(2), n, f(6), n},
			policy: EdgeNone,
			want:   []domain.Cell{n, f(2), f(4), f(6), n},
		},
		{
			name:   "integers stay integers when integral",
			cells:  []domain.Cell{i(0), n, i(4)},
			policy: EdgeNearest,
			want:   []domain.Cell{i(0), i(2), i(4)},
		},
		{
			name:   "integers become floats when fractional",
			cells:  []domain.Cell{i(0), n, i(1)},
			policy: EdgeNearest,
			want:   []domain.Cell{i(0), f(0.5), i(1)},
		},
		{
			name:   "numeric text unchanged",
			cells:  []domain.Cell{domain.String("1"), n, domain.String("3")},
			policy: EdgeNearest,
			want:   []domain.Cell{domain.String("1"), n, domain.String("3")},
		},
		{
			name:   "booleans unchanged",
			cells:  []domain.Cell{domain.Bool(false), n, domain.Bool(true)},
			policy: EdgeNearest,
			want:   []domain.Cell{domain.Bool(false), n, domain.Bool(true)},
		},
		{
			name:   "all null unchanged",
			cells:  []domain.Cell{n, n},
			policy: EdgeNearest,
			want:   []domain.Cell{n, n},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Interpolate(tt.cells, tt.policy)
			assert.Len(t, got, len(tt.want))
			for k := range tt.want {
				assert.Equal(t, tt.want[k].Kind(), got[k].Kind(), "cell %d", k)
				assert.True(t, tt.want[k].Equal(got[k]), "cell %d: want %v got %v", k, tt.want[k], got[k])
			}
		})
	}
}

func TestInterpolate_DoesNotModifyInput(t *testing.T) {
	in := []domain.Cell{domain.Float(1), domain.Null(), domain.Float(3)}
	_ = Interpolate(in, EdgeNearest)
	assert.True(t, in[1].IsNull())
}

func TestMode(t *testing.T) {
	s := domain.String

	tests := []struct {
		name   string
		cells  []domain.Cell
		want   domain.Cell
		wantOK bool
	}{
		{"most frequent", []domain.Cell{s("b"), s("a"), s("b")}, s("b"), true},
		{"tie takes smallest string", []domain.Cell{s("pear"), s("apple"), s("pear"), s("apple")}, s("apple"), true},
		{"numbers sort before strings", []domain.Cell{s("x"), domain.Int(9)}, domain.Int(9), true},
		{"bools sort before numbers", []domain.Cell{domain.Int(1), domain.Bool(true)}, domain.Bool(true), true},
		{"nulls ignored", []domain.Cell{domain.Null(), domain.Null(), s("z")}, s("z"), true},
		{"all null", []domain.Cell{domain.Null()}, domain.Null(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Mode(tt.cells)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.True(t, tt.want.Equal(got), "want %v got %v", tt.want, got)
			}
		})
	}
}
