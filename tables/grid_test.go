package tables

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCell struct {
	name                   string
	row, col, rspan, cspan int
}

func (c *testCell) RowIndex() int    { return c.row }
func (c *testCell) ColumnIndex() int { return c.col }
func (c *testCell) RowSpan() int     { return c.rspan }
func (c *testCell) ColumnSpan() int  { return c.cspan }

// makeCells builds an ungapped rows x cols grid named "r,c", listed in
// reverse so that sorting is exercised
func makeCells(rows, cols int) []*testCell {
	var out []*testCell
	for r := rows; r >= 1; r-- {
		for c := cols; c >= 1; c-- {
			out = append(out, &testCell{name: fmt.Sprintf("%d,%d", r, c), row: r, col: c, rspan: 1, cspan: 1})
		}
	}
	return out
}

func names(cells []*testCell) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = c.name
	}
	return out
}

func TestGridDimensions(t *testing.T) {
	g := NewGrid(makeCells(3, 4), nil)
	assert.Equal(t, 3, g.RowCount())
	assert.Equal(t, 4, g.ColumnCount())
	assert.Equal(t, "1,1", g.Cells()[0].name)
	assert.Equal(t, "3,4", g.Cells()[11].name)

	empty := NewGrid[*testCell](nil, nil)
	assert.Zero(t, empty.RowCount())
	assert.Empty(t, empty.Rows(true))
}

func TestCellAtHorizontalMerge(t *testing.T) {
	merged := &testCell{name: "m", row: 2, col: 1, rspan: 1, cspan: 3}
	g := NewGrid(makeCells(3, 3), []*testCell{merged})

	a, ok := g.CellAt(2, 1, false)
	require.True(t, ok)
	b, ok := g.CellAt(2, 3, false)
	require.True(t, ok)
	assert.Same(t, merged, a)
	assert.Same(t, a, b)

	raw, ok := g.CellAt(2, 2, true)
	require.True(t, ok)
	assert.Equal(t, "2,2", raw.name)

	other, ok := g.CellAt(1, 2, false)
	require.True(t, ok)
	assert.Equal(t, "1,2", other.name)

	_, ok = g.CellAt(9, 9, false)
	assert.False(t, ok)
}

func TestCellsAt(t *testing.T) {
	merged := &testCell{name: "m", row: 2, col: 1, rspan: 1, cspan: 3}
	g := NewGrid(makeCells(3, 3), []*testCell{merged})

	tests := []struct {
		name         string
		row, col     int
		ignoreMerged bool
		want         []string
	}{
		{"row with merge", 2, 0, false, []string{"m"}},
		{"row ignoring merge", 2, 0, true, []string{"2,1", "2,2", "2,3"}},
		{"column", 0, 2, false, []string{"1,2", "m", "3,2"}},
		{"single position", 3, 3, false, []string{"3,3"}},
		{"everything", 0, 0, false, []string{"1,1", "1,2", "1,3", "m", "3,1", "3,2", "3,3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(g.CellsAt(tt.row, tt.col, tt.ignoreMerged)))
		})
	}
}

func TestRowsVerticalMerge(t *testing.T) {
	// column 1 merged across rows 1-2
	merged := &testCell{name: "m", row: 1, col: 1, rspan: 2, cspan: 1}
	g := NewGrid(makeCells(3, 3), []*testCell{merged})

	assert.Equal(t, []string{"m", "1,2", "1,3"}, names(g.RowAt(1, false)))
	assert.Equal(t, []string{"2,2", "2,3"}, names(g.RowAt(2, false)))
	assert.Equal(t, []string{"m", "2,2", "2,3"}, names(g.RowAt(2, true)))

	count := func(rows [][]*testCell) int {
		n := 0
		for _, r := range rows {
			n += len(r)
		}
		return n
	}
	cells := g.RowCount() * g.ColumnCount()
	assert.Equal(t, cells, count(g.Rows(true)))
	assert.Equal(t, cells-1, count(g.Rows(false)))
}

func TestRowsWithoutVerticalMerge(t *testing.T) {
	g := NewGrid(makeCells(2, 3), nil)
	for _, repeat := range []bool{true, false} {
		n := 0
		for _, r := range g.Rows(repeat) {
			n += len(r)
		}
		assert.Equal(t, g.RowCount()*g.ColumnCount(), n)
	}
}

func TestCovers(t *testing.T) {
	c := &testCell{row: 2, col: 2, rspan: 2, cspan: 0}
	assert.True(t, Covers(c, 2, 2))
	assert.True(t, Covers(c, 3, 2))
	assert.False(t, Covers(c, 3, 3), "zero span counts as one")
	assert.False(t, Covers(c, 4, 2))
}
