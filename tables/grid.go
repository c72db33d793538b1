package tables

import (
	"sort"
)

// Spanned is a cell-like value positioned on a 1-based table grid
type Spanned interface {
	RowIndex() int
	ColumnIndex() int
	RowSpan() int
	ColumnSpan() int
}

// Covers reports whether c occupies grid position (row, col)
func Covers(c Spanned, row, col int) bool {
	return c.RowIndex() <= row && row < c.RowIndex()+span(c.RowSpan()) &&
		c.ColumnIndex() <= col && col < c.ColumnIndex()+span(c.ColumnSpan())
}

func span(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// Less orders cells by row then column
func Less(a, b Spanned) bool {
	if a.RowIndex() != b.RowIndex() {
		return a.RowIndex() < b.RowIndex()
	}
	return a.ColumnIndex() < b.ColumnIndex()
}

// Grid reconciles the two cell layers of a table: the ungapped grid of
// single-position cells and the merged cells laid over it.
//
// Lookups consult merged cells first and fall back to the ungapped grid, so
// every position inside a merged cell answers with that merged cell unless
// the caller asks to ignore merges.
type Grid[C Spanned] struct {
	cells  []C
	merged []C
	rows   int
	cols   int
}

// NewGrid builds a grid. Both slices are copied and sorted by (row, col).
func NewGrid[C Spanned](cells, merged []C) *Grid[C] {
	g := &Grid[C]{
		cells:  sortedCopy(cells),
		merged: sortedCopy(merged),
	}
	for _, layer := range [][]C{g.cells, g.merged} {
		for _, c := range layer {
			if end := c.RowIndex() + span(c.RowSpan()) - 1; end > g.rows {
				g.rows = end
			}
			if end := c.ColumnIndex() + span(c.ColumnSpan()) - 1; end > g.cols {
				g.cols = end
			}
		}
	}
	return g
}

func sortedCopy[C Spanned](in []C) []C {
	out := append([]C(nil), in...)
	sort.SliceStable(out, func(i, j int) bool { return Less(out[i], out[j]) })
	return out
}

// RowCount returns the number of grid rows
func (g *Grid[C]) RowCount() int {
	return g.rows
}

// ColumnCount returns the number of grid columns
func (g *Grid[C]) ColumnCount() int {
	return g.cols
}

// Cells returns the ungapped cells in (row, col) order
func (g *Grid[C]) Cells() []C {
	return append([]C(nil), g.cells...)
}

// Merged returns the merged cells in (row, col) order
func (g *Grid[C]) Merged() []C {
	return append([]C(nil), g.merged...)
}

// CellAt returns the cell at a 1-based grid position. Unless ignoreMerged
// is set, a merged cell covering the position takes precedence.
func (g *Grid[C]) CellAt(row, col int, ignoreMerged bool) (C, bool) {
	if !ignoreMerged {
		for _, m := range g.merged {
			if Covers(m, row, col) {
				return m, true
			}
		}
	}
	for _, c := range g.cells {
		if c.RowIndex() == row && c.ColumnIndex() == col {
			return c, true
		}
	}
	var zero C
	return zero, false
}

// CellsAt returns every cell touching a row and/or column. Zero acts as a
// wildcard for either coordinate. Unless ignoreMerged is set, merged cells
// replace the ungapped cells they cover. The result is in (row, col) order.
func (g *Grid[C]) CellsAt(row, col int, ignoreMerged bool) []C {
	var out []C
	var merged []C
	if !ignoreMerged {
		for _, m := range g.merged {
			if g.touches(m, row, col) {
				merged = append(merged, m)
				out = append(out, m)
			}
		}
	}

	for _, c := range g.cells {
		if (row != 0 && c.RowIndex() != row) || (col != 0 && c.ColumnIndex() != col) {
			continue
		}
		covered := false
		for _, m := range merged {
			if Covers(m, c.RowIndex(), c.ColumnIndex()) {
				covered = true
				break
			}
		}
		if !covered {
			out = append(out, c)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return Less(out[i], out[j]) })
	return out
}

func (g *Grid[C]) touches(m C, row, col int) bool {
	rowOK := row == 0 || (m.RowIndex() <= row && row < m.RowIndex()+span(m.RowSpan()))
	colOK := col == 0 || (m.ColumnIndex() <= col && col < m.ColumnIndex()+span(m.ColumnSpan()))
	return rowOK && colOK
}

// RowAt returns the cells of one 1-based row. With repeatMultiRow a cell
// merged across several rows appears in each of them; otherwise only in the
// row where it starts.
func (g *Grid[C]) RowAt(row int, repeatMultiRow bool) []C {
	cells := g.CellsAt(row, 0, false)
	if repeatMultiRow {
		return cells
	}
	out := cells[:0]
	for _, c := range cells {
		if c.RowIndex() == row {
			out = append(out, c)
		}
	}
	return out
}

// Rows returns RowAt for every row from 1 to RowCount
func (g *Grid[C]) Rows(repeatMultiRow bool) [][]C {
	out := make([][]C, 0, g.rows)
	for r := 1; r <= g.rows; r++ {
		out = append(out, g.RowAt(r, repeatMultiRow))
	}
	return out
}
