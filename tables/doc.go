// Package tables reconciles the two cell layers reported for a detected
// table.
//
// The analysis service reports every table twice over: an ungapped grid of
// cells that each occupy exactly one (row, column) position, and a sparse set
// of merged cells spanning several positions. [Grid] answers positional
// queries against both layers at once:
//
//	g := tables.NewGrid(cells, mergedCells)
//	c, ok := g.CellAt(2, 3, false)   // merged cell wins if one covers (2,3)
//	raw, _ := g.CellAt(2, 3, true)   // always the ungapped cell
//	rows := g.Rows(true)             // vertically merged cells repeated per row
//
// Rows and columns are 1-based, as on the wire. Grid is generic over any
// type implementing [Spanned], so it holds no document types itself.
package tables
