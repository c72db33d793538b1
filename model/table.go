package model

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"

	"github.com/tsawler/trp/resolver"
	"github.com/tsawler/trp/tables"
)

// TableCell is implemented by both Cell and MergedCell
type TableCell interface {
	WithBlock
	WithGeometry
	WithConfidence
	WithText
	WithContent
	tables.Spanned

	EntityTypes() []types.EntityType
	HasEntityTypes(ets ...types.EntityType) bool
	IsMerged() bool
}

// cellBlock holds what Cell and MergedCell share
type cellBlock struct {
	blockEntity
}

func (c cellBlock) RowIndex() int    { return int(aws.ToInt32(c.block.RowIndex)) }
func (c cellBlock) ColumnIndex() int { return int(aws.ToInt32(c.block.ColumnIndex)) }
func (c cellBlock) RowSpan() int     { return spanOf(c.block.RowSpan) }
func (c cellBlock) ColumnSpan() int  { return spanOf(c.block.ColumnSpan) }

func spanOf(v *int32) int {
	if n := int(aws.ToInt32(v)); n > 1 {
		return n
	}
	return 1
}

// EntityTypes returns the cell tags, such as COLUMN_HEADER
func (c cellBlock) EntityTypes() []types.EntityType {
	return append([]types.EntityType(nil), c.block.EntityTypes...)
}

// HasEntityTypes reports whether the cell carries every given tag
func (c cellBlock) HasEntityTypes(ets ...types.EntityType) bool {
	for _, want := range ets {
		found := false
		for _, have := range c.block.EntityTypes {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// IsColumnHeader reports whether the cell is tagged COLUMN_HEADER
func (c cellBlock) IsColumnHeader() bool {
	return c.HasEntityTypes(types.EntityTypeColumnHeader)
}

// Cell is one position of the ungapped table grid
type Cell struct {
	cellBlock
	content []Entity
}

func (c *Cell) link(p *Page) error {
	content, err := p.Related(c, types.RelationshipTypeChild, resolver.Only(
		types.BlockTypeWord, types.BlockTypeSelectionElement, types.BlockTypeSignature))
	c.content = content
	return err
}

func (c *Cell) IsMerged() bool { return false }

// Content returns the words, selection elements and signatures in the cell
func (c *Cell) Content() []Entity {
	return append([]Entity(nil), c.content...)
}

// Words returns only the words in the cell
func (c *Cell) Words() []*Word {
	return wordsOf(c.content)
}

// Text joins the cell content with spaces. A selection element renders as
// its status followed by a comma.
func (c *Cell) Text() string {
	var parts []string
	for _, e := range c.content {
		switch v := e.(type) {
		case *Word:
			parts = append(parts, v.Text())
		case *SelectionElement:
			parts = append(parts, v.Text()+",")
		}
	}
	return strings.Join(parts, " ")
}

// OCRConfidence aggregates the confidence of the words in the cell
func (c *Cell) OCRConfidence(method AggregationMethod) float64 {
	return OCRConfidence(c, method)
}

// MergedCell spans several grid positions. Its content is the content of
// the cells it covers.
type MergedCell struct {
	cellBlock
	cells []*Cell
}

// link resolves the covered cells through the owning table
func (m *MergedCell) link(p *Page, t *Table) error {
	children, err := p.Related(m, types.RelationshipTypeChild, resolver.Only(types.BlockTypeCell))
	if err != nil {
		return err
	}
	m.cells = make([]*Cell, 0, len(children))
	for _, c := range children {
		cell := c.(*Cell)
		if !t.owns(cell) {
			return fmt.Errorf("merged cell %s of table %s: cell %s: %w",
				m.ID(), t.ID(), cell.ID(), ErrMergedCellOutsideTable)
		}
		m.cells = append(m.cells, cell)
	}
	sortCells(m.cells)
	return nil
}

func (m *MergedCell) IsMerged() bool { return true }

// Cells returns the covered cells in row-major order
func (m *MergedCell) Cells() []*Cell {
	return append([]*Cell(nil), m.cells...)
}

// Content concatenates the content of the covered cells
func (m *MergedCell) Content() []Entity {
	var out []Entity
	for _, c := range m.cells {
		out = append(out, c.content...)
	}
	return out
}

// Words returns the words of the covered cells
func (m *MergedCell) Words() []*Word {
	return wordsOf(m.Content())
}

// Text joins the texts of the covered cells with spaces. Empty cells are
// skipped so that blank positions do not produce double spaces.
func (m *MergedCell) Text() string {
	var parts []string
	for _, c := range m.cells {
		if t := c.Text(); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// OCRConfidence aggregates the confidence of the covered words
func (m *MergedCell) OCRConfidence(method AggregationMethod) float64 {
	return OCRConfidence(m, method)
}

func sortCells(cells []*Cell) {
	sort.SliceStable(cells, func(i, j int) bool { return tables.Less(cells[i], cells[j]) })
}

// TableTitle is a caption above or inside a table
type TableTitle struct {
	caption
}

// TableFooter is a caption below a table
type TableFooter struct {
	caption
}

type caption struct {
	blockEntity
	words []*Word
}

func (c *caption) link(p *Page) error {
	children, err := p.Related(c, types.RelationshipTypeChild, resolver.Only(types.BlockTypeWord))
	c.words = make([]*Word, 0, len(children))
	for _, e := range children {
		c.words = append(c.words, e.(*Word))
	}
	return err
}

func (c *caption) Words() []*Word { return append([]*Word(nil), c.words...) }
func (c *caption) Text() string   { return WordsText(c) }

// Row is one row of a table as listed by Table.Rows
type Row struct {
	cells []TableCell
}

// Cells returns the row's cells in column order
func (r *Row) Cells() []TableCell {
	return append([]TableCell(nil), r.cells...)
}

// CellCount returns the number of cells in the row
func (r *Row) CellCount() int {
	return len(r.cells)
}

// Confidence aggregates the structure confidence of the cells
func (r *Row) Confidence(method AggregationMethod) float64 {
	scores := make([]float64, len(r.cells))
	for i, c := range r.cells {
		scores[i] = c.Confidence()
	}
	return Aggregate(scores, method)
}

// OCRConfidence aggregates the confidence of every word in the row
func (r *Row) OCRConfidence(method AggregationMethod) float64 {
	var scores []float64
	for _, c := range r.cells {
		for _, w := range wordsOf(c.Content()) {
			scores = append(scores, w.Confidence())
		}
	}
	return Aggregate(scores, method)
}

// Text joins the cell texts with tabs
func (r *Row) Text() string {
	texts := make([]string, len(r.cells))
	for i, c := range r.cells {
		texts[i] = c.Text()
	}
	return strings.Join(texts, "\t")
}

// Table is a detected table. Cell lookups reconcile the ungapped grid with
// the merged cells laid over it.
type Table struct {
	blockEntity
	grid    *tables.Grid[TableCell]
	cellIDs map[string]bool
	titles  []*TableTitle
	footers []*TableFooter
}

func (t *Table) link(p *Page) error {
	var cells, merged []TableCell
	t.cellIDs = make(map[string]bool)

	for _, relType := range resolver.RelationshipTypes(t.block) {
		switch relType {
		case types.RelationshipTypeChild:
			children, err := p.Related(t, relType, resolver.Only(types.BlockTypeCell))
			if err != nil {
				return err
			}
			for _, c := range children {
				cells = append(cells, c.(*Cell))
				t.cellIDs[c.ID()] = true
			}
		case types.RelationshipTypeMergedCell, types.RelationshipTypeTableTitle, types.RelationshipTypeTableFooter:
			// after the cells, which merged cells need
		default:
			p.warn(resolver.Warning{
				Code:         resolver.CodeUnknownRelationship,
				BlockID:      t.ID(),
				Relationship: relType,
				BlockType:    t.BlockType(),
				Message:      fmt.Sprintf("table %s has unsupported %s relationship", t.ID(), relType),
			})
		}
	}

	mergedEntities, err := p.Related(t, types.RelationshipTypeMergedCell, resolver.Only(types.BlockTypeMergedCell))
	if err != nil {
		return err
	}
	for _, e := range mergedEntities {
		m := e.(*MergedCell)
		if err := m.link(p, t); err != nil {
			return err
		}
		merged = append(merged, m)
	}
	t.grid = tables.NewGrid(cells, merged)

	titles, err := p.Related(t, types.RelationshipTypeTableTitle, resolver.Only(types.BlockTypeTableTitle))
	if err != nil {
		return err
	}
	for _, e := range titles {
		t.titles = append(t.titles, e.(*TableTitle))
	}
	footers, err := p.Related(t, types.RelationshipTypeTableFooter, resolver.Only(types.BlockTypeTableFooter))
	if err != nil {
		return err
	}
	for _, e := range footers {
		t.footers = append(t.footers, e.(*TableFooter))
	}
	return nil
}

func (t *Table) owns(c *Cell) bool {
	return t.cellIDs[c.ID()]
}

// RowCount returns the number of grid rows
func (t *Table) RowCount() int { return t.grid.RowCount() }

// ColumnCount returns the number of grid columns
func (t *Table) ColumnCount() int { return t.grid.ColumnCount() }

// CellAt returns the cell at a 1-based position, or nil. A merged cell
// covering the position is returned unless ignoreMerged is set.
func (t *Table) CellAt(row, col int, ignoreMerged bool) TableCell {
	c, ok := t.grid.CellAt(row, col, ignoreMerged)
	if !ok {
		return nil
	}
	return c
}

// CellsAt returns the cells touching a row and/or column; 0 matches any
func (t *Table) CellsAt(row, col int, ignoreMerged bool) []TableCell {
	return t.grid.CellsAt(row, col, ignoreMerged)
}

// RowAt returns one 1-based row. With repeatMultiRowCells a cell merged
// over several rows appears in each of them.
func (t *Table) RowAt(row int, repeatMultiRowCells bool) *Row {
	return &Row{cells: t.grid.RowAt(row, repeatMultiRowCells)}
}

// Rows returns every row from top to bottom
func (t *Table) Rows(repeatMultiRowCells bool) []*Row {
	rows := t.grid.Rows(repeatMultiRowCells)
	out := make([]*Row, len(rows))
	for i, cells := range rows {
		out[i] = &Row{cells: cells}
	}
	return out
}

// Cells returns the ungapped cells in (row, col) order
func (t *Table) Cells() []*Cell {
	grid := t.grid.Cells()
	out := make([]*Cell, len(grid))
	for i, c := range grid {
		out[i] = c.(*Cell)
	}
	return out
}

// MergedCells returns the merged cells in (row, col) order
func (t *Table) MergedCells() []*MergedCell {
	grid := t.grid.Merged()
	out := make([]*MergedCell, len(grid))
	for i, c := range grid {
		out[i] = c.(*MergedCell)
	}
	return out
}

// Titles returns the table titles
func (t *Table) Titles() []*TableTitle { return append([]*TableTitle(nil), t.titles...) }

// Footers returns the table footers
func (t *Table) Footers() []*TableFooter { return append([]*TableFooter(nil), t.footers...) }

// TableType returns STRUCTURED_TABLE, SEMI_STRUCTURED_TABLE, or "" when the
// table is untagged.
func (t *Table) TableType() (types.EntityType, error) {
	var structured, semi bool
	for _, et := range t.block.EntityTypes {
		switch et {
		case types.EntityTypeStructuredTable:
			structured = true
		case types.EntityTypeSemiStructuredTable:
			semi = true
		}
	}
	switch {
	case structured && semi:
		return "", fmt.Errorf("table %s: %w", t.ID(), ErrConflictingTableType)
	case structured:
		return types.EntityTypeStructuredTable, nil
	case semi:
		return types.EntityTypeSemiStructuredTable, nil
	}
	return "", nil
}

// StructureConfidence aggregates the confidence of the ungapped cells
func (t *Table) StructureConfidence(method AggregationMethod) float64 {
	cells := t.grid.Cells()
	scores := make([]float64, len(cells))
	for i, c := range cells {
		scores[i] = c.Confidence()
	}
	return Aggregate(scores, method)
}

// Words returns every word in the ungapped cells, in row-major order
func (t *Table) Words() []*Word {
	var out []*Word
	for _, c := range t.grid.Cells() {
		out = append(out, wordsOf(c.Content())...)
	}
	return out
}

// OCRConfidence aggregates the confidence of every word in the table
func (t *Table) OCRConfidence(method AggregationMethod) float64 {
	return OCRConfidence(t, method)
}

// Text renders the rows one per line with one tab-separated field per
// column. A merged cell's text sits at its starting position; the other
// positions it covers are empty fields, so columns line up across rows.
func (t *Table) Text() string {
	nRows, nCols := t.RowCount(), t.ColumnCount()
	texts := make([]string, nRows)
	for r := 1; r <= nRows; r++ {
		fields := make([]string, nCols)
		for c := 1; c <= nCols; c++ {
			cell := t.CellAt(r, c, false)
			if cell != nil && cell.RowIndex() == r && cell.ColumnIndex() == c {
				fields[c-1] = cell.Text()
			}
		}
		texts[r-1] = strings.Join(fields, "\t")
	}
	return strings.Join(texts, "\n")
}

var (
	_ TableCell = (*Cell)(nil)
	_ TableCell = (*MergedCell)(nil)
	_ WithWords = (*Cell)(nil)
	_ WithWords = (*MergedCell)(nil)

	_ WithBlock      = (*Table)(nil)
	_ WithGeometry   = (*Table)(nil)
	_ WithConfidence = (*Table)(nil)
	_ WithText       = (*Table)(nil)
	_ WithWords      = (*Table)(nil)

	_ WithWords = (*TableTitle)(nil)
	_ WithWords = (*TableFooter)(nil)
)
