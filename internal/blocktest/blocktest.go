// Package blocktest builds document-analysis block graphs for tests.
//
// Ids are random UUIDs, as in real service output, so tests cannot depend on
// id ordering by accident.
package blocktest

import (
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"
	"github.com/google/uuid"

	"github.com/tsawler/trp/geometry"
)

// DefaultConfidence is used for every block unless overridden
const DefaultConfidence = 99.0

// Builder accumulates blocks in the order they are added
type Builder struct {
	blocks []types.Block
	index  map[string]int
	page   string
}

// New creates an empty builder
func New() *Builder {
	return &Builder{index: make(map[string]int)}
}

// NewID returns a fresh block id
func NewID() string {
	return uuid.NewString()
}

// Box is a shorthand for geometry.NewBBox
func Box(left, top, width, height float64) geometry.BBox {
	return geometry.NewBBox(left, top, width, height)
}

// Geometry converts a box into a wire geometry with a clockwise polygon
// starting at the top-left corner.
func Geometry(b geometry.BBox) *types.Geometry {
	return &types.Geometry{
		BoundingBox: &types.BoundingBox{
			Left:   float32(b.Left),
			Top:    float32(b.Top),
			Width:  float32(b.Width),
			Height: float32(b.Height),
		},
		Polygon: []types.Point{
			{X: float32(b.Left), Y: float32(b.Top)},
			{X: float32(b.Right()), Y: float32(b.Top)},
			{X: float32(b.Right()), Y: float32(b.Bottom())},
			{X: float32(b.Left), Y: float32(b.Bottom())},
		},
	}
}

// Add appends a raw block, assigning an id when it has none, and returns the id
func (b *Builder) Add(block types.Block) string {
	if aws.ToString(block.Id) == "" {
		block.Id = aws.String(NewID())
	}
	if block.Confidence == nil {
		block.Confidence = aws.Float32(DefaultConfidence)
	}
	id := aws.ToString(block.Id)
	b.index[id] = len(b.blocks)
	b.blocks = append(b.blocks, block)
	return id
}

// Block returns a pointer to a previously added block, or nil
func (b *Builder) Block(id string) *types.Block {
	i, ok := b.index[id]
	if !ok {
		return nil
	}
	return &b.blocks[i]
}

// Blocks returns a copy of the accumulated blocks
func (b *Builder) Blocks() []types.Block {
	return append([]types.Block(nil), b.blocks...)
}

// Relate appends a relationship from one block to others. Missing target
// ids are allowed so tests can build dangling references.
func (b *Builder) Relate(id string, relType types.RelationshipType, ids ...string) {
	blk := b.Block(id)
	if blk == nil || len(ids) == 0 {
		return
	}
	for i := range blk.Relationships {
		if blk.Relationships[i].Type == relType {
			blk.Relationships[i].Ids = append(blk.Relationships[i].Ids, ids...)
			return
		}
	}
	blk.Relationships = append(blk.Relationships, types.Relationship{Type: relType, Ids: ids})
}

func (b *Builder) pageChild(id string) {
	if b.page != "" {
		b.Relate(b.page, types.RelationshipTypeChild, id)
	}
}

// Page starts a new page covering the whole sheet
func (b *Builder) Page() string {
	id := b.Add(types.Block{BlockType: types.BlockTypePage, Geometry: Geometry(Box(0, 0, 1, 1))})
	b.page = id
	return id
}

// Word adds a WORD block
func (b *Builder) Word(text string, box geometry.BBox) string {
	return b.Add(types.Block{
		BlockType: types.BlockTypeWord,
		Text:      aws.String(text),
		TextType:  types.TextTypePrinted,
		Geometry:  Geometry(box),
	})
}

// Line adds a LINE block with WORD children made by splitting text on
// spaces and dividing the box evenly between them.
func (b *Builder) Line(text string, box geometry.BBox) string {
	fields := strings.Fields(text)
	wordIDs := make([]string, 0, len(fields))
	if n := len(fields); n > 0 {
		w := box.Width / float64(n)
		for i, f := range fields {
			wordIDs = append(wordIDs, b.Word(f, Box(box.Left+float64(i)*w, box.Top, w, box.Height)))
		}
	}
	return b.LineOf(text, box, wordIDs...)
}

// LineOf adds a LINE block with explicit children
func (b *Builder) LineOf(text string, box geometry.BBox, childIDs ...string) string {
	id := b.Add(types.Block{
		BlockType: types.BlockTypeLine,
		Text:      aws.String(text),
		Geometry:  Geometry(box),
	})
	b.Relate(id, types.RelationshipTypeChild, childIDs...)
	b.pageChild(id)
	return id
}

// Selection adds a SELECTION_ELEMENT block
func (b *Builder) Selection(status types.SelectionStatus, box geometry.BBox) string {
	return b.Add(types.Block{
		BlockType:       types.BlockTypeSelectionElement,
		SelectionStatus: status,
		Geometry:        Geometry(box),
	})
}

// Signature adds a SIGNATURE block
func (b *Builder) Signature(box geometry.BBox) string {
	id := b.Add(types.Block{BlockType: types.BlockTypeSignature, Geometry: Geometry(box)})
	b.pageChild(id)
	return id
}

// Cell adds an unmerged CELL block
func (b *Builder) Cell(row, col int, box geometry.BBox, childIDs ...string) string {
	id := b.Add(types.Block{
		BlockType:   types.BlockTypeCell,
		RowIndex:    aws.Int32(int32(row)),
		ColumnIndex: aws.Int32(int32(col)),
		RowSpan:     aws.Int32(1),
		ColumnSpan:  aws.Int32(1),
		Geometry:    Geometry(box),
	})
	b.Relate(id, types.RelationshipTypeChild, childIDs...)
	return id
}

// MergedCell adds a MERGED_CELL block covering the given cells
func (b *Builder) MergedCell(row, col, rowSpan, colSpan int, box geometry.BBox, cellIDs ...string) string {
	id := b.Add(types.Block{
		BlockType:   types.BlockTypeMergedCell,
		RowIndex:    aws.Int32(int32(row)),
		ColumnIndex: aws.Int32(int32(col)),
		RowSpan:     aws.Int32(int32(rowSpan)),
		ColumnSpan:  aws.Int32(int32(colSpan)),
		Geometry:    Geometry(box),
	})
	b.Relate(id, types.RelationshipTypeChild, cellIDs...)
	return id
}

// Table adds a TABLE block over cells and merged cells
func (b *Builder) Table(box geometry.BBox, cellIDs, mergedIDs []string, entityTypes ...types.EntityType) string {
	id := b.Add(types.Block{
		BlockType:   types.BlockTypeTable,
		Geometry:    Geometry(box),
		EntityTypes: entityTypes,
	})
	b.Relate(id, types.RelationshipTypeChild, cellIDs...)
	b.Relate(id, types.RelationshipTypeMergedCell, mergedIDs...)
	b.pageChild(id)
	return id
}

// Grid adds a table of unmerged cells whose texts are given row by row and
// returns the table id and the cell ids indexed [row][col]. Empty strings
// produce empty cells.
func (b *Builder) Grid(box geometry.BBox, texts [][]string) (string, [][]string) {
	nRows := len(texts)
	cellIDs := make([][]string, nRows)
	var flat []string
	for r, row := range texts {
		h := box.Height / float64(nRows)
		w := box.Width / float64(len(row))
		cellIDs[r] = make([]string, len(row))
		for c, text := range row {
			cb := Box(box.Left+float64(c)*w, box.Top+float64(r)*h, w, h)
			var words []string
			for _, f := range strings.Fields(text) {
				words = append(words, b.Word(f, cb))
			}
			cellIDs[r][c] = b.Cell(r+1, c+1, cb, words...)
			flat = append(flat, cellIDs[r][c])
		}
	}
	return b.Table(box, flat, nil), cellIDs
}

// Caption adds a TABLE_TITLE or TABLE_FOOTER block and links it from the table
func (b *Builder) Caption(tableID string, kind types.BlockType, text string, box geometry.BBox) string {
	var words []string
	for _, f := range strings.Fields(text) {
		words = append(words, b.Word(f, box))
	}
	id := b.Add(types.Block{BlockType: kind, Geometry: Geometry(box)})
	b.Relate(id, types.RelationshipTypeChild, words...)
	rel := types.RelationshipTypeTableTitle
	if kind == types.BlockTypeTableFooter {
		rel = types.RelationshipTypeTableFooter
	}
	b.Relate(tableID, rel, id)
	return id
}

// Value adds a KEY_VALUE_SET block tagged VALUE
func (b *Builder) Value(box geometry.BBox, childIDs ...string) string {
	id := b.Add(types.Block{
		BlockType:   types.BlockTypeKeyValueSet,
		EntityTypes: []types.EntityType{types.EntityTypeValue},
		Geometry:    Geometry(box),
	})
	b.Relate(id, types.RelationshipTypeChild, childIDs...)
	b.pageChild(id)
	return id
}

// Key adds a KEY_VALUE_SET block tagged KEY with one word per field of
// text, linked to the given values.
func (b *Builder) Key(text string, box geometry.BBox, valueIDs ...string) string {
	var words []string
	for _, f := range strings.Fields(text) {
		words = append(words, b.Word(f, box))
	}
	id := b.Add(types.Block{
		BlockType:   types.BlockTypeKeyValueSet,
		EntityTypes: []types.EntityType{types.EntityTypeKey},
		Geometry:    Geometry(box),
	})
	b.Relate(id, types.RelationshipTypeChild, words...)
	b.Relate(id, types.RelationshipTypeValue, valueIDs...)
	b.pageChild(id)
	return id
}

// Field adds a key with a text value and returns the key id
func (b *Builder) Field(key, value string, box geometry.BBox) string {
	var words []string
	for _, f := range strings.Fields(value) {
		words = append(words, b.Word(f, box))
	}
	return b.Key(key, box, b.Value(box, words...))
}

// Layout adds a LAYOUT_* block with the given children
func (b *Builder) Layout(kind types.BlockType, box geometry.BBox, childIDs ...string) string {
	id := b.Add(types.Block{BlockType: kind, Geometry: Geometry(box)})
	b.Relate(id, types.RelationshipTypeChild, childIDs...)
	b.pageChild(id)
	return id
}

// QueryResult adds a QUERY_RESULT block
func (b *Builder) QueryResult(text string, confidence float32) string {
	return b.Add(types.Block{
		BlockType:  types.BlockTypeQueryResult,
		Text:       aws.String(text),
		Confidence: aws.Float32(confidence),
	})
}

// Query adds a QUERY block answered by the given results
func (b *Builder) Query(question, alias string, resultIDs ...string) string {
	q := &types.Query{Text: aws.String(question)}
	if alias != "" {
		q.Alias = aws.String(alias)
	}
	id := b.Add(types.Block{BlockType: types.BlockTypeQuery, Query: q})
	b.Relate(id, types.RelationshipTypeAnswer, resultIDs...)
	b.pageChild(id)
	return id
}
