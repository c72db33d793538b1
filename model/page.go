package model

import (
	"fmt"
	"math"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/textract/types"

	"github.com/tsawler/trp/geometry"
	"github.com/tsawler/trp/resolver"
)

// linker is implemented by entities that follow relationships to other
// entities once every block on the page is registered
type linker interface {
	link(p *Page) error
}

// Page is one page of an analysed document, with its own block registry
type Page struct {
	blockEntity
	number   int
	registry *resolver.Registry

	lines      []*Line
	tables     []*Table
	fields     []*Field
	queries    []*Query
	signatures []*Signature
	layout     *Layout
	content    []Entity
}

// NewPage builds a page from its blocks. The first block must be the PAGE
// block. number is the 1-based page number used in warnings.
func NewPage(number int, blocks []types.Block, opts ...resolver.Option) (*Page, error) {
	if len(blocks) == 0 || blocks[0].BlockType != types.BlockTypePage {
		return nil, fmt.Errorf("page %d: first block is not a %s block", number, types.BlockTypePage)
	}

	opts = append(append([]resolver.Option(nil), opts...), resolver.WithPage(number))
	p := &Page{
		blockEntity: blockEntity{block: &blocks[0]},
		number:      number,
		registry:    resolver.NewRegistry(blocks, opts...),
	}

	// Register every entity from its own block before any linking
	var linkers []linker
	var keys []*Key
	var items []*LayoutItem
	for _, b := range p.registry.Blocks() {
		e := p.newEntity(b)
		p.registry.Register(e)
		if l, ok := e.(linker); ok {
			linkers = append(linkers, l)
		}

		switch v := e.(type) {
		case *Line:
			p.lines = append(p.lines, v)
			p.content = append(p.content, v)
		case *Table:
			p.tables = append(p.tables, v)
			p.content = append(p.content, v)
		case *Key:
			keys = append(keys, v)
			p.content = append(p.content, v)
		case *Query:
			p.queries = append(p.queries, v)
		case *Signature:
			p.signatures = append(p.signatures, v)
		case *LayoutItem:
			items = append(items, v)
		}
	}

	for _, l := range linkers {
		if err := l.link(p); err != nil {
			return nil, fmt.Errorf("page %d: %w", number, err)
		}
	}

	// Fields take the content slot of their key
	fieldByKey := make(map[*Key]*Field, len(keys))
	for _, k := range keys {
		f := newField(p, k)
		p.fields = append(p.fields, f)
		fieldByKey[k] = f
	}
	for i, e := range p.content {
		if k, ok := e.(*Key); ok {
			p.content[i] = fieldByKey[k]
		}
	}

	for _, item := range items {
		err := p.registry.Walk(item, layoutChildren, func(Entity, int) error { return nil })
		if err != nil {
			return nil, fmt.Errorf("page %d: layout item %s: %w", number, item.ID(), err)
		}
	}
	p.layout = newLayout(items)

	return p, nil
}

func layoutChildren(e Entity) []Entity {
	item, ok := e.(*LayoutItem)
	if !ok {
		return nil
	}
	var out []Entity
	for _, c := range item.children {
		if _, ok := c.(*LayoutItem); ok {
			out = append(out, c)
		}
	}
	return out
}

func (p *Page) newEntity(b *types.Block) Entity {
	base := blockEntity{block: b}
	switch b.BlockType {
	case types.BlockTypePage:
		if b == p.block {
			return p
		}
	case types.BlockTypeWord:
		return &Word{base}
	case types.BlockTypeLine:
		return &Line{blockEntity: base}
	case types.BlockTypeSelectionElement:
		return &SelectionElement{base}
	case types.BlockTypeSignature:
		return &Signature{base}
	case types.BlockTypeCell:
		return &Cell{cellBlock: cellBlock{base}}
	case types.BlockTypeMergedCell:
		return &MergedCell{cellBlock: cellBlock{base}}
	case types.BlockTypeTable:
		return &Table{blockEntity: base}
	case types.BlockTypeTableTitle:
		return &TableTitle{caption{blockEntity: base}}
	case types.BlockTypeTableFooter:
		return &TableFooter{caption{blockEntity: base}}
	case types.BlockTypeKeyValueSet:
		for _, et := range b.EntityTypes {
			switch et {
			case types.EntityTypeKey:
				return &Key{blockEntity: base}
			case types.EntityTypeValue:
				return &Value{blockEntity: base}
			}
		}
	case types.BlockTypeQuery:
		return &Query{blockEntity: base}
	case types.BlockTypeQueryResult:
		return &QueryResult{base}
	default:
		if IsLayoutType(b.BlockType) {
			return &LayoutItem{blockEntity: base}
		}
	}
	return &RawBlock{base}
}

func (p *Page) warn(w resolver.Warning) {
	p.registry.Warn(w)
}

// Related resolves the targets of one relationship type of an entity on
// this page, applying the page's reference policies. Anomalies found are
// recorded as page warnings, so Related must not run concurrently with
// other calls on the page.
func (p *Page) Related(e WithBlock, relType types.RelationshipType, f resolver.Filter) ([]Entity, error) {
	return p.registry.Related(e.Block(), relType, f)
}

// Number returns the 1-based page number
func (p *Page) Number() int { return p.number }

// Blocks returns the page's blocks in input order, the PAGE block first
func (p *Page) Blocks() []*types.Block {
	return p.registry.Blocks()
}

// EntityByID returns the entity for a block id on this page
func (p *Page) EntityByID(id string) (Entity, bool) {
	e, err := p.registry.Resolve(id)
	return e, err == nil
}

// Warnings returns the anomalies recorded while building and querying the page
func (p *Page) Warnings() []resolver.Warning {
	return p.registry.Warnings()
}

// Lines returns the lines in input order
func (p *Page) Lines() []*Line {
	return append([]*Line(nil), p.lines...)
}

// LineCount returns the number of lines
func (p *Page) LineCount() int { return len(p.lines) }

// LineAt returns the line at a 0-based index
func (p *Page) LineAt(i int) (*Line, error) {
	if err := checkIndex("line", i, len(p.lines)); err != nil {
		return nil, err
	}
	return p.lines[i], nil
}

// Tables returns the tables in input order
func (p *Page) Tables() []*Table {
	return append([]*Table(nil), p.tables...)
}

// TableCount returns the number of tables
func (p *Page) TableCount() int { return len(p.tables) }

// TableAt returns the table at a 0-based index
func (p *Page) TableAt(i int) (*Table, error) {
	if err := checkIndex("table", i, len(p.tables)); err != nil {
		return nil, err
	}
	return p.tables[i], nil
}

// Form returns the page's key-value fields
func (p *Page) Form() *Form { return NewForm(append([]*Field(nil), p.fields...)) }

// Queries returns the page's queries
func (p *Page) Queries() *QueryCollection {
	return NewQueryCollection(append([]*Query(nil), p.queries...))
}

// Layout returns the page's layout items
func (p *Page) Layout() *Layout { return p.layout }

// Signatures returns the detected signatures
func (p *Page) Signatures() []*Signature {
	return append([]*Signature(nil), p.signatures...)
}

// Content returns the lines, tables and fields of the page in block order
func (p *Page) Content() []Entity {
	return append([]Entity(nil), p.content...)
}

// Text joins the line texts with newlines
func (p *Page) Text() string {
	texts := make([]string, len(p.lines))
	for i, l := range p.lines {
		texts[i] = l.Text()
	}
	return strings.Join(texts, "\n")
}

// ModalWordOrientationDegrees returns the most common word orientation in
// whole degrees. ok is false when no word has a usable polygon.
func (p *Page) ModalWordOrientationDegrees() (degrees float64, ok bool) {
	var values []float64
	for _, l := range p.lines {
		for _, w := range l.words {
			if d, ok := w.Geometry().OrientationDegrees(); ok {
				values = append(values, math.Round(d))
			}
		}
	}
	if len(values) == 0 {
		return 0, false
	}
	return Aggregate(values, Mode), true
}

// pageBox is the region header and footer margins are measured against.
// Pages without geometry span the whole normalised sheet.
func (p *Page) pageBox() geometry.BBox {
	box := p.BBox()
	if box.IsEmpty() {
		return geometry.NewBBox(0, 0, 1, 1)
	}
	return box
}
