package model

import (
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/textract/types"

	"github.com/tsawler/trp/resolver"
)

// LayoutTypes lists the block types of layout items
var LayoutTypes = []types.BlockType{
	types.BlockTypeLayoutTitle,
	types.BlockTypeLayoutHeader,
	types.BlockTypeLayoutFooter,
	types.BlockTypeLayoutSectionHeader,
	types.BlockTypeLayoutPageNumber,
	types.BlockTypeLayoutList,
	types.BlockTypeLayoutFigure,
	types.BlockTypeLayoutTable,
	types.BlockTypeLayoutKeyValue,
	types.BlockTypeLayoutText,
}

// IsLayoutType reports whether bt is one of the LAYOUT_* block types
func IsLayoutType(bt types.BlockType) bool {
	for _, lt := range LayoutTypes {
		if bt == lt {
			return true
		}
	}
	return false
}

// LayoutItem is a region of the page tagged by layout analysis. The block
// type tells which kind of region it is; list items are themselves layout
// items nested under a LAYOUT_LIST.
type LayoutItem struct {
	blockEntity
	page     *Page
	children []Entity
}

func (l *LayoutItem) link(p *Page) error {
	l.page = p
	kinds := append([]types.BlockType{types.BlockTypeLine}, LayoutTypes...)
	children, err := p.Related(l, types.RelationshipTypeChild, resolver.Only(kinds...))
	l.children = children
	return err
}

// Kind returns the LAYOUT_* block type
func (l *LayoutItem) Kind() types.BlockType { return l.block.BlockType }

// Children returns the direct children, lines and nested layout items, in order
func (l *LayoutItem) Children() []Entity {
	return append([]Entity(nil), l.children...)
}

// LayoutChildren returns the nested layout items. With deep, descendants
// follow their parent depth first.
func (l *LayoutItem) LayoutChildren(deep bool) []*LayoutItem {
	var out []*LayoutItem
	for _, c := range l.children {
		item, ok := c.(*LayoutItem)
		if !ok {
			continue
		}
		out = append(out, item)
		if deep {
			out = append(out, item.LayoutChildren(true)...)
		}
	}
	return out
}

// Lines returns every line under the item, descending into nested items
func (l *LayoutItem) Lines() []*Line {
	var out []*Line
	for _, c := range l.children {
		switch v := c.(type) {
		case *Line:
			out = append(out, v)
		case *LayoutItem:
			out = append(out, v.Lines()...)
		}
	}
	return out
}

// Words returns the words of every line under the item
func (l *LayoutItem) Words() []*Word {
	var out []*Word
	for _, line := range l.Lines() {
		out = append(out, line.words...)
	}
	return out
}

// Text joins the line texts with newlines. A list renders each entry as a
// "  - " bullet with continuation lines indented four spaces.
func (l *LayoutItem) Text() string {
	if l.Kind() == types.BlockTypeLayoutList {
		entries := l.LayoutChildren(false)
		texts := make([]string, len(entries))
		for i, e := range entries {
			texts[i] = "  - " + strings.ReplaceAll(e.Text(), "\n", "\n    ")
		}
		return strings.Join(texts, "\n")
	}

	var texts []string
	for _, c := range l.children {
		if line, ok := c.(*Line); ok {
			texts = append(texts, line.Text())
		}
	}
	return strings.Join(texts, "\n")
}

// Fields returns the form fields whose words appear in a LAYOUT_KEY_VALUE
// item, in the order they are first mentioned. It is empty for other kinds
// or when no form analysis was run.
func (l *LayoutItem) Fields() []*Field {
	if l.Kind() != types.BlockTypeLayoutKeyValue {
		return nil
	}
	byWord := make(map[string]*Field)
	for _, f := range l.page.fields {
		for _, id := range fieldContentIDs(f) {
			byWord[id] = f
		}
	}

	var out []*Field
	seen := make(map[*Field]bool)
	for _, w := range l.Words() {
		if f, ok := byWord[w.ID()]; ok && !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}

func fieldContentIDs(f *Field) []string {
	var ids []string
	for _, w := range f.Key.words {
		ids = append(ids, w.ID())
	}
	if f.Value != nil {
		for _, c := range f.Value.content {
			ids = append(ids, c.ID())
		}
	}
	return ids
}

// Tables returns the tables whose words appear in a LAYOUT_TABLE item,
// usually just one. It is empty for other kinds or when no table analysis
// was run.
func (l *LayoutItem) Tables() []*Table {
	if l.Kind() != types.BlockTypeLayoutTable {
		return nil
	}
	byWord := make(map[string]*Table)
	for _, t := range l.page.tables {
		for _, id := range tableContentIDs(t) {
			byWord[id] = t
		}
	}

	var out []*Table
	seen := make(map[*Table]bool)
	for _, w := range l.Words() {
		if t, ok := byWord[w.ID()]; ok && !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

func tableContentIDs(t *Table) []string {
	var ids []string
	for _, title := range t.titles {
		for _, w := range title.words {
			ids = append(ids, w.ID())
		}
	}
	for _, c := range t.grid.Cells() {
		for _, e := range c.Content() {
			ids = append(ids, e.ID())
		}
	}
	for _, footer := range t.footers {
		for _, w := range footer.words {
			ids = append(ids, w.ID())
		}
	}
	return ids
}

// Layout is the set of layout items on a page
type Layout struct {
	items  []*LayoutItem
	nested map[string]bool
}

func newLayout(items []*LayoutItem) *Layout {
	l := &Layout{items: items, nested: make(map[string]bool)}
	for _, item := range items {
		for _, c := range item.LayoutChildren(true) {
			l.nested[c.ID()] = true
		}
	}
	return l
}

// Items returns the layout items in page order. Without deep, items nested
// inside another item (list entries) are left out.
func (l *Layout) Items(deep bool) []*LayoutItem {
	if deep {
		return append([]*LayoutItem(nil), l.items...)
	}
	var out []*LayoutItem
	for _, item := range l.items {
		if !l.nested[item.ID()] {
			out = append(out, item)
		}
	}
	return out
}

// ItemCount returns the number of top-level items
func (l *Layout) ItemCount() int {
	return len(l.Items(false))
}

// Text joins the texts of the top-level items with blank lines
func (l *Layout) Text() string {
	items := l.Items(false)
	texts := make([]string, len(items))
	for i, item := range items {
		texts[i] = item.Text()
	}
	return strings.Join(texts, "\n\n")
}

var (
	_ WithBlock      = (*LayoutItem)(nil)
	_ WithGeometry   = (*LayoutItem)(nil)
	_ WithConfidence = (*LayoutItem)(nil)
	_ WithText       = (*LayoutItem)(nil)
	_ WithWords      = (*LayoutItem)(nil)
)
