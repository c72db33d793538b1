package render

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/textract/types"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tsawler/trp/model"
)

// ErrUnsupported is returned for values that have no markup
var ErrUnsupported = errors.New("render: unsupported value")

// HTML renders an entity as semantic HTML
func HTML(v any) (string, error) {
	n, err := Node(v)
	if err != nil {
		return "", err
	}
	return serialize(n)
}

// PagesHTML renders a selection of pages as one HTML document
func PagesHTML(pages []*model.Page) (string, error) {
	return serialize(pagesNode(pages))
}

func serialize(n *html.Node) (string, error) {
	var sb strings.Builder
	if err := html.Render(&sb, n); err != nil {
		return "", fmt.Errorf("rendering HTML: %w", err)
	}
	return sb.String(), nil
}

// Node builds the markup tree for an entity. Documents, pages, layouts,
// layout items, tables, fields and lines have dedicated markup; any other
// entity with text becomes a paragraph.
func Node(v any) (*html.Node, error) {
	switch e := v.(type) {
	case *model.Document:
		return pagesNode(e.Pages()), nil
	case *model.Page:
		return pageNode(e), nil
	case *model.Layout:
		div := element(atom.Div, class("layout"))
		for _, item := range e.Items(false) {
			div.AppendChild(layoutItemNode(item))
		}
		return div, nil
	case *model.LayoutItem:
		return layoutItemNode(e), nil
	case *model.Table:
		return tableNode(e), nil
	case *model.Field:
		return fieldNode(e), nil
	case model.WithText:
		return textElement(atom.P, e.Text()), nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupported, v)
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func textElement(a atom.Atom, text string, attrs ...html.Attribute) *html.Node {
	n := element(a, attrs...)
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return n
}

func class(name string) html.Attribute {
	return html.Attribute{Key: "class", Val: name}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

func pagesNode(pages []*model.Page) *html.Node {
	root := element(atom.Html)
	body := element(atom.Body)
	root.AppendChild(body)
	for _, p := range pages {
		body.AppendChild(pageNode(p))
	}
	return root
}

// pageNode renders the layout items when the page has any, and the page
// content in block order otherwise
func pageNode(p *model.Page) *html.Node {
	div := element(atom.Div, class("page"), attr("data-page", strconv.Itoa(p.Number())))

	if items := p.Layout().Items(false); len(items) > 0 {
		for _, item := range items {
			div.AppendChild(layoutItemNode(item))
		}
		return div
	}

	for _, e := range p.Content() {
		switch v := e.(type) {
		case *model.Table:
			div.AppendChild(tableNode(v))
		case *model.Field:
			div.AppendChild(fieldNode(v))
		case model.WithText:
			div.AppendChild(textElement(atom.P, v.Text()))
		}
	}
	return div
}

func layoutItemNode(item *model.LayoutItem) *html.Node {
	switch item.Kind() {
	case types.BlockTypeLayoutTitle:
		return textElement(atom.H1, item.Text())
	case types.BlockTypeLayoutSectionHeader:
		return textElement(atom.H2, item.Text())
	case types.BlockTypeLayoutHeader:
		return textElement(atom.Div, item.Text(), class("header-el"))
	case types.BlockTypeLayoutFooter:
		return textElement(atom.Div, item.Text(), class("footer-el"))
	case types.BlockTypeLayoutPageNumber:
		return textElement(atom.Div, item.Text(), class("page-num"))
	case types.BlockTypeLayoutFigure:
		return textElement(atom.Div, item.Text(), class("figure"))
	case types.BlockTypeLayoutList:
		ul := element(atom.Ul)
		for _, entry := range item.LayoutChildren(false) {
			li := element(atom.Li)
			li.AppendChild(layoutItemNode(entry))
			ul.AppendChild(li)
		}
		return ul
	case types.BlockTypeLayoutKeyValue:
		div := element(atom.Div, class("key-value"))
		fields := item.Fields()
		if len(fields) == 0 {
			div.AppendChild(textElement(atom.P, item.Text()))
		}
		for _, f := range fields {
			div.AppendChild(fieldNode(f))
		}
		return div
	case types.BlockTypeLayoutTable:
		div := element(atom.Div, class("table"))
		tables := item.Tables()
		if len(tables) == 0 {
			div.AppendChild(textElement(atom.P, item.Text()))
		}
		for _, t := range tables {
			div.AppendChild(tableNode(t))
		}
		return div
	default:
		return textElement(atom.P, item.Text())
	}
}

// fieldNode renders a field as a label and an input. A value holding a
// single selection element becomes a checkbox.
func fieldNode(f *model.Field) *html.Node {
	div := element(atom.Div, class("field"))
	div.AppendChild(textElement(atom.Label, f.KeyText()))

	if f.Value != nil {
		if content := f.Value.Content(); len(content) == 1 {
			if sel, ok := content[0].(*model.SelectionElement); ok {
				input := element(atom.Input, attr("type", "checkbox"), attr("disabled", ""))
				if sel.IsSelected() {
					input.Attr = append(input.Attr, attr("checked", ""))
				}
				div.AppendChild(input)
				return div
			}
		}
	}

	div.AppendChild(element(atom.Input, attr("type", "text"), attr("disabled", ""), attr("value", f.ValueText())))
	return div
}

// tableNode renders each cell once, at its starting row, spanning the
// positions it covers
func tableNode(t *model.Table) *html.Node {
	table := element(atom.Table)

	if titles := t.Titles(); len(titles) > 0 {
		texts := make([]string, len(titles))
		for i, title := range titles {
			texts[i] = title.Text()
		}
		table.AppendChild(textElement(atom.Caption, strings.Join(texts, " ")))
	}

	body := element(atom.Tbody)
	table.AppendChild(body)
	for _, row := range t.Rows(false) {
		tr := element(atom.Tr)
		for _, c := range row.Cells() {
			tag := atom.Td
			if isHeaderCell(c) {
				tag = atom.Th
			}
			var attrs []html.Attribute
			if c.ColumnSpan() > 1 {
				attrs = append(attrs, attr("colspan", strconv.Itoa(c.ColumnSpan())))
			}
			if c.RowSpan() > 1 {
				attrs = append(attrs, attr("rowspan", strconv.Itoa(c.RowSpan())))
			}
			tr.AppendChild(textElement(tag, c.Text(), attrs...))
		}
		body.AppendChild(tr)
	}

	if footers := t.Footers(); len(footers) > 0 {
		tfoot := element(atom.Tfoot)
		for _, footer := range footers {
			tr := element(atom.Tr)
			tr.AppendChild(textElement(atom.Td, footer.Text(), attr("colspan", strconv.Itoa(t.ColumnCount()))))
			tfoot.AppendChild(tr)
		}
		table.AppendChild(tfoot)
	}
	return table
}

func isHeaderCell(c model.TableCell) bool {
	if c.HasEntityTypes(types.EntityTypeColumnHeader) {
		return true
	}
	if m, ok := c.(*model.MergedCell); ok {
		for _, sub := range m.Cells() {
			if sub.IsColumnHeader() {
				return true
			}
		}
	}
	return false
}
