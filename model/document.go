package model

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"

	"github.com/tsawler/trp/resolver"
)

// Document is a parsed analysis result, split into pages
type Document struct {
	blocks   []types.Block
	pages    []*Page
	warnings []resolver.Warning
}

// NewDocument partitions blocks into pages at each PAGE block and builds
// every page. Blocks ahead of the first PAGE block belong to no page; they
// are reported and otherwise ignored.
//
// The document keeps the given slice: setters on entities write into it.
func NewDocument(blocks []types.Block, opts ...resolver.Option) (*Document, error) {
	if len(blocks) == 0 {
		return nil, ErrNoContent
	}

	var starts []int
	for i := range blocks {
		if blocks[i].BlockType == types.BlockTypePage {
			starts = append(starts, i)
		}
	}

	d := &Document{blocks: blocks}

	first := len(blocks)
	if len(starts) > 0 {
		first = starts[0]
	}
	if first > 0 {
		orphans := resolver.NewRegistry(blocks[:first], opts...)
		for _, b := range blocks[:first] {
			orphans.Warn(resolver.Warning{
				Code:      resolver.CodeOrphanBlock,
				BlockID:   aws.ToString(b.Id),
				BlockType: b.BlockType,
				Message: fmt.Sprintf("%s block %s precedes the first %s block and belongs to no page",
					b.BlockType, aws.ToString(b.Id), types.BlockTypePage),
			})
		}
		d.warnings = orphans.Warnings()
	}

	for n, start := range starts {
		end := len(blocks)
		if n+1 < len(starts) {
			end = starts[n+1]
		}
		page, err := NewPage(n+1, blocks[start:end], opts...)
		if err != nil {
			return nil, err
		}
		d.pages = append(d.pages, page)
	}

	return d, nil
}

// Pages returns the pages in order
func (d *Document) Pages() []*Page {
	return append([]*Page(nil), d.pages...)
}

// PageCount returns the number of pages
func (d *Document) PageCount() int {
	return len(d.pages)
}

// PageNumber returns a page by its 1-based number
func (d *Document) PageNumber(n int) (*Page, error) {
	if n < 1 || n > len(d.pages) {
		return nil, &IndexError{Kind: "page", Index: n, Len: len(d.pages), OneBased: true}
	}
	return d.pages[n-1], nil
}

// Blocks returns the underlying blocks
func (d *Document) Blocks() []types.Block {
	return d.blocks
}

// BlockByID returns a block on any page
func (d *Document) BlockByID(id string) (*types.Block, bool) {
	for _, p := range d.pages {
		if e, ok := p.EntityByID(id); ok {
			if wb, ok := e.(WithBlock); ok {
				return wb.Block(), true
			}
		}
	}
	return nil, false
}

// Form returns the fields of every page
func (d *Document) Form() *Form {
	var fields []*Field
	for _, p := range d.pages {
		fields = append(fields, p.fields...)
	}
	return NewForm(fields)
}

// Queries returns the queries of every page
func (d *Document) Queries() *QueryCollection {
	var queries []*Query
	for _, p := range d.pages {
		queries = append(queries, p.queries...)
	}
	return NewQueryCollection(queries)
}

// Warnings returns every recorded anomaly, document-level first and then
// page by page
func (d *Document) Warnings() []resolver.Warning {
	out := append([]resolver.Warning(nil), d.warnings...)
	for _, p := range d.pages {
		out = append(out, p.Warnings()...)
	}
	return out
}

// Text joins the page texts with blank lines
func (d *Document) Text() string {
	texts := make([]string, len(d.pages))
	for i, p := range d.pages {
		texts[i] = p.Text()
	}
	return strings.Join(texts, "\n\n")
}
