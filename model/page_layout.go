package model

import (
	"strings"

	"github.com/tsawler/trp/layout"
)

func textLines(lines []*Line) []layout.TextLine {
	out := make([]layout.TextLine, len(lines))
	for i, l := range lines {
		out[i] = layout.TextLine{ID: l.ID(), Text: l.Text(), BBox: l.BBox()}
	}
	return out
}

func pick(lines []*Line, indices []int) []*Line {
	out := make([]*Line, len(indices))
	for i, ix := range indices {
		out[i] = lines[ix]
	}
	return out
}

// LineClustersInReadingOrder groups the page lines into paragraphs and
// returns the paragraphs in reading order
func (p *Page) LineClustersInReadingOrder(cfg layout.ReadingOrderConfig) [][]*Line {
	return clustersInReadingOrder(p.lines, cfg)
}

func clustersInReadingOrder(lines []*Line, cfg layout.ReadingOrderConfig) [][]*Line {
	result := layout.NewReadingOrderDetectorWithConfig(cfg).Detect(textLines(lines))
	out := make([][]*Line, len(result.Paragraphs))
	for i, para := range result.Paragraphs {
		out[i] = pick(lines, para.Lines)
	}
	return out
}

// TextInReadingOrder renders the page text in reading order, one line per
// row and a blank row between paragraphs
func (p *Page) TextInReadingOrder(cfg layout.ReadingOrderConfig) string {
	clusters := p.LineClustersInReadingOrder(cfg)
	paras := make([]string, len(clusters))
	for i, cluster := range clusters {
		texts := make([]string, len(cluster))
		for j, l := range cluster {
			texts[j] = l.Text()
		}
		paras[i] = strings.Join(texts, "\n")
	}
	return strings.Join(paras, "\n\n")
}

// ReadingOrderOptions selects how reading order is determined
type ReadingOrderOptions struct {
	// UseLayout follows the layout items of the page when it has any,
	// instead of the geometric heuristic
	UseLayout bool

	// Config tunes the geometric heuristic
	Config layout.ReadingOrderConfig
}

// ReadingOrder returns every line of the page exactly once, in reading
// order. With UseLayout and layout items present, lines follow the
// top-level layout items, and lines outside every item come last in input
// order.
func (p *Page) ReadingOrder(opts ReadingOrderOptions) []*Line {
	items := p.layout.Items(false)
	if !opts.UseLayout || len(items) == 0 {
		var out []*Line
		for _, cluster := range p.LineClustersInReadingOrder(opts.Config) {
			out = append(out, cluster...)
		}
		return out
	}

	seen := make(map[*Line]bool, len(p.lines))
	var out []*Line
	for _, item := range items {
		for _, l := range item.Lines() {
			if !seen[l] {
				seen[l] = true
				out = append(out, l)
			}
		}
	}
	for _, l := range p.lines {
		if !seen[l] {
			out = append(out, l)
		}
	}
	return out
}

// HeaderLines returns the lines that form the running header, in input order
func (p *Page) HeaderLines(cfg layout.HeaderFooterConfig) []*Line {
	return p.regionLines(layout.Header, cfg)
}

// FooterLines returns the lines that form the running footer, in input order
func (p *Page) FooterLines(cfg layout.HeaderFooterConfig) []*Line {
	return p.regionLines(layout.Footer, cfg)
}

func (p *Page) regionLines(region layout.RegionType, cfg layout.HeaderFooterConfig) []*Line {
	found := layout.NewHeaderFooterDetectorWithConfig(cfg).Detect(region, p.pageBox(), textLines(p.lines))
	keep := make(map[int]bool, len(found))
	for _, ix := range found {
		keep[ix] = true
	}
	var out []*Line
	for i, l := range p.lines {
		if keep[i] {
			out = append(out, l)
		}
	}
	return out
}

// LinesByArea holds the lines of a page split into regions
type LinesByArea struct {
	Header  []*Line
	Content []*Line
	Footer  []*Line
}

// AreaOptions configures LinesByLayoutArea
type AreaOptions struct {
	// InReadingOrder orders each region by reading order instead of input order
	InReadingOrder bool
	ReadingOrder   layout.ReadingOrderConfig
	Header         layout.HeaderFooterConfig
	Footer         layout.HeaderFooterConfig
}

// LinesByLayoutArea splits the page into header, content and footer. The
// footer is looked for among the lines not already in the header. Every
// line ends up in exactly one region.
func (p *Page) LinesByLayoutArea(opts AreaOptions) LinesByArea {
	source := p.lines
	if opts.InReadingOrder {
		source = nil
		for _, cluster := range p.LineClustersInReadingOrder(opts.ReadingOrder) {
			source = append(source, cluster...)
		}
	}

	seg := layout.Segment(p.pageBox(), textLines(source), opts.Header, opts.Footer)
	return LinesByArea{
		Header:  pick(source, seg.Header),
		Content: pick(source, seg.Content),
		Footer:  pick(source, seg.Footer),
	}
}

// DefaultAreaOptions returns raw-order options with default detector settings
func DefaultAreaOptions() AreaOptions {
	return AreaOptions{
		ReadingOrder: layout.DefaultReadingOrderConfig(),
		Header:       layout.DefaultHeaderFooterConfig(),
		Footer:       layout.DefaultHeaderFooterConfig(),
	}
}
