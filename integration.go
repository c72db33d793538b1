// integration.go connects the region and reading-order analysis of the
// layout package to the Extractor's line selection
package trp

import (
	"github.com/tsawler/trp/model"
)

// AnalyzeDocument parses a saved analysis result with default settings and
// returns the document model along with any warnings.
//
// Example:
//
//	doc, warnings, err := trp.AnalyzeDocument("analysis.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, page := range doc.Pages() {
//	    fmt.Printf("Page %d: %d lines, %d tables\n",
//	        page.Number(), page.LineCount(), page.TableCount())
//	}
func AnalyzeDocument(path string) (*model.Document, []Warning, error) {
	return Open(path).Document()
}

// selectLines returns the lines of a page in the configured order, without
// the regions the caller asked to exclude
func (e *Extractor) selectLines(p *model.Page) []*model.Line {
	ordered := e.orderLines(p)
	if !e.options.excludeHeaders && !e.options.excludeFooters {
		return ordered
	}

	cfg := e.options.config
	areas := p.LinesByLayoutArea(model.AreaOptions{
		ReadingOrder: cfg.ReadingOrder,
		Header:       cfg.Header,
		Footer:       cfg.Footer,
	})

	drop := make(map[*model.Line]bool)
	if e.options.excludeHeaders {
		for _, l := range areas.Header {
			drop[l] = true
		}
	}
	if e.options.excludeFooters {
		for _, l := range areas.Footer {
			drop[l] = true
		}
	}

	out := make([]*model.Line, 0, len(ordered))
	for _, l := range ordered {
		if !drop[l] {
			out = append(out, l)
		}
	}
	return out
}

// orderLines picks between layout order, geometric reading order and the
// order the service returned
func (e *Extractor) orderLines(p *model.Page) []*model.Line {
	switch {
	case e.options.useLayout:
		return p.ReadingOrder(model.ReadingOrderOptions{
			UseLayout: true,
			Config:    e.options.config.ReadingOrder,
		})
	case e.options.inReadingOrder:
		return p.ReadingOrder(model.ReadingOrderOptions{Config: e.options.config.ReadingOrder})
	default:
		return p.Lines()
	}
}
