package trp

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/tsawler/trp/config"
	"github.com/tsawler/trp/model"
	"github.com/tsawler/trp/render"
	"github.com/tsawler/trp/resolver"
	"github.com/tsawler/trp/response"
)

// Extractor provides a fluent interface for reading analysis results.
// Each configuration method returns a new Extractor instance, so a base
// Extractor can be shared and specialised with method chaining.
type Extractor struct {
	// Source
	filename  string
	responses []*response.Response

	// Configuration
	options ExtractOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Extractor with a deep copy of options.
// This ensures immutability - each chain method returns a new instance.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename:  e.filename,
		responses: e.responses,
		options:   e.options.clone(),
		err:       e.err,
	}
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// Pages specifies which pages to extract from (1-indexed).
// Multiple calls are cumulative.
//
// Example:
//
//	text, _, err := trp.Open("analysis.json").Pages(1, 3, 5).Text()
func (e *Extractor) Pages(pages ...int) *Extractor {
	newExt := e.clone()
	newExt.options.pages = append(newExt.options.pages, pages...)
	return newExt
}

// PageRange specifies a range of pages to extract (1-indexed, inclusive).
//
// Example:
//
//	text, _, err := trp.Open("analysis.json").PageRange(5, 10).Text()
func (e *Extractor) PageRange(start, end int) *Extractor {
	newExt := e.clone()
	for i := start; i <= end; i++ {
		newExt.options.pages = append(newExt.options.pages, i)
	}
	return newExt
}

// ExcludeHeaders drops the lines of the detected page header from Text and
// Lines.
//
// Example:
//
//	text, _, err := trp.Open("analysis.json").ExcludeHeaders().Text()
func (e *Extractor) ExcludeHeaders() *Extractor {
	newExt := e.clone()
	newExt.options.excludeHeaders = true
	return newExt
}

// ExcludeFooters drops the lines of the detected page footer from Text and
// Lines.
//
// Example:
//
//	text, _, err := trp.Open("analysis.json").ExcludeFooters().Text()
func (e *Extractor) ExcludeFooters() *Extractor {
	newExt := e.clone()
	newExt.options.excludeFooters = true
	return newExt
}

// ExcludeHeadersAndFooters configures the extractor to exclude both
// detected headers and footers. This is a convenience method equivalent
// to calling ExcludeHeaders().ExcludeFooters().
//
// Example:
//
//	text, _, err := trp.Open("analysis.json").ExcludeHeadersAndFooters().Text()
func (e *Extractor) ExcludeHeadersAndFooters() *Extractor {
	newExt := e.clone()
	newExt.options.excludeHeaders = true
	newExt.options.excludeFooters = true
	return newExt
}

// InReadingOrder orders lines column by column, paragraph by paragraph,
// instead of the order the service returned them in. This is useful for
// multi-column documents like newspapers or academic papers.
//
// Example:
//
//	text, _, err := trp.Open("newspaper.json").InReadingOrder().Text()
func (e *Extractor) InReadingOrder() *Extractor {
	newExt := e.clone()
	newExt.options.inReadingOrder = true
	return newExt
}

// UseLayout orders lines by the layout items of each page when the
// analysis included layout, falling back to the geometric reading order
// for pages without them.
//
// Example:
//
//	text, _, err := trp.Open("analysis.json").UseLayout().Text()
func (e *Extractor) UseLayout() *Extractor {
	newExt := e.clone()
	newExt.options.useLayout = true
	return newExt
}

// WithConfig replaces the parser settings. The settings' UseLayout switch
// is honoured as if UseLayout had been called.
//
// Example:
//
//	cfg, err := config.Load("trp.yaml")
//	text, _, err := trp.Open("analysis.json").WithConfig(cfg).Text()
func (e *Extractor) WithConfig(cfg config.Config) *Extractor {
	newExt := e.clone()
	if err := cfg.Validate(); err != nil && newExt.err == nil {
		newExt.err = fmt.Errorf("invalid config: %w", err)
	}
	newExt.options.config = cfg
	if cfg.UseLayout {
		newExt.options.useLayout = true
	}
	return newExt
}

// WithConfigFile loads parser settings from a YAML file and applies TRP_*
// environment overrides on top. A bad file fails the terminal operation.
func (e *Extractor) WithConfigFile(path string) *Extractor {
	cfg, err := config.Load(path)
	if err != nil {
		newExt := e.clone()
		if newExt.err == nil {
			newExt.err = err
		}
		return newExt
	}
	cfg.ApplyEnv()
	return e.WithConfig(cfg)
}

// WithLogger sets the logger anomalies are reported to. Warnings are
// returned by terminal operations either way.
func (e *Extractor) WithLogger(l logrus.FieldLogger) *Extractor {
	newExt := e.clone()
	if l != nil {
		newExt.options.logger = l
	}
	return newExt
}

// StrictReferences turns dangling references and references to blocks of
// an unexpected type into errors instead of warnings.
func (e *Extractor) StrictReferences() *Extractor {
	newExt := e.clone()
	newExt.options.strict = true
	return newExt
}

// ============================================================================
// Terminal Operations
// ============================================================================

// PageCount returns the number of pages in the result.
//
// Example:
//
//	count, err := trp.Open("analysis.json").PageCount()
func (e *Extractor) PageCount() (int, error) {
	doc, _, err := e.Document()
	if err != nil {
		return 0, err
	}
	return doc.PageCount(), nil
}

// Document parses the result and returns the whole model. Page selection
// and line filtering do not apply.
//
// Example:
//
//	doc, warnings, err := trp.Open("analysis.json").Document()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	table, err := doc.Pages()[0].TableAt(0)
func (e *Extractor) Document() (*model.Document, []Warning, error) {
	doc, notes, err := e.parse()
	if err != nil {
		return nil, notes, err
	}
	return doc, append(notes, fromResolver(doc.Warnings())...), nil
}

// Text returns the text of the selected pages, one line per row and a
// blank row between pages.
//
// Example:
//
//	text, warnings, err := trp.Open("analysis.json").
//	    ExcludeHeadersAndFooters().
//	    InReadingOrder().
//	    Text()
func (e *Extractor) Text() (string, []Warning, error) {
	var texts []string
	warnings, err := e.eachPage(func(p *model.Page) {
		lines := e.selectLines(p)
		rows := make([]string, len(lines))
		for i, l := range lines {
			rows[i] = l.Text()
		}
		texts = append(texts, strings.Join(rows, "\n"))
	})
	if err != nil {
		return "", warnings, err
	}
	return strings.Join(texts, "\n\n"), warnings, nil
}

// Lines returns the lines of the selected pages, ordered and filtered as
// configured.
func (e *Extractor) Lines() ([]*model.Line, []Warning, error) {
	var out []*model.Line
	warnings, err := e.eachPage(func(p *model.Page) {
		out = append(out, e.selectLines(p)...)
	})
	return out, warnings, err
}

// Tables returns the tables of the selected pages.
//
// Example:
//
//	tables, _, err := trp.Open("invoice.json").Tables()
//	for _, t := range tables {
//	    fmt.Println(render.TableMarkdown(t))
//	}
func (e *Extractor) Tables() ([]*model.Table, []Warning, error) {
	var out []*model.Table
	warnings, err := e.eachPage(func(p *model.Page) {
		out = append(out, p.Tables()...)
	})
	return out, warnings, err
}

// Fields returns the form fields of the selected pages.
//
// Example:
//
//	fields, _, err := trp.Open("form.json").Fields()
//	for _, f := range fields {
//	    fmt.Printf("%s = %s\n", f.KeyText(), f.ValueText())
//	}
func (e *Extractor) Fields() ([]*model.Field, []Warning, error) {
	var out []*model.Field
	warnings, err := e.eachPage(func(p *model.Page) {
		out = append(out, p.Form().Fields()...)
	})
	return out, warnings, err
}

// Queries returns the queries of the selected pages with their answers.
//
// Example:
//
//	queries, _, err := trp.Open("analysis.json").Queries()
//	if q := queries.ByAlias("INVOICE_NO"); q != nil {
//	    if top, ok := q.TopResult(); ok {
//	        fmt.Println(top.Text())
//	    }
//	}
func (e *Extractor) Queries() (*model.QueryCollection, []Warning, error) {
	var out []*model.Query
	warnings, err := e.eachPage(func(p *model.Page) {
		out = append(out, p.Queries().Queries(false)...)
	})
	if err != nil {
		return nil, warnings, err
	}
	return model.NewQueryCollection(out), warnings, nil
}

// ToHTML renders the selected pages as semantic HTML.
func (e *Extractor) ToHTML() (string, []Warning, error) {
	var pages []*model.Page
	warnings, err := e.eachPage(func(p *model.Page) {
		pages = append(pages, p)
	})
	if err != nil {
		return "", warnings, err
	}
	out, err := render.PagesHTML(pages)
	return out, warnings, err
}

// ToMarkdown renders the selected pages as markdown, with tables as
// markdown tables.
func (e *Extractor) ToMarkdown() (string, []Warning, error) {
	var parts []string
	warnings, err := e.eachPage(func(p *model.Page) {
		if md := render.Markdown(p); md != "" {
			parts = append(parts, md)
		}
	})
	if err != nil {
		return "", warnings, err
	}
	return strings.Join(parts, "\n\n"), warnings, nil
}

// ============================================================================
// Internal helpers
// ============================================================================

// load reads and combines the response fragments
func (e *Extractor) load() (*response.Response, error) {
	logOpt := response.WithLogger(e.options.logger)
	if e.responses != nil {
		resp, err := response.Combine(e.responses, logOpt)
		if err != nil {
			return nil, err
		}
		if err := resp.Validate(); err != nil {
			return nil, err
		}
		return resp, nil
	}
	if e.filename == "" {
		return nil, fmt.Errorf("no filename specified")
	}
	return response.Open(e.filename, logOpt)
}

// parse builds the document; the returned warnings are the response notes
func (e *Extractor) parse() (*model.Document, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}
	resp, err := e.load()
	if err != nil {
		return nil, nil, err
	}
	notes := fromNotes(resp.Notes())

	opts, err := e.resolverOptions()
	if err != nil {
		return nil, notes, err
	}
	doc, err := model.NewDocument(resp.Blocks, opts...)
	if err != nil {
		return nil, notes, fmt.Errorf("failed to parse document: %w", err)
	}
	return doc, notes, nil
}

func (e *Extractor) resolverOptions() ([]resolver.Option, error) {
	opts, err := e.options.config.ResolverOptions()
	if err != nil {
		return nil, err
	}
	opts = append(opts, resolver.WithLogger(e.options.logger))
	if e.options.strict {
		opts = append(opts,
			resolver.WithMissingReferencePolicy(resolver.PolicyError),
			resolver.WithUnexpectedKindPolicy(resolver.PolicyError))
	}
	return opts, nil
}

// eachPage parses the document and calls fn for every selected page. The
// returned warnings include those raised while fn ran.
func (e *Extractor) eachPage(fn func(p *model.Page)) ([]Warning, error) {
	doc, notes, err := e.parse()
	if err != nil {
		return notes, err
	}
	pages, err := e.resolvePages(doc)
	if err != nil {
		return notes, err
	}
	for _, p := range pages {
		fn(p)
	}
	return append(notes, fromResolver(doc.Warnings())...), nil
}

// resolvePages validates the requested page numbers and returns the pages
// in document order. If no pages are specified, returns all pages.
func (e *Extractor) resolvePages(doc *model.Document) ([]*model.Page, error) {
	if len(e.options.pages) == 0 {
		return doc.Pages(), nil
	}

	seen := make(map[int]bool)
	var numbers []int
	for _, n := range e.options.pages {
		if n < 1 || n > doc.PageCount() {
			return nil, fmt.Errorf("page %d out of range (1-%d)", n, doc.PageCount())
		}
		if !seen[n] {
			seen[n] = true
			numbers = append(numbers, n)
		}
	}

	// Sort pages in order
	sort.Ints(numbers)
	out := make([]*model.Page, len(numbers))
	for i, n := range numbers {
		p, err := doc.PageNumber(n)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}
