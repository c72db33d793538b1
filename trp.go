// Package trp provides a fluent API for reading document analysis results:
// text, tables, form fields and query answers, in reading order and without
// page furniture when asked.
//
// Basic usage:
//
//	text, warnings, err := trp.Open("analysis.json").Text()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", trp.FormatWarnings(warnings))
//	}
//
// With options:
//
//	text, _, err := trp.Open("analysis.json").
//	    Pages(1, 2, 3).
//	    ExcludeHeadersAndFooters().
//	    InReadingOrder().
//	    Text()
//
// For advanced use cases, the lower-level response and model packages are
// also available.
package trp

import (
	"io"

	"github.com/tsawler/trp/response"
)

// Open returns an Extractor over a saved analysis result. The file holds
// one response object or an array of fragments of a paginated result; it is
// read by the first terminal operation.
//
// Example:
//
//	text, warnings, err := trp.Open("analysis.json").Text()
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromReader returns an Extractor over a saved analysis result read from r.
// The reader is consumed immediately, so the Extractor can be reused.
//
// Example:
//
//	f, _ := os.Open("analysis.json")
//	defer f.Close()
//	tables, _, err := trp.FromReader(f).Tables()
func FromReader(r io.Reader) *Extractor {
	e := &Extractor{options: defaultOptions()}
	e.responses, e.err = response.Decode(r)
	return e
}

// FromResponses returns an Extractor over results obtained from the SDK,
// for example every page of a GetDocumentAnalysis job:
//
//	var fragments []*response.Response
//	for _, out := range outputs {
//	    fragments = append(fragments, response.FromGetDocumentAnalysis(out))
//	}
//	fields, _, err := trp.FromResponses(fragments...).Fields()
func FromResponses(responses ...*response.Response) *Extractor {
	return &Extractor{
		responses: responses,
		options:   defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	count := trp.Must(trp.Open("analysis.json").PageCount())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustText is a helper that wraps a call to a terminal operation returning
// warnings and panics if the error is non-nil. It discards warnings and
// returns just the value.
//
// Example:
//
//	text := trp.MustText(trp.Open("analysis.json").Text())
func MustText[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
