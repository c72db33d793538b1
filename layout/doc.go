// Package layout provides the geometric passes that recover page structure
// the analysis service does not report directly.
//
// Every pass works on a slice of [TextLine] values and answers with indices
// into that slice, so callers keep their own line types.
//
// # Reading Order
//
// The [ReadingOrderDetector] groups lines into paragraphs, then paragraphs
// into columns, and flattens the columns into reading order:
//
//	detector := layout.NewReadingOrderDetector()
//	result := detector.Detect(lines)
//	text := result.Text(lines)
//
// Garbage-height lines (only dashes, dots, quotes, ...) have their boxes
// corrected by [AdjustLineBox] before they are compared.
//
// # Headers and Footers
//
// The [HeaderFooterDetector] splits the band near a page edge into
// text-free gaps and cuts at the first gap that is tall relative to the
// surrounding line height:
//
//	header := layout.NewHeaderFooterDetector().Detect(layout.Header, pageBox, lines)
//
// [Segment] combines both directions into disjoint header, content and
// footer sets.
//
// # Configuration
//
// Both detectors take a config struct; the defaults are returned by
// [DefaultReadingOrderConfig] and [DefaultHeaderFooterConfig].
package layout
