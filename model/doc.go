// Package model provides the typed document built from a flat list of
// analysis blocks.
//
// This package defines the user-facing data structures. Every entity wraps
// exactly one block (a [Field] wraps a key and its value) and reaches its
// children through the per-page block registry.
//
// # Document Structure
//
// [NewDocument] splits the blocks at each PAGE block and builds one [Page]
// per split:
//
//	doc, err := model.NewDocument(blocks)
//	page, err := doc.PageNumber(1)
//	for _, line := range page.Lines() {
//	    fmt.Println(line.Text())
//	}
//
// Each page exposes its lines, tables, form fields, queries, signatures and
// layout items, plus [Page.Content] listing lines, tables and fields in
// block order.
//
// # Capabilities
//
// Entities share behaviour through small interfaces rather than a type
// hierarchy:
//
//   - [WithBlock] - access to the underlying block
//   - [WithGeometry] - bounding box and polygon
//   - [WithConfidence] - service confidence with a write-through setter
//   - [WithText] - a text form
//   - [WithWords], [WithContent] - child words or mixed content
//
// # Tables
//
// A [Table] reconciles the ungapped cell grid with the merged cells laid
// over it. Positions are 1-based:
//
//   - CellAt(2, 3, false) answers with a [MergedCell] covering (2, 3), if any
//   - CellAt(2, 3, true) always answers with the ungapped [Cell]
//   - Rows(true) repeats vertically merged cells in every row they span
//
// # Reading Order and Page Regions
//
// [Page.LineClustersInReadingOrder] and [Page.LinesByLayoutArea] run the
// geometric passes of package layout over the page lines.
//
// # Anomalies
//
// Dangling references and references to unexpected block types are handled
// by the registry policies. Under the default policy they are logged,
// recorded once and returned by [Page.Warnings] and [Document.Warnings].
package model
