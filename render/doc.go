// Package render turns parsed documents into HTML, markdown and CSV.
//
// HTML is built as a golang.org/x/net/html node tree, so callers can adjust
// it before serialising:
//
//	n, err := render.Node(page)
//	html.Render(w, n)
//
// Layout items map to semantic elements: titles to h1, section headers to
// h2, lists to ul, and page furniture (headers, footers, page numbers) to
// div elements with the classes header-el, footer-el and page-num. Tables
// keep their merged cells through colspan and rowspan.
package render
