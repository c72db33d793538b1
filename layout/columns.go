package layout

import (
	"math"

	"github.com/tsawler/trp/geometry"
)

// Column is a vertical run of paragraphs sharing horizontal extent
type Column struct {
	Paragraphs []Paragraph
	BBox       geometry.BBox
}

// clusterColumns assigns paragraphs, in the order given, to the first
// column that accepts them. Columns are returned in discovery order.
func (d *ReadingOrderDetector) clusterColumns(paras []Paragraph) []Column {
	cfg := d.config
	var cols []Column

	for _, para := range paras {
		assigned := false
		for c := range cols {
			col := &cols[c]

			vIsect := col.BBox.VerticalOverlap(para.BBox)
			hIsect := col.BBox.HorizontalOverlap(para.BBox)
			hUnion := math.Max(col.BBox.Right(), para.BBox.Right()) - math.Min(col.BBox.Left, para.BBox.Left)
			minWidth := math.Min(col.BBox.Width, para.BBox.Width)
			proposed := col.BBox.Union(para.BBox)

			// single-line paragraphs can be short, so only multi-line
			// pairs face the stricter union test
			singleLine := len(para.Lines) == 1 ||
				(len(col.Paragraphs) == 1 && len(col.Paragraphs[0].Lines) == 1)

			if vIsect < para.AverageLineHeight()*0.1 &&
				hIsect/minWidth >= cfg.ColumnOverlapThreshold &&
				(singleLine || hIsect/hUnion >= cfg.ColumnMultilineUnionThreshold) &&
				countIntersecting(cols, proposed) == 1 {
				col.BBox = proposed
				col.Paragraphs = append(col.Paragraphs, para)
				assigned = true
				break
			}
		}

		if !assigned {
			cols = append(cols, Column{Paragraphs: []Paragraph{para}, BBox: para.BBox})
		}
	}

	return cols
}

// countIntersecting counts the columns overlapping box with positive area.
// The column being grown always counts itself.
func countIntersecting(cols []Column, box geometry.BBox) int {
	n := 0
	for _, c := range cols {
		if c.BBox.Intersects(box) {
			n++
		}
	}
	return n
}
