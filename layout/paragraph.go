package layout

import (
	"math"

	"github.com/tsawler/trp/geometry"
)

// Paragraph is a cluster of vertically adjacent lines
type Paragraph struct {
	// Lines holds indices into the input lines, in the order they were added
	Lines []int

	// BBox is the union of the raw line boxes
	BBox geometry.BBox

	// TotalLineHeight is the running sum of corrected line heights
	TotalLineHeight float64
}

// AverageLineHeight returns the mean corrected line height
func (p Paragraph) AverageLineHeight() float64 {
	if len(p.Lines) == 0 {
		return 0
	}
	return p.TotalLineHeight / float64(len(p.Lines))
}

// clusterParagraphs assigns each line, in input order, to the first
// paragraph that accepts it, or starts a new paragraph.
func (d *ReadingOrderDetector) clusterParagraphs(lines []TextLine) []Paragraph {
	cfg := d.config
	var paras []Paragraph

	for i, line := range lines {
		box := line.BBox
		adj, garbage := AdjustLineBox(line.Text, box)
		hCenter := box.HCenter()

		assigned := false
		for p := range paras {
			para := &paras[p]
			n := float64(len(para.Lines))

			var newTotal, newAvg float64
			if garbage {
				newAvg = para.TotalLineHeight / n
				newTotal = newAvg * (n + 1)
			} else {
				newTotal = para.TotalLineHeight + adj.Height
				newAvg = newTotal / (n + 1)
			}

			// At most one of these is positive; both are negative on overlap
			vDist := math.Max(0, math.Max(adj.Top-para.BBox.Bottom(), para.BBox.Top-adj.Bottom()))

			indentOK := true
			if cfg.ParagraphIndentThreshold != 0 {
				refLeft := lines[para.Lines[len(para.Lines)-1]].BBox.Left
				if len(para.Lines) == 1 {
					// a lone first line may carry the paragraph indent
					refLeft -= cfg.ParagraphIndentThreshold * newAvg
				}
				indentOK = math.Max(0, adj.Left-refLeft) < cfg.ParagraphIndentThreshold*newAvg ||
					adj.VerticalOverlap(para.BBox) > 0.5*adj.Height
			}

			paraHCenter := para.BBox.HCenter()
			hOK := (hCenter > para.BBox.Left && hCenter < para.BBox.Right()) ||
				(paraHCenter > box.Left && paraHCenter < box.Right())
			vOK := vDist < newAvg*cfg.ParagraphVerticalDistanceTolerance
			heightOK := garbage ||
				math.Abs((newAvg-adj.Height)/newAvg) < cfg.ParagraphLineHeightTolerance

			if hOK && vOK && heightOK && indentOK {
				para.BBox = para.BBox.Union(box)
				para.Lines = append(para.Lines, i)
				para.TotalLineHeight = newTotal
				assigned = true
				break
			}
		}

		if !assigned {
			paras = append(paras, Paragraph{
				Lines:           []int{i},
				BBox:            box,
				TotalLineHeight: box.Height,
			})
		}
	}

	return paras
}
