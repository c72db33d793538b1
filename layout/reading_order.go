package layout

import (
	"strings"
)

// ReadingOrderConfig holds the tunable ratios of the reading-order heuristic.
// All values are dimensionless.
type ReadingOrderConfig struct {
	// ColumnOverlapThreshold is the minimum horizontal overlap between a
	// paragraph and a column, relative to the narrower of the two, for the
	// paragraph to join the column.
	// Default: 0.8
	ColumnOverlapThreshold float64 `yaml:"column_overlap_threshold"`

	// ColumnMultilineUnionThreshold is the minimum horizontal overlap relative
	// to the combined width when both sides have more than one line.
	// Default: 0.7
	ColumnMultilineUnionThreshold float64 `yaml:"column_multiline_union_threshold"`

	// ParagraphVerticalDistanceTolerance is the maximum vertical gap between a
	// line and a paragraph, in multiples of the paragraph's average line height.
	// Default: 0.7
	ParagraphVerticalDistanceTolerance float64 `yaml:"paragraph_vertical_distance_tolerance"`

	// ParagraphLineHeightTolerance is the maximum relative deviation of a
	// line's height from the paragraph average. Values near 0 turn font size
	// changes into paragraph breaks.
	// Default: 0.3
	ParagraphLineHeightTolerance float64 `yaml:"paragraph_line_height_tolerance"`

	// ParagraphIndentThreshold is the indentation, in multiples of line height,
	// beyond which a line starts a new paragraph. 0 disables the check.
	// Default: 0
	ParagraphIndentThreshold float64 `yaml:"paragraph_indent_threshold"`
}

// DefaultReadingOrderConfig returns the default configuration
func DefaultReadingOrderConfig() ReadingOrderConfig {
	return ReadingOrderConfig{
		ColumnOverlapThreshold:             0.8,
		ColumnMultilineUnionThreshold:      0.7,
		ParagraphVerticalDistanceTolerance: 0.7,
		ParagraphLineHeightTolerance:       0.3,
		ParagraphIndentThreshold:           0,
	}
}

// ReadingOrderDetector infers reading order by clustering lines into
// paragraphs and paragraphs into columns.
//
// Both stages are single greedy passes: each item joins the first existing
// cluster, in creation order, that accepts it. The result therefore depends
// on input order, and the same input always gives the same output.
type ReadingOrderDetector struct {
	config ReadingOrderConfig
}

// NewReadingOrderDetector creates a detector with default configuration
func NewReadingOrderDetector() *ReadingOrderDetector {
	return &ReadingOrderDetector{
		config: DefaultReadingOrderConfig(),
	}
}

// NewReadingOrderDetectorWithConfig creates a detector with custom configuration
func NewReadingOrderDetectorWithConfig(config ReadingOrderConfig) *ReadingOrderDetector {
	return &ReadingOrderDetector{
		config: config,
	}
}

// Config returns the detector configuration
func (d *ReadingOrderDetector) Config() ReadingOrderConfig {
	return d.config
}

// ReadingOrderResult contains the clustering result
type ReadingOrderResult struct {
	// Columns in the order they were discovered. This is not a left-to-right
	// sort; for typical layouts the first column found is the one whose
	// text starts first in the raw line order.
	Columns []Column

	// Paragraphs flattened from Columns, in reading order
	Paragraphs []Paragraph
}

// Detect clusters lines into paragraphs and columns
func (d *ReadingOrderDetector) Detect(lines []TextLine) *ReadingOrderResult {
	if len(lines) == 0 {
		return &ReadingOrderResult{}
	}

	cols := d.clusterColumns(d.clusterParagraphs(lines))

	result := &ReadingOrderResult{Columns: cols}
	for _, c := range cols {
		result.Paragraphs = append(result.Paragraphs, c.Paragraphs...)
	}
	return result
}

// Order returns the line indices in reading order
func (r *ReadingOrderResult) Order() []int {
	var out []int
	for _, p := range r.Paragraphs {
		out = append(out, p.Lines...)
	}
	return out
}

// Text joins line texts with newlines and paragraphs with a blank line.
// lines must be the slice passed to Detect.
func (r *ReadingOrderResult) Text(lines []TextLine) string {
	paras := make([]string, 0, len(r.Paragraphs))
	for _, p := range r.Paragraphs {
		texts := make([]string, len(p.Lines))
		for i, ix := range p.Lines {
			texts[i] = lines[ix].Text
		}
		paras = append(paras, strings.Join(texts, "\n"))
	}
	return strings.Join(paras, "\n\n")
}
