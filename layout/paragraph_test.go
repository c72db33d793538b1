package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/trp/geometry"
)

// makeLine creates a text line for layout tests
func makeLine(text string, left, top, width, height float64) TextLine {
	return TextLine{ID: text, Text: text, BBox: geometry.NewBBox(left, top, width, height)}
}

func TestAdjustLineBox(t *testing.T) {
	box := geometry.NewBBox(0.1, 0.5, 0.2, 0.01)

	tests := []struct {
		name       string
		text       string
		wantTop    float64
		wantHeight float64
		garbage    bool
	}{
		{"low punctuation", ". . . ,", 0.5 - 0.015, 0.025, true},
		{"dash", "- ", 0.5 - 0.0075, 0.025, true},
		{"em dash and equals", "—==~", 0.5 - 0.0075, 0.025, true},
		{"dash with no-break space", "-\u00a0-", 0.5 - 0.0075, 0.025, true},
		{"dots with ideographic space", ".\u3000.", 0.5 - 0.015, 0.025, true},
		{"high punctuation with thin space", "'\u2009'", 0.5, 0.025, true},
		{"high punctuation", `" ' ^`, 0.5, 0.025, true},
		{"x-height letters", "name: a + e", 0.5 - 0.0025, 0.0125, false},
		{"normal text", "Hello world", 0.5, 0.01, false},
		{"empty", "", 0.5 - 0.015, 0.025, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adj, garbage := AdjustLineBox(tt.text, box)
			assert.Equal(t, tt.garbage, garbage)
			assert.InDelta(t, tt.wantTop, adj.Top, 1e-12)
			assert.InDelta(t, tt.wantHeight, adj.Height, 1e-12)
			assert.Equal(t, box.Left, adj.Left)
			assert.Equal(t, box.Width, adj.Width)
		})
	}
}

func TestClusterParagraphs(t *testing.T) {
	lines := []TextLine{
		makeLine("The first line of text", 0.1, 0.10, 0.4, 0.02),
		makeLine("The second line of text", 0.1, 0.13, 0.4, 0.02),
		makeLine("Far below the others", 0.1, 0.40, 0.4, 0.02),
		makeLine("And the next one", 0.1, 0.43, 0.4, 0.02),
	}

	paras := NewReadingOrderDetector().clusterParagraphs(lines)
	require.Len(t, paras, 2)
	assert.Equal(t, []int{0, 1}, paras[0].Lines)
	assert.Equal(t, []int{2, 3}, paras[1].Lines)
	assert.InDelta(t, 0.02, paras[0].AverageLineHeight(), 1e-12)
	assert.InDelta(t, 0.10, paras[0].BBox.Top, 1e-12)
	assert.InDelta(t, 0.15, paras[0].BBox.Bottom(), 1e-12)
}

func TestClusterParagraphsHeightChange(t *testing.T) {
	lines := []TextLine{
		makeLine("A Large Heading", 0.1, 0.10, 0.4, 0.04),
		makeLine("Body text that follows", 0.1, 0.15, 0.4, 0.02),
	}
	paras := NewReadingOrderDetector().clusterParagraphs(lines)
	assert.Len(t, paras, 2)
}

func TestDashLineDoesNotBreakParagraph(t *testing.T) {
	lines := []TextLine{
		makeLine("First line of the paragraph", 0.1, 0.100, 0.4, 0.020),
		makeLine("- ", 0.1, 0.132, 0.02, 0.004),
		makeLine("Third line of the paragraph", 0.1, 0.146, 0.4, 0.020),
	}

	paras := NewReadingOrderDetector().clusterParagraphs(lines)
	require.Len(t, paras, 1)
	assert.Equal(t, []int{0, 1, 2}, paras[0].Lines)
	// the garbage line contributes the running average, not its own height
	assert.InDelta(t, 0.02, paras[0].AverageLineHeight(), 1e-12)
}

func TestIndentStartsParagraph(t *testing.T) {
	lines := []TextLine{
		makeLine("First paragraph opening line", 0.14, 0.10, 0.36, 0.02),
		makeLine("Second line of the first", 0.10, 0.13, 0.40, 0.02),
		makeLine("Indented opening line", 0.16, 0.16, 0.34, 0.02),
	}

	plain := NewReadingOrderDetector().clusterParagraphs(lines)
	assert.Len(t, plain, 1)

	cfg := DefaultReadingOrderConfig()
	cfg.ParagraphIndentThreshold = 1
	indented := NewReadingOrderDetectorWithConfig(cfg).clusterParagraphs(lines)
	require.Len(t, indented, 2)
	assert.Equal(t, []int{2}, indented[1].Lines)
}
