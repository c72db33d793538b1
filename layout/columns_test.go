package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/trp/geometry"
)

func makePara(lines []int, left, top, width, height, lineHeight float64) Paragraph {
	return Paragraph{
		Lines:           lines,
		BBox:            geometry.NewBBox(left, top, width, height),
		TotalLineHeight: lineHeight * float64(len(lines)),
	}
}

func TestClusterColumns(t *testing.T) {
	tests := []struct {
		name  string
		paras []Paragraph
		want  [][]int
	}{
		{
			name: "stacked paragraphs share a column",
			paras: []Paragraph{
				makePara([]int{0, 1}, 0.1, 0.1, 0.4, 0.05, 0.02),
				makePara([]int{2, 3}, 0.1, 0.3, 0.4, 0.05, 0.02),
			},
			want: [][]int{{0, 1, 2, 3}},
		},
		{
			name: "side by side paragraphs split",
			paras: []Paragraph{
				makePara([]int{0}, 0.05, 0.1, 0.4, 0.02, 0.02),
				makePara([]int{1}, 0.55, 0.1, 0.4, 0.02, 0.02),
			},
			want: [][]int{{0}, {1}},
		},
		{
			name: "vertical overlap keeps paragraphs apart",
			paras: []Paragraph{
				makePara([]int{0}, 0.1, 0.10, 0.4, 0.05, 0.02),
				makePara([]int{1}, 0.1, 0.12, 0.4, 0.05, 0.02),
			},
			want: [][]int{{0}, {1}},
		},
		{
			name: "short single line joins wide column",
			paras: []Paragraph{
				makePara([]int{0, 1, 2}, 0.1, 0.1, 0.8, 0.08, 0.02),
				makePara([]int{3}, 0.1, 0.3, 0.2, 0.02, 0.02),
			},
			want: [][]int{{0, 1, 2, 3}},
		},
		{
			name: "weak horizontal overlap",
			paras: []Paragraph{
				makePara([]int{0}, 0.1, 0.1, 0.4, 0.02, 0.02),
				makePara([]int{1}, 0.3, 0.3, 0.4, 0.02, 0.02),
			},
			want: [][]int{{0}, {1}},
		},
	}

	d := NewReadingOrderDetector()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols := d.clusterColumns(tt.paras)
			require.Len(t, cols, len(tt.want))
			for i, col := range cols {
				var got []int
				for _, p := range col.Paragraphs {
					got = append(got, p.Lines...)
				}
				assert.Equal(t, tt.want[i], got)
			}
		})
	}
}

func TestClusterColumnsBoundingBox(t *testing.T) {
	cols := NewReadingOrderDetector().clusterColumns([]Paragraph{
		makePara([]int{0}, 0.1, 0.1, 0.4, 0.02, 0.02),
		makePara([]int{1}, 0.1, 0.3, 0.38, 0.02, 0.02),
	})
	require.Len(t, cols, 1)
	assert.InDelta(t, 0.1, cols[0].BBox.Top, 1e-12)
	assert.InDelta(t, 0.32, cols[0].BBox.Bottom(), 1e-12)
	assert.InDelta(t, 0.4, cols[0].BBox.Width, 1e-12)
}

func TestCountIntersecting(t *testing.T) {
	cols := []Column{
		{BBox: geometry.NewBBox(0, 0, 0.5, 0.5)},
		{BBox: geometry.NewBBox(0.5, 0, 0.5, 0.5)},
		{BBox: geometry.NewBBox(0, 0.6, 1, 0.2)},
	}
	assert.Equal(t, 1, countIntersecting(cols, geometry.NewBBox(0.1, 0.1, 0.2, 0.2)))
	assert.Equal(t, 2, countIntersecting(cols, geometry.NewBBox(0.4, 0.1, 0.2, 0.2)))
	// touching edges do not count
	assert.Equal(t, 0, countIntersecting(cols, geometry.NewBBox(0, 0.5, 1, 0.1)))
	assert.Equal(t, 3, countIntersecting(cols, geometry.NewBBox(0, 0, 1, 1)))
}
