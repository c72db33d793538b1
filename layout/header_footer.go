package layout

import (
	"math"
	"sort"

	"github.com/tsawler/trp/geometry"
)

// RegionType indicates whether a region is a header or footer
type RegionType int

const (
	Header RegionType = iota
	Footer
)

func (r RegionType) String() string {
	if r == Header {
		return "header"
	}
	return "footer"
}

// HeaderFooterConfig holds configuration for header/footer detection
type HeaderFooterConfig struct {
	// MaxMargin is the fraction of the page height, measured from the page
	// edge, that a header or footer must lie within.
	// Default: 0.16
	MaxMargin float64 `yaml:"max_margin"`

	// MinGap is the smallest vertical gap separating header/footer from the
	// content, in multiples of the local average line height. The first gap
	// at least this large, working inwards from the page edge, is the split.
	// Default: 0.8
	MinGap float64 `yaml:"min_gap"`
}

// DefaultHeaderFooterConfig returns the default configuration
func DefaultHeaderFooterConfig() HeaderFooterConfig {
	return HeaderFooterConfig{
		MaxMargin: 0.16,
		MinGap:    0.8,
	}
}

// HeaderFooterDetector finds the header or footer lines of a single page
// from the vertical whitespace near the page edge.
type HeaderFooterDetector struct {
	config HeaderFooterConfig
}

// NewHeaderFooterDetector creates a new detector with default configuration
func NewHeaderFooterDetector() *HeaderFooterDetector {
	return &HeaderFooterDetector{
		config: DefaultHeaderFooterConfig(),
	}
}

// NewHeaderFooterDetectorWithConfig creates a detector with custom configuration
func NewHeaderFooterDetectorWithConfig(config HeaderFooterConfig) *HeaderFooterDetector {
	return &HeaderFooterDetector{
		config: config,
	}
}

// Config returns the detector configuration
func (d *HeaderFooterDetector) Config() HeaderFooterConfig {
	return d.config
}

// GapGrouping is the result of splitting lines around vertical gaps.
// Groups[i] holds the lines immediately before Gaps[i]; the final group
// holds the lines after the last gap, so len(Groups) == len(Gaps)+1.
type GapGrouping struct {
	Gaps   []geometry.BBox
	Groups [][]int
}

// GroupByVerticalGaps finds the vertical gaps free of text inside the focus
// band [focusTop, focusTop+focusHeight] and groups line indices by the gap
// that follows them. Lines wholly above the band join the first group and
// lines wholly below it join the last, regardless of spacing.
func GroupByVerticalGaps(page geometry.BBox, focusTop, focusHeight float64, lines []TextLine) GapGrouping {
	gaps := []geometry.BBox{geometry.NewBBox(page.Left, focusTop, page.Width, focusHeight)}
	pre := [][]int{{}}
	var post []int

	for i, line := range lines {
		box := line.BBox
		if len(gaps) == 0 || box.Top > gaps[len(gaps)-1].Bottom() {
			post = append(post, i)
			continue
		}
		if box.Bottom() < gaps[0].Top {
			pre[0] = append(pre[0], i)
			continue
		}

		var nextGaps []geometry.BBox
		var nextPre [][]int
		var orphans []int
		assigned := false

		for g, gap := range gaps {
			before := append(orphans, pre[g]...)
			orphans = nil

			if !box.Intersects(gap) {
				nextGaps = append(nextGaps, gap)
				nextPre = append(nextPre, before)
				continue
			}

			switch {
			case box.Top <= gap.Top && box.Bottom() >= gap.Bottom():
				// gap fully covered: drop it, its lines carry over
				orphans = before
			case box.Top > gap.Top && box.Bottom() < gap.Bottom():
				// line splits the gap in two
				nextGaps = append(nextGaps,
					geometry.NewBBox(gap.Left, gap.Top, gap.Width, box.Top-gap.Top),
					geometry.NewBBox(gap.Left, box.Bottom(), gap.Width, gap.Bottom()-box.Bottom()))
				nextPre = append(nextPre, before, []int{i})
				assigned = true
			case box.Top <= gap.Top:
				// line overlaps the top of the gap and so precedes it
				nextGaps = append(nextGaps,
					geometry.NewBBox(gap.Left, box.Bottom(), gap.Width, gap.Bottom()-box.Bottom()))
				nextPre = append(nextPre, append(before, i))
				assigned = true
			default:
				// line overlaps the bottom of the gap
				nextGaps = append(nextGaps,
					geometry.NewBBox(gap.Left, gap.Top, gap.Width, box.Top-gap.Top))
				nextPre = append(nextPre, before)
			}
		}

		gaps = nextGaps
		pre = nextPre
		post = append(orphans, post...)

		if !assigned {
			follow := -1
			for g, gap := range gaps {
				if gap.Top >= box.Bottom() {
					follow = g
					break
				}
			}
			if follow < 0 {
				post = append(post, i)
			} else {
				pre[follow] = append(pre[follow], i)
			}
		}
	}

	groups := make([][]int, 0, len(pre)+1)
	groups = append(groups, pre...)
	groups = append(groups, post)
	return GapGrouping{Gaps: gaps, Groups: groups}
}

// Detect returns the indices of the lines forming the page header or
// footer, or nil when no qualifying gap separates them from the content.
// The indices are not sorted.
func (d *HeaderFooterDetector) Detect(region RegionType, page geometry.BBox, lines []TextLine) []int {
	focusTop := page.Top
	if region == Footer {
		focusTop = page.Bottom() - d.config.MaxMargin
	}
	grouping := GroupByVerticalGaps(page, focusTop, d.config.MaxMargin, lines)
	gaps, groups := grouping.Gaps, grouping.Groups
	nGaps := len(gaps)

	// Gaps are judged against local line height. Empty groups (and groups
	// of zero-height lines) have no usable height.
	groupHeights := make([]float64, len(groups))
	var sum float64
	var n int
	for g, group := range groups {
		if len(group) == 0 {
			continue
		}
		var total float64
		for _, ix := range group {
			total += lines[ix].BBox.Height
		}
		groupHeights[g] = total / float64(len(group))
		if groupHeights[g] != 0 {
			sum += groupHeights[g]
			n++
		}
	}
	defaultHeight := math.NaN()
	if n > 0 {
		defaultHeight = sum / float64(n)
	}

	gapHeights := make([]float64, nGaps)
	for g := range gaps {
		var total float64
		var parts int
		for _, h := range []float64{groupHeights[g], groupHeights[g+1]} {
			if h != 0 {
				total += h
				parts++
			}
		}
		if parts > 0 {
			gapHeights[g] = total / float64(parts)
		} else {
			gapHeights[g] = defaultHeight
		}
	}

	// Walk gaps from the page edge inwards. The gap at the very edge only
	// counts if some text lies beyond it.
	qualifies := func(gapIx, edgeGroup, step int) bool {
		return (step > 0 || len(groups[edgeGroup]) > 0) &&
			gaps[gapIx].Height >= gapHeights[gapIx]*d.config.MinGap
	}

	var out []int
	if region == Header {
		for g := 0; g < nGaps; g++ {
			if qualifies(g, g, g) {
				for _, group := range groups[:g+1] {
					out = append(out, group...)
				}
				return out
			}
		}
		return nil
	}

	for r := 0; r < nGaps; r++ {
		if qualifies(nGaps-1-r, nGaps-r, r) {
			for _, group := range groups[nGaps-r:] {
				out = append(out, group...)
			}
			return out
		}
	}
	return nil
}

// Segmentation splits the lines of a page into three disjoint regions.
// Each slice holds indices into the input lines in ascending order.
type Segmentation struct {
	Header  []int
	Content []int
	Footer  []int
}

// Segment finds the header among all lines, then the footer among the
// remaining lines, and returns everything else as content.
func Segment(page geometry.BBox, lines []TextLine, header, footer HeaderFooterConfig) Segmentation {
	var seg Segmentation
	used := make([]bool, len(lines))

	seg.Header = NewHeaderFooterDetectorWithConfig(header).Detect(Header, page, lines)
	for _, ix := range seg.Header {
		used[ix] = true
	}

	remaining := make([]TextLine, 0, len(lines))
	mapping := make([]int, 0, len(lines))
	for i, l := range lines {
		if !used[i] {
			remaining = append(remaining, l)
			mapping = append(mapping, i)
		}
	}
	for _, ix := range NewHeaderFooterDetectorWithConfig(footer).Detect(Footer, page, remaining) {
		seg.Footer = append(seg.Footer, mapping[ix])
		used[mapping[ix]] = true
	}

	for i := range lines {
		if !used[i] {
			seg.Content = append(seg.Content, i)
		}
	}

	sort.Ints(seg.Header)
	sort.Ints(seg.Footer)
	return seg
}
