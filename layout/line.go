package layout

import (
	"regexp"

	"github.com/tsawler/trp/geometry"
)

// TextLine is one detected line of text as seen by the geometric passes.
// Results refer back to lines by their index in the input slice.
type TextLine struct {
	ID   string
	Text string
	BBox geometry.BBox
}

// Character classes whose glyphs give an unreliable box height. Spacing
// includes Unicode separators such as the no-break space.
var (
	lowPunctuationOnly  = regexp.MustCompile(`^[.,_\s\p{Z}]*$`)
	dashOnly            = regexp.MustCompile(`^[-–—=~\s\p{Z}]*$`)
	highPunctuationOnly = regexp.MustCompile("^['\"`^\\s\\p{Z}]*$")
	xHeightOnly         = regexp.MustCompile(`^[-–—=~.,_acemnorsuvwxz+<>:;\s\p{Z}]*$`)
)

// AdjustLineBox estimates the box a line would have if its text contained
// full-height glyphs.
//
// Lines made only of low punctuation, dashes or high punctuation get a box
// 2.5 times taller and are flagged as garbage: their height says nothing
// about the font size. Lines made only of x-height letters and mid-height
// punctuation grow by a quarter. Anything else is returned unchanged.
func AdjustLineBox(text string, box geometry.BBox) (adjusted geometry.BBox, garbage bool) {
	h := box.Height
	switch {
	case lowPunctuationOnly.MatchString(text):
		return geometry.NewBBox(box.Left, box.Top-1.5*h, box.Width, 2.5*h), true
	case dashOnly.MatchString(text):
		return geometry.NewBBox(box.Left, box.Top-0.75*h, box.Width, 2.5*h), true
	case highPunctuationOnly.MatchString(text):
		return geometry.NewBBox(box.Left, box.Top, box.Width, 2.5*h), true
	case xHeightOnly.MatchString(text):
		return geometry.NewBBox(box.Left, box.Top-0.25*h, box.Width, 1.25*h), false
	}
	return box, false
}
