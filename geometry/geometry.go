package geometry

import (
	"fmt"
	"math"

	"github.com/aws/aws-sdk-go-v2/service/textract/types"
)

// Point represents a 2D point in page-normalized coordinates
type Point struct {
	X, Y float64
}

// Distance calculates the Euclidean distance to another point
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// BBox represents an axis-aligned bounding box.
//
// Coordinates are fractions of the page width and height with the origin at
// the top-left corner, so Top grows downwards.
type BBox struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// NewBBox creates a bounding box from its left, top, width and height
func NewBBox(left, top, width, height float64) BBox {
	return BBox{Left: left, Top: top, Width: width, Height: height}
}

// NewBBoxFromPoints creates a bounding box spanning two points
func NewBBoxFromPoints(p1, p2 Point) BBox {
	left := math.Min(p1.X, p2.X)
	top := math.Min(p1.Y, p2.Y)
	return BBox{
		Left:   left,
		Top:    top,
		Width:  math.Abs(p2.X - p1.X),
		Height: math.Abs(p2.Y - p1.Y),
	}
}

// Right returns the right edge X coordinate
func (b BBox) Right() float64 {
	return b.Left + b.Width
}

// Bottom returns the bottom edge Y coordinate
func (b BBox) Bottom() float64 {
	return b.Top + b.Height
}

// HCenter returns the horizontal center
func (b BBox) HCenter() float64 {
	return b.Left + b.Width/2
}

// VCenter returns the vertical center
func (b BBox) VCenter() float64 {
	return b.Top + b.Height/2
}

// Center returns the center point
func (b BBox) Center() Point {
	return Point{X: b.HCenter(), Y: b.VCenter()}
}

// Contains checks if a point is inside the bounding box
func (b BBox) Contains(p Point) bool {
	return p.X >= b.Left && p.X <= b.Right() &&
		p.Y >= b.Top && p.Y <= b.Bottom()
}

// HorizontalOverlap returns the width shared by both boxes, or 0
func (b BBox) HorizontalOverlap(other BBox) float64 {
	return math.Max(0, math.Min(b.Right(), other.Right())-math.Max(b.Left, other.Left))
}

// VerticalOverlap returns the height shared by both boxes, or 0
func (b BBox) VerticalOverlap(other BBox) float64 {
	return math.Max(0, math.Min(b.Bottom(), other.Bottom())-math.Max(b.Top, other.Top))
}

// Intersects reports whether the boxes share a region of positive area.
// Boxes that only touch along an edge do not intersect.
func (b BBox) Intersects(other BBox) bool {
	return b.HorizontalOverlap(other) > 0 && b.VerticalOverlap(other) > 0
}

// Intersection returns the overlapping region of two boxes. The second
// result is false when the overlap has no area.
func (b BBox) Intersection(other BBox) (BBox, bool) {
	if !b.Intersects(other) {
		return BBox{}, false
	}

	left := math.Max(b.Left, other.Left)
	top := math.Max(b.Top, other.Top)
	right := math.Min(b.Right(), other.Right())
	bottom := math.Min(b.Bottom(), other.Bottom())

	return BBox{
		Left:   left,
		Top:    top,
		Width:  right - left,
		Height: bottom - top,
	}, true
}

// Union returns the smallest box containing both boxes
func (b BBox) Union(other BBox) BBox {
	left := math.Min(b.Left, other.Left)
	top := math.Min(b.Top, other.Top)
	right := math.Max(b.Right(), other.Right())
	bottom := math.Max(b.Bottom(), other.Bottom())

	return BBox{
		Left:   left,
		Top:    top,
		Width:  right - left,
		Height: bottom - top,
	}
}

// Area returns the area of the bounding box
func (b BBox) Area() float64 {
	return b.Width * b.Height
}

// IsEmpty returns true if the box has zero or negative area
func (b BBox) IsEmpty() bool {
	return b.Width <= 0 || b.Height <= 0
}

func (b BBox) String() string {
	return fmt.Sprintf("BBox(left=%.4f, top=%.4f, width=%.4f, height=%.4f)", b.Left, b.Top, b.Width, b.Height)
}

// Geometry is the location of a block: its bounding box plus the polygon
// outline reported by the service.
type Geometry struct {
	BoundingBox BBox
	Polygon     []Point
}

// Orientation returns the rotation of the content in radians, measured from
// the first polygon point (top-left) to the second (top-right). The result
// lies in (-π, π]. ok is false when the polygon has fewer than two points.
func (g Geometry) Orientation() (radians float64, ok bool) {
	if len(g.Polygon) < 2 {
		return 0, false
	}
	p0, p1 := g.Polygon[0], g.Polygon[1]
	return math.Atan2(p1.Y-p0.Y, p1.X-p0.X), true
}

// OrientationDegrees is Orientation expressed in degrees
func (g Geometry) OrientationDegrees() (degrees float64, ok bool) {
	rad, ok := g.Orientation()
	if !ok {
		return 0, false
	}
	return rad * 180 / math.Pi, true
}

// FromTextract converts a wire geometry into a Geometry. A nil input yields
// the zero Geometry.
func FromTextract(g *types.Geometry) Geometry {
	if g == nil {
		return Geometry{}
	}
	var out Geometry
	if bb := g.BoundingBox; bb != nil {
		out.BoundingBox = BBox{
			Left:   float64(bb.Left),
			Top:    float64(bb.Top),
			Width:  float64(bb.Width),
			Height: float64(bb.Height),
		}
	}
	if len(g.Polygon) > 0 {
		out.Polygon = make([]Point, len(g.Polygon))
		for i, p := range g.Polygon {
			out.Polygon[i] = Point{X: float64(p.X), Y: float64(p.Y)}
		}
	}
	return out
}

// UnionAll returns the union of all boxes. ok is false for an empty input.
func UnionAll(boxes []BBox) (BBox, bool) {
	if len(boxes) == 0 {
		return BBox{}, false
	}
	u := boxes[0]
	for _, b := range boxes[1:] {
		u = u.Union(b)
	}
	return u, true
}
