// Package geometry provides the bounding box, point and polygon value types
// used to locate blocks on a page.
//
// All coordinates are fractions of the page size with the origin at the
// top-left corner, matching the document-analysis wire format. Values are
// immutable; every operation returns a new value.
//
//	a := geometry.NewBBox(0.1, 0.1, 0.3, 0.05)
//	b := geometry.NewBBox(0.2, 0.12, 0.3, 0.05)
//	u := a.Union(b)
//	isect, ok := a.Intersection(b)
package geometry
