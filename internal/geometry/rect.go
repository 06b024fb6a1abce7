// Package geometry provides the 2-D angular-frame primitives used by the
// mosaic and scan generators: axis-aligned frame rectangles and simple
// polygons with the overlap predicates needed for sun-side filtering.
//
// All coordinates are angular offsets from the target's apparent center as
// seen from the observer, +x toward the Sun, +y toward increasing vertical
// instrument angle.
package geometry

import (
	"github.com/jbeda/geom"
)

// Rectangle is an axis-aligned frame footprint. It is a plain value:
// construct, copy and discard freely.
type Rectangle struct {
	Center geom.Coord
	Size   geom.Coord // width (x), height (y)
}

// NewRect builds a rectangle from its center point and full extents.
func NewRect(center, size geom.Coord) Rectangle {
	return Rectangle{Center: center, Size: size}
}

// NewRectFromCorner builds a rectangle from its lower-left corner and full
// extents.
func NewRectFromCorner(corner, size geom.Coord) Rectangle {
	return Rectangle{
		Center: corner.Plus(size.Times(0.5)),
		Size:   size,
	}
}

// Corners returns the four corner points in counter-clockwise order
// starting from the lower-left.
func (r Rectangle) Corners() [4]geom.Coord {
	dx := r.Size.X / 2
	dy := r.Size.Y / 2
	return [4]geom.Coord{
		{X: r.Center.X - dx, Y: r.Center.Y - dy},
		{X: r.Center.X + dx, Y: r.Center.Y - dy},
		{X: r.Center.X + dx, Y: r.Center.Y + dy},
		{X: r.Center.X - dx, Y: r.Center.Y + dy},
	}
}

// Polygon returns the rectangle's outline as a Polygon.
func (r Rectangle) Polygon() Polygon {
	c := r.Corners()
	return Polygon{c[0], c[1], c[2], c[3]}
}

// Bounds returns the rectangle's bounding box.
func (r Rectangle) Bounds() geom.Rect {
	c := r.Corners()
	b := geom.Rect{Min: c[0], Max: c[0]}
	for _, p := range c[1:] {
		b.ExpandToContainCoord(p)
	}
	return b
}
