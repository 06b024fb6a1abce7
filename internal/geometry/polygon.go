package geometry

import (
	"math"

	"github.com/jbeda/geom"
)

// Polygon is a simple (non-self-intersecting) closed polygon given by its
// vertices in order. The closing edge from the last vertex back to the
// first is implicit.
type Polygon []geom.Coord

// BoundsX returns the horizontal extent of the polygon.
func (p Polygon) BoundsX() (minX, maxX float64) {
	minX = math.Inf(1)
	maxX = math.Inf(-1)
	for _, v := range p {
		if v.X < minX {
			minX = v.X
		}
		if v.X > maxX {
			maxX = v.X
		}
	}
	return minX, maxX
}

// Contains reports whether the point lies inside the polygon, using the
// even-odd ray casting rule. Points exactly on the boundary may land on
// either side; the mosaic filter does not depend on boundary points.
func (p Polygon) Contains(pt geom.Coord) bool {
	inside := false
	n := len(p)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := p[i], p[j]
		if (vi.Y > pt.Y) != (vj.Y > pt.Y) {
			xCross := vj.X + (pt.Y-vj.Y)/(vi.Y-vj.Y)*(vi.X-vj.X)
			if pt.X < xCross {
				inside = !inside
			}
		}
	}
	return inside
}

// ContainsRect reports whether the rectangle lies fully inside the polygon.
// For a simple polygon this holds when all four corners are inside and no
// polygon edge crosses a rectangle edge.
func (p Polygon) ContainsRect(r Rectangle) bool {
	for _, c := range r.Corners() {
		if !p.Contains(c) {
			return false
		}
	}
	return !p.edgesCross(r)
}

// OverlapsRect reports whether the rectangle shares any area with the
// polygon: their boundaries cross, the rectangle lies inside the polygon,
// or the polygon lies inside the rectangle.
func (p Polygon) OverlapsRect(r Rectangle) bool {
	if len(p) == 0 {
		return false
	}
	if p.edgesCross(r) {
		return true
	}
	if p.Contains(r.Center) {
		return true
	}
	return r.Polygon().Contains(p[0])
}

// edgesCross reports whether any polygon edge intersects any rectangle edge.
func (p Polygon) edgesCross(r Rectangle) bool {
	rc := r.Corners()
	n := len(p)
	for i := 0; i < n; i++ {
		a1 := p[i]
		a2 := p[(i+1)%n]
		for j := 0; j < 4; j++ {
			b1 := rc[j]
			b2 := rc[(j+1)%4]
			if segmentsIntersect(a1, a2, b1, b2) {
				return true
			}
		}
	}
	return false
}

// cross returns the z-component of (b-a) x (c-a).
func cross(a, b, c geom.Coord) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// onSegment reports whether c, known to be collinear with a-b, lies on the
// segment a-b.
func onSegment(a, b, c geom.Coord) bool {
	return math.Min(a.X, b.X) <= c.X && c.X <= math.Max(a.X, b.X) &&
		math.Min(a.Y, b.Y) <= c.Y && c.Y <= math.Max(a.Y, b.Y)
}

// segmentsIntersect reports whether segments a1-a2 and b1-b2 intersect,
// including collinear overlap and shared endpoints.
func segmentsIntersect(a1, a2, b1, b2 geom.Coord) bool {
	d1 := cross(b1, b2, a1)
	d2 := cross(b1, b2, a2)
	d3 := cross(a1, a2, b1)
	d4 := cross(a1, a2, b2)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	if d1 == 0 && onSegment(b1, b2, a1) {
		return true
	}
	if d2 == 0 && onSegment(b1, b2, a2) {
		return true
	}
	if d3 == 0 && onSegment(a1, a2, b1) {
		return true
	}
	if d4 == 0 && onSegment(a1, a2, b2) {
		return true
	}
	return false
}
