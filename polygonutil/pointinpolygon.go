// Package polygonutil implements the point-in-polygon test and lasso
// polyline simplification of §4.3 and §4.6, grounded on the isLeft/BB
// segment helpers of a ray-casting polygon package and the simplify-then-
// query shape of a polyline simplifier, adapted to flat 2D coordinates.
package polygonutil

import "math"

// onBoundaryTolerance is the segment-distance tolerance below which a
// point is treated as lying on a polygon edge (§4.3).
const onBoundaryTolerance = 1e-9

// Point is a flat 2D coordinate in whichever space the caller is testing
// (screen or data).
type Point struct {
	X, Y float64
}

// Contains runs the ray-casting point-in-polygon test of §4.3: a point on
// the boundary (within onBoundaryTolerance of an edge) counts as inside,
// otherwise the horizontal-ray crossing parity decides. poly is a closed
// polygon given as consecutive vertices (the edge from the last vertex
// back to the first is implicit).
func Contains(poly []Point, p Point) bool {
	n := len(poly)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := poly[i], poly[j]
		if onSegment(p, vj, vi) {
			return true
		}
		if (vi.Y > p.Y) != (vj.Y > p.Y) {
			xCross := (vj.X-vi.X)*(p.Y-vi.Y)/(vj.Y-vi.Y) + vi.X
			if p.X < xCross {
				inside = !inside
			}
		}
	}
	return inside
}

// onSegment reports whether p lies within onBoundaryTolerance of the
// segment (a,b), by squared perpendicular distance. Degenerate segments
// (length² < tolerance²) are treated as points (§4.3).
func onSegment(p, a, b Point) bool {
	abx, aby := b.X-a.X, b.Y-a.Y
	lengthSq := abx*abx + aby*aby
	tolSq := onBoundaryTolerance * onBoundaryTolerance

	if lengthSq < tolSq {
		dx, dy := p.X-a.X, p.Y-a.Y
		return dx*dx+dy*dy < tolSq
	}

	apx, apy := p.X-a.X, p.Y-a.Y
	t := (apx*abx + apy*aby) / lengthSq
	if t < 0 || t > 1 {
		return false
	}
	closestX := a.X + t*abx
	closestY := a.Y + t*aby
	dx, dy := p.X-closestX, p.Y-closestY
	return dx*dx+dy*dy < tolSq
}

// BoundingBox returns the axis-aligned bounding box of poly, used to
// short-circuit point-in-polygon tests against the spatial index (§3
// "Geometry variant").
func BoundingBox(poly []Point) (minX, minY, maxX, maxY float64) {
	if len(poly) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, p := range poly {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return
}
