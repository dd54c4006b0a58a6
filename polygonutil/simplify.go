package polygonutil

import "math"

// Simplify smooths and decimates a raw lasso polyline before it is
// unprojected and tested against the dataset, pluggable per §1 ("Polygon
// smoothing for lasso strokes ... a pluggable preprocessor"). It chains
// one pass of Chaikin corner-cutting (smoothing high-frequency jitter
// from pointer sampling) with Ramer-Douglas-Peucker decimation at the
// given epsilon (bounding the number of vertices carried into the
// point-in-polygon test).
func Simplify(poly []Point, epsilon float64) []Point {
	if len(poly) < 3 {
		return poly
	}
	return douglasPeucker(chaikin(poly), epsilon)
}

// chaikin replaces each edge (p0,p1) with two points at 1/4 and 3/4 along
// it, rounding the polygon's corners. Applied once; repeated application
// would over-smooth a lasso stroke whose vertices are already close
// together (mouse-move sampling, not a hand-drawn curve).
func chaikin(poly []Point) []Point {
	n := len(poly)
	out := make([]Point, 0, n*2)
	for i := 0; i < n; i++ {
		p0 := poly[i]
		p1 := poly[(i+1)%n]
		out = append(out,
			Point{X: 0.75*p0.X + 0.25*p1.X, Y: 0.75*p0.Y + 0.25*p1.Y},
			Point{X: 0.25*p0.X + 0.75*p1.X, Y: 0.25*p0.Y + 0.75*p1.Y},
		)
	}
	return out
}

// douglasPeucker decimates a closed polyline, keeping the point farthest
// from the chord between two anchors whenever that distance exceeds
// epsilon, recursing on both halves.
func douglasPeucker(poly []Point, epsilon float64) []Point {
	n := len(poly)
	if n < 3 {
		return poly
	}
	keep := make([]bool, n)
	keep[0] = true
	keep[n-1] = true
	rdpRange(poly, 0, n-1, epsilon, keep)

	out := make([]Point, 0, n)
	for i, k := range keep {
		if k {
			out = append(out, poly[i])
		}
	}
	return out
}

func rdpRange(poly []Point, start, end int, epsilon float64, keep []bool) {
	if end <= start+1 {
		return
	}
	maxDist := -1.0
	maxIdx := -1
	a, b := poly[start], poly[end]
	for i := start + 1; i < end; i++ {
		d := perpendicularDistance(poly[i], a, b)
		if d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}
	if maxDist > epsilon {
		keep[maxIdx] = true
		rdpRange(poly, start, maxIdx, epsilon, keep)
		rdpRange(poly, maxIdx, end, epsilon, keep)
	}
}

func perpendicularDistance(p, a, b Point) float64 {
	abx, aby := b.X-a.X, b.Y-a.Y
	lengthSq := abx*abx + aby*aby
	if lengthSq < 1e-18 {
		dx, dy := p.X-a.X, p.Y-a.Y
		return math.Sqrt(dx*dx + dy*dy)
	}
	cross := math.Abs((p.X-a.X)*aby - (p.Y-a.Y)*abx)
	return cross / math.Sqrt(lengthSq)
}
