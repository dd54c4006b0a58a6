package reference

import (
	"math"

	"github.com/scattergeo/engine"
	"github.com/scattergeo/engine/dataset"
	"github.com/scattergeo/engine/geometry"
	"github.com/scattergeo/engine/polygonutil"
	"github.com/scattergeo/engine/selection"
)

// hitTestSlackPx is the additional screen-pixel slack added to the point
// radius before squaring, matching §4.4 "(r+5)²".
const hitTestSlackPx = 5

// HitTest iterates every point (naive, no spatial-index acceleration —
// the reference renderer trades query speed for semantic simplicity),
// projects it, and accepts the closest point within (r+5)² screen pixels;
// ties go to the lowest index. Poincaré additionally rejects points whose
// projection falls outside the disk.
func (r *Renderer) HitTest(sx, sy float64) (*engine.HitResult, error) {
	if r.ds == nil {
		return nil, nil
	}
	threshold := r.opts.PointRadius + hitTestSlackPx
	thresholdSq := threshold * threshold

	var diskCX, diskCY, diskR float64
	checkDisk := r.geom == dataset.Poincare
	if checkDisk {
		diskR = r.poincare.DiskRadius(r.cssWidth, r.cssHeight)
		diskCX, diskCY = float64(r.cssWidth)/2, float64(r.cssHeight)/2
	}

	best := -1
	var bestDistSq, bestSX, bestSY float64

	n := r.ds.N()
	for i := 0; i < n; i++ {
		x, y := r.ds.X(i), r.ds.Y(i)
		s := r.project(geometry.Vec{X: x, Y: y})
		if checkDisk {
			ddx, ddy := s.X-diskCX, s.Y-diskCY
			if ddx*ddx+ddy*ddy > diskR*diskR {
				continue
			}
		}
		dx, dy := s.X-sx, s.Y-sy
		distSq := dx*dx + dy*dy
		if distSq > thresholdSq {
			continue
		}
		if best == -1 || distSq < bestDistSq {
			best = i
			bestDistSq = distSq
			bestSX, bestSY = s.X, s.Y
		}
	}

	if best == -1 {
		return nil, nil
	}
	return &engine.HitResult{
		Index:    best,
		ScreenX:  bestSX,
		ScreenY:  bestSY,
		Distance: math.Sqrt(bestDistSq),
	}, nil
}

// LassoSelect unprojects every polyline vertex into data space, then runs
// the point-in-polygon test against every point, returning the Indices
// variant directly — the reference renderer materializes immediately
// rather than deferring to a Geometry selection (§4.4, distinct from the
// candidate renderer's lassoSelect which defers via the Geometry variant).
func (r *Renderer) LassoSelect(screenPolyline []float64) (engine.Selection, error) {
	if len(screenPolyline)%2 != 0 {
		return nil, engine.NewContractError(engine.ErrInvalidPolyline, "odd-length polyline (%d floats)", len(screenPolyline))
	}
	if len(screenPolyline) < 6 {
		return selection.NewIndices(0, nil, 0), nil
	}

	poly := make([]polygonutil.Point, len(screenPolyline)/2)
	for i := range poly {
		sx, sy := screenPolyline[2*i], screenPolyline[2*i+1]
		dp := r.unproject(geometry.Vec{X: sx, Y: sy})
		poly[i] = polygonutil.Point{X: dp.X, Y: dp.Y}
	}

	n := 0
	if r.ds != nil {
		n = r.ds.N()
	}
	var indices []int
	for i := 0; i < n; i++ {
		p := polygonutil.Point{X: r.ds.X(i), Y: r.ds.Y(i)}
		if polygonutil.Contains(poly, p) {
			indices = append(indices, i)
		}
	}
	return selection.NewIndices(n, indices, 0), nil
}
