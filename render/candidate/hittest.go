package candidate

import (
	"math"
	"time"

	"github.com/scattergeo/engine"
	"github.com/scattergeo/engine/dataset"
	"github.com/scattergeo/engine/geometry"
	"github.com/scattergeo/engine/polygonutil"
	"github.com/scattergeo/engine/selection"
)

// hitTestSlackPx matches render/reference's threshold so the accuracy
// harness's exact-index-match check (§4.7) has something to agree on.
const hitTestSlackPx = 5

// HitTest unprojects the screen point to data space, computes a
// conservative data-space query radius, and queries the spatial index's
// AABB instead of iterating every point (§4.5 "hitTest"). Each
// candidate is re-projected with the exact closed-form view math and
// compared in screen space; ties go to the lowest index.
func (r *Renderer) HitTest(sx, sy float64) (*engine.HitResult, error) {
	if r.ds == nil || r.index == nil {
		return nil, nil
	}
	thresholdPx := r.opts.PointRadius + hitTestSlackPx
	thresholdSq := thresholdPx * thresholdPx

	center := r.unproject(geometry.Vec{X: sx, Y: sy})

	var dataRadius float64
	if r.geom == dataset.Euclidean {
		scale := r.euclidean.Scale(r.cssWidth, r.cssHeight)
		dataRadius = thresholdPx / scale
	} else {
		diskR := r.poincare.DiskRadius(r.cssWidth, r.cssHeight)
		dcx, dcy := float64(r.cssWidth)/2, float64(r.cssHeight)/2
		ddx, ddy := sx-dcx, sy-dcy
		if ddx*ddx+ddy*ddy > (diskR+thresholdPx)*(diskR+thresholdPx) {
			return nil, nil
		}
		dataRadius = r.poincare.ConservativeHitRadius(thresholdPx, center, r.cssWidth, r.cssHeight)
	}

	best := -1
	var bestDistSq, bestSX, bestSY float64
	checkDisk := r.geom == dataset.Poincare
	var diskCX, diskCY, diskR float64
	if checkDisk {
		diskR = r.poincare.DiskRadius(r.cssWidth, r.cssHeight)
		diskCX, diskCY = float64(r.cssWidth)/2, float64(r.cssHeight)/2
	}

	r.index.ForEachInAABB(center.X-dataRadius, center.Y-dataRadius, center.X+dataRadius, center.Y+dataRadius, func(i int) {
		x, y := r.ds.X(i), r.ds.Y(i)
		s := r.project(geometry.Vec{X: x, Y: y})
		if checkDisk {
			ddx, ddy := s.X-diskCX, s.Y-diskCY
			if ddx*ddx+ddy*ddy > diskR*diskR {
				return
			}
		}
		dx, dy := s.X-sx, s.Y-sy
		distSq := dx*dx + dy*dy
		if distSq > thresholdSq {
			return
		}
		if best == -1 || distSq < bestDistSq || (distSq == bestDistSq && i < best) {
			best = i
			bestDistSq = distSq
			bestSX, bestSY = s.X, s.Y
		}
	})

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

// LassoSelect unprojects the polyline into data space and always returns
// the Geometry selection variant (§4.5 "lassoSelect... Always return the
// geometry variant"), deferring cardinality to CountSelection — the
// opposite of render/reference's eager Indices materialization.
// computeTimeMs measures only the unprojection loop, per spec.
func (r *Renderer) LassoSelect(screenPolyline []float64) (engine.Selection, error) {
	if len(screenPolyline)%2 != 0 {
		return nil, engine.NewContractError(engine.ErrInvalidPolyline, "odd-length polyline (%d floats)", len(screenPolyline))
	}

	start := time.Now()
	poly := make([]polygonutil.Point, len(screenPolyline)/2)
	for i := range poly {
		sx, sy := screenPolyline[2*i], screenPolyline[2*i+1]
		dp := r.unproject(geometry.Vec{X: sx, Y: sy})
		poly[i] = polygonutil.Point{X: dp.X, Y: dp.Y}
	}
	computeTimeMs := float64(time.Since(start).Microseconds()) / 1000

	n := r.datasetN()
	var xFn, yFn func(i int) float64
	if r.ds != nil {
		xFn, yFn = r.ds.X, r.ds.Y
	}
	return selection.NewGeometry(poly, n, xFn, yFn, r.index, computeTimeMs), nil
}
