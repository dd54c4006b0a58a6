// Package selection implements the tagged-sum Selection result of §3: an
// Indices variant (explicit set-like container of point indices) and a
// Geometry variant (a lasso polygon plus a membership predicate, with
// cardinality materialized lazily). Both satisfy engine.Selection without
// importing it, avoiding an import cycle — the same structural-typing
// approach engine.Selection itself documents.
package selection

import (
	"context"
	"time"

	"github.com/scattergeo/engine/bitset"
	"github.com/scattergeo/engine/polygonutil"
	"github.com/scattergeo/engine/spatialindex"
)

// Indices is the Indices variant of §3: an explicit set of point indices,
// always backed by an n-bit bitset whatever the set's cardinality; there
// is no hash/slice backing for small sets.
type Indices struct {
	bits          *bitset.Bitset
	computeTimeMs float64
}

// bitsetThreshold is the selection cardinality (≈2×10⁶) named by §3 for a
// bitset backing. NewIndices does not consult it; it builds a bitset for
// every selection.
const bitsetThreshold = 2_000_000

// NewIndices builds an Indices selection from a list of point indices,
// valid for point count n. computeTimeMs records how long the producing
// operation (e.g. hitTest or lasso) took.
func NewIndices(n int, indices []int, computeTimeMs float64) *Indices {
	b := bitset.New(n)
	for _, i := range indices {
		b.Add(i)
	}
	return &Indices{bits: b, computeTimeMs: computeTimeMs}
}

// Has reports whether point i is selected.
func (s *Indices) Has(i int) bool { return s.bits.Has(i) }

// Size returns the exact cardinality; always known for the Indices
// variant.
func (s *Indices) Size() (int, bool) { return s.bits.Count(), true }

// ComputeTimeMs returns how long the producing operation took.
func (s *Indices) ComputeTimeMs() float64 { return s.computeTimeMs }

// ForEach visits every selected index in ascending order.
func (s *Indices) ForEach(visit func(i int)) { s.bits.ForEach(visit) }

// Geometry is the Geometry variant of §3: a lasso polygon in data space,
// plus an optional bounding box used to short-circuit the point-in-polygon
// test before it runs. Has(i) is (inside polygon AND inside bounds); Size
// is not known until CountSelection materializes it.
type Geometry struct {
	Polygon                []polygonutil.Point
	HasBounds              bool
	MinX, MinY, MaxX, MaxY float64
	computeTimeMs          float64
	index                  *spatialindex.Grid // optional, used by CountSelection
	x, y                   func(i int) float64
	n                      int
}

// NewGeometry builds a Geometry selection from a lasso polygon. index,
// x, y are optional (nil disables CountSelection's grid-accelerated
// path, falling back to full iteration); n is the dataset point count.
func NewGeometry(polygon []polygonutil.Point, n int, x, y func(i int) float64, index *spatialindex.Grid, computeTimeMs float64) *Geometry {
	g := &Geometry{Polygon: polygon, n: n, x: x, y: y, index: index, computeTimeMs: computeTimeMs}
	if len(polygon) >= 3 {
		minX, minY, maxX, maxY := polygonutil.BoundingBox(polygon)
		g.HasBounds = true
		g.MinX, g.MinY, g.MaxX, g.MaxY = minX, minY, maxX, maxY
	}
	return g
}

// Has reports whether point i's data-space position lies inside (or on)
// the polygon and its bounding box (§3).
func (s *Geometry) Has(i int) bool {
	if len(s.Polygon) < 3 {
		return false
	}
	px, py := s.x(i), s.y(i)
	if s.HasBounds && (px < s.MinX || px > s.MaxX || py < s.MinY || py > s.MaxY) {
		return false
	}
	return polygonutil.Contains(s.Polygon, polygonutil.Point{X: px, Y: py})
}

// Size reports (0,false): cardinality is deferred for the Geometry
// variant until CountSelection materializes it.
func (s *Geometry) Size() (int, bool) { return 0, false }

// ComputeTimeMs returns how long building the polygon (not counting it)
// took.
func (s *Geometry) ComputeTimeMs() float64 { return s.computeTimeMs }

// countYieldInterval is the default cooperative-yield cadence for
// CountSelection (§7 "Cancellation ... never throws").
const countYieldInterval = 8 * time.Millisecond

// CountSelectionOptions mirrors engine.CountOptions without importing
// engine.
type CountSelectionOptions struct {
	OnProgress func(scanned, total, count int)
	YieldEvery time.Duration
}

// CountSelection materializes the exact cardinality of a Geometry
// selection by grid-accelerated or full-scan iteration, yielding
// cooperatively so a huge selection never blocks its caller's event loop
// for more than YieldEvery at a stretch. On ctx cancellation it returns
// the partial count accumulated so far, never an error (§7).
func (s *Geometry) CountSelection(ctx context.Context, opts CountSelectionOptions) (int, error) {
	if len(s.Polygon) < 3 {
		return 0, nil
	}
	yieldEvery := opts.YieldEvery
	if yieldEvery <= 0 {
		yieldEvery = countYieldInterval
	}

	count := 0
	scanned := 0
	lastYield := time.Now()

	visit := func(i int) {
		scanned++
		if s.Has(i) {
			count++
		}
	}

	maybeYield := func() bool {
		if time.Since(lastYield) < yieldEvery {
			return true
		}
		lastYield = time.Now()
		if opts.OnProgress != nil {
			opts.OnProgress(scanned, s.n, count)
		}
		select {
		case <-ctx.Done():
			return false
		default:
			return true
		}
	}

	if s.index != nil && s.HasBounds {
		cancelled := false
		s.index.ForEachInAABB(s.MinX, s.MinY, s.MaxX, s.MaxY, func(i int) {
			if cancelled {
				return
			}
			visit(i)
			if !maybeYield() {
				cancelled = true
			}
		})
	} else {
		for i := 0; i < s.n; i++ {
			visit(i)
			if !maybeYield() {
				break
			}
		}
	}

	if opts.OnProgress != nil {
		opts.OnProgress(scanned, s.n, count)
	}
	return count, nil
}
