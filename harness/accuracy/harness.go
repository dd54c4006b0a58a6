// Package accuracy implements the cross-implementation comparison suite
// of §4.7: reference and candidate renderers are initialized against a
// shared dataset and identical initial view, then driven through the
// same operation sequence, asserting the §8 "Reference/Candidate
// equivalence" invariant at each step.
package accuracy

import (
	"fmt"
	"math"

	"github.com/scattergeo/engine"
	"github.com/scattergeo/engine/dataset"
	"github.com/scattergeo/engine/geometry"
	"github.com/scattergeo/engine/render/candidate"
	"github.com/scattergeo/engine/render/reference"
)

// OperationResult is one row of the report produced by Run (§4.7 "Report
// yields a list of operations, each with passed, maxError, optional
// textual detail").
type OperationResult struct {
	Name     string
	Passed   bool
	MaxError float64
	Detail   string
}

// Report is the outcome of the fixed accuracy suite. It passes iff every
// operation passes.
type Report struct {
	Operations []OperationResult
}

// Passed reports whether every operation in the report passed.
func (r Report) Passed() bool {
	for _, op := range r.Operations {
		if !op.Passed {
			return false
		}
	}
	return true
}

// Options configures a single accuracy run.
type Options struct {
	Width, Height int
	DPR           float64
	PointRadius   float64
}

// DefaultOptions returns the canonical §8 scenario canvas (1200×800).
func DefaultOptions() Options {
	return Options{Width: 1200, Height: 800, DPR: 1, PointRadius: 3}
}

func (o Options) resolve() Options {
	if o.Width <= 0 {
		o.Width = 1200
	}
	if o.Height <= 0 {
		o.Height = 800
	}
	if o.DPR <= 0 {
		o.DPR = 1
	}
	if o.PointRadius <= 0 {
		o.PointRadius = 3
	}
	return o
}

const (
	projectionTolerance  = 1e-6
	roundTripTolerance   = 1e-6
	boundaryTolerance    = 1e-5
	viewTolerance        = 1e-10
	extremeViewTolerance = 1e-9
)

// Run executes the fixed §4.7 suite for ds against its native geometry,
// returning a Report. Both renderers are constructed fresh, Init'd with
// identical opts, and given the same dataset before any check runs.
func Run(ds *dataset.Dataset, opts Options) (Report, error) {
	opts = opts.resolve()

	ref, cand, err := newPair(ds.Geometry())
	if err != nil {
		return Report{}, err
	}
	initOpts := []engine.RendererOption{
		engine.WithSize(opts.Width, opts.Height),
		engine.WithDevicePixelRatio(opts.DPR),
		engine.WithPointRadius(opts.PointRadius),
	}
	if err := ref.Init(nil, initOpts...); err != nil {
		return Report{}, fmt.Errorf("accuracy: reference Init: %w", err)
	}
	if err := cand.Init(nil, initOpts...); err != nil {
		return Report{}, fmt.Errorf("accuracy: candidate Init: %w", err)
	}
	if err := ref.SetDataset(ds); err != nil {
		return Report{}, fmt.Errorf("accuracy: reference SetDataset: %w", err)
	}
	if err := cand.SetDataset(ds); err != nil {
		return Report{}, fmt.Errorf("accuracy: candidate SetDataset: %w", err)
	}

	var report Report
	report.Operations = append(report.Operations, checkProjection(ref, cand, ds))
	report.Operations = append(report.Operations, checkRoundTrip(ref, "reference"))
	report.Operations = append(report.Operations, checkRoundTrip(cand, "candidate"))
	if ds.Geometry() == dataset.Poincare {
		report.Operations = append(report.Operations, checkNearBoundary(ref, cand))
	}
	report.Operations = append(report.Operations, checkPan(ref, cand, opts))
	report.Operations = append(report.Operations, checkZoom(ref, cand, opts))
	report.Operations = append(report.Operations, checkHitTest(ref, cand, ds))
	report.Operations = append(report.Operations, checkLasso(ref, cand, ds, opts))

	return report, nil
}

// pair is the narrow surface both render/reference.Renderer and
// render/candidate.Renderer satisfy, used so the checks below don't care
// which concrete package they're driving.
type pair interface {
	engine.Renderer
}

func newPair(geom dataset.Geometry) (pair, pair, error) {
	switch geom {
	case dataset.Euclidean:
		return reference.NewEuclidean(), candidate.NewEuclidean(), nil
	case dataset.Poincare:
		return reference.NewPoincare(), candidate.NewPoincare(), nil
	default:
		return nil, nil, fmt.Errorf("accuracy: unsupported geometry %v", geom)
	}
}

// sampleIndices returns the §4.7 representative sample {0, n/4, n/2, n-1}
// for a dataset of size n, deduplicated and clamped.
func sampleIndices(n int) []int {
	if n == 0 {
		return nil
	}
	raw := []int{0, n / 4, n / 2, n - 1}
	seen := make(map[int]bool, len(raw))
	out := make([]int, 0, len(raw))
	for _, i := range raw {
		if i < 0 || i >= n || seen[i] {
			continue
		}
		seen[i] = true
		out = append(out, i)
	}
	return out
}

func checkProjection(ref, cand pair, ds *dataset.Dataset) OperationResult {
	maxErr := 0.0
	for _, i := range sampleIndices(ds.N()) {
		x, y := ds.X(i), ds.Y(i)
		rx, ry := ref.ProjectToScreen(x, y)
		cx, cy := cand.ProjectToScreen(x, y)
		maxErr = math.Max(maxErr, math.Hypot(rx-cx, ry-cy))
	}
	return OperationResult{
		Name:     "projection",
		Passed:   maxErr <= projectionTolerance,
		MaxError: maxErr,
		Detail:   fmt.Sprintf("max screen-pixel delta across %d sample indices", len(sampleIndices(ds.N()))),
	}
}

func checkRoundTrip(r pair, label string) OperationResult {
	samples := [][2]float64{{0.3, -0.2}, {-0.1, 0.6}, {0, 0}, {0.05, -0.05}}
	maxErr := 0.0
	for _, s := range samples {
		sx, sy := r.ProjectToScreen(s[0], s[1])
		x, y := r.UnprojectFromScreen(sx, sy)
		maxErr = math.Max(maxErr, math.Hypot(x-s[0], y-s[1]))
	}
	return OperationResult{
		Name:     "round-trip:" + label,
		Passed:   maxErr <= roundTripTolerance,
		MaxError: maxErr,
		Detail:   "project then unproject must return the input",
	}
}

func checkNearBoundary(ref, cand pair) OperationResult {
	const radius = 0.95
	angles := []float64{0, math.Pi / 3, math.Pi, 1.7 * math.Pi}
	maxErr := 0.0
	for _, theta := range angles {
		x, y := radius*math.Cos(theta), radius*math.Sin(theta)
		rx, ry := ref.ProjectToScreen(x, y)
		cx, cy := cand.ProjectToScreen(x, y)
		maxErr = math.Max(maxErr, math.Hypot(rx-cx, ry-cy))
	}
	return OperationResult{
		Name:     "near-boundary",
		Passed:   maxErr <= boundaryTolerance,
		MaxError: maxErr,
		Detail:   fmt.Sprintf("probes at radius %.2f", radius),
	}
}

// viewStateDelta returns a scalar distance between two view states
// returned by GetView, comparing CenterX/CenterY/Zoom for Euclidean
// views and A.X/A.Y/DisplayZoom for Poincaré views (§4.7 checks 4-5).
func viewStateDelta(a, b any) float64 {
	switch av := a.(type) {
	case geometry.EuclideanView:
		bv, ok := b.(geometry.EuclideanView)
		if !ok {
			return math.Inf(1)
		}
		return math.Max(math.Hypot(av.CenterX-bv.CenterX, av.CenterY-bv.CenterY), math.Abs(av.Zoom-bv.Zoom))
	case geometry.PoincareView:
		bv, ok := b.(geometry.PoincareView)
		if !ok {
			return math.Inf(1)
		}
		return math.Max(math.Hypot(av.A.X-bv.A.X, av.A.Y-bv.A.Y), math.Abs(av.DisplayZoom-bv.DisplayZoom))
	default:
		return math.Inf(1)
	}
}

func resetView(r pair, geom dataset.Geometry) {
	if geom == dataset.Euclidean {
		_ = r.SetView(geometry.NewEuclideanView())
	} else {
		_ = r.SetView(geometry.NewPoincareView())
	}
}

func viewGeometry(r pair) dataset.Geometry {
	if _, ok := r.GetView().(geometry.PoincareView); ok {
		return dataset.Poincare
	}
	return dataset.Euclidean
}

func checkPan(ref, cand pair, opts Options) OperationResult {
	geom := viewGeometry(ref)
	resetView(ref, geom)
	resetView(cand, geom)

	startX, startY := float64(opts.Width)/2, float64(opts.Height)/2
	if starter, ok := ref.(engine.PanStarter); ok {
		starter.StartPan(startX, startY)
	}
	if starter, ok := cand.(engine.PanStarter); ok {
		starter.StartPan(startX, startY)
	}
	dx, dy := 100.0, -60.0
	ref.Pan(dx, dy, engine.Modifiers{})
	cand.Pan(dx, dy, engine.Modifiers{})

	maxErr := viewStateDelta(ref.GetView(), cand.GetView())
	return OperationResult{
		Name:     "pan",
		Passed:   maxErr <= viewTolerance,
		MaxError: maxErr,
		Detail:   "view state after an identical pan delta from the reset view",
	}
}

func checkZoom(ref, cand pair, opts Options) OperationResult {
	geom := viewGeometry(ref)
	resetView(ref, geom)
	resetView(cand, geom)

	anchorX, anchorY := float64(opts.Width)/2, float64(opts.Height)/2
	// The last two deltas are the §4.7 "two extreme deltas" checked at the
	// relaxed 1e-9 tolerance; the first two stay within the normal 1e-10
	// view-state tolerance.
	deltas := []float64{0.2, -0.2, 50.0, -50.0}
	maxNormalErr, maxExtremeErr := 0.0, 0.0
	for i, d := range deltas {
		ref.Zoom(anchorX, anchorY, d, engine.Modifiers{})
		cand.Zoom(anchorX, anchorY, d, engine.Modifiers{})
		err := viewStateDelta(ref.GetView(), cand.GetView())
		if i < 2 {
			maxNormalErr = math.Max(maxNormalErr, err)
		} else {
			maxExtremeErr = math.Max(maxExtremeErr, err)
		}
	}
	passed := maxNormalErr <= viewTolerance && maxExtremeErr <= extremeViewTolerance
	return OperationResult{
		Name:     "zoom",
		Passed:   passed,
		MaxError: math.Max(maxNormalErr, maxExtremeErr),
		Detail:   "view state after a sequence of wheel deltas including two extremes",
	}
}

func checkHitTest(ref, cand pair, ds *dataset.Dataset) OperationResult {
	mismatches := 0
	total := 0
	for _, i := range sampleIndices(ds.N()) {
		sx, sy := ref.ProjectToScreen(ds.X(i), ds.Y(i))
		total++
		rRes, rErr := ref.HitTest(sx, sy)
		cRes, cErr := cand.HitTest(sx, sy)
		if rErr != nil || cErr != nil {
			mismatches++
			continue
		}
		rIdx, cIdx := -1, -1
		if rRes != nil {
			rIdx = rRes.Index
		}
		if cRes != nil {
			cIdx = cRes.Index
		}
		if rIdx != cIdx {
			mismatches++
		}
	}
	return OperationResult{
		Name:     "hit-test",
		Passed:   mismatches == 0,
		MaxError: float64(mismatches),
		Detail:   fmt.Sprintf("%d/%d fixed screen positions mismatched", mismatches, total),
	}
}

func checkLasso(ref, cand pair, ds *dataset.Dataset, opts Options) OperationResult {
	w, h := float64(opts.Width), float64(opts.Height)
	cx, cy := w/2, h/2
	// A centered rectangle with each side scaled by sqrt(0.4) covers ~40%
	// of the canvas area, the §4.7 canonical lasso polygon.
	sideFraction := math.Sqrt(0.4)
	rw, rh := w*sideFraction*0.5, h*sideFraction*0.5
	poly := []float64{
		cx - rw, cy - rh,
		cx + rw, cy - rh,
		cx + rw, cy + rh,
		cx - rw, cy + rh,
	}

	rSel, rErr := ref.LassoSelect(poly)
	cSel, cErr := cand.LassoSelect(poly)
	if rErr != nil || cErr != nil {
		return OperationResult{Name: "lasso", Passed: false, Detail: fmt.Sprintf("lassoSelect error: ref=%v cand=%v", rErr, cErr)}
	}

	mismatches := 0
	n := ds.N()
	for i := 0; i < n; i++ {
		if rSel.Has(i) != cSel.Has(i) {
			mismatches++
		}
	}
	return OperationResult{
		Name:     "lasso",
		Passed:   mismatches == 0,
		MaxError: float64(mismatches),
		Detail:   fmt.Sprintf("%d/%d points disagree on membership in a 40%%-area canonical polygon", mismatches, n),
	}
}
