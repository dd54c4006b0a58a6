// Package performance implements the timing-measurement suite of §4.8:
// structural stand-ins for the per-geometry, per-point-count metrics a
// browser harness would collect (dataset generation time, per-frame CPU
// submit time, derived FPS, hit-test/lasso latency, pan/hover frame
// interval, heap usage), all driven against a real engine.Renderer so the
// numbers reflect this module's own code paths rather than synthetic
// sleeps.
package performance

import (
	"context"
	"math"
	"math/rand"
	"runtime"
	"time"

	"github.com/scattergeo/engine"
	"github.com/scattergeo/engine/dataset"
)

// Metric is one named measurement in a Report.
type Metric struct {
	Name  string
	Value float64
	Unit  string
}

// Report collects every metric from a single Run.
type Report struct {
	Geometry   string
	PointCount int
	Metrics    []Metric
}

// Options configures a performance run.
type Options struct {
	Width, Height int
	DPR           float64
	Frames        int // frames driven for the rAF/pan/hover loops, default 90
	HitTestProbes int // random screen positions for the hit-test check, default 100
	Seed          int64
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
	if o.Frames < 60 {
		o.Frames = 90
	}
	if o.HitTestProbes <= 0 {
		o.HitTestProbes = 100
	}
	return o
}

// DefaultOptions returns the canonical §8 scenario canvas at the §4.8
// default frame/probe counts.
func DefaultOptions() Options {
	return Options{Width: 1200, Height: 800, DPR: 1, Frames: 90, HitTestProbes: 100}
}

// GenerateDataset synthesizes an n-point dataset for geom using a
// deterministic PRNG seeded by seed, and returns how long the
// construction took. Run does not report that duration; it is returned
// to the caller only.
func GenerateDataset(n int, geom dataset.Geometry, seed int64) (*dataset.Dataset, time.Duration, error) {
	start := time.Now()
	rng := rand.New(rand.NewSource(seed))
	positions := make([]float32, 2*n)
	labels := make([]uint16, n)
	for i := 0; i < n; i++ {
		switch geom {
		case dataset.Poincare:
			r := rng.Float64() * 0.97
			theta := rng.Float64() * 2 * math.Pi
			positions[2*i] = float32(r * math.Cos(theta))
			positions[2*i+1] = float32(r * math.Sin(theta))
		default:
			positions[2*i] = float32(rng.NormFloat64())
			positions[2*i+1] = float32(rng.NormFloat64())
		}
		labels[i] = uint16(rng.Intn(10))
	}
	ds, err := dataset.New(positions, labels, geom)
	return ds, time.Since(start), err
}

// Run drives renderer through the §4.8 measurement suite against ds,
// which must already have been installed via renderer.SetDataset and
// renderer.Init before Run is called — Run itself only measures, it does
// not own renderer setup, since reference and candidate renderers need
// different Init/SetDataset error handling upstream.
func Run(renderer engine.Renderer, ds *dataset.Dataset, opts Options) Report {
	opts = opts.resolve()
	report := Report{Geometry: ds.GeometryName(), PointCount: ds.N()}

	report.Metrics = append(report.Metrics, measureSubmit(renderer))
	report.Metrics = append(report.Metrics, measureFrameInterval(renderer, opts.Frames)...)
	report.Metrics = append(report.Metrics, measureHitTest(renderer, ds, opts)...)
	report.Metrics = append(report.Metrics, measureLasso(renderer, opts)...)
	report.Metrics = append(report.Metrics, measurePan(renderer, opts)...)
	report.Metrics = append(report.Metrics, measureHover(renderer, opts)...)
	report.Metrics = append(report.Metrics, measureHeap())

	return report
}

// measureSubmit times a single Render call: the CPU-side cost of
// submitting one frame's draw commands.
func measureSubmit(r engine.Renderer) Metric {
	start := time.Now()
	_ = r.Render()
	return Metric{Name: "cpu_submit_time", Value: msSince(start), Unit: "ms"}
}

// measureFrameInterval drives n render frames back to back and reports
// the mean inter-frame interval and its derived FPS, standing in for the
// browser's actual rAF interval (§4.8 "actual rAF interval (derived
// FPS)") since there is no real animation-frame scheduler here.
func measureFrameInterval(r engine.Renderer, n int) []Metric {
	intervals := make([]float64, 0, n)
	prev := time.Now()
	for i := 0; i < n; i++ {
		_ = r.Render()
		now := time.Now()
		intervals = append(intervals, now.Sub(prev).Seconds()*1000)
		prev = now
	}
	mean := meanOf(intervals)
	fps := 0.0
	if mean > 0 {
		fps = 1000 / mean
	}
	return []Metric{
		{Name: "raf_interval", Value: mean, Unit: "ms"},
		{Name: "derived_fps", Value: fps, Unit: "fps"},
	}
}

// measureHitTest times HitTest over HitTestProbes random screen
// positions within the canvas (§4.8 "hit-test time (~100 random screen
// positions)").
func measureHitTest(r engine.Renderer, ds *dataset.Dataset, opts Options) []Metric {
	rng := rand.New(rand.NewSource(opts.Seed + 1))
	start := time.Now()
	for i := 0; i < opts.HitTestProbes; i++ {
		sx := rng.Float64() * float64(opts.Width)
		sy := rng.Float64() * float64(opts.Height)
		_, _ = r.HitTest(sx, sy)
	}
	total := msSince(start)
	per := 0.0
	if opts.HitTestProbes > 0 {
		per = total / float64(opts.HitTestProbes)
	}
	return []Metric{
		{Name: "hit_test_time_total", Value: total, Unit: "ms"},
		{Name: "hit_test_time_per_probe", Value: per, Unit: "ms"},
	}
}

// measureLasso times a full lassoSelect + countSelection round trip over
// a canonical centered polygon (§4.8 "lasso end-to-end time including
// exact-count materialization for geometry selections").
func measureLasso(r engine.Renderer, opts Options) []Metric {
	w, h := float64(opts.Width), float64(opts.Height)
	cx, cy := w/2, h/2
	side := math.Sqrt(0.4)
	rw, rh := w*side*0.5, h*side*0.5
	poly := []float64{
		cx - rw, cy - rh,
		cx + rw, cy - rh,
		cx + rw, cy + rh,
		cx - rw, cy + rh,
	}

	start := time.Now()
	sel, err := r.LassoSelect(poly)
	selectTime := msSince(start)
	if err != nil {
		return []Metric{{Name: "lasso_select_time", Value: selectTime, Unit: "ms"}}
	}

	start = time.Now()
	_, _ = r.CountSelection(context.Background(), sel, engine.CountOptions{})
	countTime := msSince(start)

	return []Metric{
		{Name: "lasso_select_time", Value: selectTime, Unit: "ms"},
		{Name: "lasso_count_time", Value: countTime, Unit: "ms"},
		{Name: "lasso_end_to_end_time", Value: selectTime + countTime, Unit: "ms"},
	}
}

// fivePointLoop returns the five keypoints (normalized [0,1] canvas
// fractions) the §4.8 pan stress loop cycles through.
func fivePointLoop() [][2]float64 {
	return [][2]float64{{0.5, 0.5}, {0.2, 0.2}, {0.8, 0.2}, {0.8, 0.8}, {0.2, 0.8}}
}

// measurePan drives Frames frames (default 90, at least 60 per §4.8)
// along the 5-keypoint loop, issuing pan deltas synchronously frame by
// frame, and reports the mean per-frame interval.
func measurePan(r engine.Renderer, opts Options) []Metric {
	keypoints := fivePointLoop()
	w, h := float64(opts.Width), float64(opts.Height)

	prevX, prevY := keypoints[0][0]*w, keypoints[0][1]*h
	intervals := make([]float64, 0, opts.Frames)
	prev := time.Now()
	for i := 0; i < opts.Frames; i++ {
		kp := keypoints[(i+1)%len(keypoints)]
		x, y := kp[0]*w, kp[1]*h
		r.Pan(x-prevX, y-prevY, engine.Modifiers{})
		_ = r.Render()
		now := time.Now()
		intervals = append(intervals, now.Sub(prev).Seconds()*1000)
		prev = now
		prevX, prevY = x, y
	}
	return []Metric{{Name: "pan_frame_interval", Value: meanOf(intervals), Unit: "ms"}}
}

// measureHover drives Frames frames of HitTest + SetHovered along a
// circular mouse path (§4.8 "hover frame interval (circular mouse
// path)").
func measureHover(r engine.Renderer, opts Options) []Metric {
	w, h := float64(opts.Width), float64(opts.Height)
	cx, cy := w/2, h/2
	radius := math.Min(w, h) * 0.3

	intervals := make([]float64, 0, opts.Frames)
	prev := time.Now()
	for i := 0; i < opts.Frames; i++ {
		theta := 2 * math.Pi * float64(i) / float64(opts.Frames)
		sx, sy := cx+radius*math.Cos(theta), cy+radius*math.Sin(theta)
		res, err := r.HitTest(sx, sy)
		if err == nil {
			idx := -1
			if res != nil {
				idx = res.Index
			}
			r.SetHovered(idx)
		}
		now := time.Now()
		intervals = append(intervals, now.Sub(prev).Seconds()*1000)
		prev = now
	}
	return []Metric{{Name: "hover_frame_interval", Value: meanOf(intervals), Unit: "ms"}}
}

// measureHeap reports heap usage via runtime.MemStats, this module's
// analogue of the browser's performance.memory heap-usage figure (§4.8).
func measureHeap() Metric {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return Metric{Name: "heap_alloc", Value: float64(ms.HeapAlloc) / (1024 * 1024), Unit: "MiB"}
}

func meanOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func msSince(start time.Time) float64 {
	return time.Since(start).Seconds() * 1000
}
