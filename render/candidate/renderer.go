package candidate

import (
	"context"
	"math"
	"time"

	"github.com/gogpu/gpucontext"

	"github.com/scattergeo/engine"
	"github.com/scattergeo/engine/dataset"
	"github.com/scattergeo/engine/geometry"
	"github.com/scattergeo/engine/selection"
	"github.com/scattergeo/engine/spatialindex"
)

// Renderer is the GPU-accelerated engine.Renderer implementation of
// §4.5. It shares the same view-math and dataset/spatial-index plumbing
// as render/reference but adds adaptive-quality policy (points DPR,
// shape hysteresis, upload subsampling, interaction LOD) and defers GPU
// context acquisition to first Render (§4.5 "Context acquisition").
type Renderer struct {
	geom dataset.Geometry

	opts      engine.InitOptions
	cssWidth  int
	cssHeight int
	dpr       float64
	surface   *engine.Pixmap

	ctx       *gpuContext
	pipelines *pipelineCache

	ds    *dataset.Dataset
	index *spatialindex.Grid

	euclidean geometry.EuclideanView
	poincare  geometry.PoincareView

	sel       engine.Selection
	hovered   int
	panAnchor *geometry.Vec

	shapePolicy    *engine.ShapePolicy
	shapeMode      engine.ShapeMode
	pointsDPR      float64
	uploadIndices  []int32 // nil if n <= maxGpuUploadPoints (full upload)
	interactionLOD []int32 // nil if n < 500_000

	lastViewChange time.Time
	interacting    bool

	paletteTexture []uint8 // RGBA8, width=len(colors), height=1
}

// New returns an unconfigured candidate renderer. provider is stored in
// the GPU context but not used: the renderer acquires a private
// instance/adapter/device on first render whether or not provider is nil.
func New(geom dataset.Geometry, provider gpucontext.DeviceProvider) *Renderer {
	return &Renderer{
		geom:        geom,
		hovered:     -1,
		ctx:         newGPUContext(provider),
		shapePolicy: engine.NewShapePolicy(circleBudget),
	}
}

// NewEuclidean returns a candidate renderer for the Euclidean geometry,
// acquiring its own private GPU device on first render.
func NewEuclidean() *Renderer { return New(dataset.Euclidean, nil) }

// NewPoincare returns a candidate renderer for the Poincaré geometry,
// acquiring its own private GPU device on first render.
func NewPoincare() *Renderer { return New(dataset.Poincare, nil) }

func (r *Renderer) Init(surface any, opts ...engine.RendererOption) error {
	o := engine.ResolveInitOptions(opts...)
	if o.Width < 0 || o.Height < 0 {
		return engine.NewContractError(engine.ErrNegativeSize, "width=%d height=%d", o.Width, o.Height)
	}
	r.opts = o
	r.cssWidth, r.cssHeight = o.Width, o.Height
	r.dpr = o.DevicePixelRatio
	if r.dpr <= 0 {
		r.dpr = 1
	}
	r.hovered = -1
	r.panAnchor = nil
	r.lastViewChange = time.Time{}
	r.interacting = false
	if r.geom == dataset.Euclidean {
		r.euclidean = geometry.NewEuclideanView()
	} else {
		r.poincare = geometry.NewPoincareView()
	}
	r.rebuildPalette()
	// Context acquisition and pipeline creation are deferred to Render
	// (§4.5): Init only records sizing and options.
	return nil
}

func (r *Renderer) bufferSize() (int, int) {
	return int(math.Round(float64(r.cssWidth) * r.dpr)), int(math.Round(float64(r.cssHeight) * r.dpr))
}

// Output exposes the composited CPU-visible render target, the readback
// path GPURenderTarget describes (e.g. for harness screenshot capture).
func (r *Renderer) Output() *engine.Pixmap { return r.surface }

func (r *Renderer) rebuildPalette() {
	colors := r.opts.Colors
	if len(colors) == 0 {
		colors = []engine.RGBA{engine.Black}
	}
	tex := make([]uint8, len(colors)*4)
	for i, c := range colors {
		pm := c.Premultiply()
		tex[i*4+0] = uint8(clamp01(pm.R) * 255)
		tex[i*4+1] = uint8(clamp01(pm.G) * 255)
		tex[i*4+2] = uint8(clamp01(pm.B) * 255)
		tex[i*4+3] = uint8(clamp01(pm.A) * 255)
	}
	r.paletteTexture = tex
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func (r *Renderer) SetDataset(ds engine.Dataset) error {
	d, ok := ds.(*dataset.Dataset)
	if !ok {
		return engine.NewContractError(engine.ErrGeometryMismatch, "dataset is not *dataset.Dataset")
	}
	if d.GeometryName() != r.geom.String() {
		return engine.NewContractError(engine.ErrGeometryMismatch, "dataset geometry %s does not match renderer geometry %s", d.GeometryName(), r.geom)
	}
	r.ds = d
	r.index = spatialindex.Build(d.N(), d.X, d.Y)

	n := d.N()
	if n > maxGpuUploadPoints {
		r.uploadIndices = strideSubsample(n)
	} else {
		r.uploadIndices = nil
	}
	if n >= 500_000 {
		r.interactionLOD = strideSubsample(n)
	} else {
		r.interactionLOD = nil
	}
	return nil
}

func (r *Renderer) SetView(v any) error {
	switch view := v.(type) {
	case geometry.EuclideanView:
		if r.geom != dataset.Euclidean {
			return engine.NewContractError(engine.ErrGeometryMismatch, "renderer is poincare, got EuclideanView")
		}
		r.euclidean = view
	case geometry.PoincareView:
		if r.geom != dataset.Poincare {
			return engine.NewContractError(engine.ErrGeometryMismatch, "renderer is euclidean, got PoincareView")
		}
		r.poincare = view
	default:
		return engine.NewContractError(engine.ErrGeometryMismatch, "unrecognized view type %T", v)
	}
	r.markViewChanged()
	return nil
}

func (r *Renderer) GetView() any {
	if r.geom == dataset.Euclidean {
		return r.euclidean
	}
	return r.poincare
}

func (r *Renderer) Resize(w, h int) error {
	if w <= 0 || h <= 0 {
		return engine.NewContractError(engine.ErrNegativeSize, "width=%d height=%d", w, h)
	}
	if w == r.cssWidth && h == r.cssHeight {
		return nil
	}
	r.cssWidth, r.cssHeight = w, h
	r.surface = nil
	return nil
}

func (r *Renderer) Destroy() error {
	if r.pipelines != nil {
		r.pipelines.close()
		r.pipelines = nil
	}
	r.ctx.release()
	r.surface = nil
	r.ds = nil
	r.index = nil
	return nil
}

func (r *Renderer) SetSelection(s engine.Selection) { r.sel = s }
func (r *Renderer) GetSelection() engine.Selection  { return r.sel }
func (r *Renderer) SetHovered(index int)            { r.hovered = index }

func (r *Renderer) markViewChanged() {
	r.lastViewChange = time.Now()
	r.interacting = true
}

// EndInteraction resets the "last view change" timestamp so the next
// frame immediately uses the stable (non-LOD) pipeline, preventing a
// visible density pop after a drag release (§4.5 "endInteraction()").
func (r *Renderer) EndInteraction() {
	r.lastViewChange = time.Time{}
	r.interacting = false
}

func (r *Renderer) activeInteraction() bool {
	if r.lastViewChange.IsZero() {
		return false
	}
	return time.Since(r.lastViewChange) < interactionLODWindowMs*time.Millisecond
}

func (r *Renderer) StartPan(x, y float64) {
	r.panAnchor = &geometry.Vec{X: x, Y: y}
}

func (r *Renderer) Pan(dx, dy float64, modifiers engine.Modifiers) {
	defer r.markViewChanged()
	if r.geom == dataset.Euclidean {
		r.euclidean.Pan(dx, dy, r.cssWidth, r.cssHeight)
		return
	}
	start := r.panAnchor
	if start == nil {
		start = &geometry.Vec{X: float64(r.cssWidth) / 2, Y: float64(r.cssHeight) / 2}
	}
	end := geometry.Vec{X: start.X + dx, Y: start.Y + dy}
	r.poincare.Pan(*start, end, r.cssWidth, r.cssHeight)
	r.panAnchor = &end
}

func (r *Renderer) Zoom(anchorX, anchorY, delta float64, modifiers engine.Modifiers) {
	defer r.markViewChanged()
	anchor := geometry.Vec{X: anchorX, Y: anchorY}
	if r.geom == dataset.Euclidean {
		r.euclidean.ZoomBy(delta, anchor, r.cssWidth, r.cssHeight)
		return
	}
	r.poincare.ZoomBy(delta, anchor, r.cssWidth, r.cssHeight)
}

func (r *Renderer) ProjectToScreen(x, y float64) (sx, sy float64) {
	p := r.project(geometry.Vec{X: x, Y: y})
	return p.X, p.Y
}
func (r *Renderer) UnprojectFromScreen(sx, sy float64) (x, y float64) {
	p := r.unproject(geometry.Vec{X: sx, Y: sy})
	return p.X, p.Y
}

func (r *Renderer) project(p geometry.Vec) geometry.Vec {
	if r.geom == dataset.Euclidean {
		return r.euclidean.Project(p, r.cssWidth, r.cssHeight)
	}
	return r.poincare.Project(p, r.cssWidth, r.cssHeight)
}
func (r *Renderer) unproject(p geometry.Vec) geometry.Vec {
	if r.geom == dataset.Euclidean {
		return r.euclidean.Unproject(p, r.cssWidth, r.cssHeight)
	}
	return r.poincare.Unproject(p, r.cssWidth, r.cssHeight)
}

func (r *Renderer) CountSelection(ctx context.Context, sel engine.Selection, opts engine.CountOptions) (int, error) {
	if n, ok := sel.Size(); ok {
		return n, nil
	}
	geo, ok := sel.(*selection.Geometry)
	if !ok {
		return 0, engine.NewContractError(engine.ErrGeometryMismatch, "selection %T does not support async counting", sel)
	}
	yieldEvery := time.Duration(opts.YieldEvery) * time.Millisecond
	var onProgress func(scanned, total, count int)
	if opts.OnProgress != nil {
		onProgress = func(scanned, total, count int) {
			opts.OnProgress(engine.CountProgress{Scanned: scanned, Total: total, Count: count})
		}
	}
	return geo.CountSelection(ctx, selection.CountSelectionOptions{OnProgress: onProgress, YieldEvery: yieldEvery})
}
