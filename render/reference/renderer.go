// Package reference implements the semantic ground-truth CPU renderer
// (§4.4): naive per-point rasterization against an engine.Pixmap, used as
// the accuracy oracle the GPU candidate renderer is checked against.
package reference

import (
	"context"
	"math"
	"time"

	"github.com/scattergeo/engine"
	"github.com/scattergeo/engine/dataset"
	"github.com/scattergeo/engine/geometry"
	"github.com/scattergeo/engine/selection"
	"github.com/scattergeo/engine/spatialindex"
)

// Renderer is the reference implementation of engine.Renderer, specialized
// per geometry by which view field is live (euclidean vs poincare) —
// a dispatch-on-enum shape rather than a type hierarchy (§9).
type Renderer struct {
	geom dataset.Geometry

	opts      engine.InitOptions
	cssWidth  int
	cssHeight int
	dpr       float64
	dprMatrix engine.Matrix
	surface   *engine.Pixmap

	ds    *dataset.Dataset
	index *spatialindex.Grid

	euclidean geometry.EuclideanView
	poincare  geometry.PoincareView

	sel       engine.Selection
	hovered   int
	panAnchor *geometry.Vec
}

// NewEuclidean returns a reference renderer for the Euclidean geometry.
func NewEuclidean() *Renderer {
	return &Renderer{geom: dataset.Euclidean, hovered: -1, euclidean: geometry.NewEuclideanView()}
}

// NewPoincare returns a reference renderer for the Poincaré disk geometry.
func NewPoincare() *Renderer {
	return &Renderer{geom: dataset.Poincare, hovered: -1, poincare: geometry.NewPoincareView()}
}

// Init acquires the backing Pixmap. If surface is an *engine.Pixmap already
// sized width·dpr × height·dpr it is reused directly; otherwise a fresh one
// is allocated. The DPR transform is reset to identity-then-scale on every
// Init (§4.4 "this reset is mandatory").
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

	bw, bh := r.bufferSize()
	if pm, ok := surface.(*engine.Pixmap); ok && pm.Width() == bw && pm.Height() == bh {
		r.surface = pm
	} else {
		r.surface = engine.NewPixmap(bw, bh)
	}
	r.dprMatrix = engine.Scale(r.dpr, r.dpr)
	r.hovered = -1
	r.panAnchor = nil
	if r.geom == dataset.Euclidean {
		r.euclidean = geometry.NewEuclideanView()
	} else {
		r.poincare = geometry.NewPoincareView()
	}
	return nil
}

func (r *Renderer) bufferSize() (int, int) {
	return int(math.Round(float64(r.cssWidth) * r.dpr)), int(math.Round(float64(r.cssHeight) * r.dpr))
}

// Output returns the backing pixel buffer, for callers that want to encode
// or inspect a rendered frame.
func (r *Renderer) Output() *engine.Pixmap { return r.surface }

// SetDataset installs the dataset and (re)builds a spatial index over it.
// This renderer's HitTest and LassoSelect scan every point and do not read
// that index.
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
	return nil
}

// SetView installs a geometry.EuclideanView or geometry.PoincareView
// matching the renderer's geometry.
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
	return nil
}

// GetView returns the current view state as the concrete geometry-specific
// type.
func (r *Renderer) GetView() any {
	if r.geom == dataset.Euclidean {
		return r.euclidean
	}
	return r.poincare
}

// Resize changes the CSS-pixel canvas size and reallocates the backing
// buffer at the new width·dpr × height·dpr.
func (r *Renderer) Resize(w, h int) error {
	if w <= 0 || h <= 0 {
		return engine.NewContractError(engine.ErrNegativeSize, "width=%d height=%d", w, h)
	}
	if w == r.cssWidth && h == r.cssHeight {
		return nil
	}
	r.cssWidth, r.cssHeight = w, h
	bw, bh := r.bufferSize()
	r.surface = engine.NewPixmap(bw, bh)
	return nil
}

// Destroy releases the backing buffer.
func (r *Renderer) Destroy() error {
	r.surface = nil
	r.ds = nil
	r.index = nil
	return nil
}

// SetSelection installs the current selection, drawn with the dedicated
// selection styling on the next Render.
func (r *Renderer) SetSelection(s engine.Selection) { r.sel = s }

// GetSelection returns the current selection (may be nil).
func (r *Renderer) GetSelection() engine.Selection { return r.sel }

// SetHovered sets the hovered point index; -1 clears it.
func (r *Renderer) SetHovered(index int) { r.hovered = index }

// StartPan records a pan anchor for the Poincaré pan solve (§4.1, §4.6).
// Implements engine.PanStarter.
func (r *Renderer) StartPan(x, y float64) {
	r.panAnchor = &geometry.Vec{X: x, Y: y}
}

// Pan applies a screen-space pan delta.
func (r *Renderer) Pan(dx, dy float64, modifiers engine.Modifiers) {
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

// Zoom applies a wheel-derived zoom delta anchored at a screen position.
func (r *Renderer) Zoom(anchorX, anchorY, delta float64, modifiers engine.Modifiers) {
	anchor := geometry.Vec{X: anchorX, Y: anchorY}
	if r.geom == dataset.Euclidean {
		r.euclidean.ZoomBy(delta, anchor, r.cssWidth, r.cssHeight)
		return
	}
	r.poincare.ZoomBy(delta, anchor, r.cssWidth, r.cssHeight)
}

// ProjectToScreen maps a data-space point to CSS-pixel screen space.
func (r *Renderer) ProjectToScreen(x, y float64) (sx, sy float64) {
	p := r.project(geometry.Vec{X: x, Y: y})
	return p.X, p.Y
}

// UnprojectFromScreen maps a CSS-pixel screen point back to data space.
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

// CountSelection materializes the exact cardinality of sel. Indices
// selections already know their size; Geometry selections delegate to
// their own cooperative-yield counter (§4.5 countSelection, §5).
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
