package reference

import (
	"math"

	"github.com/scattergeo/engine"
	"github.com/scattergeo/engine/dataset"
	"github.com/scattergeo/engine/geometry"
)

// defaultSelectionColor is the dedicated selection highlight used when
// drawing selected (and selected-and-hovered) points (§4.4). Not
// configurable via InitOptions — the spec's init signature enumerates no
// such field, so this follows the teacher's pattern of a handful of
// fixed, named constants alongside the configurable palette.
var defaultSelectionColor = engine.RGBA2(0.95, 0.55, 0.05, 1)

// Render executes the fixed draw order of §4.4: clear, Poincaré backdrop,
// unselected points, selected points, hovered point last. Naive
// full-dataset iteration; no culling beyond the trivial off-buffer reject
// drawFilledCircle's bounding box performs implicitly.
func (r *Renderer) Render() error {
	if r.surface == nil {
		return engine.NewContractError(engine.ErrSurfaceUnavailable, "Init was not called")
	}
	r.surface.Clear(r.opts.BackgroundColor)

	if r.geom == dataset.Poincare {
		r.drawPoincareBackdrop()
	}

	if r.ds == nil {
		return nil
	}

	n := r.ds.N()
	colors := r.opts.Colors
	if len(colors) == 0 {
		colors = []engine.RGBA{engine.Black}
	}
	radius := r.opts.PointRadius

	for i := 0; i < n; i++ {
		if i == r.hovered {
			continue
		}
		if r.sel != nil && r.sel.Has(i) {
			continue
		}
		r.drawPoint(i, colors, radius, radius)
	}

	if r.sel != nil {
		for i := 0; i < n; i++ {
			if i == r.hovered {
				continue
			}
			if !r.sel.Has(i) {
				continue
			}
			r.drawPointColor(i, defaultSelectionColor, radius+1)
		}
	}

	if r.hovered >= 0 && r.hovered < n {
		hoverColor := colors[int(r.ds.Label(r.hovered))%len(colors)]
		if r.sel != nil && r.sel.Has(r.hovered) {
			hoverColor = defaultSelectionColor
		}
		r.drawPointColor(r.hovered, hoverColor, radius+1)
		cx, cy, ok := r.bufferCenter(r.hovered)
		if ok {
			drawRing(r.surface, cx, cy, (radius+3)*r.dpr, 2*r.dpr, hoverColor)
		}
	}

	return nil
}

// bufferCenter projects data point i to buffer-pixel coordinates. ok is
// always true: no point is rejected here, whether or not it falls on the
// visible disk.
func (r *Renderer) bufferCenter(i int) (cx, cy float64, ok bool) {
	x, y := r.ds.X(i), r.ds.Y(i)
	s := r.project(geometry.Vec{X: x, Y: y})
	buf := r.dprMatrix.TransformPoint(s)
	return buf.X, buf.Y, true
}

func (r *Renderer) drawPoint(i int, colors []engine.RGBA, radiusUnselected, _ float64) {
	label := int(r.ds.Label(i))
	c := colors[label%len(colors)]
	r.drawPointColor(i, c, radiusUnselected)
}

func (r *Renderer) drawPointColor(i int, c engine.RGBA, radius float64) {
	cx, cy, ok := r.bufferCenter(i)
	if !ok {
		return
	}
	drawFilledCircle(r.surface, cx, cy, radius*r.dpr, c)
}

// drawPoincareBackdrop draws disk fill, disk border, 8 radial geodesics
// through the origin, and 5 concentric circles at i/6 of the disk radius
// (§4.4).
func (r *Renderer) drawPoincareBackdrop() {
	R := r.poincare.DiskRadius(r.cssWidth, r.cssHeight) * r.dpr
	cx := float64(r.cssWidth) / 2 * r.dpr
	cy := float64(r.cssHeight) / 2 * r.dpr

	drawFilledCircle(r.surface, cx, cy, R, r.opts.PoincareDiskFill)
	drawRing(r.surface, cx, cy, R, r.opts.PoincareEdgeWidth*r.dpr, r.opts.PoincareDiskEdge)

	const geodesicCount = 8
	for k := 0; k < geodesicCount; k++ {
		theta := float64(k) * 2 * math.Pi / geodesicCount
		ex := cx + R*math.Cos(theta)
		ey := cy - R*math.Sin(theta)
		drawLineSegment(r.surface, cx, cy, ex, ey, r.opts.PoincareGridWidth*r.dpr, r.opts.PoincareGrid)
	}

	const ringCount = 5
	for i := 1; i <= ringCount; i++ {
		ringR := R * float64(i) / (ringCount + 1)
		drawRing(r.surface, cx, cy, ringR, r.opts.PoincareGridWidth*r.dpr, r.opts.PoincareGrid)
	}
}
