package candidate

import (
	"math"

	"github.com/scattergeo/engine"
	"github.com/scattergeo/engine/dataset"
	"github.com/scattergeo/engine/geometry"
)

// Render executes the §4.5 "Render sequence per frame": ensure GPU
// context and pipelines, choose this frame's adaptive quality (points
// DPR, shape mode), composite the backdrop, draw base points through
// whatever subsample/LOD applies, and (outside active interaction) draw
// selection/hover overlays.
func (r *Renderer) Render() error {
	if r.cssWidth <= 0 || r.cssHeight <= 0 {
		return engine.NewContractError(engine.ErrSurfaceUnavailable, "Init was not called")
	}
	if err := r.ctx.acquire(); err != nil {
		return err
	}
	if r.pipelines == nil {
		pc, err := newPipelineCache(r.ctx)
		if err != nil {
			return err
		}
		r.pipelines = pc
	}
	if err := r.pipelines.ensure(); err != nil {
		return err
	}

	bw, bh := r.bufferSize()
	if r.surface == nil || r.surface.Width() != bw || r.surface.Height() != bh {
		r.surface = engine.NewPixmap(bw, bh)
	}
	r.surface.Clear(r.opts.BackgroundColor)

	drawIndices := r.baseDrawIndices()
	r.pointsDPR = choosePointsDPR(r.datasetN(), r.cssWidth, r.cssHeight, r.dpr, len(drawIndices), r.opts.PointRadius)
	r.shapeMode = r.shapePolicy.Select(engine.ShapeStats{
		DrawCount:     len(drawIndices),
		PointRadiusPx: r.opts.PointRadius,
		PointsDPR:     r.pointsDPR,
	})

	if r.geom == dataset.Poincare {
		r.compositeBackdrop()
	}

	if r.ds == nil {
		return nil
	}

	colors := r.opts.Colors
	if len(colors) == 0 {
		colors = []engine.RGBA{engine.Black}
	}
	for _, idx := range drawIndices {
		i := int(idx)
		if i == r.hovered {
			continue
		}
		c := colors[int(r.ds.Label(i))%len(colors)]
		r.drawPoint(i, c, r.opts.PointRadius)
	}

	if !r.activeInteraction() {
		r.drawOverlays(colors)
	}

	return nil
}

// baseDrawIndices picks which points actually get drawn this frame: the
// full dataset, the precomputed GPU-upload subsample, or the
// interaction-LOD subsample, per §4.5 "Upload policy"/"Interaction LOD".
func (r *Renderer) baseDrawIndices() []int32 {
	n := r.datasetN()
	if n == 0 {
		return nil
	}
	useLOD := n > maxBaseDrawPoints ||
		(r.geom == dataset.Poincare && n >= interactionLODMinN && r.activeInteraction())
	if useLOD && r.interactionLOD != nil {
		return r.interactionLOD
	}
	if r.uploadIndices != nil {
		return r.uploadIndices
	}
	indices := make([]int32, n)
	for i := range indices {
		indices[i] = int32(i)
	}
	return indices
}

func (r *Renderer) datasetN() int {
	if r.ds == nil {
		return 0
	}
	return r.ds.N()
}

func (r *Renderer) drawPoint(i int, c engine.RGBA, radius float64) {
	x, y := r.ds.X(i), r.ds.Y(i)
	s := r.project(geometry.Vec{X: x, Y: y})
	drawCircle(r.surface, s.X*r.dpr, s.Y*r.dpr, radius*r.dpr, c)
}

// drawOverlays renders the selection and hover decorations, capped at
// overlayRenderCap points (§4.5 "Overlays").
func (r *Renderer) drawOverlays(colors []engine.RGBA) {
	if r.sel != nil {
		drawn := 0
		n := r.datasetN()
		for i := 0; i < n && drawn < overlayRenderCap; i++ {
			if i == r.hovered || !r.sel.Has(i) {
				continue
			}
			r.drawPoint(i, defaultSelectionColor, r.opts.PointRadius+1)
			drawn++
		}
	}
	if r.hovered >= 0 && r.hovered < r.datasetN() {
		hoverColor := colors[int(r.ds.Label(r.hovered))%len(colors)]
		if r.sel != nil && r.sel.Has(r.hovered) {
			hoverColor = defaultSelectionColor
		}
		r.drawPoint(r.hovered, hoverColor, r.opts.PointRadius+1)
		x, y := r.ds.X(r.hovered), r.ds.Y(r.hovered)
		s := r.project(geometry.Vec{X: x, Y: y})
		drawRingOverlay(r.surface, s.X*r.dpr, s.Y*r.dpr, (r.opts.PointRadius+3)*r.dpr, 2*r.dpr, hoverColor)
	}
}

// defaultSelectionColor matches render/reference's dedicated selection
// highlight so the two renderers agree visually, though pixel-identical
// output is not a spec requirement for the candidate path.
var defaultSelectionColor = engine.RGBA2(0.95, 0.55, 0.05, 1)

// compositeBackdrop renders (or reuses, keyed by size/DPR/displayZoom)
// the cached Poincaré disk backdrop, then composites it onto the
// surface — the fullscreen-quad sampling path of §4.5, never a raw
// framebuffer blit.
func (r *Renderer) compositeBackdrop() {
	key := backdropCacheKey{width: r.cssWidth, height: r.cssHeight, dpr: r.dpr, displayZoom: r.poincare.DisplayZoom}
	tex, ok := r.pipelines.getBackdrop(key)
	if !ok || tex.Dirty {
		tex = r.renderBackdropTexture()
		r.pipelines.putBackdrop(key, tex)
	}
	compositeOver(r.surface, tex)
}

func (r *Renderer) renderBackdropTexture() *backdropTexture {
	bw, bh := r.bufferSize()
	pm := engine.NewPixmap(bw, bh)
	pm.Clear(engine.Transparent)

	R := r.poincare.DiskRadius(r.cssWidth, r.cssHeight) * r.dpr
	cx := float64(r.cssWidth) / 2 * r.dpr
	cy := float64(r.cssHeight) / 2 * r.dpr

	drawCircle(pm, cx, cy, R, r.opts.PoincareDiskFill)
	drawRingOverlay(pm, cx, cy, R, r.opts.PoincareEdgeWidth*r.dpr, r.opts.PoincareDiskEdge)

	const geodesicCount = 8
	for k := 0; k < geodesicCount; k++ {
		theta := float64(k) * 2 * math.Pi / geodesicCount
		ex := cx + R*math.Cos(theta)
		ey := cy - R*math.Sin(theta)
		drawLine(pm, cx, cy, ex, ey, r.opts.PoincareGridWidth*r.dpr, r.opts.PoincareGrid)
	}
	const ringCount = 5
	for i := 1; i <= ringCount; i++ {
		drawRingOverlay(pm, cx, cy, R*float64(i)/(ringCount+1), r.opts.PoincareGridWidth*r.dpr, r.opts.PoincareGrid)
	}

	return &backdropTexture{Width: bw, Height: bh, Data: pm.Data()}
}

// compositeOver blits a cached backdrop texture's RGBA bytes onto dst as
// a straight SRC_OVER composite, standing in for the fullscreen-quad
// sampling pass until a real texture-view/sampler bind group is wired.
func compositeOver(dst *engine.Pixmap, tex *backdropTexture) {
	if tex == nil || len(tex.Data) == 0 {
		return
	}
	w, h := dst.Width(), dst.Height()
	if tex.Width != w || tex.Height != h {
		return
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := (y*w + x) * 4
			a := float64(tex.Data[idx+3]) / 255
			if a == 0 {
				continue
			}
			c := engine.RGBA{
				R: float64(tex.Data[idx]) / 255,
				G: float64(tex.Data[idx+1]) / 255,
				B: float64(tex.Data[idx+2]) / 255,
				A: a,
			}.Unpremultiply()
			dst.BlendPixel(x, y, c)
		}
	}
}
