// Package interaction implements the event-coalescing frame loop of
// §4.6: it translates raw pointer/wheel/resize input into the handful of
// Renderer method calls (pan, zoom, resize, setHovered, lassoSelect) a
// scatterplot needs, enforcing at most one render per animation frame.
package interaction

import (
	"math"

	"github.com/scattergeo/engine"
	"github.com/scattergeo/engine/polygonutil"
)

// Mode is the controller's current gesture state.
type Mode int

const (
	ModeIdle Mode = iota
	ModePan
	ModeLasso
)

// LassoPredicate decides, given the modifier state present at
// pointer-down, whether the gesture starting now is a lasso (true) or a
// pan (false). The default is shift AND (meta OR ctrl) per §4.6.
type LassoPredicate func(mods engine.Modifiers) bool

func defaultLassoPredicate(mods engine.Modifiers) bool {
	return mods.Shift && (mods.Meta || mods.Ctrl)
}

// LassoResult is delivered to the completion hook at pointer-up, per
// §4.6 "deliver both polygons to the completion hook".
type LassoResult struct {
	Live      []polygonutil.Point // last live-simplified polygon shown during the drag
	Final     []polygonutil.Point // final simplified polygon used for lassoSelect
	Selection engine.Selection
}

// Config holds the controller's tunables, all defaulted per §4.6.
type Config struct {
	// LassoPredicate overrides gesture-mode selection at pointer-down.
	LassoPredicate LassoPredicate
	// DragThresholdPx is the minimum screen displacement from the last
	// lasso sample before a new raw point is appended (default 2).
	DragThresholdPx float64
	// LiveSimplifyBudget bounds the vertex count of the polygon used for
	// per-frame visual feedback while dragging (default 24).
	LiveSimplifyBudget int
	// FinalSimplifyBudget bounds the vertex count of the polygon handed
	// to lassoSelect at pointer-up (default 24).
	FinalSimplifyBudget int
	// WheelScale converts a wheel event's deltaY into an accumulated
	// zoom delta: pending += -deltaY * WheelScale (default 1/100).
	WheelScale float64
	// OnLassoComplete, if set, is invoked at pointer-up with both
	// polygons and the resulting selection.
	OnLassoComplete func(LassoResult)
}

// resolve fills zero-valued fields with the §4.6 defaults.
func (c Config) resolve() Config {
	if c.LassoPredicate == nil {
		c.LassoPredicate = defaultLassoPredicate
	}
	if c.DragThresholdPx <= 0 {
		c.DragThresholdPx = 2
	}
	if c.LiveSimplifyBudget <= 0 {
		c.LiveSimplifyBudget = 24
	}
	if c.FinalSimplifyBudget <= 0 {
		c.FinalSimplifyBudget = 24
	}
	if c.WheelScale <= 0 {
		c.WheelScale = 1.0 / 100
	}
	return c
}

// pointerState tracks the in-progress gesture, reset at every pointer-up.
type pointerState struct {
	down      bool
	mode      Mode
	startX    float64
	startY    float64
	lastX     float64
	lastY     float64
	mods      engine.Modifiers
	rawLasso  []polygonutil.Point // unprojected data-space samples
	liveLasso []polygonutil.Point // last simplified polygon (data space, for feedback)
}

// Controller is the per-canvas interaction state machine. It holds no
// goroutines or timers of its own: the host drives it by calling
// PointerDown/PointerMove/PointerUp/Wheel/RequestResize as input arrives
// and Frame() once per animation-frame callback.
type Controller struct {
	renderer engine.Renderer
	cfg      Config

	pointer pointerState

	pendingPanDX, pendingPanDY float64
	hasPendingPan              bool

	pendingZoom    float64
	pendingZoomAtX float64
	pendingZoomAtY float64
	hasPendingZoom bool

	hoverCandidate             int // index last passed to SetHovered; -1 means none
	hasHoverMove               bool
	hoverScreenX, hoverScreenY float64

	sizeDirty     bool
	pendingWidth  int
	pendingHeight int

	lastWidth, lastHeight int
}

// New returns a controller driving r, with cfg defaults resolved.
func New(r engine.Renderer, cfg Config) *Controller {
	return &Controller{
		renderer:       r,
		cfg:            cfg.resolve(),
		hoverCandidate: -1,
	}
}

// Mode reports the controller's current gesture.
func (c *Controller) Mode() Mode { return c.pointer.mode }

// RequestResize sets the size-dirty flag; the next Frame() call measures
// and applies it (§4.6 "Resize").
func (c *Controller) RequestResize(w, h int) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	c.pendingWidth, c.pendingHeight = w, h
	c.sizeDirty = true
}

// PointerDown starts a gesture. Only the primary button should reach
// this call (§4.6 "Only primary button starts a gesture") — callers
// filter non-primary buttons before invoking it. Hover is cleared
// immediately (§4.6 "Hover during drag").
func (c *Controller) PointerDown(sx, sy float64, mods engine.Modifiers) {
	c.pointer = pointerState{
		down:   true,
		startX: sx,
		startY: sy,
		lastX:  sx,
		lastY:  sy,
		mods:   mods,
	}
	c.hoverCandidate = -1
	c.hasHoverMove = false
	c.renderer.SetHovered(-1)

	if c.cfg.LassoPredicate(mods) {
		c.pointer.mode = ModeLasso
		dx, dy := c.renderer.UnprojectFromScreen(sx, sy)
		c.pointer.rawLasso = append(c.pointer.rawLasso[:0], polygonutil.Point{X: dx, Y: dy})
		return
	}

	c.pointer.mode = ModePan
	if starter, ok := c.renderer.(engine.PanStarter); ok {
		starter.StartPan(sx, sy)
	}
}

// PointerMove records pointer motion. In pan mode it accumulates a
// pending pan delta; in lasso mode it samples the stroke once
// displacement exceeds DragThresholdPx; in idle mode it records a hover
// candidate for the next Frame() to service.
func (c *Controller) PointerMove(sx, sy float64) {
	if !c.pointer.down {
		c.hasHoverMove = true
		// store via a synthetic hit test performed in Frame(); we just
		// remember the screen position.
		c.hoverScreenX, c.hoverScreenY = sx, sy
		return
	}

	switch c.pointer.mode {
	case ModePan:
		dx, dy := sx-c.pointer.lastX, sy-c.pointer.lastY
		c.pendingPanDX += dx
		c.pendingPanDY += dy
		c.hasPendingPan = true
		c.pointer.lastX, c.pointer.lastY = sx, sy
	case ModeLasso:
		ddx, ddy := sx-c.pointer.lastX, sy-c.pointer.lastY
		if ddx*ddx+ddy*ddy < c.cfg.DragThresholdPx*c.cfg.DragThresholdPx {
			return
		}
		c.pointer.lastX, c.pointer.lastY = sx, sy
		dx, dy := c.renderer.UnprojectFromScreen(sx, sy)
		c.pointer.rawLasso = append(c.pointer.rawLasso, polygonutil.Point{X: dx, Y: dy})
		c.pointer.liveLasso = simplifyToBudget(c.pointer.rawLasso, c.cfg.LiveSimplifyBudget)
	}
}

// PointerUp ends the current gesture. Pending pan is flushed
// synchronously (§4.6 "Pan flush on release") before mode state clears;
// a lasso gesture finalizes its polygon, calls lassoSelect, and invokes
// OnLassoComplete.
func (c *Controller) PointerUp(sx, sy float64) {
	if !c.pointer.down {
		return
	}

	switch c.pointer.mode {
	case ModePan:
		if c.hasPendingPan {
			c.renderer.Pan(c.pendingPanDX, c.pendingPanDY, c.pointer.mods)
			c.pendingPanDX, c.pendingPanDY = 0, 0
			c.hasPendingPan = false
		}
		if ender, ok := c.renderer.(engine.InteractionEnder); ok {
			ender.EndInteraction()
		}
	case ModeLasso:
		dx, dy := c.renderer.UnprojectFromScreen(sx, sy)
		ddx, ddy := sx-c.pointer.lastX, sy-c.pointer.lastY
		if ddx*ddx+ddy*ddy >= c.cfg.DragThresholdPx*c.cfg.DragThresholdPx || len(c.pointer.rawLasso) == 0 {
			c.pointer.rawLasso = append(c.pointer.rawLasso, polygonutil.Point{X: dx, Y: dy})
		}
		final := simplifyToBudget(c.pointer.rawLasso, c.cfg.FinalSimplifyBudget)
		live := c.pointer.liveLasso
		if live == nil {
			live = final
		}

		screenPoly := make([]float64, 0, len(final)*2)
		for _, p := range final {
			psx, psy := c.renderer.ProjectToScreen(p.X, p.Y)
			screenPoly = append(screenPoly, psx, psy)
		}
		sel, err := c.renderer.LassoSelect(screenPoly)
		if err == nil && c.cfg.OnLassoComplete != nil {
			c.cfg.OnLassoComplete(LassoResult{Live: live, Final: final, Selection: sel})
		}
		if ender, ok := c.renderer.(engine.InteractionEnder); ok {
			ender.EndInteraction()
		}
	}

	c.pointer = pointerState{mode: ModeIdle}
}

// Wheel accumulates a pending zoom delta (§4.6 "Wheel"); callers must
// call e.preventDefault() on the originating DOM event themselves, since
// this package has no access to the browser event object.
func (c *Controller) Wheel(deltaY, anchorX, anchorY float64) {
	c.pendingZoom += -deltaY * c.cfg.WheelScale
	c.pendingZoomAtX, c.pendingZoomAtY = anchorX, anchorY
	c.hasPendingZoom = true
}

// Frame runs the §4.6 per-animation-frame dispatch: resize, then pan,
// then zoom, then (idle-mode only) hover, each settled before the next.
// It returns true iff the caller should issue a render this frame.
func (c *Controller) Frame() bool {
	changed := false

	if c.sizeDirty {
		if c.pendingWidth != c.lastWidth || c.pendingHeight != c.lastHeight {
			if err := c.renderer.Resize(c.pendingWidth, c.pendingHeight); err == nil {
				c.lastWidth, c.lastHeight = c.pendingWidth, c.pendingHeight
				changed = true
			}
		}
		c.sizeDirty = false
	}

	if c.hasPendingPan {
		c.renderer.Pan(c.pendingPanDX, c.pendingPanDY, c.pointer.mods)
		c.pendingPanDX, c.pendingPanDY = 0, 0
		c.hasPendingPan = false
		changed = true
	}

	if c.hasPendingZoom {
		c.renderer.Zoom(c.pendingZoomAtX, c.pendingZoomAtY, c.pendingZoom, c.pointer.mods)
		c.pendingZoom = 0
		c.hasPendingZoom = false
		changed = true
	}

	if c.pointer.mode == ModeIdle && c.hasHoverMove {
		c.hasHoverMove = false
		res, err := c.renderer.HitTest(c.hoverScreenX, c.hoverScreenY)
		newHovered := -1
		if err == nil && res != nil {
			newHovered = res.Index
		}
		if newHovered != c.hoverCandidate {
			c.hoverCandidate = newHovered
			c.renderer.SetHovered(newHovered)
			changed = true
		}
	}

	if c.pointer.mode == ModeLasso && len(c.pointer.rawLasso) > 0 {
		changed = true
	}

	return changed
}

// simplifyToBudget simplifies poly to at most budget vertices, widening
// the Ramer-Douglas-Peucker epsilon (relative to the polygon's bounding
// box diagonal) until the vertex cap is satisfied or the search gives up
// (§4.6 "Simplify ... using Chaikin smoothing + Ramer-Douglas-Peucker
// with bbox-relative tolerance").
func simplifyToBudget(poly []polygonutil.Point, budget int) []polygonutil.Point {
	if len(poly) <= budget || len(poly) < 3 {
		return append([]polygonutil.Point(nil), poly...)
	}
	minX, minY, maxX, maxY := polygonutil.BoundingBox(poly)
	diag := math.Hypot(maxX-minX, maxY-minY)
	if diag <= 0 {
		diag = 1
	}

	const maxIterations = 24
	epsilon := diag * 0.001
	simplified := poly
	for i := 0; i < maxIterations; i++ {
		simplified = polygonutil.Simplify(poly, epsilon)
		if len(simplified) <= budget {
			return simplified
		}
		epsilon *= 1.6
	}
	return simplified
}
