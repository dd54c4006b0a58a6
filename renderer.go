package engine

import "context"

// HitResult is the outcome of a successful hitTest (§6).
type HitResult struct {
	Index    int
	ScreenX  float64
	ScreenY  float64
	Distance float64 // pixel distance from cursor to the hit point
}

// CountProgress reports incremental progress from CountSelection.
type CountProgress struct {
	Scanned int // points visited so far
	Total   int // dataset point count
	Count   int // exact count accumulated so far
}

// CountOptions configures the cooperative async materialization of a
// geometry selection's exact cardinality (§4.5 countSelection, §5).
type CountOptions struct {
	// OnProgress, if non-nil, is invoked after each yield point.
	OnProgress func(CountProgress)
	// YieldEvery bounds how much wall-clock work runs between
	// cooperative yields. Zero selects the spec default (~8ms).
	YieldEvery int // milliseconds
}

// Renderer is the geometry-agnostic capability set every renderer
// implementation (reference and candidate, Euclidean and Poincaré)
// exposes. Implementations are specialized per (geometry × backend) pair
// behind a dispatch table rather than a class hierarchy (§9).
type Renderer interface {
	// Init acquires (or, for GPU backends, merely records sizing for)
	// the drawable surface. surface's concrete type is
	// backend-specific: an *Pixmap for the reference renderer, a GPU
	// surface handle for the candidate renderer.
	Init(surface any, opts ...RendererOption) error

	// SetDataset installs the dataset this renderer draws. Returns a
	// *ContractError if the dataset's geometry does not match the
	// renderer's geometry.
	SetDataset(ds Dataset) error

	// SetView / GetView mutate and read the current view state. SetView
	// returns a *ContractError on a geometry mismatch.
	SetView(v any) error
	GetView() any

	Render() error
	Resize(w, h int) error
	Destroy() error

	SetSelection(s Selection)
	GetSelection() Selection

	// SetHovered sets the hovered point index; -1 clears it.
	SetHovered(index int)

	Pan(dx, dy float64, modifiers Modifiers)
	Zoom(anchorX, anchorY, delta float64, modifiers Modifiers)

	HitTest(sx, sy float64) (*HitResult, error)
	LassoSelect(screenPolyline []float64) (Selection, error)
	CountSelection(ctx context.Context, sel Selection, opts CountOptions) (int, error)

	ProjectToScreen(x, y float64) (sx, sy float64)
	UnprojectFromScreen(sx, sy float64) (x, y float64)
}

// PanStarter is implemented by renderers for which pan has a
// geometry-dependent anchor (Poincaré). The interaction controller
// type-asserts for this optional capability (§4.6, §9).
type PanStarter interface {
	StartPan(x, y float64)
}

// InteractionEnder is implemented by renderers that maintain an
// interaction-LOD timestamp (§4.5). Optional; type-asserted by the
// controller.
type InteractionEnder interface {
	EndInteraction()
}

// Dataset is the narrow view of a dataset the root package needs,
// satisfied by *dataset.Dataset without engine importing the dataset
// package (which itself has no dependency on engine).
type Dataset interface {
	N() int
	GeometryName() string
}

// Selection is a forward declaration of the tagged-sum selection result
// (§3, §9). The concrete implementations live in package selection
// ("github.com/scattergeo/engine/selection").
type Selection interface {
	Has(i int) bool
	Size() (int, bool) // ok=false means size is deferred/unknown
	ComputeTimeMs() float64
}

// Modifiers mirrors the keyboard modifier state accompanying pointer and
// wheel events (§4.6, §6).
type Modifiers struct {
	Shift bool
	Ctrl  bool
	Alt   bool
	Meta  bool
}
