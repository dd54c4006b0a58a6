package engine

// RendererOption configures a Renderer during Init (§6). Functional
// options keep all configuration flowing through Init rather than
// through package-level state (§9 "No global state").
type RendererOption func(*InitOptions)

// InitOptions holds the resolved configuration passed to Init. Renderer
// implementations read the fields relevant to their geometry and ignore
// the rest.
type InitOptions struct {
	Width             int
	Height            int
	DevicePixelRatio  float64
	BackgroundColor   RGBA
	PointRadius       float64
	Colors            []RGBA // palette, indexed by label mod len(Colors)
	PoincareDiskFill  RGBA
	PoincareDiskEdge  RGBA
	PoincareGrid      RGBA
	PoincareEdgeWidth float64 // px
	PoincareGridWidth float64 // px
	Quality           QualityMode
}

// DefaultInitOptions returns the spec's documented defaults.
func DefaultInitOptions() InitOptions {
	return InitOptions{
		Width:             0,
		Height:            0,
		DevicePixelRatio:  1,
		BackgroundColor:   RGB(1, 1, 1),
		PointRadius:       3,
		Colors:            defaultPalette(),
		PoincareDiskFill:  RGBA2(0.96, 0.97, 1, 1),
		PoincareDiskEdge:  RGB(0.2, 0.2, 0.3),
		PoincareGrid:      RGBA2(0.6, 0.6, 0.7, 0.5),
		PoincareEdgeWidth: 2,
		PoincareGridWidth: 1,
		Quality:           QualityAuto,
	}
}

// defaultPalette is a small, readable 10-color categorical palette (the
// canonical §8 scenario uses label count 10).
func defaultPalette() []RGBA {
	hexes := []string{
		"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f",
		"#edc948", "#b07aa1", "#ff9da7", "#9c755f", "#bab0ac",
	}
	colors := make([]RGBA, len(hexes))
	for i, h := range hexes {
		colors[i] = Hex(h)
	}
	return colors
}

// WithSize sets the surface size in CSS pixels.
func WithSize(w, h int) RendererOption {
	return func(o *InitOptions) {
		o.Width = w
		o.Height = h
	}
}

// WithDevicePixelRatio sets the CSS-pixel to backing-buffer-pixel ratio.
func WithDevicePixelRatio(dpr float64) RendererOption {
	return func(o *InitOptions) {
		o.DevicePixelRatio = dpr
	}
}

// WithBackgroundColor sets the clear color.
func WithBackgroundColor(c RGBA) RendererOption {
	return func(o *InitOptions) { o.BackgroundColor = c }
}

// WithPointRadius sets the unselected point radius in CSS pixels.
func WithPointRadius(r float64) RendererOption {
	return func(o *InitOptions) { o.PointRadius = r }
}

// WithColors sets the label palette. Capped at 65536 entries (§6); a
// longer slice is truncated rather than rejected outright, matching the
// "resource exhaustion ⇒ documented lossy" rule for overlay caps (§7) —
// here applied symmetrically to the palette.
func WithColors(colors []RGBA) RendererOption {
	return func(o *InitOptions) {
		if len(colors) > maxPaletteSize {
			colors = colors[:maxPaletteSize]
		}
		o.Colors = colors
	}
}

// maxPaletteSize is the 16-bit label range (§6).
const maxPaletteSize = 65536

// WithPoincareDiskFillColor sets the disk backdrop fill color.
func WithPoincareDiskFillColor(c RGBA) RendererOption {
	return func(o *InitOptions) { o.PoincareDiskFill = c }
}

// WithPoincareDiskBorderColor sets the disk border color.
func WithPoincareDiskBorderColor(c RGBA) RendererOption {
	return func(o *InitOptions) { o.PoincareDiskEdge = c }
}

// WithPoincareGridColor sets the geodesic/concentric-circle grid color.
func WithPoincareGridColor(c RGBA) RendererOption {
	return func(o *InitOptions) { o.PoincareGrid = c }
}

// WithPoincareDiskBorderWidthPx sets the disk border stroke width.
func WithPoincareDiskBorderWidthPx(px float64) RendererOption {
	return func(o *InitOptions) { o.PoincareEdgeWidth = px }
}

// WithPoincareGridWidthPx sets the grid line stroke width.
func WithPoincareGridWidthPx(px float64) RendererOption {
	return func(o *InitOptions) { o.PoincareGridWidth = px }
}

// WithQualityMode sets InitOptions.Quality (§4.5); QualityAuto is the
// default. Neither renderer reads that field (see QualityMode).
func WithQualityMode(m QualityMode) RendererOption {
	return func(o *InitOptions) { o.Quality = m }
}

// ResolveInitOptions applies opts over DefaultInitOptions.
func ResolveInitOptions(opts ...RendererOption) InitOptions {
	o := DefaultInitOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
