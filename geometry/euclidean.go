package geometry

import "math"

// EuclideanView holds the pan/zoom state for the Euclidean geometry (§3
// "View state"). Zoom is clamped to [0.1, 100] by Zoom.
type EuclideanView struct {
	CenterX, CenterY float64
	Zoom             float64
}

// NewEuclideanView returns the identity view: centered on the origin at
// zoom 1.
func NewEuclideanView() EuclideanView {
	return EuclideanView{CenterX: 0, CenterY: 0, Zoom: 1}
}

// Scale returns the base projection scale s = min(width,height)*0.4*zoom
// (§4.1 "Euclidean").
func (v EuclideanView) Scale(width, height int) float64 {
	return minFloat(float64(width), float64(height)) * 0.4 * v.Zoom
}

// Project maps a data-space point to screen space.
func (v EuclideanView) Project(p Vec, width, height int) Vec {
	s := v.Scale(width, height)
	return Vec{
		X: float64(width)/2 + (p.X-v.CenterX)*s,
		Y: float64(height)/2 - (p.Y-v.CenterY)*s,
	}
}

// Unproject maps a screen-space point back to data space, inverting
// Project exactly.
func (v EuclideanView) Unproject(p Vec, width, height int) Vec {
	s := v.Scale(width, height)
	return Vec{
		X: (p.X-float64(width)/2)/s + v.CenterX,
		Y: -(p.Y-float64(height)/2)/s + v.CenterY,
	}
}

// Pan translates the view by a screen-space delta (dx,dy), anchor-invariant
// by construction (§4.1): the data point under any fixed screen location
// before the pan is back under that same location's new projection offset
// by exactly (dx,dy).
func (v *EuclideanView) Pan(dx, dy float64, width, height int) {
	s := v.Scale(width, height)
	v.CenterX -= dx / s
	v.CenterY += dy / s
}

// ZoomBy multiplies the zoom level by 1.1^delta, clamped to [0.1,100], and
// keeps the data point under the anchor screen position fixed on screen
// (§4.1 "Zoom(delta)").
func (v *EuclideanView) ZoomBy(delta float64, anchor Vec, width, height int) {
	anchorData := v.Unproject(anchor, width, height)
	v.Zoom = clamp(v.Zoom*math.Pow(1.1, delta), 0.1, 100)
	s := v.Scale(width, height)
	// Recompute center so anchorData still projects to anchor.
	v.CenterX = anchorData.X - (anchor.X-float64(width)/2)/s
	v.CenterY = anchorData.Y + (anchor.Y-float64(height)/2)/s
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
