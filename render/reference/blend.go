package reference

import (
	"math"

	"github.com/scattergeo/engine"
)

// drawFilledCircle rasterizes a filled, antialiased circle of radius r
// centered at cx,cy (all in buffer pixels), adapted line-for-line
// from the teacher's pixmapAdapter.BlendPixelAlpha source-over formula:
// coverage falls off linearly over a 1px band at the edge, folded into
// the pixel's alpha before compositing (§4.4 draw order).
func drawFilledCircle(p *engine.Pixmap, cx, cy, r float64, c engine.RGBA) {
	if r <= 0 {
		return
	}
	minX := int(math.Floor(cx - r - 1))
	maxX := int(math.Ceil(cx + r + 1))
	minY := int(math.Floor(cy - r - 1))
	maxY := int(math.Ceil(cy + r + 1))
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			d := math.Sqrt(dx*dx + dy*dy)
			coverage := r + 0.5 - d
			if coverage <= 0 {
				continue
			}
			if coverage > 1 {
				coverage = 1
			}
			pixel := c
			pixel.A *= coverage
			p.BlendPixel(x, y, pixel)
		}
	}
}

// drawRing rasterizes an antialiased annulus of the given stroke width
// centered at radius r, the hovered-point decoration of §4.4 ("a 2-px
// ring at r+3").
func drawRing(p *engine.Pixmap, cx, cy, r, width float64, c engine.RGBA) {
	if r <= 0 || width <= 0 {
		return
	}
	outer := r + width/2
	inner := r - width/2
	minX := int(math.Floor(cx - outer - 1))
	maxX := int(math.Ceil(cx + outer + 1))
	minY := int(math.Floor(cy - outer - 1))
	maxY := int(math.Ceil(cy + outer + 1))
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			d := math.Sqrt(dx*dx + dy*dy)
			var coverage float64
			if d > outer {
				coverage = outer + 0.5 - d
			} else if d < inner {
				coverage = d - (inner - 0.5)
			} else {
				coverage = 1
			}
			if coverage <= 0 {
				continue
			}
			if coverage > 1 {
				coverage = 1
			}
			pixel := c
			pixel.A *= coverage
			p.BlendPixel(x, y, pixel)
		}
	}
}

// drawLineSegment rasterizes a thin antialiased line (the Poincaré
// radial geodesics use this; the concentric grid rings and other
// circles use drawRing instead) via a simple distance-to-segment coverage
// test, adequate for the reference renderer's 1px grid lines.
func drawLineSegment(p *engine.Pixmap, x1, y1, x2, y2, width float64, c engine.RGBA) {
	minX := int(math.Floor(math.Min(x1, x2) - width))
	maxX := int(math.Ceil(math.Max(x1, x2) + width))
	minY := int(math.Floor(math.Min(y1, y2) - width))
	maxY := int(math.Ceil(math.Max(y1, y2) + width))
	dx := x2 - x1
	dy := y2 - y1
	lenSq := dx*dx + dy*dy
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px := float64(x) + 0.5
			py := float64(y) + 0.5
			var dist float64
			if lenSq == 0 {
				dist = math.Hypot(px-x1, py-y1)
			} else {
				t := ((px-x1)*dx + (py-y1)*dy) / lenSq
				if t < 0 {
					t = 0
				} else if t > 1 {
					t = 1
				}
				projX := x1 + t*dx
				projY := y1 + t*dy
				dist = math.Hypot(px-projX, py-projY)
			}
			coverage := width/2 + 0.5 - dist
			if coverage <= 0 {
				continue
			}
			if coverage > 1 {
				coverage = 1
			}
			pixel := c
			pixel.A *= coverage
			p.BlendPixel(x, y, pixel)
		}
	}
}
