package candidate

import (
	"math"

	"github.com/scattergeo/engine"
)

// drawCircle, drawRingOverlay and drawLine back the CPU-visible
// composite surface (Output()) the candidate renderer exposes as its
// GPURenderTarget readback path. They implement the same antialiased
// coverage approach as render/reference's drawFilledCircle/drawRing/
// drawLineSegment, kept as a separate, self-contained copy here since
// the two renderers are independent engine.Renderer implementations
// with no shared base type (§9 "no class hierarchy").
func drawCircle(p *engine.Pixmap, cx, cy, r float64, c engine.RGBA) {
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

func drawRingOverlay(p *engine.Pixmap, cx, cy, r, width float64, c engine.RGBA) {
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
			switch {
			case d > outer:
				coverage = outer + 0.5 - d
			case d < inner:
				coverage = d - (inner - 0.5)
			default:
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

func drawLine(p *engine.Pixmap, x1, y1, x2, y2, width float64, c engine.RGBA) {
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
				dist = math.Hypot(px-(x1+t*dx), py-(y1+t*dy))
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
