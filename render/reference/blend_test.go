package reference

import (
	"testing"

	"github.com/scattergeo/engine"
)

func TestDrawFilledCircleFillsCenter(t *testing.T) {
	p := engine.NewPixmap(20, 20)
	p.Clear(engine.Transparent)
	drawFilledCircle(p, 10, 10, 5, engine.Red)
	c := p.GetPixel(10, 10)
	if c.A < 0.99 {
		t.Errorf("center pixel alpha = %v, want ~1", c.A)
	}
	if c.R < 0.99 {
		t.Errorf("center pixel red = %v, want ~1", c.R)
	}
}

func TestDrawFilledCircleLeavesFarCornersUntouched(t *testing.T) {
	p := engine.NewPixmap(20, 20)
	p.Clear(engine.Transparent)
	drawFilledCircle(p, 10, 10, 3, engine.Red)
	c := p.GetPixel(0, 0)
	if c.A != 0 {
		t.Errorf("far corner alpha = %v, want 0", c.A)
	}
}

func TestDrawRingLeavesCenterUntouched(t *testing.T) {
	p := engine.NewPixmap(30, 30)
	p.Clear(engine.Transparent)
	drawRing(p, 15, 15, 10, 2, engine.Blue)
	center := p.GetPixel(15, 15)
	if center.A != 0 {
		t.Errorf("ring center alpha = %v, want 0 (ring should not fill center)", center.A)
	}
	edge := p.GetPixel(25, 15)
	if edge.A < 0.5 {
		t.Errorf("ring edge alpha = %v, want > 0.5", edge.A)
	}
}

func TestDrawLineSegmentCoversEndpoints(t *testing.T) {
	p := engine.NewPixmap(20, 20)
	p.Clear(engine.Transparent)
	drawLineSegment(p, 2, 2, 17, 17, 1, engine.Green)
	mid := p.GetPixel(9, 9)
	if mid.A < 0.5 {
		t.Errorf("midpoint of line alpha = %v, want > 0.5", mid.A)
	}
}
