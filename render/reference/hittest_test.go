package reference

import (
	"context"
	"testing"

	"github.com/scattergeo/engine"
	"github.com/scattergeo/engine/dataset"
)

func TestHitTestFindsExactPoint(t *testing.T) {
	r := NewEuclidean()
	_ = r.Init(nil, engine.WithSize(400, 300), engine.WithPointRadius(3))
	_ = r.SetDataset(smallEuclideanDataset(t))

	sx, sy := r.ProjectToScreen(0, 0)
	res, err := r.HitTest(sx, sy)
	if err != nil {
		t.Fatalf("HitTest: %v", err)
	}
	if res == nil {
		t.Fatal("expected a hit at the origin point's screen position")
	}
	if res.Index != 0 {
		t.Errorf("hit index = %d, want 0", res.Index)
	}
}

func TestHitTestMissesFarAway(t *testing.T) {
	r := NewEuclidean()
	_ = r.Init(nil, engine.WithSize(400, 300), engine.WithPointRadius(3))
	_ = r.SetDataset(smallEuclideanDataset(t))

	res, err := r.HitTest(-10000, -10000)
	if err != nil {
		t.Fatalf("HitTest: %v", err)
	}
	if res != nil {
		t.Errorf("expected no hit far from any point, got index %d", res.Index)
	}
}

func TestHitTestTieBreaksToLowestIndex(t *testing.T) {
	positions := []float32{0, 0, 0, 0}
	labels := []uint16{0, 1}
	ds, err := dataset.New(positions, labels, dataset.Euclidean)
	if err != nil {
		t.Fatalf("dataset.New: %v", err)
	}
	r := NewEuclidean()
	_ = r.Init(nil, engine.WithSize(400, 300), engine.WithPointRadius(3))
	_ = r.SetDataset(ds)

	sx, sy := r.ProjectToScreen(0, 0)
	res, err := r.HitTest(sx, sy)
	if err != nil {
		t.Fatalf("HitTest: %v", err)
	}
	if res == nil || res.Index != 0 {
		t.Fatalf("expected tie-break to index 0, got %v", res)
	}
}

func TestHitTestPoincareRejectsOutsideDisk(t *testing.T) {
	r := NewPoincare()
	_ = r.Init(nil, engine.WithSize(400, 300), engine.WithPointRadius(3))
	_ = r.SetDataset(smallPoincareDataset(t))

	diskR := r.poincare.DiskRadius(400, 300)
	res, err := r.HitTest(200+diskR+50, 150)
	if err != nil {
		t.Fatalf("HitTest: %v", err)
	}
	if res != nil {
		t.Errorf("expected no hit outside the disk, got %v", res)
	}
}

func TestLassoSelectReturnsIndicesVariant(t *testing.T) {
	r := NewEuclidean()
	_ = r.Init(nil, engine.WithSize(400, 300))
	_ = r.SetDataset(smallEuclideanDataset(t))

	x0, y0 := r.ProjectToScreen(-1, -1)
	x1, y1 := r.ProjectToScreen(1, -1)
	x2, y2 := r.ProjectToScreen(1, 1)
	x3, y3 := r.ProjectToScreen(-1, 1)
	poly := []float64{x0, y0, x1, y1, x2, y2, x3, y3}

	sel, err := r.LassoSelect(poly)
	if err != nil {
		t.Fatalf("LassoSelect: %v", err)
	}
	for i := 0; i < 4; i++ {
		if !sel.Has(i) {
			t.Errorf("expected point %d inside the full-canvas lasso", i)
		}
	}
	if n, ok := sel.Size(); !ok || n != 4 {
		t.Errorf("Size() = (%d,%v), want (4,true)", n, ok)
	}
}

func TestLassoSelectRejectsOddLengthPolyline(t *testing.T) {
	r := NewEuclidean()
	_ = r.Init(nil, engine.WithSize(400, 300))
	_ = r.SetDataset(smallEuclideanDataset(t))

	_, err := r.LassoSelect([]float64{1, 2, 3})
	if err == nil {
		t.Fatal("expected error for odd-length polyline")
	}
}

func TestLassoSelectTooShortIsIgnored(t *testing.T) {
	r := NewEuclidean()
	_ = r.Init(nil, engine.WithSize(400, 300))
	_ = r.SetDataset(smallEuclideanDataset(t))

	sel, err := r.LassoSelect([]float64{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("LassoSelect: %v", err)
	}
	if n, ok := sel.Size(); !ok || n != 0 {
		t.Errorf("Size() = (%d,%v), want (0,true)", n, ok)
	}
}

func TestCountSelectionKnownSizeReturnsImmediately(t *testing.T) {
	r := NewEuclidean()
	_ = r.Init(nil, engine.WithSize(400, 300))
	_ = r.SetDataset(smallEuclideanDataset(t))

	sx, sy := r.ProjectToScreen(0, 0)
	res, _ := r.HitTest(sx, sy)
	_ = res

	sel, err := r.LassoSelect([]float64{0, 0, 400, 0, 400, 300, 0, 300})
	if err != nil {
		t.Fatalf("LassoSelect: %v", err)
	}
	n, err := r.CountSelection(context.Background(), sel, engine.CountOptions{})
	if err != nil {
		t.Fatalf("CountSelection: %v", err)
	}
	if n != 4 {
		t.Errorf("CountSelection = %d, want 4", n)
	}
}
