package reference

import (
	"testing"

	"github.com/scattergeo/engine"
	"github.com/scattergeo/engine/dataset"
	"github.com/scattergeo/engine/geometry"
)

func smallEuclideanDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	positions := []float32{0, 0, 0.5, 0.5, -0.5, -0.5, 0.9, 0}
	labels := []uint16{0, 1, 2, 3}
	ds, err := dataset.New(positions, labels, dataset.Euclidean)
	if err != nil {
		t.Fatalf("dataset.New: %v", err)
	}
	return ds
}

func smallPoincareDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	positions := []float32{0, 0, 0.3, 0.3, -0.3, 0.1, 0.6, -0.2}
	labels := []uint16{0, 1, 2, 3}
	ds, err := dataset.New(positions, labels, dataset.Poincare)
	if err != nil {
		t.Fatalf("dataset.New: %v", err)
	}
	return ds
}

func TestInitAllocatesBufferAtDPR(t *testing.T) {
	r := NewEuclidean()
	if err := r.Init(nil, engine.WithSize(100, 50), engine.WithDevicePixelRatio(2)); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if got, want := r.Output().Width(), 200; got != want {
		t.Errorf("buffer width = %d, want %d", got, want)
	}
	if got, want := r.Output().Height(), 100; got != want {
		t.Errorf("buffer height = %d, want %d", got, want)
	}
}

func TestInitRejectsNegativeSize(t *testing.T) {
	r := NewEuclidean()
	err := r.Init(nil, engine.WithSize(-1, 10))
	if err == nil {
		t.Fatal("expected error for negative size")
	}
	var ce *engine.ContractError
	if !isContractError(err, &ce) {
		t.Fatalf("expected *engine.ContractError, got %T", err)
	}
}

func isContractError(err error, out **engine.ContractError) bool {
	ce, ok := err.(*engine.ContractError)
	if ok {
		*out = ce
	}
	return ok
}

func TestSetDatasetRejectsGeometryMismatch(t *testing.T) {
	r := NewEuclidean()
	_ = r.Init(nil, engine.WithSize(100, 100))
	ds := smallPoincareDataset(t)
	if err := r.SetDataset(ds); err == nil {
		t.Fatal("expected geometry mismatch error")
	}
}

func TestSetDatasetAcceptsMatchingGeometry(t *testing.T) {
	r := NewEuclidean()
	_ = r.Init(nil, engine.WithSize(100, 100))
	ds := smallEuclideanDataset(t)
	if err := r.SetDataset(ds); err != nil {
		t.Fatalf("SetDataset: %v", err)
	}
}

func TestProjectUnprojectRoundTrip(t *testing.T) {
	r := NewEuclidean()
	_ = r.Init(nil, engine.WithSize(400, 300))
	sx, sy := r.ProjectToScreen(0.3, -0.2)
	x, y := r.UnprojectFromScreen(sx, sy)
	const tol = 1e-9
	if absf(x-0.3) > tol || absf(y-(-0.2)) > tol {
		t.Errorf("round trip = (%v,%v), want (0.3,-0.2)", x, y)
	}
}

func TestPanIsAnchorInvariantThroughRenderer(t *testing.T) {
	r := NewEuclidean()
	_ = r.Init(nil, engine.WithSize(400, 300))
	anchor := geometry.Vec{X: 200, Y: 150}
	before := r.unproject(anchor)
	r.Pan(37, -11, engine.Modifiers{})
	after := r.unproject(geometry.Vec{X: anchor.X + 37, Y: anchor.Y - 11})
	const tol = 1e-9
	if absf(before.X-after.X) > tol || absf(before.Y-after.Y) > tol {
		t.Errorf("pan anchor drifted: before=%v after=%v", before, after)
	}
}

func TestGetViewReturnsMatchingType(t *testing.T) {
	r := NewEuclidean()
	_ = r.Init(nil, engine.WithSize(10, 10))
	if _, ok := r.GetView().(geometry.EuclideanView); !ok {
		t.Fatalf("GetView() returned %T, want geometry.EuclideanView", r.GetView())
	}
}

func TestSetViewRejectsWrongGeometry(t *testing.T) {
	r := NewEuclidean()
	_ = r.Init(nil, engine.WithSize(10, 10))
	if err := r.SetView(geometry.NewPoincareView()); err == nil {
		t.Fatal("expected geometry mismatch error")
	}
}

func TestRenderWithoutInitFails(t *testing.T) {
	r := NewEuclidean()
	if err := r.Render(); err == nil {
		t.Fatal("expected error rendering before Init")
	}
}

func TestRenderEuclideanProducesNonBackgroundPixels(t *testing.T) {
	r := NewEuclidean()
	_ = r.Init(nil, engine.WithSize(64, 64), engine.WithBackgroundColor(engine.White))
	_ = r.SetDataset(smallEuclideanDataset(t))
	if err := r.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}
	found := false
	img := r.Output()
	for y := 0; y < img.Height() && !found; y++ {
		for x := 0; x < img.Width(); x++ {
			c := img.GetPixel(x, y)
			if c != engine.White {
				found = true
				break
			}
		}
	}
	if !found {
		t.Error("expected at least one non-background pixel after rendering points")
	}
}

func TestRenderPoincareDrawsBackdrop(t *testing.T) {
	r := NewPoincare()
	_ = r.Init(nil, engine.WithSize(64, 64), engine.WithBackgroundColor(engine.White))
	_ = r.SetDataset(smallPoincareDataset(t))
	if err := r.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}
	cx, cy := 32, 32
	c := r.Output().GetPixel(cx, cy)
	if c == engine.White {
		t.Error("expected disk fill color (not background) at canvas center")
	}
}

func TestResizeReallocatesBuffer(t *testing.T) {
	r := NewEuclidean()
	_ = r.Init(nil, engine.WithSize(10, 10), engine.WithDevicePixelRatio(1))
	if err := r.Resize(20, 15); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if r.Output().Width() != 20 || r.Output().Height() != 15 {
		t.Errorf("buffer = %dx%d, want 20x15", r.Output().Width(), r.Output().Height())
	}
}

func TestDestroyClearsSurface(t *testing.T) {
	r := NewEuclidean()
	_ = r.Init(nil, engine.WithSize(10, 10))
	_ = r.Destroy()
	if r.Output() != nil {
		t.Error("expected Output() == nil after Destroy")
	}
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
