// Package dataset defines the immutable point-cloud input consumed by both
// renderers (§3 "Dataset").
package dataset

import "fmt"

// Geometry identifies which view math a Dataset is meant to be rendered
// under.
type Geometry int

const (
	Euclidean Geometry = iota
	Poincare
)

// String returns the geometry name.
func (g Geometry) String() string {
	switch g {
	case Euclidean:
		return "euclidean"
	case Poincare:
		return "poincare"
	default:
		return "unknown"
	}
}

// Dataset is immutable after construction (§3). Positions is a flat,
// interleaved x,y sequence of length 2*N; Labels has length N.
type Dataset struct {
	positions []float32
	labels    []uint16
	geometry  Geometry
	n         int
}

// New validates and constructs a Dataset. It returns an error if
// positions.length != 2n, labels.length != n, or (for Poincare) any point
// fails to satisfy x²+y² < 1 — all contract violations per §7, not
// recoverable degenerate math.
func New(positions []float32, labels []uint16, geometry Geometry) (*Dataset, error) {
	n := len(labels)
	if len(positions) != 2*n {
		return nil, fmt.Errorf("dataset: positions length %d != 2*labels length %d", len(positions), 2*n)
	}
	if geometry == Poincare {
		for i := 0; i < n; i++ {
			x, y := float64(positions[2*i]), float64(positions[2*i+1])
			if x*x+y*y >= 1 {
				return nil, fmt.Errorf("dataset: point %d (%v,%v) lies outside the open unit disk", i, x, y)
			}
		}
	}
	return &Dataset{positions: positions, labels: labels, geometry: geometry, n: n}, nil
}

// N returns the point count.
func (d *Dataset) N() int { return d.n }

// Geometry returns the geometry the dataset was constructed for.
func (d *Dataset) Geometry() Geometry { return d.geometry }

// GeometryName satisfies engine.Dataset (used for the setDataset/setView
// geometry-mismatch contract check, §6).
func (d *Dataset) GeometryName() string { return d.geometry.String() }

// X returns the x coordinate of point i.
func (d *Dataset) X(i int) float64 { return float64(d.positions[2*i]) }

// Y returns the y coordinate of point i.
func (d *Dataset) Y(i int) float64 { return float64(d.positions[2*i+1]) }

// Label returns the label of point i, used to index the color palette
// (labels[i] mod palette_size, §4.4).
func (d *Dataset) Label(i int) uint16 { return d.labels[i] }

// Positions returns the backing flat position array. Callers must treat
// it as read-only.
func (d *Dataset) Positions() []float32 { return d.positions }

// Labels returns the backing label array. Callers must treat it as
// read-only.
func (d *Dataset) Labels() []uint16 { return d.labels }

// Bounds returns the axis-aligned bounding box of all positions, used by
// the fit-to-data initial view (§8 "Euclidean fit-to-data").
func (d *Dataset) Bounds() (minX, minY, maxX, maxY float64) {
	if d.n == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = d.X(0), d.Y(0)
	maxX, maxY = minX, minY
	for i := 1; i < d.n; i++ {
		x, y := d.X(i), d.Y(i)
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}
	return
}

// Centroid returns the mean position over all points, used to center the
// fit-to-data initial Euclidean view.
func (d *Dataset) Centroid() (cx, cy float64) {
	if d.n == 0 {
		return 0, 0
	}
	var sumX, sumY float64
	for i := 0; i < d.n; i++ {
		sumX += d.X(i)
		sumY += d.Y(i)
	}
	return sumX / float64(d.n), sumY / float64(d.n)
}
