package polygonutil

import "testing"

func square() []Point {
	return []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
}

func TestContainsInsidePoint(t *testing.T) {
	if !Contains(square(), Point{5, 5}) {
		t.Error("expected center point inside square")
	}
}

func TestContainsOutsidePoint(t *testing.T) {
	if Contains(square(), Point{20, 20}) {
		t.Error("expected far point outside square")
	}
}

func TestContainsOnBoundaryCountsInside(t *testing.T) {
	tests := []Point{
		{0, 5}, {10, 5}, {5, 0}, {5, 10}, {0, 0}, {10, 10},
	}
	for _, p := range tests {
		if !Contains(square(), p) {
			t.Errorf("expected boundary point %v to count as inside", p)
		}
	}
}

func TestContainsDegenerateTriangleTooFewPoints(t *testing.T) {
	if Contains([]Point{{0, 0}, {1, 1}}, Point{0, 0}) {
		t.Error("expected < 3 vertex polygon to contain nothing")
	}
}

func TestContainsConcavePolygon(t *testing.T) {
	// a "C" shape / notch
	poly := []Point{
		{0, 0}, {10, 0}, {10, 4}, {4, 4}, {4, 6}, {10, 6}, {10, 10}, {0, 10},
	}
	if Contains(poly, Point{7, 5}) {
		t.Error("expected point in the notch to be outside")
	}
	if !Contains(poly, Point{2, 5}) {
		t.Error("expected point in the solid part to be inside")
	}
}

func TestBoundingBox(t *testing.T) {
	minX, minY, maxX, maxY := BoundingBox(square())
	if minX != 0 || minY != 0 || maxX != 10 || maxY != 10 {
		t.Errorf("got (%v,%v,%v,%v), want (0,0,10,10)", minX, minY, maxX, maxY)
	}
}

func TestBoundingBoxEmpty(t *testing.T) {
	minX, minY, maxX, maxY := BoundingBox(nil)
	if minX != 0 || minY != 0 || maxX != 0 || maxY != 0 {
		t.Errorf("got (%v,%v,%v,%v), want all zero", minX, minY, maxX, maxY)
	}
}
