// Package spatialindex implements the static uniform grid of §4.2: a
// build-once, query-many spatial index over a fixed point set, structured
// the way a Flatbush-style index separates Add/Finish from Search — here
// simplified to a single dense grid rather than a hierarchical R-tree,
// since the point set is uniform 2D scatter rather than arbitrary
// bounding boxes.
package spatialindex

import "math"

const (
	targetOccupancy = 64
	minCellsPerAxis = 8
	maxCellsPerAxis = 2048
)

// Grid is an immutable spatial index over a fixed set of 2D points,
// queried by axis-aligned bounding box (§4.2, §3 "Spatial index").
//
// Points are grouped into cells and stored as two dense arrays: offsets
// (prefix sums into ids, length cellsX*cellsY+1) and ids (point indices
// grouped by cell, length n). Built once via Build; query via
// ForEachInAABB allocates nothing.
type Grid struct {
	minX, minY, maxX, maxY float64
	cellsX, cellsY         int
	cellW, cellH           float64
	offsets                []int32
	ids                    []int32
}

// Build constructs a Grid over n points whose coordinates are x(i), y(i).
// Degenerate axes (minX==maxX or minY==maxY) are expanded by 1 so cell
// width/height is never zero (§3 "degenerate axes expanded by 1").
func Build(n int, x, y func(i int) float64) *Grid {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i := 0; i < n; i++ {
		px, py := x(i), y(i)
		if px < minX {
			minX = px
		}
		if px > maxX {
			maxX = px
		}
		if py < minY {
			minY = py
		}
		if py > maxY {
			maxY = py
		}
	}
	if n == 0 {
		minX, minY, maxX, maxY = 0, 0, 0, 0
	}
	if minX == maxX {
		minX -= 0.5
		maxX += 0.5
	}
	if minY == maxY {
		minY -= 0.5
		maxY += 0.5
	}

	width := maxX - minX
	height := maxY - minY
	totalCells := float64(n) / targetOccupancy
	if totalCells < 1 {
		totalCells = 1
	}
	aspect := width / height

	cellsX := int(math.Round(math.Sqrt(totalCells * aspect)))
	cellsY := int(math.Round(math.Sqrt(totalCells / aspect)))
	cellsX = clampInt(cellsX, minCellsPerAxis, maxCellsPerAxis)
	cellsY = clampInt(cellsY, minCellsPerAxis, maxCellsPerAxis)

	g := &Grid{
		minX: minX, minY: minY, maxX: maxX, maxY: maxY,
		cellsX: cellsX, cellsY: cellsY,
		cellW: width / float64(cellsX),
		cellH: height / float64(cellsY),
	}

	numCells := cellsX * cellsY
	counts := make([]int32, numCells+1)
	cellOf := make([]int32, n)
	for i := 0; i < n; i++ {
		c := g.cellIndex(x(i), y(i))
		cellOf[i] = int32(c)
		counts[c+1]++
	}
	for c := 0; c < numCells; c++ {
		counts[c+1] += counts[c]
	}
	offsets := make([]int32, numCells+1)
	copy(offsets, counts)

	ids := make([]int32, n)
	cursor := make([]int32, numCells)
	copy(cursor, counts[:numCells])
	for i := 0; i < n; i++ {
		c := cellOf[i]
		ids[cursor[c]] = int32(i)
		cursor[c]++
	}

	g.offsets = offsets
	g.ids = ids
	return g
}

func (g *Grid) cellIndex(px, py float64) int {
	cx := int((px - g.minX) / g.cellW)
	cy := int((py - g.minY) / g.cellH)
	cx = clampInt(cx, 0, g.cellsX-1)
	cy = clampInt(cy, 0, g.cellsY-1)
	return cy*g.cellsX + cx
}

// aabbEpsilon expands query boxes slightly so a point exactly on a cell
// boundary is never missed due to floating-point rounding (§4.2).
const aabbEpsilon = 1e-12

// ForEachInAABB visits every point index whose cell overlaps
// [xmin,ymin,xmax,ymax], expanded by aabbEpsilon, in deterministic
// row-major cell order. visit may be called more than once only if a
// point's cell is visited more than once, which never happens here: each
// point belongs to exactly one cell. No allocations (§4.2).
func (g *Grid) ForEachInAABB(xmin, ymin, xmax, ymax float64, visit func(i int)) {
	xmin -= aabbEpsilon
	ymin -= aabbEpsilon
	xmax += aabbEpsilon
	ymax += aabbEpsilon

	cx0 := clampInt(int((xmin-g.minX)/g.cellW), 0, g.cellsX-1)
	cx1 := clampInt(int((xmax-g.minX)/g.cellW), 0, g.cellsX-1)
	cy0 := clampInt(int((ymin-g.minY)/g.cellH), 0, g.cellsY-1)
	cy1 := clampInt(int((ymax-g.minY)/g.cellH), 0, g.cellsY-1)

	for cy := cy0; cy <= cy1; cy++ {
		rowBase := cy * g.cellsX
		for cx := cx0; cx <= cx1; cx++ {
			c := rowBase + cx
			start, end := g.offsets[c], g.offsets[c+1]
			for k := start; k < end; k++ {
				visit(int(g.ids[k]))
			}
		}
	}
}

// CellCounts returns (cellsX, cellsY), exposed for tests and diagnostics.
func (g *Grid) CellCounts() (int, int) {
	return g.cellsX, g.cellsY
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
