// Package engine implements the interactive large-N scatterplot
// renderer/interaction subsystem for 2D embeddings under two geometries:
// Euclidean and the Poincaré disk model of hyperbolic space.
//
// # Overview
//
// engine reconciles three constraints that usually trade off against each
// other: exact non-Euclidean navigation math, GPU-scale point throughput,
// and bounded memory on selections spanning millions of points. It ships a
// dual renderer implementation — a semantically-exact, naive CPU
// "reference" renderer (package render/reference) and an adaptive-quality
// GPU "candidate" renderer (package render/candidate) — plus the shared
// geometry math, spatial index, and interaction controller that both
// depend on.
//
// # Quick start
//
//	ds, err := dataset.New(positions, labels, dataset.Euclidean)
//	if err != nil {
//		return err
//	}
//
//	r := reference.NewEuclidean()
//	r.Init(pixmapSurface, engine.WithSize(1200, 800))
//	r.SetDataset(ds)
//	r.Render()
//
// # Architecture
//
//   - Root package (this one): shared glue types — Renderer capability
//     set, RGBA/palette, Matrix, Pixmap, GPU capability types,
//     shape/quality policy, logging, functional options.
//   - geometry: pure projection/unprojection/pan/zoom math, and the
//     Vec point/vector type both renderers and Matrix operate on.
//   - spatialindex: the static uniform grid over dataset positions.
//   - bitset: dense bitmap selection backing store.
//   - polygonutil: point-in-polygon and lasso polyline simplification.
//   - selection: the Indices/Geometry selection tagged sum.
//   - render/reference, render/candidate: the two Renderer
//     implementations.
//   - interaction: event coalescing and frame scheduling.
//   - harness/accuracy, harness/performance: cross-implementation testing.
//
// # Coordinate system
//
// Screen space follows standard raster conventions: origin at the
// top-left, X increasing right, Y increasing down. Data space follows
// mathematical convention: Y increases up, hence the Y-flip in every
// projection (§4.1).
package engine

// Version identifies the engine release.
const (
	Version        = "0.1.0"
	VersionMajor   = 0
	VersionMinor   = 1
	VersionPatch   = 0
	VersionPreview = ""
)
