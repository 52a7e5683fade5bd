package plc

import (
	"math"

	"github.com/gridfold/plc/r2"
)

// Transform maps an input-space point (e.g. integer database units) into
// the engine's working coordinates.
type Transform func(r2.Vector) r2.Vector

// IdentityTransform returns p unchanged, the default when no Transform is
// supplied.
func IdentityTransform(p r2.Vector) r2.Vector { return p }

// InputPolygon is one polygon outline with optional holes, given as closed
// clockwise contours (the first point is not repeated at the end). Both
// the hull and every hole must wind clockwise, per SPEC_FULL.md §4.3.8.
type InputPolygon struct {
	Hull  []r2.Vector
	Holes [][]r2.Vector
}

// Region is a set of already-merged, non-overlapping input polygons.
// Merging overlapping input is the caller's responsibility; the core
// assumes the outlines it is given are disjoint.
type Region []InputPolygon

// Triangulate implements SPEC_FULL.md §4.3.11: it clears the graph,
// inserts input's contours, constrains them, and refines the result per
// params.
func (t *Triangulation) Triangulate(input InputPolygon, params TriangulationParameters, transform Transform) error {
	return t.triangulateImpl(input, nil, params, transform)
}

// TriangulateWithPoints is Triangulate, additionally inserting extra as
// precious interior vertices (a point's slice index becomes its external
// ID) before constraining. A point that ends up outside the polygon is
// silently dropped: once outside triangles are removed, its incident edges
// are removed with them, and it stays in Graph.Vertices with no incident
// edges (Graph.Bbox ignores it).
func (t *Triangulation) TriangulateWithPoints(input InputPolygon, extra []r2.Vector, params TriangulationParameters, transform Transform) error {
	return t.triangulateImpl(input, extra, params, transform)
}

// TriangulateRegion triangulates every polygon of region independently,
// returning one Graph per polygon.
func TriangulateRegion(region Region, params TriangulationParameters, transform Transform) ([]*Graph, error) {
	graphs := make([]*Graph, 0, len(region))
	for _, poly := range region {
		g := NewGraph()
		if err := NewTriangulation(g).Triangulate(poly, params, transform); err != nil {
			return nil, err
		}
		graphs = append(graphs, g)
	}
	return graphs, nil
}

func (t *Triangulation) triangulateImpl(input InputPolygon, extra []r2.Vector, params TriangulationParameters, transform Transform) error {
	if transform == nil {
		transform = IdentityTransform
	}
	if len(input.Hull) < 3 {
		return ErrEmptyInput
	}

	g := t.graph
	g.Clear()
	t.isConstrained = false
	t.level = 0
	t.flips = 0
	t.hops = 0

	rings := make([][]r2.Vector, 0, 1+len(input.Holes))
	rings = append(rings, input.Hull)
	rings = append(rings, input.Holes...)

	box := r2.EmptyRect()
	for _, ring := range rings {
		for _, p := range ring {
			box = box.AddPoint(transform(p))
		}
	}
	for _, p := range extra {
		box = box.AddPoint(transform(p))
	}
	pad := math.Max(box.X.Length(), box.Y.Length())*0.1 + 1
	box = r2.Rect{
		X: r2.Interval{Lo: box.X.Lo - pad, Hi: box.X.Hi + pad},
		Y: r2.Interval{Lo: box.Y.Lo - pad, Hi: box.Y.Hi + pad},
	}
	t.InitBox(box)

	var contours []Contour
	for _, ring := range rings {
		if len(ring) < 3 {
			continue
		}
		contour := make(Contour, 0, len(ring))
		for _, p := range ring {
			tp := transform(p)
			v, err := t.InsertPoint(tp.X, tp.Y)
			if err != nil {
				return err
			}
			contour = append(contour, v)
		}
		// A hole is given clockwise like the hull; reversed, its outside
		// side (as Constrain reads it) faces into the hole.
		if len(contours) > 0 {
			for i, j := 0, len(contour)-1; i < j; i, j = i+1, j-1 {
				contour[i], contour[j] = contour[j], contour[i]
			}
		}
		contours = append(contours, contour)
	}

	for i, p := range extra {
		tp := transform(p)
		v, err := t.InsertPoint(tp.X, tp.Y)
		if err != nil {
			continue
		}
		v.markPrecious(i)
	}

	if err := t.Constrain(contours); err != nil {
		return err
	}
	return t.Refine(params)
}
