package plc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gridfold/plc/r2"
)

// lShape is a non-convex hexagon: a 10x10 square with a 5x5 bite taken out
// of its upper-right corner.
func lShape() []r2.Vector {
	return []r2.Vector{
		{X: 0, Y: 0},
		{X: 0, Y: 10},
		{X: 5, Y: 10},
		{X: 5, Y: 5},
		{X: 10, Y: 5},
		{X: 10, Y: 0},
	}
}

func TestDecomposeLShapeYieldsConvexPolygons(t *testing.T) {
	g := NewGraph()
	d := NewConvexDecomposition(g)

	err := d.Decompose(InputPolygon{Hull: lShape()}, NewConvexDecompositionParameters(), nil)
	require.NoError(t, err)

	var nonOutside int
	for _, p := range g.Polygons() {
		if p.IsOutside() {
			continue
		}
		nonOutside++
		require.True(t, p.isConvex(), "every output polygon must be convex")
	}
	require.Greater(t, nonOutside, 0)
}

func TestDecomposeSquareYieldsSingleConvexPolygon(t *testing.T) {
	g := NewGraph()
	d := NewConvexDecomposition(g)

	err := d.Decompose(InputPolygon{Hull: square(0, 0, 10, 10)}, NewConvexDecompositionParameters(), nil)
	require.NoError(t, err)

	var kept []*Polygon
	for _, p := range g.Polygons() {
		if !p.IsOutside() {
			kept = append(kept, p)
		}
	}
	require.Len(t, kept, 1, "a convex input should coalesce into exactly one output polygon")
	require.True(t, kept[0].isConvex())
}

func TestDecomposeWithSegmentsYieldsConvexPolygons(t *testing.T) {
	g := NewGraph()
	d := NewConvexDecomposition(g)

	params := NewConvexDecompositionParameters(WithSegments(true))
	err := d.Decompose(InputPolygon{Hull: lShape()}, params, nil)
	require.NoError(t, err)

	for _, p := range g.Polygons() {
		if p.IsOutside() {
			continue
		}
		require.True(t, p.isConvex())
	}
}

func TestQuadConvexAcrossAcceptsConvexSquare(t *testing.T) {
	// A unit square split along one diagonal: merging the two triangles
	// back across that diagonal is convex.
	g := NewGraph()
	tri := NewTriangulation(g)
	a, _ := tri.InsertPoint(0, 0)
	b, _ := tri.InsertPoint(0, 1)
	c, _ := tri.InsertPoint(1, 1)
	_, _ = tri.InsertPoint(1, 0)

	var diag *Edge
	for _, e := range a.edges {
		if e.Other(a) == c {
			diag = e
		}
	}
	require.NotNil(t, diag)
	require.NotNil(t, diag.left)
	require.NotNil(t, diag.right)
	_ = b
	require.True(t, quadConvexAcross(diag, false))
}
