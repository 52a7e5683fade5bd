package plc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gridfold/plc/r2"
)

func square(x0, y0, x1, y1 float64) []r2.Vector {
	// Clockwise winding, per SPEC_FULL.md §4.3.8.
	return []r2.Vector{
		{X: x0, Y: y0},
		{X: x0, Y: y1},
		{X: x1, Y: y1},
		{X: x1, Y: y0},
	}
}

func TestTriangulateSquareProducesTriangles(t *testing.T) {
	g := NewGraph()
	tri := NewTriangulation(g)

	err := tri.Triangulate(InputPolygon{Hull: square(0, 0, 10, 10)}, NewTriangulationParameters(), nil)
	require.NoError(t, err)

	require.True(t, tri.IsConstrained())
	require.NotEmpty(t, g.Polygons())
	for _, p := range g.Polygons() {
		require.True(t, p.IsTriangle())
		require.False(t, p.IsOutside())
	}
}

func TestTriangulateRejectsTooFewHullPoints(t *testing.T) {
	g := NewGraph()
	tri := NewTriangulation(g)

	err := tri.Triangulate(InputPolygon{Hull: []r2.Vector{{X: 0, Y: 0}, {X: 1, Y: 1}}}, NewTriangulationParameters(), nil)
	require.ErrorIs(t, err, ErrEmptyInput)
}

func TestTriangulateWithSquareHole(t *testing.T) {
	g := NewGraph()
	tri := NewTriangulation(g)

	input := InputPolygon{
		Hull:  square(0, 0, 10, 10),
		Holes: [][]r2.Vector{square(3, 3, 6, 6)},
	}
	err := tri.Triangulate(input, NewTriangulationParameters(), nil)
	require.NoError(t, err)

	for _, p := range g.Polygons() {
		for _, v := range p.Vertices() {
			require.False(t, v.position.X > 3.001 && v.position.X < 5.999 &&
				v.position.Y > 3.001 && v.position.Y < 5.999,
				"no vertex should fall strictly inside the hole")
		}
	}
}

func TestTriangulateWithPointsDropsExtraneousOutsidePoint(t *testing.T) {
	g := NewGraph()
	tri := NewTriangulation(g)

	extra := []r2.Vector{
		{X: 5, Y: 5},   // inside the hull: should survive as precious
		{X: 50, Y: 50}, // far outside the hull: should be dropped
	}
	params := NewTriangulationParameters(WithRemoveOutsideTriangles(true))
	err := tri.TriangulateWithPoints(InputPolygon{Hull: square(0, 0, 10, 10)}, extra, params, nil)
	require.NoError(t, err)

	var found *Vertex
	for _, v := range g.Vertices() {
		if IsEqual(v.Position(), r2.Vector{X: 5, Y: 5}) {
			found = v
		}
		require.False(t, IsEqual(v.Position(), r2.Vector{X: 50, Y: 50}) && v.Degree() > 0,
			"the far outside point must not survive attached to the mesh")
	}
	require.NotNil(t, found)
	require.True(t, found.Precious())
	require.Contains(t, found.ExternalIDs(), 0)
}

func TestRefineEnforcesMaxArea(t *testing.T) {
	g := NewGraph()
	tri := NewTriangulation(g)

	params := NewTriangulationParameters(WithMaxArea(2.0))
	err := tri.Triangulate(InputPolygon{Hull: square(0, 0, 10, 10)}, params, nil)
	require.NoError(t, err)

	for _, p := range g.Polygons() {
		if p.IsOutside() {
			continue
		}
		require.LessOrEqual(t, math.Abs(p.Area()), 2.0+1e-6)
	}
}

func TestRefineMarkTrianglesPopulatesDiagnostic(t *testing.T) {
	g := NewGraph()
	tri := NewTriangulation(g)

	params := NewTriangulationParameters(WithMaxArea(1.0), WithMarkTriangles(true))
	err := tri.Triangulate(InputPolygon{Hull: square(0, 0, 20, 20)}, params, nil)
	require.NoError(t, err)

	layers := g.Diagnostic()
	require.Len(t, layers, 3)
	require.Equal(t, "skinny", layers[0].Name)
	require.Equal(t, "invalid", layers[1].Name)
	require.Equal(t, "encroached", layers[2].Name)
}

func TestInsertPointOnExistingVertexIsNoop(t *testing.T) {
	g := NewGraph()
	tri := NewTriangulation(g)
	v1, err := tri.InsertPoint(0, 0)
	require.NoError(t, err)
	_, err = tri.InsertPoint(1, 0)
	require.NoError(t, err)
	_, err = tri.InsertPoint(0, 1)
	require.NoError(t, err)

	before := len(g.Vertices())
	again, err := tri.InsertPoint(0, 0)
	require.NoError(t, err)
	require.Same(t, v1, again)
	require.Len(t, g.Vertices(), before)
}

func TestThirdCollinearPointIsRejected(t *testing.T) {
	g := NewGraph()
	tri := NewTriangulation(g)
	_, err := tri.InsertPoint(0, 0)
	require.NoError(t, err)
	_, err = tri.InsertPoint(1, 0)
	require.NoError(t, err)
	_, err = tri.InsertPoint(2, 0)
	require.ErrorIs(t, err, ErrCollinearInput)
}
