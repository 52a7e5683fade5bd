package plc

import "github.com/gridfold/plc/r2"

// Edge is an undirected segment between two distinct vertices, with a
// conceptual direction v1->v2 used only to distinguish its left/right
// polygon. Edges never outlive the Graph that created them.
type Edge struct {
	id int64

	v1, v2 *Vertex
	left   *Polygon
	right  *Polygon

	// isSegment marks an edge representing a constraint: part of an
	// original polygon outline or an auxiliary decomposition cut. Segments
	// are never flipped or split during Delaunay fix-up.
	isSegment bool

	// level is the fix-up epoch this edge was last touched in, used by the
	// flip loop to avoid re-examining an edge within one pass.
	level int

	// frozen marks an edge produced by constraint insertion, so subsequent
	// constraint insertions leave it alone. An explicit flag reads more
	// clearly at call sites than a sentinel epoch value and sidesteps any
	// question of epoch overflow (see DESIGN.md, Open Question 3).
	frozen bool
}

// ID returns the edge's stable arena identifier.
func (e *Edge) ID() int64 { return e.id }

// V1 returns the first endpoint.
func (e *Edge) V1() *Vertex { return e.v1 }

// V2 returns the second endpoint.
func (e *Edge) V2() *Vertex { return e.v2 }

// Other returns the endpoint of e that is not v. It panics if v is not an
// endpoint of e, since that indicates a caller bug rather than recoverable
// input.
func (e *Edge) Other(v *Vertex) *Vertex {
	switch v {
	case e.v1:
		return e.v2
	case e.v2:
		return e.v1
	default:
		panic("plc: vertex is not an endpoint of edge")
	}
}

// Left returns the polygon on the left of the v1->v2 direction, or nil.
func (e *Edge) Left() *Polygon { return e.left }

// Right returns the polygon on the right of the v1->v2 direction, or nil.
func (e *Edge) Right() *Polygon { return e.right }

// IsSegment reports whether e represents a constraint.
func (e *Edge) IsSegment() bool { return e.isSegment }

// IsOutsideEdge reports whether exactly one of e's two polygons is an
// "outside" triangle (or one side is simply absent, i.e. a true hull edge).
// Used by the hull walk and by the outside-edge-count invariant.
func (e *Edge) IsOutsideEdge() bool {
	lOut := e.left == nil || e.left.isOutside
	rOut := e.right == nil || e.right.isOutside
	return lOut != rOut
}

// otherPolygon returns the polygon attached to the side of e opposite p,
// treating a nil slot as "no polygon" rather than panicking, since hull
// edges legitimately have one nil side.
func (e *Edge) otherPolygon(p *Polygon) *Polygon {
	switch p {
	case e.left:
		return e.right
	case e.right:
		return e.left
	default:
		return nil
	}
}

// setSide assigns p to e's left or right slot, matching which endpoint
// ordering p's winding implies. Used by Graph.CreateTriangle/CreatePolygon.
func (e *Edge) setSide(p *Polygon, onLeft bool) {
	if onLeft {
		e.left = p
	} else {
		e.right = p
	}
}

// clearSide removes p from whichever of e's two slots currently holds it.
func (e *Edge) clearSide(p *Polygon) {
	if e.left == p {
		e.left = nil
	}
	if e.right == p {
		e.right = nil
	}
}

// direction returns the vector from v1 to v2.
func (e *Edge) direction() r2.Vector { return e.v2.position.Sub(e.v1.position) }
