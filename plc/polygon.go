package plc

import (
	"math"

	"github.com/gridfold/plc/r2"
)

// Polygon is an ordered, clockwise-wound loop of >= 3 edges owned by a
// Graph. Clockwise here follows SideOf's labelling (each corner turns to
// SideOf's Right); in standard y-up coordinates the loop runs
// counter-clockwise and Area is positive. For a Triangulation output it always has exactly 3 edges; for a
// ConvexDecomposition output it may have more.
type Polygon struct {
	id int64

	// edges[i] and vertices[i] correspond: vertices[i] is the vertex shared
	// by edges[i-1] and edges[i] (with wraparound).
	edges    []*Edge
	vertices []*Vertex

	// internalVertices holds precious interior points a convex
	// decomposition folded into this polygon rather than leaving as a
	// boundary vertex.
	internalVertices []*Vertex

	// isOutside marks a triangle filling the convex hull around the
	// constrained region; dropped at the end of triangulation unless the
	// caller asks to keep it.
	isOutside bool

	// removed marks a polygon that has been unlinked from the graph. It
	// backs Polygon.IsLive, the pointer-based stand-in for a generational
	// weak reference (see DESIGN.md).
	removed bool

	// diagnosticBits holds the low-bit diagnostic code (skinny / invalid /
	// encroached) set by a Refine pass run with MarkTriangles, and read back
	// through Graph.Diagnostic.
	diagnosticBits int
}

// DiagnosticBits returns the diagnostic code last set for this polygon by a
// Refine pass run with MarkTriangles (0 if none has run).
func (p *Polygon) DiagnosticBits() int { return p.diagnosticBits }

// hasSegment reports whether any of p's boundary edges is a segment.
func (p *Polygon) hasSegment() bool {
	for _, e := range p.edges {
		if e.isSegment {
			return true
		}
	}
	return false
}

// ID returns the polygon's stable arena identifier.
func (p *Polygon) ID() int64 { return p.id }

// Edges returns the polygon's ordered edge list. The returned slice is
// owned by the polygon; callers must not mutate it.
func (p *Polygon) Edges() []*Edge { return p.edges }

// Vertices returns the polygon's ordered boundary vertex list (length equal
// to the edge count). The returned slice is owned by the polygon; callers
// must not mutate it.
func (p *Polygon) Vertices() []*Vertex { return p.vertices }

// InternalVertices returns the precious interior points attached to this
// polygon by convex decomposition.
func (p *Polygon) InternalVertices() []*Vertex { return p.internalVertices }

// Size returns the number of boundary edges (equivalently, vertices).
func (p *Polygon) Size() int { return len(p.edges) }

// IsOutside reports whether this polygon fills outside the constrained
// region.
func (p *Polygon) IsOutside() bool { return p.isOutside }

// IsTriangle reports whether p has exactly three edges.
func (p *Polygon) IsTriangle() bool { return len(p.edges) == 3 }

// IsLive reports whether p is still attached to its graph. Code that holds
// a *Polygon across mutating operations (the refinement loop's weak
// references) must check this before using the polygon again.
func (p *Polygon) IsLive() bool { return !p.removed }

// opposite returns the edge's endpoint that is not on e, for a triangle:
// the vertex not shared with e. It panics if e is not one of p's edges or p
// is not a triangle, since both indicate a caller bug.
func (p *Polygon) opposite(e *Edge) *Vertex {
	if !p.IsTriangle() {
		panic("plc: opposite vertex requested on non-triangle polygon")
	}
	for _, v := range p.vertices {
		if v != e.v1 && v != e.v2 {
			return v
		}
	}
	panic("plc: edge does not belong to polygon")
}

// edgeIndex returns the index of e within p.edges, or -1.
func (p *Polygon) edgeIndex(e *Edge) int {
	for i, pe := range p.edges {
		if pe == e {
			return i
		}
	}
	return -1
}

// otherEdges returns p's two edges other than e, for a triangle, in the
// polygon's winding order starting after e.
func (p *Polygon) otherEdges(e *Edge) (a, b *Edge) {
	i := p.edgeIndex(e)
	if i < 0 {
		panic("plc: edge does not belong to polygon")
	}
	n := len(p.edges)
	return p.edges[(i+1)%n], p.edges[(i+2)%n]
}

// Area returns the polygon's signed area using the shoelace formula over its
// boundary vertices. Polygons built by the engine wind so that the value is
// positive; a loop wound the other way gives a negative value, so callers
// needing a magnitude should take math.Abs.
func (p *Polygon) Area() float64 {
	var sum float64
	n := len(p.vertices)
	for i := 0; i < n; i++ {
		a := p.vertices[i].position
		b := p.vertices[(i+1)%n].position
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

// Circumcircle returns the center and radius of the unique circle through a
// triangle's three vertices. ok is false for a degenerate (zero-area)
// triangle or a non-triangle polygon.
func (p *Polygon) Circumcircle() (center r2.Vector, radius float64, ok bool) {
	if !p.IsTriangle() {
		return r2.Vector{}, 0, false
	}
	a, b, c := p.vertices[0].position, p.vertices[1].position, p.vertices[2].position
	d := 2 * (a.X*(b.Y-c.Y) + b.X*(c.Y-a.Y) + c.X*(a.Y-b.Y))
	if math.Abs(d) < Epsilon {
		return r2.Vector{}, 0, false
	}
	a2, b2, c2 := a.Norm2(), b.Norm2(), c.Norm2()
	ux := (a2*(b.Y-c.Y) + b2*(c.Y-a.Y) + c2*(a.Y-b.Y)) / d
	uy := (a2*(c.X-b.X) + b2*(a.X-c.X) + c2*(b.X-a.X)) / d
	center = r2.Vector{X: ux, Y: uy}
	radius = center.Sub(a).Norm()
	return center, radius, true
}

// ShortestEdgeLength returns the length of p's shortest boundary edge.
func (p *Polygon) ShortestEdgeLength() float64 {
	min := math.Inf(1)
	for _, e := range p.edges {
		l := e.v2.position.Sub(e.v1.position).Norm()
		if l < min {
			min = l
		}
	}
	return min
}

// skinnyRatio returns the triangle's shortest-edge-to-circumradius "b"
// ratio used by the skinny-triangle quality criterion (min_b). Larger is
// better shaped; an equilateral triangle has b == sqrt(3).
func (p *Polygon) skinnyRatio() (b float64, ok bool) {
	_, radius, okc := p.Circumcircle()
	if !okc {
		return 0, false
	}
	shortest := p.ShortestEdgeLength()
	if shortest <= 0 {
		return 0, false
	}
	return shortest / radius, true
}

// isConvex reports whether every interior angle of p is <= pi, scanning
// consecutive edge-direction cross products around the (clockwise-wound)
// boundary.
func (p *Polygon) isConvex() bool {
	n := len(p.vertices)
	if n < 3 {
		return false
	}
	sawPositive, sawNegative := false, false
	for i := 0; i < n; i++ {
		prev := p.vertices[(i-1+n)%n].position
		cur := p.vertices[i].position
		next := p.vertices[(i+1)%n].position
		cross := cur.Sub(prev).Cross(next.Sub(cur))
		if cross > Epsilon {
			sawPositive = true
		} else if cross < -Epsilon {
			sawNegative = true
		}
		if sawPositive && sawNegative {
			return false
		}
	}
	return true
}
