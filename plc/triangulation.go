package plc

import (
	"fmt"
	"math"

	"github.com/gridfold/plc/r2"
)

// Triangulation builds and maintains a constrained, refined Delaunay
// triangulation on top of an owned Graph. A Triangulation is not safe for
// concurrent use (see SPEC_FULL.md §5).
type Triangulation struct {
	graph *Graph

	isConstrained bool
	level         int

	flips int
	hops  int
}

// NewTriangulation returns a Triangulation operating on g. g may already
// contain geometry; an empty, freshly-created Graph is the common case.
func NewTriangulation(g *Graph) *Triangulation {
	return &Triangulation{graph: g}
}

// Graph returns the triangulation's owned graph.
func (t *Triangulation) Graph() *Graph { return t.graph }

// Flips returns the cumulative number of Delaunay flips performed since the
// graph was last cleared.
func (t *Triangulation) Flips() int { return t.flips }

// Hops returns the cumulative number of closest-edge-walk steps performed
// since the graph was last cleared.
func (t *Triangulation) Hops() int { return t.hops }

// IsConstrained reports whether Constrain has completed on this
// triangulation.
func (t *Triangulation) IsConstrained() bool { return t.isConstrained }

// InitBox seeds the graph with two triangles tiling the given axis-aligned
// box, split along its rising diagonal (bottom-left to top-right).
func (t *Triangulation) InitBox(box r2.Rect) {
	g := t.graph
	vbl := g.CreateVertex(box.X.Lo, box.Y.Lo)
	vbr := g.CreateVertex(box.X.Hi, box.Y.Lo)
	vtr := g.CreateVertex(box.X.Hi, box.Y.Hi)
	vtl := g.CreateVertex(box.X.Lo, box.Y.Hi)

	eDiag := g.CreateEdge(vbl, vtr)
	eBottom := g.CreateEdge(vbr, vbl)
	eRight := g.CreateEdge(vtr, vbr)
	eTop := g.CreateEdge(vtl, vtr)
	eLeft := g.CreateEdge(vbl, vtl)

	g.CreateTriangle(eBottom, eRight, eDiag)
	g.CreateTriangle(eDiag, eTop, eLeft)
}

// InsertPoint inserts the point (x, y) into the triangulation, keeping the
// mesh Delaunay (modulo segments) and covering the new point. If a vertex
// already exists at that position it is returned unchanged and the graph is
// not mutated (invariant 12, SPEC_FULL.md §8).
func (t *Triangulation) InsertPoint(x, y float64) (*Vertex, error) {
	return t.insertAt(r2.Vector{X: x, Y: y}, nil)
}

// insertAt is InsertPoint's implementation, parameterized by an optional
// search hint (the vertex to start the closest-edge walk from).
func (t *Triangulation) insertAt(p r2.Vector, hint *Vertex) (*Vertex, error) {
	g := t.graph

	if len(g.polygons) == 0 && len(g.vertices) < 3 {
		for _, v := range g.vertices {
			if IsEqual(v.position, p) {
				return v, nil
			}
		}
		v := g.CreateVertex(p.X, p.Y)
		if len(g.vertices) == 3 {
			a, b, c := g.vertices[0], g.vertices[1], g.vertices[2]
			if SideOf(a.position, b.position, c.position) == On {
				// Undo: the third point is collinear with the first two.
				g.vertices = g.vertices[:2]
				return nil, ErrCollinearInput
			}
			t.seedTriangle(a, b, c)
		}
		return v, nil
	}

	if existing := t.FindVertexForPoint(p); existing != nil {
		return existing, nil
	}

	edge, apex := t.findClosestEdge(p, false, hint)
	side := EdgeSideOf(edge, p)

	switch {
	case PointOn(edge, p):
		return t.splitEdge(edge, p), nil
	case edge.IsOutsideEdge() && sideFacesOutside(edge, side):
		if t.isConstrained {
			return nil, ErrOutsideConstrainedGraph
		}
		return t.insertOutside(edge, p), nil
	default:
		tri := triangleOnSide(edge, side)
		if tri == nil {
			// The walk terminated on a hull edge whose outward side
			// doesn't face p numerically (can happen right at the hull
			// boundary); fall back to the outside path.
			if t.isConstrained {
				return nil, ErrOutsideConstrainedGraph
			}
			return t.insertOutside(edge, p), nil
		}
		_ = apex
		return t.splitTriangle(tri, p), nil
	}
}

// seedTriangle builds the initial clockwise-wound triangle once the third
// non-collinear vertex arrives.
func (t *Triangulation) seedTriangle(a, b, c *Vertex) {
	g := t.graph
	// Orient clockwise: if (a,b,c) is counter-clockwise (Left turn), swap
	// b and c.
	if SideOf(a.position, b.position, c.position) == Left {
		b, c = c, b
	}
	e0 := g.CreateEdge(a, b)
	e1 := g.CreateEdge(b, c)
	e2 := g.CreateEdge(c, a)
	g.CreateTriangle(e0, e1, e2)
}

// sideFacesOutside reports whether side (p's side of edge) corresponds to
// edge's nil/outside polygon slot.
func sideFacesOutside(e *Edge, side Side) bool {
	// By the setSide convention (cur != e.v1 => left), p on the Right of
	// e.v1->e.v2 corresponds to e.right, Left to e.left.
	if side == Right {
		return e.right == nil || e.right.isOutside
	}
	return e.left == nil || e.left.isOutside
}

// triangleOnSide returns the triangle attached to the given side of e, or
// nil if that side has no polygon.
func triangleOnSide(e *Edge, side Side) *Polygon {
	if side == Right {
		return e.right
	}
	return e.left
}

// splitTriangle implements SPEC_FULL.md §4.3.3 "Split triangle".
func (t *Triangulation) splitTriangle(tri *Polygon, p r2.Vector) *Vertex {
	g := t.graph
	e0, e1, e2 := tri.edges[0], tri.edges[1], tri.edges[2]
	v0, v1, v2 := tri.vertices[0], tri.vertices[1], tri.vertices[2]
	outside := tri.isOutside

	g.RemovePolygon(tri)

	np := g.CreateVertex(p.X, p.Y)
	e0p := g.CreateEdge(v0, np)
	e1p := g.CreateEdge(v1, np)
	e2p := g.CreateEdge(v2, np)

	t0 := g.CreateTriangle(e0, e1p, e0p)
	t1 := g.CreateTriangle(e1, e2p, e1p)
	t2 := g.CreateTriangle(e2, e0p, e2p)
	t0.isOutside, t1.isOutside, t2.isOutside = outside, outside, outside

	t.fixUp([]*Edge{e0, e1, e2})
	return np
}

// splitEdge implements SPEC_FULL.md §4.3.3 "Split edge".
func (t *Triangulation) splitEdge(s *Edge, p r2.Vector) *Vertex {
	g := t.graph
	va, vb := s.v1, s.v2
	wasSegment := s.isSegment
	left, right := s.left, s.right

	np := g.CreateVertex(p.X, p.Y)
	g.removeEdge(s)

	s1 := g.CreateEdge(va, np)
	s2 := g.CreateEdge(np, vb)
	s1.isSegment, s2.isSegment = wasSegment, wasSegment
	s1.frozen, s2.frozen = s.frozen, s.frozen

	var touched []*Edge
	for _, tri := range []*Polygon{left, right} {
		if tri == nil {
			continue
		}
		apex := tri.opposite(s)
		outside := tri.isOutside
		g.RemovePolygon(tri)

		se := g.CreateEdge(apex, np)
		// Figure out which of the triangle's other two edges touches va
		// and which touches vb, to pair them with s1/s2 correctly.
		var eA, eB *Edge
		for _, e := range tri.edges {
			if e == s {
				continue
			}
			if e.v1 == va || e.v2 == va {
				eA = e
			} else {
				eB = e
			}
		}
		var nt1, nt2 *Polygon
		if tri.vertices[tri.edgeIndex(s)] == va {
			nt1 = g.CreateTriangle(s1, se, eA)
			nt2 = g.CreateTriangle(s2, eB, se)
		} else {
			nt1 = g.CreateTriangle(s1, eA, se)
			nt2 = g.CreateTriangle(s2, se, eB)
		}
		nt1.isOutside, nt2.isOutside = outside, outside
		touched = append(touched, eA, eB, se)
	}

	t.fixUp(touched)
	return np
}

// insertOutside implements SPEC_FULL.md §4.3.3 "Insert outside".
func (t *Triangulation) insertOutside(closest *Edge, p r2.Vector) *Vertex {
	g := t.graph
	np := g.CreateVertex(p.X, p.Y)

	var newTriangles []*Polygon
	var touched []*Edge

	connect := func(from *Vertex) *Edge {
		e := g.CreateEdge(from, np)
		touched = append(touched, e)
		return e
	}

	e1 := connect(closest.v1)
	e2 := connect(closest.v2)
	var tri *Polygon
	if SideOf(closest.v2.position, closest.v1.position, p) == Right {
		tri = g.CreateTriangle(closest, e1, e2)
	} else {
		tri = g.CreateTriangle(closest, e2, e1)
	}
	newTriangles = append(newTriangles, tri)
	touched = append(touched, closest)

	fanFrom := func(start *Vertex, startEdge *Edge) {
		cur := start
		curEdge := startEdge
		for {
			hullEdge := nextHullEdge(cur, curEdge)
			if hullEdge == nil {
				return
			}
			other := hullEdge.Other(cur)
			if s := EdgeSideOf(hullEdge, np.position); s == On || !sideFacesOutside(hullEdge, s) {
				return
			}
			ne := connect(other)
			var ntri *Polygon
			if SideOf(other.position, cur.position, np.position) == Right {
				ntri = g.CreateTriangle(hullEdge, curEdge, ne)
			} else {
				ntri = g.CreateTriangle(hullEdge, ne, curEdge)
			}
			newTriangles = append(newTriangles, ntri)
			touched = append(touched, hullEdge)
			cur, curEdge = other, ne
		}
	}
	fanFrom(closest.v1, e1)
	fanFrom(closest.v2, e2)

	t.fixUp(touched)
	return np
}

// nextHullEdge returns the hull edge incident to v other than exclude, or
// nil if v has no other hull edge.
func nextHullEdge(v *Vertex, exclude *Edge) *Edge {
	for _, e := range v.edges {
		if e == exclude {
			continue
		}
		if e.IsOutsideEdge() {
			return e
		}
	}
	return nil
}

// FindVertexForPoint returns the vertex at p, or nil.
func (t *Triangulation) FindVertexForPoint(p r2.Vector) *Vertex {
	for _, v := range t.graph.vertices {
		if IsEqual(v.position, p) {
			return v
		}
	}
	return nil
}

// FindEdgeForPoints returns the edge whose endpoints are the vertices at p1
// and p2, or nil.
func (t *Triangulation) FindEdgeForPoints(p1, p2 r2.Vector) *Edge {
	v1 := t.FindVertexForPoint(p1)
	v2 := t.FindVertexForPoint(p2)
	if v1 == nil || v2 == nil {
		return nil
	}
	return v1.edgeTo(v2)
}

// FindVertexesAlongLine returns the vertices lying on the ray from p1
// through p2, in order, stopping past p2. p1 must name an existing vertex;
// if not, p2 is tried instead. If neither names a vertex, it returns nil.
func (t *Triangulation) FindVertexesAlongLine(p1, p2 r2.Vector) []*Vertex {
	start := t.FindVertexForPoint(p1)
	end := p2
	if start == nil {
		start = t.FindVertexForPoint(p2)
		if start == nil {
			return nil
		}
		end = p1
	}

	dir := end.Sub(start.position)
	result := []*Vertex{start}
	cur := start
	for {
		var next *Edge
		for _, e := range cur.edges {
			d := e.Other(cur).Position().Sub(cur.position)
			if d.Cross(dir) == 0 && d.Dot(dir) > 0 {
				next = e
				break
			}
		}
		if next == nil {
			break
		}
		cur = next.Other(cur)
		result = append(result, cur)
		if cur.position.Sub(start.position).Norm2() >= dir.Norm2() {
			break
		}
	}
	return result
}

// RemoveOutsideTriangles drops every polygon flagged isOutside. It requires
// Constrain to have already run.
func (t *Triangulation) RemoveOutsideTriangles() error {
	if !t.isConstrained {
		return ErrNotConstrained
	}
	for _, p := range append([]*Polygon(nil), t.graph.polygons...) {
		if p.isOutside {
			t.removePolygonAndOrphanEdges(p)
		}
	}
	return nil
}

// removePolygonAndOrphanEdges removes p and any of its edges that end up
// with no remaining polygon on either side.
func (t *Triangulation) removePolygonAndOrphanEdges(p *Polygon) {
	edges := append([]*Edge(nil), p.edges...)
	t.graph.RemovePolygon(p)
	for _, e := range edges {
		if e.left == nil && e.right == nil {
			t.graph.removeEdge(e)
		}
	}
}

// closestEdgeSeed returns a seed vertex for the closest-edge walk, using a
// simple first-vertex heuristic; a production-scale implementation would
// sample sqrt(N) candidates, but the arenas this engine targets are small
// enough that any reasonable seed converges in a handful of hops.
func (t *Triangulation) closestEdgeSeed() *Vertex {
	n := len(t.graph.vertices)
	if n == 0 {
		return nil
	}
	for _, v := range t.graph.vertices {
		if len(v.edges) > 0 {
			return v
		}
	}
	return t.graph.vertices[n-1]
}

// findClosestEdge performs the closest-edge walk of SPEC_FULL.md §4.3.4,
// starting from hint (or a heuristic seed if nil). insideOnly restricts the
// walk to edges that are segments or have an interior triangle and that
// cross the ray from the start to p, used by refinement to stay on the line
// of sight.
func (t *Triangulation) findClosestEdge(p r2.Vector, insideOnly bool, hint *Vertex) (*Edge, *Vertex) {
	cur := hint
	if cur == nil {
		cur = t.closestEdgeSeed()
	}
	if cur == nil {
		return nil, nil
	}
	start := cur

	best := cur.edges[0]
	bestDist := distancePointToSegment(p, cur.position, best.Other(cur).Position())

	for {
		improved := false
		var improvedEdge *Edge
		var tieEdge *Edge
		tieScore := math.Inf(-1)

		for _, e := range cur.edges {
			if insideOnly && !insideOnlyCandidate(e, start.position, p) {
				continue
			}
			other := e.Other(cur)
			d := distancePointToSegment(p, cur.position, other.Position())
			if d < bestDist-scaledEpsilon(d, bestDist) {
				bestDist = d
				improvedEdge = e
				improved = true
				tieEdge = e
				tieScore = p.Sub(cur.position).Dot(other.Position().Sub(cur.position).Normalize())
			} else if improved && math.Abs(d-bestDist) <= scaledEpsilon(d, bestDist) {
				dir := other.Position().Sub(cur.position).Normalize()
				score := p.Sub(cur.position).Dot(dir)
				if score > tieScore {
					tieScore = score
					tieEdge = e
				}
			}
		}
		if improved {
			improvedEdge = tieEdge
		}
		if !improved {
			return best, cur
		}
		best = improvedEdge
		cur = improvedEdge.Other(cur)
		t.hops++
	}
}

// insideOnlyCandidate implements the inside_only restriction of §4.3.4.
func insideOnlyCandidate(e *Edge, from, to r2.Vector) bool {
	if !(e.isSegment || e.left != nil && !e.left.isOutside || e.right != nil && !e.right.isOutside) {
		return false
	}
	ray := fakeRayEdge(from, to)
	return segmentsCross(e.v1.position, e.v2.position, ray.v1.position, ray.v2.position, true)
}

// fakeRayEdge builds an unattached Edge-shaped value purely to reuse
// segmentsCross's signature; it is never inserted into a graph.
func fakeRayEdge(from, to r2.Vector) *Edge {
	return &Edge{v1: &Vertex{position: from}, v2: &Vertex{position: to}}
}

// distancePointToSegment returns the Euclidean distance from p to the
// closed segment [a, b].
func distancePointToSegment(p, a, b r2.Vector) float64 {
	ab := b.Sub(a)
	if ab.IsZero() {
		return p.Sub(a).Norm()
	}
	tt := p.Sub(a).Dot(ab) / ab.Norm2()
	if tt < 0 {
		tt = 0
	} else if tt > 1 {
		tt = 1
	}
	closest := a.Add(ab.Mul(tt))
	return p.Sub(closest).Norm()
}

// checkString renders a vertex/edge for debug-only panics.
func checkString(v *Vertex) string {
	return fmt.Sprintf("#%d%s", v.id, v.position)
}
