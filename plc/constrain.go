package plc

import "math"

// Contour is a closed, clockwise-wound sequence of vertices describing one
// polygon outline (the hull or a hole) to be forced into the triangulation
// as segments.
type Contour []*Vertex

// Constrain implements SPEC_FULL.md §4.3.8: it forces every edge of every
// contour to exist in the graph, marks it as a segment, floods
// "is_outside" out from the constrained boundary, and tidies up
// unnecessary T-junctions along the way.
func (t *Triangulation) Constrain(contours []Contour) error {
	for _, p := range t.graph.polygons {
		p.isOutside = false
	}
	for _, e := range t.graph.edges {
		e.isSegment = false
	}

	var chains [][]orientedEdge
	var flatChains [][]*Edge
	for _, c := range contours {
		if len(c) < 3 {
			continue
		}
		for i := range c {
			from := c[i]
			to := c[(i+1)%len(c)]
			chain := t.ensureEdge(from, to)
			chains = append(chains, chain)
			flatChains = append(flatChains, orientedEdges(chain).edges())
		}
	}

	var seeds []*Polygon
	seen := map[*Polygon]bool{}
	for _, chain := range chains {
		for _, oe := range chain {
			oe.edge.isSegment = true
			outsideSide := outsideSideOf(oe)
			tri := triangleOnSide(oe.edge, outsideSide)
			if tri != nil && !tri.isOutside {
				tri.isOutside = true
				if !seen[tri] {
					seen[tri] = true
					seeds = append(seeds, tri)
				}
			}
		}
	}

	t.floodOutside(seeds)
	t.joinCollinearSegments(flatChains)

	t.isConstrained = true
	return nil
}

// orientedEdge pairs an edge with whether its own v1->v2 direction agrees
// with the contour traversal direction that required it, since ensureEdge
// may hand back an edge created or discovered in either orientation.
type orientedEdge struct {
	edge    *Edge
	forward bool
}

type orientedEdges []orientedEdge

func (oes orientedEdges) edges() []*Edge {
	out := make([]*Edge, len(oes))
	for i, oe := range oes {
		out[i] = oe.edge
	}
	return out
}

// outsideSideOf determines which side of oe.edge the contour's interior
// does not occupy. Since contours wind clockwise, the outside lies
// geometrically to the left of the traversal direction, which SideOf labels
// Right (its Left is the negative-cross-product side); when the edge's own
// v1->v2 direction runs opposite to the traversal, the sides are swapped
// accordingly.
func outsideSideOf(oe orientedEdge) Side {
	if oe.forward {
		return Right
	}
	return Left
}

// floodOutside propagates isOutside across non-segment edges starting from
// seeds, per SPEC_FULL.md §4.3.8 step 3.
func (t *Triangulation) floodOutside(seeds []*Polygon) {
	frontier := seeds
	for len(frontier) > 0 {
		var next []*Polygon
		for _, tri := range frontier {
			for _, e := range tri.edges {
				if e.isSegment {
					continue
				}
				other := e.otherPolygon(tri)
				if other == nil || other.isOutside {
					continue
				}
				other.isOutside = true
				next = append(next, other)
			}
		}
		frontier = next
	}
}

// joinCollinearSegments merges pairs of consecutive collinear segment edges
// sharing a non-precious vertex whose only other incidences permit the
// merge, per SPEC_FULL.md §4.3.8 step 4. This keeps the output free of
// unnecessary T-junctions along straight runs of a contour.
func (t *Triangulation) joinCollinearSegments(chains [][]*Edge) {
	for _, chain := range chains {
		for i := 0; i+1 < len(chain); i++ {
			e1, e2 := chain[i], chain[i+1]
			if e1 == e2 || e1.left == nil && e1.right == nil {
				continue
			}
			shared := sharedEndpoint(e1, e2)
			if shared == nil || shared.precious || shared.Degree() != 2 {
				continue
			}
			if !collinear(e1, e2) {
				continue
			}
			t.joinAt(shared, e1, e2)
		}
	}
}

// sharedEndpoint returns the vertex common to e1 and e2, or nil.
func sharedEndpoint(e1, e2 *Edge) *Vertex {
	switch {
	case e1.v1 == e2.v1 || e1.v1 == e2.v2:
		return e1.v1
	case e1.v2 == e2.v1 || e1.v2 == e2.v2:
		return e1.v2
	default:
		return nil
	}
}

// collinear reports whether e1 and e2 lie on the same line within epsilon.
func collinear(e1, e2 *Edge) bool {
	d1 := e1.direction()
	d2 := e2.direction()
	return math.Abs(d1.Cross(d2)) <= scaledEpsilon(d1.X, d1.Y, d2.X, d2.Y)*d1.Norm()*d2.Norm()
}

// joinAt merges e1 and e2 at their shared vertex v (which has no other
// incidences) into a single edge spanning their far endpoints, rebuilding
// its two flanking triangles; with any other number of flanking triangles
// nothing is changed. v becomes unreferenced and is left for the garbage
// collector.
func (t *Triangulation) joinAt(v *Vertex, e1, e2 *Edge) {
	far1 := e1.Other(v)
	far2 := e2.Other(v)

	var flank []*Polygon
	for _, p := range []*Polygon{e1.left, e1.right, e2.left, e2.right} {
		if p != nil && !containsPolygon(flank, p) {
			flank = append(flank, p)
		}
	}
	// Only a clean two-triangle bowtie around v is handled; anything more
	// exotic is left as-is rather than risking an inconsistent mesh.
	if len(flank) != 2 {
		return
	}

	g := t.graph
	apexes := make([]*Vertex, 0, 2)
	for _, p := range flank {
		apexes = append(apexes, p.opposite(commonEdge(p, e1, e2)))
	}

	wasSegment := e1.isSegment
	for _, p := range flank {
		g.RemovePolygon(p)
	}
	g.removeEdge(e1)
	g.removeEdge(e2)

	joined := g.CreateEdge(far1, far2)
	joined.isSegment = wasSegment
	joined.frozen = true

	for _, p := range flank {
		oe1, oe2 := otherTwoEdgesAround(p, v)
		if oe1 == nil || oe2 == nil {
			continue
		}
		np := g.CreateTriangle(joined, oe1, oe2)
		np.isOutside = p.isOutside
	}
}

func commonEdge(p *Polygon, e1, e2 *Edge) *Edge {
	for _, e := range p.edges {
		if e == e1 || e == e2 {
			return e
		}
	}
	return nil
}

// otherTwoEdgesAround returns the two edges of the (already-removed from
// the graph but still structurally intact) polygon p that are not incident
// to v, i.e. the two edges surviving after the edge(s) touching v are
// dropped. For a triangle exactly one edge doesn't touch v and is excluded
// from this helper's use at the caller (which needs the two that DO touch
// v's former neighbors, i.e. the flanking edges away from the joined
// vertex).
func otherTwoEdgesAround(p *Polygon, v *Vertex) (*Edge, *Edge) {
	var result []*Edge
	for _, e := range p.edges {
		if e.v1 == v || e.v2 == v {
			result = append(result, e)
		}
	}
	if len(result) != 2 {
		return nil, nil
	}
	return result[0], result[1]
}

func containsPolygon(list []*Polygon, p *Polygon) bool {
	for _, x := range list {
		if x == p {
			return true
		}
	}
	return false
}

// ensureEdge makes (from, to) an edge of the graph, per SPEC_FULL.md
// §4.3.6, returning the chain of edges created/reused along the way (more
// than one when a crossing edge had to be split recursively), each tagged
// with whether its own v1->v2 direction agrees with the from->to traversal
// direction. Every returned edge is frozen.
func (t *Triangulation) ensureEdge(from, to *Vertex) []orientedEdge {
	if e := from.edgeTo(to); e != nil {
		e.frozen = true
		return []orientedEdge{{edge: e, forward: e.v1 == from}}
	}

	crossing := t.searchEdgesCrossing(from, to)
	if len(crossing) == 0 {
		return nil
	}

	if len(crossing) == 1 {
		e := crossing[0]
		if EdgeSideOf(e, from.position) != On && EdgeSideOf(e, to.position) != On {
			if newEdge, _ := t.flip(e); newEdge != nil {
				if (newEdge.v1 == from && newEdge.v2 == to) || (newEdge.v1 == to && newEdge.v2 == from) {
					newEdge.frozen = true
					return []orientedEdge{{edge: newEdge, forward: newEdge.v1 == from}}
				}
			}
		}
	}

	mid := from.position.Add(to.position).Mul(0.5)
	ray := fakeRayEdge(from.position, to.position)
	var choice *Edge
	bestDist := math.Inf(1)
	for _, e := range crossing {
		ip := IntersectionPoint(e, ray)
		if d := ip.Sub(mid).Norm(); d < bestDist {
			bestDist, choice = d, e
		}
	}
	ip := IntersectionPoint(choice, ray)

	var split *Vertex
	switch {
	case IsEqual(ip, choice.v1.position):
		split = choice.v1
	case IsEqual(ip, choice.v2.position):
		split = choice.v2
	default:
		v, err := t.insertAt(ip, from)
		if err != nil {
			return nil
		}
		split = v
	}

	leftChain := t.ensureEdge(from, split)
	rightChain := t.ensureEdge(split, to)
	return append(leftChain, rightChain...)
}

// searchEdgesCrossing implements the crossing-edge walk of SPEC_FULL.md
// §4.3.7.
func (t *Triangulation) searchEdgesCrossing(from, to *Vertex) []*Edge {
	cur, opp := t.startingTriangle(from, to)
	if cur == nil || opp == nil {
		return nil
	}
	ray := fakeRayEdge(from.position, to.position)

	crossing := []*Edge{opp}
	entry := opp
	cur = opp.otherPolygon(cur)

	for cur != nil && !containsVertex(cur, to) {
		var next *Edge
		for _, e := range cur.edges {
			if e == entry {
				continue
			}
			if CrossesIncluding(e, ray) {
				next = e
				break
			}
		}
		if next == nil {
			break
		}
		crossing = append(crossing, next)
		entry = next
		cur = next.otherPolygon(cur)
	}
	return crossing
}

// startingTriangle finds a triangle incident to from whose opposite edge
// (the one not touching from) crosses the segment from->to, or, if to
// already lies within one of from's incident triangles, returns that
// triangle with a nil opposite edge.
func (t *Triangulation) startingTriangle(from, to *Vertex) (*Polygon, *Edge) {
	ray := fakeRayEdge(from.position, to.position)
	for _, e := range from.edges {
		for _, tri := range []*Polygon{e.left, e.right} {
			if tri == nil || !tri.IsTriangle() {
				continue
			}
			if containsVertex(tri, to) {
				return tri, nil
			}
			opp := tri.edgeOpposite(from)
			if CrossesIncluding(opp, ray) {
				return tri, opp
			}
		}
	}
	return nil, nil
}

// edgeOpposite returns the edge of triangle p not touching v.
func (p *Polygon) edgeOpposite(v *Vertex) *Edge {
	for _, e := range p.edges {
		if e.v1 != v && e.v2 != v {
			return e
		}
	}
	panic("plc: vertex does not belong to triangle")
}

func containsVertex(p *Polygon, v *Vertex) bool {
	for _, pv := range p.vertices {
		if pv == v {
			return true
		}
	}
	return false
}
