package plc

// fixUp runs one Delaunay legality pass starting from seedEdges, per
// SPEC_FULL.md §4.3.5. It assigns the pass its own level so later calls
// don't re-examine edges already settled in this pass, and never touches a
// segment or frozen edge.
func (t *Triangulation) fixUp(seedEdges []*Edge) {
	t.level++
	level := t.level

	var todo []*Edge
	enqueued := make(map[*Edge]bool)
	push := func(e *Edge) {
		if e.isSegment || e.frozen || e.level >= level || enqueued[e] {
			return
		}
		e.level = level
		enqueued[e] = true
		todo = append(todo, e)
	}
	for _, e := range seedEdges {
		push(e)
	}

	for len(todo) > 0 {
		e := todo[0]
		todo = todo[1:]
		delete(enqueued, e)

		if e.left == nil || e.right == nil {
			continue // hull edge, nothing to flip against
		}
		if !t.isIllegalEdge(e) {
			continue
		}
		newEdge, neighbors := t.flip(e)
		if newEdge == nil {
			continue
		}
		for _, n := range neighbors {
			push(n)
		}
	}
}

// isIllegalEdge reports whether e violates the local Delaunay condition:
// either triangle's circumcircle strictly contains the other triangle's
// apex.
func (t *Triangulation) isIllegalEdge(e *Edge) bool {
	t1, t2 := e.left, e.right
	if t1 == nil || t2 == nil || !t1.IsTriangle() || !t2.IsTriangle() {
		return false
	}
	u1 := t1.opposite(e)
	u2 := t2.opposite(e)

	if center, radius, ok := t1.Circumcircle(); ok {
		if InCircle(u2.position, center, radius) > 0 {
			return true
		}
	}
	if center, radius, ok := t2.Circumcircle(); ok {
		if InCircle(u1.position, center, radius) > 0 {
			return true
		}
	}
	return false
}

// flip swaps the shared diagonal of the quadrilateral formed by e's two
// triangles. It returns the new diagonal edge and the four edges that
// bound the two new triangles (candidates for re-examination). It always
// performs the flip and never returns nil; whether the quadrilateral is
// convex is not checked here, so callers pass only edges that isIllegalEdge
// or ensureEdge have already found flippable.
func (t *Triangulation) flip(e *Edge) (*Edge, []*Edge) {
	g := t.graph
	t1, t2 := e.left, e.right
	u1 := t1.opposite(e)
	u2 := t2.opposite(e)
	outside := t1.isOutside

	eA1, eB1 := edgeTouching(t1, e, e.v1), edgeTouching(t1, e, e.v2)
	eA2, eB2 := edgeTouching(t2, e, e.v1), edgeTouching(t2, e, e.v2)

	g.RemovePolygon(t1)
	g.RemovePolygon(t2)
	g.removeEdge(e)

	newEdge := g.CreateEdge(u1, u2)
	nt1 := g.CreateTriangle(newEdge, eA2, eA1)
	nt2 := g.CreateTriangle(newEdge, eB1, eB2)
	nt1.isOutside, nt2.isOutside = outside, outside

	t.flips++
	newEdge.level = t.level
	newEdge.frozen = false

	return newEdge, []*Edge{eA1, eA2, eB1, eB2}
}

// edgeTouching returns whichever of tri's two edges other than exclude has
// v as an endpoint.
func edgeTouching(tri *Polygon, exclude *Edge, v *Vertex) *Edge {
	a, b := tri.otherEdges(exclude)
	if a.v1 == v || a.v2 == v {
		return a
	}
	return b
}
