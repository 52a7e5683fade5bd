package plc

import (
	"math"

	"github.com/gridfold/plc/r2"
)

// snapToMidpointFraction is how close a candidate insertion point must fall
// to a segment's midpoint, as a fraction of the segment's length, before
// refine treats it as encroaching that segment outright rather than risking
// an ill-conditioned circumcenter arbitrarily close to it (see DESIGN.md,
// Open Question 1).
const snapToMidpointFraction = 0.001

// isSkinny reports whether p fails the minimum shortest-edge/circumradius
// ratio criterion. minB <= 0 disables the check.
func isSkinny(p *Polygon, minB float64) bool {
	if minB <= 0 {
		return false
	}
	b, ok := p.skinnyRatio()
	return ok && b < minB
}

// isInvalidTriangle reports whether p exceeds the configured area bound,
// using the tighter border bound when one of p's edges is a segment.
func isInvalidTriangle(p *Polygon, params TriangulationParameters) bool {
	maxArea := params.MaxArea
	if p.hasSegment() {
		maxArea = params.effectiveMaxAreaBorder()
	}
	return maxArea > 0 && math.Abs(p.Area()) > maxArea
}

// Refine implements SPEC_FULL.md §4.3.9/§4.3.10: a Chew-style refinement
// loop that repeatedly finds a triangle failing the quality criteria and
// splits it, until none remain or params.MaxIterations is reached. It
// requires Constrain to have already run.
func (t *Triangulation) Refine(params TriangulationParameters) error {
	if !t.isConstrained {
		return ErrNotConstrained
	}

	for iter := 0; iter < params.MaxIterations; iter++ {
		bad := t.findBadTriangle(params)
		if bad == nil {
			break
		}
		t.refineOne(bad, params)
		logProgress(params.BaseVerbosity, VerboseDetail, "refine: pass %d", iter)
	}

	if params.MarkTriangles {
		t.markDiagnostics(params)
	}
	if params.RemoveOutsideTriangles {
		if err := t.RemoveOutsideTriangles(); err != nil {
			return err
		}
	}
	return nil
}

// findBadTriangle returns the first non-outside triangle that is either
// skinny or oversized and whose shortest edge is not already at
// params.MinLength (splitting it further would only spin forever on a
// sliver the input itself demands).
func (t *Triangulation) findBadTriangle(params TriangulationParameters) *Polygon {
	for _, p := range t.graph.polygons {
		if p.isOutside || !p.IsTriangle() {
			continue
		}
		if !isSkinny(p, params.MinB) && !isInvalidTriangle(p, params) {
			continue
		}
		if params.MinLength > 0 && p.ShortestEdgeLength() <= params.MinLength {
			continue
		}
		return p
	}
	return nil
}

// refineOne applies one step of Chew's algorithm to tri: if its
// circumcenter would encroach a segment's diametral circle (or land close
// enough to one's midpoint to be numerically suspect), the segment is split
// instead and any vertex the split newly encroaches is cleaned up; otherwise
// the circumcenter itself is inserted.
func (t *Triangulation) refineOne(tri *Polygon, params TriangulationParameters) {
	center, _, ok := tri.Circumcircle()
	if !ok {
		return
	}

	if e, mid, near := t.nearestSegmentMidpoint(center); near {
		t.splitSegmentAndCleanup(e, mid, params)
		return
	}
	if e, mid := t.encroachedSegment(center); e != nil {
		t.splitSegmentAndCleanup(e, mid, params)
		return
	}

	hint := tri.vertices[0]
	t.insertAt(center, hint)
}

// nearestSegmentMidpoint reports the segment whose midpoint lies within
// snapToMidpointFraction of its own length from p, if any.
func (t *Triangulation) nearestSegmentMidpoint(p r2.Vector) (*Edge, r2.Vector, bool) {
	for _, e := range t.graph.edges {
		if !e.isSegment {
			continue
		}
		length := e.v2.position.Sub(e.v1.position).Norm()
		mid := e.v1.position.Add(e.v2.position).Mul(0.5)
		if p.Sub(mid).Norm() <= snapToMidpointFraction*length {
			return e, mid, true
		}
	}
	return nil, r2.Vector{}, false
}

// encroachedSegment returns a segment whose diametral circle (the circle
// having the segment itself as diameter) contains p, if any.
func (t *Triangulation) encroachedSegment(p r2.Vector) (*Edge, r2.Vector) {
	for _, e := range t.graph.edges {
		if !e.isSegment {
			continue
		}
		mid := e.v1.position.Add(e.v2.position).Mul(0.5)
		radius := e.v1.position.Sub(mid).Norm()
		if InCircle(p, mid, radius) >= 0 {
			return e, mid
		}
	}
	return nil, r2.Vector{}
}

// splitSegmentAndCleanup splits seg at mid and removes every non-precious,
// non-segment vertex that falls inside the diametral circle the split
// midpoint would otherwise leave encroached.
func (t *Triangulation) splitSegmentAndCleanup(seg *Edge, mid r2.Vector, params TriangulationParameters) {
	radius := seg.v1.position.Sub(mid).Norm()
	np := t.splitEdge(seg, mid)
	for _, v := range t.findPointsInCircle(mid, radius) {
		if v == np {
			continue
		}
		t.removeVertex(v, params)
	}
}

// findPointsInCircle returns every non-orphaned vertex lying inside or on
// the circle with the given center and radius.
func (t *Triangulation) findPointsInCircle(center r2.Vector, radius float64) []*Vertex {
	var out []*Vertex
	for _, v := range t.graph.vertices {
		if len(v.edges) == 0 {
			continue
		}
		if InCircle(v.position, center, radius) >= 0 {
			out = append(out, v)
		}
	}
	return out
}

// vertexHasSegment reports whether v has any incident segment edge.
func vertexHasSegment(v *Vertex) bool {
	for _, e := range v.edges {
		if e.isSegment {
			return true
		}
	}
	return false
}

// vertexIsOutside reports whether any triangle incident to v is flagged
// isOutside.
func vertexIsOutside(v *Vertex) bool {
	for _, e := range v.edges {
		if (e.left != nil && e.left.isOutside) || (e.right != nil && e.right.isOutside) {
			return true
		}
	}
	return false
}

// removeVertex drops v and re-triangulates the hole it leaves, unless v is
// precious or touches a segment, in which case it is left alone.
func (t *Triangulation) removeVertex(v *Vertex, params TriangulationParameters) {
	_ = params
	if v.precious || vertexHasSegment(v) {
		return
	}
	if vertexIsOutside(v) {
		t.removeOutsideVertex(v)
	} else {
		t.removeInsideVertex(v)
	}
}

// trianglesAroundVertex walks the triangles incident to v in rotational
// order, returning them alongside the "link" ring of v's neighbor vertices
// (ring[i] and ring[(i+1)%n] bound tris[i]). ok is false if v's star does
// not close into a clean fan (e.g. v sits on a true hull boundary with an
// open edge on one side), which callers must handle by leaving v alone.
func trianglesAroundVertex(v *Vertex) (tris []*Polygon, ring []*Vertex, ok bool) {
	deg := v.Degree()
	if deg == 0 {
		return nil, nil, false
	}
	startEdge := v.edges[0]
	curEdge := startEdge
	curTri := curEdge.left
	if curTri == nil {
		curTri = curEdge.right
	}
	ring = append(ring, curEdge.Other(v))

	for i := 0; i < deg; i++ {
		if curTri == nil || !curTri.IsTriangle() {
			return nil, nil, false
		}
		tris = append(tris, curTri)

		far := curTri.edgeOpposite(v)
		other1 := curEdge.Other(v)
		other2 := far.v1
		if far.v1 == other1 {
			other2 = far.v2
		}

		var nextEdge *Edge
		for _, e := range curTri.edges {
			if e != curEdge && e != far {
				nextEdge = e
			}
		}
		if i < deg-1 {
			ring = append(ring, other2)
		}
		curEdge = nextEdge
		curTri = curEdge.otherPolygon(curTri)
	}
	if curEdge != startEdge {
		return nil, nil, false
	}
	return tris, ring, true
}

// removeStarOf deletes v, every edge incident to it, and every (deduplicated)
// triangle in tris.
func (t *Triangulation) removeStarOf(v *Vertex, tris []*Polygon) {
	g := t.graph
	seen := map[*Polygon]bool{}
	for _, tri := range tris {
		if seen[tri] {
			continue
		}
		seen[tri] = true
		g.RemovePolygon(tri)
	}
	for _, e := range append([]*Edge(nil), v.edges...) {
		g.removeEdge(e)
	}
}

// removeInsideVertex deletes a free interior vertex and re-triangulates the
// polygonal hole left behind by ear-clipping. This is a simpler, always-
// correct substitute for the source's incremental flip/join-based removal
// (see DESIGN.md): the source's can_flip/can_join_via bodies were not
// recoverable from the extracted corpus, and ear-clipping gives the same
// end state without needing them.
func (t *Triangulation) removeInsideVertex(v *Vertex) {
	tris, ring, ok := trianglesAroundVertex(v)
	if !ok {
		return
	}
	t.removeStarOf(v, tris)
	t.fillConcaveCorners(ring, false)
}

// removeOutsideVertex deletes a free vertex that sits on the constrained
// region's outside boundary. The star's outside sectors simply vanish (the
// hull recedes); only the contiguous run of inside sectors needs refilling.
func (t *Triangulation) removeOutsideVertex(v *Vertex) {
	tris, ring, ok := trianglesAroundVertex(v)
	if !ok {
		return
	}
	deg := len(ring)

	insideMask := make([]bool, deg)
	anyInside, allInside := false, true
	for i, tri := range tris {
		insideMask[i] = !tri.isOutside
		if insideMask[i] {
			anyInside = true
		} else {
			allInside = false
		}
	}
	if !anyInside {
		t.removeStarOf(v, tris)
		return
	}
	if allInside {
		t.removeStarOf(v, tris)
		t.fillConcaveCorners(ring, false)
		return
	}

	start := -1
	for i := 0; i < deg; i++ {
		if insideMask[i] && !insideMask[(i-1+deg)%deg] {
			start = i
			break
		}
	}
	if start < 0 {
		t.removeStarOf(v, tris)
		return
	}

	runlen := 0
	for runlen < deg && insideMask[(start+runlen)%deg] {
		runlen++
	}
	path := make([]*Vertex, 0, runlen+1)
	for i := 0; i <= runlen; i++ {
		path = append(path, ring[(start+i)%deg])
	}

	t.removeStarOf(v, tris)
	t.fillConcaveCorners(path, false)
}

// pointInTriangle reports whether p lies inside or on the clockwise-wound
// triangle (a, b, c).
func pointInTriangle(p, a, b, c r2.Vector) bool {
	return SideOf(a, b, p) != Left && SideOf(b, c, p) != Left && SideOf(c, a, p) != Left
}

// fillConcaveCorners re-triangulates the simple polygon closed by verts
// (verts[n-1] implicitly connects back to verts[0]) by ear-clipping,
// gluing each new triangle onto whatever edges already exist between
// consecutive boundary vertices and creating the rest. Every new triangle
// is tagged with outside.
func (t *Triangulation) fillConcaveCorners(verts []*Vertex, outside bool) []*Polygon {
	g := t.graph
	ring := append([]*Vertex(nil), verts...)
	var created []*Polygon

	edgeBetween := func(a, b *Vertex) *Edge {
		if e := a.edgeTo(b); e != nil {
			return e
		}
		return g.CreateEdge(a, b)
	}

	for len(ring) > 2 {
		n := len(ring)
		earIdx := 0
		foundEar := false
		for i := 0; i < n && !foundEar; i++ {
			prev := ring[(i-1+n)%n]
			cur := ring[i]
			next := ring[(i+1)%n]
			if SideOf(prev.position, cur.position, next.position) != Right {
				continue
			}
			clean := true
			for j := 0; j < n; j++ {
				if j == (i-1+n)%n || j == i || j == (i+1)%n {
					continue
				}
				if pointInTriangle(ring[j].position, prev.position, cur.position, next.position) {
					clean = false
					break
				}
			}
			if clean {
				earIdx = i
				foundEar = true
			}
		}

		n = len(ring)
		prev := ring[(earIdx-1+n)%n]
		cur := ring[earIdx]
		next := ring[(earIdx+1)%n]

		e1 := edgeBetween(prev, cur)
		e2 := edgeBetween(cur, next)
		e3 := edgeBetween(next, prev)

		p := g.CreateTriangle(e1, e2, e3)
		p.isOutside = outside
		created = append(created, p)

		ring = append(append([]*Vertex(nil), ring[:earIdx]...), ring[earIdx+1:]...)
	}

	t.fixUp(edgesOf(created))
	return created
}

// edgesOf flattens the boundary edges of polys.
func edgesOf(polys []*Polygon) []*Edge {
	var out []*Edge
	for _, p := range polys {
		out = append(out, p.edges...)
	}
	return out
}
