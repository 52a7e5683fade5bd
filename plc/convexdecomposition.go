package plc

import (
	"math"
	"sort"

	"github.com/gridfold/plc/r2"
)

// ConvexDecomposition builds a Hertel-Mehlhorn convex decomposition on top
// of an owned Graph, by triangulating and then coalescing triangles across
// every non-essential diagonal. A ConvexDecomposition is not safe for
// concurrent use (see SPEC_FULL.md §5).
type ConvexDecomposition struct {
	tri *Triangulation
}

// NewConvexDecomposition returns a ConvexDecomposition operating on g.
func NewConvexDecomposition(g *Graph) *ConvexDecomposition {
	return &ConvexDecomposition{tri: NewTriangulation(g)}
}

// Graph returns the decomposition's owned graph.
func (d *ConvexDecomposition) Graph() *Graph { return d.tri.graph }

// Decompose implements SPEC_FULL.md §4.4: triangulate input, then coalesce
// triangles into convex polygons across every edge whose removal would not
// introduce a reflex corner.
func (d *ConvexDecomposition) Decompose(input InputPolygon, params ConvexDecompositionParameters, transform Transform) error {
	return d.DecomposeWithPoints(input, nil, params, transform)
}

// DecomposeWithPoints is Decompose, additionally preserving extra points as
// precious interior vertices attached to whichever output polygon contains
// them.
func (d *ConvexDecomposition) DecomposeWithPoints(input InputPolygon, extra []r2.Vector, params ConvexDecompositionParameters, transform Transform) error {
	params.TriParam.RemoveOutsideTriangles = false
	if err := d.tri.triangulateImpl(input, extra, params.TriParam, transform); err != nil {
		return err
	}
	d.tri.hertelMehlhorn(params)
	return nil
}

// concaveCorner is a vertex where the polygon boundary turns reflex, along
// with the two segment edges meeting there.
type concaveCorner struct {
	vertex          *Vertex
	incoming, outgoing *Edge
}

// collectConcaveCorners finds every boundary vertex with exactly two
// incident segment edges whose interior angle exceeds a straight line,
// grounded on dbPLCConvexDecomposition.cc's collect_concave_vertexes.
func collectConcaveCorners(g *Graph) []concaveCorner {
	var corners []concaveCorner
	for _, v := range g.vertices {
		var segs []*Edge
		for _, e := range v.edges {
			if e.isSegment {
				segs = append(segs, e)
			}
		}
		if len(segs) != 2 {
			continue
		}
		if isConcaveCorner(v, segs[0], segs[1]) {
			corners = append(corners, concaveCorner{vertex: v, incoming: segs[0], outgoing: segs[1]})
		}
	}
	return corners
}

// triangleEdgeOtherThan returns tri's edge touching v other than e, or nil.
func triangleEdgeOtherThan(tri *Polygon, e *Edge, v *Vertex) *Edge {
	for _, pe := range tri.edges {
		if pe == e {
			continue
		}
		if pe.v1 == v || pe.v2 == v {
			return pe
		}
	}
	return nil
}

// isConcaveCorner reports whether the polygon's interior angle at v,
// swept from e1 to e2 through the non-outside triangles between them,
// exceeds pi. It samples one inside triangle adjacent to e1 to learn which
// of the two possible sweeps is the interior one.
func isConcaveCorner(v *Vertex, e1, e2 *Edge) bool {
	dir1 := e1.Other(v).position.Sub(v.position)
	dir2 := e2.Other(v).position.Sub(v.position)

	var sample r2.Vector
	found := false
	for _, tri := range []*Polygon{e1.left, e1.right} {
		if tri == nil || tri.isOutside {
			continue
		}
		other := triangleEdgeOtherThan(tri, e1, v)
		if other == nil {
			continue
		}
		sample = other.Other(v).position.Sub(v.position)
		found = true
		break
	}
	if !found {
		return false
	}

	full := dir2.Angle(dir1)
	if full < 0 {
		full += 2 * math.Pi
	}
	toSample := sample.Angle(dir1)
	if toSample < 0 {
		toSample += 2 * math.Pi
	}
	if toSample > full {
		full = 2*math.Pi - full
	}
	return full > math.Pi+Epsilon
}

// perpendicularRays returns the two directions, perpendicular to cc's
// incoming and outgoing segments, that a Hertel-Mehlhorn perpendicular cut
// may be fired along from the corner.
func perpendicularRays(cc concaveCorner) []r2.Vector {
	v0 := cc.vertex.position
	dirIn := v0.Sub(cc.incoming.Other(cc.vertex).position)
	dirOut := cc.outgoing.Other(cc.vertex).position.Sub(v0)
	return []r2.Vector{
		{X: dirIn.Y, Y: -dirIn.X},
		{X: dirOut.Y, Y: -dirOut.X},
	}
}

// searchCrossingWithNextSegment casts a ray from origin in direction dir
// and returns the nearest point at which it crosses a segment edge, if any.
// This is a direct O(E) scan, a simpler substitute for the source's
// triangle-fan walk (search_crossing_with_next_segment) that reaches the
// same result without needing the fan-adjacency bookkeeping (see
// DESIGN.md).
func searchCrossingWithNextSegment(g *Graph, origin, dir r2.Vector) (r2.Vector, bool) {
	if dir.IsZero() {
		return r2.Vector{}, false
	}
	far := origin.Add(dir.Normalize().Mul(1e6))
	ray := fakeRayEdge(origin, far)

	var best r2.Vector
	bestDist := math.Inf(1)
	found := false
	for _, e := range g.edges {
		if !e.isSegment {
			continue
		}
		if !Crosses(e, ray) {
			continue
		}
		ip := IntersectionPoint(e, ray)
		if d := ip.Sub(origin).Norm(); d < bestDist {
			bestDist = d
			best = ip
			found = true
		}
	}
	return best, found
}

// dedupPoints sorts and removes near-duplicate points.
func dedupPoints(pts []r2.Vector) []r2.Vector {
	sort.Slice(pts, func(i, j int) bool { return pts[i].Less(pts[j]) })
	var out []r2.Vector
	for _, p := range pts {
		if len(out) == 0 || !IsEqual(out[len(out)-1], p) {
			out = append(out, p)
		}
	}
	return out
}

// essentialEdges reports, for every edge of g, whether it must remain in
// the final decomposition: every segment is essential outright, as is any
// internal edge whose two flanking triangles would form a non-convex
// quadrilateral if merged. splitEdges relaxes the convexity threshold
// slightly, tolerating the hair of reflex a perpendicular cut elsewhere
// will resolve exactly (see DESIGN.md, Open Question 2).
func essentialEdges(g *Graph, splitEdges bool) map[*Edge]bool {
	essential := map[*Edge]bool{}
	for _, e := range g.edges {
		if e.isSegment {
			essential[e] = true
			continue
		}
		t1, t2 := e.left, e.right
		if t1 == nil || t2 == nil || t1.isOutside || t2.isOutside {
			essential[e] = true
			continue
		}
		if !t1.IsTriangle() || !t2.IsTriangle() {
			essential[e] = true
			continue
		}
		if !quadConvexAcross(e, splitEdges) {
			essential[e] = true
		}
	}
	return essential
}

// quadConvexAcross reports whether the quadrilateral formed by e's two
// triangles (walking u1, e.v1, u2, e.v2, where u1/u2 are each triangle's
// apex) is convex at every corner, i.e. whether dropping e would leave a
// convex merged region.
func quadConvexAcross(e *Edge, splitEdges bool) bool {
	u1 := e.left.opposite(e)
	u2 := e.right.opposite(e)
	pts := [4]r2.Vector{u1.position, e.v1.position, u2.position, e.v2.position}
	for i := 0; i < 4; i++ {
		prev := pts[(i+3)%4]
		cur := pts[i]
		next := pts[(i+1)%4]
		cross := cur.Sub(prev).Cross(next.Sub(cur))
		eps := scaledEpsilon(prev.X, prev.Y, cur.X, cur.Y, next.X, next.Y)
		if splitEdges {
			if cross > eps {
				return false
			}
		} else if cross > -eps {
			return false
		}
	}
	return true
}

// hertelMehlhorn runs the full decomposition flow over an already
// triangulated, constrained graph: optional perpendicular cuts from
// concave corners, essential-edge labeling, and flood-fill coalescing into
// convex polygons.
func (t *Triangulation) hertelMehlhorn(params ConvexDecompositionParameters) {
	g := t.graph

	if params.WithSegments {
		corners := collectConcaveCorners(g)
		var newPoints []r2.Vector
		for _, cc := range corners {
			for _, dir := range perpendicularRays(cc) {
				if p, ok := searchCrossingWithNextSegment(g, cc.vertex.position, dir); ok {
					newPoints = append(newPoints, p)
				}
			}
		}
		for _, p := range dedupPoints(newPoints) {
			t.insertAt(p, nil)
		}
	}

	essential := essentialEdges(g, params.SplitEdges)
	t.coalesce(essential)
}

// coalesce floods across every non-essential, non-outside edge to group
// triangles into maximal convex components, then replaces each component
// with a single output polygon.
func (t *Triangulation) coalesce(essential map[*Edge]bool) {
	g := t.graph

	left := map[*Polygon]bool{}
	for _, p := range g.polygons {
		if !p.isOutside {
			left[p] = true
		}
	}

	type component struct {
		edges    []*Edge
		internal map[*Vertex]bool
	}
	var components []component

	for len(left) > 0 {
		var start *Polygon
		for p := range left {
			start = p
			break
		}
		delete(left, start)

		comp := component{internal: map[*Vertex]bool{}}
		queue := []*Polygon{start}
		for len(queue) > 0 {
			q := queue[0]
			queue = queue[1:]
			for _, e := range q.edges {
				if e.v1.precious {
					comp.internal[e.v1] = true
				}
				if e.v2.precious {
					comp.internal[e.v2] = true
				}
				other := e.otherPolygon(q)
				if other == nil || other.isOutside || essential[e] {
					comp.edges = append(comp.edges, e)
					continue
				}
				if left[other] {
					delete(left, other)
					queue = append(queue, other)
				}
			}
		}
		components = append(components, comp)
	}

	var toRemove []*Polygon
	for _, p := range g.polygons {
		if !p.isOutside {
			toRemove = append(toRemove, p)
		}
	}
	for _, p := range toRemove {
		g.RemovePolygon(p)
	}

	for _, comp := range components {
		if len(comp.edges) < 3 {
			continue
		}
		ordered := orderBoundaryEdges(comp.edges)
		if !isClockwiseLoop(ordered) {
			ordered = reverseEdgeOrder(ordered)
		}
		poly := g.CreatePolygon(ordered)
		for v := range comp.internal {
			if !boundaryContainsVertex(ordered, v) {
				poly.internalVertices = append(poly.internalVertices, v)
			}
		}
	}
}

// boundaryContainsVertex reports whether v is an endpoint of any edge.
func boundaryContainsVertex(edges []*Edge, v *Vertex) bool {
	for _, e := range edges {
		if e.v1 == v || e.v2 == v {
			return true
		}
	}
	return false
}

// orderBoundaryEdges reorders an unordered set of edges known to form one
// closed loop into traversal order, starting arbitrarily from edges[0].
func orderBoundaryEdges(edges []*Edge) []*Edge {
	adjacency := map[*Vertex][]*Edge{}
	for _, e := range edges {
		adjacency[e.v1] = append(adjacency[e.v1], e)
		adjacency[e.v2] = append(adjacency[e.v2], e)
	}

	ordered := make([]*Edge, 0, len(edges))
	used := make(map[*Edge]bool, len(edges))
	start := edges[0]
	ordered = append(ordered, start)
	used[start] = true
	cur := start.v2

	for len(ordered) < len(edges) {
		var next *Edge
		for _, e := range adjacency[cur] {
			if !used[e] {
				next = e
				break
			}
		}
		if next == nil {
			break
		}
		ordered = append(ordered, next)
		used[next] = true
		cur = next.Other(cur)
	}
	return ordered
}

// isClockwiseLoop reports whether the closed edge loop edges winds
// clockwise under the engine's SideOf convention (shoelace sum positive),
// the winding every triangle of the mesh already has.
func isClockwiseLoop(edges []*Edge) bool {
	n := len(edges)
	first := sharedVertex(edges[n-1], edges[0])
	verts := make([]*Vertex, n)
	verts[0] = first
	cur := first
	for i := 0; i < n; i++ {
		cur = edges[i].Other(cur)
		if i+1 < n {
			verts[i+1] = cur
		}
	}

	var sum float64
	for i := 0; i < n; i++ {
		a := verts[i].position
		b := verts[(i+1)%n].position
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum > 0
}

// reverseEdgeOrder reverses the traversal order of a closed edge loop,
// which keeps it a valid cyclic loop (each consecutive pair still shares a
// vertex) while flipping its winding.
func reverseEdgeOrder(edges []*Edge) []*Edge {
	out := make([]*Edge, len(edges))
	for i, e := range edges {
		out[len(edges)-1-i] = e
	}
	return out
}
