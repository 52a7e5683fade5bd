package plc

import "github.com/gridfold/plc/r2"

// Graph is the owning arena of Vertex, Edge and Polygon values for one PLC
// mesh. A Graph is not safe for concurrent use; independent Graphs may be
// used from separate goroutines freely, since all state hangs off the
// *Graph value and its owned slices (see SPEC_FULL.md §5).
type Graph struct {
	vertices []*Vertex
	edges    []*Edge
	polygons []*Polygon

	nextVertexID  int64
	nextEdgeID    int64
	nextPolygonID int64
}

// NewGraph returns an empty Graph.
func NewGraph() *Graph {
	return &Graph{}
}

// CreateVertex allocates a new vertex at (x, y) in the graph's arena.
func (g *Graph) CreateVertex(x, y float64) *Vertex {
	v := &Vertex{id: g.nextVertexID, position: r2.Vector{X: x, Y: y}}
	g.nextVertexID++
	g.vertices = append(g.vertices, v)
	return v
}

// CreateEdge allocates a new edge between v1 and v2 and links it into both
// vertices' incidence lists. v1 and v2 must be distinct vertices already
// owned by g.
func (g *Graph) CreateEdge(v1, v2 *Vertex) *Edge {
	e := &Edge{id: g.nextEdgeID, v1: v1, v2: v2}
	g.nextEdgeID++
	v1.addEdge(e)
	v2.addEdge(e)
	g.edges = append(g.edges, e)
	return e
}

// removeEdge unlinks e from its endpoints and drops it from the arena. It is
// only safe to call once e is no longer referenced by any polygon.
func (g *Graph) removeEdge(e *Edge) {
	e.v1.removeEdge(e)
	e.v2.removeEdge(e)
	for i, ge := range g.edges {
		if ge == e {
			g.edges = append(g.edges[:i], g.edges[i+1:]...)
			break
		}
	}
}

// CreateTriangle creates a 3-edge polygon from three edges that must form a
// closed loop (each pair of consecutive edges, in some rotation, shares an
// endpoint). Vertex order and left/right assignment are derived from the
// edges themselves.
func (g *Graph) CreateTriangle(e0, e1, e2 *Edge) *Polygon {
	return g.CreatePolygon([]*Edge{e0, e1, e2})
}

// CreatePolygon creates an n-edge polygon from an ordered, closed loop of
// edges (edges[i] and edges[i+1 mod n] must share an endpoint). It computes
// the polygon's vertex order from the edge loop and assigns each edge's
// left/right slot according to whether the edge's own v1->v2 direction
// agrees with the loop's traversal direction.
func (g *Graph) CreatePolygon(edges []*Edge) *Polygon {
	n := len(edges)
	if n < 3 {
		panic("plc: polygon must have at least 3 edges")
	}
	p := &Polygon{id: g.nextPolygonID, edges: append([]*Edge(nil), edges...)}
	g.nextPolygonID++

	vertices := make([]*Vertex, n)
	// Find the shared vertex between edges[n-1] and edges[0] to seed
	// traversal, then walk forward.
	first := sharedVertex(edges[n-1], edges[0])
	vertices[0] = first
	cur := first
	for i := 0; i < n; i++ {
		e := edges[i]
		next := e.Other(cur)
		if i+1 < n {
			vertices[i+1] = next
		}
		// The polygon sits on e's right when traversal agrees with e's
		// own v1->v2 direction (cur == e.v1), left otherwise.
		e.setSide(p, cur != e.v1)
		cur = next
	}
	p.vertices = vertices

	g.polygons = append(g.polygons, p)
	return p
}

// sharedVertex returns the vertex common to a and b. Panics if they do not
// share exactly one endpoint, which indicates a malformed edge loop.
func sharedVertex(a, b *Edge) *Vertex {
	switch {
	case a.v1 == b.v1 || a.v1 == b.v2:
		return a.v1
	case a.v2 == b.v1 || a.v2 == b.v2:
		return a.v2
	default:
		panic("plc: edges do not share a vertex")
	}
}

// RemovePolygon unlinks p from its edges and removes it from the graph. The
// underlying edges and vertices are left in place; callers that also want
// to reclaim now-unused edges must do so explicitly (the triangulation and
// decomposition algorithms always do).
func (g *Graph) RemovePolygon(p *Polygon) {
	for _, e := range p.edges {
		e.clearSide(p)
	}
	p.removed = true
	for i, gp := range g.polygons {
		if gp == p {
			g.polygons = append(g.polygons[:i], g.polygons[i+1:]...)
			break
		}
	}
}

// Clear destroys all polygons, edges and vertices, resetting the graph to
// empty. The Go GC reclaims the backing arrays once no external references
// remain; there is no explicit free step to mirror.
func (g *Graph) Clear() {
	for _, p := range g.polygons {
		p.removed = true
	}
	g.vertices = nil
	g.edges = nil
	g.polygons = nil
}

// Polygons returns the graph's current polygons. The returned slice is
// owned by the graph; callers must not mutate it.
func (g *Graph) Polygons() []*Polygon { return g.polygons }

// Edges returns every edge currently in the arena (for diagnostics).
func (g *Graph) Edges() []*Edge { return g.edges }

// Vertices returns every vertex currently in the arena (for diagnostics).
func (g *Graph) Vertices() []*Vertex { return g.vertices }

// NumPolygons returns the number of polygons currently in the graph.
func (g *Graph) NumPolygons() int { return len(g.polygons) }

// Bbox returns the bounding box of every vertex that participates in at
// least one edge. Orphaned vertices (created but never linked) are ignored.
func (g *Graph) Bbox() r2.Rect {
	box := r2.EmptyRect()
	for _, v := range g.vertices {
		if len(v.edges) == 0 {
			continue
		}
		box = box.AddPoint(v.position)
	}
	return box
}
