package plc

import "github.com/gridfold/plc/r2"

// Vertex is a 2D point owned by a Graph's arena. Identity is the pointer
// itself; Go's garbage collector gives that pointer the same "never silently
// reused for a different logical entity" guarantee a generational index
// would otherwise exist to provide (see DESIGN.md).
type Vertex struct {
	id       int64
	position r2.Vector

	// edges lists every edge incident to this vertex, in no particular
	// order. Most vertices are incident to few edges, so a plain slice
	// outperforms any fancier set structure here.
	edges []*Edge

	// precious marks a vertex that refinement must never remove because
	// the caller supplied it as an extra point. Outline vertices are not
	// marked; their incident segments already protect them.
	precious bool

	// ids carries external integer identifiers attached when a vertex is
	// promoted to precious, so callers can recover which input point ended
	// up where in the output.
	ids []int
}

// Position returns the vertex's coordinates.
func (v *Vertex) Position() r2.Vector { return v.position }

// ID returns the vertex's stable arena identifier.
func (v *Vertex) ID() int64 { return v.id }

// Precious reports whether refinement must preserve this vertex.
func (v *Vertex) Precious() bool { return v.precious }

// ExternalIDs returns the external integer identifiers attached to this
// vertex through precious promotion.
func (v *Vertex) ExternalIDs() []int { return v.ids }

// Edges returns the edges incident to this vertex. The returned slice is
// owned by the vertex; callers must not mutate it.
func (v *Vertex) Edges() []*Edge { return v.edges }

// Degree returns the number of edges incident to this vertex.
func (v *Vertex) Degree() int { return len(v.edges) }

// addEdge registers e as incident to v. It is the caller's responsibility
// (Graph.CreateEdge) to call this symmetrically on both endpoints.
func (v *Vertex) addEdge(e *Edge) {
	v.edges = append(v.edges, e)
}

// removeEdge unregisters e from v's incidence list.
func (v *Vertex) removeEdge(e *Edge) {
	for i, ve := range v.edges {
		if ve == e {
			v.edges = append(v.edges[:i], v.edges[i+1:]...)
			return
		}
	}
}

// edgeTo returns the edge linking v and other, if one exists.
func (v *Vertex) edgeTo(other *Vertex) *Edge {
	for _, e := range v.edges {
		if e.Other(v) == other {
			return e
		}
	}
	return nil
}

// markPrecious promotes v to precious and records id among its external
// identifiers, unless already present.
func (v *Vertex) markPrecious(id int) {
	v.precious = true
	for _, existing := range v.ids {
		if existing == id {
			return
		}
	}
	v.ids = append(v.ids, id)
}
