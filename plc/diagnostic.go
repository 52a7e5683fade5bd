package plc

// Diagnostic bit flags set on a triangle by markDiagnostics when a Refine
// pass runs with TriangulationParameters.MarkTriangles.
const (
	DiagSkinny = 1 << iota
	DiagInvalid
	DiagEncroached
)

// DiagnosticLayer groups every polygon sharing one diagnostic bit.
type DiagnosticLayer struct {
	Name     string
	Polygons []*Polygon
}

// Diagnostic buckets every triangle carrying a diagnostic bit into three
// layers: skinny (fails the minimum b ratio), invalid (skinny, or exceeds
// the area bound), and encroached (its circumcircle strictly contains some other
// vertex). A Refine pass with MarkTriangles must have run first; otherwise
// every layer is empty.
func (g *Graph) Diagnostic() [3]DiagnosticLayer {
	layers := [3]DiagnosticLayer{
		{Name: "skinny"},
		{Name: "invalid"},
		{Name: "encroached"},
	}
	for _, p := range g.polygons {
		if p.diagnosticBits&DiagSkinny != 0 {
			layers[0].Polygons = append(layers[0].Polygons, p)
		}
		if p.diagnosticBits&DiagInvalid != 0 {
			layers[1].Polygons = append(layers[1].Polygons, p)
		}
		if p.diagnosticBits&DiagEncroached != 0 {
			layers[2].Polygons = append(layers[2].Polygons, p)
		}
	}
	return layers
}

// markDiagnostics computes and stores each triangle's diagnostic bits.
func (t *Triangulation) markDiagnostics(params TriangulationParameters) {
	g := t.graph
	for _, p := range g.polygons {
		if !p.IsTriangle() {
			p.diagnosticBits = 0
			continue
		}
		bits := 0
		if isSkinny(p, params.MinB) {
			bits |= DiagSkinny
		}
		if isSkinny(p, params.MinB) || isInvalidTriangle(p, params) {
			bits |= DiagInvalid
		}
		if center, radius, ok := p.Circumcircle(); ok {
			for _, v := range g.vertices {
				if containsVertex(p, v) {
					continue
				}
				if InCircle(v.position, center, radius) > 0 {
					bits |= DiagEncroached
					break
				}
			}
		}
		p.diagnosticBits = bits
	}
}
