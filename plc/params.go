package plc

import "math"

// TriangulationParameters controls Triangulate's refinement pass. The zero
// value is not the default configuration; use NewTriangulationParameters.
type TriangulationParameters struct {
	// MinB is the minimum shortest-edge/circumradius ratio; 0 disables the
	// skinny-triangle criterion.
	MinB float64
	// MinLength is the minimum edge length refinement will split down to.
	MinLength float64
	// MaxArea is the maximum triangle area; 0 disables the area criterion.
	MaxArea float64
	// MaxAreaBorder is the maximum area for triangles touching a segment;
	// 0 means "use MaxArea".
	MaxAreaBorder float64
	// MaxIterations bounds the refinement loop.
	MaxIterations int
	// BaseVerbosity is the log-level floor for progress messages.
	BaseVerbosity int
	// MarkTriangles, if true, sets each triangle's diagnostic bits after
	// refinement (see Graph.Diagnostic).
	MarkTriangles bool
	// RemoveOutsideTriangles controls whether outside-hull triangles are
	// dropped at the end of Triangulate.
	RemoveOutsideTriangles bool
}

// NewTriangulationParameters returns the documented defaults: MinB=1.0,
// MinLength=0, MaxArea=0, MaxAreaBorder=0, MaxIterations unbounded,
// BaseVerbosity=30, MarkTriangles=false, RemoveOutsideTriangles=true.
func NewTriangulationParameters(opts ...TriangulationOption) TriangulationParameters {
	p := TriangulationParameters{
		MinB:                   1.0,
		MinLength:              0,
		MaxArea:                0,
		MaxAreaBorder:          0,
		MaxIterations:          math.MaxInt32,
		BaseVerbosity:          30,
		MarkTriangles:          false,
		RemoveOutsideTriangles: true,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// TriangulationOption overrides one field of TriangulationParameters on top
// of the documented defaults.
type TriangulationOption func(*TriangulationParameters)

func WithMinB(b float64) TriangulationOption {
	return func(p *TriangulationParameters) { p.MinB = b }
}

func WithMaxArea(area float64) TriangulationOption {
	return func(p *TriangulationParameters) { p.MaxArea = area }
}

func WithMaxAreaBorder(area float64) TriangulationOption {
	return func(p *TriangulationParameters) { p.MaxAreaBorder = area }
}

func WithMinLength(length float64) TriangulationOption {
	return func(p *TriangulationParameters) { p.MinLength = length }
}

func WithMaxIterations(n int) TriangulationOption {
	return func(p *TriangulationParameters) { p.MaxIterations = n }
}

func WithMarkTriangles(mark bool) TriangulationOption {
	return func(p *TriangulationParameters) { p.MarkTriangles = mark }
}

func WithRemoveOutsideTriangles(remove bool) TriangulationOption {
	return func(p *TriangulationParameters) { p.RemoveOutsideTriangles = remove }
}

// effectiveMaxAreaBorder returns MaxAreaBorder, falling back to MaxArea when
// MaxAreaBorder is 0 ("use MaxArea").
func (p TriangulationParameters) effectiveMaxAreaBorder() float64 {
	if p.MaxAreaBorder == 0 {
		return p.MaxArea
	}
	return p.MaxAreaBorder
}

// ConvexDecompositionParameters controls ConvexDecomposition.Decompose.
type ConvexDecompositionParameters struct {
	// TriParam is the nested triangulation configuration. Decompose always
	// forces TriParam.RemoveOutsideTriangles = false, overriding whatever
	// this field holds, since outside triangles carry hull structure the
	// decomposition walk needs.
	TriParam TriangulationParameters
	// WithSegments inserts, before essential-edge labeling, a vertex where
	// each ray perpendicular to a concave corner's segments first meets
	// another segment. The cut from the corner to that vertex is not itself
	// made a segment.
	WithSegments bool
	// SplitEdges relaxes the essential-edge convexity threshold, expecting
	// WithSegments cuts to resolve the residual reflex exactly.
	SplitEdges bool
	// BaseVerbosity is the log-level floor for progress messages. The
	// decomposition itself emits none, so this field has no effect;
	// refinement logs according to TriParam.BaseVerbosity.
	BaseVerbosity int
}

// NewConvexDecompositionParameters returns the documented defaults:
// WithSegments=false, SplitEdges=false, and TriParam from
// NewTriangulationParameters with RemoveOutsideTriangles forced false.
func NewConvexDecompositionParameters(opts ...ConvexDecompositionOption) ConvexDecompositionParameters {
	p := ConvexDecompositionParameters{
		TriParam:      NewTriangulationParameters(),
		WithSegments:  false,
		SplitEdges:    false,
		BaseVerbosity: 30,
	}
	p.TriParam.RemoveOutsideTriangles = false
	for _, opt := range opts {
		opt(&p)
	}
	p.TriParam.RemoveOutsideTriangles = false
	return p
}

// ConvexDecompositionOption overrides one field of
// ConvexDecompositionParameters on top of the documented defaults.
type ConvexDecompositionOption func(*ConvexDecompositionParameters)

func WithSegments(enabled bool) ConvexDecompositionOption {
	return func(p *ConvexDecompositionParameters) { p.WithSegments = enabled }
}

func WithSplitEdges(enabled bool) ConvexDecompositionOption {
	return func(p *ConvexDecompositionParameters) { p.SplitEdges = enabled }
}

func WithTriangulationParameters(tp TriangulationParameters) ConvexDecompositionOption {
	return func(p *ConvexDecompositionParameters) { p.TriParam = tp }
}
