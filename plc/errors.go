package plc

import "errors"

// Sentinel errors for the fallible public operations. Callers compare with
// errors.Is; the package returns them unwrapped.
var (
	// ErrCollinearInput is returned when a third vertex inserted into an
	// otherwise-empty graph is collinear with the first two, so no initial
	// triangle can be built.
	ErrCollinearInput = errors.New("plc: third vertex is collinear with the first two")

	// ErrDegenerateTriangle names the zero-area triangle condition. No
	// function in this package returns it: Polygon.Circumcircle reports a
	// degenerate triangle through its ok result instead.
	ErrDegenerateTriangle = errors.New("plc: triangle is degenerate (zero area)")

	// ErrOutsideConstrainedGraph is returned by InsertPoint when the point
	// lies outside the convex hull of a graph that has already been
	// constrained.
	ErrOutsideConstrainedGraph = errors.New("plc: cannot insert a point outside the hull of a constrained graph")

	// ErrNotConstrained is returned by operations that require Constrain to
	// have completed first.
	ErrNotConstrained = errors.New("plc: triangulation has not been constrained")

	// ErrEmptyInput is returned when triangulation is attempted with a hull
	// of fewer than three points.
	ErrEmptyInput = errors.New("plc: no input polygon or region supplied")
)
