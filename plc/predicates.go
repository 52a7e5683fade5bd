package plc

import (
	"math"

	"github.com/gridfold/plc/r2"
)

// Epsilon is the base tolerance for "on the line" / "inside circle"
// decisions, scaled by operand magnitude at each call site. This mirrors
// the centralized-predicate-module policy described in SPEC_FULL.md §9: one
// constant, one scaling rule, used everywhere a geometric decision is made.
const Epsilon = 1e-10

// scaledEpsilon returns the tolerance to use when comparing quantities of
// the given magnitudes, matching the source's max(1, |a|+|b|) * epsilon
// scaling rule.
func scaledEpsilon(magnitudes ...float64) float64 {
	sum := 0.0
	for _, m := range magnitudes {
		sum += math.Abs(m)
	}
	return math.Max(1, sum) * Epsilon
}

// IsEqual reports whether a and b are equal within a scaled per-axis
// tolerance.
func IsEqual(a, b r2.Vector) bool {
	return math.Abs(a.X-b.X) <= scaledEpsilon(a.X, b.X) &&
		math.Abs(a.Y-b.Y) <= scaledEpsilon(a.Y, b.Y)
}

// Side is the result of SideOf: which side of a directed edge a point falls
// on.
type Side int

const (
	Left Side = -1
	On   Side = 0
	Right Side = 1
)

// SideOf returns the side of the directed segment v1->v2 that p falls on.
// The sign convention follows the original source rather than the standard
// signed-area convention: the cross product of (v2-v1) and (p-v1) is
// negative for Left, zero for On, positive for Right.
func SideOf(v1, v2, p r2.Vector) Side {
	cross := v2.Sub(v1).Cross(p.Sub(v1))
	eps := scaledEpsilon(v1.X, v1.Y, v2.X, v2.Y, p.X, p.Y) * v2.Sub(v1).Norm()
	switch {
	case cross < -eps:
		return Left
	case cross > eps:
		return Right
	default:
		return On
	}
}

// EdgeSideOf is SideOf specialized to an Edge's own v1/v2, for convenience
// at call sites that already have an *Edge.
func EdgeSideOf(e *Edge, p r2.Vector) Side {
	return SideOf(e.v1.position, e.v2.position, p)
}

// PointOn reports whether p lies strictly between e's endpoints (endpoints
// themselves do not count).
func PointOn(e *Edge, p r2.Vector) bool {
	if EdgeSideOf(e, p) != On {
		return false
	}
	a, b := e.v1.position, e.v2.position
	if IsEqual(p, a) || IsEqual(p, b) {
		return false
	}
	// p is already known collinear with a, b; check it falls within the
	// bounding segment on whichever axis varies more, to stay numerically
	// stable for near-vertical or near-horizontal edges.
	if math.Abs(b.X-a.X) >= math.Abs(b.Y-a.Y) {
		lo, hi := a.X, b.X
		if lo > hi {
			lo, hi = hi, lo
		}
		return p.X > lo-scaledEpsilon(lo, hi) && p.X < hi+scaledEpsilon(lo, hi)
	}
	lo, hi := a.Y, b.Y
	if lo > hi {
		lo, hi = hi, lo
	}
	return p.Y > lo-scaledEpsilon(lo, hi) && p.Y < hi+scaledEpsilon(lo, hi)
}

// segmentsCross implements the shared logic of Crosses/CrossesIncluding:
// four orientation tests on the pairings of (a1,a2) against (b1,b2).
// includeTouching controls whether a shared endpoint or an endpoint lying
// on the other segment counts as a crossing.
func segmentsCross(a1, a2, b1, b2 r2.Vector, includeTouching bool) bool {
	d1 := SideOf(b1, b2, a1)
	d2 := SideOf(b1, b2, a2)
	d3 := SideOf(a1, a2, b1)
	d4 := SideOf(a1, a2, b2)

	if ((d1 == Left && d2 == Right) || (d1 == Right && d2 == Left)) &&
		((d3 == Left && d4 == Right) || (d3 == Right && d4 == Left)) {
		return true
	}
	if !includeTouching {
		return false
	}
	if d1 == On && onSegment(b1, b2, a1) {
		return true
	}
	if d2 == On && onSegment(b1, b2, a2) {
		return true
	}
	if d3 == On && onSegment(a1, a2, b1) {
		return true
	}
	if d4 == On && onSegment(a1, a2, b2) {
		return true
	}
	return false
}

// onSegment reports whether p, already known collinear with a-b, lies
// within the closed bounding box of a and b.
func onSegment(a, b, p r2.Vector) bool {
	eps := scaledEpsilon(a.X, a.Y, b.X, b.Y)
	return p.X >= math.Min(a.X, b.X)-eps && p.X <= math.Max(a.X, b.X)+eps &&
		p.Y >= math.Min(a.Y, b.Y)-eps && p.Y <= math.Max(a.Y, b.Y)+eps
}

// Crosses reports whether the interiors of edges a and b share a point that
// is an endpoint of neither.
func Crosses(a, b *Edge) bool {
	return segmentsCross(a.v1.position, a.v2.position, b.v1.position, b.v2.position, false)
}

// CrossesIncluding is Crosses, except that a shared endpoint also counts as
// crossing.
func CrossesIncluding(a, b *Edge) bool {
	return segmentsCross(a.v1.position, a.v2.position, b.v1.position, b.v2.position, true)
}

// IntersectionPoint returns the point where edges a and b cross. Callers
// must only call this once Crosses(a, b) (or CrossesIncluding) has already
// confirmed they do.
func IntersectionPoint(a, b *Edge) r2.Vector {
	p, r := a.v1.position, a.direction()
	q, s := b.v1.position, b.direction()
	rxs := r.Cross(s)
	t := q.Sub(p).Cross(s) / rxs
	return p.Add(r.Mul(t))
}

// Circumcircle computes the circumcenter and radius of the triangle (a, b,
// c). ok is false if the three points are collinear (degenerate triangle).
func Circumcircle(a, b, c r2.Vector) (center r2.Vector, radius float64, ok bool) {
	d := 2 * (a.X*(b.Y-c.Y) + b.X*(c.Y-a.Y) + c.X*(a.Y-b.Y))
	if math.Abs(d) < scaledEpsilon(a.X, a.Y, b.X, b.Y, c.X, c.Y) {
		return r2.Vector{}, 0, false
	}
	a2, b2, c2 := a.Norm2(), b.Norm2(), c.Norm2()
	ux := (a2*(b.Y-c.Y) + b2*(c.Y-a.Y) + c2*(a.Y-b.Y)) / d
	uy := (a2*(c.X-b.X) + b2*(a.X-c.X) + c2*(b.X-a.X)) / d
	center = r2.Vector{X: ux, Y: uy}
	radius = center.Sub(a).Norm()
	return center, radius, true
}

// InCircle reports whether p is strictly inside (+1), on (0), or strictly
// outside (-1) the circle with the given center and radius, using a scaled
// epsilon on the squared-distance comparison.
func InCircle(p, center r2.Vector, radius float64) int {
	d2 := p.Sub(center).Norm2()
	r2v := radius * radius
	eps := scaledEpsilon(d2, r2v)
	switch {
	case d2 < r2v-eps:
		return 1
	case d2 > r2v+eps:
		return -1
	default:
		return 0
	}
}
