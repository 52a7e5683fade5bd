package r2

import (
	geor1 "github.com/golang/geo/r1"
	geor2 "github.com/golang/geo/r2"
)

// ToGeoPoint converts v to the golang/geo r2.Point representation, for
// callers that feed this engine's output into golang/geo-based spatial
// indexing or further hull/region computations.
func (v Vector) ToGeoPoint() geor2.Point { return geor2.Point{X: v.X, Y: v.Y} }

// VectorFromGeoPoint converts a golang/geo r2.Point into our Vector.
func VectorFromGeoPoint(p geor2.Point) Vector { return Vector{X: p.X, Y: p.Y} }

// ToGeoIntervals decomposes r into its axis-aligned golang/geo r1.Interval
// projections.
func (r Rect) ToGeoIntervals() (x, y geor1.Interval) {
	return geor1.Interval{Lo: r.X.Lo, Hi: r.X.Hi}, geor1.Interval{Lo: r.Y.Lo, Hi: r.Y.Hi}
}

// RectFromGeoIntervals builds a Rect from a pair of golang/geo r1.Intervals.
func RectFromGeoIntervals(x, y geor1.Interval) Rect {
	return Rect{X: Interval{Lo: x.Lo, Hi: x.Hi}, Y: Interval{Lo: y.Lo, Hi: y.Hi}}
}
