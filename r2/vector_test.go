package r2

import (
	"math"
	"testing"
)

func TestVectorArithmetic(t *testing.T) {
	a := Vector{1, 2}
	b := Vector{3, -1}

	if got, want := a.Add(b), (Vector{4, 1}); got != want {
		t.Errorf("Add() = %v, want %v", got, want)
	}
	if got, want := a.Sub(b), (Vector{-2, 3}); got != want {
		t.Errorf("Sub() = %v, want %v", got, want)
	}
	if got, want := a.Mul(2), (Vector{2, 4}); got != want {
		t.Errorf("Mul() = %v, want %v", got, want)
	}
	if got, want := a.Dot(b), 1.0; got != want {
		t.Errorf("Dot() = %v, want %v", got, want)
	}
	if got, want := a.Cross(b), -7.0; got != want {
		t.Errorf("Cross() = %v, want %v", got, want)
	}
}

func TestVectorNorm(t *testing.T) {
	v := Vector{3, 4}
	if got, want := v.Norm(), 5.0; got != want {
		t.Errorf("Norm() = %v, want %v", got, want)
	}
	if got, want := v.Norm2(), 25.0; got != want {
		t.Errorf("Norm2() = %v, want %v", got, want)
	}
	n := v.Normalize()
	if math.Abs(n.Norm()-1) > 1e-15 {
		t.Errorf("Normalize() norm = %v, want 1", n.Norm())
	}
	if z := (Vector{}).Normalize(); z != (Vector{}) {
		t.Errorf("Normalize() of zero vector = %v, want zero", z)
	}
}

func TestVectorRotate90(t *testing.T) {
	v := Vector{1, 0}
	got := v.Rotate90()
	want := Vector{0, 1}
	if got != want {
		t.Errorf("Rotate90() = %v, want %v", got, want)
	}
	// Rotating twice negates.
	if got := v.Rotate90().Rotate90(); got != v.Neg() {
		t.Errorf("Rotate90().Rotate90() = %v, want %v", got, v.Neg())
	}
}

func TestVectorLess(t *testing.T) {
	cases := []struct {
		a, b Vector
		want bool
	}{
		{Vector{0, 0}, Vector{1, 0}, true},
		{Vector{1, 0}, Vector{0, 0}, false},
		{Vector{0, 0}, Vector{0, 1}, true},
		{Vector{0, 0}, Vector{0, 0}, false},
	}
	for _, c := range cases {
		if got := c.a.Less(c.b); got != c.want {
			t.Errorf("%v.Less(%v) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}
