package r2

import "testing"

func TestRectAddPoint(t *testing.T) {
	r := EmptyRect()
	if !r.IsEmpty() {
		t.Fatalf("EmptyRect() is not empty")
	}
	r = r.AddPoint(Vector{1, 2}).AddPoint(Vector{-1, 5})
	if r.IsEmpty() {
		t.Fatalf("rect with points should not be empty")
	}
	if got, want := r.X, (Interval{-1, 1}); got != want {
		t.Errorf("X interval = %v, want %v", got, want)
	}
	if got, want := r.Y, (Interval{2, 5}); got != want {
		t.Errorf("Y interval = %v, want %v", got, want)
	}
}

func TestRectArea(t *testing.T) {
	r := RectFromPoints(Vector{0, 0}, Vector{4, 3})
	if got, want := r.Area(), 12.0; got != want {
		t.Errorf("Area() = %v, want %v", got, want)
	}
	if got := EmptyRect().Area(); got != 0 {
		t.Errorf("Area() of empty rect = %v, want 0", got)
	}
}

func TestRectUnion(t *testing.T) {
	a := RectFromPoints(Vector{0, 0}, Vector{1, 1})
	b := RectFromPoints(Vector{2, 2}, Vector{3, 3})
	u := a.Union(b)
	if got, want := u.X, (Interval{0, 3}); got != want {
		t.Errorf("union X = %v, want %v", got, want)
	}
	if got, want := u.Y, (Interval{0, 3}); got != want {
		t.Errorf("union Y = %v, want %v", got, want)
	}
	if got := a.Union(EmptyRect()); got != a {
		t.Errorf("Union with empty rect changed the rect: %v", got)
	}
}
