package orbit

import (
	"math"
	"testing"
)

func TestPositionAddSub(t *testing.T) {
	a := Position{X: 3, Y: -2}
	b := Position{X: -1, Y: 5}

	if got, want := a.Add(b), (Position{X: 2, Y: 3}); got != want {
		t.Fatalf("Add = %+v, want %+v", got, want)
	}
	if got, want := a.Sub(b), (Position{X: 4, Y: -7}); got != want {
		t.Fatalf("Sub = %+v, want %+v", got, want)
	}

	// Value semantics: operands are untouched.
	if a != (Position{X: 3, Y: -2}) || b != (Position{X: -1, Y: 5}) {
		t.Fatalf("operands mutated: a=%+v b=%+v", a, b)
	}
}

func TestPositionDistanceTo(t *testing.T) {
	a := Position{X: 0, Y: 0}
	b := Position{X: 3, Y: 4}
	if got := a.DistanceTo(b); got != 5 {
		t.Fatalf("DistanceTo = %v, want 5", got)
	}
	if got := b.DistanceTo(b); got != 0 {
		t.Fatalf("DistanceTo self = %v, want 0", got)
	}
}

func TestAngleConversions(t *testing.T) {
	cases := []struct {
		degrees float64
		radians float64
	}{
		{0, 0},
		{90, math.Pi / 2},
		{180, math.Pi},
		{-45, -math.Pi / 4},
		{360, 2 * math.Pi},
	}
	for _, tc := range cases {
		if got := Radians(tc.degrees); math.Abs(got-tc.radians) > 1e-12 {
			t.Fatalf("Radians(%v) = %v, want %v", tc.degrees, got, tc.radians)
		}
		if got := Degrees(tc.radians); math.Abs(got-tc.degrees) > 1e-12 {
			t.Fatalf("Degrees(%v) = %v, want %v", tc.radians, got, tc.degrees)
		}
	}

	const deg = 123.456
	if got := Degrees(Radians(deg)); math.Abs(got-deg) > 1e-12 {
		t.Fatalf("round trip = %v, want %v", got, deg)
	}
}
