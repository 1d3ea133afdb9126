package core

import (
	"math"
	"testing"
)

func TestRNGDeterministic(t *testing.T) {
	a, b := NewRNG(7), NewRNG(7)
	for i := 0; i < 16; i++ {
		if x, y := a.Float64(), b.Float64(); x != y {
			t.Fatalf("draw %d differs: %v vs %v", i, x, y)
		}
	}
	if got := a.IntN(0); got != 0 {
		t.Fatalf("IntN(0) got %d, expected 0", got)
	}
}

func TestHemisphere(t *testing.T) {
	r := NewRNG(3)
	for i := 0; i < 256; i++ {
		x, y, z := r.Hemisphere()
		if y < 0 {
			t.Fatalf("sample %d below the horizon: y=%v", i, y)
		}
		if l := math.Sqrt(x*x + y*y + z*z); math.Abs(l-1) > 1e-9 {
			t.Fatalf("sample %d length got %v, expected 1", i, l)
		}
	}
}
