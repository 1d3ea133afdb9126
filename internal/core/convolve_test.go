package core

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestSmoothConstantGrid(t *testing.T) {
	g, _ := NewFilledGrid(5, 5, mgl64.Vec2{}, mgl64.Vec2{1, 1}, 16)
	g.Smooth()
	for j := 1; j < 4; j++ {
		for i := 1; i < 4; i++ {
			if got := g.At(i, j); math.Abs(got-16) > 1e-12 {
				t.Fatalf("interior (%d,%d) got %v, expected 16", i, j, got)
			}
		}
	}
	// The corner only sees 4+2+2+1 of the 16 weight units.
	if got := g.At(0, 0); math.Abs(got-9) > 1e-12 {
		t.Fatalf("corner got %v, expected 9", got)
	}
	if got := g.At(2, 0); math.Abs(got-12) > 1e-12 {
		t.Fatalf("edge got %v, expected 12", got)
	}
	if math.Abs(g.Min()-9) > 1e-12 {
		t.Fatalf("min not refreshed: got %v", g.Min())
	}
}

func TestGaussUsesFullRadius(t *testing.T) {
	g, _ := NewFilledGrid(7, 7, mgl64.Vec2{}, mgl64.Vec2{1, 1}, 1)
	g.Gauss()
	if got := g.At(3, 3); math.Abs(got-1) > 1e-12 {
		t.Fatalf("centre got %v, expected 1", got)
	}
	if got := g.At(1, 3); got >= 1 {
		t.Fatalf("cell within the radius of the edge got %v, expected < 1", got)
	}
}

func TestBlurSpike(t *testing.T) {
	g, _ := NewFilledGrid(3, 3, mgl64.Vec2{}, mgl64.Vec2{1, 1}, 0)
	g.Set(1, 1, 9)
	g.Blur()
	for _, v := range g.Cells() {
		if math.Abs(v-1) > 1e-12 {
			t.Fatalf("blurred spike got %v, expected 1 everywhere", v)
		}
	}
}

func TestKernelValidation(t *testing.T) {
	if _, err := NewKernel(2, make([]float64, 4)); !errors.Is(err, ErrInvalidKernel) {
		t.Fatalf("even kernel got %v, expected ErrInvalidKernel", err)
	}
	if _, err := NewKernel(3, make([]float64, 8)); !errors.Is(err, ErrInvalidKernel) {
		t.Fatalf("short kernel got %v, expected ErrInvalidKernel", err)
	}
	k, err := NewKernel(3, []float64{0, 1, 0, 1, 4, 1, 0, 1, 0})
	if err != nil {
		t.Fatalf("NewKernel: %v", err)
	}
	if got := k.Normalized().Sum(); math.Abs(got-1) > 1e-12 {
		t.Fatalf("normalized sum got %v, expected 1", got)
	}
	for _, named := range []string{"smooth", "blur", "gauss"} {
		k, ok := KernelByName(named)
		if !ok {
			t.Fatalf("kernel %q missing", named)
		}
		if math.Abs(k.Sum()-1) > 1e-12 {
			t.Fatalf("kernel %q sums to %v, expected 1", named, k.Sum())
		}
	}
}

func TestKernelStages(t *testing.T) {
	names := StageNames()
	for _, want := range []string{"blur", "gauss", "smooth"} {
		found := false
		for _, n := range names {
			found = found || n == want
		}
		if !found {
			t.Fatalf("stage %q not registered in %v", want, names)
		}
	}
	g, _ := NewFilledGrid(4, 4, mgl64.Vec2{}, mgl64.Vec2{1, 1}, 2)
	msg := Stages()["smooth"](map[string]string{"passes": "2"}).Apply(g)
	if !strings.Contains(msg, "x2") {
		t.Fatalf("stage report got %q, expected two passes", msg)
	}
}
