package core

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func ramp(t *testing.T, nx, ny int, step float64) *Grid {
	h := make([]float64, nx*ny)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			h[j*nx+i] = step * float64(i)
		}
	}
	return mustGrid(t, nx, ny, h)
}

func TestHeightOutOfRange(t *testing.T) {
	g, _ := NewFilledGrid(3, 3, mgl64.Vec2{}, mgl64.Vec2{1, 1}, 5)
	for _, c := range [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 3}} {
		if got := g.Height(c[0], c[1]); got != 0 {
			t.Fatalf("Height(%d,%d) got %v, expected 0", c[0], c[1], got)
		}
	}
	if got := g.Height(2, 2); got != 5 {
		t.Fatalf("Height(2,2) got %v, expected 5", got)
	}
}

func TestSampleBilinear(t *testing.T) {
	g := mustGrid(t, 2, 2, []float64{0, 1, 2, 3})
	if got := g.Sample(1, 1); got != 3 {
		t.Fatalf("Sample at a corner got %v, expected 3", got)
	}
	if got := g.Sample(0.5, 0.5); got != 1.5 {
		t.Fatalf("Sample at the centre got %v, expected 1.5", got)
	}
	if got := g.Sample(0.25, 0); got != 0.25 {
		t.Fatalf("Sample along x got %v, expected 0.25", got)
	}
}

func TestHeightAtWorld(t *testing.T) {
	h := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8}
	g, err := NewGrid(3, 3, mgl64.Vec2{10, 20}, mgl64.Vec2{12, 22}, h)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	if got := g.HeightAt(11, 21); got != 4 {
		t.Fatalf("HeightAt(11,21) got %v, expected 4", got)
	}
	if got := g.HeightAt(10.5, 20); got != 0.5 {
		t.Fatalf("HeightAt(10.5,20) got %v, expected 0.5", got)
	}
}

func TestConstantGridIsFlat(t *testing.T) {
	g, _ := NewFilledGrid(4, 4, mgl64.Vec2{}, mgl64.Vec2{1, 1}, 7)
	for j := 0; j < 4; j++ {
		for i := 0; i < 4; i++ {
			if grad := g.Gradient(i, j); grad != (mgl64.Vec2{}) {
				t.Fatalf("gradient at (%d,%d) got %v, expected zero", i, j, grad)
			}
			if l := g.Laplacian(i, j); l != 0 {
				t.Fatalf("laplacian at (%d,%d) got %v, expected 0", i, j, l)
			}
			if n := g.Normal(i, j); n != (mgl64.Vec3{0, 1, 0}) {
				t.Fatalf("normal at (%d,%d) got %v, expected up", i, j, n)
			}
		}
	}
}

func TestRampGradient(t *testing.T) {
	g := ramp(t, 5, 4, 2)
	if got := g.Gradient(2, 1).X(); got != 2 {
		t.Fatalf("interior gradient got %v, expected 2", got)
	}
	// One-sided differences keep the 0.5 factor.
	if got := g.Gradient(0, 1).X(); got != 1 {
		t.Fatalf("west border gradient got %v, expected 1", got)
	}
	if got := g.Gradient(4, 1).X(); got != 1 {
		t.Fatalf("east border gradient got %v, expected 1", got)
	}
	if got := g.Laplacian(2, 1); got != 0 {
		t.Fatalf("ramp laplacian got %v, expected 0", got)
	}
	if got, want := g.GradientAt(2, 1), g.Gradient(2, 1); got != want {
		t.Fatalf("GradientAt(2,1) got %v, expected %v", got, want)
	}
	if got := g.SlopeAt(2.5, 1.5); got != 2 {
		t.Fatalf("SlopeAt got %v, expected 2", got)
	}
	n := g.Normal(2, 1)
	want := mgl64.Vec3{-2, 1, 0}.Normalize()
	if !n.ApproxEqual(want) {
		t.Fatalf("normal got %v, expected %v", n, want)
	}
}

func TestLaplacianParabola(t *testing.T) {
	h := make([]float64, 5*5)
	for j := 0; j < 5; j++ {
		for i := 0; i < 5; i++ {
			h[j*5+i] = float64(i*i + j*j)
		}
	}
	g := mustGrid(t, 5, 5, h)
	for j := 0; j < 5; j++ {
		for i := 0; i < 5; i++ {
			if got := g.Laplacian(i, j); got != 4 {
				t.Fatalf("laplacian at (%d,%d) got %v, expected 4", i, j, got)
			}
		}
	}
	if got := g.LaplacianAt(2, 2); got != 4 {
		t.Fatalf("LaplacianAt(2,2) got %v, expected 4", got)
	}
}

func TestAverageSlope(t *testing.T) {
	g := ramp(t, 5, 5, 2)
	// Corner: itself plus three neighbours, slopes 1, 2, 2, 1.
	if got := g.AverageSlope(0, 0); got != 1.5 {
		t.Fatalf("corner average slope got %v, expected 1.5", got)
	}
	if got := g.AverageSlope(2, 2); got != 2 {
		t.Fatalf("interior average slope got %v, expected 2", got)
	}
	if got := g.AverageSlopeAt(2, 2); math.Abs(got-2) > 1e-12 {
		t.Fatalf("AverageSlopeAt(2,2) got %v, expected 2", got)
	}
}
