package hydro

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"heightfield/internal/core"
)

func ramp(t *testing.T, nx, ny int, step float64) *core.Grid {
	h := make([]float64, nx*ny)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			h[j*nx+i] = step * float64(i)
		}
	}
	return newTestGrid(t, nx, ny, h)
}

func TestStreamAreaAtLeastOne(t *testing.T) {
	g := randomGrid(t, 24, 24, 11)
	area := StreamArea(g)
	if area.Nx() != g.Nx() || area.Ny() != g.Ny() {
		t.Fatalf("area size got %dx%d, expected %dx%d", area.Nx(), area.Ny(), g.Nx(), g.Ny())
	}
	for idx, a := range area.Cells() {
		if a < 1 {
			t.Fatalf("cell %d area got %v, expected >= 1", idx, a)
		}
	}
	if area.Min() < 1 {
		t.Fatalf("cached min got %v, expected >= 1", area.Min())
	}
}

func TestStreamAreaRamp(t *testing.T) {
	const nx, ny = 5, 4
	g := ramp(t, nx, ny, 3)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			u, v := FlowDirection(g, i, j)
			if u != -1 || v != 0 {
				t.Fatalf("flow at (%d,%d) got (%d,%d), expected (-1,0)", i, j, u, v)
			}
		}
	}

	area := StreamArea(g)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			if got, want := area.At(i, j), float64(nx-i); got != want {
				t.Fatalf("area at (%d,%d) got %v, expected %v", i, j, got, want)
			}
		}
	}
}

func TestStreamAreaDiagonal(t *testing.T) {
	const n = 4
	h := make([]float64, n*n)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			h[j*n+i] = 3 * float64(i+j)
		}
	}
	g := newTestGrid(t, n, n, h)
	if u, v := FlowDirection(g, 2, 2); u != -1 || v != -1 {
		t.Fatalf("flow got (%d,%d), expected (-1,-1)", u, v)
	}
	area := StreamArea(g)
	// (3,3) drains into (2,2) which drains into (1,1).
	want := 1 + (1+1/math.Sqrt2)/math.Sqrt2
	if got := area.At(1, 1); math.Abs(got-want) > 1e-12 {
		t.Fatalf("area at (1,1) got %v, expected %v", got, want)
	}
}

func TestStreamAreaFlat(t *testing.T) {
	g, _ := core.NewFilledGrid(8, 8, mgl64.Vec2{0, 0}, mgl64.Vec2{1, 1}, 2)
	area := StreamArea(g)
	for idx, a := range area.Cells() {
		if a != 1 {
			t.Fatalf("cell %d area got %v, expected 1", idx, a)
		}
	}
}

func TestFlowDirectionClamps(t *testing.T) {
	g := ramp(t, 6, 3, 40)
	if u, v := FlowDirection(g, 3, 1); u != -1 || v != 0 {
		t.Fatalf("steep ramp got (%d,%d), expected (-1,0)", u, v)
	}
	shallow := ramp(t, 6, 3, 0.4)
	if u, v := FlowDirection(shallow, 3, 1); u != 0 || v != 0 {
		t.Fatalf("shallow ramp got (%d,%d), expected (0,0)", u, v)
	}
}

func TestDrainOrder(t *testing.T) {
	g := newTestGrid(t, 2, 2, []float64{1, 3, 3, 0})
	got := DrainOrder(g)
	want := []int{2, 1, 0, 3}
	for k := range want {
		if got[k] != want[k] {
			t.Fatalf("drain order got %v, expected %v", got, want)
		}
	}
}

func TestStreamCells(t *testing.T) {
	g := ramp(t, 5, 2, 3)
	mask := StreamCells(StreamArea(g), 3)
	for j := 0; j < 2; j++ {
		for i := 0; i < 5; i++ {
			want := 5-i > 3
			if got := mask[j*5+i]; got != want {
				t.Fatalf("stream at (%d,%d) got %v, expected %v", i, j, got, want)
			}
		}
	}
}
