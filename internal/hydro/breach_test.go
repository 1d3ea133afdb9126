package hydro

import (
	"math"
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"heightfield/internal/core"
	pcore "heightfield/pkg/core"
)

func newTestGrid(t *testing.T, nx, ny int, h []float64) *core.Grid {
	t.Helper()
	g, err := core.NewGrid(nx, ny, mgl64.Vec2{0, 0}, mgl64.Vec2{float64(nx - 1), float64(ny - 1)}, h)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	return g
}

// basin is a 5x5 grid: border at 1, inner ring at 10 and a single 0 in the middle.
func basin(t *testing.T) *core.Grid {
	h := make([]float64, 25)
	for j := 0; j < 5; j++ {
		for i := 0; i < 5; i++ {
			switch {
			case i == 0 || j == 0 || i == 4 || j == 4:
				h[j*5+i] = 1
			case i == 2 && j == 2:
				h[j*5+i] = 0
			default:
				h[j*5+i] = 10
			}
		}
	}
	return newTestGrid(t, 5, 5, h)
}

func randomGrid(t *testing.T, nx, ny int, seed int64) *core.Grid {
	rng := pcore.NewRNG(seed)
	h := make([]float64, nx*ny)
	for i := range h {
		h[i] = rng.Float64() * 100
	}
	return newTestGrid(t, nx, ny, h)
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestBreachSinglePit(t *testing.T) {
	g := basin(t)
	res := Breach(g, DefaultBreachConfig())

	if res.Pits != 1 || res.Raised != 1 {
		t.Fatalf("pits=%d raised=%d, expected 1 and 1", res.Pits, res.Raised)
	}
	if res.Remaining != 0 {
		t.Fatalf("remaining=%d, expected 0", res.Remaining)
	}
	if res.Carved != 2 {
		t.Fatalf("carved=%d, expected 2", res.Carved)
	}
	// 16 edge cells, then the (1,1) ring cell, then the pit.
	if res.Visited != 18 {
		t.Fatalf("visited=%d, expected 18", res.Visited)
	}
	if got := res.Path(12); !slices.Equal(got, []int{12, 6, 0}) {
		t.Fatalf("path from centre got %v, expected [12 6 0]", got)
	}
	if got := g.At(2, 2); !near(got, 10-DefaultEpsilon) {
		t.Fatalf("centre got %v, expected %v", got, 10-DefaultEpsilon)
	}
	if got := g.At(1, 1); !near(got, 10-2*DefaultEpsilon) {
		t.Fatalf("(1,1) got %v, expected %v", got, 10-2*DefaultEpsilon)
	}
	if got := g.At(0, 0); got != 1 {
		t.Fatalf("corner got %v, expected 1", got)
	}
	if got := g.At(3, 3); got != 10 {
		t.Fatalf("untouched ring cell got %v, expected 10", got)
	}
	if g.Min() != 1 || !near(g.Max(), 10) {
		t.Fatalf("min/max got %v/%v, expected 1/10", g.Min(), g.Max())
	}

	path := res.Path(12)
	for k := 1; k < len(path); k++ {
		if g.Cells()[path[k]] >= g.Cells()[path[k-1]] {
			t.Fatalf("path not strictly descending at step %d: %v", k, path)
		}
	}
}

func TestBreachLeavesNoPits(t *testing.T) {
	g := randomGrid(t, 32, 24, 7)
	before := CountPits(g)
	if before == 0 {
		t.Skipf("random grid has no pits to resolve")
	}
	res := Breach(g, DefaultBreachConfig())
	if res.Remaining != 0 {
		t.Fatalf("remaining=%d, expected 0", res.Remaining)
	}
	if got := CountPits(g); got != 0 {
		t.Fatalf("pits after breach got %d, expected 0 (before %d)", got, before)
	}

	// Following the lowest neighbour from any interior cell must reach the edge.
	nx, ny := g.Nx(), g.Ny()
	for j := 1; j < ny-1; j++ {
		for i := 1; i < nx-1; i++ {
			ci, cj := i, j
			for steps := 0; !g.IsBorder(ci, cj); steps++ {
				if steps > nx*ny {
					t.Fatalf("descent from (%d,%d) did not reach the edge", i, j)
				}
				bi, bj, best := ci, cj, g.At(ci, cj)
				for n := 0; n < 8; n++ {
					pi, pj := ci+core.Dx[n], cj+core.Dy[n]
					if v := g.At(pi, pj); v < best {
						bi, bj, best = pi, pj, v
					}
				}
				if bi == ci && bj == cj {
					t.Fatalf("cell (%d,%d) has no lower neighbour", ci, cj)
				}
				ci, cj = bi, bj
			}
		}
	}
}

func TestBreachIsIdempotent(t *testing.T) {
	g := randomGrid(t, 20, 20, 42)
	Breach(g, DefaultBreachConfig())
	snapshot := slices.Clone(g.Cells())

	res := Breach(g, DefaultBreachConfig())
	if res.Pits != 0 || res.Carved != 0 || res.Raised != 0 {
		t.Fatalf("second pass got pits=%d raised=%d carved=%d, expected zeros", res.Pits, res.Raised, res.Carved)
	}
	if !slices.Equal(snapshot, g.Cells()) {
		t.Fatalf("second pass modified elevations")
	}
}

func TestBreachNoPitsIsNoop(t *testing.T) {
	h := make([]float64, 6*4)
	for j := 0; j < 4; j++ {
		for i := 0; i < 6; i++ {
			h[j*6+i] = float64(i)
		}
	}
	g := newTestGrid(t, 6, 4, h)
	res := Breach(g, DefaultBreachConfig())
	if res.Pits != 0 || res.Visited != 0 {
		t.Fatalf("got pits=%d visited=%d, expected 0 and 0", res.Pits, res.Visited)
	}
	if !slices.Equal(h, g.Cells()) {
		t.Fatalf("ramp modified by breach")
	}
}

func TestBreachFlatGrid(t *testing.T) {
	g, err := core.NewFilledGrid(6, 5, mgl64.Vec2{0, 0}, mgl64.Vec2{1, 1}, 5)
	if err != nil {
		t.Fatalf("NewFilledGrid: %v", err)
	}
	res := Breach(g, DefaultBreachConfig())
	if res.Pits != 4*3 {
		t.Fatalf("pits got %d, expected %d", res.Pits, 4*3)
	}
	if res.Raised != 0 {
		t.Fatalf("raised got %d, expected 0", res.Raised)
	}
	if res.Remaining != 0 {
		t.Fatalf("remaining got %d, expected 0", res.Remaining)
	}
	if got := CountPits(g); got != 0 {
		t.Fatalf("pits after breach got %d, expected 0", got)
	}
}

func TestFillDepressions(t *testing.T) {
	g := randomGrid(t, 16, 16, 3)
	orig := slices.Clone(g.Cells())
	cfg := DefaultBreachConfig()
	cfg.Mode = FillDepressions
	res := Breach(g, cfg)
	if res.Pits == 0 {
		t.Skipf("random grid has no pits to resolve")
	}

	h := g.Cells()
	for idx, v := range h {
		if v < orig[idx] {
			t.Fatalf("fill lowered cell %d: got %v, expected >= %v", idx, v, orig[idx])
		}
		i, j := g.Coords(idx)
		if g.IsBorder(i, j) {
			if res.BackLinks[idx] != NoBackLink {
				t.Fatalf("edge cell %d has back-link %d", idx, res.BackLinks[idx])
			}
			continue
		}
		parent := res.BackLinks[idx]
		if parent == NoBackLink {
			t.Fatalf("interior cell %d was never reached", idx)
		}
		if v <= h[parent] {
			t.Fatalf("cell %d got %v, expected above parent %v", idx, v, h[parent])
		}
	}
	if got := CountPits(g); got != 0 {
		t.Fatalf("pits after fill got %d, expected 0", got)
	}
}

func TestBreachCustomEpsilon(t *testing.T) {
	g := basin(t)
	Breach(g, BreachConfig{Epsilon: 0.5})
	if got := g.At(2, 2); got != 9.5 {
		t.Fatalf("centre got %v, expected 9.5", got)
	}
	if got := g.At(1, 1); got != 9 {
		t.Fatalf("(1,1) got %v, expected 9", got)
	}
}

func TestBreachEpsilonBelowPrecision(t *testing.T) {
	// At this magnitude subtracting the default epsilon is a no-op.
	const big = 1e12
	g := basin(t)
	h := g.Cells()
	for idx, v := range h {
		h[idx] = big + v*1000
	}
	g.UpdateMinMax()

	res := Breach(g, DefaultBreachConfig())
	if res.Remaining != 0 {
		t.Fatalf("remaining got %d, expected 0", res.Remaining)
	}
}

func TestParseBreachMode(t *testing.T) {
	cases := map[string]BreachMode{"breach": CompleteBreaching, "complete": CompleteBreaching, "fill": FillDepressions}
	for in, want := range cases {
		got, ok := ParseBreachMode(in)
		if !ok || got != want {
			t.Fatalf("ParseBreachMode(%q) got %v/%v, expected %v", in, got, ok, want)
		}
		if in != "complete" && got.String() != in {
			t.Fatalf("String() got %q, expected %q", got.String(), in)
		}
	}
	if _, ok := ParseBreachMode("drain"); ok {
		t.Fatalf("ParseBreachMode accepted an unknown mode")
	}
}
