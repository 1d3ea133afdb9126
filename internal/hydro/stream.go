package hydro

import (
	"cmp"
	"math"
	"slices"

	"heightfield/internal/core"
)

// DrainOrder returns every flat index of g sorted from the highest sample to
// the lowest. Equal elevations are ordered by descending index.
func DrainOrder(g *core.Grid) []int {
	h := g.Cells()
	order := make([]int, len(h))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int {
		if c := cmp.Compare(h[b], h[a]); c != 0 {
			return c
		}
		return cmp.Compare(b, a)
	})
	return order
}

// FlowDirection returns the 8-connected step (u, v) water takes out of
// (i, j): the negated gradient rounded per axis and clamped to {-1, 0, 1}.
// (0, 0) means the cell does not pass flow on.
func FlowDirection(g *core.Grid, i, j int) (int, int) {
	grad := g.Gradient(i, j)
	return roundStep(-grad.X()), roundStep(-grad.Y())
}

func roundStep(v float64) int {
	r := math.Round(v)
	switch {
	case r > 1:
		return 1
	case r < -1:
		return -1
	}
	return int(r)
}

// StreamArea approximates the upstream contributing area of every cell.
//
// Each cell starts with one unit. Cells are visited from high to low and
// hand their accumulated area to the FlowDirection neighbour, divided by
// sqrt(|u|+|v|) so diagonal steps pass on less. The result has the same
// dimensions and extent as g and every value is at least 1.
func StreamArea(g *core.Grid) *core.Grid {
	nx, ny := g.Nx(), g.Ny()
	area, _ := core.NewFilledGrid(nx, ny, g.A(), g.B(), 1)
	acc := area.Cells()
	for _, idx := range DrainOrder(g) {
		i, j := g.Coords(idx)
		u, v := FlowDirection(g, i, j)
		if u == 0 && v == 0 {
			continue
		}
		ti, tj := i+u, j+v
		if !g.InBounds(ti, tj) {
			continue
		}
		d := math.Sqrt(float64(abs(u) + abs(v)))
		acc[tj*nx+ti] += acc[idx] / d
	}
	area.UpdateMinMax()
	return area
}

// StreamCells marks the cells whose accumulated area exceeds threshold.
func StreamCells(area *core.Grid, threshold float64) []bool {
	mask := make([]bool, len(area.Cells()))
	for i, a := range area.Cells() {
		mask[i] = a > threshold
	}
	return mask
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
