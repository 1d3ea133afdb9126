package hydro

import (
	"container/heap"
	"math"

	"heightfield/internal/core"
)

// BreachMode selects how the priority-flood resolves depressions.
type BreachMode int

const (
	// CompleteBreaching carves a descending channel from every pit back to
	// a lower cell or the grid edge.
	CompleteBreaching BreachMode = iota
	// FillDepressions raises every cell just above its flood parent instead
	// of carving.
	FillDepressions
)

func (m BreachMode) String() string {
	switch m {
	case CompleteBreaching:
		return "breach"
	case FillDepressions:
		return "fill"
	}
	return "unknown"
}

// ParseBreachMode resolves "breach" or "fill".
func ParseBreachMode(s string) (BreachMode, bool) {
	switch s {
	case "breach", "complete":
		return CompleteBreaching, true
	case "fill":
		return FillDepressions, true
	}
	return CompleteBreaching, false
}

// NoBackLink marks a cell without a flood parent: edge seeds and cells the
// flood never reached.
const NoBackLink = -1

// DefaultEpsilon is the drop applied per carved cell.
const DefaultEpsilon = 2e-5

type cellState uint8

const (
	cellUnvisited cellState = iota
	cellVisited
	cellEdge
)

// BreachConfig controls a breaching pass.
type BreachConfig struct {
	Mode    BreachMode
	Epsilon float64
}

// DefaultBreachConfig returns complete breaching with the standard epsilon.
func DefaultBreachConfig() BreachConfig {
	return BreachConfig{Mode: CompleteBreaching, Epsilon: DefaultEpsilon}
}

// BreachResult reports what a breaching pass did.
type BreachResult struct {
	// Pits counts the cells flagged as pits or flats during seeding.
	Pits int
	// Raised counts pits lifted to just below their lowest neighbour.
	Raised int
	// Carved counts elevation writes made while tracing channels or filling.
	Carved int
	// Visited counts cells popped from the priority queue.
	Visited int
	// Remaining is the number of pits left unresolved when the flood ended.
	Remaining int

	// PitCells lists the flat indices of the flagged pits in seeding order.
	PitCells []int
	// BackLinks holds the flood parent of every cell, or NoBackLink.
	BackLinks []int
}

// Path follows the back-links from idx to the root of its flood tree. The
// returned slice starts with idx.
func (r BreachResult) Path(idx int) []int {
	var path []int
	for idx != NoBackLink && len(path) <= len(r.BackLinks) {
		path = append(path, idx)
		idx = r.BackLinks[idx]
	}
	return path
}

// Breach removes closed depressions from g in place using a priority-flood
// seeded from the grid edge.
//
// Every interior cell lower than or level with all of its 8 neighbours is a
// pit. Pits strictly below their neighbours are first lifted to
// lowest-neighbour - Epsilon. The flood then visits cells from low to high;
// when a pit is reached the back-link chain behind it is lowered to a
// strictly descending sequence until it meets a cell that is already low
// enough. The flood stops once every pit has been handled.
func Breach(g *core.Grid, cfg BreachConfig) BreachResult {
	eps := cfg.Epsilon
	if eps <= 0 {
		eps = DefaultEpsilon
	}
	nx, ny := g.Nx(), g.Ny()
	total := nx * ny
	h := g.Cells()

	res := BreachResult{BackLinks: make([]int, total)}
	for i := range res.BackLinks {
		res.BackLinks[i] = NoBackLink
	}
	state := make([]cellState, total)
	pit := make([]bool, total)
	pq := make(floodQueue, 0, 2*(nx+ny))

	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			idx := j*nx + i
			if g.IsBorder(i, j) {
				pq = append(pq, cell{z: h[idx], i: i, j: j})
				state[idx] = cellEdge
				continue
			}
			lowest := math.Inf(1)
			for n := 0; n < 8; n++ {
				lowest = math.Min(lowest, h[(j+core.Dy[n])*nx+i+core.Dx[n]])
			}
			if h[idx] < lowest {
				h[idx] = lowest - eps
				res.Raised++
			}
			// Flat-bottomed depressions are treated as pits too.
			if h[idx] <= lowest {
				pit[idx] = true
				res.PitCells = append(res.PitCells, idx)
			}
		}
	}
	res.Pits = len(res.PitCells)
	res.Remaining = res.Pits
	if res.Pits == 0 {
		if res.Raised > 0 {
			g.UpdateMinMax()
		}
		return res
	}
	heap.Init(&pq)

	fill := cfg.Mode == FillDepressions
	var flood []int

	for pq.Len() > 0 {
		c := heap.Pop(&pq).(cell)
		res.Visited++
		idx := c.j*nx + c.i

		if pit[idx] {
			if !fill {
				res.Carved += carve(h, res.BackLinks, idx, eps)
			}
			res.Remaining--
			if res.Remaining == 0 && !fill {
				break
			}
		}

		for n := 0; n < 8; n++ {
			pi, pj := c.i+core.Dx[n], c.j+core.Dy[n]
			if !g.InBounds(pi, pj) {
				continue
			}
			nIdx := pj*nx + pi
			if state[nIdx] != cellUnvisited {
				continue
			}
			heap.Push(&pq, cell{z: h[nIdx], i: pi, j: pj})
			state[nIdx] = cellVisited
			res.BackLinks[nIdx] = idx
			if fill {
				flood = append(flood, nIdx)
			}
		}
	}

	if fill {
		// Parents always precede their children in flood order, so a single
		// forward pass leaves every cell strictly above its parent.
		for _, f := range flood {
			parent := res.BackLinks[f]
			if h[f] <= h[parent] {
				h[f] = math.Nextafter(h[parent], math.Inf(1))
				res.Carved++
			}
		}
	}

	g.UpdateMinMax()
	return res
}

// carve lowers the back-link chain starting at idx so that it descends by
// at least eps per cell, stopping at the first cell already below the
// running target. It returns the number of cells written.
func carve(h []float64, links []int, idx int, eps float64) int {
	written := 0
	target := h[idx]
	for cc := idx; cc != NoBackLink && h[cc] >= target; cc = links[cc] {
		h[cc] = target
		target -= eps
		written++
	}
	return written
}

// CountPits returns the number of interior cells whose elevation is lower
// than or equal to every 8-connected neighbour.
func CountPits(g *core.Grid) int {
	nx, ny := g.Nx(), g.Ny()
	h := g.Cells()
	count := 0
	for j := 1; j < ny-1; j++ {
		for i := 1; i < nx-1; i++ {
			v := h[j*nx+i]
			isPit := true
			for n := 0; n < 8; n++ {
				if h[(j+core.Dy[n])*nx+i+core.Dx[n]] < v {
					isPit = false
					break
				}
			}
			if isPit {
				count++
			}
		}
	}
	return count
}
