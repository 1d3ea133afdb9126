package core

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	// ErrGridTooSmall reports a grid with fewer than two samples on an axis.
	ErrGridTooSmall = errors.New("grid needs at least 2x2 samples")
	// ErrSizeMismatch reports an elevation buffer whose length is not nx*ny.
	ErrSizeMismatch = errors.New("elevation buffer does not match grid size")
)

// Grid stores a 2D field of elevation samples in row-major order together
// with the world-space rectangle [A, B] it covers.
//
// Min and Max are cached. Any mutation through Cells or Set leaves them
// stale until UpdateMinMax is called.
type Grid struct {
	nx, ny int
	a, b   mgl64.Vec2
	data   []float64

	min, max float64
}

// NewGrid copies elevations into a new grid of nx*ny samples spanning [a, b].
func NewGrid(nx, ny int, a, b mgl64.Vec2, elevations []float64) (*Grid, error) {
	if err := checkDims(nx, ny, len(elevations)); err != nil {
		return nil, err
	}
	g := &Grid{nx: nx, ny: ny, a: a, b: b, data: append([]float64(nil), elevations...)}
	g.UpdateMinMax()
	return g, nil
}

// NewFilledGrid allocates a grid where every sample equals v.
func NewFilledGrid(nx, ny int, a, b mgl64.Vec2, v float64) (*Grid, error) {
	if err := checkDims(nx, ny, nx*ny); err != nil {
		return nil, err
	}
	data := make([]float64, nx*ny)
	for i := range data {
		data[i] = v
	}
	return &Grid{nx: nx, ny: ny, a: a, b: b, data: data, min: v, max: v}, nil
}

func checkDims(nx, ny, n int) error {
	if nx < 2 || ny < 2 {
		return fmt.Errorf("%dx%d: %w", nx, ny, ErrGridTooSmall)
	}
	if n != nx*ny {
		return fmt.Errorf("got %d samples for %dx%d: %w", n, nx, ny, ErrSizeMismatch)
	}
	return nil
}

// Nx returns the number of columns.
func (g *Grid) Nx() int { return g.nx }

// Ny returns the number of rows.
func (g *Grid) Ny() int { return g.ny }

// Size returns the grid dimensions.
func (g *Grid) Size() Size { return Size{W: g.nx, H: g.ny} }

// A returns the lower world-space corner.
func (g *Grid) A() mgl64.Vec2 { return g.a }

// B returns the upper world-space corner.
func (g *Grid) B() mgl64.Vec2 { return g.b }

// Cells exposes the backing slice so callers can read/write values directly.
func (g *Grid) Cells() []float64 { return g.data }

// Index returns the linear slice index for coordinates (i, j).
func (g *Grid) Index(i, j int) int { return j*g.nx + i }

// Coords splits a linear index into (i, j).
func (g *Grid) Coords(idx int) (int, int) { return idx % g.nx, idx / g.nx }

// InBounds reports whether (i, j) addresses a sample.
func (g *Grid) InBounds(i, j int) bool {
	return i >= 0 && i < g.nx && j >= 0 && j < g.ny
}

// IsBorder reports whether (i, j) lies on the outer ring of the grid.
func (g *Grid) IsBorder(i, j int) bool {
	return i == 0 || j == 0 || i == g.nx-1 || j == g.ny-1
}

// At returns the sample at (i, j). The caller guarantees the range.
func (g *Grid) At(i, j int) float64 { return g.data[j*g.nx+i] }

// Set writes the sample at (i, j).
func (g *Grid) Set(i, j int, v float64) { g.data[j*g.nx+i] = v }

// Diagonal returns the world-space step between two adjacent samples.
func (g *Grid) Diagonal() mgl64.Vec2 {
	return mgl64.Vec2{
		(g.b.X() - g.a.X()) / float64(g.nx-1),
		(g.b.Y() - g.a.Y()) / float64(g.ny-1),
	}
}

// Point returns the world position of sample (i, j) with its height as Z.
func (g *Grid) Point(i, j int) mgl64.Vec3 {
	d := g.Diagonal()
	return mgl64.Vec3{g.a.X() + d.X()*float64(i), g.a.Y() + d.Y()*float64(j), g.Height(i, j)}
}

// Min returns the cached minimum sample.
func (g *Grid) Min() float64 { return g.min }

// Max returns the cached maximum sample.
func (g *Grid) Max() float64 { return g.max }

// UpdateMinMax refreshes the cached statistics.
func (g *Grid) UpdateMinMax() {
	g.min, g.max = g.data[0], g.data[0]
	for _, v := range g.data[1:] {
		if v < g.min {
			g.min = v
		}
		if v > g.max {
			g.max = v
		}
	}
}

// Normalize maps the sample at (i, j) into [0, 1] using the cached range.
// A flat grid normalizes to 0.
func (g *Grid) Normalize(i, j int) float64 {
	span := g.max - g.min
	if span == 0 {
		return 0
	}
	return (g.At(i, j) - g.min) / span
}

// Clamp returns the sample at (i, j) limited to [lo, hi].
func (g *Grid) Clamp(i, j int, lo, hi float64) float64 {
	v := g.At(i, j)
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	c := *g
	c.data = append([]float64(nil), g.data...)
	return &c
}

// SetElevations replaces the samples wholesale. Non-positive nx or ny keep
// the current dimension on that axis.
func (g *Grid) SetElevations(elevations []float64, nx, ny int) error {
	if nx <= 0 {
		nx = g.nx
	}
	if ny <= 0 {
		ny = g.ny
	}
	if err := checkDims(nx, ny, len(elevations)); err != nil {
		return err
	}
	g.nx, g.ny = nx, ny
	g.data = append(g.data[:0:0], elevations...)
	g.UpdateMinMax()
	return nil
}
