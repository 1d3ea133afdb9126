// Package demio reads and writes elevation grids.
package demio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"heightfield/internal/core"
)

// Header is the first line of the text grid format.
const Header = "heightfield v1"

// ErrFormat reports a malformed grid file.
var ErrFormat = errors.New("malformed heightfield data")

// Write stores g as text: the header, then "nx ny ax ay bx by", then one
// line of samples per row. Values are written with full precision so Read
// returns an identical grid.
func Write(w io.Writer, g *core.Grid) error {
	bw := bufio.NewWriter(w)
	a, b := g.A(), g.B()
	fmt.Fprintln(bw, Header)
	fmt.Fprintf(bw, "%d %d %s %s %s %s\n", g.Nx(), g.Ny(),
		ftoa(a.X()), ftoa(a.Y()), ftoa(b.X()), ftoa(b.Y()))
	h := g.Cells()
	for j := 0; j < g.Ny(); j++ {
		row := h[j*g.Nx() : (j+1)*g.Nx()]
		for i, v := range row {
			if i > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(ftoa(v))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func ftoa(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// Read parses the format produced by Write.
func Read(r io.Reader) (*core.Grid, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 64*1024*1024)
	sc.Split(bufio.ScanWords)

	next := func() (string, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", err
			}
			return "", fmt.Errorf("unexpected end of data: %w", ErrFormat)
		}
		return sc.Text(), nil
	}

	magic := strings.Fields(Header)
	for _, want := range magic {
		tok, err := next()
		if err != nil {
			return nil, err
		}
		if tok != want {
			return nil, fmt.Errorf("header token %q: %w", tok, ErrFormat)
		}
	}

	var dims [2]int
	for k := range dims {
		tok, err := next()
		if err != nil {
			return nil, err
		}
		if dims[k], err = strconv.Atoi(tok); err != nil {
			return nil, fmt.Errorf("dimension %q: %w", tok, ErrFormat)
		}
	}
	var corners [4]float64
	for k := range corners {
		tok, err := next()
		if err != nil {
			return nil, err
		}
		if corners[k], err = strconv.ParseFloat(tok, 64); err != nil {
			return nil, fmt.Errorf("extent %q: %w", tok, ErrFormat)
		}
	}
	nx, ny := dims[0], dims[1]
	if nx < 2 || ny < 2 {
		return nil, fmt.Errorf("%dx%d: %w", nx, ny, core.ErrGridTooSmall)
	}

	h := make([]float64, 0, nx*ny)
	for len(h) < nx*ny {
		tok, err := next()
		if err != nil {
			return nil, err
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, fmt.Errorf("sample %d %q: %w", len(h), tok, ErrFormat)
		}
		h = append(h, v)
	}
	return core.NewGrid(nx, ny, mgl64.Vec2{corners[0], corners[1]}, mgl64.Vec2{corners[2], corners[3]}, h)
}

// Save writes g to path with Write.
func Save(path string, g *core.Grid) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f, g); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// Load reads a grid saved with Save.
func Load(path string) (*core.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	g, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return g, nil
}

// WritePoints writes a point list resampled to nx*ny: the point count on
// the first line, then "i j value" per sample. Values are shifted by |min|,
// scaled so |max| maps to 255 and clamped to whole numbers in [0, 255].
// Non-positive nx or ny use the grid dimensions.
func WritePoints(w io.Writer, g *core.Grid, nx, ny int) error {
	if nx <= 0 {
		nx = g.Nx()
	}
	if ny <= 0 {
		ny = g.Ny()
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, nx*ny)
	lo, hi := math.Abs(g.Min()), math.Abs(g.Max())
	s := 0.0
	if hi != 0 {
		s = 255 / hi
	}
	for j := 0; j < ny; j++ {
		v := resample(j, ny, g.Ny())
		for i := 0; i < nx; i++ {
			h := g.Sample(resample(i, nx, g.Nx()), v)
			y := math.Trunc(math.Max(0, math.Min(255, (h+lo)*s)))
			fmt.Fprintf(bw, "%d %d %g\n", i, j, y)
		}
	}
	return bw.Flush()
}

func resample(i, n, cells int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(i) * float64(cells-1) / float64(n-1)
}
