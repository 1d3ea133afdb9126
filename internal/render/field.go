package render

import (
	"context"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"heightfield/internal/core"
)

// Field is a derived scalar array at an output resolution.
type Field struct {
	W, H   int
	Values []float64
}

// At returns the value at column i, row j.
func (f Field) At(i, j int) float64 { return f.Values[j*f.W+i] }

// Normalized returns the values mapped into [0, 1].
func (f Field) Normalized() []float64 { return Normalize(f.Values) }

// Normalize maps values linearly into [0, 1] over their finite range.
// Non-finite values saturate to the matching end and a flat input maps to 0.
func Normalize(values []float64) []float64 {
	out := make([]float64, len(values))
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsInf(v, 0) && !math.IsNaN(v) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return out
	}
	lo, hi := floats.Min(finite), floats.Max(finite)
	span := hi - lo
	for i, v := range values {
		switch {
		case math.IsInf(v, 1):
			out[i] = 1
		case math.IsInf(v, -1), math.IsNaN(v), span == 0:
			out[i] = 0
		default:
			out[i] = (v - lo) / span
		}
	}
	return out
}

// gridCoord maps output index i of n samples onto grid coordinates spanning
// [0, cells-1], so the first and last samples land on the grid corners.
func gridCoord(i, n, cells int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(i) * float64(cells-1) / float64(n-1)
}

// Sweep evaluates fn at w*h evenly spaced grid coordinates of g. Rows are
// processed in parallel; fn must only read from g. Non-positive w or h fall
// back to the grid dimensions.
func Sweep(ctx context.Context, g *core.Grid, w, h int, fn func(u, v float64) float64) (Field, error) {
	return sweepRows(ctx, g, w, h, func(_ int, u, v float64) float64 { return fn(u, v) })
}

// sweepRows is Sweep with the output row index passed through to fn.
func sweepRows(ctx context.Context, g *core.Grid, w, h int, fn func(j int, u, v float64) float64) (Field, error) {
	if w <= 0 {
		w = g.Nx()
	}
	if h <= 0 {
		h = g.Ny()
	}
	f := Field{W: w, H: h, Values: make([]float64, w*h)}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.NumCPU())
	for j := 0; j < h; j++ {
		j := j
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			v := gridCoord(j, h, g.Ny())
			row := f.Values[j*w : (j+1)*w]
			for i := range row {
				row[i] = fn(j, gridCoord(i, w, g.Nx()), v)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return Field{}, err
	}
	return f, nil
}

func signedSqrt(v float64) float64 {
	if v < 0 {
		return -math.Sqrt(-v)
	}
	return math.Sqrt(v)
}

// Elevation samples the interpolated height.
func Elevation(ctx context.Context, g *core.Grid, w, h int) (Field, error) {
	return Sweep(ctx, g, w, h, g.Sample)
}

// Gradient samples both gradient components through a sign-preserving
// square root.
func Gradient(ctx context.Context, g *core.Grid, w, h int) (gx, gy Field, err error) {
	gx, err = Sweep(ctx, g, w, h, func(u, v float64) float64 { return signedSqrt(g.GradientAt(u, v).X()) })
	if err != nil {
		return Field{}, Field{}, err
	}
	gy, err = Sweep(ctx, g, w, h, func(u, v float64) float64 { return signedSqrt(g.GradientAt(u, v).Y()) })
	if err != nil {
		return Field{}, Field{}, err
	}
	return gx, gy, nil
}

// Laplacian samples the signed square root of the laplacian.
func Laplacian(ctx context.Context, g *core.Grid, w, h int) (Field, error) {
	return Sweep(ctx, g, w, h, func(u, v float64) float64 { return signedSqrt(g.LaplacianAt(u, v)) })
}

// Slope samples log2 of the slope. Flat spots yield -Inf.
func Slope(ctx context.Context, g *core.Grid, w, h int) (Field, error) {
	return Sweep(ctx, g, w, h, func(u, v float64) float64 { return math.Log2(g.SlopeAt(u, v)) })
}

// AverageSlope samples log2 of the neighbourhood mean slope.
func AverageSlope(ctx context.Context, g *core.Grid, w, h int) (Field, error) {
	return Sweep(ctx, g, w, h, func(u, v float64) float64 { return math.Log2(g.AverageSlopeAt(u, v)) })
}

// StreamArea returns log2 of an accumulation grid at its own resolution.
func StreamArea(area *core.Grid) Field {
	f := Field{W: area.Nx(), H: area.Ny(), Values: make([]float64, len(area.Cells()))}
	for i, a := range area.Cells() {
		f.Values[i] = math.Log2(a)
	}
	return f
}
