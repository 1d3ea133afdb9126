package core

import "github.com/go-gl/mathgl/mgl64"

// Height returns the sample at (i, j), or 0 when (i, j) is outside the grid.
// Interpolation stencils rely on this when they probe one past the last
// row or column.
func (g *Grid) Height(i, j int) float64 {
	if !g.InBounds(i, j) {
		return 0
	}
	return g.data[j*g.nx+i]
}

// Sample returns the bilinear blend of the four samples bracketing the
// fractional grid coordinates (u, v).
func (g *Grid) Sample(u, v float64) float64 {
	i := int(u)
	j := int(v)
	fu := u - float64(i)
	fv := v - float64(j)
	return (1-fu)*(1-fv)*g.Height(i, j) +
		(1-fu)*fv*g.Height(i, j+1) +
		fu*(1-fv)*g.Height(i+1, j) +
		fu*fv*g.Height(i+1, j+1)
}

// HeightAt returns the interpolated height at world coordinates (x, y).
func (g *Grid) HeightAt(x, y float64) float64 {
	d := g.Diagonal()
	return g.Sample((x-g.a.X())/d.X(), (y-g.a.Y())/d.Y())
}

// Gradient returns the central difference at (i, j). On the border it
// falls back to a one-sided difference that keeps the 0.5 factor.
func (g *Grid) Gradient(i, j int) mgl64.Vec2 {
	var gx, gy float64
	switch {
	case i == 0:
		gx = (g.Height(i+1, j) - g.Height(i, j)) * 0.5
	case i == g.nx-1:
		gx = (g.Height(i, j) - g.Height(i-1, j)) * 0.5
	default:
		gx = (g.Height(i+1, j) - g.Height(i-1, j)) * 0.5
	}
	switch {
	case j == 0:
		gy = (g.Height(i, j+1) - g.Height(i, j)) * 0.5
	case j == g.ny-1:
		gy = (g.Height(i, j) - g.Height(i, j-1)) * 0.5
	default:
		gy = (g.Height(i, j+1) - g.Height(i, j-1)) * 0.5
	}
	return mgl64.Vec2{gx, gy}
}

// GradientAt is Gradient over interpolated samples at grid coordinates (u, v).
func (g *Grid) GradientAt(u, v float64) mgl64.Vec2 {
	var gx, gy float64
	switch {
	case u < 1:
		gx = (g.Sample(u+1, v) - g.Sample(u, v)) * 0.5
	case u > float64(g.nx-2):
		gx = (g.Sample(u, v) - g.Sample(u-1, v)) * 0.5
	default:
		gx = (g.Sample(u+1, v) - g.Sample(u-1, v)) * 0.5
	}
	switch {
	case v < 1:
		gy = (g.Sample(u, v+1) - g.Sample(u, v)) * 0.5
	case v > float64(g.ny-2):
		gy = (g.Sample(u, v) - g.Sample(u, v-1)) * 0.5
	default:
		gy = (g.Sample(u, v+1) - g.Sample(u, v-1)) * 0.5
	}
	return mgl64.Vec2{gx, gy}
}

// Laplacian returns the sum of the second differences on both axes. Border
// cells use the three-point stencil shifted inwards.
func (g *Grid) Laplacian(i, j int) float64 {
	var lx, ly float64
	switch {
	case i == 0:
		lx = g.Height(i+2, j) - 2*g.Height(i+1, j) + g.Height(i, j)
	case i == g.nx-1:
		lx = g.Height(i, j) - 2*g.Height(i-1, j) + g.Height(i-2, j)
	default:
		lx = g.Height(i+1, j) - 2*g.Height(i, j) + g.Height(i-1, j)
	}
	switch {
	case j == 0:
		ly = g.Height(i, j+2) - 2*g.Height(i, j+1) + g.Height(i, j)
	case j == g.ny-1:
		ly = g.Height(i, j) - 2*g.Height(i, j-1) + g.Height(i, j-2)
	default:
		ly = g.Height(i, j+1) - 2*g.Height(i, j) + g.Height(i, j-1)
	}
	return lx + ly
}

// LaplacianAt is Laplacian over interpolated samples at grid coordinates (u, v).
func (g *Grid) LaplacianAt(u, v float64) float64 {
	var lx, ly float64
	switch {
	case u < 1:
		lx = g.Sample(u+2, v) - 2*g.Sample(u+1, v) + g.Sample(u, v)
	case u > float64(g.nx-2):
		lx = g.Sample(u, v) - 2*g.Sample(u-1, v) + g.Sample(u-2, v)
	default:
		lx = g.Sample(u+1, v) - 2*g.Sample(u, v) + g.Sample(u-1, v)
	}
	switch {
	case v < 1:
		ly = g.Sample(u, v+2) - 2*g.Sample(u, v+1) + g.Sample(u, v)
	case v > float64(g.ny-2):
		ly = g.Sample(u, v) - 2*g.Sample(u, v-1) + g.Sample(u, v-2)
	default:
		ly = g.Sample(u, v+1) - 2*g.Sample(u, v) + g.Sample(u, v-1)
	}
	return lx + ly
}

// Slope returns the gradient magnitude at (i, j).
func (g *Grid) Slope(i, j int) float64 { return g.Gradient(i, j).Len() }

// SlopeAt returns the gradient magnitude at grid coordinates (u, v).
func (g *Grid) SlopeAt(u, v float64) float64 { return g.GradientAt(u, v).Len() }

// Normal returns the unit surface normal at (i, j), Y up.
func (g *Grid) Normal(i, j int) mgl64.Vec3 {
	grad := g.Gradient(i, j)
	return mgl64.Vec3{-grad.X(), 1, -grad.Y()}.Normalize()
}

// NormalAt returns the unit surface normal at grid coordinates (u, v).
func (g *Grid) NormalAt(u, v float64) mgl64.Vec3 {
	grad := g.GradientAt(u, v)
	return mgl64.Vec3{-grad.X(), 1, -grad.Y()}.Normalize()
}

// AverageSlope returns the mean slope of (i, j) and its in-bounds
// 8-connected neighbours.
func (g *Grid) AverageSlope(i, j int) float64 {
	sum := g.Slope(i, j)
	count := 1
	for n := 0; n < 8; n++ {
		pi, pj := i+Dx[n], j+Dy[n]
		if !g.InBounds(pi, pj) {
			continue
		}
		sum += g.Slope(pi, pj)
		count++
	}
	return sum / float64(count)
}

// AverageSlopeAt is AverageSlope at grid coordinates (u, v).
func (g *Grid) AverageSlopeAt(u, v float64) float64 {
	sum := g.SlopeAt(u, v)
	count := 1
	for n := 0; n < 8; n++ {
		pu, pv := u+float64(Dx[n]), v+float64(Dy[n])
		if pu < 0 || pv < 0 || pu >= float64(g.nx) || pv >= float64(g.ny) {
			continue
		}
		sum += g.SlopeAt(pu, pv)
		count++
	}
	return sum / float64(count)
}
