package hydro

import (
	"math"

	"heightfield/internal/core"
)

// ErosionConfig holds the stream-power law coefficients:
// dh = K * A^AreaExponent * S^SlopeExponent.
type ErosionConfig struct {
	K             float64
	AreaExponent  float64
	SlopeExponent float64
}

// DefaultErosionConfig returns K=0.1, m=0.5, n=1.
func DefaultErosionConfig() ErosionConfig {
	return ErosionConfig{K: 0.1, AreaExponent: 0.5, SlopeExponent: 1}
}

// ErosionResult summarises one stream-power step.
type ErosionResult struct {
	MaxDrop  float64
	MeanDrop float64
	// Area is the accumulation field the step was driven by.
	Area *core.Grid
}

// StreamPower lowers every cell once by K * A^m * S^n, where A is the
// StreamArea of g and S its slope, both taken before any cell changes.
//
// This is a single explicit step with no stability bound: large K or large
// accumulations can push elevations arbitrarily low.
func StreamPower(g *core.Grid, cfg ErosionConfig) ErosionResult {
	area := StreamArea(g)
	nx, ny := g.Nx(), g.Ny()
	slope := make([]float64, nx*ny)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			slope[j*nx+i] = g.Slope(i, j)
		}
	}

	res := ErosionResult{Area: area}
	h := g.Cells()
	a := area.Cells()
	var sum float64
	for idx := range h {
		drop := cfg.K * math.Pow(a[idx], cfg.AreaExponent) * math.Pow(slope[idx], cfg.SlopeExponent)
		h[idx] -= drop
		sum += drop
		if drop > res.MaxDrop {
			res.MaxDrop = drop
		}
	}
	res.MeanDrop = sum / float64(len(h))
	g.UpdateMinMax()
	return res
}
