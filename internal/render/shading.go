package render

import (
	"context"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"heightfield/internal/core"
	pcore "heightfield/pkg/core"
)

// DefaultLight points down and across the terrain, Y up.
var DefaultLight = mgl64.Vec3{1, -1, 1}

// Shading computes Lambert shading max(0, dot(-light, n)) for a light
// travelling along light.
func Shading(ctx context.Context, g *core.Grid, w, h int, light mgl64.Vec3) (Field, error) {
	l := light.Mul(-1)
	if l.Len() == 0 {
		l = DefaultLight.Mul(-1)
	}
	l = l.Normalize()
	return Sweep(ctx, g, w, h, func(u, v float64) float64 {
		return math.Max(0, l.Dot(g.NormalAt(u, v)))
	})
}

// GlobalShading estimates sky visibility by averaging the cosine of samples
// hemisphere directions with the surface normal, then applies the 5x5
// Gauss filter. Each row draws from its own RNG derived from seed, so the
// output does not depend on scheduling.
func GlobalShading(ctx context.Context, g *core.Grid, w, h, samples int, seed int64) (Field, error) {
	if samples < 1 {
		samples = 1
	}
	if w <= 0 {
		w = g.Nx()
	}
	if h <= 0 {
		h = g.Ny()
	}
	rows := make([]*pcore.RNG, h)
	for j := range rows {
		rows[j] = pcore.NewRNG(seed + int64(j)*7919)
	}
	f, err := sweepRows(ctx, g, w, h, func(j int, u, v float64) float64 {
		rng := rows[j]
		n := g.NormalAt(u, v)
		var sum float64
		for k := 0; k < samples; k++ {
			x, y, z := rng.Hemisphere()
			sum += math.Max(0, n.Dot(mgl64.Vec3{x, y, z}))
		}
		return sum / float64(samples)
	})
	if err != nil {
		return Field{}, err
	}
	f.Values = core.Convolve(f.Values, f.W, f.H, core.GaussKernel)
	return f, nil
}
