// Package terrain synthesises elevation grids from Perlin noise.
package terrain

import (
	"github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl64"

	"heightfield/internal/core"
	pcore "heightfield/pkg/core"
)

// Config tunes the noise source.
type Config struct {
	// Alpha is the weight divisor between octaves; larger is smoother.
	Alpha float64
	// Beta is the frequency multiplier between octaves.
	Beta    float64
	Octaves int
	// Frequency is noise cycles per grid cell.
	Frequency float64
	// Amplitude scales the [0, 1] noise into elevation units.
	Amplitude float64
	Seed      int64

	// Pits lowers that many random interior cells by PitDepth.
	Pits     int
	PitDepth float64
}

// DefaultConfig mirrors the land noise used for coarse relief.
func DefaultConfig() Config {
	return Config{
		Alpha:     2,
		Beta:      2,
		Octaves:   4,
		Frequency: 0.015,
		Amplitude: 255,
		Seed:      1,
		PitDepth:  20,
	}
}

// Generate fills an nx*ny grid spanning [a, b].
func Generate(nx, ny int, a, b mgl64.Vec2, cfg Config) (*core.Grid, error) {
	octaves := cfg.Octaves
	if octaves < 1 {
		octaves = 1
	}
	p := perlin.NewPerlin(cfg.Alpha, cfg.Beta, int32(octaves), cfg.Seed)

	elev := make([]float64, max(nx, 0)*max(ny, 0))
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			n := p.Noise2D(float64(i)*cfg.Frequency, float64(j)*cfg.Frequency)
			elev[j*nx+i] = (n*0.5 + 0.5) * cfg.Amplitude
		}
	}
	g, err := core.NewGrid(nx, ny, a, b, elev)
	if err != nil {
		return nil, err
	}
	if cfg.Pits > 0 {
		SprinklePits(g, cfg.Pits, cfg.PitDepth, cfg.Seed)
	}
	return g, nil
}

// SprinklePits lowers count random interior cells by depth. Grids without
// an interior are left unchanged.
func SprinklePits(g *core.Grid, count int, depth float64, seed int64) {
	iw, ih := g.Nx()-2, g.Ny()-2
	if iw <= 0 || ih <= 0 {
		return
	}
	rng := pcore.NewRNG(seed ^ 0x5f3759df)
	for k := 0; k < count; k++ {
		i := 1 + rng.IntN(iw)
		j := 1 + rng.IntN(ih)
		g.Set(i, j, g.At(i, j)-depth)
	}
	g.UpdateMinMax()
}
