package pipeline

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"heightfield/internal/core"
	"heightfield/internal/hydro"
	"heightfield/internal/render"
	"heightfield/internal/terrain"
)

// Export names accepted in Config.Exports.
const (
	ExportElevation    = "elevation"
	ExportGradient     = "gradient"
	ExportLaplacian    = "laplacian"
	ExportSlope        = "slope"
	ExportAverageSlope = "avgslope"
	ExportNormal       = "normal"
	ExportShading      = "shading"
	ExportGlobal       = "global"
	ExportStream       = "stream"
	ExportText         = "text"
	ExportPoints       = "points"
)

// AllExports lists every export in the order Export writes them.
var AllExports = []string{
	ExportElevation, ExportGradient, ExportLaplacian, ExportSlope, ExportAverageSlope,
	ExportNormal, ExportShading, ExportGlobal, ExportStream, ExportText, ExportPoints,
}

// Config controls grid construction, the erosion loop and exports.
type Config struct {
	Width  int
	Height int
	Seed   int64

	// Input is a .txt grid or a .png/.bmp heightmap. Empty generates terrain.
	Input string
	// Extent is the world-space width; the height follows the aspect ratio.
	Extent  float64
	Terrain terrain.Config

	SmoothPasses int
	Kernel       string

	Breach     hydro.BreachConfig
	Erosion    hydro.ErosionConfig
	Iterations int
	// StreamThreshold is the accumulated area above which a cell is drawn
	// as a stream.
	StreamThreshold float64

	Exports      []string
	OutDir       string
	Format       string
	ExportWidth  int
	ExportHeight int

	Light          [3]float64
	ShadingSamples int
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:           256,
		Height:          256,
		Seed:            1337,
		Extent:          1000,
		Terrain:         terrain.DefaultConfig(),
		SmoothPasses:    1,
		Kernel:          "smooth",
		Breach:          hydro.DefaultBreachConfig(),
		Erosion:         hydro.DefaultErosionConfig(),
		Iterations:      10,
		StreamThreshold: 64,
		Exports:         []string{ExportElevation, ExportShading, ExportStream},
		OutDir:          "out",
		Format:          string(render.PNG),
		Light:           [3]float64{render.DefaultLight.X(), render.DefaultLight.Y(), render.DefaultLight.Z()},
		ShadingSamples:  32,
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
// Invalid or out-of-range values keep their defaults.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 1 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 1 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["input"]; ok {
		c.Input = v
	}
	if v, ok := cfg["extent"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Extent = parsed
		}
	}
	c.Terrain.Octaves = max(1, core.IntFromMap(cfg, "octaves", c.Terrain.Octaves))
	c.Terrain.Frequency = core.FloatFromMap(cfg, "frequency", c.Terrain.Frequency)
	c.Terrain.Amplitude = core.FloatFromMap(cfg, "amplitude", c.Terrain.Amplitude)
	c.Terrain.Alpha = core.FloatFromMap(cfg, "alpha", c.Terrain.Alpha)
	c.Terrain.Beta = core.FloatFromMap(cfg, "beta", c.Terrain.Beta)
	c.Terrain.Pits = max(0, core.IntFromMap(cfg, "pits", c.Terrain.Pits))
	c.Terrain.PitDepth = core.FloatFromMap(cfg, "pit_depth", c.Terrain.PitDepth)

	c.SmoothPasses = max(0, core.IntFromMap(cfg, "smooth", c.SmoothPasses))
	if v, ok := cfg["kernel"]; ok {
		if _, known := core.KernelByName(v); known {
			c.Kernel = v
		}
	}
	if v, ok := cfg["mode"]; ok {
		if mode, known := hydro.ParseBreachMode(v); known {
			c.Breach.Mode = mode
		}
	}
	if v, ok := cfg["epsilon"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Breach.Epsilon = parsed
		}
	}
	if v, ok := cfg["k"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Erosion.K = parsed
		}
	}
	c.Erosion.AreaExponent = core.FloatFromMap(cfg, "m", c.Erosion.AreaExponent)
	c.Erosion.SlopeExponent = core.FloatFromMap(cfg, "n", c.Erosion.SlopeExponent)
	c.Iterations = max(0, core.IntFromMap(cfg, "iterations", c.Iterations))
	c.StreamThreshold = core.FloatFromMap(cfg, "stream_threshold", c.StreamThreshold)

	if v, ok := cfg["exports"]; ok {
		if names, err := parseExports(v); err == nil {
			c.Exports = names
		}
	}
	if v, ok := cfg["out"]; ok && v != "" {
		c.OutDir = v
	}
	if v, ok := cfg["format"]; ok {
		if f, err := render.ParseFormat(v); err == nil {
			c.Format = string(f)
		}
	}
	c.ExportWidth = max(0, core.IntFromMap(cfg, "export_w", c.ExportWidth))
	c.ExportHeight = max(0, core.IntFromMap(cfg, "export_h", c.ExportHeight))
	if v, ok := cfg["light"]; ok {
		if l, err := parseVec3(v); err == nil {
			c.Light = l
		}
	}
	c.ShadingSamples = max(1, core.IntFromMap(cfg, "shading_samples", c.ShadingSamples))
	return c
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Width, "w", c.Width, "grid width when generating terrain")
	fs.IntVar(&c.Height, "h", c.Height, "grid height when generating terrain")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "terrain seed")
	fs.StringVar(&c.Input, "input", c.Input, "heightmap to load (.txt, .png, .bmp); empty generates terrain")
	fs.Float64Var(&c.Extent, "extent", c.Extent, "world-space width of the grid")
	fs.IntVar(&c.Terrain.Octaves, "octaves", c.Terrain.Octaves, "noise octaves")
	fs.Float64Var(&c.Terrain.Frequency, "frequency", c.Terrain.Frequency, "noise cycles per cell")
	fs.Float64Var(&c.Terrain.Amplitude, "amplitude", c.Terrain.Amplitude, "elevation range of generated terrain")
	fs.IntVar(&c.Terrain.Pits, "pits", c.Terrain.Pits, "random pits punched into generated terrain")
	fs.Float64Var(&c.Terrain.PitDepth, "pit-depth", c.Terrain.PitDepth, "depth of each random pit")
	fs.IntVar(&c.SmoothPasses, "smooth", c.SmoothPasses, "smoothing passes before breaching")
	fs.StringVar(&c.Kernel, "kernel", c.Kernel, "smoothing kernel: smooth, blur or gauss")
	fs.Func("mode", "depression handling: breach or fill", func(s string) error {
		mode, ok := hydro.ParseBreachMode(s)
		if !ok {
			return fmt.Errorf("unknown mode %q", s)
		}
		c.Breach.Mode = mode
		return nil
	})
	fs.Float64Var(&c.Breach.Epsilon, "epsilon", c.Breach.Epsilon, "elevation drop per carved cell")
	fs.Float64Var(&c.Erosion.K, "k", c.Erosion.K, "stream-power erodibility")
	fs.Float64Var(&c.Erosion.AreaExponent, "m", c.Erosion.AreaExponent, "stream-power area exponent")
	fs.Float64Var(&c.Erosion.SlopeExponent, "n", c.Erosion.SlopeExponent, "stream-power slope exponent")
	fs.IntVar(&c.Iterations, "iterations", c.Iterations, "breach + erosion iterations")
	fs.Float64Var(&c.StreamThreshold, "stream-threshold", c.StreamThreshold, "accumulated area drawn as stream")
	fs.Func("exports", "comma separated exports ("+strings.Join(AllExports, ",")+" or all)", func(s string) error {
		names, err := parseExports(s)
		if err != nil {
			return err
		}
		c.Exports = names
		return nil
	})
	fs.StringVar(&c.OutDir, "out", c.OutDir, "output directory")
	fs.StringVar(&c.Format, "format", c.Format, "image format: png or bmp")
	fs.IntVar(&c.ExportWidth, "export-w", c.ExportWidth, "export width (0 = grid width)")
	fs.IntVar(&c.ExportHeight, "export-h", c.ExportHeight, "export height (0 = grid height)")
	fs.Func("light", "light direction x,y,z (Y up)", func(s string) error {
		l, err := parseVec3(s)
		if err != nil {
			return err
		}
		c.Light = l
		return nil
	})
	fs.IntVar(&c.ShadingSamples, "shading-samples", c.ShadingSamples, "hemisphere samples for global shading")
}

func parseExports(s string) ([]string, error) {
	if s == "all" {
		return append([]string(nil), AllExports...), nil
	}
	var names []string
	for _, part := range strings.Split(s, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		known := false
		for _, e := range AllExports {
			if e == name {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("unknown export %q", name)
		}
		names = append(names, name)
	}
	return names, nil
}

func parseVec3(s string) ([3]float64, error) {
	var v [3]float64
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return v, fmt.Errorf("expected x,y,z, got %q", s)
	}
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return v, fmt.Errorf("component %d of %q: %w", i, s, err)
		}
		v[i] = f
	}
	return v, nil
}
