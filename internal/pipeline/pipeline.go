// Package pipeline runs breaching and stream-power erosion over a grid and
// exposes the result as display layers and exported images.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats"

	"heightfield/internal/core"
	"heightfield/internal/demio"
	"heightfield/internal/hydro"
	"heightfield/internal/render"
	"heightfield/internal/terrain"
)

// Layer selects the field shown by Cells.
type Layer int

const (
	LayerElevation Layer = iota
	LayerSlope
	LayerShading
	LayerStream
	LayerLaplacian
	layerCount
)

var layerNames = [...]string{"elevation", "slope", "shading", "stream", "laplacian"}

func (l Layer) String() string {
	if l < 0 || l >= layerCount {
		return "unknown"
	}
	return layerNames[l]
}

// ParseLayer resolves a layer name.
func ParseLayer(s string) (Layer, bool) {
	for i, name := range layerNames {
		if name == s {
			return Layer(i), true
		}
	}
	return LayerElevation, false
}

// StepReport summarises one iteration.
type StepReport struct {
	Step      int     `json:"step"`
	Pits      int     `json:"pits"`
	Carved    int     `json:"carved"`
	Remaining int     `json:"remaining"`
	MaxDrop   float64 `json:"max_drop"`
	MeanDrop  float64 `json:"mean_drop"`
	MeanSlope float64 `json:"mean_slope"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
}

func (r StepReport) String() string {
	return fmt.Sprintf("step %d: pits=%d carved=%d remaining=%d max drop=%.4g mean drop=%.4g mean slope=%.4g range=[%.4g, %.4g]",
		r.Step, r.Pits, r.Carved, r.Remaining, r.MaxDrop, r.MeanDrop, r.MeanSlope, r.Min, r.Max)
}

// Pipeline owns a working grid and advances it one breach + erosion
// iteration per Step. It is not safe for concurrent use.
type Pipeline struct {
	cfg    Config
	base   *core.Grid
	grid   *core.Grid
	area   *core.Grid
	logger *log.Logger

	prepared bool
	step     int
	last     StepReport

	layer Layer
	cells []uint8
	dirty bool
}

// New wraps grid, which is copied so Reset can restore it. A nil logger
// discards progress messages.
func New(cfg Config, grid *core.Grid, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	p := &Pipeline{cfg: cfg, base: grid.Clone(), logger: logger}
	p.restore()
	return p
}

// Load builds the input grid described by cfg: a text grid, an image
// heightmap or generated terrain.
func Load(cfg Config) (*core.Grid, error) {
	ext := strings.ToLower(filepath.Ext(cfg.Input))
	switch {
	case cfg.Input == "":
		return generate(cfg, cfg.Seed)
	case ext == ".txt":
		return demio.Load(cfg.Input)
	default:
		if _, err := render.FormatFromPath(cfg.Input); err != nil {
			return nil, err
		}
		probe, err := demio.LoadImage(cfg.Input, mgl64.Vec2{}, mgl64.Vec2{1, 1})
		if err != nil {
			return nil, err
		}
		a, b := extent(cfg.Extent, probe.Nx(), probe.Ny())
		return core.NewGrid(probe.Nx(), probe.Ny(), a, b, probe.Cells())
	}
}

func generate(cfg Config, seed int64) (*core.Grid, error) {
	tc := cfg.Terrain
	tc.Seed = seed
	a, b := extent(cfg.Extent, cfg.Width, cfg.Height)
	return terrain.Generate(cfg.Width, cfg.Height, a, b, tc)
}

func extent(width float64, nx, ny int) (mgl64.Vec2, mgl64.Vec2) {
	if width <= 0 {
		width = float64(nx - 1)
	}
	h := width
	if nx > 1 {
		h = width * float64(ny-1) / float64(nx-1)
	}
	return mgl64.Vec2{0, 0}, mgl64.Vec2{width, h}
}

func (p *Pipeline) restore() {
	p.grid = p.base.Clone()
	p.area = hydro.StreamArea(p.grid)
	p.prepared = false
	p.step = 0
	p.last = StepReport{}
	p.dirty = true
}

// Name returns the pipeline identifier.
func (p *Pipeline) Name() string { return "heightfield" }

// Size reports the grid dimensions.
func (p *Pipeline) Size() core.Size { return p.grid.Size() }

// Config returns the active configuration.
func (p *Pipeline) Config() Config { return p.cfg }

// Grid exposes the working grid.
func (p *Pipeline) Grid() *core.Grid { return p.grid }

// Area returns the accumulation field of the latest iteration.
func (p *Pipeline) Area() *core.Grid { return p.area }

// StepCount returns the number of completed iterations.
func (p *Pipeline) StepCount() int { return p.step }

// LastReport returns the report of the latest iteration.
func (p *Pipeline) LastReport() StepReport { return p.last }

// Reset restores the initial grid. For generated terrain a non-zero seed
// regenerates it first.
func (p *Pipeline) Reset(seed int64) {
	if p.cfg.Input == "" && seed != 0 && seed != p.cfg.Seed {
		if g, err := generate(p.cfg, seed); err == nil {
			p.cfg.Seed = seed
			p.base = g
		} else {
			p.logger.Printf("regenerate seed %d: %v", seed, err)
		}
	}
	p.restore()
}

// Prepare smooths the grid and runs the initial breaching pass. Step calls
// it on first use.
func (p *Pipeline) Prepare() hydro.BreachResult {
	k, ok := core.KernelByName(p.cfg.Kernel)
	if !ok {
		k = core.SmoothKernel
	}
	for i := 0; i < p.cfg.SmoothPasses; i++ {
		p.grid.Convolve(k)
	}
	res := hydro.Breach(p.grid, p.cfg.Breach)
	p.logger.Printf("prepare: %s x%d, %s pits=%d raised=%d carved=%d",
		p.cfg.Kernel, p.cfg.SmoothPasses, p.cfg.Breach.Mode, res.Pits, res.Raised, res.Carved)
	p.area = hydro.StreamArea(p.grid)
	p.prepared = true
	p.dirty = true
	return res
}

// Step runs one breach + stream-power iteration.
func (p *Pipeline) Step() {
	if !p.prepared {
		p.Prepare()
	}
	br := hydro.Breach(p.grid, p.cfg.Breach)
	er := hydro.StreamPower(p.grid, p.cfg.Erosion)
	p.area = er.Area
	p.step++
	p.last = StepReport{
		Step:      p.step,
		Pits:      br.Pits,
		Carved:    br.Carved,
		Remaining: br.Remaining,
		MaxDrop:   er.MaxDrop,
		MeanDrop:  er.MeanDrop,
		MeanSlope: MeanSlope(p.grid),
		Min:       p.grid.Min(),
		Max:       p.grid.Max(),
	}
	p.dirty = true
	p.logger.Print(p.last)
}

// Refresh recomputes derived fields after the grid was modified directly.
func (p *Pipeline) Refresh() {
	p.grid.UpdateMinMax()
	p.area = hydro.StreamArea(p.grid)
	p.dirty = true
}

// Run prepares the grid if needed and runs cfg.Iterations steps.
func (p *Pipeline) Run() []StepReport {
	if !p.prepared {
		p.Prepare()
	}
	reports := make([]StepReport, 0, p.cfg.Iterations)
	for i := 0; i < p.cfg.Iterations; i++ {
		p.Step()
		reports = append(reports, p.last)
	}
	return reports
}

// MeanSlope averages the slope over every cell of g.
func MeanSlope(g *core.Grid) float64 {
	s := make([]float64, 0, len(g.Cells()))
	for j := 0; j < g.Ny(); j++ {
		for i := 0; i < g.Nx(); i++ {
			s = append(s, g.Slope(i, j))
		}
	}
	return floats.Sum(s) / float64(len(s))
}

// Layer returns the layer shown by Cells.
func (p *Pipeline) Layer() Layer { return p.layer }

// SetLayer switches the displayed layer.
func (p *Pipeline) SetLayer(l Layer) {
	if l < 0 || l >= layerCount {
		return
	}
	if l != p.layer {
		p.layer = l
		p.dirty = true
	}
}

// CycleLayer advances to the next layer, wrapping around.
func (p *Pipeline) CycleLayer() Layer {
	p.SetLayer((p.layer + 1) % layerCount)
	return p.layer
}

// Cells returns the active layer quantized to 0..255 at grid resolution.
func (p *Pipeline) Cells() []uint8 {
	if p.dirty || p.cells == nil {
		p.cells = render.Quantize(p.layerValues(p.layer))
		p.dirty = false
	}
	return p.cells
}

// StreamMask marks cells whose accumulated area exceeds StreamThreshold.
func (p *Pipeline) StreamMask() []bool {
	return hydro.StreamCells(p.area, p.cfg.StreamThreshold)
}

func (p *Pipeline) layerValues(l Layer) []float64 {
	ctx := context.Background()
	var f render.Field
	switch l {
	case LayerSlope:
		f, _ = render.Slope(ctx, p.grid, 0, 0)
	case LayerShading:
		f, _ = render.Shading(ctx, p.grid, 0, 0, p.light())
	case LayerStream:
		f = render.StreamArea(p.area)
	case LayerLaplacian:
		f, _ = render.Laplacian(ctx, p.grid, 0, 0)
	default:
		return p.grid.Cells()
	}
	return f.Values
}

func (p *Pipeline) light() mgl64.Vec3 { return mgl64.Vec3(p.cfg.Light) }

var _ core.Sim = (*Pipeline)(nil)
