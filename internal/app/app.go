//go:build ebiten

package app

import (
	"context"
	"image/color"
	"log"
	"time"

	"heightfield/internal/core"
	"heightfield/internal/pipeline"
	"heightfield/internal/render"
	"heightfield/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Game adapts a pipeline to the ebiten.Game interface.
type Game struct {
	p       *pipeline.Pipeline
	painter *render.LayerPainter
	overlay *ui.Overlay
	hud     *ui.HUD
	pacer   *core.FixedStep

	scale    int
	paused   bool
	tickOnce bool
	seed     int64
	hudWidth int
}

// New constructs a Game for p.
func New(p *pipeline.Pipeline, cfg *Config) *Game {
	s := p.Size()
	return &Game{
		p:        p,
		painter:  render.NewLayerPainter(s.W, s.H),
		overlay:  ui.NewOverlay(p, color.RGBA{R: 64, G: 140, B: 255, A: 255}),
		hud:      ui.NewHUD(p, cfg.HUDWidth),
		pacer:    core.NewFixedStep(cfg.TPS),
		scale:    cfg.Scale,
		paused:   cfg.Paused,
		seed:     p.Config().Seed,
		hudWidth: cfg.HUDWidth,
	}
}

// Reset restores the pipeline input, regenerating terrain for a new seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.p.Reset(seed)
	g.tickOnce = false
}

// Update handles per-frame logic and advances the pipeline.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
		if !g.paused {
			g.pacer.Resume()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(0)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		g.p.CycleLayer()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyE) {
		dir := g.p.Config().OutDir
		if _, err := g.p.Export(context.Background(), dir); err != nil {
			log.Printf("export: %v", err)
		}
	}

	g.overlay.Update()
	g.hud.Update(g.viewWidth())

	if g.tickOnce || (!g.paused && g.pacer.ShouldStep()) {
		g.p.Step()
		g.tickOnce = false
	}
	return nil
}

// Draw renders the active layer, the stream overlay and the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.p.Cells(), g.overlay.Mask(), g.overlay.Color(), float64(g.scale))
	g.hud.Draw(screen, g.viewWidth(), g.scale)
}

func (g *Game) viewWidth() int { return g.p.Size().W * g.scale }

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.p.Size()
	return s.W*g.scale + g.hudWidth, s.H * g.scale
}
