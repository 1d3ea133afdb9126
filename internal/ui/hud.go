//go:build ebiten

package ui

import (
	"image"
	"image/color"
	"math"
	"strconv"

	"heightfield/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

type parameterProvider interface {
	Parameters() core.ParameterSnapshot
}

var (
	panelBackground = color.RGBA{R: 16, G: 16, B: 20, A: 255}
	titleColor      = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	labelColor      = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	mutedColor      = color.RGBA{R: 160, G: 160, B: 170, A: 255}
)

// HUD renders the parameter panel to the right of the terrain view.
type HUD struct {
	sim        core.Sim
	width      int
	panel      *ebiten.Image
	lastHeight int
	snapshot   core.ParameterSnapshot

	controls     []control
	intSetter    core.IntParameterSetter
	floatSetter  core.FloatParameterSetter
	panelOffsetX int

	pixel *ebiten.Image
}

type control struct {
	spec  core.ParameterControl
	value float64
	ok    bool

	top   int
	minus image.Rectangle
	plus  image.Rectangle
}

// NewHUD constructs a HUD for sim. A non-positive width disables it.
func NewHUD(sim core.Sim, width int) *HUD {
	if width <= 0 {
		return nil
	}
	h := &HUD{sim: sim, width: width}
	h.pixel = ebiten.NewImage(1, 1)
	h.pixel.Fill(color.White)
	if provider, ok := sim.(core.ParameterControlsProvider); ok {
		for i, spec := range provider.ParameterControls() {
			top := controlsTop + i*lineHeight
			y := top + (lineHeight-buttonSize)/2
			plus := image.Rect(width-panelPadding-buttonSize, y, width-panelPadding, y+buttonSize)
			minus := plus.Sub(image.Pt(buttonSize+buttonGap, 0))
			h.controls = append(h.controls, control{spec: spec, top: top, minus: minus, plus: plus})
		}
	}
	h.intSetter, _ = sim.(core.IntParameterSetter)
	h.floatSetter, _ = sim.(core.FloatParameterSetter)
	return h
}

// Update refreshes control values and handles clicks on the panel.
func (h *HUD) Update(panelOffsetX int) {
	if h == nil {
		return
	}
	h.panelOffsetX = panelOffsetX
	if provider, ok := h.sim.(parameterProvider); ok {
		h.snapshot = provider.Parameters()
	}
	for i := range h.controls {
		c := &h.controls[i]
		p, found := h.snapshot.Lookup(c.spec.Key)
		c.ok = false
		if !found {
			continue
		}
		if v, err := strconv.ParseFloat(p.Value, 64); err == nil {
			c.value, c.ok = v, true
		}
	}
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	pt := image.Pt(mx-panelOffsetX, my)
	for i := range h.controls {
		c := &h.controls[i]
		switch {
		case !c.ok:
		case pt.In(c.minus):
			h.adjust(c, -1)
			return
		case pt.In(c.plus):
			h.adjust(c, 1)
			return
		}
	}
}

func (h *HUD) adjust(c *control, direction int) {
	target, ok := h.target(c, direction)
	if !ok {
		return
	}
	switch c.spec.Type {
	case core.ParamTypeInt:
		if h.intSetter.SetIntParameter(c.spec.Key, int(math.Round(target))) {
			c.value = math.Round(target)
		}
	case core.ParamTypeFloat:
		if h.floatSetter.SetFloatParameter(c.spec.Key, target) {
			c.value = target
		}
	}
}

// target returns the stepped value and whether the step changes anything.
func (h *HUD) target(c *control, direction int) (float64, bool) {
	switch c.spec.Type {
	case core.ParamTypeInt:
		if h.intSetter == nil {
			return 0, false
		}
	case core.ParamTypeFloat:
		if h.floatSetter == nil {
			return 0, false
		}
	default:
		return 0, false
	}
	step := c.spec.Step
	if step <= 0 {
		step = 1
	}
	t := c.spec.Clamp(c.value + float64(direction)*step)
	return t, math.Abs(t-c.value) > 1e-9
}

// Draw paints the HUD panel at offsetX.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int, scale int) {
	if h == nil {
		return
	}
	height := h.sim.Size().H * max(scale, 1)
	if height <= 0 {
		return
	}
	if h.panel == nil || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(panelBackground)

	face := basicfont.Face7x13
	y := panelPadding + headerBaseline
	text.Draw(h.panel, "Heightfield", face, panelPadding, y, titleColor)

	for i := range h.controls {
		c := &h.controls[i]
		baseline := c.top + labelBaseline
		text.Draw(h.panel, c.spec.Label, face, panelPadding, baseline, labelColor)
		value, col := "--", mutedColor
		if c.ok {
			value, col = formatValue(c.spec, c.value), labelColor
		}
		w := text.BoundString(face, value).Dx()
		text.Draw(h.panel, value, face, c.minus.Min.X-buttonGap-w, baseline, col)
		_, minusOK := h.target(c, -1)
		_, plusOK := h.target(c, 1)
		h.drawButton(c.minus, "-", c.ok && minusOK)
		h.drawButton(c.plus, "+", c.ok && plusOK)
	}

	y = controlsTop + len(h.controls)*lineHeight + infoSpacing
	for _, key := range []string{"layer", "step", "mode"} {
		if p, ok := h.snapshot.Lookup(key); ok {
			text.Draw(h.panel, p.Label+": "+p.Value, face, panelPadding, y, mutedColor)
			y += infoLine
		}
	}
	y += infoLine
	for _, line := range keyHelp {
		text.Draw(h.panel, line, face, panelPadding, y, mutedColor)
		y += infoLine
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

var keyHelp = []string{
	"space pause  n step",
	"l layer  o streams",
	"r reset  s new seed",
	"e export  q quit",
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	bg := color.RGBA{R: 54, G: 56, B: 64, A: 255}
	fg := color.RGBA{R: 230, G: 230, B: 240, A: 255}
	if !enabled {
		bg = color.RGBA{R: 32, G: 34, B: 40, A: 255}
		fg = color.RGBA{R: 120, G: 120, B: 130, A: 255}
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(bg)
	h.panel.DrawImage(h.pixel, op)

	face := basicfont.Face7x13
	b := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-b.Dx())/2
	y := rect.Min.Y + (rect.Dy()-b.Dy())/2 + b.Dy()
	text.Draw(h.panel, label, face, x, y, fg)
}

func formatValue(spec core.ParameterControl, v float64) string {
	if spec.Type == core.ParamTypeInt {
		return strconv.Itoa(int(math.Round(v)))
	}
	precision := 1
	switch {
	case spec.Step < 0.001:
		precision = 4
	case spec.Step < 0.01:
		precision = 3
	case spec.Step < 0.1:
		precision = 2
	}
	return strconv.FormatFloat(v, 'f', precision, 64)
}

const (
	panelPadding   = 12
	lineHeight     = 36
	buttonSize     = 24
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 24
	infoSpacing    = 12
	infoLine       = 16
	controlsTop    = panelPadding + headerBaseline + 14
)
