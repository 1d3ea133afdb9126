//go:build ebiten

package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type streamMaskProvider interface {
	StreamMask() []bool
}

// Overlay toggles the stream network drawn on top of the active layer.
type Overlay struct {
	src   streamMaskProvider
	color color.Color
	show  bool
}

// NewOverlay constructs an overlay reading masks from src. It starts visible.
func NewOverlay(src streamMaskProvider, c color.Color) *Overlay {
	return &Overlay{src: src, color: c, show: true}
}

// Update toggles visibility on O.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyO) {
		o.show = !o.show
	}
}

// Mask returns the stream cells, or nil while hidden.
func (o *Overlay) Mask() []bool {
	if !o.show || o.src == nil {
		return nil
	}
	return o.src.StreamMask()
}

// Color returns the stream colour.
func (o *Overlay) Color() color.Color { return o.color }
