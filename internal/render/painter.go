//go:build ebiten

package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// LayerPainter uploads an 8-bit layer, with an optional stream overlay, into
// a single RGBA image.
type LayerPainter struct {
	w, h int
	img  *ebiten.Image
	buf  []byte
}

// NewLayerPainter allocates a painter for a layer of size w*h.
func NewLayerPainter(w, h int) *LayerPainter {
	lp := &LayerPainter{w: w, h: h, buf: make([]byte, 4*w*h)}
	lp.img = ebiten.NewImage(w, h)
	return lp
}

// Blit draws cells as grayscale, paints mask cells with overlay and scales
// the result onto dst. A nil mask skips the overlay.
func (lp *LayerPainter) Blit(dst *ebiten.Image, cells []uint8, mask []bool, overlay color.Color, scale float64) {
	if len(cells) != lp.w*lp.h {
		return
	}
	FillGrayRGBA(lp.buf, cells)
	if len(mask) == len(cells) {
		FillMaskRGBA(lp.buf, mask, overlay)
	}
	lp.img.WritePixels(lp.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	dst.DrawImage(lp.img, op)
}

// Size returns the dimensions of the underlying image.
func (lp *LayerPainter) Size() (int, int) { return lp.w, lp.h }
