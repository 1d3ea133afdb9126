package render

import (
	"context"
	"image"
	"image/color"

	"heightfield/internal/core"
)

// StreamTint is the base colour of the stream-area export.
var StreamTint = color.RGBA{R: 99, G: 132, B: 235, A: 0xff}

// Gray renders the normalized field as an opaque grayscale image.
func Gray(f Field) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.W, f.H))
	FillGrayRGBA(img.Pix, Quantize(f.Values))
	return img
}

// GradientImage packs the normalized x and y components into the red and
// green channels.
func GradientImage(gx, gy Field) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, gx.W, gx.H))
	rx, ry := Quantize(gx.Values), Quantize(gy.Values)
	for i := range rx {
		p := i * 4
		img.Pix[p+0] = rx[i]
		img.Pix[p+1] = ry[i]
		img.Pix[p+2] = 0
		img.Pix[p+3] = 0xff
	}
	return img
}

// NormalImage encodes (n+0.5)*0.5 per component with the vertical axis in
// the blue channel.
func NormalImage(ctx context.Context, g *core.Grid, w, h int) (*image.RGBA, error) {
	var nx, ny, nz Field
	var err error
	if nx, err = Sweep(ctx, g, w, h, func(u, v float64) float64 { return g.NormalAt(u, v).X() }); err != nil {
		return nil, err
	}
	if ny, err = Sweep(ctx, g, w, h, func(u, v float64) float64 { return g.NormalAt(u, v).Y() }); err != nil {
		return nil, err
	}
	if nz, err = Sweep(ctx, g, w, h, func(u, v float64) float64 { return g.NormalAt(u, v).Z() }); err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, nx.W, nx.H))
	for i := range nx.Values {
		p := i * 4
		img.Pix[p+0] = unit((nx.Values[i] + 0.5) * 0.5)
		img.Pix[p+1] = unit((nz.Values[i] + 0.5) * 0.5)
		img.Pix[p+2] = unit((ny.Values[i] + 0.5) * 0.5)
		img.Pix[p+3] = 0xff
	}
	return img, nil
}

// ShadingImage writes Lambert or global shading values without
// renormalizing, so 1 maps to full white.
func ShadingImage(f Field) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.W, f.H))
	cells := make([]uint8, len(f.Values))
	for i, v := range f.Values {
		cells[i] = unit(v)
	}
	FillGrayRGBA(img.Pix, cells)
	return img
}

// StreamImage tints log2 accumulation over StreamTint.
func StreamImage(area *core.Grid) *image.RGBA {
	f := StreamArea(area)
	img := image.NewRGBA(image.Rect(0, 0, f.W, f.H))
	FillTintRGBA(img.Pix, f.Normalized(), StreamTint, 128)
	return img
}
