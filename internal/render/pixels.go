package render

import (
	"image/color"
	"math"
)

// Quantize maps values into 0..255 using their finite range. Flat inputs
// quantize to 0, -Inf to 0 and +Inf to 255.
func Quantize(values []float64) []uint8 {
	out := make([]uint8, len(values))
	for i, v := range Normalize(values) {
		out[i] = uint8(v * 255)
	}
	return out
}

// FillGrayRGBA expands 8-bit intensities into opaque RGBA pixels in buf.
func FillGrayRGBA(buf []byte, cells []uint8) {
	for i, c := range cells {
		base := i * 4
		buf[base+0] = c
		buf[base+1] = c
		buf[base+2] = c
		buf[base+3] = 0xff
	}
}

// FillTintRGBA adds scale*v to each channel of base, saturating at 255.
// v is expected in [0, 1].
func FillTintRGBA(buf []byte, values []float64, base color.RGBA, scale float64) {
	for i, v := range values {
		add := int(v * scale)
		p := i * 4
		buf[p+0] = saturate(int(base.R) + add)
		buf[p+1] = saturate(int(base.G) + add)
		buf[p+2] = saturate(int(base.B) + add)
		buf[p+3] = 0xff
	}
}

// FillMaskRGBA paints on over every pixel whose mask entry is set and leaves
// the others untouched.
func FillMaskRGBA(buf []byte, mask []bool, on color.Color) {
	r, g, b, a := on.RGBA()
	for i, m := range mask {
		if !m {
			continue
		}
		base := i * 4
		buf[base+0] = uint8(r >> 8)
		buf[base+1] = uint8(g >> 8)
		buf[base+2] = uint8(b >> 8)
		buf[base+3] = uint8(a >> 8)
	}
}

func saturate(v int) uint8 {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return uint8(v)
}

func unit(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, v*255)))
}
