package demio

import (
	"fmt"
	"image"
	_ "image/png"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	_ "golang.org/x/image/bmp"

	"heightfield/internal/core"
)

// LoadImage decodes a PNG or BMP heightmap and uses the 8-bit red channel of
// each pixel as its elevation. The grid spans [a, b].
func LoadImage(path string, a, b mgl64.Vec2) (*core.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return FromImage(img, a, b)
}

// FromImage converts the red channel of img into a grid spanning [a, b].
func FromImage(img image.Image, a, b mgl64.Vec2) (*core.Grid, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	elev := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, _, _, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			elev[y*w+x] = float64(uint8(r >> 8))
		}
	}
	return core.NewGrid(w, h, a, b, elev)
}
