package core

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// ErrInvalidKernel reports a kernel that is not an odd square of weights.
var ErrInvalidKernel = errors.New("kernel must be an odd square of weights")

// Kernel is a square convolution stencil stored row-major.
type Kernel struct {
	Size    int
	Weights []float64
}

// NewKernel validates and copies a size*size stencil.
func NewKernel(size int, weights []float64) (Kernel, error) {
	if size < 1 || size%2 == 0 {
		return Kernel{}, fmt.Errorf("size %d: %w", size, ErrInvalidKernel)
	}
	if len(weights) != size*size {
		return Kernel{}, fmt.Errorf("%d weights for size %d: %w", len(weights), size, ErrInvalidKernel)
	}
	return Kernel{Size: size, Weights: append([]float64(nil), weights...)}, nil
}

// Radius returns the number of cells the kernel reaches from its centre.
func (k Kernel) Radius() int { return k.Size / 2 }

// Sum returns the total weight of the kernel.
func (k Kernel) Sum() float64 { return floats.Sum(k.Weights) }

// Normalized returns a copy whose weights sum to one. Zero-sum kernels are
// returned unchanged.
func (k Kernel) Normalized() Kernel {
	out := Kernel{Size: k.Size, Weights: append([]float64(nil), k.Weights...)}
	if s := k.Sum(); s != 0 {
		floats.Scale(1/s, out.Weights)
	}
	return out
}

var (
	// SmoothKernel is the 3x3 binomial filter.
	SmoothKernel = Kernel{Size: 3, Weights: scaled(1.0/16, []float64{
		1, 2, 1,
		2, 4, 2,
		1, 2, 1,
	})}
	// BlurKernel is the 3x3 box filter.
	BlurKernel = Kernel{Size: 3, Weights: scaled(1.0/9, []float64{
		1, 1, 1,
		1, 1, 1,
		1, 1, 1,
	})}
	// GaussKernel is the 5x5 binomial filter.
	GaussKernel = Kernel{Size: 5, Weights: scaled(1.0/256, []float64{
		1, 4, 6, 4, 1,
		4, 16, 24, 16, 4,
		6, 24, 36, 24, 6,
		4, 16, 24, 16, 4,
		1, 4, 6, 4, 1,
	})}
)

func scaled(s float64, w []float64) []float64 {
	floats.Scale(s, w)
	return w
}

// KernelByName resolves "smooth", "blur" or "gauss".
func KernelByName(name string) (Kernel, bool) {
	switch name {
	case "smooth":
		return SmoothKernel, true
	case "blur":
		return BlurKernel, true
	case "gauss":
		return GaussKernel, true
	}
	return Kernel{}, false
}

// Convolve returns the kernel-weighted sum of src around every cell.
// Neighbours outside the grid are skipped, so border cells see less total
// weight.
func Convolve(src []float64, nx, ny int, k Kernel) []float64 {
	out := make([]float64, len(src))
	r := k.Radius()
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			var acc float64
			for kj := -r; kj <= r; kj++ {
				pj := j + kj
				if pj < 0 || pj >= ny {
					continue
				}
				row := (kj + r) * k.Size
				for ki := -r; ki <= r; ki++ {
					pi := i + ki
					if pi < 0 || pi >= nx {
						continue
					}
					acc += k.Weights[row+ki+r] * src[pj*nx+pi]
				}
			}
			out[j*nx+i] = acc
		}
	}
	return out
}

// Convolve filters the grid with k. The backing storage is swapped only
// once the full output exists.
func (g *Grid) Convolve(k Kernel) {
	g.data = Convolve(g.data, g.nx, g.ny, k)
	g.UpdateMinMax()
}

// Smooth applies SmoothKernel.
func (g *Grid) Smooth() { g.Convolve(SmoothKernel) }

// Blur applies BlurKernel.
func (g *Grid) Blur() { g.Convolve(BlurKernel) }

// Gauss applies GaussKernel.
func (g *Grid) Gauss() { g.Convolve(GaussKernel) }
