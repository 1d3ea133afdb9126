package core

import (
	"fmt"
	"sort"
)

// Size describes the dimensions of a grid.
type Size struct {
	W int
	H int
}

// Dx and Dy enumerate the 8-connected neighbour offsets, starting west and
// turning clockwise.
var (
	Dx = [8]int{-1, -1, 0, 1, 1, 1, 0, -1}
	Dy = [8]int{0, -1, -1, -1, 0, 1, 1, 1}
)

// Sim is the contract front ends drive: something that owns a grid, can be
// reset and stepped, and renders to one byte per cell.
type Sim interface {
	Name() string
	Size() Size
	Reset(seed int64)
	Step()
	Cells() []uint8
}

// Stage is one in-place transformation of a grid. Apply returns a short
// human-readable report.
type Stage interface {
	Name() string
	Apply(g *Grid) string
}

// StageFactory constructs a Stage using an optional configuration map.
type StageFactory func(cfg map[string]string) Stage

var stages = map[string]StageFactory{}

// RegisterStage adds a stage factory under the provided name.
func RegisterStage(name string, f StageFactory) {
	if name == "" || f == nil {
		return
	}
	stages[name] = f
}

// Stages exposes the registry of available stage factories.
func Stages() map[string]StageFactory {
	return stages
}

// StageNames returns the registered stage names in sorted order.
func StageNames() []string {
	names := make([]string, 0, len(stages))
	for name := range stages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type kernelStage struct {
	name   string
	kernel Kernel
	passes int
}

func (s kernelStage) Name() string { return s.name }

func (s kernelStage) Apply(g *Grid) string {
	for p := 0; p < s.passes; p++ {
		g.Convolve(s.kernel)
	}
	return fmt.Sprintf("%s x%d", s.name, s.passes)
}

func init() {
	for _, name := range []string{"smooth", "blur", "gauss"} {
		name := name
		k, _ := KernelByName(name)
		RegisterStage(name, func(cfg map[string]string) Stage {
			return kernelStage{name: name, kernel: k, passes: IntFromMap(cfg, "passes", 1)}
		})
	}
}
