//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"

	"heightfield/internal/app"
	"heightfield/internal/pipeline"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := pipeline.DefaultConfig()
	cfg.Bind(flag.CommandLine)
	view := app.NewConfig()
	view.Bind(flag.CommandLine)
	layer := flag.String("layer", pipeline.LayerShading.String(), "initial layer: elevation, slope, shading, stream or laplacian")
	flag.Parse()

	grid, err := pipeline.Load(cfg)
	if err != nil {
		log.Fatalf("load: %v", err)
	}
	p := pipeline.New(cfg, grid, log.Default())
	if l, ok := pipeline.ParseLayer(*layer); ok {
		p.SetLayer(l)
	} else {
		log.Fatalf("unknown layer %q", *layer)
	}
	p.Prepare()

	game := app.New(p, view)
	size := p.Size()

	ebiten.SetWindowTitle("heightfield - " + cfg.Breach.Mode.String())
	ebiten.SetWindowSize(size.W*view.Scale+view.HUDWidth, size.H*view.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
