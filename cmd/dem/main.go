// Command dem loads or generates a heightfield, runs breaching and
// stream-power erosion, and writes the requested exports.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"heightfield/internal/core"
	"heightfield/internal/pipeline"
)

func main() {
	cfg := pipeline.DefaultConfig()
	cfg.Bind(flag.CommandLine)
	stages := flag.String("stages", "", "comma separated stage chain to run instead of the erosion loop (see -list-stages)")
	stageOpts := flag.String("stage-opts", "", "key=value pairs passed to every stage, comma separated")
	list := flag.Bool("list-stages", false, "print the registered stages and exit")
	quiet := flag.Bool("q", false, "suppress progress logging")
	flag.Parse()

	if *list {
		for _, name := range core.StageNames() {
			fmt.Println(name)
		}
		return
	}

	logger := log.New(os.Stderr, "dem: ", log.LstdFlags)
	if *quiet {
		logger.SetOutput(io.Discard)
	}

	grid, err := pipeline.Load(cfg)
	if err != nil {
		log.Fatalf("load: %v", err)
	}
	fmt.Printf("grid %dx%d, elevation [%.4g, %.4g]\n", grid.Nx(), grid.Ny(), grid.Min(), grid.Max())

	start := time.Now()
	p := pipeline.New(cfg, grid, logger)
	if *stages != "" {
		opts := parseOpts(*stageOpts)
		registry := core.Stages()
		for _, name := range strings.Split(*stages, ",") {
			name = strings.TrimSpace(name)
			factory, ok := registry[name]
			if !ok {
				log.Fatalf("unknown stage %q (have %s)", name, strings.Join(core.StageNames(), ", "))
			}
			fmt.Println(factory(opts).Apply(p.Grid()))
		}
		p.Refresh()
	} else {
		for _, r := range p.Run() {
			fmt.Println(r)
		}
	}
	fmt.Printf("done in %s, mean slope %.4g\n", time.Since(start).Round(time.Millisecond), pipeline.MeanSlope(p.Grid()))

	if len(cfg.Exports) == 0 {
		return
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	paths, err := p.Export(ctx, cfg.OutDir)
	if err != nil {
		log.Fatalf("export: %v", err)
	}
	fmt.Printf("wrote %d files to %s\n", len(paths), cfg.OutDir)
}

func parseOpts(s string) map[string]string {
	opts := map[string]string{}
	for _, kv := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(kv), "=")
		if ok {
			opts[k] = v
		}
	}
	return opts
}
