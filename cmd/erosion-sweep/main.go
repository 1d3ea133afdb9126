// Command erosion-sweep runs the erosion loop over a grid of parameters and
// ranks the scenarios by how much they flatten the terrain.
package main

import (
	"flag"
	"fmt"
	"log"
	"runtime"
	"sort"
	"sync"
	"time"

	"heightfield/internal/core"
	"heightfield/internal/hydro"
	"heightfield/internal/pipeline"
)

type paramSet struct {
	k      float64
	m      float64
	smooth int
	mode   hydro.BreachMode
}

func (p paramSet) String() string {
	return fmt.Sprintf("k=%.3f m=%.2f smooth=%d mode=%s", p.k, p.m, p.smooth, p.mode)
}

type scenarioResult struct {
	params        paramSet
	slopeBefore   float64
	slopeAfter    float64
	reduction     float64
	maxDrop       float64
	remainingPits int
	streamCells   int
	minElevation  float64
	maxElevation  float64
}

func main() {
	base := pipeline.DefaultConfig()
	base.Width = 128
	base.Height = 128
	base.Terrain.Pits = 32
	base.Bind(flag.CommandLine)
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	top := flag.Int("top", 5, "results to print")
	flag.Parse()

	grid, err := pipeline.Load(base)
	if err != nil {
		log.Fatalf("load: %v", err)
	}

	kOptions := []float64{0.02, 0.05, 0.1, 0.2}
	mOptions := []float64{0.3, 0.5, 0.7}
	smoothOptions := []int{0, 1, 3}
	modeOptions := []hydro.BreachMode{hydro.CompleteBreaching, hydro.FillDepressions}

	var sets []paramSet
	for _, k := range kOptions {
		for _, m := range mOptions {
			for _, smooth := range smoothOptions {
				for _, mode := range modeOptions {
					sets = append(sets, paramSet{k: k, m: m, smooth: smooth, mode: mode})
				}
			}
		}
	}

	fmt.Printf("Sweeping %d parameter sets (%d workers, %d iterations, %dx%d grid)\n",
		len(sets), *workers, base.Iterations, grid.Nx(), grid.Ny())

	jobs := make(chan paramSet)
	results := make(chan scenarioResult)
	var wg sync.WaitGroup

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for params := range jobs {
				results <- runScenario(base, grid, params)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for _, params := range sets {
			jobs <- params
		}
		close(jobs)
	}()

	start := time.Now()
	var all []scenarioResult
	for res := range results {
		all = append(all, res)
		if res.remainingPits > 0 {
			fmt.Printf("Scenario left %d pits: %s\n", res.remainingPits, res.params)
		}
	}

	sort.Slice(all, func(i, j int) bool { return all[i].reduction > all[j].reduction })
	elapsed := time.Since(start)

	fmt.Printf("\nTop %d results (elapsed %s):\n", *top, elapsed.Round(time.Millisecond))
	for i := 0; i < len(all) && i < *top; i++ {
		res := all[i]
		fmt.Printf("%2d) slope %.4f -> %.4f (-%.1f%%) maxDrop=%.4f streams=%d pits=%d elev[%.2f,%.2f] %s\n",
			i+1, res.slopeBefore, res.slopeAfter, 100*res.reduction, res.maxDrop, res.streamCells,
			res.remainingPits, res.minElevation, res.maxElevation, res.params)
	}
}

func runScenario(base pipeline.Config, grid *core.Grid, params paramSet) scenarioResult {
	cfg := base
	cfg.Erosion.K = params.k
	cfg.Erosion.AreaExponent = params.m
	cfg.SmoothPasses = params.smooth
	cfg.Breach.Mode = params.mode

	p := pipeline.New(cfg, grid, nil)
	before := pipeline.MeanSlope(p.Grid())

	var maxDrop float64
	for _, r := range p.Run() {
		if r.MaxDrop > maxDrop {
			maxDrop = r.MaxDrop
		}
	}
	after := pipeline.MeanSlope(p.Grid())

	streams := 0
	for _, s := range p.StreamMask() {
		if s {
			streams++
		}
	}

	reduction := 0.0
	if before > 0 {
		reduction = (before - after) / before
	}
	return scenarioResult{
		params:        params,
		slopeBefore:   before,
		slopeAfter:    after,
		reduction:     reduction,
		maxDrop:       maxDrop,
		remainingPits: hydro.CountPits(p.Grid()),
		streamCells:   streams,
		minElevation:  p.Grid().Min(),
		maxElevation:  p.Grid().Max(),
	}
}
