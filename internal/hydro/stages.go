package hydro

import (
	"fmt"

	"heightfield/internal/core"
)

type breachStage struct {
	name string
	cfg  BreachConfig
}

func (s breachStage) Name() string { return s.name }

func (s breachStage) Apply(g *core.Grid) string {
	r := Breach(g, s.cfg)
	return fmt.Sprintf("%s: pits=%d raised=%d carved=%d visited=%d remaining=%d",
		s.name, r.Pits, r.Raised, r.Carved, r.Visited, r.Remaining)
}

type streamPowerStage struct {
	cfg        ErosionConfig
	iterations int
}

func (s streamPowerStage) Name() string { return "stream-power" }

func (s streamPowerStage) Apply(g *core.Grid) string {
	var last ErosionResult
	for it := 0; it < s.iterations; it++ {
		last = StreamPower(g, s.cfg)
	}
	return fmt.Sprintf("stream-power x%d: k=%g max drop=%.4g mean drop=%.4g",
		s.iterations, s.cfg.K, last.MaxDrop, last.MeanDrop)
}

func init() {
	core.RegisterStage("breach", func(cfg map[string]string) core.Stage {
		c := DefaultBreachConfig()
		c.Epsilon = core.FloatFromMap(cfg, "epsilon", c.Epsilon)
		return breachStage{name: "breach", cfg: c}
	})
	core.RegisterStage("fill", func(cfg map[string]string) core.Stage {
		c := DefaultBreachConfig()
		c.Mode = FillDepressions
		c.Epsilon = core.FloatFromMap(cfg, "epsilon", c.Epsilon)
		return breachStage{name: "fill", cfg: c}
	})
	core.RegisterStage("stream-power", func(cfg map[string]string) core.Stage {
		c := DefaultErosionConfig()
		c.K = core.FloatFromMap(cfg, "k", c.K)
		c.AreaExponent = core.FloatFromMap(cfg, "m", c.AreaExponent)
		c.SlopeExponent = core.FloatFromMap(cfg, "n", c.SlopeExponent)
		iterations := core.IntFromMap(cfg, "iterations", 1)
		if iterations < 1 {
			iterations = 1
		}
		return streamPowerStage{cfg: c, iterations: iterations}
	})
}
