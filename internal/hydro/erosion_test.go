package hydro

import (
	"math"
	"slices"
	"strings"
	"testing"

	"heightfield/internal/core"
)

func TestStreamPowerZeroK(t *testing.T) {
	g := randomGrid(t, 12, 12, 5)
	before := slices.Clone(g.Cells())
	res := StreamPower(g, ErosionConfig{K: 0, AreaExponent: 0.5, SlopeExponent: 1})
	if !slices.Equal(before, g.Cells()) {
		t.Fatalf("K=0 changed elevations")
	}
	if res.MaxDrop != 0 || res.MeanDrop != 0 {
		t.Fatalf("drops got %v/%v, expected 0/0", res.MaxDrop, res.MeanDrop)
	}
}

func TestStreamPowerLowers(t *testing.T) {
	g := randomGrid(t, 12, 12, 9)
	before := slices.Clone(g.Cells())
	res := StreamPower(g, DefaultErosionConfig())
	for idx, v := range g.Cells() {
		if v > before[idx] {
			t.Fatalf("cell %d rose from %v to %v", idx, before[idx], v)
		}
	}
	if res.MaxDrop <= 0 {
		t.Fatalf("max drop got %v, expected > 0", res.MaxDrop)
	}
	if res.MeanDrop > res.MaxDrop {
		t.Fatalf("mean drop %v exceeds max drop %v", res.MeanDrop, res.MaxDrop)
	}
}

func TestStreamPowerRampValue(t *testing.T) {
	g := ramp(t, 5, 3, 3)
	res := StreamPower(g, DefaultErosionConfig())
	// Column 2 collects three cells of area and has slope 3.
	want := 6 - 0.1*math.Sqrt(3)*3
	if got := g.At(2, 1); math.Abs(got-want) > 1e-12 {
		t.Fatalf("eroded (2,1) got %v, expected %v", got, want)
	}
	if got := res.Area.At(2, 1); got != 3 {
		t.Fatalf("area at (2,1) got %v, expected 3", got)
	}
}

func TestHydroStagesRegistered(t *testing.T) {
	stages := core.Stages()
	for _, name := range []string{"breach", "fill", "stream-power"} {
		if _, ok := stages[name]; !ok {
			t.Fatalf("stage %q not registered", name)
		}
	}

	g := basin(t)
	msg := stages["breach"](nil).Apply(g)
	if !strings.Contains(msg, "pits=1") {
		t.Fatalf("breach stage report got %q, expected it to mention pits=1", msg)
	}
	if CountPits(g) != 0 {
		t.Fatalf("breach stage left pits behind")
	}

	sp := stages["stream-power"](map[string]string{"k": "0", "iterations": "3"})
	if got := sp.Name(); got != "stream-power" {
		t.Fatalf("stage name got %q", got)
	}
	before := slices.Clone(g.Cells())
	sp.Apply(g)
	if !slices.Equal(before, g.Cells()) {
		t.Fatalf("stream-power with k=0 changed elevations")
	}
}
