package pipeline

import "heightfield/internal/core"

// Parameters reports the current configuration for display.
func (p *Pipeline) Parameters() core.ParameterSnapshot {
	c := p.cfg
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Grid",
			Params: []core.Parameter{
				core.IntParam("w", "Width", p.grid.Nx()),
				core.IntParam("h", "Height", p.grid.Ny()),
				core.Int64Param("seed", "Seed", c.Seed),
				core.StringParam("input", "Input", c.Input),
				core.StringParam("layer", "Layer", p.layer.String()),
				core.IntParam("step", "Step", p.step),
			},
		},
		{
			Name: "Breaching",
			Params: []core.Parameter{
				core.StringParam("mode", "Mode", c.Breach.Mode.String()),
				core.FloatParam("epsilon", "Epsilon", c.Breach.Epsilon),
				core.IntParam("smooth", "Smoothing passes", c.SmoothPasses),
				core.StringParam("kernel", "Kernel", c.Kernel),
			},
		},
		{
			Name: "Erosion",
			Params: []core.Parameter{
				core.FloatParam("k", "K", c.Erosion.K),
				core.FloatParam("m", "Area exponent", c.Erosion.AreaExponent),
				core.FloatParam("n", "Slope exponent", c.Erosion.SlopeExponent),
				core.FloatParam("stream_threshold", "Stream threshold", c.StreamThreshold),
			},
		},
	}}
}

// ParameterControls lists the values a viewer may adjust while running.
func (p *Pipeline) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "k", Label: "K", Type: core.ParamTypeFloat, Step: 0.01, Min: 0, HasMin: true},
		{Key: "m", Label: "Area exp", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, HasMin: true, Max: 2, HasMax: true},
		{Key: "n", Label: "Slope exp", Type: core.ParamTypeFloat, Step: 0.1, Min: 0, HasMin: true, Max: 4, HasMax: true},
		{Key: "stream_threshold", Label: "Stream", Type: core.ParamTypeFloat, Step: 8, Min: 1, HasMin: true},
		{Key: "smooth", Label: "Smooth", Type: core.ParamTypeInt, Step: 1, Min: 0, HasMin: true, Max: 16, HasMax: true},
	}
}

// SetFloatParameter updates a float control. Out-of-range values are
// clamped; unknown keys report false.
func (p *Pipeline) SetFloatParameter(key string, value float64) bool {
	ctrl, ok := p.control(key, core.ParamTypeFloat)
	if !ok {
		return false
	}
	value = ctrl.Clamp(value)
	switch key {
	case "k":
		p.cfg.Erosion.K = value
	case "m":
		p.cfg.Erosion.AreaExponent = value
	case "n":
		p.cfg.Erosion.SlopeExponent = value
	case "stream_threshold":
		p.cfg.StreamThreshold = value
	}
	p.dirty = true
	return true
}

// SetIntParameter updates an integer control. Changing the smoothing passes
// takes effect on the next Reset.
func (p *Pipeline) SetIntParameter(key string, value int) bool {
	ctrl, ok := p.control(key, core.ParamTypeInt)
	if !ok {
		return false
	}
	if key == "smooth" {
		p.cfg.SmoothPasses = int(ctrl.Clamp(float64(value)))
	}
	return true
}

func (p *Pipeline) control(key string, t core.ParamType) (core.ParameterControl, bool) {
	for _, c := range p.ParameterControls() {
		if c.Key == key && c.Type == t {
			return c, true
		}
	}
	return core.ParameterControl{}, false
}
