package app

import "flag"

// Config represents the viewer's command-line parameters.
type Config struct {
	Scale    int
	TPS      int
	HUDWidth int
	Paused   bool
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Scale: 3, TPS: 10, HUDWidth: 220}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "erosion iterations per second")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "width of the parameter panel in pixels (0 hides it)")
	fs.BoolVar(&c.Paused, "paused", c.Paused, "start paused")
}
