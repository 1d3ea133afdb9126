package server

import (
	"context"
	"time"

	"heightfield/internal/core"
	"heightfield/internal/pipeline"
)

// LoopConfig paces Loop.
type LoopConfig struct {
	// TPS is the number of iterations per second.
	TPS int
	// MaxSteps stops stepping after that many iterations; 0 runs forever.
	MaxSteps int
}

// Loop steps p at cfg.TPS and broadcasts a snapshot after each iteration
// and after each applied command. It owns p until ctx is done.
func Loop(ctx context.Context, hub *Hub, p *pipeline.Pipeline, cfg LoopConfig) error {
	fs := core.NewFixedStep(cfg.TPS)
	ticker := time.NewTicker(fs.Interval() / 2)
	defer ticker.Stop()

	paused := false
	if err := hub.Broadcast(NewSnapshot(p)); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd := <-hub.Commands():
			wasPaused := paused
			changed := apply(p, cmd, &paused)
			if wasPaused && !paused {
				fs.Resume()
			}
			if changed {
				if err := hub.Broadcast(NewSnapshot(p)); err != nil {
					return err
				}
			}
		case <-ticker.C:
			if paused || !fs.ShouldStep() {
				continue
			}
			if cfg.MaxSteps > 0 && p.StepCount() >= cfg.MaxSteps {
				continue
			}
			p.Step()
			if err := hub.Broadcast(NewSnapshot(p)); err != nil {
				return err
			}
		}
	}
}

// apply executes cmd against p and reports whether anything changed.
func apply(p *pipeline.Pipeline, cmd Command, paused *bool) bool {
	changed := false
	if cmd.Pause != nil {
		*paused = *cmd.Pause
	}
	if cmd.Reset {
		p.Reset(cmd.Seed)
		changed = true
	}
	if cmd.Layer != "" {
		if l, ok := pipeline.ParseLayer(cmd.Layer); ok {
			p.SetLayer(l)
			changed = true
		}
	}
	for key, v := range cmd.Set {
		if p.SetFloatParameter(key, v) || p.SetIntParameter(key, int(v)) {
			changed = true
		}
	}
	return changed
}
