package core

import "time"

// FixedStep paces pipeline iterations for front ends that step a grid
// continuously. At most one pending tick is kept, so a slow iteration
// delays the next one instead of queueing a burst.
type FixedStep struct {
	step    time.Duration
	pending time.Duration
	last    time.Time
}

// NewFixedStep returns a pacer running at tps iterations per second. The
// first call to ShouldStep fires immediately.
func NewFixedStep(tps int) *FixedStep {
	fs := &FixedStep{}
	fs.SetTPS(tps)
	fs.pending = fs.step
	return fs
}

// SetTPS changes the rate; non-positive values select 60.
func (f *FixedStep) SetTPS(tps int) {
	if tps <= 0 {
		tps = 60
	}
	f.step = time.Second / time.Duration(tps)
}

// Interval returns the duration of a single tick.
func (f *FixedStep) Interval() time.Duration { return f.step }

// Resume forgets the time spent while the caller was not polling, so a
// pipeline that was paused does not step the moment it is resumed.
func (f *FixedStep) Resume() {
	f.last = time.Time{}
	f.pending = 0
}

// ShouldStep reports whether the caller should run one iteration now.
func (f *FixedStep) ShouldStep() bool {
	return f.advance(time.Now())
}

func (f *FixedStep) advance(now time.Time) bool {
	if !f.last.IsZero() {
		f.pending += now.Sub(f.last)
	}
	f.last = now
	if f.pending > f.step {
		f.pending = f.step
	}
	if f.pending < f.step {
		return false
	}
	f.pending -= f.step
	return true
}
