package hwscan

import "time"

// TraceFunc is invoked once per kernel stage after it completes: an
// optional sink the dispatcher writes stage durations to, not part of
// core correctness.
type TraceFunc func(stage Stage, dur time.Duration)

func (d *Device) trace(stage Stage, start time.Time) {
	if d == nil || d.Trace == nil {
		return
	}
	d.Trace(stage, time.Since(start))
}
