package skeleton

import "math"

// Animation is a named set of timelines.
type Animation struct {
	Name      string
	Duration  float64
	Timelines []Timeline
}

// NewAnimation creates an animation whose duration is the latest keyframe of
// its timelines.
func NewAnimation(name string, timelines []Timeline) *Animation {
	a := &Animation{Name: name, Timelines: timelines}
	for _, t := range timelines {
		a.Duration = math.Max(a.Duration, t.Duration())
	}
	return a
}

// Apply poses sk at time. When loop is set, times wrap at Duration.
func (a *Animation) Apply(sk *Skeleton, lastTime, time float64, loop bool, alpha float64) {
	if loop && a.Duration > 0 {
		time = math.Mod(time, a.Duration)
		if lastTime > 0 {
			lastTime = math.Mod(lastTime, a.Duration)
		}
	}
	for _, t := range a.Timelines {
		t.Apply(sk, lastTime, time, alpha)
	}
}
