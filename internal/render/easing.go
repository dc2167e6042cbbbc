package render

import (
	"time"

	"github.com/DoyleJ11/prize-wheel/internal/engine"
)

// EaseOut is a cubic ease-out on [0, 1].
func EaseOut(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	u := 1 - t
	return 1 - u*u*u
}

// Interpolate returns the absolute rotation (degrees) elapsed into a spin.
// Once the duration has passed it returns the plan's target exactly.
func Interpolate(plan engine.Plan, elapsed time.Duration) float64 {
	start, end := plan.Start.Absolute(), plan.Target.Absolute()
	if plan.Duration <= 0 || elapsed >= plan.Duration {
		return end
	}
	t := float64(elapsed) / float64(plan.Duration)
	return start + (end-start)*EaseOut(t)
}
