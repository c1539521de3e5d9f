package model

import "time"

// HangConfig defines the phase durations of the max-hang timer.
type HangConfig struct {
	Prep time.Duration
	Hang time.Duration
	Rest time.Duration
}

// FourByFourConfig defines the timing of the 4x4 tracker.
type FourByFourConfig struct {
	Rest time.Duration
}

// Plan holds the per-session workout targets for the max-hang timer.
type Plan struct {
	Reps     int
	WeightKg float64
}

const (
	// MinReps and MaxReps bound the planned hang count.
	MinReps = 1
	MaxReps = 10
)

// Clamp forces the plan into the supported rep range.
func (plan Plan) Clamp() Plan {
	if plan.Reps < MinReps {
		plan.Reps = MinReps
	}
	if plan.Reps > MaxReps {
		plan.Reps = MaxReps
	}
	return plan
}
