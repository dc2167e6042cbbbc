package engine

import (
	"fmt"
	"time"
)

// PointerTop is the pointer position used throughout: 0° is the positive
// x-axis and angles grow clockwise on screen, so 270° is twelve o'clock.
const PointerTop = 270.0

// Rotation is an absolute wheel rotation, split into whole turns and a
// remainder in [0, 360). Keeping the turns separate means the stopping angle
// survives any number of extra revolutions without rounding.
type Rotation struct {
	Turns   int     `json:"turns"`
	Degrees float64 `json:"degrees"`
}

func (r Rotation) Absolute() float64 {
	return float64(r.Turns)*FullTurn + r.Degrees
}

// Normalize drops the whole turns, keeping the pointer-relative position.
func (r Rotation) Normalize() Rotation {
	return Rotation{Degrees: Mod360(r.Degrees)}
}

type SpinConfig struct {
	MinFullRotations int
	MaxFullRotations int
	MinDuration      time.Duration
	MaxDuration      time.Duration
	PointerAngle     float64
}

func DefaultSpinConfig() SpinConfig {
	return SpinConfig{
		MinFullRotations: 3,
		MaxFullRotations: 8,
		MinDuration:      3 * time.Second,
		MaxDuration:      5 * time.Second,
		PointerAngle:     PointerTop,
	}
}

func (c SpinConfig) Validate() error {
	if c.MinFullRotations < 1 || c.MaxFullRotations < c.MinFullRotations {
		return fmt.Errorf("%w: full rotations must satisfy 1 <= min <= max, got %d..%d",
			ErrInvalidConfig, c.MinFullRotations, c.MaxFullRotations)
	}
	if c.MinDuration <= 0 || c.MaxDuration < c.MinDuration {
		return fmt.Errorf("%w: duration must satisfy 0 < min <= max, got %s..%s",
			ErrInvalidConfig, c.MinDuration, c.MaxDuration)
	}
	if c.PointerAngle < 0 || c.PointerAngle >= FullTurn {
		return fmt.Errorf("%w: pointer angle %v outside [0, 360)", ErrInvalidConfig, c.PointerAngle)
	}
	return nil
}

// Plan is everything needed to animate one spin. It is fixed when the spin
// starts and never recomputed.
type Plan struct {
	WinningIndex int           `json:"winning_index"`
	ArcSize      float64       `json:"arc_size"`
	Center       float64       `json:"center"`
	StopAngle    float64       `json:"stop_angle"`
	ExtraTurns   int           `json:"extra_turns"`
	Start        Rotation      `json:"start"`
	Target       Rotation      `json:"target"`
	Duration     time.Duration `json:"duration"`
}

// StopAngleFor returns the rotation (mod 360) that puts the centre of sector
// idx under the pointer.
func StopAngleFor(idx, n int, pointerAngle float64) (float64, error) {
	arc, err := ArcSize(n)
	if err != nil {
		return 0, err
	}
	if idx < 0 || idx >= n {
		return 0, ErrIndexOutOfRange
	}
	center := float64(idx)*arc + arc/2
	return Mod360(pointerAngle - center), nil
}

// PlanSpin computes the target rotation and duration for a spin that lands on
// winningIndex, moving forward from current by at least the drawn number of
// full revolutions.
func PlanSpin(winningIndex, n int, current Rotation, cfg SpinConfig, rng RNG) (Plan, error) {
	if err := cfg.Validate(); err != nil {
		return Plan{}, err
	}
	arc, err := ArcSize(n)
	if err != nil {
		return Plan{}, err
	}
	stop, err := StopAngleFor(winningIndex, n, cfg.PointerAngle)
	if err != nil {
		return Plan{}, err
	}

	extra := cfg.MinFullRotations + rng.Intn(cfg.MaxFullRotations-cfg.MinFullRotations+1)

	turns := current.Turns + extra
	if stop < current.Degrees {
		// Landing on stop within this turn would mean turning backwards.
		turns++
	}

	span := (cfg.MaxDuration - cfg.MinDuration).Milliseconds()
	duration := cfg.MinDuration + time.Duration(rng.Intn(int(span)+1))*time.Millisecond

	return Plan{
		WinningIndex: winningIndex,
		ArcSize:      arc,
		Center:       float64(winningIndex)*arc + arc/2,
		StopAngle:    stop,
		ExtraTurns:   extra,
		Start:        current,
		Target:       Rotation{Turns: turns, Degrees: stop},
		Duration:     duration,
	}, nil
}
