package engine

import (
	"fmt"
	"math"
	"time"

	"hydration_monitor/internal/config"
	"hydration_monitor/internal/models"
)

// bottle is the engine-owned state of the physical bottle.
type bottle struct {
	weightG             float64
	tareOffsetG         float64
	orientation         models.Vector
	empty               bool
	lastVeryEmptyAt     time.Time
	lastRecalibrationAt time.Time
}

// level is the drink mass, always within [0, capacity].
func (b bottle) level(cfg config.Config) float64 {
	return clamp(b.weightG-b.tareOffsetG-cfg.MinWeight, 0, cfg.Capacity())
}

// tracker applies samples to the single owned bottle state.
type tracker struct {
	cfg config.Config
	cur bottle
}

func newTracker(cfg config.Config) *tracker {
	return &tracker{
		cfg: cfg,
		cur: bottle{weightG: cfg.MinWeight, orientation: models.Upright},
	}
}

// apply validates s and makes it the current state. On error the state is unchanged.
func (t *tracker) apply(s models.Sample) (old, cur bottle, err error) {
	if err := validateSample(t.cfg, s); err != nil {
		return t.cur, t.cur, err
	}
	old = t.cur
	t.cur.weightG = s.WeightG
	t.cur.orientation = s.Orientation
	return old, t.cur, nil
}

// recalibrate maps the current weight to an empty bottle.
func (t *tracker) recalibrate(now time.Time) {
	t.cur.tareOffsetG = t.cur.weightG - t.cfg.MinWeight
	t.cur.lastRecalibrationAt = now
}

func validateSample(cfg config.Config, s models.Sample) error {
	for _, v := range []float64{s.WeightG, s.Orientation.X, s.Orientation.Y, s.Orientation.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite value", ErrInvalidSample)
		}
	}
	if s.WeightG < 0 {
		return fmt.Errorf("%w: negative weight %.1f g", ErrInvalidSample, s.WeightG)
	}
	if ceiling := cfg.SampleCeiling(); s.WeightG > ceiling {
		return fmt.Errorf("%w: weight %.1f g above %.0f g", ErrInvalidSample, s.WeightG, ceiling)
	}
	if norm(s.Orientation) == 0 {
		return fmt.Errorf("%w: zero orientation vector", ErrInvalidSample)
	}
	return nil
}

// tiltDeg is the angle between v and the vertical axis, in degrees.
func tiltDeg(v models.Vector) float64 {
	n := norm(v)
	if n == 0 {
		return 0
	}
	return math.Acos(clamp(v.Z/n, -1, 1)) * 180 / math.Pi
}

func norm(v models.Vector) float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
