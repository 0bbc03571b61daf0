package engine

import (
	"hydration_monitor/internal/config"
	"hydration_monitor/internal/models"
)

// detection is a classified event before it receives an id and a severity.
type detection struct {
	kind    models.EventKind
	payload map[string]float64
}

// classify compares two consecutive bottle states and returns the events they
// imply, in priority order. Weight-based events need a weight change; the
// orientation check runs on every sample.
func classify(cfg config.Config, old, cur bottle) []detection {
	var out []detection

	oldLevel, level := old.level(cfg), cur.level(cfg)
	delta := cur.weightG - old.weightG

	if delta != 0 {
		veryEmpty := level <= cfg.VeryEmptyThreshold
		if veryEmpty {
			out = append(out, detection{
				kind:    models.EventVeryEmpty,
				payload: map[string]float64{"drink_level_g": level, "weight_g": cur.weightG},
			})
		}
		if !veryEmpty && !old.empty && level <= cfg.EmptyThreshold {
			out = append(out, detection{
				kind:    models.EventEmpty,
				payload: map[string]float64{"drink_level_g": level},
			})
		}

		if delta > 0 {
			full := cfg.FullLevel()
			switch {
			case level >= full && oldLevel < full:
				out = append(out, detection{
					kind:    models.EventFilledUp,
					payload: map[string]float64{"weight_delta_g": delta, "drink_level_g": level},
				})
			case delta > cfg.DrinkCorrectionThreshold:
				out = append(out, detection{
					kind:    models.EventPartialFill,
					payload: map[string]float64{"weight_delta_g": delta},
				})
			default:
				out = append(out, detection{
					kind:    models.EventDrinkCorrection,
					payload: map[string]float64{"weight_delta_g": delta},
				})
			}
		}
	}

	if tilt := tiltDeg(cur.orientation); tilt > cfg.OrientationThreshold {
		out = append(out, detection{
			kind:    models.EventBadOrientation,
			payload: map[string]float64{"tilt_deg": tilt},
		})
	}
	return out
}
