// Package simulate replays a YAML scenario through the engine in simulated time.
package simulate

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"hydration_monitor/internal/models"

	"gopkg.in/yaml.v3"
)

// Action is what a scenario step does.
type Action string

const (
	ActionSample        Action = "sample"
	ActionRecalibrate   Action = "recalibrate"
	ActionDrinkReminder Action = "drink_reminder"
	ActionClear         Action = "clear"
)

var ErrInvalidScenario = errors.New("invalid scenario")

// Scenario is a decoded and validated scenario file.
type Scenario struct {
	Start    time.Time
	Duration time.Duration
	Tick     time.Duration
	Seed     int64
	Steps    []Step
}

// Step happens At after Start.
type Step struct {
	At     time.Duration
	Action Action
	Sample models.Sample
}

type rawScenario struct {
	Start    string    `yaml:"start"`
	Duration string    `yaml:"duration"`
	Tick     string    `yaml:"tick"`
	Seed     int64     `yaml:"seed"`
	Steps    []rawStep `yaml:"steps"`
}

type rawStep struct {
	At          string    `yaml:"at"`
	Action      string    `yaml:"action"`
	WeightG     *float64  `yaml:"weight_g"`
	Orientation []float64 `yaml:"orientation"`
}

// Load decodes a scenario such as:
//
//	start: 2026-03-02T08:00:00Z
//	duration: 3h
//	tick: 30s
//	steps:
//	  - at: 0s
//	    weight_g: 1500
//	    orientation: [0, 0, 1]
//	  - at: 1h
//	    action: drink_reminder
//
// A step without an action is a sample; a sample without orientation is upright.
func Load(r io.Reader) (Scenario, error) {
	var raw rawScenario
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return Scenario{}, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	return raw.validate()
}

func (raw rawScenario) validate() (Scenario, error) {
	var (
		sc  = Scenario{Seed: raw.Seed}
		err error
	)
	if sc.Start, err = time.Parse(time.RFC3339, raw.Start); err != nil {
		return Scenario{}, fmt.Errorf("%w: start: %v", ErrInvalidScenario, err)
	}
	if sc.Duration, err = time.ParseDuration(raw.Duration); err != nil || sc.Duration <= 0 {
		return Scenario{}, fmt.Errorf("%w: duration %q must be a positive duration", ErrInvalidScenario, raw.Duration)
	}
	sc.Tick = 30 * time.Second
	if raw.Tick != "" {
		if sc.Tick, err = time.ParseDuration(raw.Tick); err != nil || sc.Tick <= 0 {
			return Scenario{}, fmt.Errorf("%w: tick %q must be a positive duration", ErrInvalidScenario, raw.Tick)
		}
	}

	for i, rs := range raw.Steps {
		st, err := rs.validate()
		if err != nil {
			return Scenario{}, fmt.Errorf("%w: step %d: %v", ErrInvalidScenario, i+1, err)
		}
		if st.At > sc.Duration {
			return Scenario{}, fmt.Errorf("%w: step %d at %v is past the duration", ErrInvalidScenario, i+1, st.At)
		}
		sc.Steps = append(sc.Steps, st)
	}
	sort.SliceStable(sc.Steps, func(i, j int) bool { return sc.Steps[i].At < sc.Steps[j].At })
	return sc, nil
}

func (rs rawStep) validate() (Step, error) {
	at, err := time.ParseDuration(rs.At)
	if err != nil || at < 0 {
		return Step{}, fmt.Errorf("at %q must be a non-negative duration", rs.At)
	}
	st := Step{At: at, Action: Action(rs.Action)}
	if st.Action == "" {
		st.Action = ActionSample
	}

	switch st.Action {
	case ActionSample:
		if rs.WeightG == nil {
			return Step{}, errors.New("sample needs weight_g")
		}
		st.Sample = models.Sample{WeightG: *rs.WeightG, Orientation: models.Upright}
		if rs.Orientation != nil {
			if len(rs.Orientation) != 3 {
				return Step{}, fmt.Errorf("orientation needs 3 components, got %d", len(rs.Orientation))
			}
			st.Sample.Orientation = models.Vector{X: rs.Orientation[0], Y: rs.Orientation[1], Z: rs.Orientation[2]}
		}
	case ActionRecalibrate, ActionDrinkReminder, ActionClear:
	default:
		return Step{}, fmt.Errorf("unknown action %q", rs.Action)
	}
	return st, nil
}
