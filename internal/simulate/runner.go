package simulate

import (
	"fmt"
	"math/rand"
	"time"

	"hydration_monitor/internal/config"
	"hydration_monitor/internal/engine"
	"hydration_monitor/internal/models"
)

// Result is the outcome of a run.
type Result struct {
	// Events holds every emitted record in emission order, including
	// records emitted before a clear step.
	Events   []models.EventRecord
	Rejected int
	Deferred int
	Final    models.BottleState
	Timers   map[models.TimerKind]models.TimerStatus
}

// Run drives a fresh engine through sc. Steps are applied at their own instant;
// the engine ticks every sc.Tick. A step and a tick at the same instant run
// step first.
func Run(cfg config.Config, sc Scenario) (Result, error) {
	n := 0
	eng, err := engine.New(cfg, sc.Start,
		engine.WithRandom(rand.New(rand.NewSource(sc.Seed))),
		engine.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("sim-%d", n)
		}),
	)
	if err != nil {
		return Result{}, err
	}

	var (
		res  Result
		next int
		end  = sc.Start.Add(sc.Duration)
	)
	for now := sc.Start; !now.After(end); now = now.Add(sc.Tick) {
		for ; next < len(sc.Steps) && !sc.Start.Add(sc.Steps[next].At).After(now); next++ {
			apply(eng, sc.Steps[next], sc.Start.Add(sc.Steps[next].At), &res)
		}
		res.Events = append(res.Events, eng.Tick(now)...)
	}
	// steps between the last tick and the end
	for ; next < len(sc.Steps); next++ {
		apply(eng, sc.Steps[next], sc.Start.Add(sc.Steps[next].At), &res)
	}

	res.Final = eng.CurrentState()
	res.Timers = eng.TimerStatuses()
	return res, nil
}

func apply(eng *engine.Engine, st Step, at time.Time, res *Result) {
	switch st.Action {
	case ActionSample:
		recs, err := eng.SubmitSample(st.Sample, at)
		if err != nil {
			res.Rejected++
			return
		}
		res.Events = append(res.Events, recs...)
	case ActionRecalibrate:
		eng.ForceRecalibrate(at)
	case ActionDrinkReminder:
		recs, deferred := eng.ForceDrinkReminder(at)
		if deferred {
			res.Deferred++
		}
		res.Events = append(res.Events, recs...)
	case ActionClear:
		eng.ClearEvents()
	}
}
