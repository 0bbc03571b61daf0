// Package engine turns bottle samples and elapsed time into hydration events.
//
// The Engine is a single owned aggregate: bottle state, severity counters,
// timers and the event log change only through its methods, and it has no
// internal locking. Callers serialize access. Time is always supplied by the
// caller, so the engine never reads the wall clock or sleeps.
package engine

import (
	"math/rand"
	"time"

	"hydration_monitor/internal/config"
	"hydration_monitor/internal/models"

	"github.com/google/uuid"
)

// drinkNoiseG is the smallest weight decrease counted as a drink.
const drinkNoiseG = 1.0

// RandomSource supplies uniform draws in [0, 1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// processRand uses the process-wide generator of math/rand.
type processRand struct{}

func (processRand) Float64() float64 { return rand.Float64() }

// Option customizes an Engine.
type Option func(*Engine)

// WithRandom injects the jitter source, e.g. rand.New(rand.NewSource(1)) in tests.
func WithRandom(r RandomSource) Option {
	return func(e *Engine) { e.rng = r }
}

// WithIDGenerator replaces the uuid record ids.
func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) { e.newID = gen }
}

// Engine coordinates classification, severity and timers.
type Engine struct {
	cfg      config.Config
	tracker  *tracker
	timers   *scheduler
	log      EventLog
	counters severityCounters
	rng      RandomSource
	newID    func() string

	startedAt   time.Time
	lastDrinkAt time.Time

	dayYear         int
	dayOfYear       int
	dailyConsumedML float64
}

// New builds an engine whose clock starts at start. cfg must already be valid.
func New(cfg config.Config, start time.Time, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:         cfg,
		tracker:     newTracker(cfg),
		timers:      newScheduler(cfg.MinTimerGap()),
		counters:    severityCounters{},
		rng:         processRand{},
		newID:       uuid.NewString,
		startedAt:   start,
		lastDrinkAt: start,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.dayYear, e.dayOfYear = start.Year(), start.YearDay()

	intervals := map[models.TimerKind]intervalFunc{
		models.TimerEmptyReminder:       fixedInterval(cfg.EmptyReminderEvery()),
		models.TimerBadOrientation:      fixedInterval(cfg.BadOrientationEvery()),
		models.TimerDrinkReminder:       e.drinkInterval,
		models.TimerRecalibrateReminder: fixedInterval(0),
	}
	for _, kind := range models.TimerKinds {
		e.timers.add(kind, intervals[kind])
	}

	e.timers.armAt(models.TimerRecalibrateReminder, start.Add(cfg.RecalibrateAfter()))
	e.refreshTimers(start)
	return e, nil
}

func fixedInterval(d time.Duration) intervalFunc {
	return func(time.Time) time.Duration { return d }
}

func (e *Engine) drinkInterval(now time.Time) time.Duration {
	return DrinkReminderInterval(e.cfg, now.Sub(e.lastDrinkAt), e.rng.Float64())
}

// SubmitSample applies a reading and returns the events it caused. An invalid
// sample is dropped with an error wrapping ErrInvalidSample.
func (e *Engine) SubmitSample(s models.Sample, now time.Time) ([]models.EventRecord, error) {
	old, cur, err := e.tracker.apply(s)
	if err != nil {
		return nil, err
	}
	e.rollDay(now)

	if drop := old.weightG - cur.weightG; drop >= drinkNoiseG {
		e.dailyConsumedML += drop
		e.lastDrinkAt = now
		e.timers.reset(models.TimerDrinkReminder, now)
	}

	var records []models.EventRecord
	for _, d := range classify(e.cfg, old, cur) {
		switch d.kind {
		case models.EventVeryEmpty:
			e.tracker.recalibrate(now)
			e.tracker.cur.lastVeryEmptyAt = now
			e.tracker.cur.empty = true
			e.timers.activate(models.TimerEmptyReminder, now)
			e.timers.armAt(models.TimerRecalibrateReminder, now.Add(e.cfg.RecalibrateAfter()))
		case models.EventEmpty:
			e.tracker.cur.empty = true
			e.timers.activate(models.TimerEmptyReminder, now)
		}
		records = append(records, e.emit(d.kind, now, models.SourceSample, "", d.payload))
	}

	e.refreshTimers(now)
	return records, nil
}

// ForceRecalibrate zeroes the drink level at the current weight.
func (e *Engine) ForceRecalibrate(now time.Time) {
	e.tracker.recalibrate(now)
	e.refreshTimers(now)
}

// ForceDrinkReminder fires the drink reminder now. Inside the timer gap the
// fire is deferred to the end of the gap and deferred is true.
func (e *Engine) ForceDrinkReminder(now time.Time) (records []models.EventRecord, deferred bool) {
	t := e.timers.get(models.TimerDrinkReminder)
	if e.timers.inGap(now) {
		at := e.timers.lastAnyFiredAt.Add(e.timers.gap)
		if t.nextFireAt.IsZero() || at.Before(t.nextFireAt) {
			t.nextFireAt = at
		}
		t.forced = true
		return nil, true
	}
	return []models.EventRecord{e.fireTimer(t, now, models.SourceManual)}, false
}

// Tick fires every timer that is due at now, subject to the timer gap.
func (e *Engine) Tick(now time.Time) []models.EventRecord {
	e.rollDay(now)
	e.refreshTimers(now)

	var records []models.EventRecord
	for i := 0; i < len(e.timers.order); i++ {
		t := e.timers.next(now)
		if t == nil {
			break
		}
		records = append(records, e.fireTimer(t, now, models.SourceTimer))
	}
	return records
}

// ClearEvents empties the event log and resets every severity counter.
func (e *Engine) ClearEvents() {
	e.log.Clear()
	e.counters = severityCounters{}
}

// EventLog returns the emitted records in emission order.
func (e *Engine) EventLog() []models.EventRecord { return e.log.All() }

// TimerStatuses reports each timer's activation and schedule.
func (e *Engine) TimerStatuses() map[models.TimerKind]models.TimerStatus {
	return e.timers.statuses()
}

// CurrentState returns a snapshot of the bottle.
func (e *Engine) CurrentState() models.BottleState {
	b := e.tracker.cur
	level := b.level(e.cfg)
	st := models.BottleState{
		WeightG:           b.weightG,
		TareOffsetG:       b.tareOffsetG,
		Orientation:       b.orientation,
		TiltDeg:           tiltDeg(b.orientation),
		DrinkLevelG:       level,
		DrinkLevelPercent: level / e.cfg.Capacity() * 100,
		Empty:             b.empty,
		DailyConsumedML:   e.dailyConsumedML,
		DailyGoalML:       e.cfg.DailyGoalML,
		DailyProgress:     e.dailyConsumedML / e.cfg.DailyGoalML * 100,
		LastDrinkAt:       e.lastDrinkAt,
	}
	if !b.lastVeryEmptyAt.IsZero() {
		at := b.lastVeryEmptyAt
		st.LastVeryEmptyAt = &at
	}
	if !b.lastRecalibrationAt.IsZero() {
		at := b.lastRecalibrationAt
		st.LastRecalibrationAt = &at
	}
	return st
}

// refreshTimers re-evaluates the activation predicates against the current state.
func (e *Engine) refreshTimers(now time.Time) {
	b := e.tracker.cur

	if b.empty && b.level(e.cfg) > e.cfg.EmptyThreshold {
		e.tracker.cur.empty = false
		b.empty = false
	}
	if b.empty {
		e.timers.activate(models.TimerEmptyReminder, now)
	} else {
		e.timers.deactivate(models.TimerEmptyReminder)
	}

	if tiltDeg(b.orientation) > e.cfg.OrientationThreshold {
		e.timers.activate(models.TimerBadOrientation, now)
	} else {
		e.timers.deactivate(models.TimerBadOrientation)
	}

	if inHydrationWindow(e.cfg, now) {
		e.timers.activate(models.TimerDrinkReminder, now)
	} else {
		e.timers.deactivate(models.TimerDrinkReminder)
	}
}

// fireTimer turns a timer fire into an event record.
func (e *Engine) fireTimer(t *timer, now time.Time, source models.EventSource) models.EventRecord {
	b := e.tracker.cur
	sinceDrink := now.Sub(e.lastDrinkAt)
	next := e.timers.fire(t, now)

	var (
		kind    models.EventKind
		payload map[string]float64
	)
	switch t.kind {
	case models.TimerEmptyReminder:
		kind = models.EventEmptyReminder
		payload = map[string]float64{"drink_level_g": b.level(e.cfg)}
	case models.TimerBadOrientation:
		kind = models.EventBadOrientation
		payload = map[string]float64{"tilt_deg": tiltDeg(b.orientation)}
	case models.TimerDrinkReminder:
		kind = models.EventDrinkReminder
		payload = map[string]float64{
			"minutes_since_drink": sinceDrink.Minutes(),
			"interval_minutes":    next.Minutes(),
			"daily_consumed_ml":   e.dailyConsumedML,
			"expected_ml":         hoursIntoWindow(e.cfg, now) * e.cfg.ReasonableMLPerHour,
		}
	case models.TimerRecalibrateReminder:
		kind = models.EventRecalibrateReminder
		anchor := e.startedAt
		if !b.lastVeryEmptyAt.IsZero() {
			anchor = b.lastVeryEmptyAt
		}
		payload = map[string]float64{"days_since_very_empty": now.Sub(anchor).Hours() / 24}
	}
	return e.emit(kind, now, source, t.kind, payload)
}

func (e *Engine) emit(kind models.EventKind, now time.Time, source models.EventSource, timer models.TimerKind, payload map[string]float64) models.EventRecord {
	rec := models.EventRecord{
		ID:        e.newID(),
		Kind:      kind,
		Timestamp: now,
		Severity:  e.counters.next(kind),
		Source:    source,
		Timer:     timer,
		Payload:   payload,
	}
	e.log.Append(rec)
	return rec
}

// rollDay resets the daily consumption when now falls on a new local day.
func (e *Engine) rollDay(now time.Time) {
	if y, d := now.Year(), now.YearDay(); y != e.dayYear || d != e.dayOfYear {
		e.dayYear, e.dayOfYear = y, d
		e.dailyConsumedML = 0
	}
}
