package engine

import (
	"time"

	"hydration_monitor/internal/models"
)

// intervalFunc yields the delay until a timer's next fire. Zero means the timer
// does not repeat.
type intervalFunc func(now time.Time) time.Duration

// timer is one logical timer. It is inert while inactive unless forced.
type timer struct {
	kind        models.TimerKind
	active      bool
	forced      bool
	nextFireAt  time.Time
	lastFiredAt time.Time
	interval    intervalFunc
}

func (t *timer) pending() bool {
	return (t.active || t.forced) && !t.nextFireAt.IsZero()
}

// scheduler owns the timers and keeps every timer fire at least gap apart
// from the previous one, whatever its kind.
type scheduler struct {
	gap            time.Duration
	order          []*timer // highest priority first
	byKind         map[models.TimerKind]*timer
	lastAnyFiredAt time.Time
}

func newScheduler(gap time.Duration) *scheduler {
	return &scheduler{gap: gap, byKind: make(map[models.TimerKind]*timer)}
}

// add registers a timer. Timers must be added in priority order.
func (s *scheduler) add(kind models.TimerKind, interval intervalFunc) {
	t := &timer{kind: kind, interval: interval}
	s.order = append(s.order, t)
	s.byKind[kind] = t
}

func (s *scheduler) get(kind models.TimerKind) *timer { return s.byKind[kind] }

// place pushes at past the gap window of the last timer fire.
func (s *scheduler) place(at time.Time) time.Time {
	if s.lastAnyFiredAt.IsZero() {
		return at
	}
	if earliest := s.lastAnyFiredAt.Add(s.gap); at.Before(earliest) {
		return earliest
	}
	return at
}

// activate arms an inactive timer from now. Already active timers keep their schedule.
func (s *scheduler) activate(kind models.TimerKind, now time.Time) {
	t := s.byKind[kind]
	if t.active {
		return
	}
	t.active = true
	if t.forced && !t.nextFireAt.IsZero() {
		return
	}
	s.schedule(t, now)
}

// deactivate cancels a pending fire. A forced fire survives deactivation.
func (s *scheduler) deactivate(kind models.TimerKind) {
	t := s.byKind[kind]
	t.active = false
	if !t.forced {
		t.nextFireAt = time.Time{}
	}
}

// reset restarts an active timer's interval from now.
func (s *scheduler) reset(kind models.TimerKind, now time.Time) {
	if t := s.byKind[kind]; t.active {
		s.schedule(t, now)
	}
}

// armAt activates a timer with an explicit fire instant.
func (s *scheduler) armAt(kind models.TimerKind, at time.Time) {
	t := s.byKind[kind]
	t.active = true
	t.nextFireAt = s.place(at)
}

func (s *scheduler) schedule(t *timer, now time.Time) time.Duration {
	iv := t.interval(now)
	if iv <= 0 {
		t.nextFireAt = time.Time{}
		return 0
	}
	t.nextFireAt = s.place(now.Add(iv))
	return iv
}

// inGap reports whether a timer firing at now would violate the gap.
func (s *scheduler) inGap(now time.Time) bool {
	return !s.lastAnyFiredAt.IsZero() && now.Sub(s.lastAnyFiredAt) < s.gap
}

// next resolves the timers due at now and returns the one allowed to fire, or
// nil. Due timers that lose to the gap or to a higher-priority timer are
// pushed forward, so one pass settles every conflict of this instant.
func (s *scheduler) next(now time.Time) *timer {
	var winner *timer
	for _, t := range s.order {
		if !t.pending() || t.nextFireAt.After(now) {
			continue
		}
		if s.inGap(now) {
			t.nextFireAt = s.lastAnyFiredAt.Add(s.gap)
			continue
		}
		if winner == nil {
			winner = t
			continue
		}
		if s.gap > 0 {
			t.nextFireAt = now.Add(s.gap)
		}
	}
	return winner
}

// fire records t as fired at now and derives its next fire instant. It
// returns the newly computed interval, zero when t does not repeat.
func (s *scheduler) fire(t *timer, now time.Time) time.Duration {
	t.lastFiredAt = now
	t.forced = false
	s.lastAnyFiredAt = now
	if !t.active {
		t.nextFireAt = time.Time{}
		return 0
	}
	return s.schedule(t, now)
}

func (s *scheduler) statuses() map[models.TimerKind]models.TimerStatus {
	out := make(map[models.TimerKind]models.TimerStatus, len(s.order))
	for _, t := range s.order {
		st := models.TimerStatus{Active: t.active}
		if !t.nextFireAt.IsZero() {
			at := t.nextFireAt
			st.NextFireAt = &at
		}
		if !t.lastFiredAt.IsZero() {
			at := t.lastFiredAt
			st.LastFiredAt = &at
		}
		out[t.kind] = st
	}
	return out
}
