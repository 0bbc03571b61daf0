package models

import "time"

// TimerKind names one of the engine's logical timers.
type TimerKind string

const (
	TimerEmptyReminder       TimerKind = "empty_reminder"
	TimerBadOrientation      TimerKind = "bad_orientation"
	TimerDrinkReminder       TimerKind = "drink_reminder"
	TimerRecalibrateReminder TimerKind = "recalibrate_reminder"
)

// TimerKinds lists timers from highest to lowest firing priority.
var TimerKinds = []TimerKind{
	TimerEmptyReminder,
	TimerBadOrientation,
	TimerDrinkReminder,
	TimerRecalibrateReminder,
}

// TimerStatus is the externally visible state of a timer.
type TimerStatus struct {
	Active      bool       `json:"active"`
	NextFireAt  *time.Time `json:"next_fire_at,omitempty"`
	LastFiredAt *time.Time `json:"last_fired_at,omitempty"`
}
