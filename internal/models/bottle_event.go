package models

import "time"

// EventKind names a classified hydration event.
type EventKind string

const (
	EventEmpty               EventKind = "empty"
	EventVeryEmpty           EventKind = "very_empty"
	EventFilledUp            EventKind = "filled_up"
	EventPartialFill         EventKind = "partial_fill"
	EventDrinkCorrection     EventKind = "drink_correction"
	EventDrinkReminder       EventKind = "drink_reminder"
	EventBadOrientation      EventKind = "bad_orientation"
	EventEmptyReminder       EventKind = "empty_reminder"
	EventRecalibrateReminder EventKind = "recalibrate_reminder"
)

// EventKinds lists every kind in classification order.
var EventKinds = []EventKind{
	EventVeryEmpty,
	EventEmpty,
	EventFilledUp,
	EventPartialFill,
	EventDrinkCorrection,
	EventBadOrientation,
	EventDrinkReminder,
	EventEmptyReminder,
	EventRecalibrateReminder,
}

// ParseEventKind reports whether s names a known kind.
func ParseEventKind(s string) (EventKind, bool) {
	for _, k := range EventKinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// EventSource tells where a record came from.
type EventSource string

const (
	SourceSample EventSource = "sample"
	SourceTimer  EventSource = "timer"
	SourceManual EventSource = "manual"
)

// EventRecord is a single entry of the event log. Records are never mutated.
type EventRecord struct {
	ID        string             `json:"id"`
	Kind      EventKind          `json:"kind"`
	Timestamp time.Time          `json:"timestamp"`
	Severity  uint               `json:"severity"`
	Source    EventSource        `json:"source"`
	Timer     TimerKind          `json:"timer,omitempty"`
	Payload   map[string]float64 `json:"payload,omitempty"`
}
