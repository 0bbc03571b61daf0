package engine

import "hydration_monitor/internal/models"

// EventLog is the append-only record of emitted events, in emission order.
type EventLog struct {
	records []models.EventRecord
}

// Append adds r at the end of the log.
func (l *EventLog) Append(r models.EventRecord) {
	l.records = append(l.records, r)
}

// Clear empties the log.
func (l *EventLog) Clear() {
	l.records = nil
}

// All returns a copy of the log.
func (l *EventLog) All() []models.EventRecord {
	out := make([]models.EventRecord, len(l.records))
	copy(out, l.records)
	return out
}

// severityCounters counts occurrences per kind since the last clear.
type severityCounters map[models.EventKind]uint

func (c severityCounters) next(kind models.EventKind) uint {
	c[kind]++
	return c[kind]
}
