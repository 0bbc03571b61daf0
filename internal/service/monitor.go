package service

import (
	"context"
	"sync"
	"time"

	"hydration_monitor/internal/engine"
	"hydration_monitor/internal/logger"
	"hydration_monitor/internal/metrics"
	"hydration_monitor/internal/models"
	"hydration_monitor/internal/repository"
)

// Monitor serializes every engine call behind one mutex. Emitted records are
// archived, counted and broadcast while the lock is held, so every consumer
// sees them in emission order.
type Monitor struct {
	mu      sync.Mutex
	eng     *engine.Engine
	archive repository.EventRepo
	metrics *metrics.Metrics
	log     *logger.Logger
	now     func() time.Time
	hub     *hub
}

func NewMonitor(eng *engine.Engine, archive repository.EventRepo, deps Deps) *Monitor {
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	m := &Monitor{
		eng:     eng,
		archive: archive,
		metrics: deps.Metrics,
		log:     deps.Log.Component("monitor"),
		now:     now,
		hub:     newHub(),
	}
	m.metrics.ObserveState(eng.CurrentState(), eng.TimerStatuses())
	return m
}

func (m *Monitor) SubmitSample(ctx context.Context, s models.Sample) ([]models.EventRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	recs, err := m.eng.SubmitSample(s, m.now())
	if err != nil {
		m.metrics.IncSampleRejected()
		if m.log != nil {
			m.log.Warnw("sample_rejected", "err", err, "weight_g", s.WeightG)
		}
		return nil, err
	}
	m.publish(ctx, recs)
	return recs, nil
}

func (m *Monitor) Recalibrate(ctx context.Context) (models.BottleState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.eng.ForceRecalibrate(m.now())
	st := m.eng.CurrentState()
	if m.log != nil {
		m.log.Infow("bottle_recalibrated", "tare_offset_g", st.TareOffsetG, "weight_g", st.WeightG)
	}
	m.publish(ctx, nil)
	return st, nil
}

func (m *Monitor) ForceDrinkReminder(ctx context.Context) ([]models.EventRecord, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	recs, deferred := m.eng.ForceDrinkReminder(m.now())
	if deferred && m.log != nil {
		m.log.Infow("drink_reminder_deferred")
	}
	m.publish(ctx, recs)
	return recs, deferred, nil
}

// Tick fires due timers at now.
func (m *Monitor) Tick(ctx context.Context, now time.Time) []models.EventRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	recs := m.eng.Tick(now)
	for _, r := range recs {
		if m.log != nil {
			m.log.Infow("timer_fired", "timer", r.Timer, "kind", r.Kind, "severity", r.Severity)
		}
	}
	m.publish(ctx, recs)
	return recs
}

func (m *Monitor) GetState(ctx context.Context) (models.BottleState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.eng.CurrentState(), nil
}

func (m *Monitor) Timers(ctx context.Context) (map[models.TimerKind]models.TimerStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.eng.TimerStatuses(), nil
}

// Events returns the engine's log since the last clear.
func (m *Monitor) Events(ctx context.Context) ([]models.EventRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.eng.EventLog(), nil
}

// Clear empties the log, the severity counters and the archive.
func (m *Monitor) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.eng.ClearEvents()
	if m.archive == nil {
		return nil
	}
	n, err := m.archive.Purge(ctx)
	if err != nil {
		return err
	}
	if m.log != nil {
		m.log.Infow("events_cleared", "archived_removed", n)
	}
	return nil
}

// Subscribe returns a feed of every record emitted from now on and a cancel
// function. Slow subscribers miss records rather than block the engine.
func (m *Monitor) Subscribe() (<-chan models.EventRecord, func()) {
	return m.hub.subscribe()
}

// publish must be called with mu held.
func (m *Monitor) publish(ctx context.Context, recs []models.EventRecord) {
	for _, r := range recs {
		if m.archive != nil {
			if err := m.archive.Append(ctx, r); err != nil && m.log != nil {
				m.log.Errorw("archive_append_failed", "err", err, "event_id", r.ID, "kind", r.Kind)
			}
		}
		if r.Source == models.SourceSample && m.log != nil {
			m.log.Infow("event_emitted", "kind", r.Kind, "severity", r.Severity)
		}
		m.hub.broadcast(r)
	}
	m.metrics.ObserveEvents(recs)
	m.metrics.ObserveState(m.eng.CurrentState(), m.eng.TimerStatuses())
}
