// Package metrics exposes Prometheus collectors for the hydration monitor.
package metrics

import (
	"hydration_monitor/internal/models"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "hydration"

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	events          *prometheus.CounterVec
	samplesRejected prometheus.Counter
	timerActive     *prometheus.GaugeVec
	drinkLevel      prometheus.Gauge
	dailyConsumed   prometheus.Gauge
}

// MustNewMetrics registers the collectors with reg and panics on conflicts.
// Tests pass a fresh prometheus.NewRegistry().
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_total",
				Help:      "Events emitted by the engine.",
			},
			[]string{"kind", "source"},
		),
		samplesRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_rejected_total",
			Help:      "Samples dropped as invalid.",
		}),
		timerActive: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "timer_active",
				Help:      "1 while the timer is active.",
			},
			[]string{"timer"},
		),
		drinkLevel: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "drink_level_grams",
			Help:      "Current drink mass in the bottle.",
		}),
		dailyConsumed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "daily_consumed_ml",
			Help:      "Volume drunk since local midnight.",
		}),
	}
	reg.MustRegister(m.events, m.samplesRejected, m.timerActive, m.drinkLevel, m.dailyConsumed)
	return m
}

// ObserveEvents counts recs by kind and source.
func (m *Metrics) ObserveEvents(recs []models.EventRecord) {
	if m == nil {
		return
	}
	for _, r := range recs {
		m.events.WithLabelValues(string(r.Kind), string(r.Source)).Inc()
	}
}

func (m *Metrics) IncSampleRejected() {
	if m == nil {
		return
	}
	m.samplesRejected.Inc()
}

// ObserveState updates the gauges from a state snapshot.
func (m *Metrics) ObserveState(st models.BottleState, timers map[models.TimerKind]models.TimerStatus) {
	if m == nil {
		return
	}
	m.drinkLevel.Set(st.DrinkLevelG)
	m.dailyConsumed.Set(st.DailyConsumedML)
	for kind, ts := range timers {
		v := 0.0
		if ts.Active {
			v = 1
		}
		m.timerActive.WithLabelValues(string(kind)).Set(v)
	}
}
