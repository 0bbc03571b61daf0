package engine

import (
	"fmt"
	"math"
	"math/rand"
	"testing"
	"time"

	"hydration_monitor/internal/config"
	"hydration_monitor/internal/models"

	"github.com/stretchr/testify/require"
)

// night is outside the default 07..22 hydration window, so the drink reminder stays quiet.
var night = time.Date(2026, 3, 2, 23, 0, 0, 0, time.UTC)

// morning is inside the hydration window.
var morning = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

func testConfig(mutate ...func(*config.Config)) config.Config {
	cfg := config.Default()
	for _, m := range mutate {
		m(&cfg)
	}
	return cfg
}

func newTestEngine(t *testing.T, start time.Time, mutate ...func(*config.Config)) *Engine {
	t.Helper()
	n := 0
	e, err := New(testConfig(mutate...), start,
		WithRandom(rand.New(rand.NewSource(1))),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("ev-%d", n)
		}),
	)
	require.NoError(t, err)
	return e
}

func noJitter(c *config.Config) { c.RandomThresholdMinutes = 0 }

func tilted(deg float64) models.Vector {
	r := deg * math.Pi / 180
	return models.Vector{X: math.Sin(r), Y: 0, Z: math.Cos(r)}
}

func upright(weight float64) models.Sample {
	return models.Sample{WeightG: weight, Orientation: models.Upright}
}

func kindsOf(recs []models.EventRecord) []models.EventKind {
	out := make([]models.EventKind, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Kind)
	}
	return out
}

// firing is a compact view of a timer-originated record for comparisons.
type firing struct {
	Kind models.EventKind
	At   time.Duration
}

// tickUntil ticks every step from from (exclusive) to to (inclusive) and
// returns every record produced.
func tickUntil(e *Engine, from, to time.Time, step time.Duration) []models.EventRecord {
	var out []models.EventRecord
	for now := from.Add(step); !now.After(to); now = now.Add(step) {
		out = append(out, e.Tick(now)...)
	}
	return out
}

func firingsSince(base time.Time, recs []models.EventRecord) []firing {
	var out []firing
	for _, r := range recs {
		out = append(out, firing{Kind: r.Kind, At: r.Timestamp.Sub(base)})
	}
	return out
}
