package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"hydration_monitor/internal/config"
	"hydration_monitor/internal/engine"
	"hydration_monitor/internal/models"
)

// fakeEventRepo is an in-memory repository.EventRepo.
type fakeEventRepo struct {
	mu        sync.Mutex
	records   []models.EventRecord
	appendErr error
	purgeErr  error

	gotFrom time.Time
	gotTo   time.Time
	gotKind string
}

func (f *fakeEventRepo) Append(ctx context.Context, r models.EventRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.records = append(f.records, r)
	return nil
}

func (f *fakeEventRepo) List(ctx context.Context, from, to time.Time, kind string) ([]models.EventRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gotFrom, f.gotTo, f.gotKind = from, to, kind
	out := make([]models.EventRecord, len(f.records))
	copy(out, f.records)
	return out, nil
}

func (f *fakeEventRepo) Purge(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.purgeErr != nil {
		return 0, f.purgeErr
	}
	n := int64(len(f.records))
	f.records = nil
	return n, nil
}

var errDown = errors.New("down")

// fakeClock is a manually advanced clock.
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// night is outside the default hydration window.
var night = time.Date(2026, 3, 2, 23, 0, 0, 0, time.UTC)

func newTestMonitor(t *testing.T, repo *fakeEventRepo) (*Monitor, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: night}
	n := 0
	eng, err := engine.New(config.Default(), clock.Now(),
		engine.WithRandom(rand.New(rand.NewSource(1))),
		engine.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("ev-%d", n)
		}),
	)
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	return NewMonitor(eng, repo, Deps{Clock: clock.Now}), clock
}

func upright(w float64) models.Sample {
	return models.Sample{WeightG: w, Orientation: models.Upright}
}
