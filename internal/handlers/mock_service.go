package handlers

import (
	"context"
	"sync"

	"hydration_monitor/internal/models"
	"hydration_monitor/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockBottle struct {
	recs        []models.EventRecord
	submitErr   error
	state       models.BottleState
	recalErr    error
	lastSample  models.Sample
	submitCalls int
	recalCalls  int
}

func (m *mockBottle) SubmitSample(ctx context.Context, s models.Sample) ([]models.EventRecord, error) {
	m.submitCalls++
	m.lastSample = s
	return m.recs, m.submitErr
}

func (m *mockBottle) Recalibrate(ctx context.Context) (models.BottleState, error) {
	m.recalCalls++
	return m.state, m.recalErr
}

type mockReminders struct {
	recs     []models.EventRecord
	deferred bool
	err      error
}

func (m *mockReminders) ForceDrinkReminder(ctx context.Context) ([]models.EventRecord, bool, error) {
	return m.recs, m.deferred, m.err
}

type mockMonitoring struct {
	state  models.BottleState
	timers map[models.TimerKind]models.TimerStatus
	err    error

	mu   sync.Mutex
	feed chan models.EventRecord
}

func (m *mockMonitoring) GetState(ctx context.Context) (models.BottleState, error) {
	return m.state, m.err
}

func (m *mockMonitoring) Timers(ctx context.Context) (map[models.TimerKind]models.TimerStatus, error) {
	return m.timers, m.err
}

func (m *mockMonitoring) Subscribe() (<-chan models.EventRecord, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.feed == nil {
		m.feed = make(chan models.EventRecord, 8)
	}
	return m.feed, func() {}
}

func (m *mockMonitoring) push(r models.EventRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.feed == nil {
		m.feed = make(chan models.EventRecord, 8)
	}
	m.feed <- r
}

type mockEventLog struct {
	events     []models.EventRecord
	history    []models.EventRecord
	err        error
	clearErr   error
	clearCalls int
	lastFilter service.LogFilter
}

func (m *mockEventLog) Events(ctx context.Context) ([]models.EventRecord, error) {
	return m.events, m.err
}

func (m *mockEventLog) History(ctx context.Context, f service.LogFilter) ([]models.EventRecord, error) {
	m.lastFilter = f
	return m.history, m.err
}

func (m *mockEventLog) Clear(ctx context.Context) error {
	m.clearCalls++
	return m.clearErr
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil, nil)
	return h.InitRoutes()
}
