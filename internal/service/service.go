package service

import (
	"context"
	"time"

	"hydration_monitor/internal/engine"
	"hydration_monitor/internal/logger"
	"hydration_monitor/internal/metrics"
	"hydration_monitor/internal/models"
	"hydration_monitor/internal/repository"
)

// Bottle accepts sensor input.
type Bottle interface {
	SubmitSample(ctx context.Context, s models.Sample) ([]models.EventRecord, error)
	Recalibrate(ctx context.Context) (models.BottleState, error)
}

// Reminders exposes manual triggers.
type Reminders interface {
	// ForceDrinkReminder fires now, or reports deferred=true when the timer
	// gap postpones it to a later tick.
	ForceDrinkReminder(ctx context.Context) (records []models.EventRecord, deferred bool, err error)
}

// Monitoring exposes read-only state and a live event feed.
type Monitoring interface {
	GetState(ctx context.Context) (models.BottleState, error)
	Timers(ctx context.Context) (map[models.TimerKind]models.TimerStatus, error)
	Subscribe() (<-chan models.EventRecord, func())
}

// EventLog exposes the in-memory log and the archive.
type EventLog interface {
	Events(ctx context.Context) ([]models.EventRecord, error)
	History(ctx context.Context, f LogFilter) ([]models.EventRecord, error)
	Clear(ctx context.Context) error
}

// Scheduler drives the engine's timers from the wall clock until ctx is canceled.
type Scheduler interface {
	Run(ctx context.Context, tick time.Duration)
}

type Service struct {
	Bottle
	Reminders
	Monitoring
	EventLog
	Scheduler
}

// Deps are the optional collaborators of the service layer.
type Deps struct {
	Log     *logger.Logger
	Metrics *metrics.Metrics
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// NewService wires the engine and the archive into the sub-services.
func NewService(repos *repository.Repository, eng *engine.Engine, deps Deps) *Service {
	mon := NewMonitor(eng, repos.EventRepo, deps)
	return &Service{
		Bottle:     mon,
		Reminders:  mon,
		Monitoring: mon,
		EventLog:   NewEventLogService(mon, repos.EventRepo),
		Scheduler:  NewSchedulerService(mon, deps.Log),
	}
}
