package service

import (
	"context"
	"time"

	"hydration_monitor/internal/logger"
)

// SchedulerService ticks the engine on the wall clock.
type SchedulerService struct {
	mon *Monitor
	log *logger.Logger
}

func NewSchedulerService(mon *Monitor, log *logger.Logger) *SchedulerService {
	return &SchedulerService{mon: mon, log: log.Component("scheduler")}
}

// Run ticks at the given interval until ctx is canceled.
func (s *SchedulerService) Run(ctx context.Context, tick time.Duration) {
	if s.log != nil {
		s.log.Infow("scheduler_started", "tick", tick)
	}
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			if s.log != nil {
				s.log.Infow("scheduler_stopped")
			}
			return
		case now := <-t.C:
			s.mon.Tick(ctx, now)
		}
	}
}
