package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hydration_monitor/internal/models"
	"hydration_monitor/internal/repository"
)

// LogFilter narrows an archive query.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Kind string    // "" or an EventKind such as "very_empty"
}

var (
	ErrInvalidTimeRange = errors.New("invalid time range: from must be <= to")
	ErrUnknownKind      = errors.New("unknown event kind")
)

type EventLogService struct {
	mon       *Monitor
	eventRepo repository.EventRepo
}

func NewEventLogService(mon *Monitor, eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{mon: mon, eventRepo: eventRepo}
}

func (s *EventLogService) Events(ctx context.Context) ([]models.EventRecord, error) {
	return s.mon.Events(ctx)
}

func (s *EventLogService) Clear(ctx context.Context) error {
	return s.mon.Clear(ctx)
}

// History queries the archive.
func (s *EventLogService) History(ctx context.Context, f LogFilter) ([]models.EventRecord, error) {
	from, to, kind, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.List(ctx, from, to, kind)
}

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

func normalizeEventKind(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func normalizeAndValidateFilter(f LogFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", ErrInvalidTimeRange
	}

	kind := normalizeEventKind(f.Kind)
	if kind != "" {
		if _, ok := models.ParseEventKind(kind); !ok {
			return time.Time{}, time.Time{}, "", fmt.Errorf("%w: %q", ErrUnknownKind, f.Kind)
		}
	}
	return from, to, kind, nil
}
