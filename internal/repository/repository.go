package repository

import (
	"context"
	"database/sql"
	"time"

	"hydration_monitor/internal/models"
)

// EventRepo archives emitted event records for history queries.
type EventRepo interface {
	Append(ctx context.Context, r models.EventRecord) error
	List(ctx context.Context, from, to time.Time, kind string) ([]models.EventRecord, error)
	Purge(ctx context.Context) (int64, error)
}

type Repository struct {
	EventRepo EventRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		EventRepo: NewEventSQLite(db),
	}
}
