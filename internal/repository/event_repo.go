package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"hydration_monitor/internal/models"

	"github.com/google/uuid"
)

type EventSQLite struct {
	db *sql.DB
}

func NewEventSQLite(db *sql.DB) *EventSQLite { return &EventSQLite{db: db} }

var _ EventRepo = (*EventSQLite)(nil)

// occurredAtLayout is fixed width, so text order equals time order.
const occurredAtLayout = "2006-01-02 15:04:05.000000000"

const (
	insertEventSQL = `
		INSERT INTO bottle_events (id, occurred_at, kind, severity, source, timer, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	selectEventsSQL = `SELECT id, occurred_at, kind, severity, source, timer, payload FROM bottle_events`
	purgeEventsSQL  = `DELETE FROM bottle_events`
)

// Append stores r. A missing id is generated.
func (r *EventSQLite) Append(ctx context.Context, rec models.EventRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	var payload *string
	if rec.Payload != nil {
		b, err := json.Marshal(rec.Payload)
		if err != nil {
			return fmt.Errorf("marshal payload of %s: %w", rec.ID, err)
		}
		s := string(b)
		payload = &s
	}
	var timer *string
	if rec.Timer != "" {
		s := string(rec.Timer)
		timer = &s
	}

	_, err := r.db.ExecContext(ctx, insertEventSQL,
		rec.ID,
		rec.Timestamp.UTC().Format(occurredAtLayout),
		string(rec.Kind),
		rec.Severity,
		string(rec.Source),
		timer,
		payload,
	)
	if err != nil {
		return fmt.Errorf("insert event %s: %w", rec.ID, err)
	}
	return nil
}

// List returns records within [from, to] (zero bounds are open) and of the
// given kind when not empty, in the order they were appended.
func (r *EventSQLite) List(ctx context.Context, from, to time.Time, kind string) ([]models.EventRecord, error) {
	var (
		conds []string
		args  []any
	)

	if !from.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, from.UTC().Format(occurredAtLayout))
	}
	if !to.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, to.UTC().Format(occurredAtLayout))
	}
	if kind = strings.ToLower(strings.TrimSpace(kind)); kind != "" {
		conds = append(conds, "kind = ?")
		args = append(args, kind)
	}

	q := selectEventsSQL
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY rowid ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	out := make([]models.EventRecord, 0, 64)
	for rows.Next() {
		var (
			rec        models.EventRecord
			occurredAt string
			kindStr    string
			sourceStr  string
			timerStr   sql.NullString
			payloadStr sql.NullString
		)
		if err := rows.Scan(&rec.ID, &occurredAt, &kindStr, &rec.Severity, &sourceStr, &timerStr, &payloadStr); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		rec.Timestamp, err = time.ParseInLocation(occurredAtLayout, occurredAt, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("event %s: bad occurred_at %q: %w", rec.ID, occurredAt, err)
		}
		rec.Kind = models.EventKind(kindStr)
		rec.Source = models.EventSource(sourceStr)
		if timerStr.Valid {
			rec.Timer = models.TimerKind(timerStr.String)
		}
		if payloadStr.Valid && payloadStr.String != "" {
			if err := json.Unmarshal([]byte(payloadStr.String), &rec.Payload); err != nil {
				return nil, fmt.Errorf("event %s: bad payload: %w", rec.ID, err)
			}
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Purge deletes every archived record and returns how many were removed.
func (r *EventSQLite) Purge(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, purgeEventsSQL)
	if err != nil {
		return 0, fmt.Errorf("purge events: %w", err)
	}
	return res.RowsAffected()
}
