package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"hydration_monitor/internal/models"
	"hydration_monitor/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid = "invalid 'from' time; use RFC3339, 'YYYY-MM-DD HH:MM:SS' or YYYY-MM-DD"
	errToInvalid   = "invalid 'to' time; use RFC3339, 'YYYY-MM-DD HH:MM:SS' or YYYY-MM-DD"
	errListEvents  = "failed to load events"
	errClearEvents = "failed to clear events"
	errHistory     = "failed to load history"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// isDateOnly reports whether the query string has no time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// @Summary      List events
// @Description  The in-memory event log since the last clear, in emission order
// @Tags         events
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, events"
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/events [get]
func (h *Handler) getEvents(c *gin.Context) {
	events, err := h.services.EventLog.Events(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListEvents, "events_list_failed", err)
		return
	}
	if events == nil {
		events = []models.EventRecord{}
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(events),
		"events": events,
	})
}

// @Summary      Clear events
// @Description  Empties the event log and archive and resets every severity counter
// @Tags         events
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/events [delete]
func (h *Handler) clearEvents(c *gin.Context) {
	if err := h.services.EventLog.Clear(c.Request.Context()); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errClearEvents, "events_clear_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

// @Summary      Event history
// @Description  Archive query. If 'to' is date-only it is treated as the end of that day.
// @Tags         events
// @Produce      json
// @Param        from  query   string  false  "Start of range (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD')"  example(2026-03-01)
// @Param        to    query   string  false  "End of range; date-only means end of day"  example(2026-03-31)
// @Param        kind  query   string  false  "Event kind"  Enums(empty,very_empty,filled_up,partial_fill,drink_correction,drink_reminder,bad_orientation,empty_reminder,recalibrate_reminder)
// @Success      200   {object}  map[string]interface{}  "count, events"
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/history [get]
func (h *Handler) getHistory(c *gin.Context) {
	var (
		from time.Time
		to   time.Time
		kind = c.Query("kind")
		err  error
	)
	if qs := c.Query("from"); qs != "" {
		from, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
			return
		}
	}
	if qs := c.Query("to"); qs != "" {
		to, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
			return
		}
		if isDateOnly(qs) {
			to = to.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}

	events, err := h.services.EventLog.History(c.Request.Context(), service.LogFilter{
		From: from,
		To:   to,
		Kind: kind,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidTimeRange) || errors.Is(err, service.ErrUnknownKind) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errHistory, "history_list_failed", err,
			"from", from, "to", to, "kind", kind)
		return
	}
	if events == nil {
		events = []models.EventRecord{}
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(events),
		"events": events,
	})
}

func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time format %q", s)
}
