package handlers

import (
	"errors"
	"net/http"

	"hydration_monitor/internal/engine"
	"hydration_monitor/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	statusOK           = "ok"
	statusRecalibrated = "recalibrated"
	statusFired        = "fired"
	statusDeferred     = "deferred"

	errSubmitSample    = "failed to submit sample"
	errRecalibrate     = "failed to recalibrate"
	errDrinkReminder   = "failed to trigger drink reminder"
	errGetState        = "failed to load state"
	errGetTimers       = "failed to load timers"
	errInvalidBodyPref = "invalid body: "
)

// logAndJSONError logs err under logKey and answers with userMsg.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// SampleRequest is one sensor reading.
type SampleRequest struct {
	// Total measured weight in grams
	WeightG *float64 `json:"weight_g" binding:"required" example:"1200"`
	// Accelerometer vector; (0,0,1) is upright
	Orientation models.Vector `json:"orientation"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Submit a sample
// @Description  Applies a weight and orientation reading and returns the events it caused
// @Tags         bottle
// @Accept       json
// @Produce      json
// @Param        body  body   SampleRequest  true  "Sensor reading"
// @Success      200   {object}  map[string]interface{}  "count, events, state"
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/samples [post]
func (h *Handler) submitSample(c *gin.Context) {
	var req SampleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	ctx := c.Request.Context()
	recs, err := h.services.Bottle.SubmitSample(ctx, models.Sample{WeightG: *req.WeightG, Orientation: req.Orientation})
	if err != nil {
		if errors.Is(err, engine.ErrInvalidSample) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errSubmitSample, "sample_submit_failed", err)
		return
	}
	if recs == nil {
		recs = []models.EventRecord{}
	}
	resp := gin.H{"count": len(recs), "events": recs}
	if st, err := h.services.Monitoring.GetState(ctx); err == nil {
		resp["state"] = st
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary      Recalibrate
// @Description  Treats the current weight as an empty bottle
// @Tags         bottle
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, state"
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/bottle/recalibrate [post]
func (h *Handler) recalibrate(c *gin.Context) {
	st, err := h.services.Bottle.Recalibrate(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errRecalibrate, "recalibrate_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusRecalibrated, "state": st})
}

// @Summary      Force a drink reminder
// @Description  Fires now unless another timer fired within the minimum gap; then the reminder is deferred
// @Tags         reminders
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, deferred, events"
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/reminders/drink [post]
func (h *Handler) forceDrinkReminder(c *gin.Context) {
	recs, deferred, err := h.services.Reminders.ForceDrinkReminder(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errDrinkReminder, "drink_reminder_failed", err)
		return
	}
	status := statusFired
	if deferred {
		status = statusDeferred
	}
	if recs == nil {
		recs = []models.EventRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"status": status, "deferred": deferred, "events": recs})
}

// @Summary      Get bottle state
// @Tags         bottle
// @Produce      json
// @Success      200  {object}  models.BottleState
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/state [get]
func (h *Handler) getState(c *gin.Context) {
	st, err := h.services.Monitoring.GetState(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetState, "get_state_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Get timer statuses
// @Tags         reminders
// @Produce      json
// @Success      200  {object}  map[string]models.TimerStatus
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/timers [get]
func (h *Handler) getTimers(c *gin.Context) {
	timers, err := h.services.Monitoring.Timers(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetTimers, "get_timers_failed", err)
		return
	}
	c.JSON(http.StatusOK, timers)
}
