package handlers

import (
	"hydration_monitor/internal/logger"
	"hydration_monitor/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	gatherer prometheus.Gatherer
}

// NewHandler constructs a new HTTP handler. log and gatherer may be nil; a
// nil gatherer leaves /metrics unregistered.
func NewHandler(services *service.Service, log *logger.Logger, gatherer prometheus.Gatherer) *Handler {
	return &Handler{services: services, log: log, gatherer: gatherer}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)
	if h.gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))
	}

	h.registerAPIRoutes(router)

	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		h.registerBottleRoutes(api)
		h.registerEventRoutes(api)
	}
}

func (h *Handler) registerBottleRoutes(api *gin.RouterGroup) {
	// Body example: {"weight_g":1200,"orientation":{"x":0,"y":0,"z":1}}
	api.POST("/samples", h.submitSample)
	api.POST("/bottle/recalibrate", h.recalibrate)
	api.POST("/reminders/drink", h.forceDrinkReminder)
	api.GET("/state", h.getState)
	api.GET("/timers", h.getTimers)
}

func (h *Handler) registerEventRoutes(api *gin.RouterGroup) {
	api.GET("/events", h.getEvents)
	api.DELETE("/events", h.clearEvents)
	api.GET("/history", h.getHistory)
}
