package handlers

import (
	"garden_panel/internal/logger"
	"garden_panel/internal/service"

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

// NewHandler constructs a new HTTP handler with dependencies. A nil gatherer
// leaves /metrics unregistered.
func NewHandler(services *service.Service, log *logger.Logger, gatherer prometheus.Gatherer) *Handler {
	return &Handler{services: services, log: log, gatherer: gatherer}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	if h.gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))
	}

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// Panel state stream on the same port
	router.GET("/ws", h.streamAuth, h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.operatorIdMiddleware)
	{
		h.registerPanelRoutes(api)
		h.registerLogRoutes(api)
	}
}

func (h *Handler) registerPanelRoutes(api *gin.RouterGroup) {
	panel := api.Group("/panel")
	{
		panel.GET("/state", h.getState)
		// Body example: {"id":"S0"}
		panel.POST("/solenoid", h.triggerSolenoid)
		// Body example: {"hz":"10"}
		panel.POST("/simulate", h.startSimulation)
		panel.POST("/simulate/stop", h.stopSimulation)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("", h.getLogs)
	}
}
