package handlers

import (
	"packaging_cell/internal/logger"
	"packaging_cell/internal/service"

	"github.com/gin-gonic/gin"

	_ "packaging_cell/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies. A nil logger is allowed.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	// Live cell view, same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.userIdentity)
	{
		api.GET("/cell/view", h.getView)
		h.registerRobotRoutes(api)
		h.registerSensorRoutes(api)
		api.POST("/orders/:id/fetch", h.fetchOrder)
		api.GET("/logs", h.getLogs)
		api.GET("/logs/types", h.getLogTypes)
		h.registerAdminRoutes(api)
	}
}

func (h *Handler) registerRobotRoutes(api *gin.RouterGroup) {
	rb := api.Group("/robot")
	{
		// Body example: {"host":"192.168.0.10","control_port":29999,"program_port":30002}
		rb.POST("/connect", h.connectRobot)
		rb.POST("/start", h.startRobot)
		rb.POST("/stop", h.stopRobot)
		rb.POST("/disconnect", h.disconnectRobot)
		rb.GET("/status", h.robotStatus)
		rb.GET("/programs", h.listPrograms)
	}
}

func (h *Handler) registerSensorRoutes(api *gin.RouterGroup) {
	s := api.Group("/sensors")
	{
		s.GET("", h.getSensors)
		s.POST("/simulate", h.simulateSensors)
	}
}

func (h *Handler) registerAdminRoutes(api *gin.RouterGroup) {
	admin := api.Group("/admin", h.adminOnly)
	{
		admin.POST("/users", h.createUser)
		admin.PUT("/orders/:id", h.upsertOrder)
		admin.POST("/orders/seed", h.seedOrders)
		admin.POST("/orders/reset", h.resetOrders)
	}
}
