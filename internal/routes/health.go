package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Conversly/crm-assistant/internal/controllers"
)

// SetupHealthRoutes configures health check endpoints
func SetupHealthRoutes(router *gin.Engine, deps Dependencies) {
	healthController := controllers.NewHealthController(deps.DB, deps.Store)

	router.GET("/", healthController.Root)
	router.GET("/health", healthController.HealthCheck)
	router.GET("/health/live", healthController.Liveness)
	router.GET("/health/ready", healthController.Readiness)
}
