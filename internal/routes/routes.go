package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Conversly/crm-assistant/internal/api/chatbot"
	customersapi "github.com/Conversly/crm-assistant/internal/api/customers"
	"github.com/Conversly/crm-assistant/internal/config"
	"github.com/Conversly/crm-assistant/internal/controllers"
	"github.com/Conversly/crm-assistant/internal/customers"
	"github.com/Conversly/crm-assistant/internal/middleware"
)

type Dependencies struct {
	Config  *config.Config
	Store   *customers.Store
	Chatbot *chatbot.Service
	// DB is nil when customers come from the built-in fixture.
	DB controllers.Pinger
}

// SetupRoutes configures all application routes
func SetupRoutes(router *gin.Engine, deps Dependencies) {
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(deps.Config.AllowedOrigins))
	router.Use(middleware.RequestID())

	SetupHealthRoutes(router, deps)

	api := router.Group(deps.Config.APIPrefix)
	api.GET("/status", controllers.NewSystemController(deps.Config).Status)
	customersapi.RegisterRoutes(api, deps.Store)
	chatbot.RegisterRoutes(api, deps.Chatbot)

	Setup404Handler(router)
}

// WriteTimeout bounds a response for the given model timeout. A chat request
// can spend one timeout each on extraction, waiting for a busy thread and the
// chat call itself.
func WriteTimeout(llmTimeout time.Duration) time.Duration {
	return 3*llmTimeout + 15*time.Second
}
