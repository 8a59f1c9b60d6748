package chatbot

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the chatbot endpoints under group.
func RegisterRoutes(group *gin.RouterGroup, svc *Service) {
	ctrl := NewController(svc)
	group.POST("/chatbot", ctrl.Chat)
	group.GET("/chatbot/threads/:thread_id", ctrl.History)
}
