package customers

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(group *gin.RouterGroup, store Querier) {
	ctrl := NewController(store)
	group.GET("/customers", ctrl.List)
}
