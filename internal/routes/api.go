package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Setup404Handler answers unknown paths with the common error envelope.
func Setup404Handler(router *gin.Engine) {
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "not_found",
			"message":   "no route for " + c.Request.Method + " " + c.Request.URL.Path,
			"path":      c.Request.URL.Path,
			"timestamp": time.Now().UTC(),
		})
	})
}
