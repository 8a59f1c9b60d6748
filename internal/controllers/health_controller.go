package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Conversly/crm-assistant/internal/utils"
)

// Pinger is implemented by the optional database client.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Counter reports how many customers are loaded.
type Counter interface {
	Len() int
}

type HealthController struct {
	db     Pinger
	roster Counter
}

// NewHealthController builds the probes. db may be nil when customers come
// from the built-in fixture.
func NewHealthController(db Pinger, roster Counter) *HealthController {
	return &HealthController{db: db, roster: roster}
}

func (h *HealthController) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "AI CRM Chatbot API is running!"})
}

func (h *HealthController) HealthCheck(c *gin.Context) {
	if err := h.pingDB(c.Request.Context()); err != nil {
		utils.Zlog.Error("Database health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "unhealthy",
			"database":  "down",
			"timestamp": time.Now().UTC(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"database":  h.dbStatus(),
		"customers": h.roster.Len(),
		"timestamp": time.Now().UTC(),
	})
}

func (h *HealthController) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"timestamp": time.Now().UTC(),
	})
}

// Readiness fails until customers are loaded and the database answers.
func (h *HealthController) Readiness(c *gin.Context) {
	if h.roster.Len() == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "not ready",
			"reason":    "no customers loaded",
			"timestamp": time.Now().UTC(),
		})
		return
	}
	if err := h.pingDB(c.Request.Context()); err != nil {
		utils.Zlog.Error("Readiness check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "not ready",
			"database":  "down",
			"timestamp": time.Now().UTC(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"database":  h.dbStatus(),
		"timestamp": time.Now().UTC(),
	})
}

func (h *HealthController) pingDB(ctx context.Context) error {
	if h.db == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return h.db.Ping(ctx)
}

func (h *HealthController) dbStatus() string {
	if h.db == nil {
		return "disabled"
	}
	return "up"
}
