package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Conversly/crm-assistant/internal/config"
)

const version = "1.0.0"

type SystemController struct {
	cfg *config.Config
}

func NewSystemController(cfg *config.Config) *SystemController {
	return &SystemController{cfg: cfg}
}

// Status reports build and runtime settings. Credentials are never included.
func (s *SystemController) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":      s.cfg.ServiceName,
		"version":      version,
		"environment":  s.cfg.Environment,
		"hostname":     s.cfg.Hostname,
		"llm_provider": s.cfg.LLM.Provider,
		"llm_timeout":  s.cfg.LLM.Timeout.String(),
		"database":     s.cfg.DatabaseURL != "",
		"timestamp":    time.Now().UTC(),
	})
}
