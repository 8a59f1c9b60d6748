package chatbot

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Conversly/crm-assistant/internal/sessions"
	"github.com/Conversly/crm-assistant/internal/utils"
)

type Controller struct {
	service *Service
}

func NewController(s *Service) *Controller {
	return &Controller{service: s}
}

func (c *Controller) Chat(ctx *gin.Context) {
	var req Request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Zlog.Warn("invalid /chatbot payload", zap.Error(err))
		badRequest(ctx, err.Error())
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		badRequest(ctx, "message must not be empty")
		return
	}

	reply, err := c.service.Handle(ctx.Request.Context(), strings.TrimSpace(req.ThreadID), req.Message)
	if err != nil {
		if errors.Is(err, sessions.ErrInvalidThread) {
			badRequest(ctx, err.Error())
			return
		}
		utils.Zlog.Error("chatbot request failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":     "internal_error",
			"message":   err.Error(),
			"timestamp": time.Now().UTC(),
		})
		return
	}

	resp := Response{
		Response:  reply.Text,
		ThreadID:  reply.ThreadID,
		RequestID: ctx.GetString("request_id"),
	}
	if reply.Branch == BranchFilter {
		ctx.JSON(http.StatusOK, FilteredResponse{Response: resp, Customers: reply.Customers})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

func (c *Controller) History(ctx *gin.Context) {
	threadID := ctx.Param("thread_id")
	turns, ok := c.service.History(threadID)
	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{
			"error":     "not_found",
			"message":   "thread not found",
			"timestamp": time.Now().UTC(),
		})
		return
	}
	ctx.JSON(http.StatusOK, HistoryResponse{ThreadID: threadID, Turns: turns})
}

func badRequest(ctx *gin.Context, msg string) {
	ctx.JSON(http.StatusBadRequest, gin.H{
		"error":     "bad_request",
		"message":   msg,
		"timestamp": time.Now().UTC(),
	})
}
