package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Thanarak-q/Credit-Tracking-System/internal/service"
	"github.com/Thanarak-q/Credit-Tracking-System/pkg/response"
)

// SummaryHandler 学分汇总 HTTP 处理器
type SummaryHandler struct {
	summarySvc service.SummaryService
}

// NewSummaryHandler 创建 SummaryHandler
func NewSummaryHandler(summarySvc service.SummaryService) *SummaryHandler {
	return &SummaryHandler{summarySvc: summarySvc}
}

// Summary 当前用户按类别的学分进度
// GET /api/v1/summary
func (h *SummaryHandler) Summary(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.summarySvc.Summary(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, 11003, "用户不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, resp)
}
