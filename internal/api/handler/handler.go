package handler

import (
	"github.com/Thanarak-q/Credit-Tracking-System/config"
	"github.com/Thanarak-q/Credit-Tracking-System/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth    *AuthHandler
	Course  *CourseHandler
	Summary *SummaryHandler
	Export  *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, cfg *config.Config) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(svc.Auth, cfg),
		Course:  NewCourseHandler(svc.Course),
		Summary: NewSummaryHandler(svc.Summary),
		Export:  NewExportHandler(svc.Export),
	}
}
