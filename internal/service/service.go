package service

import (
	"go.uber.org/zap"

	"github.com/Thanarak-q/Credit-Tracking-System/config"
	"github.com/Thanarak-q/Credit-Tracking-System/internal/repository"
	"github.com/Thanarak-q/Credit-Tracking-System/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth    AuthService
	Course  CourseService
	Summary SummaryService
	Export  ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	course := NewCourseService(repo, logger)
	return &Service{
		Auth:    NewAuthService(cfg, repo, rdb, logger),
		Course:  course,
		Summary: NewSummaryService(repo, logger),
		Export:  NewExportService(repo, logger),
	}
}
