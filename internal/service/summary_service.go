package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Thanarak-q/Credit-Tracking-System/internal/dto"
	"github.com/Thanarak-q/Credit-Tracking-System/internal/model"
	"github.com/Thanarak-q/Credit-Tracking-System/internal/repository"
)

// ── 培养方案学分要求 ──
//
// 仅 majorElective 随培养方案变化，其余类别各方案一致。

var baseRequirements = map[string]int{
	"required": 24,
	"core":     24,
	"major":    41,
	"minor":    15,
	"free":     6,
	"ge":       6,
}

var majorElectiveByPlan = map[string]int{
	"regular": 15,
	"coop":    12,
	"honors":  27,
}

// PlanRequirements 返回指定培养方案各类别的要求学分。
// 未知方案按 regular 处理。
func PlanRequirements(plan string) map[string]int {
	elective, ok := majorElectiveByPlan[plan]
	if !ok {
		elective = majorElectiveByPlan["regular"]
	}
	req := make(map[string]int, len(baseRequirements)+1)
	for k, v := range baseRequirements {
		req[k] = v
	}
	req["majorElective"] = elective
	return req
}

// SummaryService 学分汇总业务接口
type SummaryService interface {
	Summary(ctx context.Context, userID string) (*dto.SummaryResponse, error)
}

type summaryService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSummaryService 创建 SummaryService 实例
func NewSummaryService(repo *repository.Repository, logger *zap.Logger) SummaryService {
	return &summaryService{repo: repo, logger: logger}
}

func (s *summaryService) Summary(ctx context.Context, userID string) (*dto.SummaryResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	courses, err := s.repo.Course.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询课程列表失败", zap.Error(err))
		return nil, err
	}

	earned := map[string]int{}
	planned := map[string]int{}
	for i := range courses {
		c := &courses[i]
		planned[c.Type] += c.Credits
		if c.Completed {
			earned[c.Type] += c.Credits
		}
	}

	requirements := PlanRequirements(user.Plan)
	resp := &dto.SummaryResponse{
		Plan:       user.Plan,
		Categories: make([]dto.CategorySummary, 0, len(model.CourseTypes)),
	}
	for _, t := range model.CourseTypes {
		required := requirements[t]
		remaining := required - earned[t]
		if remaining < 0 {
			remaining = 0
		}
		resp.Categories = append(resp.Categories, dto.CategorySummary{
			Type:      t,
			Earned:    earned[t],
			Planned:   planned[t],
			Required:  required,
			Remaining: remaining,
		})
		resp.TotalEarned += earned[t]
		resp.TotalRequired += required
	}
	return resp, nil
}
