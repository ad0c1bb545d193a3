package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Thanarak-q/Credit-Tracking-System/internal/model"
)

// MeetingRepository 附加上课时段数据访问接口
type MeetingRepository interface {
	Create(ctx context.Context, meeting *model.CourseMeeting) error
	GetByID(ctx context.Context, id string) (*model.CourseMeeting, error)
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

type meetingRepo struct {
	db *gorm.DB
}

// NewMeetingRepo 创建 MeetingRepository 实例
func NewMeetingRepo(db *gorm.DB) MeetingRepository {
	return &meetingRepo{db: db}
}

func (r *meetingRepo) Create(ctx context.Context, meeting *model.CourseMeeting) error {
	return r.db.WithContext(ctx).Create(meeting).Error
}

func (r *meetingRepo) GetByID(ctx context.Context, id string) (*model.CourseMeeting, error) {
	var meeting model.CourseMeeting
	err := r.db.WithContext(ctx).
		Where("meeting_id = ?", id).
		First(&meeting).Error
	if err != nil {
		return nil, err
	}
	return &meeting, nil
}

func (r *meetingRepo) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&model.CourseMeeting{}).
		Where("meeting_id = ?", id).
		Updates(fields).Error
}

func (r *meetingRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("meeting_id = ?", id).
		Delete(&model.CourseMeeting{}).Error
}
