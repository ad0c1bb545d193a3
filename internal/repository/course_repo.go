package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Thanarak-q/Credit-Tracking-System/internal/model"
)

// CourseRepository 课程数据访问接口
type CourseRepository interface {
	// ListByUser 返回用户的全部课程（含附加时段），
	// 按 学年 → 学期 → 排序位 → 课程代码 排序
	ListByUser(ctx context.Context, userID string) ([]model.Course, error)
	GetByID(ctx context.Context, id string) (*model.Course, error)
	Create(ctx context.Context, course *model.Course) error
	// UpdateFields 部分更新：仅写入 fields 中出现的列
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	// NextPosition 同一用户同学年学期内的下一个排序位（max+1，空学期为 0）
	NextPosition(ctx context.Context, userID string, year, semester int) (int, error)
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo 创建 CourseRepository 实例
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) ListByUser(ctx context.Context, userID string) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Preload("Meetings").
		Where("user_id = ?", userID).
		Order("year ASC, semester ASC, position ASC, code ASC").
		Find(&courses).Error
	return courses, err
}

func (r *courseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Preload("Meetings").
		Where("course_id = ?", id).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepo) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&model.Course{}).
		Where("course_id = ?", id).
		Updates(fields).Error
}

func (r *courseRepo) Delete(ctx context.Context, id string) error {
	// 附加时段由外键级联删除
	return r.db.WithContext(ctx).
		Where("course_id = ?", id).
		Delete(&model.Course{}).Error
}

func (r *courseRepo) NextPosition(ctx context.Context, userID string, year, semester int) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).
		Model(&model.Course{}).
		Select("MAX(position)").
		Where("user_id = ? AND year = ? AND semester = ?", userID, year, semester).
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max + 1, nil
}
