package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Thanarak-q/Credit-Tracking-System/internal/dto"
	"github.com/Thanarak-q/Credit-Tracking-System/internal/model"
	"github.com/Thanarak-q/Credit-Tracking-System/internal/repository"
	"github.com/Thanarak-q/Credit-Tracking-System/internal/schedule"
	apperrors "github.com/Thanarak-q/Credit-Tracking-System/pkg/errors"
)

// ── 课程模块业务错误 ──

var (
	ErrCourseNotFound    = errors.New("课程不存在")
	ErrMeetingNotFound   = errors.New("上课时段不存在")
	ErrInvalidCourseType = errors.New("课程类别无效")
)

// 新建课程的兜底默认值
const (
	defaultCourseName = "Untitled Course"
	newCodePrefix     = "NEW-"
)

// CourseService 课程业务接口。
// 所有操作以当前用户为作用域，越权访问返回 pkg/errors.ErrForbidden。
type CourseService interface {
	List(ctx context.Context, userID string) (*dto.CourseListResponse, error)
	Create(ctx context.Context, userID string, req *dto.CreateCourseRequest) (*dto.CourseResponse, error)
	Update(ctx context.Context, userID, courseID string, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error)
	Delete(ctx context.Context, userID, courseID string) error

	CreateMeeting(ctx context.Context, userID, courseID string, req *dto.CreateMeetingRequest) (*dto.MeetingResponse, error)
	UpdateMeeting(ctx context.Context, userID, courseID, meetingID string, req *dto.UpdateMeetingRequest) (*dto.MeetingResponse, error)
	DeleteMeeting(ctx context.Context, userID, courseID, meetingID string) error
}

type courseService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCourseService 创建 CourseService 实例
func NewCourseService(repo *repository.Repository, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, logger: logger}
}

func (s *courseService) List(ctx context.Context, userID string) (*dto.CourseListResponse, error) {
	courses, err := s.repo.Course.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询课程列表失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.CourseListResponse{Courses: make([]dto.CourseResponse, 0, len(courses))}
	for i := range courses {
		resp.Courses = append(resp.Courses, toCourseResponse(&courses[i]))
	}
	return resp, nil
}

func (s *courseService) Create(ctx context.Context, userID string, req *dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	course := &model.Course{
		UserID:   userID,
		Year:     req.Year,
		Semester: req.Semester,
		Code:     newCodePrefix + strings.ToUpper(uuid.NewString()[:6]),
		NameEN:   defaultCourseName,
		Type:     "free",
	}
	if req.Code != nil && *req.Code != "" {
		course.Code = *req.Code
	}
	if req.NameEN != nil && *req.NameEN != "" {
		course.NameEN = *req.NameEN
	}
	if req.NameTH != nil {
		course.NameTH = *req.NameTH
	}
	if req.Credits != nil {
		course.Credits = *req.Credits
	}
	if req.Type != nil {
		if !model.ValidCourseType(*req.Type) {
			return nil, ErrInvalidCourseType
		}
		course.Type = *req.Type
	}
	if req.Completed != nil {
		course.Completed = *req.Completed
	}

	// 主排课位：整组归一化后落库（非法或不完整即整组为空）
	slot := schedule.Normalize(schedule.Slot{
		Day:   deref(req.ScheduleDay),
		Start: deref(req.ScheduleStart),
		End:   deref(req.ScheduleEnd),
		Room:  deref(req.ScheduleRoom),
	})
	applySlotToCourse(course, slot)

	position, err := s.repo.Course.NextPosition(ctx, userID, req.Year, req.Semester)
	if err != nil {
		s.logger.Error("计算排序位失败", zap.Error(err))
		return nil, err
	}
	course.Position = position

	if err := s.repo.Course.Create(ctx, course); err != nil {
		s.logger.Error("创建课程失败", zap.Error(err))
		return nil, err
	}

	resp := toCourseResponse(course)
	return &resp, nil
}

func (s *courseService) Update(ctx context.Context, userID, courseID string, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error) {
	course, err := s.ownedCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if req.Empty() {
		resp := toCourseResponse(course)
		return &resp, nil
	}

	fields := map[string]interface{}{}
	if req.Code != nil {
		fields["code"] = *req.Code
	}
	if req.NameEN != nil {
		fields["name_en"] = *req.NameEN
	}
	if req.NameTH != nil {
		fields["name_th"] = *req.NameTH
	}
	if req.Credits != nil {
		fields["credits"] = *req.Credits
	}
	if req.Type != nil {
		if !model.ValidCourseType(*req.Type) {
			return nil, ErrInvalidCourseType
		}
		fields["type"] = *req.Type
	}
	if req.Completed != nil {
		fields["completed"] = *req.Completed
	}
	if req.Position != nil {
		fields["position"] = *req.Position
	}

	// 学年/学期迁移：未显式给出排序位时排到目标学期末尾
	year, semester := course.Year, course.Semester
	if req.Year != nil {
		year = *req.Year
	}
	if req.Semester != nil {
		semester = *req.Semester
	}
	if year != course.Year || semester != course.Semester {
		fields["year"] = year
		fields["semester"] = semester
		if req.Position == nil {
			position, err := s.repo.Course.NextPosition(ctx, userID, year, semester)
			if err != nil {
				return nil, err
			}
			fields["position"] = position
		}
	}

	// 排课字段：与现存主排课位合并后整组归一化
	if req.ScheduleDay != nil || req.ScheduleStart != nil || req.ScheduleEnd != nil || req.ScheduleRoom != nil {
		slot := slotFromCourse(course)
		if req.ScheduleDay != nil {
			slot.Day = *req.ScheduleDay
		}
		if req.ScheduleStart != nil {
			slot.Start = *req.ScheduleStart
		}
		if req.ScheduleEnd != nil {
			slot.End = *req.ScheduleEnd
		}
		if req.ScheduleRoom != nil {
			slot.Room = *req.ScheduleRoom
		}
		slot = schedule.Normalize(slot)
		fields["schedule_day"] = nullable(slot.Day)
		fields["schedule_start"] = nullable(slot.Start)
		fields["schedule_end"] = nullable(slot.End)
		fields["schedule_room"] = nullable(slot.Room)
	}

	if err := s.repo.Course.UpdateFields(ctx, courseID, fields); err != nil {
		s.logger.Error("更新课程失败", zap.Error(err))
		return nil, err
	}

	updated, err := s.repo.Course.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	resp := toCourseResponse(updated)
	return &resp, nil
}

func (s *courseService) Delete(ctx context.Context, userID, courseID string) error {
	if _, err := s.ownedCourse(ctx, userID, courseID); err != nil {
		return err
	}
	if err := s.repo.Course.Delete(ctx, courseID); err != nil {
		s.logger.Error("删除课程失败", zap.Error(err))
		return err
	}
	return nil
}

// ── 附加上课时段 ──

func (s *courseService) CreateMeeting(ctx context.Context, userID, courseID string, req *dto.CreateMeetingRequest) (*dto.MeetingResponse, error) {
	if _, err := s.ownedCourse(ctx, userID, courseID); err != nil {
		return nil, err
	}

	slot := schedule.Normalize(schedule.Slot{
		Day:   deref(req.Day),
		Start: deref(req.Start),
		End:   deref(req.End),
		Room:  deref(req.Room),
	})
	meeting := &model.CourseMeeting{
		CourseID: courseID,
		Day:      nullable(slot.Day),
		Start:    nullable(slot.Start),
		End:      nullable(slot.End),
		Room:     nullable(slot.Room),
	}
	if err := s.repo.Meeting.Create(ctx, meeting); err != nil {
		s.logger.Error("创建上课时段失败", zap.Error(err))
		return nil, err
	}

	resp := toMeetingResponse(meeting)
	return &resp, nil
}

func (s *courseService) UpdateMeeting(ctx context.Context, userID, courseID, meetingID string, req *dto.UpdateMeetingRequest) (*dto.MeetingResponse, error) {
	meeting, err := s.ownedMeeting(ctx, userID, courseID, meetingID)
	if err != nil {
		return nil, err
	}
	if req.Empty() {
		resp := toMeetingResponse(meeting)
		return &resp, nil
	}

	slot := slotFromMeeting(meeting)
	if req.Day != nil {
		slot.Day = *req.Day
	}
	if req.Start != nil {
		slot.Start = *req.Start
	}
	if req.End != nil {
		slot.End = *req.End
	}
	if req.Room != nil {
		slot.Room = *req.Room
	}
	slot = schedule.Normalize(slot)

	fields := map[string]interface{}{
		"day":        nullable(slot.Day),
		"start_time": nullable(slot.Start),
		"end_time":   nullable(slot.End),
		"room":       nullable(slot.Room),
	}
	if err := s.repo.Meeting.UpdateFields(ctx, meetingID, fields); err != nil {
		s.logger.Error("更新上课时段失败", zap.Error(err))
		return nil, err
	}

	updated, err := s.repo.Meeting.GetByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	resp := toMeetingResponse(updated)
	return &resp, nil
}

func (s *courseService) DeleteMeeting(ctx context.Context, userID, courseID, meetingID string) error {
	if _, err := s.ownedMeeting(ctx, userID, courseID, meetingID); err != nil {
		return err
	}
	if err := s.repo.Meeting.Delete(ctx, meetingID); err != nil {
		s.logger.Error("删除上课时段失败", zap.Error(err))
		return err
	}
	return nil
}

// ── 归属校验 ──

func (s *courseService) ownedCourse(ctx context.Context, userID, courseID string) (*model.Course, error) {
	course, err := s.repo.Course.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.Error(err))
		return nil, err
	}
	if course.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	return course, nil
}

func (s *courseService) ownedMeeting(ctx context.Context, userID, courseID, meetingID string) (*model.CourseMeeting, error) {
	if _, err := s.ownedCourse(ctx, userID, courseID); err != nil {
		return nil, err
	}
	meeting, err := s.repo.Meeting.GetByID(ctx, meetingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMeetingNotFound
		}
		return nil, err
	}
	if meeting.CourseID != courseID {
		return nil, ErrMeetingNotFound
	}
	return meeting, nil
}

// ── 模型转换 ──

func slotFromCourse(c *model.Course) schedule.Slot {
	return schedule.Slot{
		Day:   deref(c.ScheduleDay),
		Start: deref(c.ScheduleStart),
		End:   deref(c.ScheduleEnd),
		Room:  deref(c.ScheduleRoom),
	}
}

func slotFromMeeting(m *model.CourseMeeting) schedule.Slot {
	return schedule.Slot{
		Day:   deref(m.Day),
		Start: deref(m.Start),
		End:   deref(m.End),
		Room:  deref(m.Room),
	}
}

func applySlotToCourse(c *model.Course, slot schedule.Slot) {
	c.ScheduleDay = nullable(slot.Day)
	c.ScheduleStart = nullable(slot.Start)
	c.ScheduleEnd = nullable(slot.End)
	c.ScheduleRoom = nullable(slot.Room)
}

func toCourseResponse(c *model.Course) dto.CourseResponse {
	resp := dto.CourseResponse{
		ID:            c.CourseID,
		Code:          c.Code,
		NameEN:        c.NameEN,
		NameTH:        c.NameTH,
		Credits:       c.Credits,
		Year:          c.Year,
		Semester:      c.Semester,
		Type:          c.Type,
		Completed:     c.Completed,
		Position:      c.Position,
		ScheduleDay:   deref(c.ScheduleDay),
		ScheduleStart: deref(c.ScheduleStart),
		ScheduleEnd:   deref(c.ScheduleEnd),
		ScheduleRoom:  deref(c.ScheduleRoom),
		Meetings:      make([]dto.MeetingResponse, 0, len(c.Meetings)),
	}
	for i := range c.Meetings {
		resp.Meetings = append(resp.Meetings, toMeetingResponse(&c.Meetings[i]))
	}
	return resp
}

func toMeetingResponse(m *model.CourseMeeting) dto.MeetingResponse {
	return dto.MeetingResponse{
		ID:    m.MeetingID,
		Day:   deref(m.Day),
		Start: deref(m.Start),
		End:   deref(m.End),
		Room:  deref(m.Room),
	}
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// nullable 空串落库为 NULL
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
