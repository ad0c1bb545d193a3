package service

import (
	"context"

	"github.com/Thanarak-q/Credit-Tracking-System/internal/dto"
	"github.com/Thanarak-q/Credit-Tracking-System/internal/schedule"
	"github.com/Thanarak-q/Credit-Tracking-System/internal/schedule/editor"
)

// EditorAdapter 将 CourseService 适配为编辑器内核的 CourseAPI。
// 绑定单个用户，归属校验由 CourseService 完成。
type EditorAdapter struct {
	svc    CourseService
	userID string
}

// NewEditorAdapter 创建绑定指定用户的 EditorAdapter
func NewEditorAdapter(svc CourseService, userID string) *EditorAdapter {
	return &EditorAdapter{svc: svc, userID: userID}
}

var _ editor.CourseAPI = (*EditorAdapter)(nil)

func (a *EditorAdapter) ListCourses(ctx context.Context) ([]editor.Course, error) {
	resp, err := a.svc.List(ctx, a.userID)
	if err != nil {
		return nil, err
	}
	courses := make([]editor.Course, 0, len(resp.Courses))
	for i := range resp.Courses {
		courses = append(courses, toEditorCourse(&resp.Courses[i]))
	}
	return courses, nil
}

func (a *EditorAdapter) CreateCourse(ctx context.Context, course editor.Course) (editor.Course, error) {
	req := &dto.CreateCourseRequest{
		Year:     course.Year,
		Semester: course.Semester,
	}
	if course.Code != "" {
		req.Code = &course.Code
	}
	if course.NameEN != "" {
		req.NameEN = &course.NameEN
	}
	if course.NameTH != "" {
		req.NameTH = &course.NameTH
	}
	if course.Credits != 0 {
		req.Credits = &course.Credits
	}
	if course.Type != "" {
		req.Type = &course.Type
	}
	if course.Completed {
		req.Completed = &course.Completed
	}
	if course.Slot.Day != "" {
		req.ScheduleDay = &course.Slot.Day
	}
	if course.Slot.Start != "" {
		req.ScheduleStart = &course.Slot.Start
	}
	if course.Slot.End != "" {
		req.ScheduleEnd = &course.Slot.End
	}
	if course.Slot.Room != "" {
		req.ScheduleRoom = &course.Slot.Room
	}

	resp, err := a.svc.Create(ctx, a.userID, req)
	if err != nil {
		return editor.Course{}, err
	}
	return toEditorCourse(resp), nil
}

func (a *EditorAdapter) UpdateCourse(ctx context.Context, id string, patch editor.CoursePatch) (editor.Course, error) {
	req := &dto.UpdateCourseRequest{
		Code:          patch.Code,
		NameEN:        patch.NameEN,
		NameTH:        patch.NameTH,
		Credits:       patch.Credits,
		Year:          patch.Year,
		Semester:      patch.Semester,
		Type:          patch.Type,
		Completed:     patch.Completed,
		Position:      patch.Position,
		ScheduleDay:   patch.Schedule.Day,
		ScheduleStart: patch.Schedule.Start,
		ScheduleEnd:   patch.Schedule.End,
		ScheduleRoom:  patch.Schedule.Room,
	}
	resp, err := a.svc.Update(ctx, a.userID, id, req)
	if err != nil {
		return editor.Course{}, err
	}
	return toEditorCourse(resp), nil
}

func (a *EditorAdapter) DeleteCourse(ctx context.Context, id string) error {
	return a.svc.Delete(ctx, a.userID, id)
}

func (a *EditorAdapter) CreateMeeting(ctx context.Context, courseID string, slot schedule.Slot) (editor.Meeting, error) {
	req := &dto.CreateMeetingRequest{}
	if slot.Day != "" {
		req.Day = &slot.Day
	}
	if slot.Start != "" {
		req.Start = &slot.Start
	}
	if slot.End != "" {
		req.End = &slot.End
	}
	if slot.Room != "" {
		req.Room = &slot.Room
	}
	resp, err := a.svc.CreateMeeting(ctx, a.userID, courseID, req)
	if err != nil {
		return editor.Meeting{}, err
	}
	return toEditorMeeting(resp), nil
}

func (a *EditorAdapter) UpdateMeeting(ctx context.Context, courseID, meetingID string, patch editor.SlotPatch) (editor.Meeting, error) {
	req := &dto.UpdateMeetingRequest{
		Day:   patch.Day,
		Start: patch.Start,
		End:   patch.End,
		Room:  patch.Room,
	}
	resp, err := a.svc.UpdateMeeting(ctx, a.userID, courseID, meetingID, req)
	if err != nil {
		return editor.Meeting{}, err
	}
	return toEditorMeeting(resp), nil
}

func (a *EditorAdapter) DeleteMeeting(ctx context.Context, courseID, meetingID string) error {
	return a.svc.DeleteMeeting(ctx, a.userID, courseID, meetingID)
}

// ── DTO 转换 ──

func toEditorCourse(c *dto.CourseResponse) editor.Course {
	course := editor.Course{
		ID:        c.ID,
		Code:      c.Code,
		NameEN:    c.NameEN,
		NameTH:    c.NameTH,
		Credits:   c.Credits,
		Year:      c.Year,
		Semester:  c.Semester,
		Type:      c.Type,
		Completed: c.Completed,
		Position:  c.Position,
		Slot: schedule.Slot{
			Day:   c.ScheduleDay,
			Start: c.ScheduleStart,
			End:   c.ScheduleEnd,
			Room:  c.ScheduleRoom,
		},
		Meetings: make([]editor.Meeting, 0, len(c.Meetings)),
	}
	for i := range c.Meetings {
		course.Meetings = append(course.Meetings, toEditorMeeting(&c.Meetings[i]))
	}
	return course
}

func toEditorMeeting(m *dto.MeetingResponse) editor.Meeting {
	return editor.Meeting{
		ID: m.ID,
		Slot: schedule.Slot{
			Day:   m.Day,
			Start: m.Start,
			End:   m.End,
			Room:  m.Room,
		},
	}
}
