package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Thanarak-q/Credit-Tracking-System/config"
	"github.com/Thanarak-q/Credit-Tracking-System/internal/model"
	"github.com/Thanarak-q/Credit-Tracking-System/internal/repository"
)

// ── Mock Repositories ──

type mockUserRepo struct {
	users map[string]*model.User // key: user_id
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%d", m.seq)
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	if _, ok := m.users[user.UserID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.users[user.UserID] = user
	return nil
}

type mockSessionRepo struct {
	sessions map[string]*model.Session // key: token
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{sessions: make(map[string]*model.Session)}
}

func (m *mockSessionRepo) Create(_ context.Context, session *model.Session) error {
	m.sessions[session.Token] = session
	return nil
}

func (m *mockSessionRepo) GetByToken(_ context.Context, token string) (*model.Session, error) {
	if s, ok := m.sessions[token]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSessionRepo) Delete(_ context.Context, token string) error {
	delete(m.sessions, token)
	return nil
}

func (m *mockSessionRepo) DeleteExpired(_ context.Context, now time.Time) error {
	for token, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, token)
		}
	}
	return nil
}

type mockCourseRepo struct {
	courses  map[string]*model.Course // key: course_id
	meetings *mockMeetingRepo         // 用于 ListByUser 预加载
	seq      int
}

func newMockCourseRepo(meetings *mockMeetingRepo) *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[string]*model.Course), meetings: meetings}
}

func (m *mockCourseRepo) ListByUser(_ context.Context, userID string) ([]model.Course, error) {
	var out []model.Course
	for _, c := range m.courses {
		if c.UserID != userID {
			continue
		}
		course := *c
		course.Meetings = m.meetings.listByCourse(c.CourseID)
		out = append(out, course)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := &out[i], &out[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Semester != b.Semester {
			return a.Semester < b.Semester
		}
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		return a.Code < b.Code
	})
	return out, nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	if c, ok := m.courses[id]; ok {
		course := *c
		course.Meetings = m.meetings.listByCourse(id)
		return &course, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	if course.CourseID == "" {
		m.seq++
		course.CourseID = fmt.Sprintf("course-%d", m.seq)
	}
	clone := *course
	m.courses[course.CourseID] = &clone
	return nil
}

func (m *mockCourseRepo) UpdateFields(_ context.Context, id string, fields map[string]interface{}) error {
	c, ok := m.courses[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range fields {
		switch k {
		case "code":
			c.Code = v.(string)
		case "name_en":
			c.NameEN = v.(string)
		case "name_th":
			c.NameTH = v.(string)
		case "credits":
			c.Credits = v.(int)
		case "year":
			c.Year = v.(int)
		case "semester":
			c.Semester = v.(int)
		case "type":
			c.Type = v.(string)
		case "completed":
			c.Completed = v.(bool)
		case "position":
			c.Position = v.(int)
		case "schedule_day":
			c.ScheduleDay = v.(*string)
		case "schedule_start":
			c.ScheduleStart = v.(*string)
		case "schedule_end":
			c.ScheduleEnd = v.(*string)
		case "schedule_room":
			c.ScheduleRoom = v.(*string)
		}
	}
	return nil
}

func (m *mockCourseRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.courses[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.courses, id)
	m.meetings.deleteByCourse(id)
	return nil
}

func (m *mockCourseRepo) NextPosition(_ context.Context, userID string, year, semester int) (int, error) {
	max := 0
	for _, c := range m.courses {
		if c.UserID == userID && c.Year == year && c.Semester == semester && c.Position > max {
			max = c.Position
		}
	}
	return max + 1, nil
}

type mockMeetingRepo struct {
	meetings map[string]*model.CourseMeeting // key: meeting_id
	seq      int
}

func newMockMeetingRepo() *mockMeetingRepo {
	return &mockMeetingRepo{meetings: make(map[string]*model.CourseMeeting)}
}

func (m *mockMeetingRepo) listByCourse(courseID string) []model.CourseMeeting {
	var out []model.CourseMeeting
	for _, mt := range m.meetings {
		if mt.CourseID == courseID {
			out = append(out, *mt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MeetingID < out[j].MeetingID })
	return out
}

func (m *mockMeetingRepo) deleteByCourse(courseID string) {
	for id, mt := range m.meetings {
		if mt.CourseID == courseID {
			delete(m.meetings, id)
		}
	}
}

func (m *mockMeetingRepo) Create(_ context.Context, meeting *model.CourseMeeting) error {
	if meeting.MeetingID == "" {
		m.seq++
		meeting.MeetingID = fmt.Sprintf("meeting-%d", m.seq)
	}
	clone := *meeting
	m.meetings[meeting.MeetingID] = &clone
	return nil
}

func (m *mockMeetingRepo) GetByID(_ context.Context, id string) (*model.CourseMeeting, error) {
	if mt, ok := m.meetings[id]; ok {
		meeting := *mt
		return &meeting, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMeetingRepo) UpdateFields(_ context.Context, id string, fields map[string]interface{}) error {
	mt, ok := m.meetings[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range fields {
		switch k {
		case "day":
			mt.Day = v.(*string)
		case "start_time":
			mt.Start = v.(*string)
		case "end_time":
			mt.End = v.(*string)
		case "room":
			mt.Room = v.(*string)
		}
	}
	return nil
}

func (m *mockMeetingRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.meetings[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.meetings, id)
	return nil
}

// ── 测试装配 ──

func newMockRepository() (*repository.Repository, *mockUserRepo, *mockCourseRepo, *mockMeetingRepo) {
	userRepo := newMockUserRepo()
	meetingRepo := newMockMeetingRepo()
	courseRepo := newMockCourseRepo(meetingRepo)
	repo := &repository.Repository{
		User:    userRepo,
		Session: newMockSessionRepo(),
		Course:  courseRepo,
		Meeting: meetingRepo,
	}
	return repo, userRepo, courseRepo, meetingRepo
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Session.TTL = 168 * time.Hour
	cfg.Session.Cookie.Name = "session"
	return cfg
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func seedUser(repo *mockUserRepo, username, plan string) *model.User {
	hash, _ := hashPassword("password123")
	user := &model.User{Username: username, PasswordHash: hash, Plan: plan}
	_ = repo.Create(context.Background(), user)
	return user
}

func seedCourse(repo *mockCourseRepo, userID string, mutate func(*model.Course)) *model.Course {
	course := &model.Course{
		UserID:   userID,
		Code:     "261200",
		NameEN:   "Data Structures",
		Credits:  3,
		Year:     2,
		Semester: 1,
		Type:     "major",
		Position: 1,
	}
	if mutate != nil {
		mutate(course)
	}
	_ = repo.Create(context.Background(), course)
	return course
}

func strp(s string) *string { return &s }
func intp(n int) *int       { return &n }
func boolp(b bool) *bool    { return &b }
