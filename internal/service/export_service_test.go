package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/Thanarak-q/Credit-Tracking-System/internal/model"
)

func setupTestExportService() (ExportService, *mockUserRepo, *mockCourseRepo, *mockMeetingRepo) {
	repo, userRepo, courseRepo, meetingRepo := newMockRepository()
	svc := NewExportService(repo, testLogger())
	return svc, userRepo, courseRepo, meetingRepo
}

func seedScheduledCourse(courseRepo *mockCourseRepo, userID string) *model.Course {
	return seedCourse(courseRepo, userID, func(c *model.Course) {
		c.ScheduleDay = strp("MON")
		c.ScheduleStart = strp("09:00")
		c.ScheduleEnd = strp("11:00")
		c.ScheduleRoom = strp("SCB-201")
	})
}

func TestExportTimetable(t *testing.T) {
	svc, userRepo, courseRepo, _ := setupTestExportService()
	user := seedUser(userRepo, "somchai", "regular")
	seedScheduledCourse(courseRepo, user.UserID)

	buf, filename, err := svc.ExportTimetable(context.Background(), user.UserID, 2, 1)
	if err != nil {
		t.Fatalf("ExportTimetable 失败: %v", err)
	}
	if filename != "timetable_y2_s1.xlsx" {
		t.Errorf("文件名错误: %s", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("导出内容应为合法 xlsx: %v", err)
	}
	defer f.Close()

	// MON 列(B)，09:00 行（表头 2 行 + 07:00/08:00 两行 = 第 5 行）
	cell, err := f.GetCellValue("Timetable", "B5")
	if err != nil {
		t.Fatalf("读取单元格失败: %v", err)
	}
	if !strings.Contains(cell, "261200") || !strings.Contains(cell, "SCB-201") {
		t.Errorf("单元格应含课程代码与教室，实际=%q", cell)
	}
}

func TestExportTimetable_IncludesMeetings(t *testing.T) {
	svc, userRepo, courseRepo, meetingRepo := setupTestExportService()
	user := seedUser(userRepo, "somchai", "regular")
	course := seedScheduledCourse(courseRepo, user.UserID)
	_ = meetingRepo.Create(context.Background(), &model.CourseMeeting{
		CourseID: course.CourseID,
		Day:      strp("WED"),
		Start:    strp("13:00"),
		End:      strp("15:00"),
	})

	buf, _, err := svc.ExportTimetable(context.Background(), user.UserID, 2, 1)
	if err != nil {
		t.Fatalf("ExportTimetable 失败: %v", err)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("导出内容应为合法 xlsx: %v", err)
	}
	defer f.Close()

	// WED 列(D)，13:00 行（表头 2 行 + 6 小时 = 第 9 行）
	cell, _ := f.GetCellValue("Timetable", "D9")
	if !strings.Contains(cell, "261200") {
		t.Errorf("附加时段也应出现在课表中，实际=%q", cell)
	}
}

func TestExportTimetable_TermFilter(t *testing.T) {
	svc, userRepo, courseRepo, _ := setupTestExportService()
	user := seedUser(userRepo, "somchai", "regular")
	seedScheduledCourse(courseRepo, user.UserID) // year 2, semester 1

	_, _, err := svc.ExportTimetable(context.Background(), user.UserID, 1, 1)
	if !errors.Is(err, ErrExportNoCourses) {
		t.Errorf("其他学期无课应返回 ErrExportNoCourses，实际: %v", err)
	}
}

func TestExportTimetable_UnscheduledExcluded(t *testing.T) {
	svc, userRepo, courseRepo, _ := setupTestExportService()
	user := seedUser(userRepo, "somchai", "regular")
	seedCourse(courseRepo, user.UserID, nil) // 未排课

	_, _, err := svc.ExportTimetable(context.Background(), user.UserID, 2, 1)
	if !errors.Is(err, ErrExportNoCourses) {
		t.Errorf("仅有未排课程时应返回 ErrExportNoCourses，实际: %v", err)
	}
}

func TestExportCalendar(t *testing.T) {
	svc, userRepo, courseRepo, _ := setupTestExportService()
	user := seedUser(userRepo, "somchai", "regular")
	seedScheduledCourse(courseRepo, user.UserID)

	content, filename, err := svc.ExportCalendar(context.Background(), user.UserID, 2, 1)
	if err != nil {
		t.Fatalf("ExportCalendar 失败: %v", err)
	}
	if filename != "timetable_y2_s1.ics" {
		t.Errorf("文件名错误: %s", filename)
	}
	if !strings.Contains(content, "BEGIN:VCALENDAR") || !strings.Contains(content, "BEGIN:VEVENT") {
		t.Error("导出内容应为 iCalendar 文本")
	}
	if !strings.Contains(content, "SUMMARY:261200 Data Structures") {
		t.Error("事件标题应含课程代码与课名")
	}
	if !strings.Contains(content, "FREQ=WEEKLY;BYDAY=MO") {
		t.Error("事件应按周一每周重复")
	}
	if !strings.Contains(content, "LOCATION:SCB-201") {
		t.Error("事件应携带教室")
	}
}
