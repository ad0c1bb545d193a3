package service

import (
	"context"
	"testing"

	"github.com/Thanarak-q/Credit-Tracking-System/internal/model"
	"github.com/Thanarak-q/Credit-Tracking-System/internal/schedule/editor"
	"github.com/Thanarak-q/Credit-Tracking-System/internal/schedule/grid"
)

// 端到端装配：编辑器内核 → 适配器 → CourseService → 仓储。

func setupTestEditor(t *testing.T) (*editor.Controller, *model.User, *mockCourseRepo) {
	t.Helper()
	repo, userRepo, courseRepo, _ := newMockRepository()
	svc := NewCourseService(repo, testLogger())
	user := seedUser(userRepo, "somchai", "regular")
	seedCourse(courseRepo, user.UserID, func(c *model.Course) {
		c.ScheduleDay = strp("MON")
		c.ScheduleStart = strp("09:00")
		c.ScheduleEnd = strp("11:00")
	})

	ctrl := editor.NewController(NewEditorAdapter(svc, user.UserID), grid.FixedGeometry{Column: 70, Row: 70})
	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("Load 失败: %v", err)
	}
	return ctrl, user, courseRepo
}

func firstCourseID(t *testing.T, courseRepo *mockCourseRepo) string {
	t.Helper()
	for id := range courseRepo.courses {
		return id
	}
	t.Fatal("仓储中无课程")
	return ""
}

func TestEditorAdapter_DragPersists(t *testing.T) {
	ctrl, _, courseRepo := setupTestEditor(t)
	id := firstCourseID(t, courseRepo)
	key := editor.InlineKey(id)

	if !ctrl.StartMove(key, 100, 100) {
		t.Fatal("StartMove 应成功")
	}
	// 右移两列宽、下移一行高：+2 小时、+1 天
	ctrl.PointerMove(100+140, 100+70)
	if err := ctrl.Release(context.Background()); err != nil {
		t.Fatalf("Release 失败: %v", err)
	}

	stored := courseRepo.courses[id]
	if *stored.ScheduleDay != "TUE" || *stored.ScheduleStart != "11:00" || *stored.ScheduleEnd != "13:00" {
		t.Errorf("拖拽结果应落库为 TUE 11:00-13:00，实际 %s %s-%s",
			*stored.ScheduleDay, *stored.ScheduleStart, *stored.ScheduleEnd)
	}
	if ctrl.Pending(key) {
		t.Error("提交成功后不应再有待保存标记")
	}
}

func TestEditorAdapter_ServerNormalization(t *testing.T) {
	ctrl, _, courseRepo := setupTestEditor(t)
	id := firstCourseID(t, courseRepo)
	key := editor.InlineKey(id)

	// 直接设置非法区间：服务端归一化兜底
	if err := ctrl.SetTimes(context.Background(), key, "10:00", "10:10"); err != nil {
		t.Fatalf("SetTimes 失败: %v", err)
	}
	stored := courseRepo.courses[id]
	if *stored.ScheduleStart != "10:00" || *stored.ScheduleEnd != "10:30" {
		t.Errorf("过短区间应被补足到最短时长，实际 %s-%s", *stored.ScheduleStart, *stored.ScheduleEnd)
	}
}

func TestEditorAdapter_AddMeetingPersists(t *testing.T) {
	ctrl, _, courseRepo := setupTestEditor(t)
	id := firstCourseID(t, courseRepo)

	if err := ctrl.AddMeeting(context.Background(), id); err != nil {
		t.Fatalf("AddMeeting 失败: %v", err)
	}

	course, ok := ctrl.Course(id)
	if !ok || len(course.Meetings) != 1 {
		t.Fatal("控制器中应出现新附加时段")
	}
	meeting := course.Meetings[0]
	if meeting.Slot.Day != "MON" || meeting.Slot.Start != "09:00" || meeting.Slot.End != "11:00" {
		t.Errorf("新时段应落在默认位置，实际 %s %s-%s",
			meeting.Slot.Day, meeting.Slot.Start, meeting.Slot.End)
	}

	// 新时段可独立拖拽
	key := editor.MeetingKey(id, meeting.ID)
	if !ctrl.StartMove(key, 0, 0) {
		t.Fatal("新时段应可直接开始拖拽")
	}
	ctrl.PointerMove(0, 140) // +2 天
	if err := ctrl.Release(context.Background()); err != nil {
		t.Fatalf("Release 失败: %v", err)
	}

	updated, _ := ctrl.Course(id)
	if updated.Meetings[0].Slot.Day != "WED" {
		t.Errorf("时段应移动到 WED，实际=%s", updated.Meetings[0].Slot.Day)
	}
}

func TestEditorAdapter_ClearMeetingDeletes(t *testing.T) {
	ctrl, _, courseRepo := setupTestEditor(t)
	id := firstCourseID(t, courseRepo)

	if err := ctrl.AddMeeting(context.Background(), id); err != nil {
		t.Fatalf("AddMeeting 失败: %v", err)
	}
	course, _ := ctrl.Course(id)
	key := editor.MeetingKey(id, course.Meetings[0].ID)

	if err := ctrl.ClearEntry(context.Background(), key); err != nil {
		t.Fatalf("ClearEntry 失败: %v", err)
	}
	after, _ := ctrl.Course(id)
	if len(after.Meetings) != 0 {
		t.Error("清除附加时段应将其删除")
	}
}

func TestEditorAdapter_TrackerSaveRoundTrip(t *testing.T) {
	repo, userRepo, courseRepo, _ := newMockRepository()
	svc := NewCourseService(repo, testLogger())
	user := seedUser(userRepo, "somchai", "regular")

	api := NewEditorAdapter(svc, user.UserID)
	ctrl := editor.NewController(api, grid.FixedGeometry{Column: 70, Row: 70})
	tracker := editor.NewTracker(api, ctrl)
	if err := tracker.Load(context.Background()); err != nil {
		t.Fatalf("Load 失败: %v", err)
	}

	tracker.AddCourse(1, 1)
	if err := tracker.Save(context.Background()); err != nil {
		t.Fatalf("Save 失败: %v", err)
	}

	if len(courseRepo.courses) != 1 {
		t.Fatalf("新课程应已落库，实际 %d 门", len(courseRepo.courses))
	}
	for _, c := range courseRepo.courses {
		if c.NameEN != "Untitled Course" || c.Year != 1 || c.Semester != 1 {
			t.Errorf("落库课程默认值错误: %+v", c)
		}
	}
	if cs := tracker.Changes(); len(cs.Creates) != 0 || len(cs.Updates) != 0 {
		t.Error("保存后不应再有未保存变更")
	}
}
