package editor

import (
	"context"
	"fmt"
)

// ═══════════════════════════════════════════════════════════
// 批量保存工作流（编辑器外层薄封装）
// ═══════════════════════════════════════════════════════════
//
// 页面加载时留存一份全量"原始快照"，用户可自由改动课程字段而不
// 逐键持久化；显式确认保存时按结构比对计算变更集（新建行 + 修改
// 行），先建后改、逐条串行发送，成功后用服务端确认结果替换快照。
// 放弃操作整体还原原始快照。中途失败不回滚已发送的操作（接受的
// 不一致窗口），只触发全量对账。

// CourseUpdate 变更集中的一条修改。
type CourseUpdate struct {
	ID    string
	Patch CoursePatch
}

// ChangeSet 一次批量保存的变更集。修改按工作副本顺序排列，保证
// 发送顺序确定。
type ChangeSet struct {
	Creates []Course // 新建行（尚无持久标识）
	Updates []CourseUpdate
}

// Empty 变更集是否为空。
func (cs ChangeSet) Empty() bool {
	return len(cs.Creates) == 0 && len(cs.Updates) == 0
}

// Tracker 课程列表的批量编辑工作台。
// 内嵌编辑器控制器；批量保存或登出在途时禁用整个编辑面。
type Tracker struct {
	api  CourseAPI
	ctrl *Controller

	snapshot []Course  // 加载时的原始快照
	working  []*Course // 工作副本（含 ID 为空的新建行）
	saving   bool
}

// NewTracker 创建批量编辑工作台。
func NewTracker(api CourseAPI, ctrl *Controller) *Tracker {
	return &Tracker{api: api, ctrl: ctrl}
}

// Controller 返回内嵌的课表编辑器控制器。
func (t *Tracker) Controller() *Controller { return t.ctrl }

// Load 拉取课程列表，建立快照与工作副本，并刷新编辑器。
func (t *Tracker) Load(ctx context.Context) error {
	courses, err := t.api.ListCourses(ctx)
	if err != nil {
		t.ctrl.banner = fmt.Sprintf("加载课程列表失败: %v", err)
		return err
	}
	t.reset(courses)
	return nil
}

// reset 用一批权威课程重建快照、工作副本与编辑器状态。
func (t *Tracker) reset(courses []Course) {
	t.snapshot = cloneCourses(courses)
	t.working = make([]*Course, len(courses))
	for i := range courses {
		course := cloneCourse(courses[i])
		t.working[i] = &course
	}
	t.ctrl.Refresh(courses)
}

// Courses 返回工作副本（调用方可直接改字段，保存前不持久化）。
func (t *Tracker) Courses() []*Course { return t.working }

// AddCourse 追加一个新建行（无持久标识，保存时才创建）。
func (t *Tracker) AddCourse(year, semester int) *Course {
	position := 0
	for _, c := range t.working {
		if c.Year == year && c.Semester == semester && c.Position >= position {
			position = c.Position + 1
		}
	}
	course := &Course{
		Year:     year,
		Semester: semester,
		Type:     "free",
		Position: position,
	}
	t.working = append(t.working, course)
	return course
}

// DeleteCourse 删除课程（立即持久化，不进入批量变更集）。
func (t *Tracker) DeleteCourse(ctx context.Context, id string) error {
	if id == "" {
		// 未保存的新建行只从工作副本移除
		return nil
	}
	if err := t.api.DeleteCourse(ctx, id); err != nil {
		t.ctrl.banner = fmt.Sprintf("删除课程失败: %v", err)
		return err
	}
	return t.Resync(ctx)
}

// Changes 按结构比对计算当前变更集。
func (t *Tracker) Changes() ChangeSet {
	byID := make(map[string]Course, len(t.snapshot))
	for _, c := range t.snapshot {
		byID[c.ID] = c
	}

	var cs ChangeSet
	for _, c := range t.working {
		if c.ID == "" {
			cs.Creates = append(cs.Creates, *c)
			continue
		}
		orig, ok := byID[c.ID]
		if !ok {
			continue
		}
		if patch := DiffCourses(orig, *c); !patch.Empty() {
			cs.Updates = append(cs.Updates, CourseUpdate{ID: c.ID, Patch: patch})
		}
	}
	return cs
}

// Save 持久化整个变更集：先逐条创建新行，再逐条发送修改，全程串行
// 以保证确定的顺序与清晰的错误归属。任一步失败即中止剩余操作并全量
// 对账；已发送成功的操作保持生效。成功后快照替换为服务端确认结果。
func (t *Tracker) Save(ctx context.Context) error {
	if t.saving {
		return nil
	}
	cs := t.Changes()
	if cs.Empty() {
		return nil
	}

	t.saving = true
	_ = t.ctrl.SetDisabled(ctx, true)
	defer func() {
		t.saving = false
		_ = t.ctrl.SetDisabled(ctx, false)
	}()

	for _, course := range cs.Creates {
		if _, err := t.api.CreateCourse(ctx, course); err != nil {
			return t.saveFailed(ctx, err)
		}
	}
	for _, u := range cs.Updates {
		if _, err := t.api.UpdateCourse(ctx, u.ID, u.Patch); err != nil {
			return t.saveFailed(ctx, err)
		}
	}

	return t.Resync(ctx)
}

func (t *Tracker) saveFailed(ctx context.Context, err error) error {
	t.ctrl.banner = fmt.Sprintf("保存失败: %v", err)
	_ = t.Resync(ctx)
	return err
}

// Discard 放弃未保存的改动，整体还原原始快照。
func (t *Tracker) Discard() {
	t.reset(t.snapshot)
}

// Resync 全量重拉权威列表并重建快照（错误对账路径）。
func (t *Tracker) Resync(ctx context.Context) error {
	courses, err := t.api.ListCourses(ctx)
	if err != nil {
		t.ctrl.banner = fmt.Sprintf("加载课程列表失败: %v", err)
		return err
	}
	t.reset(courses)
	return nil
}

// Saving 批量保存是否在途。
func (t *Tracker) Saving() bool { return t.saving }

// ── 深拷贝 ──

func cloneCourse(c Course) Course {
	out := c
	out.Meetings = append([]Meeting(nil), c.Meetings...)
	return out
}

func cloneCourses(courses []Course) []Course {
	out := make([]Course, len(courses))
	for i := range courses {
		out[i] = cloneCourse(courses[i])
	}
	return out
}
