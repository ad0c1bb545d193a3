// Package editor 实现周课表交互编辑器的核心状态机：
// 本地草稿仓、指针手势（拖动/缩放）、提交对账与批量保存工作流。
// 渲染层只通过少量意图明确的命令驱动本包，不直接操作内部状态。
package editor

import (
	"context"
	"fmt"

	"github.com/Thanarak-q/Credit-Tracking-System/internal/schedule"
	"github.com/Thanarak-q/Credit-Tracking-System/internal/schedule/grid"
)

// ── 条目标识 ──

// EntryKind 排课条目类型
type EntryKind string

const (
	// KindInline 课程自带的主排课位（每门课至多一个）
	KindInline EntryKind = "inline"
	// KindMeeting 课程的附加上课时段（可有多个，各自独立）
	KindMeeting EntryKind = "meeting"
)

// EntryKey 排课条目的复合标识。Kind 为 inline 时 MeetingID 为空。
type EntryKey struct {
	CourseID  string
	Kind      EntryKind
	MeetingID string
}

// InlineKey 构造课程主排课位的条目标识。
func InlineKey(courseID string) EntryKey {
	return EntryKey{CourseID: courseID, Kind: KindInline}
}

// MeetingKey 构造附加时段的条目标识。
func MeetingKey(courseID, meetingID string) EntryKey {
	return EntryKey{CourseID: courseID, Kind: KindMeeting, MeetingID: meetingID}
}

// ── 权威数据 ──

// Meeting 课程的一个附加上课时段（由外部协作方持久化，随课程级联删除）。
type Meeting struct {
	ID   string
	Slot schedule.Slot
}

// Course 权威课程记录。编辑器只读地持有其副本，所有持久化变更走 CourseAPI。
type Course struct {
	ID        string
	Code      string
	NameEN    string
	NameTH    string
	Credits   int
	Year      int
	Semester  int
	Type      string
	Completed bool
	Position  int
	Slot      schedule.Slot
	Meetings  []Meeting
}

// MeetingByID 按标识查找附加时段，返回下标与指针；未找到返回 -1, nil。
func (c *Course) MeetingByID(id string) (int, *Meeting) {
	for i := range c.Meetings {
		if c.Meetings[i].ID == id {
			return i, &c.Meetings[i]
		}
	}
	return -1, nil
}

// ── 外部协作方 ──

// CourseAPI 课程 CRUD 协作方接口。编辑器自身不做任何持久化，
// 全部落盘操作经由本接口；实现方负责鉴权与存储。
type CourseAPI interface {
	ListCourses(ctx context.Context) ([]Course, error)
	CreateCourse(ctx context.Context, course Course) (Course, error)
	UpdateCourse(ctx context.Context, id string, patch CoursePatch) (Course, error)
	DeleteCourse(ctx context.Context, id string) error
	CreateMeeting(ctx context.Context, courseID string, slot schedule.Slot) (Meeting, error)
	UpdateMeeting(ctx context.Context, courseID, meetingID string, patch SlotPatch) (Meeting, error)
	DeleteMeeting(ctx context.Context, courseID, meetingID string) error
}

// ── 差量补丁 ──

// SlotPatch 排课元组的差量补丁。nil 表示字段不变，指向空串表示清空。
type SlotPatch struct {
	Day   *string
	Start *string
	End   *string
	Room  *string
}

// Empty 补丁是否不含任何变更。
func (p SlotPatch) Empty() bool {
	return p.Day == nil && p.Start == nil && p.End == nil && p.Room == nil
}

// DiffSlots 逐字段比较两个元组，仅将发生变化的字段放入补丁。
func DiffSlots(from, to schedule.Slot) SlotPatch {
	var p SlotPatch
	if from.Day != to.Day {
		p.Day = ptr(to.Day)
	}
	if from.Start != to.Start {
		p.Start = ptr(to.Start)
	}
	if from.End != to.End {
		p.End = ptr(to.End)
	}
	if from.Room != to.Room {
		p.Room = ptr(to.Room)
	}
	return p
}

// Apply 将补丁应用到元组副本上。
func (p SlotPatch) Apply(s schedule.Slot) schedule.Slot {
	if p.Day != nil {
		s.Day = *p.Day
	}
	if p.Start != nil {
		s.Start = *p.Start
	}
	if p.End != nil {
		s.End = *p.End
	}
	if p.Room != nil {
		s.Room = *p.Room
	}
	return s
}

// CoursePatch 课程记录的差量补丁（仅含变化字段）。
type CoursePatch struct {
	Code      *string
	NameEN    *string
	NameTH    *string
	Credits   *int
	Year      *int
	Semester  *int
	Type      *string
	Completed *bool
	Position  *int
	Schedule  SlotPatch
}

// Empty 补丁是否不含任何变更。
func (p CoursePatch) Empty() bool {
	return p.Code == nil && p.NameEN == nil && p.NameTH == nil &&
		p.Credits == nil && p.Year == nil && p.Semester == nil &&
		p.Type == nil && p.Completed == nil && p.Position == nil &&
		p.Schedule.Empty()
}

// DiffCourses 逐字段比较两条课程记录（不含 Meetings），生成差量补丁。
func DiffCourses(from, to Course) CoursePatch {
	var p CoursePatch
	if from.Code != to.Code {
		p.Code = ptr(to.Code)
	}
	if from.NameEN != to.NameEN {
		p.NameEN = ptr(to.NameEN)
	}
	if from.NameTH != to.NameTH {
		p.NameTH = ptr(to.NameTH)
	}
	if from.Credits != to.Credits {
		p.Credits = ptr(to.Credits)
	}
	if from.Year != to.Year {
		p.Year = ptr(to.Year)
	}
	if from.Semester != to.Semester {
		p.Semester = ptr(to.Semester)
	}
	if from.Type != to.Type {
		p.Type = ptr(to.Type)
	}
	if from.Completed != to.Completed {
		p.Completed = ptr(to.Completed)
	}
	if from.Position != to.Position {
		p.Position = ptr(to.Position)
	}
	p.Schedule = DiffSlots(from.Slot, to.Slot)
	return p
}

func ptr[T any](v T) *T { return &v }

// ── 编辑器控制器 ──

// DefaultSlot 新增排课位的默认落点。
var DefaultSlot = schedule.Slot{Day: "MON", Start: "09:00", End: "11:00"}

// Controller 周课表编辑器控制器。
// 独占持有本地草稿仓、待提交集合与手势状态；单写者，
// 依赖 UI 事件循环的天然串行化，内部不加锁。
type Controller struct {
	api CourseAPI
	geo grid.Geometry

	courses map[string]*Course  // 权威课程记录（按 ID）
	order   []string            // 课程展示顺序
	drafts  map[EntryKey]schedule.Slot
	pending map[EntryKey]struct{}

	gesture  gestureState // nil 即 Idle
	disabled bool
	banner   string // 最新一条错误消息，新错误覆盖旧错误
}

// NewController 创建编辑器控制器。geo 提供实测的网格几何量。
func NewController(api CourseAPI, geo grid.Geometry) *Controller {
	return &Controller{
		api:     api,
		geo:     geo,
		courses: make(map[string]*Course),
		drafts:  make(map[EntryKey]schedule.Slot),
		pending: make(map[EntryKey]struct{}),
	}
}

// Load 初次加载：拉取权威课程列表并填充草稿仓。
func (c *Controller) Load(ctx context.Context) error {
	return c.Resync(ctx)
}

// Resync 重新拉取权威课程列表（错误后对账路径也走这里）。
func (c *Controller) Resync(ctx context.Context) error {
	courses, err := c.api.ListCourses(ctx)
	if err != nil {
		c.banner = fmt.Sprintf("加载课程列表失败: %v", err)
		return err
	}
	c.Refresh(courses)
	return nil
}

// Refresh 用一批权威课程数据刷新草稿仓。
// 带待提交标记的条目保留现有草稿不被覆盖；标记清除后的下一次
// 刷新会用权威值覆盖草稿完成对账。
func (c *Controller) Refresh(courses []Course) {
	c.courses = make(map[string]*Course, len(courses))
	c.order = c.order[:0]
	seen := make(map[EntryKey]struct{})

	for i := range courses {
		course := courses[i]
		c.courses[course.ID] = &course
		c.order = append(c.order, course.ID)

		key := InlineKey(course.ID)
		seen[key] = struct{}{}
		if _, inflight := c.pending[key]; !inflight {
			c.drafts[key] = course.Slot
		}
		for _, m := range course.Meetings {
			mk := MeetingKey(course.ID, m.ID)
			seen[mk] = struct{}{}
			if _, inflight := c.pending[mk]; !inflight {
				c.drafts[mk] = m.Slot
			}
		}
	}

	// 已不存在且无在途提交的条目从草稿仓移除
	for key := range c.drafts {
		if _, ok := seen[key]; !ok {
			if _, inflight := c.pending[key]; !inflight {
				delete(c.drafts, key)
			}
		}
	}
}

// Course 按 ID 返回权威课程记录（只读视图）。
func (c *Controller) Course(id string) (*Course, bool) {
	course, ok := c.courses[id]
	return course, ok
}

// Draft 返回条目的当前草稿元组。
func (c *Controller) Draft(key EntryKey) (schedule.Slot, bool) {
	s, ok := c.drafts[key]
	return s, ok
}

// Pending 条目是否有在途提交。
func (c *Controller) Pending(key EntryKey) bool {
	_, ok := c.pending[key]
	return ok
}

// CoursePending 课程的任一条目是否有在途提交（该课程的行控件应禁用）。
func (c *Controller) CoursePending(courseID string) bool {
	for key := range c.pending {
		if key.CourseID == courseID {
			return true
		}
	}
	return false
}

// SetDisabled 全局启用/禁用交互（批量保存或登出在途时禁用整个编辑面）。
// 手势进行中被禁用时，该手势按立即松开处理。
func (c *Controller) SetDisabled(ctx context.Context, disabled bool) error {
	c.disabled = disabled
	if disabled && c.gesture != nil {
		return c.Release(ctx)
	}
	return nil
}

// Disabled 当前是否全局禁用。
func (c *Controller) Disabled() bool { return c.disabled }

// LastError 返回错误横幅的当前文案（空串表示无错误）。
func (c *Controller) LastError() string { return c.banner }

// ClearError 清空错误横幅。
func (c *Controller) ClearError() { c.banner = "" }

// authoritativeSlot 返回条目对应的权威排课元组。
func (c *Controller) authoritativeSlot(key EntryKey) (schedule.Slot, bool) {
	course, ok := c.courses[key.CourseID]
	if !ok {
		return schedule.Slot{}, false
	}
	switch key.Kind {
	case KindInline:
		return course.Slot, true
	case KindMeeting:
		if _, m := course.MeetingByID(key.MeetingID); m != nil {
			return m.Slot, true
		}
	}
	return schedule.Slot{}, false
}

// draftOrAuthoritative 读条目草稿，缺失时回落到权威元组。
func (c *Controller) draftOrAuthoritative(key EntryKey) schedule.Slot {
	if s, ok := c.drafts[key]; ok {
		return s
	}
	s, _ := c.authoritativeSlot(key)
	return s
}

// ── 渲染数据契约 ──

// Block 一个待渲染的课程块。小时/天为网格单位，像素坐标按注入的几何量换算。
type Block struct {
	Key      EntryKey
	Title    string
	Room     string
	DayIndex int     // 0=MON..6=SUN
	StartOff float64 // 距窗口起点的小时偏移
	EndOff   float64
	X, Y     float64 // 像素坐标（左上角）
	W, H     float64
}

// Blocks 按展示顺序给出所有已排课条目的渲染块。
func (c *Controller) Blocks() []Block {
	colW := c.geo.ColumnWidth()
	rowH := c.geo.RowHeight()

	var blocks []Block
	for _, id := range c.order {
		course := c.courses[id]
		title := course.NameEN
		if title == "" {
			title = course.Code
		}

		appendBlock := func(key EntryKey) {
			slot := c.draftOrAuthoritative(key)
			if !slot.Scheduled() {
				return
			}
			day := schedule.DayIndex(slot.Day)
			start := grid.TimeToOffset(slot.Start)
			end := grid.TimeToOffset(slot.End)
			blocks = append(blocks, Block{
				Key:      key,
				Title:    title,
				Room:     slot.Room,
				DayIndex: day,
				StartOff: start,
				EndOff:   end,
				X:        start * colW,
				Y:        float64(day) * rowH,
				W:        (end - start) * colW,
				H:        rowH,
			})
		}

		appendBlock(InlineKey(id))
		for _, m := range course.Meetings {
			appendBlock(MeetingKey(id, m.ID))
		}
	}
	return blocks
}
