package editor

import (
	"context"

	"github.com/Thanarak-q/Credit-Tracking-System/internal/schedule"
	"github.com/Thanarak-q/Credit-Tracking-System/internal/schedule/grid"
)

// ═══════════════════════════════════════════════════════════
// 指针交互状态机：Idle → Dragging(move|resize) → Idle
// ═══════════════════════════════════════════════════════════
//
// 状态用显式变体表达，同一时刻至多一个活动手势。
// 网格几何量在手势开始时一次性实测并捕获，手势期间不再读取：
// 拖动是短时操作，期间窗口尺寸视为不变。

// dragEpsilon 位移死区（小时）。小于该值的抖动不触发草稿更新。
const dragEpsilon = 0.01

// gestureState 活动手势的显式变体。nil 即 Idle。
type gestureState interface {
	entryKey() EntryKey
}

// moveGesture 整块拖动：水平改时间，垂直换天，时长保持不变。
type moveGesture struct {
	key         EntryKey
	originX     float64
	originY     float64
	columnWidth float64
	rowHeight   float64
	baseStart   float64 // 手势起点的起始时间（小时偏移）
	baseEnd     float64
	baseDay     int // 手势起点的星期下标
	duration    float64
}

func (g *moveGesture) entryKey() EntryKey { return g.key }

// resizeGesture 拖动尾缘改时长：起始时间固定，只动结束时间。
type resizeGesture struct {
	key         EntryKey
	originX     float64
	columnWidth float64
	baseStart   float64
	baseEnd     float64
	baseDay     int
}

func (g *resizeGesture) entryKey() EntryKey { return g.key }

// ── 状态转移 ──

// StartMove 在课程块主体按下指针，开启拖动手势。
// 全局禁用中、该课程有在途提交、或条目未排课时忽略（返回 false）。
func (c *Controller) StartMove(key EntryKey, x, y float64) bool {
	if !c.canStartGesture(key) {
		return false
	}
	slot := c.draftOrAuthoritative(key)
	if !slot.Scheduled() {
		return false
	}

	start := grid.TimeToOffset(slot.Start)
	end := grid.TimeToOffset(slot.End)
	duration := end - start
	if duration < grid.MinDurationHours {
		duration = grid.MinDurationHours
	}

	c.gesture = &moveGesture{
		key:         key,
		originX:     x,
		originY:     y,
		columnWidth: c.geo.ColumnWidth(),
		rowHeight:   c.geo.RowHeight(),
		baseStart:   start,
		baseEnd:     end,
		baseDay:     schedule.DayIndex(slot.Day),
		duration:    duration,
	}
	c.pending[key] = struct{}{}
	return true
}

// StartResize 在课程块尾缘手柄按下指针，开启缩放手势。
func (c *Controller) StartResize(key EntryKey, x float64) bool {
	if !c.canStartGesture(key) {
		return false
	}
	slot := c.draftOrAuthoritative(key)
	if !slot.Scheduled() {
		return false
	}

	c.gesture = &resizeGesture{
		key:         key,
		originX:     x,
		columnWidth: c.geo.ColumnWidth(),
		baseStart:   grid.TimeToOffset(slot.Start),
		baseEnd:     grid.TimeToOffset(slot.End),
		baseDay:     schedule.DayIndex(slot.Day),
	}
	c.pending[key] = struct{}{}
	return true
}

// canStartGesture 手势开启守卫。
func (c *Controller) canStartGesture(key EntryKey) bool {
	if c.disabled || c.gesture != nil {
		return false
	}
	if c.CoursePending(key.CourseID) {
		return false
	}
	if _, ok := c.courses[key.CourseID]; !ok {
		return false
	}
	return true
}

// PointerMove 指针移动事件。无活动手势时为空操作。
// 每次更新只写本地草稿仓（延迟模式），不与外部协作方通信。
func (c *Controller) PointerMove(x, y float64) {
	switch g := c.gesture.(type) {
	case *moveGesture:
		c.applyMove(g, x, y)
	case *resizeGesture:
		c.applyResize(g, x)
	}
}

func (c *Controller) applyMove(g *moveGesture, x, y float64) {
	hoursDelta := grid.DeltaHours(x-g.originX, g.columnWidth)
	daysDelta := grid.DeltaDays(y-g.originY, g.rowHeight)
	if hoursDelta > -dragEpsilon && hoursDelta < dragEpsilon && daysDelta == 0 {
		return
	}

	newStart := g.baseStart + hoursDelta
	maxStart := grid.WindowHours - g.duration
	if newStart < 0 {
		newStart = 0
	}
	if newStart > maxStart {
		newStart = maxStart
	}
	newStart = grid.Quantize(newStart)
	newEnd := newStart + g.duration

	dayIndex := g.baseDay + daysDelta
	if dayIndex < 0 {
		dayIndex = 0
	}
	if dayIndex > 6 {
		dayIndex = 6
	}

	cur := c.draftOrAuthoritative(g.key)
	next := schedule.Slot{
		Day:   schedule.DayAt(dayIndex),
		Start: grid.OffsetToTime(newStart),
		End:   grid.OffsetToTime(newEnd),
		Room:  cur.Room,
	}
	if next != cur {
		c.drafts[g.key] = next
	}
}

func (c *Controller) applyResize(g *resizeGesture, x float64) {
	hoursDelta := grid.DeltaHours(x-g.originX, g.columnWidth)
	if hoursDelta > -dragEpsilon && hoursDelta < dragEpsilon {
		return
	}

	newEnd := g.baseEnd + hoursDelta
	minEnd := g.baseStart + grid.MinDurationHours
	if newEnd < minEnd {
		newEnd = minEnd
	}
	if newEnd > grid.WindowHours {
		newEnd = grid.WindowHours
	}
	newEnd = grid.Quantize(newEnd)
	if newEnd < minEnd {
		newEnd = minEnd
	}

	cur := c.draftOrAuthoritative(g.key)
	next := schedule.Slot{
		Day:   schedule.DayAt(g.baseDay),
		Start: grid.OffsetToTime(g.baseStart),
		End:   grid.OffsetToTime(newEnd),
		Room:  cur.Room,
	}
	if next != cur {
		c.drafts[g.key] = next
	}
}

// Release 指针抬起（全局监听，与指针下方元素无关）。
// 结束当前手势并提交其条目，随后回到 Idle。
func (c *Controller) Release(ctx context.Context) error {
	g := c.gesture
	if g == nil {
		return nil
	}
	c.gesture = nil
	return c.CommitEntry(ctx, g.entryKey())
}

// Gesturing 当前是否有活动手势。
func (c *Controller) Gesturing() bool { return c.gesture != nil }
