package editor

import (
	"context"
	"fmt"

	"github.com/Thanarak-q/Credit-Tracking-System/internal/schedule"
)

// ═══════════════════════════════════════════════════════════
// 提交 / 对账层
// ═══════════════════════════════════════════════════════════
//
// 提交流程：读草稿 → 归一化 → 与权威元组逐字段比对 → 仅发送变化
// 字段。无差异的提交不产生任何网络调用（幂等提交）。失败时清除
// 待提交标记、写错误横幅并重新拉取权威列表对账；乐观草稿此时
// 已不可信，由刷新覆盖。

// CommitEntry 提交条目的当前草稿。
// 草稿缺失时回落到权威元组（等价于空操作提交）。
func (c *Controller) CommitEntry(ctx context.Context, key EntryKey) error {
	draft := schedule.Normalize(c.draftOrAuthoritative(key))
	auth, authOK := c.authoritativeSlot(key)
	if !authOK {
		// 条目已不存在（如被并发手势删除），清标记并对账
		delete(c.pending, key)
		delete(c.drafts, key)
		return c.Resync(ctx)
	}

	patch := DiffSlots(auth, draft)
	if patch.Empty() {
		delete(c.pending, key)
		c.drafts[key] = auth
		return nil
	}

	switch key.Kind {
	case KindMeeting:
		if draft.IsZero() {
			return c.deleteMeeting(ctx, key)
		}
		return c.updateMeeting(ctx, key, patch)
	default:
		return c.updateInline(ctx, key, patch)
	}
}

func (c *Controller) updateInline(ctx context.Context, key EntryKey, patch SlotPatch) error {
	course, err := c.api.UpdateCourse(ctx, key.CourseID, CoursePatch{Schedule: patch})
	if err != nil {
		return c.commitFailed(ctx, key, err)
	}

	// 以服务端返回的记录替换权威状态
	if existing, ok := c.courses[key.CourseID]; ok {
		course.Meetings = existing.Meetings
	}
	c.courses[key.CourseID] = &course
	c.drafts[key] = course.Slot
	delete(c.pending, key)
	return nil
}

func (c *Controller) updateMeeting(ctx context.Context, key EntryKey, patch SlotPatch) error {
	meeting, err := c.api.UpdateMeeting(ctx, key.CourseID, key.MeetingID, patch)
	if err != nil {
		return c.commitFailed(ctx, key, err)
	}

	if course, ok := c.courses[key.CourseID]; ok {
		if i, _ := course.MeetingByID(key.MeetingID); i >= 0 {
			course.Meetings[i] = meeting
		}
	}
	c.drafts[key] = meeting.Slot
	delete(c.pending, key)
	return nil
}

// deleteMeeting 附加时段清空排课即删除该时段记录。
func (c *Controller) deleteMeeting(ctx context.Context, key EntryKey) error {
	if err := c.api.DeleteMeeting(ctx, key.CourseID, key.MeetingID); err != nil {
		return c.commitFailed(ctx, key, err)
	}

	if course, ok := c.courses[key.CourseID]; ok {
		if i, _ := course.MeetingByID(key.MeetingID); i >= 0 {
			course.Meetings = append(course.Meetings[:i], course.Meetings[i+1:]...)
		}
	}
	delete(c.drafts, key)
	delete(c.pending, key)
	return nil
}

// commitFailed 提交失败的统一处理：清标记、写横幅、对账。
func (c *Controller) commitFailed(ctx context.Context, key EntryKey, err error) error {
	delete(c.pending, key)
	c.banner = fmt.Sprintf("保存课表失败: %v", err)
	// 对账为尽力而为，提交错误优先上抛
	_ = c.Resync(ctx)
	return err
}

// ── 立即提交模式（下拉框 / 文本输入等直接控件） ──

// SetDay 直接设置条目的星期并在同一拍内提交。
func (c *Controller) SetDay(ctx context.Context, key EntryKey, day string) error {
	return c.setAndCommit(ctx, key, func(s *schedule.Slot) { s.Day = day })
}

// SetTimes 直接设置条目的起止时间并立即提交。
func (c *Controller) SetTimes(ctx context.Context, key EntryKey, start, end string) error {
	return c.setAndCommit(ctx, key, func(s *schedule.Slot) {
		s.Start = start
		s.End = end
	})
}

// SetRoom 直接设置条目的教室并立即提交。
func (c *Controller) SetRoom(ctx context.Context, key EntryKey, room string) error {
	return c.setAndCommit(ctx, key, func(s *schedule.Slot) { s.Room = room })
}

func (c *Controller) setAndCommit(ctx context.Context, key EntryKey, mutate func(*schedule.Slot)) error {
	if c.disabled {
		return nil
	}
	slot := c.draftOrAuthoritative(key)
	mutate(&slot)
	c.drafts[key] = slot
	c.pending[key] = struct{}{}
	return c.CommitEntry(ctx, key)
}

// ClearEntry 清除条目的排课（主排课位走全空补丁更新，附加时段走删除）。
func (c *Controller) ClearEntry(ctx context.Context, key EntryKey) error {
	if c.disabled {
		return nil
	}
	c.drafts[key] = schedule.Slot{}
	c.pending[key] = struct{}{}
	return c.CommitEntry(ctx, key)
}

// ── 新增排课位 ──

// AddPlacement 为课程新增一个排课位。
// 课程尚无主排课位时以默认落点写入主排课位并提交；
// 已有主排课位时另占一个附加时段（先建记录取得标识，再落草稿）。
func (c *Controller) AddPlacement(ctx context.Context, courseID string) error {
	if c.disabled {
		return nil
	}
	course, ok := c.courses[courseID]
	if !ok {
		return nil
	}

	if course.Slot.Scheduled() {
		return c.AddMeeting(ctx, courseID)
	}

	key := InlineKey(courseID)
	c.drafts[key] = DefaultSlot
	c.pending[key] = struct{}{}
	return c.CommitEntry(ctx, key)
}

// AddMeeting 为课程新增一个附加时段。
// 先调用协作方取得持久标识，成功后以返回的元组播种草稿仓。
func (c *Controller) AddMeeting(ctx context.Context, courseID string) error {
	if c.disabled {
		return nil
	}
	course, ok := c.courses[courseID]
	if !ok {
		return nil
	}

	meeting, err := c.api.CreateMeeting(ctx, courseID, DefaultSlot)
	if err != nil {
		c.banner = fmt.Sprintf("新增上课时段失败: %v", err)
		_ = c.Resync(ctx)
		return err
	}

	course.Meetings = append(course.Meetings, meeting)
	c.drafts[MeetingKey(courseID, meeting.ID)] = meeting.Slot
	return nil
}

// Teardown 组件卸载：仍带待提交标记的条目全部冲刷提交，
// 避免丢失进行中的编辑。不等待失败后的重试。
func (c *Controller) Teardown(ctx context.Context) {
	c.gesture = nil
	for key := range c.pending {
		_ = c.CommitEntry(ctx, key)
	}
}
