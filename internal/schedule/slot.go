// Package schedule 定义周课表的排课元组（星期/起止时间/教室）及其归一化规则。
// 归一化保证元组要么完整合法，要么完全为空，不存在"半排课"状态。
package schedule

import (
	"strings"

	"github.com/Thanarak-q/Credit-Tracking-System/internal/schedule/grid"
)

// ── 星期枚举 ──

// Days 周一至周日的固定 7 值枚举（持久层统一存大写）。
var Days = [7]string{"MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN"}

// DayIndex 返回星期值在枚举中的下标（0=MON..6=SUN），非法值返回 -1。
func DayIndex(day string) int {
	for i, d := range Days {
		if d == day {
			return i
		}
	}
	return -1
}

// DayAt 返回下标对应的星期值，下标钳制到 [0, 6]。
func DayAt(index int) string {
	if index < 0 {
		index = 0
	}
	if index > 6 {
		index = 6
	}
	return Days[index]
}

// CanonicalDay 将任意输入转为枚举值：去空白、转大写、校验；非法返回空串。
func CanonicalDay(day string) string {
	d := strings.ToUpper(strings.TrimSpace(day))
	if DayIndex(d) < 0 {
		return ""
	}
	return d
}

// ── 排课元组 ──

// Slot 一条排课元组。零值表示未排课；四个字段要么全有意义要么全空。
// Day 为 Days 枚举值，Start/End 为 "HH:MM"，Room 为自由文本。
type Slot struct {
	Day   string
	Start string
	End   string
	Room  string
}

// IsZero 是否为未排课元组。
func (s Slot) IsZero() bool {
	return s == Slot{}
}

// Scheduled 是否已排上网格（有合法星期与起止时间）。
func (s Slot) Scheduled() bool {
	return s.Day != "" && s.Start != "" && s.End != ""
}

// Normalize 归一化排课元组，满足以下不变量：
//   - Day 转大写并校验，非法即整组清空（含 Room）
//   - 起止时间仅有其一时按最短时长补全另一端（以已有端为锚）
//   - 起止均钳制进时间窗；End < Start+最短时长 时后推 End，
//     触顶则改为 End 钳到窗口上沿、Start 回退最短时长
//   - Room 去首尾空白
//
// Normalize 幂等：Normalize(Normalize(x)) == Normalize(x)。
func Normalize(s Slot) Slot {
	day := CanonicalDay(s.Day)
	room := strings.TrimSpace(s.Room)

	startMin, startOK := parseWindowClock(s.Start)
	endMin, endOK := parseWindowClock(s.End)

	// 星期非法或起止全空：整组视为未排课
	if day == "" || (!startOK && !endOK) {
		return Slot{}
	}

	switch {
	case startOK && !endOK:
		endMin = clampWindow(startMin + grid.MinDurationMinutes)
		startMin = clampWindow(startMin)
	case !startOK && endOK:
		startMin = clampWindow(endMin - grid.MinDurationMinutes)
		endMin = clampWindow(endMin)
	default:
		startMin = clampWindow(startMin)
		endMin = clampWindow(endMin)
	}

	if endMin < startMin+grid.MinDurationMinutes {
		endMin = startMin + grid.MinDurationMinutes
		if endMin > grid.WindowMinutes {
			endMin = grid.WindowMinutes
			startMin = endMin - grid.MinDurationMinutes
		}
	}

	return Slot{
		Day:   day,
		Start: grid.FormatClock(grid.WindowStartHour*60 + startMin),
		End:   grid.FormatClock(grid.WindowStartHour*60 + endMin),
		Room:  room,
	}
}

// parseWindowClock 解析 "HH:MM" 为窗内分钟偏移（未钳制），非法返回 ok=false。
func parseWindowClock(t string) (int, bool) {
	if strings.TrimSpace(t) == "" {
		return 0, false
	}
	m, ok := grid.ParseClock(t)
	if !ok {
		return 0, false
	}
	return m - grid.WindowStartHour*60, true
}

func clampWindow(m int) int {
	if m < 0 {
		return 0
	}
	if m > grid.WindowMinutes {
		return grid.WindowMinutes
	}
	return m
}
