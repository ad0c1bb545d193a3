// Package grid 提供周课表网格的纯函数时间/坐标换算。
// 所有换算均以固定时间窗（07:00-19:00）为基准，时间步进为 15 分钟。
package grid

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ── 时间窗常量 ──

const (
	// WindowStartHour 网格时间窗起始小时（07:00）
	WindowStartHour = 7
	// WindowEndHour 网格时间窗结束小时（19:00）
	WindowEndHour = 19
	// WindowHours 时间窗总时长（小时）
	WindowHours = WindowEndHour - WindowStartHour
	// WindowMinutes 时间窗总时长（分钟）
	WindowMinutes = WindowHours * 60
	// QuantumMinutes 时间量化步进（分钟）
	QuantumMinutes = 15
	// MinDurationMinutes 课程块最短时长（分钟）
	MinDurationMinutes = 30
)

// MinDurationHours 最短时长的小时表示
const MinDurationHours = float64(MinDurationMinutes) / 60.0

// ── HH:MM 解析与格式化 ──

// ParseClock 解析 "HH:MM" 字符串为当日分钟数。
// 返回 ok=false 表示输入为空或格式非法。
func ParseClock(s string) (int, bool) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// FormatClock 将当日分钟数格式化为零填充的 "HH:MM"。
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ── 时间 ↔ 窗内偏移换算 ──

// TimeToOffset 将 "HH:MM" 换算为距时间窗起点的小时偏移。
// 空串或非法输入返回 0；调用方不得将 0 理解为"恰好 07:00"。
func TimeToOffset(t string) float64 {
	m, ok := ParseClock(t)
	if !ok {
		return 0
	}
	return float64(m-WindowStartHour*60) / 60.0
}

// OffsetToTime 将小时偏移换算为 "HH:MM"。
// 先钳制到 [0, WindowHours]，再量化到最近的 15 分钟刻度。
func OffsetToTime(hours float64) string {
	hours = ClampOffset(hours)
	quarter := math.Round(hours * 4)
	minutes := int(quarter) * QuantumMinutes
	return FormatClock(WindowStartHour*60 + minutes)
}

// TimeToMinutes 将 "HH:MM" 换算为距时间窗起点的分钟偏移，钳制到 [0, WindowMinutes]。
// 空串或非法输入返回 0。
func TimeToMinutes(t string) int {
	m, ok := ParseClock(t)
	if !ok {
		return 0
	}
	m -= WindowStartHour * 60
	if m < 0 {
		return 0
	}
	if m > WindowMinutes {
		return WindowMinutes
	}
	return m
}

// MinutesToTime 将分钟偏移换算为 "HH:MM"，先钳制再量化到 15 分钟刻度。
func MinutesToTime(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	if minutes > WindowMinutes {
		minutes = WindowMinutes
	}
	q := int(math.Round(float64(minutes)/QuantumMinutes)) * QuantumMinutes
	if q > WindowMinutes {
		q = WindowMinutes
	}
	return FormatClock(WindowStartHour*60 + q)
}

// Quantize 将小时偏移量化到最近的 15 分钟刻度（0.25 小时）。
func Quantize(hours float64) float64 {
	return math.Round(hours*4) / 4
}

// ClampOffset 将小时偏移钳制到 [0, WindowHours]。
func ClampOffset(hours float64) float64 {
	if hours < 0 {
		return 0
	}
	if hours > WindowHours {
		return WindowHours
	}
	return hours
}

// ── 像素位移 ↔ 网格位移换算 ──

// Geometry 网格几何量提供方。
// 列宽随容器宽度响应式变化，必须在手势开始时实测，不可硬编码；
// 注入接口使网格数学无需渲染环境即可测试。
type Geometry interface {
	// ColumnWidth 单小时列宽（像素）：容器总宽减去日标签列后除以窗口小时数
	ColumnWidth() float64
	// RowHeight 单日行高（像素）
	RowHeight() float64
}

// FixedGeometry 固定尺寸的 Geometry 实现（测试与无渲染场景使用）。
type FixedGeometry struct {
	Column float64
	Row    float64
}

func (g FixedGeometry) ColumnWidth() float64 { return g.Column }
func (g FixedGeometry) RowHeight() float64   { return g.Row }

// DeltaHours 将横向像素位移换算为小时位移。
func DeltaHours(dx, columnWidth float64) float64 {
	if columnWidth <= 0 {
		return 0
	}
	return dx / columnWidth
}

// DeltaDays 将纵向像素位移换算为天数位移（四舍五入到整行）。
func DeltaDays(dy, rowHeight float64) int {
	if rowHeight <= 0 {
		return 0
	}
	return int(math.Round(dy / rowHeight))
}
