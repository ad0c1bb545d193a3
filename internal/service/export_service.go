package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Thanarak-q/Credit-Tracking-System/internal/model"
	"github.com/Thanarak-q/Credit-Tracking-System/internal/repository"
	"github.com/Thanarak-q/Credit-Tracking-System/internal/schedule"
	"github.com/Thanarak-q/Credit-Tracking-System/internal/schedule/grid"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoCourses    = errors.New("该学期暂无已排课程")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

const exportTermWeeks = 16 // 周课表重复周数

// ExportService 导出业务接口
//
// 设计说明：
//   - 导出范围为指定学年/学期内所有已排入周课表的时段（主排课位 + 附加时段）
//   - Excel 以 bytes.Buffer 返回，ICS 以序列化文本返回，
//     均由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportTimetable 导出周课表为 Excel
	ExportTimetable(ctx context.Context, userID string, year, semester int) (*bytes.Buffer, string, error)
	// ExportCalendar 导出周课表为 iCalendar (RFC 5545)
	ExportCalendar(ctx context.Context, userID string, year, semester int) (string, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// placement 一条已排入周课表的时段（展开自课程主排课位或附加时段）
type placement struct {
	code string
	name string
	slot schedule.Slot
}

func (s *exportService) listPlacements(ctx context.Context, userID string, year, semester int) ([]placement, error) {
	courses, err := s.repo.Course.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询课程列表失败", zap.Error(err))
		return nil, err
	}

	var placements []placement
	for i := range courses {
		c := &courses[i]
		if c.Year != year || c.Semester != semester {
			continue
		}
		name := c.NameEN
		if name == "" {
			name = c.Code
		}
		if slot := courseSlot(c); slot.Scheduled() {
			placements = append(placements, placement{code: c.Code, name: name, slot: slot})
		}
		for j := range c.Meetings {
			if slot := meetingSlot(&c.Meetings[j]); slot.Scheduled() {
				placements = append(placements, placement{code: c.Code, name: name, slot: slot})
			}
		}
	}
	return placements, nil
}

// ═══════════════════════════════════════════════════════════
// ExportTimetable — 导出周课表为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 单 Sheet，行头为整点时间（07:00 ~ 18:00），列头为 MON ~ SUN
//   - 单元格：课程代码 课程名 (教室)，跨多个整点的课程合并单元格
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportTimetable(ctx context.Context, userID string, year, semester int) (*bytes.Buffer, string, error) {
	placements, err := s.listPlacements(ctx, userID, year, semester)
	if err != nil {
		return nil, "", err
	}
	if len(placements) == 0 {
		return nil, "", ErrExportNoCourses
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Timetable"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 8)
	for i := range schedule.Days {
		col, _ := excelize.ColumnNumberToName(2 + i)
		f.SetColWidth(sheetName, col, col, 24)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	cellStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("Year %d / Semester %d", year, semester))
	f.MergeCell(sheetName, "A1", exportCell(1+len(schedule.Days), 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	f.SetCellValue(sheetName, exportCell(1, 2), "时间")
	for i, day := range schedule.Days {
		f.SetCellValue(sheetName, exportCell(2+i, 2), day)
	}
	f.SetCellStyle(sheetName, exportCell(1, 2), exportCell(1+len(schedule.Days), 2), headerStyle)

	// 行头：每小时一行
	const headerRows = 2
	for h := 0; h < grid.WindowHours; h++ {
		f.SetCellValue(sheetName, exportCell(1, headerRows+1+h), fmt.Sprintf("%02d:00", grid.WindowStartHour+h))
	}

	// 课程落格：按起始整点定位，跨整点合并
	for _, p := range placements {
		dayIdx := schedule.DayIndex(p.slot.Day)
		if dayIdx < 0 {
			continue
		}
		startMin := grid.TimeToMinutes(p.slot.Start)
		endMin := grid.TimeToMinutes(p.slot.End)
		startRow := headerRows + 1 + startMin/60
		endRow := headerRows + 1 + (endMin-1)/60

		text := fmt.Sprintf("%s %s", p.code, p.name)
		if p.slot.Room != "" {
			text += fmt.Sprintf(" (%s)", p.slot.Room)
		}
		text += fmt.Sprintf("\n%s-%s", p.slot.Start, p.slot.End)

		col := 2 + dayIdx
		f.SetCellValue(sheetName, exportCell(col, startRow), text)
		if endRow > startRow {
			f.MergeCell(sheetName, exportCell(col, startRow), exportCell(col, endRow))
		}
		f.SetCellStyle(sheetName, exportCell(col, startRow), exportCell(col, endRow), cellStyle)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("timetable_y%d_s%d.xlsx", year, semester)
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportCalendar — 导出周课表为 iCalendar
// ═══════════════════════════════════════════════════════════
//
// 每条时段生成一个 VEVENT，锚定到下一个对应星期并按周重复 16 次。

func (s *exportService) ExportCalendar(ctx context.Context, userID string, year, semester int) (string, string, error) {
	placements, err := s.listPlacements(ctx, userID, year, semester)
	if err != nil {
		return "", "", err
	}
	if len(placements) == 0 {
		return "", "", ErrExportNoCourses
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Credit Tracking System//Timetable//EN")

	loc := time.Local
	now := time.Now().In(loc)

	for i, p := range placements {
		dayIdx := schedule.DayIndex(p.slot.Day)
		if dayIdx < 0 {
			continue
		}
		start := nextWeekday(now, dayIdx, p.slot.Start, loc)
		duration := time.Duration(grid.TimeToMinutes(p.slot.End)-grid.TimeToMinutes(p.slot.Start)) * time.Minute

		evt := cal.AddEvent(fmt.Sprintf("%s-%d@credit-tracking", p.code, i))
		evt.SetCreatedTime(now)
		evt.SetDtStampTime(now)
		evt.SetStartAt(start)
		evt.SetEndAt(start.Add(duration))
		evt.SetSummary(fmt.Sprintf("%s %s", p.code, p.name))
		if p.slot.Room != "" {
			evt.SetLocation(p.slot.Room)
		}
		evt.AddRrule(fmt.Sprintf("FREQ=WEEKLY;BYDAY=%s;COUNT=%d", icalWeekday(dayIdx), exportTermWeeks))
	}

	filename := fmt.Sprintf("timetable_y%d_s%d.ics", year, semester)
	return cal.Serialize(), filename, nil
}

// ── 辅助函数 ──

func courseSlot(c *model.Course) schedule.Slot {
	return schedule.Slot{
		Day:   deref(c.ScheduleDay),
		Start: deref(c.ScheduleStart),
		End:   deref(c.ScheduleEnd),
		Room:  deref(c.ScheduleRoom),
	}
}

func meetingSlot(m *model.CourseMeeting) schedule.Slot {
	return schedule.Slot{
		Day:   deref(m.Day),
		Start: deref(m.Start),
		End:   deref(m.End),
		Room:  deref(m.Room),
	}
}

// nextWeekday 返回 now 之后（含当天）最近一个指定星期在 start 时刻的时间点
func nextWeekday(now time.Time, dayIdx int, start string, loc *time.Location) time.Time {
	// DayIndex: MON=0 .. SUN=6；time.Weekday: SUN=0 .. SAT=6
	target := (dayIdx + 1) % 7
	delta := (target - int(now.Weekday()) + 7) % 7
	minutes, _ := grid.ParseClock(start)
	day := now.AddDate(0, 0, delta)
	return time.Date(day.Year(), day.Month(), day.Day(), minutes/60, minutes%60, 0, 0, loc)
}

var icalWeekdays = [7]string{"MO", "TU", "WE", "TH", "FR", "SA", "SU"}

func icalWeekday(dayIdx int) string {
	return icalWeekdays[dayIdx]
}

func exportCell(col, row int) string {
	name, _ := excelize.ColumnNumberToName(col)
	return fmt.Sprintf("%s%d", name, row)
}
