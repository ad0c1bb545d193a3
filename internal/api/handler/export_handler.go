package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Thanarak-q/Credit-Tracking-System/internal/service"
	"github.com/Thanarak-q/Credit-Tracking-System/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// termParams 解析导出范围的 year / semester 查询参数
func termParams(c *gin.Context) (int, int, bool) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 1 || year > 8 {
		response.BadRequest(c, 10001, "year 参数无效")
		return 0, 0, false
	}
	semester, err := strconv.Atoi(c.Query("semester"))
	if err != nil || semester < 1 || semester > 3 {
		response.BadRequest(c, 10001, "semester 参数无效")
		return 0, 0, false
	}
	return year, semester, true
}

// ExportTimetable 导出周课表为 Excel
// GET /api/v1/export/timetable?year=2&semester=1
func (h *ExportHandler) ExportTimetable(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	year, semester, ok := termParams(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportTimetable(c.Request.Context(), userID, year, semester)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// ExportCalendar 导出周课表为 iCalendar
// GET /api/v1/export/calendar?year=2&semester=1
func (h *ExportHandler) ExportCalendar(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	year, semester, ok := termParams(c)
	if !ok {
		return
	}

	content, filename, err := h.exportSvc.ExportCalendar(c.Request.Context(), userID, year, semester)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(content))
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoCourses):
		response.NotFound(c, 13001, "该学期暂无已排课程")
	default:
		response.InternalError(c)
	}
}
