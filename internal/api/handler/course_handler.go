package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Thanarak-q/Credit-Tracking-System/internal/dto"
	"github.com/Thanarak-q/Credit-Tracking-System/internal/service"
	apperrors "github.com/Thanarak-q/Credit-Tracking-System/pkg/errors"
	"github.com/Thanarak-q/Credit-Tracking-System/pkg/response"
)

// CourseHandler 课程模块 HTTP 处理器
type CourseHandler struct {
	courseSvc service.CourseService
}

// NewCourseHandler 创建 CourseHandler
func NewCourseHandler(courseSvc service.CourseService) *CourseHandler {
	return &CourseHandler{courseSvc: courseSvc}
}

// handleCourseError 课程模块业务错误到 HTTP 响应的统一映射
func handleCourseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 12001, "课程不存在")
	case errors.Is(err, service.ErrMeetingNotFound):
		response.NotFound(c, 12002, "上课时段不存在")
	case errors.Is(err, service.ErrInvalidCourseType):
		response.BadRequest(c, 12003, "课程类别无效")
	case errors.Is(err, apperrors.ErrForbidden):
		response.Forbidden(c, 10003, "无权访问该资源")
	default:
		response.InternalError(c)
	}
}

// List 当前用户的全部课程（含附加时段，按学年/学期/排序位排序）
// GET /api/v1/courses
func (h *CourseHandler) List(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.courseSvc.List(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, resp)
}

// Create 新建课程
// POST /api/v1/courses
func (h *CourseHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	course, err := h.courseSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		handleCourseError(c, err)
		return
	}
	response.Created(c, course)
}

// Update 部分更新课程（含排课字段）
// PATCH /api/v1/courses/:id
func (h *CourseHandler) Update(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	course, err := h.courseSvc.Update(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		handleCourseError(c, err)
		return
	}
	response.OK(c, course)
}

// Delete 删除课程（附加时段级联删除）
// DELETE /api/v1/courses/:id
func (h *CourseHandler) Delete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.courseSvc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		handleCourseError(c, err)
		return
	}
	response.NoContent(c)
}

// CreateMeeting 为课程新增附加上课时段
// POST /api/v1/courses/:id/meetings
func (h *CourseHandler) CreateMeeting(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	meeting, err := h.courseSvc.CreateMeeting(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		handleCourseError(c, err)
		return
	}
	response.Created(c, meeting)
}

// UpdateMeeting 部分更新附加上课时段
// PATCH /api/v1/courses/:id/meetings/:meetingId
func (h *CourseHandler) UpdateMeeting(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	meeting, err := h.courseSvc.UpdateMeeting(c.Request.Context(), userID, c.Param("id"), c.Param("meetingId"), &req)
	if err != nil {
		handleCourseError(c, err)
		return
	}
	response.OK(c, meeting)
}

// DeleteMeeting 删除附加上课时段
// DELETE /api/v1/courses/:id/meetings/:meetingId
func (h *CourseHandler) DeleteMeeting(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.courseSvc.DeleteMeeting(c.Request.Context(), userID, c.Param("id"), c.Param("meetingId")); err != nil {
		handleCourseError(c, err)
		return
	}
	response.NoContent(c)
}
