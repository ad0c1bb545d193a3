package dto

// ── 课程模块 DTO ──

// CreateCourseRequest 新建课程请求。
// 除学年/学期外均可省略，省略的名称与代码由服务端补默认值。
type CreateCourseRequest struct {
	Year     int `json:"year"     binding:"required,min=1,max=8"`
	Semester int `json:"semester" binding:"required,min=1,max=3"`

	Code      *string `json:"code"      binding:"omitempty,max=32"`
	NameEN    *string `json:"name_en"   binding:"omitempty,max=255"`
	NameTH    *string `json:"name_th"   binding:"omitempty,max=255"`
	Credits   *int    `json:"credits"   binding:"omitempty,min=0,max=12"`
	Type      *string `json:"type"      binding:"omitempty"`
	Completed *bool   `json:"completed"`

	ScheduleDay   *string `json:"schedule_day"   binding:"omitempty"`
	ScheduleStart *string `json:"schedule_start" binding:"omitempty"`
	ScheduleEnd   *string `json:"schedule_end"   binding:"omitempty"`
	ScheduleRoom  *string `json:"schedule_room"  binding:"omitempty,max=64"`
}

// UpdateCourseRequest 部分更新课程请求：仅携带发生变化的字段。
// 排课字段传空串表示清空该字段。
type UpdateCourseRequest struct {
	Code      *string `json:"code"      binding:"omitempty,max=32"`
	NameEN    *string `json:"name_en"   binding:"omitempty,max=255"`
	NameTH    *string `json:"name_th"   binding:"omitempty,max=255"`
	Credits   *int    `json:"credits"   binding:"omitempty,min=0,max=12"`
	Year      *int    `json:"year"      binding:"omitempty,min=1,max=8"`
	Semester  *int    `json:"semester"  binding:"omitempty,min=1,max=3"`
	Type      *string `json:"type"      binding:"omitempty"`
	Completed *bool   `json:"completed"`
	Position  *int    `json:"position"  binding:"omitempty,min=0"`

	ScheduleDay   *string `json:"schedule_day"`
	ScheduleStart *string `json:"schedule_start"`
	ScheduleEnd   *string `json:"schedule_end"`
	ScheduleRoom  *string `json:"schedule_room"  binding:"omitempty,max=64"`
}

// Empty 请求是否不含任何字段
func (r *UpdateCourseRequest) Empty() bool {
	return r.Code == nil && r.NameEN == nil && r.NameTH == nil &&
		r.Credits == nil && r.Year == nil && r.Semester == nil &&
		r.Type == nil && r.Completed == nil && r.Position == nil &&
		r.ScheduleDay == nil && r.ScheduleStart == nil &&
		r.ScheduleEnd == nil && r.ScheduleRoom == nil
}

// CreateMeetingRequest 新建附加上课时段请求
type CreateMeetingRequest struct {
	Day   *string `json:"day"`
	Start *string `json:"start"`
	End   *string `json:"end"`
	Room  *string `json:"room" binding:"omitempty,max=64"`
}

// UpdateMeetingRequest 部分更新附加时段请求
type UpdateMeetingRequest struct {
	Day   *string `json:"day"`
	Start *string `json:"start"`
	End   *string `json:"end"`
	Room  *string `json:"room" binding:"omitempty,max=64"`
}

// Empty 请求是否不含任何字段
func (r *UpdateMeetingRequest) Empty() bool {
	return r.Day == nil && r.Start == nil && r.End == nil && r.Room == nil
}

// ── 响应 ──

// MeetingResponse 附加时段响应
type MeetingResponse struct {
	ID    string `json:"id"`
	Day   string `json:"day"`
	Start string `json:"start"`
	End   string `json:"end"`
	Room  string `json:"room"`
}

// CourseResponse 课程响应（含主排课位与全部附加时段）
type CourseResponse struct {
	ID        string `json:"id"`
	Code      string `json:"code"`
	NameEN    string `json:"name_en"`
	NameTH    string `json:"name_th"`
	Credits   int    `json:"credits"`
	Year      int    `json:"year"`
	Semester  int    `json:"semester"`
	Type      string `json:"type"`
	Completed bool   `json:"completed"`
	Position  int    `json:"position"`

	ScheduleDay   string `json:"schedule_day"`
	ScheduleStart string `json:"schedule_start"`
	ScheduleEnd   string `json:"schedule_end"`
	ScheduleRoom  string `json:"schedule_room"`

	Meetings []MeetingResponse `json:"meetings"`
}

// CourseListResponse 课程列表响应
type CourseListResponse struct {
	Courses []CourseResponse `json:"courses"`
}
