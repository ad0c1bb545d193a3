package model

// ── 课程类别（学分核算口径） ──

// CourseTypes 学位要求类别枚举
var CourseTypes = []string{
	"required", "core", "major", "majorElective", "minor", "free", "ge",
}

// ValidCourseType 校验课程类别。
func ValidCourseType(t string) bool {
	for _, v := range CourseTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Course 用户的一条课程记录。
// 排课字段（Day/Start/End/Room）为课程的主排课位，可整组为空；
// Day 统一存大写枚举值，时间存 "HH:MM" 文本（无时区无日期）。
type Course struct {
	CourseID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	UserID    string `gorm:"type:uuid;not null;index:idx_courses_user_term" json:"user_id"`
	Code      string `gorm:"type:varchar(32);not null;default:''" json:"code"`
	NameEN    string `gorm:"column:name_en;type:varchar(255);not null;default:''" json:"name_en"`
	NameTH    string `gorm:"column:name_th;type:varchar(255);not null;default:''" json:"name_th"`
	Credits   int    `gorm:"not null;default:0" json:"credits"`
	Year      int    `gorm:"not null;index:idx_courses_user_term" json:"year"`
	Semester  int    `gorm:"not null;index:idx_courses_user_term" json:"semester"`
	Type      string `gorm:"type:varchar(16);not null;default:'free'" json:"type"`
	Completed bool   `gorm:"not null;default:false" json:"completed"`
	Position  int    `gorm:"not null;default:0" json:"position"`

	ScheduleDay   *string `gorm:"type:varchar(3)" json:"schedule_day,omitempty"`
	ScheduleStart *string `gorm:"type:varchar(5)" json:"schedule_start,omitempty"`
	ScheduleEnd   *string `gorm:"type:varchar(5)" json:"schedule_end,omitempty"`
	ScheduleRoom  *string `gorm:"type:varchar(64)" json:"schedule_room,omitempty"`

	Meetings []CourseMeeting `gorm:"foreignKey:CourseID;references:CourseID" json:"meetings"`

	BaseModel
}

// TableName 指定表名
func (Course) TableName() string {
	return "courses"
}
