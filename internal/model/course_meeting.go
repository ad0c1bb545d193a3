package model

// CourseMeeting 课程的附加上课时段，随课程级联删除。
// 字段语义与 Course 的主排课位一致。
type CourseMeeting struct {
	MeetingID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"meeting_id"`
	CourseID  string `gorm:"type:uuid;not null;index" json:"course_id"`

	Day   *string `gorm:"type:varchar(3)" json:"day,omitempty"`
	Start *string `gorm:"column:start_time;type:varchar(5)" json:"start,omitempty"`
	End   *string `gorm:"column:end_time;type:varchar(5)" json:"end,omitempty"`
	Room  *string `gorm:"type:varchar(64)" json:"room,omitempty"`

	Course *Course `gorm:"foreignKey:CourseID;references:CourseID;constraint:OnDelete:CASCADE" json:"-"`

	BaseModel
}

// TableName 指定表名
func (CourseMeeting) TableName() string {
	return "course_meetings"
}
