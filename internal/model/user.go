package model

// User 用户账号。
// PasswordHash 为 scrypt 派生结果，格式 "salt:hash"（均为十六进制）。
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Username     string `gorm:"type:varchar(64);uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`
	Plan         string `gorm:"type:varchar(16);not null;default:'regular'" json:"plan"` // regular / coop / honors

	BaseModel
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
