package model

import "time"

// Session 登录会话。Token 为 32 字节随机数的十六进制串，
// 七天有效，随 Cookie 下发（httpOnly / SameSite=Lax）。
type Session struct {
	Token     string    `gorm:"type:varchar(64);primaryKey" json:"-"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"user_id"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`

	User *User `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`

	BaseModel
}

// TableName 指定表名
func (Session) TableName() string {
	return "sessions"
}

// Expired 会话是否已过期。
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
