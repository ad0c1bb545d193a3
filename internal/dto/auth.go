package dto

// ── 认证模块 DTO ──

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=32"`
	Password string `json:"password" binding:"required,min=8,max=64"`
	Plan     string `json:"plan"     binding:"omitempty,oneof=regular coop honors"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Plan     string `json:"plan"`
}

// UpdatePlanRequest 修改培养方案请求
type UpdatePlanRequest struct {
	Plan string `json:"plan" binding:"required,oneof=regular coop honors"`
}
