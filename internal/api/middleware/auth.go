package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/Thanarak-q/Credit-Tracking-System/internal/service"
	"github.com/Thanarak-q/Credit-Tracking-System/pkg/response"
)

// SessionAuth 会话认证中间件
// 从会话 Cookie 中读取令牌并校验，将用户信息注入上下文
func SessionAuth(authSvc service.AuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			response.Unauthorized(c, 10002, "未登录")
			c.Abort()
			return
		}

		user, err := authSvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			response.Unauthorized(c, 10002, "会话无效或已过期")
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Set("session_token", token)

		c.Next()
	}
}
