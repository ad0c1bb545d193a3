package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Thanarak-q/Credit-Tracking-System/config"
	"github.com/Thanarak-q/Credit-Tracking-System/internal/api/handler"
	"github.com/Thanarak-q/Credit-Tracking-System/internal/api/middleware"
	"github.com/Thanarak-q/Credit-Tracking-System/internal/service"
	"github.com/Thanarak-q/Credit-Tracking-System/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, authSvc service.AuthService, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证，注册/登录限频）
		auth := v1.Group("/auth")
		{
			auth.POST("/register", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Register)
			auth.POST("/login", middleware.RateLimit(rdb, 20, time.Minute), h.Auth.Login)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.SessionAuth(authSvc, cfg.Session.Cookie.Name))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.PUT("/auth/plan", h.Auth.UpdatePlan)

			// 课程模块
			courses := authorized.Group("/courses")
			{
				courses.GET("", h.Course.List)
				courses.POST("", h.Course.Create)
				courses.PATCH("/:id", h.Course.Update)
				courses.DELETE("/:id", h.Course.Delete)

				courses.POST("/:id/meetings", h.Course.CreateMeeting)
				courses.PATCH("/:id/meetings/:meetingId", h.Course.UpdateMeeting)
				courses.DELETE("/:id/meetings/:meetingId", h.Course.DeleteMeeting)
			}

			// 学分汇总
			authorized.GET("/summary", h.Summary.Summary)

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/timetable", h.Export.ExportTimetable)
				export.GET("/calendar", h.Export.ExportCalendar)
			}
		}
	}

	return r
}
