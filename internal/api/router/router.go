package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vms/backend/config"
	"vms/backend/internal/api/handler"
	"vms/backend/internal/api/middleware"
	"vms/backend/pkg/jwt"
	"vms/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(10 << 20)) // 照片以 multipart 上传，放宽到 10MB

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 访客登记向导（前台多步流程）
			intake := authorized.Group("/visitors/intake")
			{
				intake.POST("/start", h.Intake.Start)
				intake.GET("/:flow_id", h.Intake.State)
				intake.PUT("/:flow_id/field", h.Intake.SetField)
				intake.POST("/:flow_id/advance", h.Intake.Advance)
				intake.POST("/:flow_id/retreat", h.Intake.Retreat)
				intake.GET("/:flow_id/directory", h.Intake.SearchDirectory)
				intake.POST("/:flow_id/host/select", h.Intake.SelectHost)
				intake.POST("/:flow_id/host/manual", h.Intake.ManualHost)
				intake.DELETE("/:flow_id/host", h.Intake.ResetHost)
				intake.POST("/:flow_id/assets", h.Intake.AppendAsset)
				intake.DELETE("/:flow_id/assets", h.Intake.RemoveAsset)
				intake.POST("/:flow_id/assets/image", h.Intake.UploadAssetImage)
				intake.POST("/:flow_id/guests", h.Intake.AppendGuest)
				intake.DELETE("/:flow_id/guests", h.Intake.RemoveGuest)
				intake.POST("/:flow_id/guests/image", h.Intake.UploadGuestImage)
				intake.POST("/:flow_id/handoff", h.Intake.ConsumeHandoff)
			}

			// 访客记录模块
			visitors := authorized.Group("/visitors")
			{
				visitors.GET("", h.Visitor.List)
				visitors.GET("/export", h.Export.VisitorLog)
				visitors.POST("", h.Visitor.Create)
				visitors.GET("/:id", h.Visitor.Get)
				visitors.PUT("/:id", h.Visitor.Update)
				visitors.PATCH("/:id/status", h.Visitor.UpdateStatus)
				visitors.GET("/:id/invite", h.Export.HostInvite)
				visitors.DELETE("/:id", middleware.RoleAuth("admin"), h.Visitor.Delete)
			}

			// 员工目录模块
			employees := authorized.Group("/employees")
			{
				employees.GET("", h.Employee.List)
				employees.GET("/:id", h.Employee.Get)
				employees.POST("", middleware.RoleAuth("admin"), h.Employee.Create)
				employees.PUT("/:id", middleware.RoleAuth("admin"), h.Employee.Update)
				employees.DELETE("/:id", middleware.RoleAuth("admin"), h.Employee.Delete)
			}

			// 组织设置模块
			orgSettings := authorized.Group("/org/settings")
			{
				orgSettings.GET("", h.OrgSetting.Get)
				orgSettings.PUT("", middleware.RoleAuth("admin"), h.OrgSetting.Update)
			}

			// 图片存储模块
			images := authorized.Group("/images")
			{
				images.POST("", h.Image.Upload)
				images.GET("", h.Image.Fetch)
			}
		}
	}

	return r
}
