package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"smart-classroom/backend/config"
	"smart-classroom/backend/internal/api/handler"
	"smart-classroom/backend/internal/api/middleware"
)

// maxBodyBytes 写接口请求体上限
const maxBodyBytes = 64 << 10

// Setup 初始化并返回 Gin 路由引擎
// locker 为 nil 时写操作互斥退化为进程内锁
func Setup(cfg *config.Config, h *handler.Handler, locker middleware.Locker, logger *zap.Logger) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 实体目录（只读）
		catalog := v1.Group("/catalog")
		{
			catalog.GET("/classes", h.Catalog.ListClasses)
			catalog.GET("/teachers", h.Catalog.ListTeachers)
			catalog.GET("/subjects", h.Catalog.ListSubjects)
			catalog.GET("/rooms", h.Catalog.ListRooms)
			catalog.GET("/timeslots", h.Catalog.ListTimeSlots)
		}

		v1.GET("/requirements", h.Catalog.ListRequirements)

		// 课表
		schedule := v1.Group("/schedule")
		{
			schedule.GET("", h.Schedule.GetSchedule)

			mutations := schedule.Group("")
			mutations.Use(middleware.BodyLimit(maxBodyBytes))
			mutations.Use(middleware.MutationLock(locker, logger))
			{
				mutations.POST("/generate", h.Schedule.Generate)
				mutations.POST("/clear", h.Schedule.Clear)
				mutations.POST("/override", h.Schedule.Override)
			}
		}

		// 导出
		export := v1.Group("/export")
		{
			export.GET("/schedule.xlsx", h.Export.ExportExcel)
			export.GET("/schedule.ics", h.Export.ExportICS)
		}
	}

	return r
}
