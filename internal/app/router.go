package app

import (
	"leet_track_backend/docs"
	"leet_track_backend/internal/config"
	"leet_track_backend/internal/middleware"
	"leet_track_backend/internal/model"
	"leet_track_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerStudentRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
		public.POST("/auth/admin/login", c.auth.AdminLogin)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	// 个人数据
	rg.GET("/students/me", c.student.GetProfile)
	rg.POST("/students/me/analysis", c.analysis.AnalyzeProgress)
	rg.GET("/students/:id", c.student.GetStudent)
	rg.GET("/leaderboard", c.student.GetLeaderboard)

	// 刷题清单
	rg.GET("/sheets", c.sheet.GetSheetsList)
	rg.GET("/sheets/:sheetName", c.sheet.GetSheetContent)
	rg.GET("/sheets/:sheetName/progress", c.sheet.GetStudentProgress)
	rg.POST("/sheets/progress", c.sheet.UpdateProgress)

	// 比赛日历
	rg.GET("/contests", c.contest.GetUpcomingContests)
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.RoleAdmin))
	{
		admin.POST("/admins", c.admin.CreateAdmin)
		admin.GET("/students", c.admin.GetAllStudents)
		admin.DELETE("/students/:id", c.admin.DeleteStudent)
		admin.POST("/students/refresh", c.admin.RefreshAllStudents)
		admin.POST("/sheets", c.sheet.UpsertSheet)
		admin.DELETE("/sheets/:sheetName/topics/:topic", c.sheet.DeleteSheetTopic)
		admin.GET("/sheets/:sheetName/progress", c.sheet.GetAllStudentsProgress)
	}
}
