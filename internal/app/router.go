package app

import (
	"study_planner_backend/docs"
	"study_planner_backend/internal/config"
	"study_planner_backend/internal/middleware"
	"study_planner_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由（无需登录）
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/auth/profile", c.auth.Profile)
		authGroup.PUT("/auth/preference", c.auth.UpdatePreference)

		authGroup.POST("/subjects", c.subject.Create)
		authGroup.GET("/subjects", c.subject.List)
		authGroup.PUT("/subjects/:id", c.subject.Update)
		authGroup.DELETE("/subjects/:id", c.subject.Delete)

		authGroup.POST("/exams", c.exam.Create)
		authGroup.GET("/exams", c.exam.List)
		authGroup.PUT("/exams/:id", c.exam.Update)
		authGroup.DELETE("/exams/:id", c.exam.Delete)

		authGroup.POST("/plan/generate", c.studyPlan.Generate)
		authGroup.GET("/plan", c.studyPlan.List)
		authGroup.GET("/plan/today", c.studyPlan.Today)
		authGroup.POST("/plan/sessions/:id/complete", c.studyPlan.Complete)
		authGroup.DELETE("/plan/sessions/:id/complete", c.studyPlan.Uncomplete)

		authGroup.GET("/progress", c.progress.Report)
		authGroup.GET("/progress/patterns", c.progress.Patterns)

		authGroup.GET("/recommendations", c.recommendation.Get)

		authGroup.GET("/dashboard", c.dashboard.Stats)
		authGroup.GET("/dashboard/today", c.dashboard.TodayTasks)
	}
}
