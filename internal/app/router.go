package app

import (
	"school_edu_backend/docs"
	"school_edu_backend/internal/config"
	"school_edu_backend/internal/middleware"
	"school_edu_backend/internal/model"
	"school_edu_backend/pkg/monitoring"
	"school_edu_backend/pkg/security"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c, cfg)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerTeacherRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c, repos, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/health", c.health.HealthCheck)

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)

		// 登录注册单独限流，按 IP+路由计数
		authWindow := time.Duration(cfg.RateLimit.AuthWindowMinute) * time.Minute
		public.POST("/register", security.RouteRateLimiter(cfg.RateLimit.AuthMaxRequests, authWindow), c.auth.Register)
		public.POST("/login", security.RouteRateLimiter(cfg.RateLimit.AuthMaxRequests, authWindow), c.auth.Login)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/me", c.auth.Me)
	rg.PUT("/profile", c.user.UpdateProfile)
	rg.POST("/profile/avatar", c.user.UploadAvatar)

	// 监护人视角
	rg.GET("/guardian/students", c.user.GetGuardianStudents)

	// 练习题
	rg.GET("/exercises", c.exercise.ListExercises)
	rg.GET("/exercises/:id", c.exercise.GetExercise)

	// 练习记录
	rg.POST("/attempts", c.attempt.RecordAttempt)
	rg.GET("/attempts", c.attempt.GetAttempts)
	rg.GET("/attempts/:id", c.attempt.GetAttempt)

	// 作业
	rg.GET("/assignments", c.assignment.GetStudentAssignments)
	rg.GET("/assignments/:id", c.assignment.GetAssignment)

	// 成就
	rg.GET("/achievements", c.achievement.GetAllAchievements)
	rg.GET("/achievements/mine", c.achievement.GetStudentAchievements)
	rg.GET("/achievements/leaderboard", c.achievement.GetLeaderboard)
	rg.POST("/achievements/check", c.achievement.CheckAchievements)

	// 学习进度
	rg.GET("/progress/snapshots", c.progress.GetSnapshots)
	rg.GET("/progress/today", c.progress.GetTodayProgress)
	rg.GET("/progress/streak", c.progress.GetStreak)

	// 每日挑战
	rg.GET("/challenges/today", c.challenge.GetTodayChallenge)
	rg.GET("/challenges", c.challenge.GetRecentChallenges)
	rg.GET("/challenges/:id", c.challenge.GetChallenge)

	// 周报
	rg.GET("/reports/mine", c.report.GetMyWeeklyReport)
}

func (a *App) registerTeacherRoutes(rg *gin.RouterGroup, c *controllers) {
	teacher := rg.Group("/teacher")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		// 分组管理
		teacher.POST("/groups", c.group.CreateGroup)
		teacher.GET("/groups", c.group.GetGroups)
		teacher.GET("/groups/:id", c.group.GetGroup)
		teacher.PUT("/groups/:id", c.group.UpdateGroup)
		teacher.DELETE("/groups/:id", c.group.DeleteGroup)
		teacher.GET("/groups/:id/students", c.group.GetMembers)
		teacher.POST("/groups/:id/students", c.group.AddStudent)
		teacher.DELETE("/groups/:id/students/:studentId", c.group.RemoveStudent)
		teacher.GET("/groups/:id/assignments", c.assignment.GetGroupAssignments)

		// 练习题管理
		teacher.POST("/exercises", c.exercise.CreateExercise)
		teacher.PUT("/exercises/:id", c.exercise.UpdateExercise)
		teacher.DELETE("/exercises/:id", c.exercise.DeleteExercise)

		// 作业模板
		teacher.POST("/homeworks", c.homework.CreateHomework)
		teacher.GET("/homeworks", c.homework.GetHomeworks)
		teacher.GET("/homeworks/:id", c.homework.GetHomework)
		teacher.PUT("/homeworks/:id", c.homework.UpdateHomework)
		teacher.DELETE("/homeworks/:id", c.homework.DeleteHomework)
		teacher.POST("/homeworks/:id/exercises", c.homework.AddExercise)
		teacher.DELETE("/homeworks/:id/exercises/:exerciseId", c.homework.RemoveExercise)

		// 作业布置
		teacher.POST("/assignments", c.assignment.CreateAssignment)
		teacher.GET("/assignments", c.assignment.GetTeacherAssignments)
		teacher.DELETE("/assignments/:id", c.assignment.DeleteAssignment)
		teacher.POST("/assignments/:id/students", c.assignment.AddStudents)
		teacher.DELETE("/assignments/:id/students/:studentId", c.assignment.RemoveStudent)
		teacher.POST("/assignments/:id/groups", c.assignment.AddGroups)
		teacher.DELETE("/assignments/:id/groups/:groupId", c.assignment.RemoveGroup)
		teacher.POST("/assignments/:id/check/:studentId", c.assignment.CheckAssignment)

		// 记录修正
		teacher.PUT("/attempts/:id", c.attempt.UpdateAttempt)

		// 每日挑战
		teacher.POST("/challenges", c.challenge.CreateChallenge)
		teacher.DELETE("/challenges/:id", c.challenge.DeleteChallenge)

		// 学生进度与周报
		teacher.POST("/progress/:studentId/refresh", c.progress.RefreshSnapshot)
		teacher.GET("/reports/:studentId", c.report.GetWeeklyReport)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		// 用户列表和详情允许老师查看
		admin.GET("/users", middleware.RoleMiddleware(model.Admin, model.Teacher), c.user.GetUsers)
		admin.GET("/users/:id", middleware.RoleMiddleware(model.Admin, model.Teacher), c.user.GetUser)

		adminOnly := admin.Group("/")
		adminOnly.Use(middleware.RoleMiddleware(model.Admin))
		{
			adminOnly.DELETE("/users/:id", c.user.DeleteUser)
			adminOnly.POST("/users/:id/reset-password", c.user.ResetPassword)
			adminOnly.PUT("/users/:id/disable", c.user.DisableUser)
			adminOnly.PUT("/users/:id/guardian", c.user.LinkGuardian)
			adminOnly.DELETE("/users/:id/guardian", c.user.UnlinkGuardian)

			adminOnly.POST("/achievements", c.achievement.CreateAchievement)
			adminOnly.PUT("/achievements/:id", c.achievement.UpdateAchievement)
			adminOnly.DELETE("/achievements/:id", c.achievement.DeleteAchievement)

			adminOnly.POST("/assignments/overdue-sweep", c.assignment.SweepOverdue)
			adminOnly.POST("/progress/snapshot-batch", c.progress.RunSnapshotBatch)
			adminOnly.POST("/reports/send", c.report.SendWeeklyReports)
		}
	}
}
