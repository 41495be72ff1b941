package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"school_edu_backend/internal/config"
	"school_edu_backend/internal/controller"
	"school_edu_backend/internal/repository"
	"school_edu_backend/internal/service"
	"school_edu_backend/pkg/database"
	"school_edu_backend/pkg/logger"
	"school_edu_backend/pkg/mailer"
	"school_edu_backend/pkg/monitoring"
	"school_edu_backend/pkg/security"
	"school_edu_backend/pkg/tracing"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	stopJobs        chan struct{}
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user        *repository.UserRepository
	group       *repository.GroupRepository
	exercise    *repository.ExerciseRepository
	attempt     *repository.AttemptRepository
	homework    *repository.HomeworkRepository
	assignment  *repository.AssignmentRepository
	snapshot    *repository.SnapshotRepository
	achievement *repository.AchievementRepository
	challenge   *repository.ChallengeRepository
}

type services struct {
	storage     *service.StorageService
	auth        *service.AuthService
	user        *service.UserService
	group       *service.GroupService
	exercise    *service.ExerciseService
	homework    *service.HomeworkService
	activity    *service.ActivityService
	snapshot    *service.SnapshotService
	achievement *service.AchievementService
	assignment  *service.AssignmentService
	attempt     *service.AttemptService
	challenge   *service.ChallengeService
	report      *service.ReportService
}

type controllers struct {
	auth        *controller.AuthController
	user        *controller.UserController
	group       *controller.GroupController
	exercise    *controller.ExerciseController
	attempt     *controller.AttemptController
	homework    *controller.HomeworkController
	assignment  *controller.AssignmentController
	achievement *controller.AchievementController
	progress    *controller.ProgressController
	challenge   *controller.ChallengeController
	report      *controller.ReportController
	health      *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ReloadConfig 应用热更新后的配置。只替换运行期读取的调度和限流参数，
// 数据库和端口等启动期配置需要重启才生效。
func (a *App) ReloadConfig(cfg *config.Config) {
	a.Config.Jobs = cfg.Jobs
	a.Config.RateLimit = cfg.RateLimit
	a.Config.Mail = cfg.Mail
	logger.Log.Info("config reloaded",
		zap.String("snapshotTime", cfg.Jobs.SnapshotTime),
		zap.String("reportTime", cfg.Jobs.ReportTime),
	)
	for _, callback := range a.configCallbacks {
		callback(a.Config)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		group:       repository.NewGroupRepository(db),
		exercise:    repository.NewExerciseRepository(db),
		attempt:     repository.NewAttemptRepository(db),
		homework:    repository.NewHomeworkRepository(db),
		assignment:  repository.NewAssignmentRepository(db),
		snapshot:    repository.NewSnapshotRepository(db),
		achievement: repository.NewAchievementRepository(db),
		challenge:   repository.NewChallengeRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.group = service.NewGroupService(repos.group, repos.user)
	s.exercise = service.NewExerciseService(repos.exercise)
	s.homework = service.NewHomeworkService(repos.homework, repos.exercise)

	s.activity = service.NewActivityService(repos.attempt)
	s.snapshot = service.NewSnapshotService(repos.snapshot, repos.user, s.activity)
	s.achievement = service.NewAchievementService(repos.achievement, repos.snapshot, rdb)
	s.assignment = service.NewAssignmentService(repos.assignment, repos.homework, repos.attempt, repos.group, repos.user)
	s.attempt = service.NewAttemptService(repos.attempt, repos.exercise, s.snapshot, s.achievement, s.assignment)
	s.challenge = service.NewChallengeService(repos.challenge, repos.exercise, rdb)

	// 没配置 Sendgrid 时退化为控制台输出，方便本地联调
	var m mailer.Mailer
	if cfg.Mail.SendgridKey != "" {
		m = mailer.NewSendgridMailer(cfg.Mail.SendgridKey, cfg.Mail.FromName, cfg.Mail.FromEmail)
	} else {
		m = mailer.NewConsoleMailer()
	}
	s.report = service.NewReportService(repos.attempt, repos.assignment, repos.user, s.snapshot, m)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth),
		user:        controller.NewUserController(s.user, s.storage),
		group:       controller.NewGroupController(s.group),
		exercise:    controller.NewExerciseController(s.exercise),
		attempt:     controller.NewAttemptController(s.attempt),
		homework:    controller.NewHomeworkController(s.homework),
		assignment:  controller.NewAssignmentController(s.assignment),
		achievement: controller.NewAchievementController(s.achievement),
		progress:    controller.NewProgressController(s.snapshot, s.activity),
		challenge:   controller.NewChallengeController(s.challenge),
		report:      controller.NewReportController(s.report),
		health:      controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks 启动三个后台任务：
// 每小时刷新过期作业，每天定点跑全量快照，每周定点发周报。
// 快照和周报用分钟粒度的时钟比对触发，避免引入额外的调度依赖。
func (a *App) startBackgroundTasks(s *services) {
	a.stopJobs = make(chan struct{})

	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				count, err := s.assignment.UpdateOverdueAssignments()
				if err != nil {
					monitoring.JobRuns.WithLabelValues("overdue_sweep", "error").Inc()
					logger.Log.Error("overdue sweep failed", zap.Error(err))
					continue
				}
				monitoring.JobRuns.WithLabelValues("overdue_sweep", "ok").Inc()
				if count > 0 {
					logger.Log.Info("overdue sweep done", zap.Int("updated", count))
				}
			case <-a.stopJobs:
				return
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				now := time.Now()
				clock := now.Format("15:04")

				if clock == a.Config.Jobs.SnapshotTime {
					result, err := s.snapshot.CreateSnapshotsForAllStudentsToday()
					if err != nil {
						monitoring.JobRuns.WithLabelValues("snapshot_batch", "error").Inc()
						logger.Log.Error("snapshot batch failed", zap.Error(err))
					} else {
						monitoring.JobRuns.WithLabelValues("snapshot_batch", "ok").Inc()
						logger.Log.Info("snapshot batch done",
							zap.Int("succeeded", result.Succeeded),
							zap.Int("failed", result.Failed),
						)
					}
				}

				if int(now.Weekday()) == a.Config.Jobs.ReportWeekday && clock == a.Config.Jobs.ReportTime {
					weekStart, weekEnd := service.LastWeekRange(now)
					result, err := s.report.SendWeeklyReports(weekStart, weekEnd)
					if err != nil {
						monitoring.JobRuns.WithLabelValues("weekly_report", "error").Inc()
						logger.Log.Error("weekly report batch failed", zap.Error(err))
					} else {
						monitoring.JobRuns.WithLabelValues("weekly_report", "ok").Inc()
						logger.Log.Info("weekly report batch done",
							zap.Int("sent", result.Sent),
							zap.Int("skipped", result.Skipped),
							zap.Int("failed", result.Failed),
						)
					}
				}
			case <-a.stopJobs:
				return
			}
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("school-platform", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks(services)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if a.stopJobs != nil {
		close(a.stopJobs)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
