package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"study_planner_backend/internal/config"
	"study_planner_backend/internal/controller"
	"study_planner_backend/internal/repository"
	"study_planner_backend/internal/service"
	"study_planner_backend/pkg/database"
	"study_planner_backend/pkg/logger"
	"study_planner_backend/pkg/monitoring"
	"study_planner_backend/pkg/security"
	"study_planner_backend/pkg/tracing"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
	tracerProvider  *sdktrace.TracerProvider
}

type repositories struct {
	user    *repository.UserRepository
	subject *repository.SubjectRepository
	exam    *repository.ExamRepository
	session *repository.StudySessionRepository
}

type services struct {
	auth           *service.AuthService
	planner        *service.PlannerService
	progress       *service.ProgressService
	recommendation *service.RecommendationService
	dashboard      *service.DashboardService
	reminder       *service.ReminderService
}

type controllers struct {
	auth           *controller.AuthController
	subject        *controller.SubjectController
	exam           *controller.ExamController
	studyPlan      *controller.StudyPlanController
	progress       *controller.ProgressController
	recommendation *controller.RecommendationController
	dashboard      *controller.DashboardController
	health         *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 配置热更新入口，由 configwatcher 调用
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config = cfg
	a.services.planner.ApplyConfig(cfg.Planner)
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
	logger.Log.Info("configuration reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:    repository.NewUserRepository(db),
		subject: repository.NewSubjectRepository(db),
		exam:    repository.NewExamRepository(db),
		session: repository.NewStudySessionRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.auth = service.NewAuthService(repos.user, cfg.JWT)
	s.planner = service.NewPlannerService(repos.subject, repos.exam, repos.session, repos.user, cfg.Planner)
	s.progress = service.NewProgressService(repos.session)
	s.recommendation = service.NewRecommendationService(repos.session, repos.exam, rdb, cfg.Planner.ExamLookaheadDays)
	s.dashboard = service.NewDashboardService(repos.subject, repos.exam, repos.session, cfg.Planner.ExamLookaheadDays)
	s.reminder = service.NewReminderService(repos.session, repos.exam, repos.session, rdb, cfg.Reminder)

	return s
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:           controller.NewAuthController(s.auth),
		subject:        controller.NewSubjectController(repos.subject),
		exam:           controller.NewExamController(repos.exam, repos.subject),
		studyPlan:      controller.NewStudyPlanController(s.planner, s.progress, s.recommendation, repos.session),
		progress:       controller.NewProgressController(s.progress),
		recommendation: controller.NewRecommendationController(s.recommendation),
		dashboard:      controller.NewDashboardController(s.dashboard),
		health:         controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	windowMinutes := cfg.RateLimit.WindowMinutes
	if windowMinutes <= 0 {
		windowMinutes = 1
	}
	router.Use(security.RateLimiter(maxRequests, time.Duration(windowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks(s *services, cfg *config.Config) {
	if !cfg.Reminder.Enabled {
		return
	}

	interval := time.Duration(cfg.Reminder.SweepIntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = time.Hour
	}

	go func() {
		ticker := time.NewTicker(interval)
		for range ticker.C {
			s.reminder.SweepLowProgress(context.Background(), time.Now())
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

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
	controllers := app.initControllers(services, repos, db, rdb)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("study-planner", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		// 在 Run 的优雅停机阶段关闭，保证服务期间追踪一直可用
		app.tracerProvider = tp
	}

	app.registerRoutes(router, controllers, repos, cfg)

	app.startBackgroundTasks(services, cfg)

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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	a.shutdownTracer(ctx)

	log.Println("Server exiting")
}

// shutdownTracer 停机时冲刷并关闭追踪导出器，未启用追踪时为空操作
func (a *App) shutdownTracer(ctx context.Context) {
	if a.tracerProvider == nil {
		return
	}
	if err := a.tracerProvider.Shutdown(ctx); err != nil {
		logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
	}
}
