package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"leet_track_backend/internal/config"
	"leet_track_backend/internal/controller"
	"leet_track_backend/internal/repository"
	"leet_track_backend/internal/service"
	"leet_track_backend/pkg/cache"
	"leet_track_backend/pkg/database"
	"leet_track_backend/pkg/logger"
	"leet_track_backend/pkg/monitoring"
	"leet_track_backend/pkg/security"
	"leet_track_backend/pkg/tracing"

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
	configCallbacks []func(*config.Config)
}

type repositories struct {
	student  *repository.StudentRepository
	admin    *repository.AdminRepository
	sheet    *repository.SheetRepository
	progress *repository.ProgressRepository
}

type services struct {
	leetcode *service.LeetCodeService
	sync     *service.SyncService
	ai       *service.AIService
	analysis *service.AnalysisService
	auth     *service.AuthService
	student  *service.StudentService
	sheet    *service.SheetService
	contest  *service.ContestService
}

type controllers struct {
	auth     *controller.AuthController
	student  *controller.StudentController
	admin    *controller.AdminController
	sheet    *controller.SheetController
	contest  *controller.ContestController
	analysis *controller.AnalysisController
	health   *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 配置热更新入口，通知所有已注册的回调。
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config = cfg
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
	logger.Log.Info("Configuration reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		student:  repository.NewStudentRepository(db),
		admin:    repository.NewAdminRepository(db),
		sheet:    repository.NewSheetRepository(db),
		progress: repository.NewProgressRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, store cache.Store) *services {
	s := &services{}

	s.leetcode = service.NewLeetCodeService(cfg.LeetCode)
	s.sync = service.NewSyncService(repos.student, s.leetcode, cfg.Refresh)
	s.ai = service.NewAIService(cfg.AI)
	s.analysis = service.NewAnalysisService(repos.student, s.ai, cfg.Refresh)
	s.auth = service.NewAuthService(repos.student, repos.admin, s.leetcode, cfg)
	s.student = service.NewStudentService(repos.student, repos.progress, s.sync, store)
	s.sheet = service.NewSheetService(repos.sheet, repos.progress, repos.student)
	s.contest = service.NewContestService(cfg.Contests, store)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth),
		student:  controller.NewStudentController(s.student),
		admin:    controller.NewAdminController(s.student, s.sync, s.auth),
		sheet:    controller.NewSheetController(s.sheet),
		contest:  controller.NewContestController(s.contest),
		analysis: controller.NewAnalysisController(s.analysis),
		health:   controller.NewHealthController(db),
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

// startBackgroundTasks 定时批量刷新所有绑定了 LeetCode 用户名的学生。
func (a *App) startBackgroundTasks(s *services, cfg *config.Config) {
	go func() {
		interval := time.Duration(cfg.Refresh.IntervalMinutes) * time.Minute
		ticker := time.NewTicker(interval)
		for range ticker.C {
			s.sync.RefreshAll(context.Background())
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

	store := cache.NewRedisStore(rdb)
	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, store)
	app.services = services
	controllers := app.initControllers(services, db)

	// 监控初始化
	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("leet-track", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	app.registerRoutes(router, controllers, cfg)

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

	log.Println("Server exiting")
}
