package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"workorder/internal/audit"
	"workorder/internal/auth"
	"workorder/internal/cache"
	"workorder/internal/config"
	"workorder/internal/handler"
	"workorder/internal/middleware"
	"workorder/internal/model"
	"workorder/internal/notify"
	"workorder/internal/policy"
	"workorder/internal/report"
	"workorder/internal/repository"
	"workorder/internal/scheduler"
	"workorder/internal/service"
	"workorder/internal/telemetry"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config

	logger    *slog.Logger
	generator *scheduler.Generator
	closers   []io.Closer
}

// Open connects gorm to Postgres with error translation enabled so that
// repositories see gorm.ErrDuplicatedKey.
func Open(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("❌ failed to connect to DB: %w", err)
	}
	return db, nil
}

func Init(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("✅ Connected to database")

	s := &Server{DB: db, Config: cfg, logger: logger}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	equipmentRepo := repository.NewEquipmentRepository(db)
	contractorRepo := repository.NewContractorRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	ruleRepo := repository.NewRuleRepository(db)

	// Collaborators
	recorder := audit.NewRecorder(activityRepo)

	var notifier notify.Dispatcher
	if len(cfg.KafkaBrokers) > 0 {
		kafka := notify.NewKafkaDispatcher(cfg.KafkaBrokers, cfg.NotificationTopic)
		s.closers = append(s.closers, kafka)
		notifier = kafka
		logger.Info("notifications via kafka", slog.String("topic", cfg.NotificationTopic))
	} else {
		notifier = notify.NewLogDispatcher(logger)
	}

	var dashboardCache report.Cache
	if cfg.RedisAddr != "" {
		client := cache.NewClient(cfg.RedisAddr)
		s.closers = append(s.closers, client)
		dashboardCache = cache.NewJSONCache(client, cfg.ReportCacheTTL)
		logger.Info("dashboard cache via redis", slog.String("addr", cfg.RedisAddr))
	}

	// Services
	taskService := service.NewTaskService(service.Deps{
		Tasks:       taskRepo,
		Users:       userRepo,
		Locations:   locationRepo,
		Equipment:   equipmentRepo,
		Contractors: contractorRepo,
		Audit:       recorder,
		Notifier:    notifier,
		Logger:      logger,
	})
	engine := report.NewEngine(report.Deps{
		Tasks:     taskRepo,
		Users:     userRepo,
		Equipment: equipmentRepo,
		Cache:     dashboardCache,
		Logger:    logger,
	})
	s.generator = scheduler.NewGenerator(ruleRepo, equipmentRepo, taskService, logger)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry)

	// Handlers
	userHandler := handler.NewUserHandler(userRepo, tokens)
	taskHandler := handler.NewTaskHandler(taskService)
	reportHandler := handler.NewReportHandler(engine)
	activityHandler := handler.NewActivityHandler(recorder)
	referenceHandler := handler.NewReferenceHandler(locationRepo, equipmentRepo, contractorRepo)
	ruleHandler := handler.NewRuleHandler(ruleRepo, s.generator)

	r := gin.Default()
	managers := middleware.RequireRoles(policy.ManagerRoles()...)
	seniors := middleware.RequireRoles(model.RoleAdmin, model.RoleSupervisor)

	// Public routes
	r.GET("/healthz", health(db))
	r.GET("/metrics", telemetry.MetricsHandler())
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(tokens), middleware.LoadActor(userRepo))
	{
		authorized.GET("/me", userHandler.Me)
		authorized.GET("/users", managers, userHandler.List)
		authorized.POST("/users", middleware.RequireRoles(model.RoleAdmin), userHandler.CreateUser)

		// Task routes
		authorized.POST("/tasks", taskHandler.Create)
		authorized.GET("/tasks", taskHandler.List)
		authorized.GET("/tasks/my", taskHandler.Mine)
		authorized.GET("/tasks/summary", taskHandler.Summary)
		authorized.GET("/tasks/:id", taskHandler.GetByID)
		authorized.PUT("/tasks/:id", taskHandler.Update)
		authorized.POST("/tasks/:id/start", taskHandler.Start)
		authorized.POST("/tasks/:id/complete", taskHandler.Complete)
		authorized.POST("/tasks/:id/pause", taskHandler.Pause)
		authorized.POST("/tasks/:id/resume", taskHandler.Resume)
		authorized.POST("/tasks/:id/cancel", taskHandler.Cancel)
		authorized.POST("/tasks/:id/archive", managers, taskHandler.Archive)
		authorized.POST("/tasks/:id/daily-logs", taskHandler.AddDailyLog)
		authorized.POST("/tasks/:id/comments", taskHandler.AddComment)
		authorized.POST("/tasks/:id/attachments", taskHandler.AddAttachment)

		// Reference data
		authorized.POST("/locations", managers, referenceHandler.CreateLocation)
		authorized.GET("/locations", referenceHandler.ListLocations)
		authorized.GET("/locations/:id", referenceHandler.GetLocation)
		authorized.PATCH("/locations/:id", managers, referenceHandler.UpdateLocation)
		authorized.DELETE("/locations/:id", managers, referenceHandler.DeleteLocation)
		authorized.POST("/equipment", managers, referenceHandler.CreateEquipment)
		authorized.POST("/equipment/bulk", seniors, referenceHandler.BulkCreateEquipment)
		authorized.GET("/equipment", referenceHandler.ListEquipment)
		authorized.GET("/equipment/:id", referenceHandler.GetEquipment)
		authorized.PATCH("/equipment/:id", managers, referenceHandler.UpdateEquipment)
		authorized.DELETE("/equipment/:id", managers, referenceHandler.DeleteEquipment)
		authorized.GET("/equipment/:id/tasks", taskHandler.ByEquipment)
		authorized.POST("/contractors", managers, referenceHandler.CreateContractor)
		authorized.GET("/contractors", referenceHandler.ListContractors)
		authorized.GET("/contractors/:id", referenceHandler.GetContractor)
		authorized.PATCH("/contractors/:id", managers, referenceHandler.UpdateContractor)
		authorized.DELETE("/contractors/:id", seniors, referenceHandler.DeleteContractor)

		authorized.GET("/activity", activityHandler.List)

		// Report routes
		reports := authorized.Group("/reports", managers)
		reports.GET("/tasks-by-status", reportHandler.TasksByStatus)
		reports.GET("/tasks-by-criticality", reportHandler.TasksByCriticality)
		reports.GET("/tasks-by-type", reportHandler.TasksByType)
		reports.GET("/average-resolution-time", reportHandler.AverageResolutionTime)
		reports.GET("/resolution-by-criticality", reportHandler.ResolutionByCriticality)
		reports.GET("/resolution-by-type", reportHandler.ResolutionByType)
		reports.GET("/workload", reportHandler.Workload)
		reports.GET("/dashboard", reportHandler.Dashboard)

		// Scheduled rule routes
		rules := authorized.Group("/rules", managers)
		rules.POST("", ruleHandler.Create)
		rules.GET("", ruleHandler.List)
		rules.GET("/:id", ruleHandler.GetByID)
		rules.PATCH("/:id", ruleHandler.Update)
		rules.DELETE("/:id", ruleHandler.Delete)
		rules.PATCH("/:id/toggle", ruleHandler.Toggle)
		rules.POST("/:id/run-now", ruleHandler.RunNow)
	}

	s.Engine = r
	return s, nil
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// Run serves HTTP and the rule generator until SIGINT or SIGTERM.
func (s *Server) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if s.Config.GeneratorEnabled {
		if err := s.generator.Start(ctx, s.Config.GeneratorSpec); err != nil {
			return err
		}
		defer s.generator.Stop()
	}

	srv := &http.Server{
		Addr:              ":" + s.Config.ServerPort,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("🚀 Server running", slog.String("port", s.Config.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("❌ failed to listen: %w", err)
		}
	case <-ctx.Done():
	}
	s.logger.Info("🛑 Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("❌ server forced to shutdown: %w", err)
	}
	s.close()

	s.logger.Info("✅ Server exited properly")
	return nil
}

func (s *Server) close() {
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			s.logger.Warn("close failed", slog.String("error", err.Error()))
		}
	}
	if sqlDB, err := s.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
