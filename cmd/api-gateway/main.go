package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/jadval-app/jadval-api/api/swagger"
	"github.com/jadval-app/jadval-api/internal/handler"
	"github.com/jadval-app/jadval-api/internal/middleware"
	"github.com/jadval-app/jadval-api/internal/models"
	"github.com/jadval-app/jadval-api/internal/repository"
	"github.com/jadval-app/jadval-api/internal/service"
	"github.com/jadval-app/jadval-api/pkg/cache"
	"github.com/jadval-app/jadval-api/pkg/config"
	"github.com/jadval-app/jadval-api/pkg/database"
	"github.com/jadval-app/jadval-api/pkg/jobs"
	"github.com/jadval-app/jadval-api/pkg/logger"
	corsmiddleware "github.com/jadval-app/jadval-api/pkg/middleware/cors"
	reqidmiddleware "github.com/jadval-app/jadval-api/pkg/middleware/requestid"
	"github.com/jadval-app/jadval-api/pkg/storage"
)

// @title Jadval API
// @version 1.0.0
// @description Voice-driven lesson schedule service
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, continuing without cache", "error", err)
		redisClient = nil
	}

	validate := validator.New()
	metricsService := service.NewMetricsService()

	var cacheService *service.CacheService
	if redisClient != nil {
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheService = service.NewCacheService(cacheRepo, metricsService, cfg.Schedule.CacheTTL, logr, true)
	}

	userRepo := repository.NewUserRepository(db)
	lessonRepo := repository.NewLessonRepository(db)

	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "jadval-api",
	})
	userService := service.NewUserService(userRepo, validate, logr)
	lessonService := service.NewLessonService(lessonRepo, cacheService, validate, logr)
	voiceService := service.NewVoiceService(lessonService, validate, logr, metricsService, cfg.Voice)

	var exportJobService *service.ExportJobService
	var exportQueue *jobs.Queue
	if cfg.Exports.Enabled {
		exportStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init export storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportJobRepo := repository.NewExportJobRepository(db)
		exportService := service.NewExportService(lessonRepo, exportStore, signer, service.ExportConfig{
			APIPrefix: cfg.APIPrefix,
			ResultTTL: cfg.Exports.SignedURLTTL,
		}, logr, nil, nil)

		worker := service.NewExportWorker(exportJobRepo, exportService, cfg.Exports.WorkerRetries, logr)
		exportQueue = jobs.NewQueue("exports", worker.Handle, jobs.QueueConfig{
			Workers:    cfg.Exports.WorkerConcurrency,
			MaxRetries: cfg.Exports.WorkerRetries,
			Logger:     logr,
		})
		exportQueue.Start(ctx)
		defer exportQueue.Stop()

		exportJobService = service.NewExportJobService(exportJobRepo, exportQueue, exportService, logr, service.ExportJobServiceConfig{
			ResultTTL:       cfg.Exports.SignedURLTTL,
			CleanupInterval: cfg.Exports.CleanupInterval,
			MaxRetries:      cfg.Exports.WorkerRetries,
		})
		exportJobService.RecoverPendingJobs(ctx)
		exportJobService.StartCleanup(ctx)
	}

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	voiceHandler := handler.NewVoiceHandler(voiceService)
	lessonHandler := handler.NewLessonHandler(lessonService)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	var exportHandler *handler.ExportHandler
	if exportJobService != nil {
		exportHandler = handler.NewExportHandler(exportJobService)
	} else {
		exportHandler = handler.NewExportHandler(nil)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.WithResponseMeta())
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/reset-password", authHandler.ResetPassword)

	authRequired := api.Group("")
	authRequired.Use(middleware.JWT(authService))

	authRequired.POST("/auth/logout", authHandler.Logout)
	authRequired.POST("/auth/change-password", authHandler.ChangePassword)
	authRequired.GET("/auth/me", authHandler.Me)

	users := authRequired.Group("/users")
	users.GET("", middleware.RequireRoles(models.RoleAdmin), userHandler.List)
	users.POST("", middleware.RequireRoles(models.RoleAdmin), userHandler.Create)
	users.GET("/:id", middleware.RBAC(string(models.RoleAdmin), "SELF"), userHandler.Get)
	users.PUT("/:id", middleware.RequireRoles(models.RoleAdmin), userHandler.Update)
	users.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), userHandler.Delete)

	canEdit := middleware.RequireRoles(models.RoleAdmin, models.RoleDispatcher)

	voice := authRequired.Group("/voice")
	voice.POST("/interpret", voiceHandler.Interpret)
	voice.POST("/commit", canEdit, middleware.Audit(userRepo, "voice.commit", "lesson"), voiceHandler.Commit)
	voice.GET("/languages", voiceHandler.Languages)

	lessons := authRequired.Group("/lessons")
	lessons.GET("", lessonHandler.List)
	lessons.POST("", canEdit, middleware.Audit(userRepo, "lesson.save", "lesson"), lessonHandler.Save)
	lessons.DELETE("/slot", canEdit, middleware.Audit(userRepo, "lesson.delete_slot", "lesson"), lessonHandler.DeleteSlot)
	lessons.GET("/:id", lessonHandler.Get)
	lessons.DELETE("/:id", canEdit, middleware.Audit(userRepo, "lesson.delete", "lesson"), lessonHandler.Delete)

	schedule := authRequired.Group("/schedule")
	schedule.GET("/week/:weekStart", lessonHandler.Week)
	schedule.POST("/copy-week", canEdit, middleware.Audit(userRepo, "schedule.copy_week", "lesson"), lessonHandler.CopyWeek)

	// download is token-authenticated, everything else requires a session
	api.GET("/exports/download/:token", exportHandler.Download)
	exports := authRequired.Group("/exports")
	exports.POST("", exportHandler.Create)
	exports.GET("/:id", exportHandler.Status)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Warnw("graceful shutdown failed", "error", err)
	}
}
