package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"user_manager/internal/config"
	"user_manager/internal/handler"
	"user_manager/internal/logger"
	"user_manager/internal/middleware"
	"user_manager/internal/model"
	"user_manager/internal/repository"
	"user_manager/internal/service"
	"user_manager/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	log := logger.New(logger.FromEnv(logger.FormatJSON))
	slog.SetDefault(log)

	// --- Configuration ---
	cfg, err := config.LoadServerConfig()
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Repository ---
	var (
		repo   repository.RecordRepository
		pinger handler.Pinger
	)
	if cfg.UsePostgres() {
		dbPool, err := config.ConnectDB(ctx, cfg.DB, log)
		if err != nil {
			log.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer dbPool.Close()

		if err := config.AutoMigrate(dbPool); err != nil {
			log.Error("failed to auto-migrate database", "error", err)
			os.Exit(1)
		}
		repo = repository.NewPostgresRepository(dbPool)
		pinger = dbPool
	} else {
		repo, err = repository.NewFileRepository(cfg.DBFile, model.CollectionCustomers, model.CollectionUsers)
		if err != nil {
			log.Error("failed to open database file", "path", cfg.DBFile, "error", err)
			os.Exit(1)
		}
		log.Info("using JSON file database", "path", cfg.DBFile)
	}

	// --- Services & Handlers ---
	recordService := service.NewRecordService(repo, service.DefaultCollections())
	recordHandler := handler.NewRecordHandler(recordService, log)
	healthHandler := handler.NewHealthHandler(pinger, log)
	metrics := middleware.NewMetrics()

	// --- Router ---
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(log), metrics.Middleware())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", middleware.RequestIDHeader)
	corsCfg.ExposeHeaders = []string{middleware.RequestIDHeader}
	if len(cfg.AllowOrigins) == 1 && cfg.AllowOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowOrigins
	}
	router.Use(cors.New(corsCfg))

	var usersGuard []gin.HandlerFunc
	if cfg.RequireAuth {
		tokenUtil := utils.NewTokenUtil(cfg.TokenSecret, utils.SessionFreshness)
		usersGuard = append(usersGuard, middleware.TokenAuthMiddleware(tokenUtil, log))
		log.Info("session token required for /users")
	}
	recordHandler.RegisterRecordRoutes(router, model.CollectionCustomers)
	recordHandler.RegisterRecordRoutes(router, model.CollectionUsers, usersGuard...)
	healthHandler.RegisterHealthRoutes(router)
	router.GET("/metrics", metrics.Handler())

	// --- Start Server ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("listen failed", "error", err)
			stop()
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	log.Info("server exiting")
}
