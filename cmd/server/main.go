package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"jobboard-backend/internal/auth"
	"jobboard-backend/internal/cache"
	"jobboard-backend/internal/config"
	"jobboard-backend/internal/database"
	"jobboard-backend/internal/db"
	"jobboard-backend/internal/handlers"
	"jobboard-backend/internal/health"
	h "jobboard-backend/internal/http"
	"jobboard-backend/internal/logger"
	"jobboard-backend/internal/middleware"
	"jobboard-backend/internal/monitoring"
	"jobboard-backend/internal/repositories"
	"jobboard-backend/internal/services"
	"jobboard-backend/internal/timeutil"
	"jobboard-backend/migrations"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default configs/config.yaml)")
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Get().Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config) error {
	log := logger.Named("server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	migrator := database.NewMigrator(pool, migrations.FS, logger.Named("migrations"))
	if _, err := migrator.RunMigrations(ctx); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	var cacheProbe func() bool
	if cfg.Redis.Addr != "" {
		if err := cache.Init(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
			log.Warn("redis unavailable, serving without cache", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		} else {
			log.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
		}
		cacheProbe = cache.IsHealthy
		defer cache.Close()
	}

	if len(cfg.Admin.Emails) == 0 {
		log.Warn("admin allowlist is empty; every admin request will be rejected")
	}

	// Repositories and services
	activityLogRepo := repositories.NewActivityLogRepository(pool)
	activityLogStore := cache.NewCachedSource(activityLogRepo, cfg.Redis.TTL)
	exportService := services.NewExportService(timeutil.SystemClock)
	hub := monitoring.NewHub(logger.Named("live_feed"), cfg.Server.CorsAllowedOrigins)

	// Handlers
	activityLogHandler := handlers.NewActivityLogHandler(activityLogStore, exportService, hub)
	activityLogHandler.FetchLimit = cfg.ActivityLog.FetchLimit
	activityLogHandler.PageSize = cfg.ActivityLog.PageSize
	healthHandler := handlers.NewHealthHandler(health.NewHealthChecker(pool, cacheProbe))

	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Issuer)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, auth.NewAllowlistPolicy(cfg.Admin.Emails))

	router := h.NewRouter(activityLogHandler, healthHandler, authMiddleware)
	handler := middleware.PanicRecovery(middleware.RequestLogger(middleware.NewCORS(cfg)(router)))

	if cfg.Monitoring.Port > 0 {
		ms := monitoring.NewMonitoringServer(pool, cfg.Monitoring.Port, hub, authMiddleware.RequireAdmin, logger.Named("monitoring"))
		go func() {
			if err := ms.Start(ctx); err != nil {
				log.Error("monitoring server failed", zap.Error(err))
			}
		}()
	} else {
		go hub.Run(ctx)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      90 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
