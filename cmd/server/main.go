package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/relay-one/tray-service/internal/config"
	"github.com/relay-one/tray-service/internal/domain"
	"github.com/relay-one/tray-service/internal/handler"
	"github.com/relay-one/tray-service/internal/middleware"
	"github.com/relay-one/tray-service/internal/payload"
	"github.com/relay-one/tray-service/internal/repository/sqlite"
	"github.com/relay-one/tray-service/internal/service"
	"github.com/relay-one/tray-service/internal/tray/dbustray"
	"github.com/relay-one/tray-service/internal/tray/memtray"
)

// @title Tray Gateway API
// @version 1.0
// @description Local gateway between application notifications and the host tray

// @host localhost:8085
// @BasePath /

func main() {
	// Load configuration
	cfg := config.Load()

	// Setup logger
	logLevel := slog.LevelInfo
	if cfg.App.LogLevel == "debug" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("starting tray gateway",
		"env", cfg.App.Env,
		"port", cfg.Server.Port,
		"tray_backend", cfg.Tray.Backend,
	)

	// Initialize SQLite
	db, err := sqlite.New(cfg.Database)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("database ready", "path", cfg.Database.Path)

	// Initialize tray backend
	var (
		tray        domain.Tray
		trayChecker handler.HealthChecker
	)
	switch cfg.Tray.Backend {
	case "memory":
		mem := memtray.New()
		tray = mem
		trayChecker = mem
	default:
		dt, err := dbustray.New(dbustray.Options{
			AppName: cfg.Tray.AppName,
			AppIcon: cfg.Tray.AppIcon,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to notification daemon", "error", err)
			os.Exit(1)
		}
		defer dt.Close()
		tray = dt
		trayChecker = dt
	}

	// Initialize repositories
	categoryRepo := sqlite.NewCategoryRepository(db)
	historyRepo := sqlite.NewHistoryRepository(db)

	// Initialize services
	codec := payload.NewEnvelope()
	reconstructor := service.NewReconstructor(codec, logger)
	presenter := service.NewPresenter(tray, reconstructor, codec, categoryRepo, historyRepo, logger)
	categoryService := service.NewCategoryService(categoryRepo, logger)

	// Initialize WebSocket hub
	wsHub := handler.NewWebSocketHub(logger)
	go wsHub.Run()
	presenter.SetEventBroadcast(wsHub.BroadcastEvent)

	// Initialize handlers
	metrics := handler.NewMetrics()
	notificationHandler := handler.NewNotificationHandler(presenter, metrics, cfg.History)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	healthHandler := handler.NewHealthHandler()
	healthHandler.AddChecker("sqlite", db)
	healthHandler.AddChecker("tray", trayChecker)

	metricsHandler := handler.NewMetricsHandler(metrics, tray)
	wsHandler := handler.NewWebSocketHandler(wsHub)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Correlation)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger, metrics))
	r.Use(chimiddleware.Compress(5))

	// Health endpoints
	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	// Metrics endpoints
	r.Handle("/metrics", metricsHandler.Handler())
	r.Get("/metrics/realtime", metricsHandler.RealtimeMetrics)

	// WebSocket endpoint
	r.Get("/ws", wsHandler.HandleWebSocket)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/notifications", func(r chi.Router) {
			notificationHandler.RegisterRoutes(r)
		})

		r.Route("/categories", func(r chi.Router) {
			categoryHandler.RegisterRoutes(r)
		})
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server listening", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("server stopped")
}
