package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"order-analytics/config"
	"order-analytics/internal/api"
	"order-analytics/internal/app"
	"order-analytics/internal/service"
	"order-analytics/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env, cfg.Server.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting order analytics service")

	tp, err := util.InitTracer("order-analytics", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Warn("Error shutting down tracer", zap.Error(err))
		}
	}()

	ctx := context.Background()

	deps, err := app.Open(cfg)
	if err != nil {
		logger.Fatal("Failed to open dependencies", zap.Error(err))
	}
	defer deps.Close()

	ds, err := app.LoadDataset(ctx, cfg, deps)
	if err != nil {
		logger.Fatal("Failed to load dataset", zap.Error(err))
	}

	reportService := service.NewReportService(ds, deps.Cache(), deps.Publisher(), app.Settings(cfg))

	if _, err := reportService.PublishSegments(ctx); err != nil {
		logger.Warn("Failed to publish segments", zap.Error(err))
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(reportService, deps.ReadinessChecks())
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
