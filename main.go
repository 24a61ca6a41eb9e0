package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DhavalSuthar-24/bracket/config"
	_ "github.com/DhavalSuthar-24/bracket/docs"
	"github.com/DhavalSuthar-24/bracket/internal/broadcast"
	"github.com/DhavalSuthar-24/bracket/internal/tournament"
	"github.com/DhavalSuthar-24/bracket/routes"
	"github.com/gin-gonic/gin"
)

// @title Bracket REST API
// @version 1.0
// @description Single-elimination tournament brackets with live updates.
// @host localhost:8088
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := config.Initialize(); err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	cfg := config.GetConfig()
	logger := config.NewLogger(*cfg)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := tournament.AutoMigrate(config.DB); err != nil {
		logger.WithError(err).Fatal("AutoMigrate failed")
	}
	logger.Info("AutoMigrate successful")

	var broadcaster *broadcast.SSEBroadcaster
	if cfg.Broadcast.Enabled {
		broadcaster = broadcast.NewSSEBroadcaster(broadcast.SSEOptions{
			QueueSize:     cfg.Broadcast.QueueSize,
			RetryInterval: cfg.Broadcast.RetryInterval,
		}, logger)
	} else {
		logger.Warn("Broadcasting disabled, viewers will not receive live updates")
	}

	r := routes.SetupRoutes(config.DB, cfg, broadcaster, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("Starting server on port %s in %s mode", cfg.App.Port, cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Failed to run server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	// Disconnect SSE subscribers first so Shutdown does not wait on open streams.
	if broadcaster != nil {
		broadcaster.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shut down")
	}

	if sqlDB, err := config.DB.DB(); err == nil {
		sqlDB.Close()
	}
	logger.Info("Server exited")
}
