// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/miracle380301/cryptoGuardian-sub000/internal/config"
	"github.com/miracle380301/cryptoGuardian-sub000/internal/db"
	"github.com/miracle380301/cryptoGuardian-sub000/internal/engine"
	"github.com/miracle380301/cryptoGuardian-sub000/internal/handlers"
	"github.com/miracle380301/cryptoGuardian-sub000/internal/impersonation"
	"github.com/miracle380301/cryptoGuardian-sub000/internal/middleware"
	"github.com/miracle380301/cryptoGuardian-sub000/internal/producers"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))

	// Optional; production supplies real environment variables.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	schemaCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(schemaCtx); err != nil {
		cancel()
		slog.Error("Failed to ensure database schema", "error", err)
		os.Exit(1)
	}
	cancel()

	producerSet := producers.New(database)
	detector := impersonation.New(cfg.Brands)

	eng := engine.New(
		engine.WithProducers(producerSet.Map()),
		engine.WithDetector(detector),
		engine.WithWeights(cfg.Weights),
		engine.WithThresholds(cfg.Thresholds),
		engine.WithCacheTTLs(cfg.OutcomeTTL, cfg.ResultTTL),
		engine.WithMaxConcurrent(cfg.MaxConcurrent),
	)
	slog.Info("Scoring engine initialized",
		"max_concurrent", cfg.MaxConcurrent,
		"result_ttl", cfg.ResultTTL.String(),
	)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(gzip.Gzip(gzip.DefaultCompression))
	router.Use(middleware.RequestContext())
	router.Use(middleware.SecurityHeaders())

	rateLimiter := middleware.NewInMemoryRateLimiter()
	slog.Info("Rate limiter initialized", "backend", "in-memory", "max_requests", middleware.RateLimitMaxRequests, "window_seconds", middleware.RateLimitWindow)

	checkHandler := handlers.NewCheckHandler(eng, database)
	reportHandler := handlers.NewReportHandler(database)
	historyHandler := handlers.NewHistoryHandler(database)
	healthHandler := handlers.NewHealthHandler(database, eng)

	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/api/health", healthHandler.HealthCheck)

	router.GET("/api/check", middleware.CheckRateLimit(rateLimiter), checkHandler.Check)
	router.POST("/api/check", middleware.CheckRateLimit(rateLimiter), checkHandler.Check)

	router.POST("/api/report", reportHandler.SubmitReport)
	router.GET("/api/history", historyHandler.RecentEvaluations)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	addr := fmt.Sprintf("0.0.0.0:%s", cfg.Port)
	slog.Info("Starting trust scoring server", "address", addr, "version", cfg.AppVersion)

	if err := router.Run(addr); err != nil {
		slog.Error("Server failed to start", "error", err)
		os.Exit(1)
	}
}
