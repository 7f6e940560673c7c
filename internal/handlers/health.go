// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/miracle380301/cryptoGuardian-sub000/internal/db"
	"github.com/miracle380301/cryptoGuardian-sub000/internal/engine"
)

type HealthHandler struct {
	DB        *db.Database
	Engine    *engine.Engine
	StartTime time.Time
}

func NewHealthHandler(database *db.Database, eng *engine.Engine) *HealthHandler {
	return &HealthHandler{
		DB:        database,
		Engine:    eng,
		StartTime: time.Now(),
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	dbStatus := "healthy"
	if h.DB != nil {
		if err := h.DB.HealthCheck(c.Request.Context()); err != nil {
			dbStatus = "unhealthy: " + err.Error()
		}
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	response := gin.H{
		"status":  "ok",
		"runtime": "go",
		"uptime":  time.Since(h.StartTime).String(),
		"database": gin.H{
			"status": dbStatus,
		},
		"memory": gin.H{
			"alloc_mb":       memStats.Alloc / 1024 / 1024,
			"sys_mb":         memStats.Sys / 1024 / 1024,
			"num_goroutines": runtime.NumGoroutine(),
		},
	}

	if h.Engine != nil {
		producerStats := h.Engine.Telemetry().AllStats()

		producers := make([]gin.H, 0, len(producerStats))
		for _, ps := range producerStats {
			p := gin.H{
				"name":                 ps.Name,
				"state":                string(ps.State),
				"total_requests":       ps.TotalRequests,
				"success_count":        ps.SuccessCount,
				"failure_count":        ps.FailureCount,
				"consecutive_failures": ps.ConsecFailures,
				"avg_latency_ms":       ps.AvgLatencyMs,
				"p95_latency_ms":       ps.P95LatencyMs,
				"in_cooldown":          ps.InCooldown,
			}
			if ps.LastError != "" {
				p["last_error"] = ps.LastError
			}
			if ps.LastErrorTime != nil {
				p["last_error_time"] = ps.LastErrorTime.Format(time.RFC3339)
			}
			if ps.LastSuccessTime != nil {
				p["last_success_time"] = ps.LastSuccessTime.Format(time.RFC3339)
			}
			producers = append(producers, p)
		}
		response["producers"] = producers

		caches := make([]gin.H, 0, 2)
		for _, cs := range h.Engine.CacheStats() {
			caches = append(caches, gin.H{
				"name":     cs.Name,
				"size":     cs.Size,
				"max_size": cs.MaxSize,
				"hits":     cs.Hits,
				"misses":   cs.Misses,
				"hit_rate": cs.HitRate,
			})
		}
		response["caches"] = caches
	}

	c.JSON(http.StatusOK, response)
}
