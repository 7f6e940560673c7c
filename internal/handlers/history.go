// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/miracle380301/cryptoGuardian-sub000/internal/db"
)

type HistoryHandler struct {
	DB *db.Database
}

func NewHistoryHandler(database *db.Database) *HistoryHandler {
	return &HistoryHandler{DB: database}
}

const (
	defaultHistoryLimit = 25
	maxHistoryLimit     = 100
)

// RecentEvaluations lists the most recent stored evaluations, newest first.
func (h *HistoryHandler) RecentEvaluations(c *gin.Context) {
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		if n > maxHistoryLimit {
			n = maxHistoryLimit
		}
		limit = n
	}

	rows, err := h.DB.ListRecentEvaluations(c.Request.Context(), limit)
	if err != nil {
		traceID, _ := c.Get("trace_id")
		slog.Error("Failed to list evaluations", "trace_id", traceID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}

	if rows == nil {
		rows = []db.EvaluationRow{}
	}
	c.JSON(http.StatusOK, gin.H{
		"count":       len(rows),
		"evaluations": rows,
	})
}
