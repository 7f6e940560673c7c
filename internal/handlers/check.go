// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/miracle380301/cryptoGuardian-sub000/internal/db"
	"github.com/miracle380301/cryptoGuardian-sub000/internal/engine"
)

type CheckHandler struct {
	Engine *engine.Engine
	DB     *db.Database
}

func NewCheckHandler(eng *engine.Engine, database *db.Database) *CheckHandler {
	return &CheckHandler{Engine: eng, DB: database}
}

type checkRequest struct {
	Domain string `json:"domain"`
	Mode   string `json:"mode"`
}

// Check evaluates one domain. GET passes domain and mode as query
// parameters; POST accepts the same fields as a JSON body.
func (h *CheckHandler) Check(c *gin.Context) {
	var req checkRequest
	if c.Request.Method == http.MethodPost {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be JSON with a domain field"})
			return
		}
	} else {
		req.Domain = c.Query("domain")
		req.Mode = c.Query("mode")
	}

	req.Domain = strings.TrimSpace(req.Domain)
	if req.Domain == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "domain is required"})
		return
	}

	result, err := h.Engine.Evaluate(c.Request.Context(), req.Domain, engine.Mode(req.Mode))
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, engine.ErrBusy):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service is at capacity, try again shortly"})
		default:
			traceID, _ := c.Get("trace_id")
			slog.Error("Evaluation failed", "trace_id", traceID, "domain", req.Domain, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "evaluation failed"})
		}
		return
	}

	h.recordEvaluation(c, req.Mode, result)
	c.JSON(http.StatusOK, result)
}

// recordEvaluation persists the result for the history endpoint. Best
// effort: a storage failure never fails the check itself.
func (h *CheckHandler) recordEvaluation(c *gin.Context, mode string, result engine.AggregateResult) {
	if h.DB == nil {
		return
	}
	if mode != string(engine.ModeCrypto) {
		mode = string(engine.ModeGeneral)
	}

	payload, err := json.Marshal(result)
	if err != nil {
		slog.Warn("Failed to serialize evaluation for history", "domain", result.Domain, "error", err)
		return
	}
	if err := h.DB.InsertEvaluation(c.Request.Context(), result.Domain, mode, result.FinalScore, result.Status, payload); err != nil {
		slog.Warn("Failed to persist evaluation", "domain", result.Domain, "error", err)
	}
}
