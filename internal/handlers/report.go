// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/miracle380301/cryptoGuardian-sub000/internal/db"
	"github.com/miracle380301/cryptoGuardian-sub000/internal/engine"
)

type ReportHandler struct {
	DB *db.Database
}

func NewReportHandler(database *db.Database) *ReportHandler {
	return &ReportHandler{DB: database}
}

var reportCategories = map[string]bool{
	"phishing":      true,
	"scam":          true,
	"malware":       true,
	"impersonation": true,
	"other":         true,
}

type reportRequest struct {
	Domain      string `json:"domain"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// SubmitReport files a community scam report against a domain.
func (h *ReportHandler) SubmitReport(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be JSON"})
		return
	}

	domain, err := engine.NormalizeInput(req.Domain)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid domain"})
		return
	}

	category := strings.ToLower(strings.TrimSpace(req.Category))
	if category == "" {
		category = "other"
	}
	if !reportCategories[category] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown report category"})
		return
	}

	if len(req.Description) > 2000 {
		req.Description = req.Description[:2000]
	}

	id := uuid.New().String()
	if err := h.DB.InsertReport(c.Request.Context(), id, domain, category, req.Description, c.ClientIP()); err != nil {
		traceID, _ := c.Get("trace_id")
		slog.Error("Failed to store report", "trace_id", traceID, "domain", domain, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store report"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":     id,
		"domain": domain,
		"status": "received",
	})
}
