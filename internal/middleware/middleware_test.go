// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestContextSetsTraceID(t *testing.T) {
	r := gin.New()
	r.Use(RequestContext())
	r.GET("/", func(c *gin.Context) {
		traceID, exists := c.Get("trace_id")
		if !exists || traceID == "" {
			t.Error("expected trace_id in gin context")
		}
		if c.Request.Context().Value(TraceIDKey) == nil {
			t.Error("expected trace_id in request context")
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	r.ServeHTTP(w, req)

	for header, want := range map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
	} {
		if got := w.Header().Get(header); got != want {
			t.Errorf("header %s = %q, want %q", header, got, want)
		}
	}
	if w.Header().Get("Content-Security-Policy") == "" {
		t.Error("expected a Content-Security-Policy header")
	}
}

func TestRecoveryReturnsJSON500(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/panic", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("expected JSON content type, got %s", ct)
	}
}

func TestRateLimiterPerIPWindow(t *testing.T) {
	l := NewInMemoryRateLimiter()

	for i := 0; i < RateLimitMaxRequests; i++ {
		res := l.CheckAndRecord("10.0.0.1", "")
		if !res.Allowed {
			t.Fatalf("request %d should be allowed", i)
		}
	}

	res := l.CheckAndRecord("10.0.0.1", "")
	if res.Allowed {
		t.Error("request over the limit should be rejected")
	}
	if res.Reason != "rate_limit" {
		t.Errorf("expected reason rate_limit, got %s", res.Reason)
	}
	if res.WaitSeconds < 1 {
		t.Errorf("expected positive wait, got %d", res.WaitSeconds)
	}
}

func TestRateLimiterAntiRepeat(t *testing.T) {
	l := NewInMemoryRateLimiter()

	first := l.CheckAndRecord("10.0.0.2", "binance.com")
	if !first.Allowed {
		t.Fatal("first request should be allowed")
	}

	repeat := l.CheckAndRecord("10.0.0.2", "binance.com")
	if repeat.Allowed {
		t.Error("immediate repeat of the same domain should be rejected")
	}
	if repeat.Reason != "anti_repeat" {
		t.Errorf("expected reason anti_repeat, got %s", repeat.Reason)
	}

	other := l.CheckAndRecord("10.0.0.2", "kraken.com")
	if !other.Allowed {
		t.Error("a different domain should be allowed")
	}
}

func TestRateLimiterIsolatesIPs(t *testing.T) {
	l := NewInMemoryRateLimiter()

	l.CheckAndRecord("10.0.0.3", "binance.com")
	res := l.CheckAndRecord("10.0.0.4", "binance.com")
	if !res.Allowed {
		t.Error("different IPs must not share windows")
	}
}

func TestCheckRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CheckRateLimit(NewInMemoryRateLimiter()))
	r.GET("/api/check", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/check?domain=binance.com", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("first request should pass, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/api/check?domain=binance.com", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("repeat should be rejected with 429, got %d", w.Code)
	}
}
