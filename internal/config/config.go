// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/miracle380301/cryptoGuardian-sub000/internal/engine"
	"github.com/miracle380301/cryptoGuardian-sub000/internal/impersonation"
)

type Config struct {
	DatabaseURL   string
	Port          string
	AppVersion    string
	Testing       bool
	MaxConcurrent int
	ResultTTL     time.Duration
	OutcomeTTL    time.Duration

	Weights    engine.Weights
	Thresholds engine.Thresholds
	Brands     []impersonation.Brand
}

// tuningFile is the optional YAML layout behind TRUST_TUNING_FILE. Every
// field is optional; absent sections keep the compiled-in defaults.
type tuningFile struct {
	Weights *struct {
		Blacklist     *float64 `yaml:"blacklist"`
		Exchange      *float64 `yaml:"exchange"`
		Registration  *float64 `yaml:"registration"`
		Certificate   *float64 `yaml:"certificate"`
		WebThreat     *float64 `yaml:"web_threat"`
		Reports       *float64 `yaml:"reports"`
		Impersonation *float64 `yaml:"impersonation"`
	} `yaml:"weights"`
	Thresholds *struct {
		Safe    *int `yaml:"safe"`
		Warning *int `yaml:"warning"`
	} `yaml:"thresholds"`
	Brands []impersonation.Brand `yaml:"brands"`
}

func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}

	cfg := &Config{
		DatabaseURL:   dbURL,
		Port:          port,
		AppVersion:    "1.4.2",
		Testing:       false,
		MaxConcurrent: envInt("MAX_CONCURRENT_EVALUATIONS", 8),
		ResultTTL:     envDuration("RESULT_CACHE_TTL", 5*time.Minute),
		OutcomeTTL:    envDuration("OUTCOME_CACHE_TTL", 10*time.Minute),
		Weights:       engine.DefaultWeights(),
		Thresholds:    engine.DefaultThresholds(),
		Brands:        impersonation.DefaultBrands(),
	}

	if path := os.Getenv("TRUST_TUNING_FILE"); path != "" {
		if err := cfg.applyTuningFile(path); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func (c *Config) applyTuningFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read tuning file: %w", err)
	}

	var t tuningFile
	if err := yaml.Unmarshal(data, &t); err != nil {
		return fmt.Errorf("failed to parse tuning file %s: %w", path, err)
	}

	if t.Weights != nil {
		applyFloat(&c.Weights.Blacklist, t.Weights.Blacklist)
		applyFloat(&c.Weights.Exchange, t.Weights.Exchange)
		applyFloat(&c.Weights.Registration, t.Weights.Registration)
		applyFloat(&c.Weights.Certificate, t.Weights.Certificate)
		applyFloat(&c.Weights.WebThreat, t.Weights.WebThreat)
		applyFloat(&c.Weights.Reports, t.Weights.Reports)
		applyFloat(&c.Weights.Impersonation, t.Weights.Impersonation)
	}
	if t.Thresholds != nil {
		if t.Thresholds.Safe != nil {
			c.Thresholds.Safe = *t.Thresholds.Safe
		}
		if t.Thresholds.Warning != nil {
			c.Thresholds.Warning = *t.Thresholds.Warning
		}
	}
	if len(t.Brands) > 0 {
		c.Brands = t.Brands
	}
	return nil
}

func applyFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
