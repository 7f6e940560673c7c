// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.

// Package engine is the domain trust scoring core. It fans out to
// independent signal producers, normalizes their outcomes into canonical
// records, runs the impersonation detector, and combines everything under a
// weighted, override-aware aggregation into a 0-100 score and a three-state
// verdict.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/miracle380301/cryptoGuardian-sub000/internal/cache"
	"github.com/miracle380301/cryptoGuardian-sub000/internal/impersonation"
	"github.com/miracle380301/cryptoGuardian-sub000/internal/telemetry"
)

// ErrBusy is returned when the engine is saturated and backpressure rejects
// the request before any producer is called.
var ErrBusy = errors.New("engine is at capacity")

const acquireTimeout = 10 * time.Second

type Engine struct {
	producers  map[string]ProducerFunc
	detector   *impersonation.Detector
	weights    Weights
	thresholds Thresholds

	telemetry    *telemetry.Registry
	outcomeCache *cache.TTL[any]
	resultCache  *cache.TTL[AggregateResult]
	outcomeTTL   time.Duration
	resultTTL    time.Duration

	maxConcurrent int
	semaphore     chan struct{}
}

type Option func(*Engine)

func WithProducer(name string, fn ProducerFunc) Option {
	return func(e *Engine) { e.producers[name] = fn }
}

func WithProducers(producers map[string]ProducerFunc) Option {
	return func(e *Engine) {
		for name, fn := range producers {
			e.producers[name] = fn
		}
	}
}

func WithDetector(d *impersonation.Detector) Option {
	return func(e *Engine) { e.detector = d }
}

func WithWeights(w Weights) Option {
	return func(e *Engine) { e.weights = w }
}

func WithThresholds(t Thresholds) Option {
	return func(e *Engine) { e.thresholds = t }
}

func WithCacheTTLs(outcome, result time.Duration) Option {
	return func(e *Engine) {
		e.outcomeTTL = outcome
		e.resultTTL = result
	}
}

func WithMaxConcurrent(n int) Option {
	return func(e *Engine) {
		e.maxConcurrent = n
		e.semaphore = make(chan struct{}, n)
	}
}

func New(opts ...Option) *Engine {
	e := &Engine{
		producers:     make(map[string]ProducerFunc),
		detector:      impersonation.New(nil),
		weights:       DefaultWeights(),
		thresholds:    DefaultThresholds(),
		telemetry:     telemetry.NewRegistry(),
		outcomeCache:  cache.NewTTL[any]("producer-outcomes", 5000),
		resultCache:   cache.NewTTL[AggregateResult]("aggregates", 2000),
		outcomeTTL:    10 * time.Minute,
		resultTTL:     5 * time.Minute,
		maxConcurrent: 8,
		semaphore:     make(chan struct{}, 8),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Evaluate runs the full pipeline for one raw user input. Only invalid input
// is fatal; any subset of producers may fail and the evaluation still
// completes with neutral-leaning records in their place.
func (e *Engine) Evaluate(ctx context.Context, rawInput string, mode Mode) (AggregateResult, error) {
	domain, err := NormalizeInput(rawInput)
	if err != nil {
		return AggregateResult{}, err
	}
	if mode != ModeCrypto {
		mode = ModeGeneral
	}

	cacheKey := domain + "|" + string(mode)
	if res, ok := e.resultCache.Get(cacheKey); ok {
		return res.Clone(), nil
	}

	select {
	case e.semaphore <- struct{}{}:
		defer func() { <-e.semaphore }()
	case <-time.After(acquireTimeout):
		slog.Warn("Backpressure: rejected evaluation", "domain", domain)
		return AggregateResult{}, ErrBusy
	case <-ctx.Done():
		return AggregateResult{}, ctx.Err()
	}

	start := time.Now()
	outcomes := e.runSignals(ctx, domain, mode)
	records := e.normalizeOutcomes(domain, outcomes)
	records = append(records, normalizeImpersonation(e.detector.Analyze(domain), e.weights.Impersonation))

	result := aggregate(domain, strings.TrimSpace(rawInput), records, e.thresholds)

	slog.Info("Domain evaluated",
		"domain", domain,
		"mode", string(mode),
		"score", result.FinalScore,
		"status", result.Status,
		"signals", len(records),
		"elapsed_s", fmt.Sprintf("%.2f", time.Since(start).Seconds()),
	)

	e.resultCache.Set(cacheKey, result, e.resultTTL)
	return result.Clone(), nil
}

func (e *Engine) normalizeOutcomes(domain string, outcomes []Outcome) []SignalRecord {
	records := make([]SignalRecord, 0, len(outcomes)+1)
	for _, o := range outcomes {
		switch o.Name {
		case SignalBlacklist:
			records = append(records, normalizeBlacklist(o, e.weights.Blacklist))
		case SignalExchange:
			records = append(records, normalizeExchange(o, e.weights.Exchange))
		case SignalRegistration:
			records = append(records, normalizeRegistration(o, e.weights.Registration))
		case SignalCertificate:
			records = append(records, normalizeCertificate(o, e.weights.Certificate, e.detector.IsKnownBrand(domain)))
		case SignalWebThreat:
			records = append(records, normalizeThreatList(o, e.weights.WebThreat))
		case SignalReports:
			records = append(records, normalizeReports(o, e.weights.Reports))
		default:
			slog.Warn("Unknown producer outcome dropped", "producer", o.Name)
		}
	}
	return records
}

// Telemetry exposes producer health for the health endpoint.
func (e *Engine) Telemetry() *telemetry.Registry {
	return e.telemetry
}

// CacheStats reports hit rates for both engine caches.
func (e *Engine) CacheStats() []cache.Stats {
	return []cache.Stats{
		e.outcomeCache.Stats(),
		e.resultCache.Stats(),
	}
}
