// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// producerOrder fixes the launch order so runs are reproducible; completion
// order still varies and must not matter to the result.
var producerOrder = []string{
	SignalBlacklist,
	SignalExchange,
	SignalRegistration,
	SignalCertificate,
	SignalWebThreat,
	SignalReports,
}

// runSignals fans out one goroutine per applicable producer and collects
// every settled outcome. No producer blocks another; a caller deadline makes
// the orchestrator proceed with whatever has settled, counting the rest as
// failures.
func (e *Engine) runSignals(ctx context.Context, domain string, mode Mode) []Outcome {
	names := e.applicableSignals(domain, mode)

	resultsCh := make(chan Outcome, len(names))
	var wg sync.WaitGroup
	for _, name := range names {
		fn := e.producers[name]
		wg.Add(1)
		go func(name string, fn ProducerFunc) {
			defer wg.Done()
			resultsCh <- e.callProducer(ctx, name, fn, domain)
		}(name, fn)
	}

	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	outcomes := make([]Outcome, 0, len(names))
	settled := make(map[string]bool, len(names))
	for len(outcomes) < len(names) {
		select {
		case o, ok := <-resultsCh:
			if !ok {
				return outcomes
			}
			settled[o.Name] = true
			outcomes = append(outcomes, o)
		case <-ctx.Done():
			for _, name := range names {
				if !settled[name] {
					outcomes = append(outcomes, Outcome{
						Name: name,
						Err:  fmt.Errorf("producer %s did not settle: %w", name, ctx.Err()),
					})
				}
			}
			return outcomes
		}
	}
	return outcomes
}

// applicableSignals selects the producers to launch for this mode. The
// exchange check only runs in crypto mode, and is skipped entirely when a
// cached blacklist hit already condemns the domain — a latency optimization
// only; the aggregator's override holds either way.
func (e *Engine) applicableSignals(domain string, mode Mode) []string {
	names := make([]string, 0, len(e.producers))
	for _, name := range producerOrder {
		fn, ok := e.producers[name]
		if !ok || fn == nil {
			continue
		}
		if name == SignalExchange {
			if mode != ModeCrypto {
				continue
			}
			if e.cachedBlacklistHit(domain) {
				slog.Debug("Skipping exchange check for blacklisted domain", "domain", domain)
				continue
			}
		}
		names = append(names, name)
	}
	return names
}

func (e *Engine) callProducer(ctx context.Context, name string, fn ProducerFunc, domain string) Outcome {
	key := domain + "|" + name
	if payload, ok := e.outcomeCache.Get(key); ok {
		return Outcome{Name: name, Payload: payload}
	}

	if e.telemetry.InCooldown(name) {
		return Outcome{Name: name, Err: fmt.Errorf("producer %s is cooling down", name)}
	}

	start := time.Now()
	payload, err := fn(ctx, domain)
	if err != nil {
		e.telemetry.RecordFailure(name, err.Error())
		slog.Warn("Signal producer failed", "producer", name, "domain", domain, "error", err)
		return Outcome{Name: name, Err: err}
	}

	e.telemetry.RecordSuccess(name, time.Since(start))
	// Failures are never cached; a transient outage must not poison the
	// TTL window.
	e.outcomeCache.Set(key, payload, e.outcomeTTL)
	return Outcome{Name: name, Payload: payload}
}

func (e *Engine) cachedBlacklistHit(domain string) bool {
	payload, ok := e.outcomeCache.Get(domain + "|" + SignalBlacklist)
	if !ok {
		return false
	}
	res, ok := payload.(BlacklistResult)
	return ok && res.Listed && (res.Severity == "critical" || res.Severity == "high")
}
