// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package engine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func benignProducers() map[string]ProducerFunc {
	future := time.Now().Add(90 * 24 * time.Hour)
	return map[string]ProducerFunc{
		SignalBlacklist:    staticProducer(BlacklistResult{}),
		SignalExchange:     staticProducer(ExchangeResult{}),
		SignalRegistration: staticProducer(RegistrationResult{AgeDays: 3000}),
		SignalCertificate:  staticProducer(CertificateResult{HasTLS: true, NotAfter: future, LatencyMs: 90}),
		SignalWebThreat:    staticProducer(ThreatListResult{}),
		SignalReports:      staticProducer(ReportsResult{}),
	}
}

func TestEvaluateVerifiedExchange(t *testing.T) {
	producers := benignProducers()
	producers[SignalExchange] = staticProducer(ExchangeResult{Verified: true, Name: "Binance", Country: "MT"})

	e := New(WithProducers(producers))
	res, err := e.Evaluate(context.Background(), "binance.com", ModeCrypto)
	if err != nil {
		t.Fatal(err)
	}

	if res.FinalScore != 100 {
		t.Errorf("verified exchange must score 100, got %d", res.FinalScore)
	}
	if res.Status != StatusSafe {
		t.Errorf("expected safe, got %s", res.Status)
	}
	exchange, ok := res.Checks[SignalExchange]
	if !ok {
		t.Fatal("expected an exchange check in the result")
	}
	if !exchange.Passed {
		t.Error("exchange check should pass for a verified domain")
	}
	if imp := res.Checks[SignalImpersonation]; !imp.Passed {
		t.Error("exact brand domain must pass the impersonation check")
	}
}

func TestEvaluateLookAlikeDomain(t *testing.T) {
	future := time.Now().Add(90 * 24 * time.Hour)
	producers := map[string]ProducerFunc{
		SignalBlacklist:    staticProducer(BlacklistResult{}),
		SignalRegistration: staticProducer(RegistrationResult{AgeDays: 10}),
		SignalCertificate:  staticProducer(CertificateResult{HasTLS: true, NotAfter: future, LatencyMs: 90}),
		SignalWebThreat:    staticProducer(ThreatListResult{}),
		SignalReports:      staticProducer(ReportsResult{Count: 5}),
	}

	e := New(WithProducers(producers))
	res, err := e.Evaluate(context.Background(), "upbit-exchange.com", ModeGeneral)
	if err != nil {
		t.Fatal(err)
	}

	// blacklist 100*.25 + registration 20*.15 + certificate 80*.15
	// + web-threat 100*.15 + reports 40*.10 + impersonation 35*.20 = 66
	if res.FinalScore != 66 {
		t.Errorf("expected score 66, got %d", res.FinalScore)
	}
	if res.Status != StatusWarning {
		t.Errorf("expected warning, got %s", res.Status)
	}
	imp, ok := res.Checks[SignalImpersonation]
	if !ok {
		t.Fatal("expected an impersonation check")
	}
	if imp.Passed {
		t.Error("look-alike domain must fail the impersonation check")
	}
}

func TestEvaluateBlacklistedDomain(t *testing.T) {
	producers := benignProducers()
	producers[SignalBlacklist] = staticProducer(BlacklistResult{
		Listed: true, Severity: "critical", Source: "internal", Reason: "confirmed phishing",
	})

	e := New(WithProducers(producers))
	res, err := e.Evaluate(context.Background(), "definitely-a-scam-site.com", ModeGeneral)
	if err != nil {
		t.Fatal(err)
	}

	if res.FinalScore != 0 {
		t.Errorf("blacklisted domain must score 0, got %d", res.FinalScore)
	}
	if res.Status != StatusDanger {
		t.Errorf("expected danger, got %s", res.Status)
	}
	if res.Checks[SignalBlacklist].Passed {
		t.Error("blacklist check must fail")
	}
	if len(res.Recommendations) == 0 {
		t.Error("danger verdict must carry recommendations")
	}
}

func TestEvaluateConfusableLookAlike(t *testing.T) {
	e := New(WithProducers(benignProducers()))
	res, err := e.Evaluate(context.Background(), "paypa1.com", ModeGeneral)
	if err != nil {
		t.Fatal(err)
	}

	if res.FinalScore != 0 {
		t.Errorf("confusable look-alike must score 0, got %d", res.FinalScore)
	}
	if res.Status != StatusDanger {
		t.Errorf("expected danger, got %s", res.Status)
	}
}

func TestEvaluateInvalidInput(t *testing.T) {
	e := New()
	_, err := e.Evaluate(context.Background(), "not..a..domain", ModeGeneral)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestEvaluateProducerFailureDegrades(t *testing.T) {
	producers := benignProducers()
	producers[SignalRegistration] = failingProducer(errors.New("whois offline"))

	e := New(WithProducers(producers))
	res, err := e.Evaluate(context.Background(), "example.com", ModeGeneral)
	if err != nil {
		t.Fatalf("producer failure must not fail the evaluation: %v", err)
	}

	reg, ok := res.Checks[SignalRegistration]
	if !ok {
		t.Fatal("failed producer must still yield a check record")
	}
	if reg.Score != 50 {
		t.Errorf("expected neutral 50 for unavailable registration data, got %d", reg.Score)
	}
}

func TestEvaluateResultCaching(t *testing.T) {
	var calls atomic.Int64
	producers := benignProducers()
	producers[SignalBlacklist] = func(ctx context.Context, domain string) (any, error) {
		calls.Add(1)
		return BlacklistResult{}, nil
	}

	e := New(WithProducers(producers))

	first, err := e.Evaluate(context.Background(), "example.com", ModeGeneral)
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.Evaluate(context.Background(), "example.com", ModeGeneral)
	if err != nil {
		t.Fatal(err)
	}

	if calls.Load() != 1 {
		t.Errorf("second evaluation should be served from cache, got %d producer calls", calls.Load())
	}
	if first.FinalScore != second.FinalScore || first.Status != second.Status {
		t.Error("cached result must match the original")
	}
}

func TestEvaluateCachedResultIsIsolated(t *testing.T) {
	e := New(WithProducers(benignProducers()))

	first, err := e.Evaluate(context.Background(), "example.com", ModeGeneral)
	if err != nil {
		t.Fatal(err)
	}
	first.Checks[SignalBlacklist] = SignalRecord{Name: SignalBlacklist, Score: 0}

	second, err := e.Evaluate(context.Background(), "example.com", ModeGeneral)
	if err != nil {
		t.Fatal(err)
	}
	if second.Checks[SignalBlacklist].Score == 0 {
		t.Error("mutating a returned result must not corrupt the cache")
	}
}

func TestEvaluateModeKeysCacheSeparately(t *testing.T) {
	var calls atomic.Int64
	producers := benignProducers()
	producers[SignalExchange] = func(ctx context.Context, domain string) (any, error) {
		calls.Add(1)
		return ExchangeResult{Verified: true, Name: "Upbit"}, nil
	}

	e := New(WithProducers(producers))

	general, err := e.Evaluate(context.Background(), "upbit.com", ModeGeneral)
	if err != nil {
		t.Fatal(err)
	}
	crypto, err := e.Evaluate(context.Background(), "upbit.com", ModeCrypto)
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := general.Checks[SignalExchange]; ok {
		t.Error("general mode must not include an exchange check")
	}
	if _, ok := crypto.Checks[SignalExchange]; !ok {
		t.Error("crypto mode must include an exchange check")
	}
	if calls.Load() != 1 {
		t.Errorf("exchange producer should run exactly once, got %d", calls.Load())
	}
}

func TestEvaluateNormalizesInputBeforeCaching(t *testing.T) {
	var calls atomic.Int64
	producers := benignProducers()
	producers[SignalBlacklist] = func(ctx context.Context, domain string) (any, error) {
		calls.Add(1)
		if domain != "example.com" {
			t.Errorf("producer received unnormalized domain %q", domain)
		}
		return BlacklistResult{}, nil
	}

	e := New(WithProducers(producers))

	if _, err := e.Evaluate(context.Background(), "https://www.example.com/login", ModeGeneral); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Evaluate(context.Background(), "EXAMPLE.COM", ModeGeneral); err != nil {
		t.Fatal(err)
	}

	if calls.Load() != 1 {
		t.Errorf("equivalent inputs must share one cache entry, got %d producer calls", calls.Load())
	}
}
