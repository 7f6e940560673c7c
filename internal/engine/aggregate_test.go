// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package engine

import (
	"testing"
)

func record(name string, score int, weight float64, passed bool) SignalRecord {
	return SignalRecord{Name: name, Score: score, Weight: weight, Passed: passed}
}

func TestAggregateWeightedAverage(t *testing.T) {
	records := []SignalRecord{
		record(SignalBlacklist, 100, 0.25, true),
		record(SignalRegistration, 20, 0.15, false),
		record(SignalImpersonation, 50, 0.60, false),
	}

	res := aggregate("example.com", "example.com", records, DefaultThresholds())
	// 25 + 3 + 30 = 58
	if res.FinalScore != 58 {
		t.Errorf("expected weighted score 58, got %d", res.FinalScore)
	}
	if res.Status != StatusWarning {
		t.Errorf("expected warning, got %s", res.Status)
	}
}

func TestAggregateFloorDominates(t *testing.T) {
	records := []SignalRecord{
		record(SignalRegistration, 100, 0.50, true),
		record(SignalCertificate, 100, 0.30, true),
		{Name: SignalBlacklist, Score: 0, Weight: 0.20, Override: OverrideFloor},
	}

	res := aggregate("evil.com", "evil.com", records, DefaultThresholds())
	if res.FinalScore != 0 {
		t.Errorf("floor override must force score 0, got %d", res.FinalScore)
	}
	if res.Status != StatusDanger {
		t.Errorf("expected danger, got %s", res.Status)
	}
}

func TestAggregateCeilingLifts(t *testing.T) {
	records := []SignalRecord{
		record(SignalRegistration, 20, 0.50, false),
		{Name: SignalExchange, Score: 100, Weight: 0.25, Passed: true, Override: OverrideCeiling},
	}

	res := aggregate("binance.com", "binance.com", records, DefaultThresholds())
	if res.FinalScore != 100 {
		t.Errorf("ceiling override must force score 100, got %d", res.FinalScore)
	}
	if res.Status != StatusSafe {
		t.Errorf("expected safe, got %s", res.Status)
	}
}

func TestAggregateFloorBeatsCeiling(t *testing.T) {
	records := []SignalRecord{
		{Name: SignalExchange, Score: 100, Weight: 0.25, Passed: true, Override: OverrideCeiling},
		{Name: SignalWebThreat, Score: 0, Weight: 0.15, Override: OverrideFloor},
	}

	res := aggregate("hacked-exchange.com", "hacked-exchange.com", records, DefaultThresholds())
	if res.FinalScore != 0 {
		t.Errorf("floor must beat ceiling, got %d", res.FinalScore)
	}
	if res.Status != StatusDanger {
		t.Errorf("expected danger, got %s", res.Status)
	}
}

func TestAggregateZeroWeightExcluded(t *testing.T) {
	base := []SignalRecord{
		record(SignalBlacklist, 80, 0.50, true),
		record(SignalRegistration, 60, 0.50, true),
	}
	withZero := append(append([]SignalRecord{}, base...),
		record(SignalExchange, 0, 0, true))

	a := aggregate("example.com", "example.com", base, DefaultThresholds())
	b := aggregate("example.com", "example.com", withZero, DefaultThresholds())

	if a.FinalScore != b.FinalScore {
		t.Errorf("zero-weight record changed the score: %d vs %d", a.FinalScore, b.FinalScore)
	}
	if _, ok := b.Checks[SignalExchange]; !ok {
		t.Error("zero-weight record must still appear in checks")
	}
}

func TestAggregateDegenerateFallsBackToNeutral(t *testing.T) {
	records := []SignalRecord{
		record(SignalExchange, 0, 0, true),
	}

	res := aggregate("example.com", "example.com", records, DefaultThresholds())
	if res.FinalScore != 100 {
		t.Errorf("expected neutral 100 with no active weights, got %d", res.FinalScore)
	}
	if len(res.Recommendations) == 0 {
		t.Fatal("expected a diagnostic recommendation for the degenerate case")
	}
}

func TestAggregateOrderIndependence(t *testing.T) {
	records := []SignalRecord{
		record(SignalBlacklist, 100, 0.25, true),
		record(SignalRegistration, 40, 0.15, false),
		record(SignalCertificate, 70, 0.15, true),
		record(SignalWebThreat, 100, 0.15, true),
		record(SignalReports, 40, 0.10, false),
		record(SignalImpersonation, 85, 0.20, true),
	}
	reversed := make([]SignalRecord, len(records))
	for i, rec := range records {
		reversed[len(records)-1-i] = rec
	}

	a := aggregate("example.com", "example.com", records, DefaultThresholds())
	b := aggregate("example.com", "example.com", reversed, DefaultThresholds())

	if a.FinalScore != b.FinalScore || a.Status != b.Status {
		t.Errorf("aggregation depends on record order: %d/%s vs %d/%s",
			a.FinalScore, a.Status, b.FinalScore, b.Status)
	}
}

func TestAggregateClampsOutOfRangeScores(t *testing.T) {
	records := []SignalRecord{
		{Name: SignalBlacklist, Score: 250, Weight: 0.5, Passed: true},
		{Name: SignalRegistration, Score: -40, Weight: 0.5, Passed: false},
	}

	res := aggregate("example.com", "example.com", records, DefaultThresholds())
	if res.FinalScore < 0 || res.FinalScore > 100 {
		t.Errorf("final score out of range: %d", res.FinalScore)
	}
	if res.Checks[SignalBlacklist].Score != 100 {
		t.Errorf("stored check score should be clamped to 100, got %d", res.Checks[SignalBlacklist].Score)
	}
	if res.Checks[SignalRegistration].Score != 0 {
		t.Errorf("stored check score should be clamped to 0, got %d", res.Checks[SignalRegistration].Score)
	}
}

func TestCloneIsolation(t *testing.T) {
	records := []SignalRecord{
		{Name: SignalBlacklist, Score: 100, Weight: 0.5, Passed: true,
			Evidence: map[string]any{"source": "feed"}},
	}
	original := aggregate("example.com", "example.com", records, DefaultThresholds())

	clone := original.Clone()
	clone.Checks[SignalBlacklist] = SignalRecord{Name: SignalBlacklist, Score: 0}
	clone.Recommendations = append(clone.Recommendations, "mutated")

	if original.Checks[SignalBlacklist].Score != 100 {
		t.Error("mutating a clone's checks leaked into the original")
	}
	for _, r := range original.Recommendations {
		if r == "mutated" {
			t.Error("mutating a clone's recommendations leaked into the original")
		}
	}
}
