// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package engine

import (
	"log/slog"
	"math"
	"time"
)

// aggregate combines normalized records into one result. Override pass first:
// a confirmed-malicious hit floors the score at 0 and wins over everything,
// a verified exchange match lifts it to 100. Only when neither fires does the
// weighted average run, over records with weight > 0.
func aggregate(domain, originalInput string, records []SignalRecord, th Thresholds) AggregateResult {
	checks := make(map[string]SignalRecord, len(records))
	for _, rec := range records {
		rec.Score = clampScore(rec.Score)
		checks[rec.Name] = rec
	}

	result := AggregateResult{
		Domain:        domain,
		OriginalInput: originalInput,
		Checks:        checks,
		GeneratedAt:   time.Now().UTC(),
	}

	score, degenerate := resolveScore(records)
	result.FinalScore = clampScore(score)
	result.Status = classify(result.FinalScore, th)
	result.Recommendations = buildRecommendations(result.Status, records, degenerate)
	return result
}

func resolveScore(records []SignalRecord) (score int, degenerate bool) {
	floor, ceiling := false, false
	for _, rec := range records {
		switch rec.Override {
		case OverrideFloor:
			floor = true
		case OverrideCeiling:
			ceiling = true
		}
	}
	if floor {
		return 0, false
	}
	if ceiling {
		return 100, false
	}

	var weighted, weightSum float64
	for _, rec := range records {
		if rec.Weight <= 0 {
			continue
		}
		weighted += float64(clampScore(rec.Score)) * rec.Weight
		weightSum += rec.Weight
	}

	if weightSum == 0 {
		// Degenerate configuration: nothing carried weight. Default neutral
		// rather than failing the request.
		slog.Warn("No active-weight signals during aggregation")
		return 100, true
	}

	return int(math.Round(weighted / weightSum)), false
}
