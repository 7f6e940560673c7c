// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package engine

import (
	"fmt"
	"time"

	"github.com/miracle380301/cryptoGuardian-sub000/internal/impersonation"
)

// Normalization adapters: one pure function per signal kind, converting a
// producer outcome into the canonical SignalRecord. A failed producer yields
// a neutral-leaning record with its nominal weight intact; it never aborts
// the evaluation.

func normalizeBlacklist(o Outcome, weight float64) SignalRecord {
	rec := SignalRecord{Name: SignalBlacklist, Weight: weight}

	if o.Err != nil {
		rec.Passed = true
		rec.Score = 100
		rec.Message = "Blacklist registry unavailable; no listing assumed"
		return rec
	}

	res, ok := o.Payload.(BlacklistResult)
	if !ok || !res.Listed {
		rec.Passed = true
		rec.Score = 100
		rec.Message = "Not present on any known blacklist"
		return rec
	}

	rec.Passed = false
	rec.Evidence = map[string]any{
		"severity": res.Severity,
		"source":   res.Source,
		"reason":   res.Reason,
	}
	if !res.ListedAt.IsZero() {
		rec.Evidence["listed_at"] = res.ListedAt.Format(time.RFC3339)
	}

	switch res.Severity {
	case "critical", "high":
		rec.Score = 0
		rec.Override = OverrideFloor
		rec.Message = fmt.Sprintf("Confirmed malicious listing (%s, %s)", res.Source, res.Severity)
	case "medium":
		rec.Score = 20
		rec.Message = fmt.Sprintf("Listed by %s with medium severity", res.Source)
	default:
		rec.Score = 40
		rec.Message = fmt.Sprintf("Listed by %s with low severity", res.Source)
	}
	return rec
}

// normalizeExchange never penalizes ordinary domains: anything short of a
// verified match carries weight 0.
func normalizeExchange(o Outcome, weight float64) SignalRecord {
	rec := SignalRecord{Name: SignalExchange, Passed: true, Score: 100}

	if o.Err != nil {
		rec.Weight = 0
		rec.Message = "Exchange registry unavailable"
		return rec
	}

	res, ok := o.Payload.(ExchangeResult)
	if !ok || !res.Verified {
		rec.Weight = 0
		rec.Message = "Not a registered exchange domain"
		return rec
	}

	rec.Weight = weight
	rec.Override = OverrideCeiling
	rec.Message = fmt.Sprintf("Verified official domain of %s", res.Name)
	rec.Evidence = map[string]any{"exchange": res.Name}
	if res.Country != "" {
		rec.Evidence["country"] = res.Country
	}
	return rec
}

func normalizeRegistration(o Outcome, weight float64) SignalRecord {
	rec := SignalRecord{Name: SignalRegistration, Weight: weight}

	if o.Err != nil {
		rec.Passed = true
		rec.Score = 50
		rec.Message = "Registration data unavailable"
		return rec
	}

	res, ok := o.Payload.(RegistrationResult)
	if !ok {
		rec.Passed = true
		rec.Score = 50
		rec.Message = "Registration data unavailable"
		return rec
	}

	rec.Evidence = map[string]any{
		"age_days":  res.AgeDays,
		"registrar": res.Registrar,
	}
	if len(res.Statuses) > 0 {
		rec.Evidence["statuses"] = res.Statuses
	}

	// A hold or suspension status dominates whatever the age says.
	if holdStatus(res.Statuses) {
		rec.Score = 10
		rec.Passed = false
		rec.Message = "Registry reports the domain as suspended or on hold"
		return rec
	}

	age := ageScore(res.AgeDays)
	rec.Score = age
	rec.Passed = age >= 50
	switch {
	case res.AgeDays < 30:
		rec.Message = fmt.Sprintf("Registered only %d days ago", res.AgeDays)
	case res.AgeDays < 365:
		rec.Message = fmt.Sprintf("Registered %d days ago", res.AgeDays)
	default:
		rec.Message = fmt.Sprintf("Established domain, registered %d days ago", res.AgeDays)
	}
	return rec
}

func ageScore(days int) int {
	switch {
	case days < 30:
		return 20
	case days < 90:
		return 40
	case days < 180:
		return 55
	case days < 365:
		return 70
	case days < 730:
		return 85
	default:
		return 100
	}
}

var holdStatusTokens = []string{"hold", "suspend", "redemption", "pendingdelete"}

func holdStatus(statuses []string) bool {
	for _, s := range statuses {
		for _, token := range holdStatusTokens {
			if containsFold(s, token) {
				return true
			}
		}
	}
	return false
}

// normalizeCertificate: base 70 for a working secure connection, up to +10
// for low handshake latency, +20 when the domain is on the pre-vetted brand
// allow-list. A missing certificate is a hard 0 for this dimension.
func normalizeCertificate(o Outcome, weight float64, allowlisted bool) SignalRecord {
	rec := SignalRecord{Name: SignalCertificate, Weight: weight}

	if o.Err != nil {
		rec.Passed = true
		rec.Score = 50
		rec.Message = "Certificate check unavailable"
		return rec
	}

	res, ok := o.Payload.(CertificateResult)
	if !ok {
		rec.Passed = true
		rec.Score = 50
		rec.Message = "Certificate check unavailable"
		return rec
	}

	rec.Evidence = map[string]any{
		"has_tls":    res.HasTLS,
		"latency_ms": res.LatencyMs,
	}
	if res.Issuer != "" {
		rec.Evidence["issuer"] = res.Issuer
	}
	if res.ResolvedIP != "" {
		rec.Evidence["resolved_ip"] = res.ResolvedIP
	}

	if !res.HasTLS {
		rec.Score = 0
		rec.Message = "No valid certificate; connection is not secure"
		return rec
	}
	if !res.NotAfter.IsZero() && res.NotAfter.Before(time.Now()) {
		rec.Score = 20
		rec.Message = "Certificate has expired"
		return rec
	}

	score := 70
	switch {
	case res.LatencyMs > 0 && res.LatencyMs < 150:
		score += 10
	case res.LatencyMs > 0 && res.LatencyMs < 400:
		score += 5
	}
	if allowlisted {
		score += 20
	}
	if score > 100 {
		score = 100
	}

	rec.Score = score
	rec.Passed = true
	rec.Message = "Valid certificate with a working secure connection"
	return rec
}

func normalizeThreatList(o Outcome, weight float64) SignalRecord {
	rec := SignalRecord{Name: SignalWebThreat, Weight: weight}

	if o.Err != nil {
		rec.Passed = true
		rec.Score = 100
		rec.Message = "Threat feed unavailable; no listing assumed"
		return rec
	}

	res, ok := o.Payload.(ThreatListResult)
	if !ok || !res.Listed {
		rec.Passed = true
		rec.Score = 100
		rec.Message = "Not present on web threat lists"
		return rec
	}

	rec.Score = 0
	rec.Override = OverrideFloor
	rec.Message = fmt.Sprintf("Listed on the %s threat feed", res.Source)
	rec.Evidence = map[string]any{"source": res.Source}
	return rec
}

func normalizeReports(o Outcome, weight float64) SignalRecord {
	rec := SignalRecord{Name: SignalReports, Weight: weight}

	if o.Err != nil {
		rec.Passed = true
		rec.Score = 100
		rec.Message = "Community report store unavailable"
		return rec
	}

	res, ok := o.Payload.(ReportsResult)
	if !ok {
		rec.Passed = true
		rec.Score = 100
		rec.Message = "Community report store unavailable"
		return rec
	}

	rec.Evidence = map[string]any{"count": res.Count}
	if !res.LastReportedAt.IsZero() {
		rec.Evidence["last_reported_at"] = res.LastReportedAt.Format(time.RFC3339)
	}

	switch {
	case res.Count == 0:
		rec.Score = 100
		rec.Passed = true
		rec.Message = "No community reports on record"
	case res.Count < 3:
		rec.Score = 70
		rec.Passed = true
		rec.Message = fmt.Sprintf("%d community report(s) on record", res.Count)
	case res.Count < 10:
		rec.Score = 40
		rec.Passed = false
		rec.Message = fmt.Sprintf("%d community reports on record", res.Count)
	default:
		rec.Score = 10
		rec.Passed = false
		rec.Message = fmt.Sprintf("Heavily reported by the community (%d reports)", res.Count)
	}
	return rec
}

// normalizeImpersonation wraps the pure detector result in the same record
// shape every other dimension uses. A confusable-substitution hit is treated
// as ground truth and floors the aggregate.
func normalizeImpersonation(res impersonation.Result, weight float64) SignalRecord {
	rec := SignalRecord{
		Name:   SignalImpersonation,
		Weight: weight,
		Score:  res.Score,
	}

	ev := map[string]any{
		"min_distance": res.MinDistance,
	}
	if res.MatchedBrand != "" {
		ev["matched_brand"] = res.MatchedBrand
	}
	if len(res.Findings) > 0 {
		ev["findings"] = res.Findings
	}
	rec.Evidence = ev

	switch {
	case res.Legitimate:
		rec.Passed = true
		rec.Message = "Exact match with a known legitimate brand domain"
	case res.ConfusableAttack:
		rec.Passed = false
		rec.Override = OverrideFloor
		rec.Message = fmt.Sprintf("Visually confusable look-alike of %s", res.MatchedBrand)
	case res.Score < 70:
		rec.Passed = false
		rec.Message = "Name resembles a known brand or shows phishing traits"
	default:
		rec.Passed = true
		rec.Message = "No impersonation indicators"
	}
	return rec
}
