// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package engine

const (
	StatusSafe    = "safe"
	StatusWarning = "warning"
	StatusDanger  = "danger"
)

func classify(score int, th Thresholds) string {
	switch {
	case score >= th.Safe:
		return StatusSafe
	case score >= th.Warning:
		return StatusWarning
	default:
		return StatusDanger
	}
}

// recommendationOrder fixes the severity order recommendations appear in:
// ground-truth signals first, heuristics after.
var recommendationOrder = []string{
	SignalBlacklist,
	SignalWebThreat,
	SignalImpersonation,
	SignalRegistration,
	SignalCertificate,
	SignalReports,
	SignalExchange,
}

var failureAdvice = map[string][]string{
	SignalBlacklist: {
		"Do not trust this site: it appears on a confirmed blacklist.",
		"If you have entered credentials here, change them immediately.",
	},
	SignalWebThreat: {
		"Do not trust this site: it appears on an active web threat list.",
	},
	SignalImpersonation: {
		"This address imitates a well-known brand. Reach the real service by typing its address yourself.",
	},
	SignalRegistration: {
		"This domain is very new or restricted by its registry. Treat unsolicited links to it with suspicion.",
	},
	SignalCertificate: {
		"The connection is not properly secured. Do not submit passwords or payment details.",
	},
	SignalReports: {
		"Multiple users have reported this domain. Check community reports before proceeding.",
	},
}

func buildRecommendations(status string, records []SignalRecord, degenerate bool) []string {
	var recs []string

	if degenerate {
		recs = append(recs, "No trust signals were available for this domain; the score defaults to neutral. Re-check later.")
	}

	switch status {
	case StatusDanger:
		recs = append(recs, "Do not enter credentials or send funds to this site.")
	case StatusWarning:
		recs = append(recs, "Proceed with caution and verify this address through official channels.")
	}

	byName := make(map[string]SignalRecord, len(records))
	for _, rec := range records {
		byName[rec.Name] = rec
	}
	for _, name := range recommendationOrder {
		rec, ok := byName[name]
		if !ok || rec.Passed {
			continue
		}
		recs = append(recs, failureAdvice[name]...)
	}

	recs = append(recs, "Enable two-factor authentication on any account you access from this device.")
	return uniqueStrings(recs)
}
