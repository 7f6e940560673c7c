// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package engine

import (
	"context"
	"time"
)

// Signal names. Consumers must treat the checks map as open: new names may
// appear without breaking existing clients.
const (
	SignalBlacklist     = "blacklist"
	SignalExchange      = "exchange"
	SignalRegistration  = "registration-age"
	SignalCertificate   = "certificate"
	SignalWebThreat     = "web-threat-list"
	SignalReports       = "community-reports"
	SignalImpersonation = "impersonation"
)

type Mode string

const (
	ModeGeneral Mode = "general"
	ModeCrypto  Mode = "crypto"
)

// Override marks a record whose signal is treated as ground truth. It is an
// engine-internal instruction to the aggregator and never serialized; the
// aggregator reads it instead of interpreting producer evidence.
type Override int

const (
	OverrideNone Override = iota
	// OverrideFloor forces the final score to 0 (confirmed-malicious hit).
	OverrideFloor
	// OverrideCeiling forces the final score to 100 (verified brand).
	OverrideCeiling
)

// SignalRecord is the canonical unit the aggregator consumes: every
// producer's output is normalized into this shape.
type SignalRecord struct {
	Name     string         `json:"name"`
	Passed   bool           `json:"passed"`
	Score    int            `json:"score"`
	Weight   float64        `json:"weight"`
	Message  string         `json:"message"`
	Evidence map[string]any `json:"evidence,omitempty"`

	Override Override `json:"-"`
}

// AggregateResult is the engine's output for one domain lookup. It is owned
// exclusively by the caller once returned.
type AggregateResult struct {
	Domain          string                  `json:"domain"`
	OriginalInput   string                  `json:"original_input"`
	FinalScore      int                     `json:"final_score"`
	Status          string                  `json:"status"`
	Checks          map[string]SignalRecord `json:"checks"`
	Recommendations []string                `json:"recommendations"`
	GeneratedAt     time.Time               `json:"generated_at"`
}

// Clone returns a deep copy so cached results never share mutable state with
// callers.
func (r AggregateResult) Clone() AggregateResult {
	out := r
	out.Checks = make(map[string]SignalRecord, len(r.Checks))
	for name, rec := range r.Checks {
		if rec.Evidence != nil {
			ev := make(map[string]any, len(rec.Evidence))
			for k, v := range rec.Evidence {
				ev[k] = v
			}
			rec.Evidence = ev
		}
		out.Checks[name] = rec
	}
	out.Recommendations = append([]string(nil), r.Recommendations...)
	return out
}

// ProducerFunc is the contract each external signal producer satisfies: given
// a normalized domain it eventually settles with a dimension-specific payload
// or an error. Producers own their internal timeouts and retries.
type ProducerFunc func(ctx context.Context, domain string) (any, error)

// Outcome is one settled producer call.
type Outcome struct {
	Name    string
	Payload any
	Err     error
}

// Producer success payloads, one explicit result type per dimension.

type BlacklistResult struct {
	Listed   bool      `json:"listed"`
	Severity string    `json:"severity,omitempty"` // critical, high, medium, low
	Source   string    `json:"source,omitempty"`
	Reason   string    `json:"reason,omitempty"`
	ListedAt time.Time `json:"listed_at,omitempty"`
}

type ExchangeResult struct {
	Verified bool   `json:"verified"`
	Name     string `json:"name,omitempty"`
	Country  string `json:"country,omitempty"`
}

type RegistrationResult struct {
	CreatedAt time.Time `json:"created_at,omitempty"`
	AgeDays   int       `json:"age_days"`
	Statuses  []string  `json:"statuses,omitempty"`
	Registrar string    `json:"registrar,omitempty"`
}

type CertificateResult struct {
	HasTLS     bool      `json:"has_tls"`
	Issuer     string    `json:"issuer,omitempty"`
	NotAfter   time.Time `json:"not_after,omitempty"`
	LatencyMs  int64     `json:"latency_ms"`
	ResolvedIP string    `json:"resolved_ip,omitempty"`
}

type ThreatListResult struct {
	Listed bool   `json:"listed"`
	Source string `json:"source,omitempty"`
}

type ReportsResult struct {
	Count          int       `json:"count"`
	LastReportedAt time.Time `json:"last_reported_at,omitempty"`
}
