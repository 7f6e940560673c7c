// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.

// Package producers holds the concrete signal producers the scoring engine
// fans out to. Each producer returns a raw payload; score normalization
// lives in the engine, never here.
package producers

import (
	"github.com/miracle380301/cryptoGuardian-sub000/internal/db"
	"github.com/miracle380301/cryptoGuardian-sub000/internal/engine"
)

// Set bundles every producer with its shared dependencies.
type Set struct {
	DB         *db.Database
	ThreatFeed *ThreatFeed
}

func New(database *db.Database) *Set {
	return &Set{
		DB:         database,
		ThreatFeed: NewThreatFeed(),
	}
}

// Map wires each producer under its canonical signal name, ready for the
// engine's fan-out.
func (s *Set) Map() map[string]engine.ProducerFunc {
	return map[string]engine.ProducerFunc{
		engine.SignalBlacklist:    s.CheckBlacklist,
		engine.SignalExchange:     s.CheckExchange,
		engine.SignalRegistration: s.CheckRegistration,
		engine.SignalCertificate:  s.CheckCertificate,
		engine.SignalWebThreat:    s.ThreatFeed.Check,
		engine.SignalReports:      s.CheckReports,
	}
}
