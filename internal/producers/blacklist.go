// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package producers

import (
	"context"

	"github.com/miracle380301/cryptoGuardian-sub000/internal/engine"
)

// CheckBlacklist consults the curated blacklist table. Not being listed is a
// successful outcome, not an error.
func (s *Set) CheckBlacklist(ctx context.Context, domain string) (any, error) {
	entry, err := s.DB.GetBlacklistEntry(ctx, domain)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return engine.BlacklistResult{Listed: false}, nil
	}
	return engine.BlacklistResult{
		Listed:   true,
		Severity: entry.Severity,
		Source:   entry.Source,
		Reason:   entry.Reason,
		ListedAt: entry.ListedAt,
	}, nil
}
