// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package producers

import (
	"context"

	"github.com/miracle380301/cryptoGuardian-sub000/internal/engine"
)

// CheckReports counts community scam reports filed against the domain.
func (s *Set) CheckReports(ctx context.Context, domain string) (any, error) {
	count, last, err := s.DB.CountReports(ctx, domain)
	if err != nil {
		return nil, err
	}
	result := engine.ReportsResult{Count: count}
	if last != nil {
		result.LastReportedAt = *last
	}
	return result, nil
}
