// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package producers

import (
	"context"

	"github.com/miracle380301/cryptoGuardian-sub000/internal/engine"
)

// CheckExchange matches the domain against the registry of verified
// cryptocurrency exchanges.
func (s *Set) CheckExchange(ctx context.Context, domain string) (any, error) {
	ex, err := s.DB.GetVerifiedExchange(ctx, domain)
	if err != nil {
		return nil, err
	}
	if ex == nil {
		return engine.ExchangeResult{Verified: false}, nil
	}
	return engine.ExchangeResult{
		Verified: true,
		Name:     ex.Name,
		Country:  ex.Country,
	}, nil
}
