// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package producers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"

	"github.com/miracle380301/cryptoGuardian-sub000/internal/engine"
)

// Registries disagree on date formats; these cover the common variants.
var whoisDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02",
	"02-Jan-2006",
	"2006.01.02",
}

// CheckRegistration looks up the domain's WHOIS record and reports its
// creation date, age, and EPP statuses. The likexian client has no context
// support, so the blocking call runs in its own goroutine and the caller's
// deadline wins.
func (s *Set) CheckRegistration(ctx context.Context, domain string) (any, error) {
	type whoisReply struct {
		payload engine.RegistrationResult
		err     error
	}
	ch := make(chan whoisReply, 1)

	go func() {
		payload, err := lookupWhois(domain)
		ch <- whoisReply{payload: payload, err: err}
	}()

	select {
	case r := <-ch:
		return r.payload, r.err
	case <-ctx.Done():
		return nil, fmt.Errorf("whois lookup for %s: %w", domain, ctx.Err())
	}
}

func lookupWhois(domain string) (engine.RegistrationResult, error) {
	raw, err := whois.Whois(domain)
	if err != nil {
		return engine.RegistrationResult{}, fmt.Errorf("whois query: %w", err)
	}

	parsed, err := whoisparser.Parse(raw)
	if err != nil || parsed.Domain == nil {
		return engine.RegistrationResult{}, fmt.Errorf("whois parse for %s: %w", domain, err)
	}

	result := engine.RegistrationResult{
		Statuses: parsed.Domain.Status,
	}
	if parsed.Registrar != nil {
		result.Registrar = parsed.Registrar.Name
	}

	created := parseWhoisDate(parsed.Domain)
	if created.IsZero() {
		return engine.RegistrationResult{}, fmt.Errorf("whois record for %s has no parseable creation date", domain)
	}
	result.CreatedAt = created
	result.AgeDays = int(time.Since(created).Hours() / 24)
	return result, nil
}

func parseWhoisDate(d *whoisparser.Domain) time.Time {
	if d.CreatedDateInTime != nil && !d.CreatedDateInTime.IsZero() {
		return *d.CreatedDateInTime
	}
	createdStr := strings.TrimSpace(d.CreatedDate)
	for _, layout := range whoisDateLayouts {
		if t, err := time.Parse(layout, createdStr); err == nil {
			return t
		}
	}
	return time.Time{}
}
