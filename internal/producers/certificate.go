// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package producers

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"time"

	"codeberg.org/miekg/dns"
	"codeberg.org/miekg/dns/dnsutil"

	"github.com/miracle380301/cryptoGuardian-sub000/internal/engine"
)

var certResolvers = []string{"1.1.1.1", "8.8.8.8"}

const (
	certDialTimeout = 5 * time.Second
	dnsQueryTimeout = 3 * time.Second
)

// CheckCertificate probes the domain's HTTPS endpoint. A refused or absent
// TLS listener is a valid observation (HasTLS=false), not a producer error;
// only internal failures surface as errors.
func (s *Set) CheckCertificate(ctx context.Context, domain string) (any, error) {
	result := engine.CertificateResult{}

	if ip := resolveA(ctx, domain); ip != "" {
		result.ResolvedIP = ip
	}

	dialer := &net.Dialer{Timeout: certDialTimeout}
	start := time.Now()
	conn, err := tls.DialWithDialer(dialer, "tcp", net.JoinHostPort(domain, "443"), &tls.Config{
		ServerName: domain,
	})
	result.LatencyMs = time.Since(start).Milliseconds()
	if err != nil {
		slog.Debug("TLS probe failed", "domain", domain, "error", err)
		return result, nil
	}
	defer conn.Close()

	certs := conn.ConnectionState().PeerCertificates
	if len(certs) == 0 {
		return nil, fmt.Errorf("tls handshake for %s returned no certificates", domain)
	}

	leaf := certs[0]
	result.HasTLS = true
	result.Issuer = leaf.Issuer.CommonName
	result.NotAfter = leaf.NotAfter
	return result, nil
}

// resolveA returns the domain's first A record, or "" when resolution fails.
// The IP is evidence only; the TLS probe dials by name.
func resolveA(ctx context.Context, domain string) string {
	msg := dns.NewMsg(dnsutil.Fqdn(domain), dns.TypeA)
	msg.RecursionDesired = true

	client := &dns.Client{
		Transport: &dns.Transport{
			Dialer:       &net.Dialer{Timeout: dnsQueryTimeout},
			ReadTimeout:  dnsQueryTimeout,
			WriteTimeout: dnsQueryTimeout,
		},
	}

	for _, resolverIP := range certResolvers {
		r, _, err := client.Exchange(ctx, msg, "udp", net.JoinHostPort(resolverIP, "53"))
		if err != nil {
			slog.Debug("A record lookup failed", "resolver", resolverIP, "domain", domain, "error", err)
			continue
		}
		for _, rr := range r.Answer {
			if a, ok := rr.(*dns.A); ok {
				return a.A.Addr.String()
			}
		}
	}
	return ""
}
