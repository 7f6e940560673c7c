// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package engine

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/idna"
)

// ErrInvalidInput is the only error Evaluate surfaces to the caller; every
// other failure degrades into a neutral signal record.
var ErrInvalidInput = errors.New("invalid domain input")

var (
	labelRegex = regexp.MustCompile(`^[a-zA-Z0-9-]+$`)
	tldRegex   = regexp.MustCompile(`^[a-zA-Z]{2,}$`)
	plainRegex = regexp.MustCompile(`^[a-zA-Z0-9.-]+$`)
)

// NormalizeInput turns raw user input into the canonical domain the engine
// keys everything on: lower-cased, scheme and www. prefix stripped, path,
// query and fragment removed, surrounding whitespace trimmed.
func NormalizeInput(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", fmt.Errorf("%w: empty input", ErrInvalidInput)
	}

	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "www.")

	for _, sep := range []string{"/", "?", "#"} {
		if idx := strings.Index(s, sep); idx >= 0 {
			s = s[:idx]
		}
	}
	if idx := strings.Index(s, ":"); idx >= 0 {
		s = s[:idx]
	}
	s = strings.TrimRight(s, ".")

	if s == "" {
		return "", fmt.Errorf("%w: no host in %q", ErrInvalidInput, raw)
	}

	ascii, err := domainToASCII(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q is not a valid domain", ErrInvalidInput, raw)
	}
	if !validDomain(ascii) {
		return "", fmt.Errorf("%w: %q is not a valid domain", ErrInvalidInput, raw)
	}
	return ascii, nil
}

func domainToASCII(domain string) (string, error) {
	p := idna.New(idna.MapForLookup(), idna.Transitional(false))
	ascii, err := p.ToASCII(domain)
	if err != nil {
		if plainRegex.MatchString(domain) {
			for _, label := range strings.Split(domain, ".") {
				if label == "" || len(label) > 63 || strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
					return "", err
				}
			}
			return domain, nil
		}
		return "", err
	}
	return ascii, nil
}

const maxLabelDepth = 10

func validDomain(domain string) bool {
	if domain == "" || len(domain) > 253 {
		return false
	}
	if strings.Contains(domain, "..") || strings.HasPrefix(domain, ".") || strings.HasPrefix(domain, "-") {
		return false
	}

	labels := strings.Split(domain, ".")
	if len(labels) < 2 || len(labels) > maxLabelDepth {
		return false
	}

	for _, label := range labels {
		if label == "" || len(label) > 63 {
			return false
		}
		if strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return false
		}
		if !labelRegex.MatchString(label) {
			return false
		}
	}

	tld := labels[len(labels)-1]
	return tldRegex.MatchString(tld) || strings.HasPrefix(tld, "xn--")
}
