package impersonation

import (
	"fmt"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Pattern penalties are independent of the brand list. They flag structural
// traits that phishing registrations share, each one small on its own.
const (
	penaltyKeyword      = 15
	penaltyKeywordCap   = 30
	penaltyRiskyTLD     = 20
	penaltyDigitRun     = 15
	penaltyHyphenExcess = 10
	penaltyShortName    = 10
	penaltyRandomName   = 15
)

var suspiciousKeywords = []string{
	"verify", "secure", "wallet", "login", "signin", "account",
	"support", "update", "confirm", "recovery", "bonus", "airdrop",
	"giveaway", "exchange", "invest", "mining", "staking", "official",
}

var riskyTLDs = map[string]bool{
	"tk": true, "ml": true, "ga": true, "cf": true, "gq": true,
	"top": true, "xyz": true, "icu": true, "club": true, "buzz": true,
	"online": true, "site": true, "rest": true, "vip": true,
	"work": true, "click": true, "link": true, "loan": true,
}

// coreLabel returns the registrable part of a domain without its public
// suffix ("upbit-exchange" for "www.upbit-exchange.com"). Falls back to the
// left-most label when the suffix table has no answer.
func coreLabel(domain string) string {
	if etld1, err := publicsuffix.EffectiveTLDPlusOne(domain); err == nil {
		if idx := strings.IndexByte(etld1, '.'); idx > 0 {
			return etld1[:idx]
		}
		return etld1
	}
	parts := strings.Split(domain, ".")
	return parts[0]
}

func scorePatterns(domain string) []Finding {
	var findings []Finding

	label := coreLabel(domain)

	keywordPenalty := 0
	var hits []string
	for _, kw := range suspiciousKeywords {
		if strings.Contains(label, kw) {
			hits = append(hits, kw)
			keywordPenalty += penaltyKeyword
		}
	}
	if keywordPenalty > penaltyKeywordCap {
		keywordPenalty = penaltyKeywordCap
	}
	if keywordPenalty > 0 {
		findings = append(findings, Finding{
			Kind:    "keyword",
			Detail:  "risk-signaling keywords: " + strings.Join(hits, ", "),
			Penalty: keywordPenalty,
		})
	}

	if tld := lastLabel(domain); riskyTLDs[tld] {
		findings = append(findings, Finding{
			Kind:    "risky_tld",
			Detail:  "TLD ." + tld + " is statistically associated with abuse",
			Penalty: penaltyRiskyTLD,
		})
	}

	if run := longestDigitRun(label); run >= 4 {
		findings = append(findings, Finding{
			Kind:    "digit_run",
			Detail:  fmt.Sprintf("%d consecutive digits in name", run),
			Penalty: penaltyDigitRun,
		})
	}

	if n := strings.Count(label, "-"); n >= 3 {
		findings = append(findings, Finding{
			Kind:    "hyphen_excess",
			Detail:  fmt.Sprintf("%d hyphens in name", n),
			Penalty: penaltyHyphenExcess,
		})
	}

	if len(label) <= 4 {
		findings = append(findings, Finding{
			Kind:    "short_name",
			Detail:  "unnaturally short name",
			Penalty: penaltyShortName,
		})
	}

	if looksRandom(label) {
		findings = append(findings, Finding{
			Kind:    "random_name",
			Detail:  "name lacks natural phonetic structure",
			Penalty: penaltyRandomName,
		})
	}

	return findings
}

func lastLabel(domain string) string {
	parts := strings.Split(domain, ".")
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

func longestDigitRun(s string) int {
	best, run := 0, 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 0
		}
	}
	return best
}

// looksRandom flags names whose vowel/consonant mix or consonant runs do not
// resemble pronounceable words. Short names are exempt: there is too little
// signal to judge them.
func looksRandom(label string) bool {
	letters := 0
	vowels := 0
	consonantRun := 0
	maxConsonantRun := 0

	for _, r := range label {
		if r < 'a' || r > 'z' {
			consonantRun = 0
			continue
		}
		letters++
		switch r {
		case 'a', 'e', 'i', 'o', 'u', 'y':
			vowels++
			consonantRun = 0
		default:
			consonantRun++
			if consonantRun > maxConsonantRun {
				maxConsonantRun = consonantRun
			}
		}
	}

	if letters < 6 {
		return false
	}

	ratio := float64(vowels) / float64(letters)
	if ratio < 0.15 || ratio > 0.85 {
		return true
	}
	return maxConsonantRun >= 5
}
