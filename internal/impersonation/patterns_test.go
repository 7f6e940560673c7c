package impersonation

import "testing"

func findingKinds(findings []Finding) map[string]int {
	kinds := make(map[string]int)
	for _, f := range findings {
		kinds[f.Kind] = f.Penalty
	}
	return kinds
}

func TestScorePatternsKeywordsAreCapped(t *testing.T) {
	findings := scorePatterns("wallet-verify-login-secure.tk")
	kinds := findingKinds(findings)

	if kinds["keyword"] != penaltyKeywordCap {
		t.Errorf("four keywords must cap at %d, got %d", penaltyKeywordCap, kinds["keyword"])
	}
	if kinds["risky_tld"] != penaltyRiskyTLD {
		t.Errorf("expected risky TLD penalty %d, got %d", penaltyRiskyTLD, kinds["risky_tld"])
	}
	if kinds["hyphen_excess"] != penaltyHyphenExcess {
		t.Errorf("expected hyphen penalty %d, got %d", penaltyHyphenExcess, kinds["hyphen_excess"])
	}
}

func TestScorePatternsDigitRun(t *testing.T) {
	findings := scorePatterns("promo12345.com")
	kinds := findingKinds(findings)

	if kinds["digit_run"] != penaltyDigitRun {
		t.Errorf("five consecutive digits should be flagged, got %v", findings)
	}

	if kinds := findingKinds(scorePatterns("promo123.com")); kinds["digit_run"] != 0 {
		t.Errorf("three digits must not be flagged, got %v", kinds)
	}
}

func TestScorePatternsShortName(t *testing.T) {
	kinds := findingKinds(scorePatterns("ab.com"))
	if kinds["short_name"] != penaltyShortName {
		t.Errorf("two-letter name should be flagged as short, got %v", kinds)
	}
}

func TestScorePatternsRandomLookingName(t *testing.T) {
	kinds := findingKinds(scorePatterns("xqzvbkr.com"))
	if kinds["random_name"] != penaltyRandomName {
		t.Errorf("vowel-free name should be flagged as random, got %v", kinds)
	}

	if kinds := findingKinds(scorePatterns("weatherforecast.org")); kinds["random_name"] != 0 {
		t.Errorf("pronounceable name must not be flagged, got %v", kinds)
	}
}

func TestScorePatternsCleanDomain(t *testing.T) {
	findings := scorePatterns("wikipedia.org")
	if len(findings) != 0 {
		t.Errorf("clean domain should produce no findings, got %v", findings)
	}
}

func TestCoreLabel(t *testing.T) {
	tests := []struct {
		domain string
		want   string
	}{
		{"upbit-exchange.com", "upbit-exchange"},
		{"www.upbit-exchange.com", "upbit-exchange"},
		{"login.example.co.uk", "example"},
		{"binance.com", "binance"},
	}

	for _, tt := range tests {
		if got := coreLabel(tt.domain); got != tt.want {
			t.Errorf("coreLabel(%q) = %q, want %q", tt.domain, got, tt.want)
		}
	}
}

func TestLongestDigitRun(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"abc", 0},
		{"a1b2", 1},
		{"promo12345", 5},
		{"12ab345", 3},
	}

	for _, tt := range tests {
		if got := longestDigitRun(tt.in); got != tt.want {
			t.Errorf("longestDigitRun(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
