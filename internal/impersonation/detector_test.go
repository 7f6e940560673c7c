package impersonation

import (
	"reflect"
	"testing"
)

func TestExactBrandMatchIsLegitimate(t *testing.T) {
	d := New(nil)

	for _, domain := range []string{"binance.com", "BINANCE.COM", "paypal.com", "gate.io"} {
		res := d.Analyze(domain)
		if !res.Legitimate {
			t.Errorf("%s should be recognized as a legitimate brand domain", domain)
		}
		if res.Score != 100 {
			t.Errorf("%s: expected score 100, got %d", domain, res.Score)
		}
		if res.MinDistance != 0 {
			t.Errorf("%s: expected distance 0, got %d", domain, res.MinDistance)
		}
	}
}

func TestIsKnownBrand(t *testing.T) {
	d := New(nil)

	if !d.IsKnownBrand("kraken.com") {
		t.Error("kraken.com is a known brand")
	}
	if !d.IsKnownBrand("  Kraken.COM ") {
		t.Error("brand matching should trim and fold case")
	}
	if d.IsKnownBrand("kraken-login.com") {
		t.Error("kraken-login.com is not a known brand")
	}
}

// Scores must not increase as a candidate gets closer to a brand name.
func TestEditDistanceMonotonicity(t *testing.T) {
	d := New(nil)

	// One extra substitution away from binance.com at each step.
	ladder := []struct {
		domain string
		want   int
	}{
		{"binanze.com", 40},  // distance 1
		{"binarze.com", 65},  // distance 2
		{"bimarze.com", 85},  // distance 3
		{"bumarze.com", 100}, // distance 4, no penalty
	}

	prev := -1
	for _, step := range ladder {
		res := d.Analyze(step.domain)
		if res.Score != step.want {
			t.Errorf("%s: expected score %d, got %d (findings: %v)",
				step.domain, step.want, res.Score, res.Findings)
		}
		if res.Score < prev {
			t.Errorf("%s: score %d dropped below previous %d; farther must never score lower",
				step.domain, res.Score, prev)
		}
		prev = res.Score
	}
}

func TestConfusableSubstitutionAttack(t *testing.T) {
	d := New(nil)

	cases := []struct {
		domain string
		brand  string
	}{
		{"paypa1.com", "paypal.com"},
		{"rnetamask.io", "metamask.io"},
		{"g00gle.com", "google.com"},
	}

	for _, tt := range cases {
		res := d.Analyze(tt.domain)
		if !res.ConfusableAttack {
			t.Errorf("%s: expected a confusable attack against %s", tt.domain, tt.brand)
			continue
		}
		if res.Score != 0 {
			t.Errorf("%s: confusable attack must force score 0, got %d", tt.domain, res.Score)
		}
		if res.MatchedBrand != tt.brand {
			t.Errorf("%s: expected matched brand %s, got %s", tt.domain, tt.brand, res.MatchedBrand)
		}
	}
}

func TestExactMatchNeverCountsAsConfusable(t *testing.T) {
	d := New(nil)

	res := d.Analyze("coinbase.com")
	if res.ConfusableAttack {
		t.Error("an exact brand match must not be flagged as confusable")
	}
}

func TestBrandEmbeddedInLongerName(t *testing.T) {
	d := New(nil)

	res := d.Analyze("upbit-exchange.com")
	if res.Legitimate {
		t.Fatal("upbit-exchange.com is not a legitimate brand domain")
	}
	if res.Score != 35 {
		t.Errorf("expected score 35 (embedded brand 50 + keyword 15), got %d (findings: %v)",
			res.Score, res.Findings)
	}
	if res.MatchedBrand != "upbit.com" {
		t.Errorf("expected matched brand upbit.com, got %s", res.MatchedBrand)
	}

	var sawEmbedded bool
	for _, f := range res.Findings {
		if f.Kind == "brand_embedded" {
			sawEmbedded = true
		}
	}
	if !sawEmbedded {
		t.Errorf("expected a brand_embedded finding, got %v", res.Findings)
	}
}

func TestUnrelatedDomainScoresHigh(t *testing.T) {
	d := New(nil)

	res := d.Analyze("weatherforecast.org")
	if res.Score < 85 {
		t.Errorf("unrelated domain should score high, got %d (findings: %v)", res.Score, res.Findings)
	}
	if res.ConfusableAttack {
		t.Error("unrelated domain must not be a confusable attack")
	}
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	d := New(nil)

	a := d.Analyze("upbit-exchange.com")
	b := d.Analyze("upbit-exchange.com")
	if !reflect.DeepEqual(a, b) {
		t.Errorf("repeated analysis differs:\n%+v\n%+v", a, b)
	}
}

func TestCustomBrandList(t *testing.T) {
	d := New([]Brand{{Domain: "mybank.example", Name: "MyBank"}})

	if !d.IsKnownBrand("mybank.example") {
		t.Error("custom brand should be known")
	}
	if d.IsKnownBrand("binance.com") {
		t.Error("default brands must not leak into a custom list")
	}
}
