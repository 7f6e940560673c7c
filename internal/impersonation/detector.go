// Package impersonation scores a domain against a reference set of well-known
// brand domains. It is pure computation: no network I/O, no shared mutable
// state, and bit-identical output for identical inputs.
package impersonation

import (
	"fmt"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Penalty table for the edit-distance sub-algorithm. Distance 1 is almost
// always a deliberate typosquat; distance 4 and beyond is incidental.
const (
	penaltyDistance1 = 60
	penaltyDistance2 = 35
	penaltyDistance3 = 15

	// A brand name embedded in a longer label ("upbit-exchange") is treated
	// like a distance-1 hit: the registrant chose to include the brand.
	penaltyBrandEmbedded = 50

	// Visual-confusable substitution is a deliberate look-alike attack with
	// effectively zero false-positive rate, so it lands near the maximum.
	penaltyConfusable = 95
)

type Finding struct {
	Kind    string `json:"kind"`
	Detail  string `json:"detail"`
	Penalty int    `json:"penalty"`
}

type Result struct {
	Score            int       `json:"score"`
	Legitimate       bool      `json:"legitimate"`
	MatchedBrand     string    `json:"matched_brand,omitempty"`
	MinDistance      int       `json:"min_distance"`
	ConfusableAttack bool      `json:"confusable_attack"`
	Findings         []Finding `json:"findings,omitempty"`
}

type Detector struct {
	brands []Brand
	pairs  [][2]string
}

func New(brands []Brand) *Detector {
	if len(brands) == 0 {
		brands = DefaultBrands()
	}
	return &Detector{
		brands: brands,
		pairs:  confusablePairs,
	}
}

// IsKnownBrand reports whether domain exactly matches a reference brand
// domain, case-insensitively.
func (d *Detector) IsKnownBrand(domain string) bool {
	lower := strings.ToLower(strings.TrimSpace(domain))
	for _, b := range d.brands {
		if lower == strings.ToLower(b.Domain) {
			return true
		}
	}
	return false
}

// Analyze scores a candidate domain. All penalties are accumulated from a
// perfect 100 and floored at zero; a confusable-substitution hit forces the
// score to zero outright.
func (d *Detector) Analyze(domain string) Result {
	domain = strings.TrimSpace(domain)
	lower := strings.ToLower(domain)

	res := Result{Score: 100, MinDistance: -1}

	if d.IsKnownBrand(lower) {
		res.Legitimate = true
		res.MinDistance = 0
		return res
	}

	total := 0

	brandFindings, matched, minDist, confusable := d.matchBrands(domain, lower)
	res.Findings = append(res.Findings, brandFindings...)
	res.MatchedBrand = matched
	res.MinDistance = minDist
	res.ConfusableAttack = confusable
	for _, f := range brandFindings {
		total += f.Penalty
	}

	patternFindings := scorePatterns(lower)
	res.Findings = append(res.Findings, patternFindings...)
	for _, f := range patternFindings {
		total += f.Penalty
	}

	score := 100 - total
	if score < 0 {
		score = 0
	}
	if res.ConfusableAttack {
		score = 0
	}
	res.Score = score
	return res
}

// matchBrands runs the edit-distance and visual-confusable sub-algorithms
// against every reference brand and keeps the single worst hit.
func (d *Detector) matchBrands(original, lower string) (findings []Finding, matched string, minDist int, confusable bool) {
	minDist = -1
	bestPenalty := 0
	var bestFinding Finding

	candLabel := coreLabel(lower)

	for _, b := range d.brands {
		brandLower := strings.ToLower(b.Domain)

		if d.confusableMatch(lower, brandLower) {
			return []Finding{{
				Kind:    "confusable",
				Detail:  fmt.Sprintf("visually confusable with %s (%s)", b.Domain, b.Name),
				Penalty: penaltyConfusable,
			}}, b.Domain, 1, true
		}

		dist := fuzzy.LevenshteinDistance(original, b.Domain)
		if d2 := fuzzy.LevenshteinDistance(lower, brandLower); d2 < dist {
			dist = d2
		}
		if minDist < 0 || dist < minDist {
			minDist = dist
		}

		p := distancePenalty(dist)
		kind := "edit_distance"
		detail := fmt.Sprintf("edit distance %d from %s (%s)", dist, b.Domain, b.Name)

		brandLabel := coreLabel(brandLower)
		if penaltyBrandEmbedded > p && len(brandLabel) >= 4 &&
			candLabel != brandLabel && strings.Contains(candLabel, brandLabel) {
			p = penaltyBrandEmbedded
			kind = "brand_embedded"
			detail = fmt.Sprintf("label %q embeds brand %s (%s)", candLabel, b.Domain, b.Name)
		}

		if p > bestPenalty {
			bestPenalty = p
			matched = b.Domain
			bestFinding = Finding{Kind: kind, Detail: detail, Penalty: p}
		}
	}

	if bestPenalty > 0 {
		findings = append(findings, bestFinding)
	}
	return findings, matched, minDist, false
}

func distancePenalty(dist int) int {
	switch dist {
	case 1:
		return penaltyDistance1
	case 2:
		return penaltyDistance2
	case 3:
		return penaltyDistance3
	default:
		return 0
	}
}

// confusableMatch walks both strings position by position and reports whether
// they differ only by substitutions listed in the confusable table. At least
// one substitution is required, so an exact match never qualifies.
func (d *Detector) confusableMatch(candidate, brand string) bool {
	if candidate == brand {
		return false
	}

	i, j, subs := 0, 0, 0
	for i < len(candidate) && j < len(brand) {
		if candidate[i] == brand[j] {
			i++
			j++
			continue
		}
		matchedPair := false
		for _, p := range d.pairs {
			if strings.HasPrefix(candidate[i:], p[0]) && strings.HasPrefix(brand[j:], p[1]) {
				i += len(p[0])
				j += len(p[1])
				subs++
				matchedPair = true
				break
			}
		}
		if !matchedPair {
			return false
		}
	}
	return i == len(candidate) && j == len(brand) && subs > 0
}
