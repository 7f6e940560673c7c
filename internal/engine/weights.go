package engine

// Weights is the nominal per-dimension weight table. The values are tunable
// configuration, hand-adjusted against labeled phishing sets; the invariant
// that matters is that the normally-active dimensions sum to 1.0 so the
// weighted pass is a true weighted average.
type Weights struct {
	Blacklist     float64 `yaml:"blacklist" json:"blacklist"`
	Exchange      float64 `yaml:"exchange" json:"exchange"`
	Registration  float64 `yaml:"registration" json:"registration"`
	Certificate   float64 `yaml:"certificate" json:"certificate"`
	WebThreat     float64 `yaml:"web_threat" json:"web_threat"`
	Reports       float64 `yaml:"reports" json:"reports"`
	Impersonation float64 `yaml:"impersonation" json:"impersonation"`
}

func DefaultWeights() Weights {
	return Weights{
		Blacklist:     0.25,
		Exchange:      0.25, // applies only on a verified match in crypto mode
		Registration:  0.15,
		Certificate:   0.15,
		WebThreat:     0.15,
		Reports:       0.10,
		Impersonation: 0.20,
	}
}

// Thresholds are the verdict boundaries: score >= Safe is safe, score >=
// Warning is warning, anything below is danger.
type Thresholds struct {
	Safe    int `yaml:"safe" json:"safe"`
	Warning int `yaml:"warning" json:"warning"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{Safe: 80, Warning: 50}
}
