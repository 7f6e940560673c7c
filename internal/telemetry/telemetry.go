// Package telemetry tracks the health of each signal producer: success and
// failure counts, latency percentiles, and an exponential cooldown that lets
// the orchestrator stop hammering a producer that keeps failing.
package telemetry

import (
	"math"
	"sync"
	"time"
)

type HealthState string

const (
	Healthy   HealthState = "healthy"
	Degraded  HealthState = "degraded"
	Unhealthy HealthState = "unhealthy"

	degradedThreshold  = 3
	unhealthyThreshold = 5
	cooldownBase       = 5 * time.Second
	cooldownMax        = 5 * time.Minute
	latencyWindowSize  = 100
)

type ProducerStats struct {
	Name            string      `json:"name"`
	State           HealthState `json:"state"`
	TotalRequests   int64       `json:"total_requests"`
	SuccessCount    int64       `json:"success_count"`
	FailureCount    int64       `json:"failure_count"`
	ConsecFailures  int         `json:"consecutive_failures"`
	LastError       string      `json:"last_error,omitempty"`
	LastErrorTime   *time.Time  `json:"last_error_time,omitempty"`
	LastSuccessTime *time.Time  `json:"last_success_time,omitempty"`
	AvgLatencyMs    float64     `json:"avg_latency_ms"`
	P95LatencyMs    float64     `json:"p95_latency_ms"`
	InCooldown      bool        `json:"in_cooldown"`
	CooldownUntil   *time.Time  `json:"cooldown_until,omitempty"`
}

type producer struct {
	mu             sync.RWMutex
	name           string
	totalRequests  int64
	successCount   int64
	failureCount   int64
	consecFailures int
	lastError      string
	lastErrorTime  time.Time
	lastSuccess    time.Time
	latencies      []float64
	latencyIdx     int
	latencyFull    bool
	cooldownUntil  time.Time
}

type Registry struct {
	mu        sync.RWMutex
	producers map[string]*producer
}

func NewRegistry() *Registry {
	return &Registry{
		producers: make(map[string]*producer),
	}
}

func (r *Registry) getOrCreate(name string) *producer {
	r.mu.RLock()
	p, ok := r.producers[name]
	r.mu.RUnlock()
	if ok {
		return p
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok = r.producers[name]; ok {
		return p
	}
	p = &producer{
		name:      name,
		latencies: make([]float64, latencyWindowSize),
	}
	r.producers[name] = p
	return p
}

func (r *Registry) RecordSuccess(name string, latency time.Duration) {
	p := r.getOrCreate(name)
	p.mu.Lock()
	defer p.mu.Unlock()

	p.totalRequests++
	p.successCount++
	p.consecFailures = 0
	p.lastSuccess = time.Now()
	p.cooldownUntil = time.Time{}

	ms := float64(latency.Microseconds()) / 1000.0
	p.latencies[p.latencyIdx] = ms
	p.latencyIdx++
	if p.latencyIdx >= latencyWindowSize {
		p.latencyIdx = 0
		p.latencyFull = true
	}
}

func (r *Registry) RecordFailure(name, errMsg string) {
	p := r.getOrCreate(name)
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	p.totalRequests++
	p.failureCount++
	p.consecFailures++
	p.lastError = errMsg
	p.lastErrorTime = now

	if p.consecFailures >= degradedThreshold {
		backoff := time.Duration(math.Min(
			float64(cooldownBase)*math.Pow(2, float64(p.consecFailures-degradedThreshold)),
			float64(cooldownMax),
		))
		p.cooldownUntil = now.Add(backoff)
	}
}

// InCooldown reports whether a producer has failed often enough recently
// that callers should skip it and treat the signal as unavailable.
func (r *Registry) InCooldown(name string) bool {
	r.mu.RLock()
	p, ok := r.producers[name]
	r.mu.RUnlock()
	if !ok {
		return false
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.cooldownUntil.IsZero() {
		return false
	}
	return time.Now().Before(p.cooldownUntil)
}

func (r *Registry) GetStats(name string) ProducerStats {
	p := r.getOrCreate(name)
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.stats()
}

func (r *Registry) AllStats() []ProducerStats {
	r.mu.RLock()
	names := make([]string, 0, len(r.producers))
	for name := range r.producers {
		names = append(names, name)
	}
	r.mu.RUnlock()

	stats := make([]ProducerStats, 0, len(names))
	for _, name := range names {
		stats = append(stats, r.GetStats(name))
	}
	return stats
}

func (p *producer) stats() ProducerStats {
	s := ProducerStats{
		Name:           p.name,
		TotalRequests:  p.totalRequests,
		SuccessCount:   p.successCount,
		FailureCount:   p.failureCount,
		ConsecFailures: p.consecFailures,
		LastError:      p.lastError,
	}

	if !p.lastErrorTime.IsZero() {
		t := p.lastErrorTime
		s.LastErrorTime = &t
	}
	if !p.lastSuccess.IsZero() {
		t := p.lastSuccess
		s.LastSuccessTime = &t
	}

	switch {
	case p.consecFailures >= unhealthyThreshold:
		s.State = Unhealthy
	case p.consecFailures >= degradedThreshold:
		s.State = Degraded
	default:
		s.State = Healthy
	}

	now := time.Now()
	if !p.cooldownUntil.IsZero() && now.Before(p.cooldownUntil) {
		s.InCooldown = true
		t := p.cooldownUntil
		s.CooldownUntil = &t
	}

	count := p.latencyIdx
	if p.latencyFull {
		count = latencyWindowSize
	}
	if count > 0 {
		sorted := make([]float64, count)
		copy(sorted, p.latencies[:count])
		sortFloats(sorted)
		s.AvgLatencyMs = avgFloats(sorted)
		s.P95LatencyMs = sorted[int(float64(len(sorted)-1)*0.95)]
	}

	return s
}

func sortFloats(data []float64) {
	for i := 1; i < len(data); i++ {
		for j := i; j > 0 && data[j-1] > data[j]; j-- {
			data[j-1], data[j] = data[j], data[j-1]
		}
	}
}

func avgFloats(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}
