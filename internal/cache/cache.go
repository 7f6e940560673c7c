// Package cache provides the in-memory TTL caches the scoring engine uses to
// bound call volume against rate-limited signal producers. Expired entries are
// dropped lazily on read; there is no background sweeper.
package cache

import (
	"sync"
	"time"
)

type Stats struct {
	Name    string `json:"name"`
	Size    int    `json:"size"`
	MaxSize int    `json:"max_size"`
	Hits    int64  `json:"hits"`
	Misses  int64  `json:"misses"`
	HitRate string `json:"hit_rate"`
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

type TTL[V any] struct {
	mu      sync.RWMutex
	name    string
	items   map[string]entry[V]
	maxSize int
	hits    int64
	misses  int64
}

func NewTTL[V any](name string, maxSize int) *TTL[V] {
	return &TTL[V]{
		name:    name,
		items:   make(map[string]entry[V]),
		maxSize: maxSize,
	}
}

// Get returns the cached value for key. An entry past its expiry is treated
// as a miss and removed.
func (c *TTL[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		c.mu.Lock()
		c.misses++
		c.mu.Unlock()
		var zero V
		return zero, false
	}

	if time.Now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.items, key)
		c.misses++
		c.mu.Unlock()
		var zero V
		return zero, false
	}

	c.mu.Lock()
	c.hits++
	c.mu.Unlock()

	return e.value, true
}

// Set stores value under key for ttl. Entries are replaced as a whole; the
// cache never mutates a stored value in place.
func (c *TTL[V]) Set(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; !exists && len(c.items) >= c.maxSize {
		c.evictOldest()
	}

	c.items[key] = entry[V]{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
}

func (c *TTL[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

func (c *TTL[V]) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := c.hits + c.misses
	hitRate := "0%"
	if total > 0 {
		hitRate = formatPercent(float64(c.hits) / float64(total) * 100)
	}

	return Stats{
		Name:    c.name,
		Size:    len(c.items),
		MaxSize: c.maxSize,
		Hits:    c.hits,
		Misses:  c.misses,
		HitRate: hitRate,
	}
}

func (c *TTL[V]) evictOldest() {
	var oldestKey string
	var oldestTime time.Time
	first := true

	for key, e := range c.items {
		if first || e.expiresAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = e.expiresAt
			first = false
		}
	}

	if !first {
		delete(c.items, oldestKey)
	}
}

func formatPercent(v float64) string {
	if v == 0 {
		return "0%"
	}
	return fmtFloat(v, 1) + "%"
}

func fmtFloat(f float64, prec int) string {
	const digits = "0123456789"
	if f < 0 {
		return "-" + fmtFloat(-f, prec)
	}

	mult := 1.0
	for i := 0; i < prec; i++ {
		mult *= 10
	}
	rounded := int(f*mult + 0.5)

	intPart := rounded / int(mult)
	fracPart := rounded % int(mult)

	s := ""
	if intPart == 0 {
		s = "0"
	} else {
		for intPart > 0 {
			s = string(digits[intPart%10]) + s
			intPart /= 10
		}
	}

	if prec > 0 {
		s += "."
		fs := ""
		for i := 0; i < prec; i++ {
			fs = string(digits[fracPart%10]) + fs
			fracPart /= 10
		}
		s += fs
	}

	return s
}
