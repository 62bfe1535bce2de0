package metrics

import "sync/atomic"

// CacheMetric counts lookups that were answered locally versus ones that had
// to go to the network.
type CacheMetric struct {
	name   string
	hits   int64
	misses int64
}

func newCacheMetric(name string) *CacheMetric {
	return &CacheMetric{name: name}
}

// Hit records a lookup answered from the cache.
func (c *CacheMetric) Hit() {
	if enabled {
		atomic.AddInt64(&c.hits, 1)
	}
}

// Miss records a lookup the cache could not answer.
func (c *CacheMetric) Miss() {
	if enabled {
		atomic.AddInt64(&c.misses, 1)
	}
}

// Name returns the metric name.
func (c *CacheMetric) Name() string {
	return c.name
}

// Stats returns a snapshot of the counters.
func (c *CacheMetric) Stats() CacheStats {
	hits := atomic.LoadInt64(&c.hits)
	misses := atomic.LoadInt64(&c.misses)
	var ratio float64
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return CacheStats{Name: c.name, Hits: hits, Misses: misses, HitRatio: ratio}
}

// Reset zeroes the counters.
func (c *CacheMetric) Reset() {
	atomic.StoreInt64(&c.hits, 0)
	atomic.StoreInt64(&c.misses, 0)
}

// CacheStats holds a snapshot of cache counters.
type CacheStats struct {
	Name     string  `json:"name"`
	Hits     int64   `json:"hits"`
	Misses   int64   `json:"misses"`
	HitRatio float64 `json:"hit_ratio"`
}

// StatusCache counts dependency-status lookups.
var StatusCache = newCacheMetric("status_cache")

// AllCacheMetrics returns all registered cache metrics.
func AllCacheMetrics() []*CacheMetric {
	return []*CacheMetric{StatusCache}
}

// AllCacheStats returns stats for cache metrics that have seen any lookup.
func AllCacheStats() []CacheStats {
	var out []CacheStats
	for _, c := range AllCacheMetrics() {
		if st := c.Stats(); st.Hits+st.Misses > 0 {
			out = append(out, st)
		}
	}
	return out
}
