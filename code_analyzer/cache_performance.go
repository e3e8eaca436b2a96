package code_analyzer

import (
	"time"
)

// PerformanceStats is a point-in-time copy of the cache counters.
type PerformanceStats struct {
	TotalRequests int64
	CacheHits     int64
	CacheMisses   int64
	// HitRate is a percentage in [0, 100].
	HitRate float64
	Uptime  time.Duration
}

// recordCacheHit increments cache hit counter
func (cm *CacheManager) recordCacheHit() {
	if cm.stats == nil {
		return
	}
	cm.stats.mutex.Lock()
	defer cm.stats.mutex.Unlock()
	cm.stats.TotalRequests++
	cm.stats.CacheHits++
}

// recordCacheMiss increments cache miss counter
func (cm *CacheManager) recordCacheMiss() {
	if cm.stats == nil {
		return
	}
	cm.stats.mutex.Lock()
	defer cm.stats.mutex.Unlock()
	cm.stats.TotalRequests++
	cm.stats.CacheMisses++
}

// GetPerformanceStats returns the hit and miss counters since the last reset.
func (cm *CacheManager) GetPerformanceStats() PerformanceStats {
	if cm.stats == nil {
		return PerformanceStats{}
	}

	cm.stats.mutex.RLock()
	defer cm.stats.mutex.RUnlock()

	out := PerformanceStats{
		TotalRequests: cm.stats.TotalRequests,
		CacheHits:     cm.stats.CacheHits,
		CacheMisses:   cm.stats.CacheMisses,
		Uptime:        time.Since(cm.stats.LastResetTime),
	}
	if out.TotalRequests > 0 {
		out.HitRate = float64(out.CacheHits) / float64(out.TotalRequests) * 100
	}
	return out
}

// ResetPerformanceStats resets all performance counters
func (cm *CacheManager) ResetPerformanceStats() {
	if cm.stats == nil {
		return
	}
	cm.stats.mutex.Lock()
	defer cm.stats.mutex.Unlock()

	cm.stats.TotalRequests = 0
	cm.stats.CacheHits = 0
	cm.stats.CacheMisses = 0
	cm.stats.LastResetTime = time.Now()
}
