package worker

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ExpiringCache is the slice of the record cache the sweep job needs.
type ExpiringCache interface {
	CleanupExpired() int
	Size() int
}

// SweepJob evicts expired entries from the record cache. Reads already treat
// expired entries as misses; the sweep only reclaims their memory.
type SweepJob struct {
	cache  ExpiringCache
	logger zerolog.Logger

	mu           sync.Mutex
	totalSweeps  int64
	totalEvicted int64
	lastSweepAt  time.Time
}

// NewSweepJob creates a new sweep job.
func NewSweepJob(cache ExpiringCache, logger zerolog.Logger) *SweepJob {
	return &SweepJob{cache: cache, logger: logger}
}

// Run evicts expired entries and returns how many were removed.
func (j *SweepJob) Run() int {
	if j.cache == nil {
		return 0
	}

	removed := j.cache.CleanupExpired()

	j.mu.Lock()
	j.totalSweeps++
	j.totalEvicted += int64(removed)
	j.lastSweepAt = time.Now()
	j.mu.Unlock()

	j.logger.Info().
		Int("removed", removed).
		Int("remaining", j.cache.Size()).
		Msg("cache sweep completed")

	return removed
}

// TotalEvicted returns the number of entries removed across all sweeps.
func (j *SweepJob) TotalEvicted() int64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.totalEvicted
}

// MetricsSnapshot returns the current metrics as a map for health endpoints.
func (j *SweepJob) MetricsSnapshot() map[string]interface{} {
	j.mu.Lock()
	defer j.mu.Unlock()

	return map[string]interface{}{
		"total_sweeps":  j.totalSweeps,
		"total_evicted": j.totalEvicted,
		"last_sweep_at": j.lastSweepAt,
	}
}
