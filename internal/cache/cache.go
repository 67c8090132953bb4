// Package cache provides the request-level TTL cache that fronts air quality
// assembly. Keys are derived from coordinates rounded to a ~1.1km grid so
// nearby requests share entries.
package cache

import (
	"fmt"
	"sync"
	"time"
)

// DefaultTTL is applied when no TTL is configured (15 minutes).
const DefaultTTL = 15 * time.Minute

// Store is an in-memory TTL cache. A single mutex serializes all reads and
// writes; Get lazily evicts expired entries on access. Entries are atomic:
// a value is either fully present or absent, never partially invalidated.
//
// Known gap: there is no single-flight deduplication. Concurrent misses for
// the same key each trigger an independent assemble cycle.
type Store[T any] struct {
	ttl time.Duration

	mu      sync.Mutex
	entries map[string]entry[T]
}

type entry[T any] struct {
	value     T
	createdAt time.Time
}

// New creates a Store with the given TTL. A zero or negative TTL falls back
// to DefaultTTL.
func New[T any](ttl time.Duration) *Store[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store[T]{
		ttl:     ttl,
		entries: make(map[string]entry[T]),
	}
}

// Get returns the cached value for key. Expired entries are deleted on
// access and reported as a miss.
func (s *Store[T]) Get(key string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		var zero T
		return zero, false
	}
	if time.Since(e.createdAt) > s.ttl {
		delete(s.entries, key)
		var zero T
		return zero, false
	}
	return e.value, true
}

// Set stores value under key, overwriting any existing entry and resetting
// its age to now.
func (s *Store[T]) Set(key string, value T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry[T]{value: value, createdAt: time.Now()}
}

// Clear removes all entries.
func (s *Store[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.entries)
}

// Size returns the number of entries, counting expired entries that have not
// been swept yet.
func (s *Store[T]) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}

// CleanupExpired removes all expired entries and returns how many were
// removed.
func (s *Store[T]) CleanupExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	removed := 0
	for key, e := range s.entries {
		if now.Sub(e.createdAt) > s.ttl {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// TTL reports the configured entry lifetime.
func (s *Store[T]) TTL() time.Duration {
	return s.ttl
}

// Key derives the cache key for a coordinate pair. Coordinates are rounded
// to two decimal places so requests within roughly 1.1km hit the same entry.
func Key(lat, lon float64) string {
	return fmt.Sprintf("airquality:%.2f:%.2f", lat, lon)
}
